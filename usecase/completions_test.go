package usecase

import (
	"context"
	"errors"
	"main/model"
	"main/repository"
	"testing"
	"time"
)

func setupLedgerTest(t *testing.T) (*RecurringTasksService, *CompletionsService, func()) {
	t.Helper()

	db, cleanup := newTestDB(t)
	tasksRepo := &repository.RecurringTasksRepo{
		MongoCollection: db.Collection("recurring_tasks"),
	}
	ledgerRepo := &repository.CompletionsRepo{
		MongoCollection: db.Collection("client_task_completions"),
	}
	tasksSvc := NewRecurringTasksService(tasksRepo, nil, 5*time.Second)
	ledgerSvc := NewCompletionsService(tasksRepo, ledgerRepo, 5*time.Second)
	return tasksSvc, ledgerSvc, cleanup
}

func TestCompletionLedger(t *testing.T) {
	tasksSvc, svc, cleanup := setupLedgerTest(t)
	defer cleanup()

	ctx := context.Background()
	due := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)

	task := newMonthlyTask("Monthly filing", due, time.Time{})
	if err := tasksSvc.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	t.Run("mark and fetch one period", func(t *testing.T) {
		rec, err := svc.MarkCompleted(ctx, task.TaskID, "client-1", "2025-04", "user-1", "", "")
		if err != nil {
			t.Fatalf("MarkCompleted failed: %v", err)
		}
		if !rec.IsCompleted || rec.CompletedBy != "user-1" {
			t.Errorf("unexpected record: %+v", rec)
		}

		fetched, err := svc.GetByClientTaskMonth(ctx, task.TaskID, "client-1", "2025-04")
		if err != nil {
			t.Fatalf("GetByClientTaskMonth failed: %v", err)
		}
		if fetched == nil || fetched.CompletionID != rec.CompletionID {
			t.Errorf("fetched record does not match: %+v", fetched)
		}
	})

	t.Run("repeat mark is idempotent", func(t *testing.T) {
		first, err := svc.GetByClientTaskMonth(ctx, task.TaskID, "client-1", "2025-04")
		if err != nil || first == nil {
			t.Fatalf("seed record missing: %v", err)
		}

		time.Sleep(10 * time.Millisecond)
		second, err := svc.MarkCompleted(ctx, task.TaskID, "client-1", "2025-04", "user-2", "", "")
		if err != nil {
			t.Fatalf("repeat MarkCompleted failed: %v", err)
		}
		if second.CompletionID != first.CompletionID {
			t.Error("repeat mark created a second record")
		}
		if !second.UpdatedAt.After(first.UpdatedAt) {
			t.Error("repeat mark did not advance updated_at")
		}

		records, err := svc.ListByTask(ctx, task.TaskID, "2025-04")
		if err != nil {
			t.Fatalf("ListByTask failed: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("ledger has %d records for the triple, want 1", len(records))
		}
	})

	t.Run("mark incomplete deletes the record", func(t *testing.T) {
		if err := svc.MarkIncomplete(ctx, task.TaskID, "client-1", "2025-04"); err != nil {
			t.Fatalf("MarkIncomplete failed: %v", err)
		}
		rec, err := svc.GetByClientTaskMonth(ctx, task.TaskID, "client-1", "2025-04")
		if err != nil {
			t.Fatalf("GetByClientTaskMonth failed: %v", err)
		}
		if rec != nil {
			t.Errorf("record still present after MarkIncomplete: %+v", rec)
		}

		// A second removal is a no-op, not an error
		if err := svc.MarkIncomplete(ctx, task.TaskID, "client-1", "2025-04"); err != nil {
			t.Errorf("MarkIncomplete on missing record = %v, want nil", err)
		}
	})

	t.Run("toggle twice returns to empty", func(t *testing.T) {
		rec, err := svc.ToggleCompletion(ctx, task.TaskID, "client-2", "2025-04", "user-1", "", "")
		if err != nil {
			t.Fatalf("first toggle failed: %v", err)
		}
		if rec == nil || !rec.IsCompleted {
			t.Fatalf("first toggle did not create a completion: %+v", rec)
		}

		rec, err = svc.ToggleCompletion(ctx, task.TaskID, "client-2", "2025-04", "user-1", "", "")
		if err != nil {
			t.Fatalf("second toggle failed: %v", err)
		}
		if rec != nil {
			t.Errorf("second toggle left a record: %+v", rec)
		}
	})

	t.Run("month key validation", func(t *testing.T) {
		if _, err := svc.MarkCompleted(ctx, task.TaskID, "client-1", "2025-4", "user-1", "", ""); err == nil {
			t.Error("unpadded month key accepted")
		}
		if _, err := svc.GetByClientTaskMonth(ctx, task.TaskID, "client-1", "April"); err == nil {
			t.Error("malformed month key accepted")
		}
	})

	t.Run("missing task", func(t *testing.T) {
		if _, err := svc.MarkCompleted(ctx, "no-such-task", "client-1", "2025-04", "user-1", "", ""); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("MarkCompleted on missing task = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestCompletionLedgerArnAndMappings(t *testing.T) {
	tasksSvc, svc, cleanup := setupLedgerTest(t)
	defer cleanup()

	ctx := context.Background()
	due := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	task := newMonthlyTask("Restricted filing", due, time.Time{})
	task.RequiresArn = true
	task.TeamMemberMappings = []model.TeamMemberMapping{
		{UserID: "member-1", UserName: "Member One", ClientIDs: []string{"client-a"}},
	}
	if err := tasksSvc.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	t.Run("short ARN rejected before the ledger", func(t *testing.T) {
		if _, err := svc.MarkCompleted(ctx, task.TaskID, "client-a", "2025-06", "member-1", "12345678901234", "Preparer"); err == nil {
			t.Fatal("14-digit ARN accepted")
		}
		records, err := svc.ListByTask(ctx, task.TaskID, "")
		if err != nil {
			t.Fatalf("ListByTask failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("rejected mark reached the ledger: %d records", len(records))
		}
	})

	t.Run("mapped member limited to own clients", func(t *testing.T) {
		if _, err := svc.MarkCompleted(ctx, task.TaskID, "client-b", "2025-06", "member-1", "123456789012345", "Preparer"); !errors.Is(err, ErrClientNotMapped) {
			t.Errorf("mark outside mapping = %v, want ErrClientNotMapped", err)
		}
		if _, err := svc.MarkCompleted(ctx, task.TaskID, "client-a", "2025-06", "member-1", "123456789012345", "Preparer"); err != nil {
			t.Errorf("mark inside mapping failed: %v", err)
		}
	})

	t.Run("unmapped user is unrestricted", func(t *testing.T) {
		if _, err := svc.MarkCompleted(ctx, task.TaskID, "client-b", "2025-06", "outsider", "123456789012345", "Preparer"); err != nil {
			t.Errorf("unmapped user mark failed: %v", err)
		}
	})
}

func TestCompletionLedgerBulkUpdate(t *testing.T) {
	tasksSvc, svc, cleanup := setupLedgerTest(t)
	defer cleanup()

	ctx := context.Background()
	due := time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC)

	task := newMonthlyTask("Bulk filing", due, time.Time{})
	if err := tasksSvc.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	entries := []BulkEntry{
		{ClientID: "client-1", MonthKey: "2025-07", IsCompleted: true},
		{ClientID: "client-2", MonthKey: "2025-07", IsCompleted: true},
		{ClientID: "client-3", MonthKey: "2025-07", IsCompleted: true},
	}
	if err := svc.BulkUpdate(ctx, task.TaskID, entries, "user-1"); err != nil {
		t.Fatalf("BulkUpdate failed: %v", err)
	}

	records, err := svc.ListByTask(ctx, task.TaskID, "2025-07")
	if err != nil {
		t.Fatalf("ListByTask failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("ledger has %d records, want 3", len(records))
	}

	// Flip one back off through the same path
	if err := svc.BulkUpdate(ctx, task.TaskID, []BulkEntry{
		{ClientID: "client-2", MonthKey: "2025-07", IsCompleted: false},
	}, "user-1"); err != nil {
		t.Fatalf("BulkUpdate removal failed: %v", err)
	}

	records, err = svc.ListByTask(ctx, task.TaskID, "2025-07")
	if err != nil {
		t.Fatalf("ListByTask failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("ledger has %d records after removal, want 2", len(records))
	}

	// Partial failure reports the bad entry and keeps the rest applied
	err = svc.BulkUpdate(ctx, task.TaskID, []BulkEntry{
		{ClientID: "client-4", MonthKey: "2025-07", IsCompleted: true},
		{ClientID: "client-5", MonthKey: "bad-key", IsCompleted: true},
	}, "user-1")
	if err == nil {
		t.Fatal("BulkUpdate with invalid month key reported no error")
	}

	records, err = svc.ListByTask(ctx, task.TaskID, "2025-07")
	if err != nil {
		t.Fatalf("ListByTask failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("ledger has %d records after partial failure, want 3", len(records))
	}
}

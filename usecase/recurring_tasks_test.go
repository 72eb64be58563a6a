package usecase

import (
	"context"
	"errors"
	"main/model"
	"main/repository"
	"sync"
	"testing"
	"time"
)

func setupTasksTest(t *testing.T) (*repository.RecurringTasksRepo, *RecurringTasksService, func()) {
	t.Helper()

	db, cleanup := newTestDB(t)
	repo := &repository.RecurringTasksRepo{
		MongoCollection: db.Collection("recurring_tasks"),
	}
	svc := NewRecurringTasksService(repo, nil, 5*time.Second)
	return repo, svc, cleanup
}

func newMonthlyTask(title string, due, end time.Time) *model.RecurringTask {
	return &model.RecurringTask{
		Title:     title,
		Pattern:   model.PatternMonthly,
		StartDate: due,
		DueDate:   due,
		EndDate:   end,
		Priority:  model.PriorityHigh,
	}
}

func TestRecurringTaskLifecycle(t *testing.T) {
	_, svc, cleanup := setupTasksTest(t)
	defer cleanup()

	ctx := context.Background()
	due := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	task := newMonthlyTask("GST filing", due, end)
	if err := svc.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.Status != model.StatusPending {
		t.Fatalf("new task status = %q, want pending", task.Status)
	}

	t.Run("pause and resume are idempotent", func(t *testing.T) {
		paused, err := svc.Pause(ctx, task.TaskID)
		if err != nil {
			t.Fatalf("Pause failed: %v", err)
		}
		if !paused.IsPaused {
			t.Error("task not paused after Pause")
		}

		pausedAgain, err := svc.Pause(ctx, task.TaskID)
		if err != nil {
			t.Fatalf("second Pause failed: %v", err)
		}
		if !pausedAgain.IsPaused {
			t.Error("second Pause flipped the flag")
		}
		if !pausedAgain.DueDate.Equal(paused.DueDate) || pausedAgain.Status != paused.Status {
			t.Error("Pause changed fields other than is_paused")
		}

		resumed, err := svc.Resume(ctx, task.TaskID)
		if err != nil {
			t.Fatalf("Resume failed: %v", err)
		}
		if resumed.IsPaused {
			t.Error("task still paused after Resume")
		}
		if !resumed.DueDate.Equal(due) || resumed.Status != model.StatusPending {
			t.Error("pause/resume cycle changed status or due date")
		}
	})

	t.Run("paused task refuses completion", func(t *testing.T) {
		if _, err := svc.Pause(ctx, task.TaskID); err != nil {
			t.Fatalf("Pause failed: %v", err)
		}
		if _, err := svc.CompleteCycle(ctx, task.TaskID, "user-1", "", ""); !errors.Is(err, ErrTaskPaused) {
			t.Errorf("CompleteCycle on paused task = %v, want ErrTaskPaused", err)
		}
		if _, err := svc.Resume(ctx, task.TaskID); err != nil {
			t.Fatalf("Resume failed: %v", err)
		}
	})

	t.Run("complete cycle advances with month-end clamp", func(t *testing.T) {
		updated, err := svc.CompleteCycle(ctx, task.TaskID, "user-1", "", "")
		if err != nil {
			t.Fatalf("CompleteCycle failed: %v", err)
		}

		wantDue := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
		if !updated.DueDate.Equal(wantDue) {
			t.Errorf("due date = %v, want %v", updated.DueDate, wantDue)
		}
		if updated.Status != model.StatusPending {
			t.Errorf("status = %q, want pending", updated.Status)
		}
		if len(updated.CompletionHistory) != 1 {
			t.Errorf("history length = %d, want 1", len(updated.CompletionHistory))
		}
		if updated.Revision != 1 {
			t.Errorf("revision = %d, want 1", updated.Revision)
		}
	})

	t.Run("completion past end date finishes the task", func(t *testing.T) {
		updated, err := svc.CompleteCycle(ctx, task.TaskID, "user-1", "", "")
		if err != nil {
			t.Fatalf("CompleteCycle failed: %v", err)
		}

		if updated.Status != model.StatusCompleted {
			t.Errorf("status = %q, want completed", updated.Status)
		}
		// Due date stays at its pre-call value once the end date is passed
		wantDue := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
		if !updated.DueDate.Equal(wantDue) {
			t.Errorf("due date advanced past end date: %v", updated.DueDate)
		}
		if len(updated.CompletionHistory) != 2 {
			t.Errorf("history length = %d, want 2", len(updated.CompletionHistory))
		}
	})

	t.Run("missing task", func(t *testing.T) {
		if _, err := svc.CompleteCycle(ctx, "no-such-task", "user-1", "", ""); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("CompleteCycle on missing task = %v, want ErrTaskNotFound", err)
		}
		if _, err := svc.Pause(ctx, "no-such-task"); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("Pause on missing task = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestCompleteCycleWithoutEndDate(t *testing.T) {
	_, svc, cleanup := setupTasksTest(t)
	defer cleanup()

	ctx := context.Background()
	due := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)

	task := newMonthlyTask("TDS return", due, time.Time{})
	if err := svc.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	// Without an end date the task never transitions to completed
	current := due
	for i := 0; i < 3; i++ {
		updated, err := svc.CompleteCycle(ctx, task.TaskID, "user-1", "", "")
		if err != nil {
			t.Fatalf("CompleteCycle %d failed: %v", i, err)
		}
		if updated.Status == model.StatusCompleted {
			t.Fatalf("task without end date became completed on cycle %d", i)
		}
		if !updated.DueDate.After(current) {
			t.Fatalf("cycle %d did not advance due date", i)
		}
		current = updated.DueDate
	}
}

func TestAdvanceCycleStaleRevision(t *testing.T) {
	repo, svc, cleanup := setupTasksTest(t)
	defer cleanup()

	ctx := context.Background()
	due := time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)

	task := newMonthlyTask("PF remittance", due, time.Time{})
	if err := svc.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	// An interleaved completion lands first with the revision we read
	entry := model.CompletionEntry{Date: time.Now(), CompletedBy: "user-2"}
	ok, err := repo.AdvanceCycle(ctx, task.TaskID, task.Revision, entry, model.StatusPending, due.AddDate(0, 1, 0), true)
	if err != nil {
		t.Fatalf("AdvanceCycle failed: %v", err)
	}
	if !ok {
		t.Fatal("AdvanceCycle with current revision did not match")
	}

	// Replaying the stale revision must lose the conditional update
	ok, err = repo.AdvanceCycle(ctx, task.TaskID, task.Revision, entry, model.StatusPending, due.AddDate(0, 2, 0), true)
	if err != nil {
		t.Fatalf("stale AdvanceCycle errored: %v", err)
	}
	if ok {
		t.Fatal("stale revision matched the conditional update")
	}

	fetched, err := repo.GetTaskByID(ctx, task.TaskID)
	if err != nil {
		t.Fatalf("GetTaskByID failed: %v", err)
	}
	if len(fetched.CompletionHistory) != 1 {
		t.Errorf("history length = %d after lost update, want 1", len(fetched.CompletionHistory))
	}
	if fetched.Revision != 1 {
		t.Errorf("revision = %d after lost update, want 1", fetched.Revision)
	}

	// The service re-reads before each attempt, so a completion issued
	// after the interleaved write still lands on the fresh revision
	updated, err := svc.CompleteCycle(ctx, task.TaskID, "user-1", "", "")
	if err != nil {
		t.Fatalf("CompleteCycle after interleaved write failed: %v", err)
	}
	if updated.Revision != 2 {
		t.Errorf("revision = %d, want 2", updated.Revision)
	}
	if len(updated.CompletionHistory) != 2 {
		t.Errorf("history length = %d, want 2", len(updated.CompletionHistory))
	}
}

func TestCompleteCycleConcurrent(t *testing.T) {
	repo, svc, cleanup := setupTasksTest(t)
	defer cleanup()

	ctx := context.Background()
	due := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	task := newMonthlyTask("ESI remittance", due, time.Time{})
	if err := svc.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	const workers = 4
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.CompleteCycle(ctx, task.TaskID, "user-1", "", "")
		}(i)
	}
	wg.Wait()

	successes := 0
	for i, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrRevisionConflict):
			// bounded retries exhausted, acceptable under contention
		default:
			t.Fatalf("worker %d failed: %v", i, err)
		}
	}
	if successes == 0 {
		t.Fatal("every concurrent completion reported a conflict")
	}

	// Each winning completion advanced exactly one cycle; no entry was
	// lost or double-applied
	final, err := repo.GetTaskByID(ctx, task.TaskID)
	if err != nil {
		t.Fatalf("GetTaskByID failed: %v", err)
	}
	if len(final.CompletionHistory) != successes {
		t.Errorf("history length = %d, want %d", len(final.CompletionHistory), successes)
	}
	if final.Revision != int64(successes) {
		t.Errorf("revision = %d, want %d", final.Revision, successes)
	}
}

func TestCompleteCycleArnValidation(t *testing.T) {
	_, svc, cleanup := setupTasksTest(t)
	defer cleanup()

	ctx := context.Background()
	due := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)

	task := newMonthlyTask("Annual return", due, time.Time{})
	task.RequiresArn = true
	if err := svc.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := svc.CompleteCycle(ctx, task.TaskID, "user-1", "12345678901234", "Preparer"); err == nil {
		t.Error("14-digit ARN accepted")
	}
	if _, err := svc.CompleteCycle(ctx, task.TaskID, "user-1", "123456789012345", ""); err == nil {
		t.Error("empty ARN name accepted")
	}

	updated, err := svc.CompleteCycle(ctx, task.TaskID, "user-1", "123456789012345", "Preparer")
	if err != nil {
		t.Fatalf("CompleteCycle with valid ARN failed: %v", err)
	}
	entry := updated.CompletionHistory[len(updated.CompletionHistory)-1]
	if entry.ArnNumber != "123456789012345" || entry.ArnName != "Preparer" {
		t.Errorf("history entry missing ARN fields: %+v", entry)
	}
}

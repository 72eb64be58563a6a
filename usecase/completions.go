package usecase

import (
	"context"
	"errors"
	"fmt"
	"main/model"
	"main/repository"
	"main/utils"
	"sync"
	"time"
)

// CompletionsService owns the per-client completion ledger. A ledger
// record exists only while its period is marked complete: undoing a
// completion deletes the record, so "never touched" and "explicitly
// incomplete" look the same to readers.
type CompletionsService struct {
	tasks     *repository.RecurringTasksRepo
	ledger    *repository.CompletionsRepo
	opTimeout time.Duration
}

func NewCompletionsService(tasks *repository.RecurringTasksRepo, ledger *repository.CompletionsRepo, opTimeout time.Duration) *CompletionsService {
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}
	return &CompletionsService{tasks: tasks, ledger: ledger, opTimeout: opTimeout}
}

// BulkEntry is one triple in a bulk update request.
type BulkEntry struct {
	ClientID    string `json:"client_id" binding:"required"`
	MonthKey    string `json:"month_key" binding:"required"`
	IsCompleted bool   `json:"is_completed"`
	ArnNumber   string `json:"arn_number,omitempty"`
	ArnName     string `json:"arn_name,omitempty"`
}

// GetByClientTaskMonth returns the ledger record for a triple, or
// nil, nil when the period has not been touched.
func (svc *CompletionsService) GetByClientTaskMonth(ctx context.Context, taskID, clientID, monthKey string) (*model.ClientTaskCompletion, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	if !model.ValidMonthKey(monthKey) {
		return nil, errors.New("month key must be YYYY-MM")
	}
	return svc.ledger.GetByTriple(ctx, taskID, clientID, monthKey)
}

// ListByTask returns every ledger record for a task, optionally narrowed
// to one month.
func (svc *CompletionsService) ListByTask(ctx context.Context, taskID, monthKey string) ([]*model.ClientTaskCompletion, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	if monthKey != "" && !model.ValidMonthKey(monthKey) {
		return nil, errors.New("month key must be YYYY-MM")
	}
	return svc.ledger.ListByTask(ctx, taskID, monthKey)
}

// MarkCompleted marks one (client, month) complete for a task. Safe to
// call twice: the upsert leaves a single record and only advances
// updated_at on the repeat call.
func (svc *CompletionsService) MarkCompleted(ctx context.Context, taskID, clientID, monthKey, completedBy, arnNumber, arnName string) (*model.ClientTaskCompletion, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	task, err := svc.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := svc.checkMark(task, clientID, monthKey, completedBy, arnNumber, arnName); err != nil {
		return nil, err
	}

	rec := &model.ClientTaskCompletion{
		TaskID:      taskID,
		ClientID:    clientID,
		MonthKey:    monthKey,
		IsCompleted: true,
		CompletedAt: time.Now(),
		CompletedBy: completedBy,
	}
	if task.RequiresArn {
		rec.ArnNumber = arnNumber
		rec.ArnName = arnName
	}

	updated, err := svc.ledger.UpsertCompleted(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("ledger write failed: %w", err)
	}
	utils.TrackLedgerOperation("mark_completed")
	return updated, nil
}

// MarkIncomplete removes the ledger record for a triple. A missing
// record is a no-op, not an error.
func (svc *CompletionsService) MarkIncomplete(ctx context.Context, taskID, clientID, monthKey string) error {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	if !model.ValidMonthKey(monthKey) {
		return errors.New("month key must be YYYY-MM")
	}

	if _, err := svc.loadTask(ctx, taskID); err != nil {
		return err
	}

	if _, err := svc.ledger.DeleteByTriple(ctx, taskID, clientID, monthKey); err != nil {
		return fmt.Errorf("ledger delete failed: %w", err)
	}
	utils.TrackLedgerOperation("mark_incomplete")
	return nil
}

// ToggleCompletion flips the completion state for a triple. Returns the
// new record, or nil, nil when the toggle removed it. Two concurrent
// toggles on one triple race on record existence; last write wins with
// no ordering guarantee.
func (svc *CompletionsService) ToggleCompletion(ctx context.Context, taskID, clientID, monthKey, completedBy, arnNumber, arnName string) (*model.ClientTaskCompletion, error) {
	existing, err := svc.GetByClientTaskMonth(ctx, taskID, clientID, monthKey)
	if err != nil {
		return nil, err
	}

	utils.TrackLedgerOperation("toggle")
	if existing != nil && existing.IsCompleted {
		if err := svc.MarkIncomplete(ctx, taskID, clientID, monthKey); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return svc.MarkCompleted(ctx, taskID, clientID, monthKey, completedBy, arnNumber, arnName)
}

// BulkUpdate applies per-triple marks concurrently, best effort: there
// is no atomicity across entries and no rollback. Failed entries are
// reported together; the rest stay applied.
func (svc *CompletionsService) BulkUpdate(ctx context.Context, taskID string, entries []BulkEntry, completedBy string) error {
	if len(entries) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []error

	for _, entry := range entries {
		wg.Add(1)
		go func(e BulkEntry) {
			defer wg.Done()

			var err error
			if e.IsCompleted {
				_, err = svc.MarkCompleted(ctx, taskID, e.ClientID, e.MonthKey, completedBy, e.ArnNumber, e.ArnName)
			} else {
				err = svc.MarkIncomplete(ctx, taskID, e.ClientID, e.MonthKey)
			}
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("%s/%s: %w", e.ClientID, e.MonthKey, err))
				mu.Unlock()
			}
		}(entry)
	}
	wg.Wait()

	utils.TrackLedgerOperation("bulk")
	if len(failures) > 0 {
		return errors.Join(failures...)
	}
	return nil
}

func (svc *CompletionsService) loadTask(ctx context.Context, taskID string) (*model.RecurringTask, error) {
	task, err := svc.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("backend lookup failed: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (svc *CompletionsService) checkMark(task *model.RecurringTask, clientID, monthKey, completedBy, arnNumber, arnName string) error {
	if !model.ValidMonthKey(monthKey) {
		return errors.New("month key must be YYYY-MM")
	}
	if clientID == "" {
		return errors.New("client id is required")
	}
	if completedBy == "" {
		return errors.New("completed by is required")
	}
	if task.RequiresArn {
		if !utils.ValidateArn(arnNumber) {
			return errors.New("ARN number must be exactly 15 digits")
		}
		if arnName == "" {
			return errors.New("ARN name is required")
		}
	}

	// Mapping restriction only applies to users that appear in a mapping;
	// everyone else is unrestricted.
	for _, mapping := range task.TeamMemberMappings {
		if mapping.UserID != completedBy {
			continue
		}
		for _, id := range mapping.ClientIDs {
			if id == clientID {
				return nil
			}
		}
		return ErrClientNotMapped
	}
	return nil
}

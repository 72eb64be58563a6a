package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
	"strings"
	"time"

	"github.com/google/uuid"
)

// completeCycleRetries bounds the conditional-update loop. Each retry
// re-reads the task, so losing the race to another completion advances
// from that completion's state rather than overwriting it.
const completeCycleRetries = 3

type RecurringTasksService struct {
	repo      *repository.RecurringTasksRepo
	cache     *services.TaskCache // optional, nil disables caching
	opTimeout time.Duration
}

func NewRecurringTasksService(repo *repository.RecurringTasksRepo, cache *services.TaskCache, opTimeout time.Duration) *RecurringTasksService {
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}
	return &RecurringTasksService{repo: repo, cache: cache, opTimeout: opTimeout}
}

func (svc *RecurringTasksService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, svc.opTimeout)
}

// Create Task
func (svc *RecurringTasksService) CreateTask(ctx context.Context, task *model.RecurringTask) error {
	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	if task.Title == "" {
		return errors.New("task title is required")
	}
	if err := validatePriority(task.Priority); err != nil {
		return err
	}
	if _, err := services.NextDate(task.DueDate, task.Pattern); err != nil {
		return err
	}
	if task.DueDate.IsZero() {
		return errors.New("due date is required for recurring tasks")
	}
	if task.StartDate.IsZero() {
		task.StartDate = task.DueDate
	}
	if !task.EndDate.IsZero() && task.EndDate.Before(task.StartDate) {
		return errors.New("end date cannot be before start date")
	}
	if task.RequiresArn {
		for _, mapping := range task.TeamMemberMappings {
			if mapping.UserID == "" {
				return errors.New("team member mapping requires a user id")
			}
		}
	}

	now := time.Now()
	if task.TaskID == "" {
		task.TaskID = uuid.New().String()
	}
	task.Status = model.StatusPending
	task.IsPaused = false
	task.CompletionHistory = []model.CompletionEntry{}
	task.Revision = 0
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := svc.repo.CreateTask(ctx, task); err != nil {
		return err
	}
	utils.TrackTaskOperation("create")
	svc.invalidateCache(ctx)
	return nil
}

// Get a single task
func (svc *RecurringTasksService) GetTask(ctx context.Context, taskID string) (*model.RecurringTask, error) {
	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	task, err := svc.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("backend lookup failed: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// List all tasks, serving from the cache when possible
func (svc *RecurringTasksService) GetAllTasks(ctx context.Context) ([]*model.RecurringTask, error) {
	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	if svc.cache != nil {
		if cached, err := svc.cache.GetTaskList(ctx, "all"); err == nil && cached != nil {
			return cached, nil
		}
	}

	tasks, err := svc.repo.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	if svc.cache != nil {
		if err := svc.cache.SetTaskList(ctx, "all", tasks); err != nil {
			log.Printf("task cache write failed: %v", err)
		}
	}
	return tasks, nil
}

// List tasks for one contact (client or employee)
func (svc *RecurringTasksService) GetTasksByContact(ctx context.Context, contactID string) ([]*model.RecurringTask, error) {
	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	if svc.cache != nil {
		if cached, err := svc.cache.GetTaskList(ctx, contactID); err == nil && cached != nil {
			return cached, nil
		}
	}

	tasks, err := svc.repo.GetTasksByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}

	if svc.cache != nil {
		if err := svc.cache.SetTaskList(ctx, contactID, tasks); err != nil {
			log.Printf("task cache write failed: %v", err)
		}
	}
	return tasks, nil
}

// Search tasks by title or description, case-insensitive
func (svc *RecurringTasksService) SearchTasks(ctx context.Context, searchText string) ([]*model.RecurringTask, error) {
	tasks, err := svc.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	if searchText == "" {
		return []*model.RecurringTask{}, nil
	}

	searchText = strings.ToLower(searchText)
	var results []*model.RecurringTask
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), searchText) ||
			strings.Contains(strings.ToLower(task.Description), searchText) {
			results = append(results, task)
		}
	}
	return results, nil
}

// Update editable task fields. The start date anchor and completion
// history are never editable; status may be reset explicitly here, which
// is the only way back from completed.
func (svc *RecurringTasksService) UpdateTask(ctx context.Context, taskID string, updates *model.RecurringTask) (*model.RecurringTask, error) {
	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	existing, err := svc.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTaskNotFound
	}

	if updates.Title != "" {
		existing.Title = updates.Title
	}
	if updates.Description != "" {
		existing.Description = updates.Description
	}
	if updates.Priority != "" {
		if err := validatePriority(updates.Priority); err != nil {
			return nil, err
		}
		existing.Priority = updates.Priority
	}
	if updates.Status != "" {
		switch updates.Status {
		case model.StatusPending, model.StatusInProgress, model.StatusCompleted:
			existing.Status = updates.Status
		default:
			return nil, errors.New("invalid status")
		}
	}
	if updates.Pattern != "" {
		if _, err := services.NextDate(time.Now(), updates.Pattern); err != nil {
			return nil, err
		}
		existing.Pattern = updates.Pattern
	}
	if !updates.DueDate.IsZero() {
		existing.DueDate = updates.DueDate
	}
	if !updates.EndDate.IsZero() {
		if updates.EndDate.Before(existing.StartDate) {
			return nil, errors.New("end date cannot be before start date")
		}
		existing.EndDate = updates.EndDate
	}
	if updates.ContactIDs != nil {
		existing.ContactIDs = updates.ContactIDs
	}
	if updates.TeamMemberMappings != nil {
		existing.TeamMemberMappings = updates.TeamMemberMappings
	}
	existing.RequiresArn = updates.RequiresArn
	existing.UpdatedAt = time.Now()

	if err := svc.repo.UpdateTask(ctx, taskID, existing); err != nil {
		return nil, err
	}
	utils.TrackTaskOperation("update")
	svc.invalidateCache(ctx)
	return existing, nil
}

// Delete a task (admin path)
func (svc *RecurringTasksService) DeleteTask(ctx context.Context, taskID string) error {
	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	existing, err := svc.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrTaskNotFound
	}
	if err := svc.repo.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	utils.TrackTaskOperation("delete")
	svc.invalidateCache(ctx)
	return nil
}

// Pause stops the scheduler from advancing the task. Idempotent; does
// not touch status or the due date.
func (svc *RecurringTasksService) Pause(ctx context.Context, taskID string) (*model.RecurringTask, error) {
	return svc.setPaused(ctx, taskID, true)
}

// Resume re-enables cycle advancement. Idempotent.
func (svc *RecurringTasksService) Resume(ctx context.Context, taskID string) (*model.RecurringTask, error) {
	return svc.setPaused(ctx, taskID, false)
}

func (svc *RecurringTasksService) setPaused(ctx context.Context, taskID string, paused bool) (*model.RecurringTask, error) {
	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	matched, err := svc.repo.SetPaused(ctx, taskID, paused)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrTaskNotFound
	}

	if paused {
		utils.TrackTaskOperation("pause")
	} else {
		utils.TrackTaskOperation("resume")
	}
	svc.invalidateCache(ctx)

	task, err := svc.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// CompleteCycle records one completion and advances the task to its next
// occurrence. The write is a single conditional update keyed on the
// revision read here, so two concurrent completions cannot both advance
// from the same due date; the loser re-reads and retries.
//
// When the computed next date would pass the end date, the task is
// marked completed and the due date stays where it was.
func (svc *RecurringTasksService) CompleteCycle(ctx context.Context, taskID, completedBy, arnNumber, arnName string) (*model.RecurringTask, error) {
	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	for attempt := 0; attempt < completeCycleRetries; attempt++ {
		task, err := svc.repo.GetTaskByID(ctx, taskID)
		if err != nil {
			return nil, fmt.Errorf("backend lookup failed: %w", err)
		}
		if task == nil {
			return nil, ErrTaskNotFound
		}
		if task.IsPaused {
			return nil, ErrTaskPaused
		}

		if task.RequiresArn {
			if !utils.ValidateArn(arnNumber) {
				return nil, errors.New("ARN number must be exactly 15 digits")
			}
			if arnName == "" {
				return nil, errors.New("ARN name is required")
			}
		}
		if completedBy == "" {
			return nil, errors.New("completed by is required")
		}

		next, err := services.NextDate(task.DueDate, task.Pattern)
		if err != nil {
			return nil, err
		}

		entry := model.CompletionEntry{
			Date:        time.Now(),
			CompletedBy: completedBy,
		}
		if task.RequiresArn {
			entry.ArnNumber = arnNumber
			entry.ArnName = arnName
		}

		advance := task.EndDate.IsZero() || !next.After(task.EndDate)
		newStatus := model.StatusPending
		if !advance {
			newStatus = model.StatusCompleted
		}

		ok, err := svc.repo.AdvanceCycle(ctx, taskID, task.Revision, entry, newStatus, next, advance)
		if err != nil {
			return nil, fmt.Errorf("cycle update failed: %w", err)
		}
		if !ok {
			// Lost the conditional update; re-read and retry
			continue
		}

		task.CompletionHistory = append(task.CompletionHistory, entry)
		task.Status = newStatus
		if advance {
			task.DueDate = next
		}
		task.Revision++
		task.UpdatedAt = time.Now()

		utils.TrackTaskOperation("complete_cycle")
		svc.invalidateCache(ctx)
		return task, nil
	}

	utils.TrackError("task", "revision_conflict")
	return nil, ErrRevisionConflict
}

// Task Stats
func (svc *RecurringTasksService) GetTaskStats(ctx context.Context) (*model.TaskStats, error) {
	tasks, err := svc.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.TaskStats{Total: len(tasks)}
	now := time.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	weekAhead := now.AddDate(0, 0, 7)

	var rateSum float64
	var rated int

	for _, task := range tasks {
		switch task.Status {
		case model.StatusPending:
			stats.Pending++
		case model.StatusInProgress:
			stats.InProgress++
		case model.StatusCompleted:
			stats.Completed++
		}
		if task.IsPaused {
			stats.Paused++
		}

		switch task.Priority {
		case model.PriorityUrgent:
			stats.UrgentPriority++
		case model.PriorityHigh:
			stats.HighPriority++
		case model.PriorityMedium:
			stats.MediumPriority++
		case model.PriorityLow:
			stats.LowPriority++
		}

		if task.Status != model.StatusCompleted {
			if task.DueDate.Before(now) {
				stats.Overdue++
			} else if task.DueDate.Before(endOfToday) {
				stats.DueToday++
			} else if task.DueDate.Before(weekAhead) {
				stats.Upcoming++
			}
		}

		cycles, err := services.TotalCycles(task.StartDate, now, task.Pattern)
		if err != nil || cycles == 0 {
			continue
		}
		rate := float64(len(task.CompletionHistory)) / float64(cycles)
		if rate > 1 {
			rate = 1
		}
		rateSum += rate
		rated++
	}

	if rated > 0 {
		stats.CompletionRate = rateSum / float64(rated)
	}
	return stats, nil
}

func (svc *RecurringTasksService) invalidateCache(ctx context.Context) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.InvalidateAll(ctx); err != nil {
		log.Printf("task cache invalidation failed: %v", err)
	}
}

// helper
func validatePriority(p model.Priority) error {
	switch p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent:
		return nil
	case "": // empty priority is valid
		return nil
	default:
		return errors.New("invalid priority level")
	}
}

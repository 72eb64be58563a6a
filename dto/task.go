package dto

import (
	"main/model"
	"time"
)

type TaskResponse struct {
	ID                 string                    `json:"id"`
	Title              string                    `json:"title"`
	Description        string                    `json:"description"`
	Priority           model.Priority            `json:"priority,omitempty"`
	Status             model.Status              `json:"status"`
	Pattern            model.Pattern             `json:"recurrence_pattern"`
	StartDate          time.Time                 `json:"start_date"`
	DueDate            time.Time                 `json:"due_date"`
	EndDate            *time.Time                `json:"end_date,omitempty"`
	CompletionHistory  []model.CompletionEntry   `json:"completion_history"`
	IsPaused           bool                      `json:"is_paused"`
	ContactIDs         []string                  `json:"contact_ids,omitempty"`
	RequiresArn        bool                      `json:"requires_arn"`
	TeamMemberMappings []model.TeamMemberMapping `json:"team_member_mappings,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
	TimeUntilDue       string                    `json:"time_until_due,omitempty"`
}

// Convert model.RecurringTask to TaskResponse
func ToTaskResponse(task *model.RecurringTask) TaskResponse {
	response := TaskResponse{
		ID:                 task.TaskID,
		Title:              task.Title,
		Description:        task.Description,
		Priority:           task.Priority,
		Status:             task.Status,
		Pattern:            task.Pattern,
		StartDate:          task.StartDate,
		DueDate:            task.DueDate,
		CompletionHistory:  task.CompletionHistory,
		IsPaused:           task.IsPaused,
		ContactIDs:         task.ContactIDs,
		RequiresArn:        task.RequiresArn,
		TeamMemberMappings: task.TeamMemberMappings,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}

	if !task.EndDate.IsZero() {
		response.EndDate = &task.EndDate
	}

	if task.Status != model.StatusCompleted {
		if task.DueDate.Before(time.Now()) {
			response.TimeUntilDue = "Overdue"
		} else {
			response.TimeUntilDue = time.Until(task.DueDate).Round(time.Hour).String()
		}
	}

	return response
}

// Convert slice of model.RecurringTask to slice of TaskResponse
func ToTaskResponses(tasks []*model.RecurringTask) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = ToTaskResponse(task)
	}
	return responses
}

package model

import "time"

type Priority string
type Status string
type Pattern string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"

	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"

	PatternMonthly    Pattern = "monthly"
	PatternQuarterly  Pattern = "quarterly"
	PatternHalfYearly Pattern = "half-yearly"
	PatternYearly     Pattern = "yearly"

	// Legacy patterns kept for imported data; new tasks use the
	// month-based patterns.
	PatternDaily  Pattern = "daily"
	PatternWeekly Pattern = "weekly"
)

// CompletionEntry is one task-level completion. The history is append-only.
type CompletionEntry struct {
	Date        time.Time `bson:"date" json:"date"`
	CompletedBy string    `bson:"completed_by" json:"completed_by"`
	ArnNumber   string    `bson:"arn_number,omitempty" json:"arn_number,omitempty"`
	ArnName     string    `bson:"arn_name,omitempty" json:"arn_name,omitempty"`
}

// TeamMemberMapping restricts which clients a team member may mark
// complete on a task. A task with no mappings is open to everyone.
type TeamMemberMapping struct {
	UserID    string   `bson:"user_id" json:"user_id"`
	UserName  string   `bson:"user_name" json:"user_name"`
	ClientIDs []string `bson:"client_ids" json:"client_ids"`
}

type RecurringTask struct {
	TaskID             string              `bson:"_id,omitempty" json:"id"`
	Title              string              `bson:"title" json:"title" binding:"required"`
	Description        string              `bson:"description" json:"description"`
	Priority           Priority            `bson:"priority,omitempty" json:"priority,omitempty"`
	Status             Status              `bson:"status" json:"status"`
	Pattern            Pattern             `bson:"recurrence_pattern" json:"recurrence_pattern"`
	StartDate          time.Time           `bson:"start_date" json:"start_date"`
	DueDate            time.Time           `bson:"due_date" json:"due_date"`
	EndDate            time.Time           `bson:"end_date,omitempty" json:"end_date,omitempty"`
	CompletionHistory  []CompletionEntry   `bson:"completion_history" json:"completion_history"`
	IsPaused           bool                `bson:"is_paused" json:"is_paused"`
	ContactIDs         []string            `bson:"contact_ids,omitempty" json:"contact_ids,omitempty"`
	RequiresArn        bool                `bson:"requires_arn" json:"requires_arn"`
	TeamMemberMappings []TeamMemberMapping `bson:"team_member_mappings,omitempty" json:"team_member_mappings,omitempty"`
	// Revision is bumped on every cycle completion so concurrent
	// completions can be detected with a conditional update.
	Revision  int64     `bson:"revision" json:"revision"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type TaskStats struct {
	// Basic counts
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Paused     int `json:"paused"`

	// Priority based counts
	UrgentPriority int `json:"urgent_priority"`
	HighPriority   int `json:"high_priority"`
	MediumPriority int `json:"medium_priority"`
	LowPriority    int `json:"low_priority"`

	// Time based counts
	Overdue  int `json:"overdue"`
	DueToday int `json:"due_today"`
	Upcoming int `json:"upcoming"` // Due in next 7 days

	// Completed cycles over elapsed cycles, averaged across tasks.
	// Elapsed cycles use a fixed-day approximation, so this figure
	// is approximate by design.
	CompletionRate float64 `json:"completion_rate"`
}

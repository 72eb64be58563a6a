package model

import (
	"regexp"
	"time"
)

// ClientTaskCompletion is the per-assignee completion ledger. Exactly one
// record may exist per (task, client, month) triple; absence means the
// period has not been touched yet. Undoing a completion deletes the record
// rather than flipping the flag.
type ClientTaskCompletion struct {
	CompletionID string    `bson:"_id,omitempty" json:"id"`
	TaskID       string    `bson:"task_id" json:"task_id"`
	ClientID     string    `bson:"client_id" json:"client_id"`
	MonthKey     string    `bson:"month_key" json:"month_key"`
	IsCompleted  bool      `bson:"is_completed" json:"is_completed"`
	CompletedAt  time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CompletedBy  string    `bson:"completed_by,omitempty" json:"completed_by,omitempty"`
	ArnNumber    string    `bson:"arn_number,omitempty" json:"arn_number,omitempty"`
	ArnName      string    `bson:"arn_name,omitempty" json:"arn_name,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// MonthKeyOf formats a date as the zero-padded "YYYY-MM" period key.
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

// ValidMonthKey reports whether s is a well-formed "YYYY-MM" period key.
func ValidMonthKey(s string) bool {
	return monthKeyPattern.MatchString(s)
}

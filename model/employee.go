package model

import "time"

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
	ShiftOff     Shift = "off"
)

type Employee struct {
	EmployeeID string    `bson:"_id,omitempty" json:"id"`
	Name       string    `bson:"name" json:"name" binding:"required"`
	Email      string    `bson:"email,omitempty" json:"email,omitempty"`
	Role       string    `bson:"role,omitempty" json:"role,omitempty"`
	JoinedAt   time.Time `bson:"joined_at,omitempty" json:"joined_at,omitempty"`
	Active     bool      `bson:"active" json:"active"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// RosterEntry is one shift assignment. Date carries day precision only;
// one entry exists per (employee, date) and re-assignment overwrites it.
type RosterEntry struct {
	EntryID    string    `bson:"_id,omitempty" json:"id"`
	EmployeeID string    `bson:"employee_id" json:"employee_id"`
	Date       time.Time `bson:"date" json:"date"`
	Shift      Shift     `bson:"shift" json:"shift"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

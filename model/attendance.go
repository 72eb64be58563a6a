package model

import "time"

// BreakPeriod is one break inside a working day. End is zero while the
// break is still open.
type BreakPeriod struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end,omitempty" json:"end,omitempty"`
}

// Attendance records one employee-day. CheckOut is zero until the
// employee checks out.
type Attendance struct {
	AttendanceID string        `bson:"_id,omitempty" json:"id"`
	EmployeeID   string        `bson:"employee_id" json:"employee_id"`
	Date         time.Time     `bson:"date" json:"date"`
	CheckIn      time.Time     `bson:"check_in" json:"check_in"`
	CheckOut     time.Time     `bson:"check_out,omitempty" json:"check_out,omitempty"`
	Breaks       []BreakPeriod `bson:"breaks,omitempty" json:"breaks,omitempty"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

// AttendanceSummary is the computed time accounting for one record.
type AttendanceSummary struct {
	EmployeeID string        `json:"employee_id"`
	Date       time.Time     `json:"date"`
	Worked     time.Duration `json:"worked"`
	BreakTime  time.Duration `json:"break_time"`
	Overtime   time.Duration `json:"overtime"`
}

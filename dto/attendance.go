package dto

import (
	"main/model"
	"time"
)

type AttendanceSummaryResponse struct {
	EmployeeID string    `json:"employee_id"`
	Date       time.Time `json:"date"`
	Worked     string    `json:"worked"`
	BreakTime  string    `json:"break_time"`
	Overtime   string    `json:"overtime"`
}

// Convert a computed summary to its response shape with readable durations
func ToAttendanceSummaryResponse(summary model.AttendanceSummary) AttendanceSummaryResponse {
	return AttendanceSummaryResponse{
		EmployeeID: summary.EmployeeID,
		Date:       summary.Date,
		Worked:     summary.Worked.Round(time.Minute).String(),
		BreakTime:  summary.BreakTime.Round(time.Minute).String(),
		Overtime:   summary.Overtime.Round(time.Minute).String(),
	}
}

func ToAttendanceSummaryResponses(summaries []model.AttendanceSummary) []AttendanceSummaryResponse {
	responses := make([]AttendanceSummaryResponse, len(summaries))
	for i, summary := range summaries {
		responses[i] = ToAttendanceSummaryResponse(summary)
	}
	return responses
}

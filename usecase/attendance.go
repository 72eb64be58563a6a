package usecase

import (
	"context"
	"errors"
	"fmt"
	"main/model"
	"main/repository"
	"time"
)

type AttendanceService struct {
	repo        *repository.AttendanceRepo
	employees   *repository.EmployeesRepo
	standardDay time.Duration
	opTimeout   time.Duration
}

func NewAttendanceService(repo *repository.AttendanceRepo, employees *repository.EmployeesRepo, standardDay, opTimeout time.Duration) *AttendanceService {
	if standardDay <= 0 {
		standardDay = 8 * time.Hour
	}
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}
	return &AttendanceService{
		repo:        repo,
		employees:   employees,
		standardDay: standardDay,
		opTimeout:   opTimeout,
	}
}

// CheckIn opens the attendance record for an employee-day. A second
// check-in for the same day is rejected.
func (svc *AttendanceService) CheckIn(ctx context.Context, employeeID string, at time.Time) (*model.Attendance, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	employee, err := svc.employees.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("backend lookup failed: %w", err)
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	if at.IsZero() {
		at = time.Now()
	}
	day := at.Truncate(24 * time.Hour)

	existing, err := svc.repo.GetByEmployeeDay(ctx, employeeID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("already checked in for this day")
	}

	record := &model.Attendance{
		EmployeeID: employeeID,
		Date:       day,
		CheckIn:    at,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := svc.repo.CreateAttendance(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// CheckOut closes the employee's open record. The record is resolved by
// its open state rather than the checkout instant's day, so an overnight
// shift checks out against the day it was opened on.
func (svc *AttendanceService) CheckOut(ctx context.Context, employeeID string, at time.Time) (*model.Attendance, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	if at.IsZero() {
		at = time.Now()
	}

	record, err := svc.repo.GetOpenByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("no check-in found to close")
	}
	if !at.After(record.CheckIn) {
		return nil, errors.New("check-out must be after check-in")
	}

	if err := svc.repo.SetCheckOut(ctx, employeeID, record.Date, at); err != nil {
		return nil, err
	}
	record.CheckOut = at
	return record, nil
}

// RecordBreaks replaces the break list. Every closed break must sit
// inside the worked window and end after it starts.
func (svc *AttendanceService) RecordBreaks(ctx context.Context, employeeID string, date time.Time, breaks []model.BreakPeriod) (*model.Attendance, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	day := date.Truncate(24 * time.Hour)
	record, err := svc.repo.GetByEmployeeDay(ctx, employeeID, day)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("no attendance record for this day")
	}

	for _, b := range breaks {
		if b.Start.IsZero() {
			return nil, errors.New("break start is required")
		}
		if b.Start.Before(record.CheckIn) {
			return nil, errors.New("break cannot start before check-in")
		}
		if !b.End.IsZero() {
			if !b.End.After(b.Start) {
				return nil, errors.New("break end must be after break start")
			}
			if !record.CheckOut.IsZero() && b.End.After(record.CheckOut) {
				return nil, errors.New("break cannot end after check-out")
			}
		}
	}

	if err := svc.repo.SetBreaks(ctx, employeeID, day, breaks); err != nil {
		return nil, err
	}
	record.Breaks = breaks
	return record, nil
}

// Summarize computes the time accounting for one record. Open-ended
// breaks and records without a checkout contribute zero worked time for
// the missing part rather than erroring.
func (svc *AttendanceService) Summarize(record *model.Attendance) model.AttendanceSummary {
	summary := model.AttendanceSummary{
		EmployeeID: record.EmployeeID,
		Date:       record.Date,
	}
	if record.CheckOut.IsZero() {
		return summary
	}

	worked := record.CheckOut.Sub(record.CheckIn)
	var breakTime time.Duration
	for _, b := range record.Breaks {
		if b.End.IsZero() {
			continue
		}
		breakTime += b.End.Sub(b.Start)
	}

	worked -= breakTime
	if worked < 0 {
		worked = 0
	}

	summary.Worked = worked
	summary.BreakTime = breakTime
	if worked > svc.standardDay {
		summary.Overtime = worked - svc.standardDay
	}
	return summary
}

// SummarizeRange computes summaries for an employee across a date range
func (svc *AttendanceService) SummarizeRange(ctx context.Context, employeeID string, from, to time.Time) ([]model.AttendanceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	records, err := svc.repo.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.AttendanceSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, svc.Summarize(record))
	}
	return summaries, nil
}

package usecase

import (
	"context"
	"errors"
	"main/model"
	"main/repository"
	"testing"
	"time"
)

func setupEmployeesTest(t *testing.T) (*EmployeesService, func()) {
	t.Helper()

	db, cleanup := newTestDB(t)
	repo := &repository.EmployeesRepo{
		MongoCollection:  db.Collection("employees"),
		RosterCollection: db.Collection("roster"),
	}
	return NewEmployeesService(repo, 5*time.Second), cleanup
}

func TestAssignShiftOverwritesSameDay(t *testing.T) {
	svc, cleanup := setupEmployeesTest(t)
	defer cleanup()

	ctx := context.Background()
	employee := &model.Employee{Name: "Front Desk"}
	if err := svc.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	day := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)

	first, err := svc.AssignShift(ctx, employee.EmployeeID, day, model.ShiftMorning)
	if err != nil {
		t.Fatalf("AssignShift failed: %v", err)
	}
	if first.Shift != model.ShiftMorning {
		t.Errorf("shift = %q, want morning", first.Shift)
	}

	// Re-assigning the same day overwrites in place
	second, err := svc.AssignShift(ctx, employee.EmployeeID, day, model.ShiftEvening)
	if err != nil {
		t.Fatalf("second AssignShift failed: %v", err)
	}
	if second.EntryID != first.EntryID {
		t.Error("re-assignment created a second roster entry")
	}
	if second.Shift != model.ShiftEvening {
		t.Errorf("shift after re-assignment = %q, want evening", second.Shift)
	}

	entries, err := svc.GetRoster(ctx, employee.EmployeeID, day, day)
	if err != nil {
		t.Fatalf("GetRoster failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("roster has %d entries for the day, want 1", len(entries))
	}
	if entries[0].Shift != model.ShiftEvening {
		t.Errorf("stored shift = %q, want evening", entries[0].Shift)
	}

	// A different day gets its own entry
	other, err := svc.AssignShift(ctx, employee.EmployeeID, day.AddDate(0, 0, 1), model.ShiftMorning)
	if err != nil {
		t.Fatalf("AssignShift for next day failed: %v", err)
	}
	if other.EntryID == first.EntryID {
		t.Error("next-day assignment reused the same entry")
	}
}

func TestAssignShiftValidation(t *testing.T) {
	svc, cleanup := setupEmployeesTest(t)
	defer cleanup()

	ctx := context.Background()
	employee := &model.Employee{Name: "Temp"}
	if err := svc.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	day := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)

	if _, err := svc.AssignShift(ctx, employee.EmployeeID, day, model.Shift("night")); err == nil {
		t.Error("unknown shift accepted")
	}
	if _, err := svc.AssignShift(ctx, "no-such-employee", day, model.ShiftMorning); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("AssignShift for missing employee = %v, want ErrEmployeeNotFound", err)
	}
}

package usecase

import (
	"context"
	"errors"
	"main/model"
	"main/repository"
	"time"

	"github.com/google/uuid"
)

type EmployeesService struct {
	repo      *repository.EmployeesRepo
	opTimeout time.Duration
}

func NewEmployeesService(repo *repository.EmployeesRepo, opTimeout time.Duration) *EmployeesService {
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}
	return &EmployeesService{repo: repo, opTimeout: opTimeout}
}

func (svc *EmployeesService) CreateEmployee(ctx context.Context, employee *model.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	if employee.Name == "" {
		return errors.New("employee name is required")
	}

	now := time.Now()
	if employee.EmployeeID == "" {
		employee.EmployeeID = uuid.New().String()
	}
	if employee.JoinedAt.IsZero() {
		employee.JoinedAt = now
	}
	employee.Active = true
	employee.CreatedAt = now
	employee.UpdatedAt = now

	return svc.repo.CreateEmployee(ctx, employee)
}

func (svc *EmployeesService) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	employee, err := svc.repo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}
	return employee, nil
}

func (svc *EmployeesService) GetAllEmployees(ctx context.Context) ([]*model.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	return svc.repo.GetAllEmployees(ctx)
}

func (svc *EmployeesService) UpdateEmployee(ctx context.Context, employeeID string, updates *model.Employee) (*model.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	existing, err := svc.repo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrEmployeeNotFound
	}

	if updates.Name != "" {
		existing.Name = updates.Name
	}
	if updates.Email != "" {
		existing.Email = updates.Email
	}
	if updates.Role != "" {
		existing.Role = updates.Role
	}
	existing.Active = updates.Active
	existing.UpdatedAt = time.Now()

	if err := svc.repo.UpdateEmployee(ctx, employeeID, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (svc *EmployeesService) DeleteEmployee(ctx context.Context, employeeID string) error {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	existing, err := svc.repo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEmployeeNotFound
	}
	return svc.repo.DeleteEmployee(ctx, employeeID)
}

// AssignShift writes one roster entry; re-assigning the same
// employee-day overwrites the previous shift.
func (svc *EmployeesService) AssignShift(ctx context.Context, employeeID string, date time.Time, shift model.Shift) (*model.RosterEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	switch shift {
	case model.ShiftMorning, model.ShiftEvening, model.ShiftOff:
	default:
		return nil, errors.New("invalid shift")
	}
	if date.IsZero() {
		return nil, errors.New("roster date is required")
	}

	employee, err := svc.repo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	return svc.repo.UpsertRosterEntry(ctx, &model.RosterEntry{
		EmployeeID: employeeID,
		Date:       date,
		Shift:      shift,
	})
}

// GetRoster lists shift assignments for one employee or everyone
func (svc *EmployeesService) GetRoster(ctx context.Context, employeeID string, from, to time.Time) ([]*model.RosterEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	return svc.repo.GetRoster(ctx, employeeID, from, to)
}

package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var fieldValidator = validator.New()

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) AddEmployee(ctx context.Context, emp NewEmployee) (int64, error) {
	emp.Name = strings.TrimSpace(emp.Name)
	emp.Email = strings.TrimSpace(emp.Email)
	if err := ValidateNewEmployee(emp); err != nil {
		return 0, err
	}
	return s.store.CreateEmployee(ctx, emp)
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	emp, found, err := s.store.FindActiveByID(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if !found {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, nil
}

// LookupEmployee also returns deactivated employees, for rendering their past payslips.
func (s *Service) LookupEmployee(ctx context.Context, id int64) (Employee, error) {
	emp, found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if !found {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.store.ListActive(ctx)
}

// UpdateSalary changes the components used by future payslips; issued payslips keep their snapshot.
func (s *Service) UpdateSalary(ctx context.Context, id int64, salary SalaryComponents) error {
	if salary.Negative() {
		return fmt.Errorf("%w: salary components cannot be negative", ErrInvalidEmployee)
	}
	updated, err := s.store.UpdateSalary(ctx, id, salary.BaseSalary, salary.HRA, salary.Allowance)
	if err != nil {
		return err
	}
	if !updated {
		return ErrEmployeeNotFound
	}
	return nil
}

// DeactivateEmployee is a soft delete: the row and its payslips stay.
func (s *Service) DeactivateEmployee(ctx context.Context, id int64) error {
	deactivated, err := s.store.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !deactivated {
		return ErrEmployeeNotFound
	}
	return nil
}

func ValidateNewEmployee(emp NewEmployee) error {
	if strings.TrimSpace(emp.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidEmployee)
	}
	if err := fieldValidator.Var(emp.Email, "required,email"); err != nil {
		return fmt.Errorf("%w: invalid email format", ErrInvalidEmployee)
	}
	if emp.JoinDate.IsZero() {
		return fmt.Errorf("%w: join date is required", ErrInvalidEmployee)
	}
	salary := SalaryComponents{BaseSalary: emp.BaseSalary, HRA: emp.HRA, Allowance: emp.Allowance}
	if salary.Negative() {
		return fmt.Errorf("%w: salary components cannot be negative", ErrInvalidEmployee)
	}
	return nil
}

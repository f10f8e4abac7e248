package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Publisher is told about every payslip after it has been stored.
type Publisher interface {
	PublishPayslipIssued(ctx context.Context, payslip Payslip) error
}

type Observer interface {
	ObserveIssue(outcome string, elapsed time.Duration)
}

const (
	OutcomeIssued           = "issued"
	OutcomeDuplicate        = "duplicate"
	OutcomeInvalidPeriod    = "invalid_period"
	OutcomeEmployeeNotFound = "employee_not_found"
	OutcomeInvalidInput     = "invalid_input"
	OutcomeStorageError     = "storage_error"
)

type Issuer struct {
	employees EmployeeRepository
	payslips  PayslipRepository
	now       func() time.Time
	publisher Publisher
	observer  Observer
}

type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(s *Issuer) {
		if now != nil {
			s.now = now
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Issuer) { s.publisher = p }
}

func WithObserver(o Observer) Option {
	return func(s *Issuer) { s.observer = o }
}

func NewIssuer(employees EmployeeRepository, payslips PayslipRepository, opts ...Option) *Issuer {
	s := &Issuer{employees: employees, payslips: payslips, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue validates the period, the employee and the absence of an earlier payslip, in that
// order, then computes and stores the payslip. Nothing is stored when any step fails.
func (s *Issuer) Issue(ctx context.Context, employeeID int64, month, year int) (payslip Payslip, err error) {
	start := time.Now()
	defer func() { s.observe(err, time.Since(start)) }()

	if !(Period{Month: month, Year: year}).Valid() {
		return Payslip{}, fmt.Errorf("%w: got %d/%d", ErrInvalidPeriod, month, year)
	}

	emp, found, err := s.employees.FindActiveByID(ctx, employeeID)
	if err != nil {
		return Payslip{}, storageErr("find employee", err)
	}
	if !found {
		return Payslip{}, fmt.Errorf("%w: id %d", ErrEmployeeNotFound, employeeID)
	}

	exists, err := s.payslips.ExistsForPeriod(ctx, employeeID, month, year)
	if err != nil {
		return Payslip{}, storageErr("check payslip period", err)
	}
	if exists {
		return Payslip{}, fmt.Errorf("%w: employee %d, %02d/%d", ErrDuplicatePayslip, employeeID, month, year)
	}

	breakdown, err := Compute(emp.BaseSalary, emp.HRA, emp.Allowance)
	if err != nil {
		return Payslip{}, err
	}
	now := s.now().UTC()
	draft := PayslipDraft{
		EmployeeID: emp.ID,
		Month:      month,
		Year:       year,
		IssuedOn:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Breakdown:  breakdown,
	}

	payslip, err = s.payslips.Save(ctx, draft)
	if err != nil {
		return Payslip{}, storageErr("save payslip", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPayslipIssued(ctx, payslip); err != nil {
			slog.Warn("payslip issued event not published", "payslipId", payslip.ID, "employeeId", payslip.EmployeeID, "err", err)
		}
	}
	return payslip, nil
}

func (s *Issuer) Get(ctx context.Context, payslipID int64) (Payslip, error) {
	payslip, found, err := s.payslips.FindByID(ctx, payslipID)
	if err != nil {
		return Payslip{}, storageErr("find payslip", err)
	}
	if !found {
		return Payslip{}, fmt.Errorf("%w: id %d", ErrNotFound, payslipID)
	}
	return payslip, nil
}

// ListForEmployee returns the most recent period first. Deactivated employees keep their history.
func (s *Issuer) ListForEmployee(ctx context.Context, employeeID int64) ([]Payslip, error) {
	exists, err := s.employees.Exists(ctx, employeeID)
	if err != nil {
		return nil, storageErr("check employee", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", ErrEmployeeNotFound, employeeID)
	}
	payslips, err := s.payslips.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, storageErr("list employee payslips", err)
	}
	return payslips, nil
}

// ListForPeriod returns payslips ordered by employee ID. An empty period is not an error.
func (s *Issuer) ListForPeriod(ctx context.Context, month, year int) ([]Payslip, error) {
	if !(Period{Month: month, Year: year}).Valid() {
		return nil, fmt.Errorf("%w: got %d/%d", ErrInvalidPeriod, month, year)
	}
	payslips, err := s.payslips.FindByPeriod(ctx, month, year)
	if err != nil {
		return nil, storageErr("list period payslips", err)
	}
	return payslips, nil
}

func (s *Issuer) observe(err error, elapsed time.Duration) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveIssue(Outcome(err), elapsed)
}

// Outcome names the result of an Issue call for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeIssued
	case errors.Is(err, ErrDuplicatePayslip):
		return OutcomeDuplicate
	case errors.Is(err, ErrInvalidPeriod):
		return OutcomeInvalidPeriod
	case errors.Is(err, ErrEmployeeNotFound):
		return OutcomeEmployeeNotFound
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	default:
		return OutcomeStorageError
	}
}

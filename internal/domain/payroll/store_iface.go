package payroll

import (
	"context"

	"payroll/internal/domain/core"
)

type EmployeeRepository interface {
	FindActiveByID(ctx context.Context, id int64) (core.Employee, bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PayslipRepository must reject a second payslip for the same employee, month and year
// with ErrDuplicatePayslip, even when two Saves race.
type PayslipRepository interface {
	ExistsForPeriod(ctx context.Context, employeeID int64, month, year int) (bool, error)
	Save(ctx context.Context, draft PayslipDraft) (Payslip, error)
	FindByID(ctx context.Context, id int64) (Payslip, bool, error)
	FindByEmployee(ctx context.Context, employeeID int64) ([]Payslip, error)
	FindByPeriod(ctx context.Context, month, year int) ([]Payslip, error)
}

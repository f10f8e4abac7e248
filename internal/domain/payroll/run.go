package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"payroll/internal/domain/core"
)

type ActiveEmployeeLister interface {
	ListActive(ctx context.Context) ([]core.Employee, error)
}

// Runner issues one payslip per active employee. Every issuance is independent: a failure for
// one employee never undoes payslips already issued for others.
type Runner struct {
	issuer    *Issuer
	employees ActiveEmployeeLister
}

func NewRunner(issuer *Issuer, employees ActiveEmployeeLister) *Runner {
	return &Runner{issuer: issuer, employees: employees}
}

func (r *Runner) RunMonth(ctx context.Context, period Period) (RunResult, error) {
	result := RunResult{Period: period, Issued: []Payslip{}, Skipped: []int64{}}
	if !period.Valid() {
		return result, fmt.Errorf("%w: got %d/%d", ErrInvalidPeriod, period.Month, period.Year)
	}

	employees, err := r.employees.ListActive(ctx)
	if err != nil {
		return result, storageErr("list active employees", err)
	}

	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		payslip, err := r.issuer.Issue(ctx, emp.ID, period.Month, period.Year)
		switch {
		case err == nil:
			result.Issued = append(result.Issued, payslip)
		case errors.Is(err, ErrDuplicatePayslip):
			result.Skipped = append(result.Skipped, emp.ID)
		case errors.Is(err, ErrStorage):
			return result, err
		default:
			result.Failed = append(result.Failed, RunFailure{EmployeeID: emp.ID, Reason: err.Error()})
		}
	}

	slog.Info("payroll run finished",
		"month", period.Month, "year", period.Year,
		"issued", len(result.Issued), "skipped", len(result.Skipped), "failed", len(result.Failed))
	return result, nil
}

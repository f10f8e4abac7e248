package payroll

import (
	"errors"
	"fmt"

	"payroll/internal/domain/core"
)

var (
	ErrInvalidInput     = errors.New("invalid salary input")
	ErrInvalidPeriod    = errors.New("month must be between 1 and 12 and year must be positive")
	ErrEmployeeNotFound = core.ErrEmployeeNotFound
	ErrDuplicatePayslip = errors.New("payslip already exists for this employee and period")
	ErrNotFound         = errors.New("payslip not found")
	ErrStorage          = errors.New("payroll storage failure")
)

// StorageError carries a repository failure through the issuer untouched.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// storageErr passes domain errors through and wraps everything else.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrDuplicatePayslip, ErrEmployeeNotFound, ErrNotFound, ErrStorage} {
		if errors.Is(err, known) {
			return err
		}
	}
	return &StorageError{Op: op, Err: err}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

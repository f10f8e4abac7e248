package payroll

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"payroll/internal/domain/core"
)

type fakeEmployees struct {
	byID map[int64]core.Employee
	err  error
}

func newFakeEmployees(emps ...core.Employee) *fakeEmployees {
	f := &fakeEmployees{byID: map[int64]core.Employee{}}
	for _, emp := range emps {
		f.byID[emp.ID] = emp
	}
	return f
}

func (f *fakeEmployees) FindActiveByID(_ context.Context, id int64) (core.Employee, bool, error) {
	if f.err != nil {
		return core.Employee{}, false, f.err
	}
	emp, ok := f.byID[id]
	if !ok || !emp.Active {
		return core.Employee{}, false, nil
	}
	return emp, true, nil
}

func (f *fakeEmployees) Exists(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeEmployees) ListActive(_ context.Context) ([]core.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Employee
	for _, emp := range f.byID {
		if emp.Active {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type periodKey struct {
	employeeID  int64
	month, year int
}

// fakePayslips enforces the period uniqueness inside Save, like the database constraint.
type fakePayslips struct {
	mu       sync.Mutex
	nextID   int64
	byID     map[int64]Payslip
	byPeriod map[periodKey]int64
	saveErr  error
	// hideExisting makes ExistsForPeriod always report false, widening the check/insert race.
	hideExisting bool
}

func newFakePayslips() *fakePayslips {
	return &fakePayslips{byID: map[int64]Payslip{}, byPeriod: map[periodKey]int64{}}
}

func (f *fakePayslips) ExistsForPeriod(_ context.Context, employeeID int64, month, year int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideExisting {
		return false, nil
	}
	_, ok := f.byPeriod[periodKey{employeeID, month, year}]
	return ok, nil
}

func (f *fakePayslips) Save(_ context.Context, draft PayslipDraft) (Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return Payslip{}, f.saveErr
	}
	key := periodKey{draft.EmployeeID, draft.Month, draft.Year}
	if _, ok := f.byPeriod[key]; ok {
		return Payslip{}, ErrDuplicatePayslip
	}
	f.nextID++
	p := Payslip{ID: f.nextID, PayslipDraft: draft}
	f.byID[p.ID] = p
	f.byPeriod[key] = p.ID
	return p, nil
}

func (f *fakePayslips) FindByID(_ context.Context, id int64) (Payslip, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	return p, ok, nil
}

func (f *fakePayslips) FindByEmployee(_ context.Context, employeeID int64) ([]Payslip, error) {
	return f.filter(
		func(p Payslip) bool { return p.EmployeeID == employeeID },
		func(a, b Payslip) bool {
			if a.Year != b.Year {
				return a.Year > b.Year
			}
			return a.Month > b.Month
		},
	), nil
}

func (f *fakePayslips) FindByPeriod(_ context.Context, month, year int) ([]Payslip, error) {
	return f.filter(
		func(p Payslip) bool { return p.Month == month && p.Year == year },
		func(a, b Payslip) bool { return a.EmployeeID < b.EmployeeID },
	), nil
}

func (f *fakePayslips) filter(keep func(Payslip) bool, less func(a, b Payslip) bool) []Payslip {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Payslip{}
	for _, p := range f.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (f *fakePayslips) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func employee(id int64, base, hra, allowance string) core.Employee {
	return core.Employee{
		ID:         id,
		Name:       "Employee",
		Email:      "employee@example.com",
		JoinDate:   time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC),
		BaseSalary: decimal.RequireFromString(base),
		HRA:        decimal.RequireFromString(hra),
		Allowance:  decimal.RequireFromString(allowance),
		Active:     true,
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 28, 15, 4, 5, 0, time.UTC)
}

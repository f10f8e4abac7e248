package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Name of the UNIQUE (employee_id, month, year) constraint on payslips.
const payslipPeriodConstraint = "payslips_employee_period_key"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const payslipColumns = `id, employee_id, month, year, issued_on,
           base_salary, hra, allowance, gross_salary, income_tax, provident_fund,
           health_insurance, total_deductions, net_salary`

func scanPayslip(row pgx.Row) (Payslip, error) {
	var p Payslip
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.IssuedOn,
		&p.BaseSalary, &p.HRA, &p.Allowance, &p.GrossSalary, &p.IncomeTax, &p.ProvidentFund,
		&p.HealthInsurance, &p.TotalDeductions, &p.NetSalary,
	)
	return p, err
}

func (s *Store) ExistsForPeriod(ctx context.Context, employeeID int64, month, year int) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM payslips
    WHERE employee_id = $1 AND month = $2 AND year = $3
  `, employeeID, month, year).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts the draft in a single statement; the period constraint decides races.
func (s *Store) Save(ctx context.Context, draft PayslipDraft) (Payslip, error) {
	p := Payslip{PayslipDraft: draft}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payslips (employee_id, month, year, issued_on,
      base_salary, hra, allowance, gross_salary, income_tax, provident_fund,
      health_insurance, total_deductions, net_salary)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id
  `,
		draft.EmployeeID, draft.Month, draft.Year, draft.IssuedOn,
		draft.BaseSalary, draft.HRA, draft.Allowance, draft.GrossSalary, draft.IncomeTax, draft.ProvidentFund,
		draft.HealthInsurance, draft.TotalDeductions, draft.NetSalary,
	).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == payslipPeriodConstraint {
			return Payslip{}, ErrDuplicatePayslip
		}
		return Payslip{}, err
	}
	return p, nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (Payslip, bool, error) {
	p, err := scanPayslip(s.DB.QueryRow(ctx, `
    SELECT `+payslipColumns+`
    FROM payslips
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, false, nil
	}
	if err != nil {
		return Payslip{}, false, err
	}
	return p, true, nil
}

func (s *Store) FindByEmployee(ctx context.Context, employeeID int64) ([]Payslip, error) {
	return s.list(ctx, `
    SELECT `+payslipColumns+`
    FROM payslips
    WHERE employee_id = $1
    ORDER BY year DESC, month DESC
  `, employeeID)
}

func (s *Store) FindByPeriod(ctx context.Context, month, year int) ([]Payslip, error) {
	return s.list(ctx, `
    SELECT `+payslipColumns+`
    FROM payslips
    WHERE month = $1 AND year = $2
    ORDER BY employee_id
  `, month, year)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payslips := []Payslip{}
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		payslips = append(payslips, p)
	}
	return payslips, rows.Err()
}

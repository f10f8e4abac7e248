package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `id, name, email, department, designation, join_date,
           base_salary, hra, allowance, active, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Department, &emp.Designation, &emp.JoinDate,
		&emp.BaseSalary, &emp.HRA, &emp.Allowance, &emp.Active, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func (s *Store) CreateEmployee(ctx context.Context, emp NewEmployee) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, department, designation, join_date, base_salary, hra, allowance, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,true)
    RETURNING id
  `, emp.Name, emp.Email, emp.Department, emp.Designation, emp.JoinDate, emp.BaseSalary, emp.HRA, emp.Allowance).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, ErrEmployeeExists
		}
		return 0, err
	}
	return id, nil
}

func (s *Store) FindActiveByID(ctx context.Context, id int64) (Employee, bool, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1 AND active = true
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, err
	}
	return emp, true, nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (Employee, bool, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, err
	}
	return emp, true, nil
}

// Exists reports whether the employee was ever created, including deactivated ones.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListActive(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE active = true
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) UpdateSalary(ctx context.Context, id int64, base, hra, allowance decimal.Decimal) (bool, error) {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET base_salary = $2, hra = $3, allowance = $4, updated_at = now()
    WHERE id = $1 AND active = true
  `, id, base, hra, allowance)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) Deactivate(ctx context.Context, id int64) (bool, error) {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET active = false, updated_at = now()
    WHERE id = $1 AND active = true
  `, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

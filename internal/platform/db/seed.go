package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type seedEmployee struct {
	name, email, department, designation string
	joinDate                             time.Time
	base, hra, allowance                 string
}

var demoEmployees = []seedEmployee{
	{"Asha Menon", "asha.menon@example.com", "Engineering", "Software Engineer",
		time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC), "40000.00", "10000.00", "5000.00"},
	{"Ravi Kumar", "ravi.kumar@example.com", "Finance", "Accountant",
		time.Date(2019, 7, 15, 0, 0, 0, 0, time.UTC), "60000.00", "15000.00", "8000.00"},
	{"Li Wei", "li.wei@example.com", "Operations", "Analyst",
		time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC), "250000.00", "50000.00", "100000.00"},
}

// Seed inserts demo employees; existing emails are left untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, emp := range demoEmployees {
		_, err := pool.Exec(ctx, `
      INSERT INTO employees (name, email, department, designation, join_date, base_salary, hra, allowance)
      VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric)
      ON CONFLICT (email) DO NOTHING
    `, emp.name, emp.email, emp.department, emp.designation, emp.joinDate, emp.base, emp.hra, emp.allowance)
		if err != nil {
			return err
		}
	}
	return nil
}

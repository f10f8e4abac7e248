package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Department  string          `json:"department"`
	Designation string          `json:"designation"`
	JoinDate    time.Time       `json:"joinDate"`
	BaseSalary  decimal.Decimal `json:"baseSalary"`
	HRA         decimal.Decimal `json:"hra"`
	Allowance   decimal.Decimal `json:"allowance"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type NewEmployee struct {
	Name        string
	Email       string
	Department  string
	Designation string
	JoinDate    time.Time
	BaseSalary  decimal.Decimal
	HRA         decimal.Decimal
	Allowance   decimal.Decimal
}

type SalaryComponents struct {
	BaseSalary decimal.Decimal `json:"baseSalary"`
	HRA        decimal.Decimal `json:"hra"`
	Allowance  decimal.Decimal `json:"allowance"`
}

func (s SalaryComponents) Negative() bool {
	return s.BaseSalary.IsNegative() || s.HRA.IsNegative() || s.Allowance.IsNegative()
}

package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Breakdown is the full set of amounts derived from one employee's salary components.
type Breakdown struct {
	BaseSalary      decimal.Decimal `json:"baseSalary"`
	HRA             decimal.Decimal `json:"hra"`
	Allowance       decimal.Decimal `json:"allowance"`
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	IncomeTax       decimal.Decimal `json:"incomeTax"`
	ProvidentFund   decimal.Decimal `json:"providentFund"`
	HealthInsurance decimal.Decimal `json:"healthInsurance"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetSalary       decimal.Decimal `json:"netSalary"`
}

// PayslipDraft is a fully computed payslip that has not been stored yet.
type PayslipDraft struct {
	EmployeeID int64     `json:"employeeId"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	IssuedOn   time.Time `json:"issuedOn"` // date in UTC
	Breakdown
}

// Payslip is a stored payslip. It is never modified after Save.
type Payslip struct {
	ID int64 `json:"id"`
	PayslipDraft
}

type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p Period) Valid() bool {
	return p.Month >= MinMonth && p.Month <= MaxMonth && p.Year > 0
}

// Previous returns the calendar month before p.
func (p Period) Previous() Period {
	if p.Month == MinMonth {
		return Period{Month: MaxMonth, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// RunResult summarises a monthly run over all active employees.
type RunResult struct {
	Period  Period       `json:"period"`
	Issued  []Payslip    `json:"issued"`
	Skipped []int64      `json:"skipped"`
	Failed  []RunFailure `json:"failed,omitempty"`
}

type RunFailure struct {
	EmployeeID int64  `json:"employeeId"`
	Reason     string `json:"reason"`
}

package payroll

import "github.com/shopspring/decimal"

// Amounts are rounded to this many decimal places (cents).
const CurrencyPlaces = 2

var (
	ProvidentFundRate = decimal.RequireFromString("0.12")
	HealthInsurance   = decimal.RequireFromString("500.00")
)

// TaxSlab taxes the part of gross salary above the previous slab's limit and up to UpTo.
// A zero UpTo marks the open-ended top slab.
type TaxSlab struct {
	UpTo decimal.Decimal
	Rate decimal.Decimal
}

var TaxSlabs = []TaxSlab{
	{UpTo: decimal.NewFromInt(300000), Rate: decimal.RequireFromString("0.05")},
	{UpTo: decimal.NewFromInt(500000), Rate: decimal.RequireFromString("0.10")},
	{Rate: decimal.RequireFromString("0.20")},
}

const (
	MinMonth = 1
	MaxMonth = 12
)

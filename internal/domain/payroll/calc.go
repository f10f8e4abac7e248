package payroll

import "github.com/shopspring/decimal"

// GrossSalary sums the three salary components.
func GrossSalary(base, hra, allowance decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() || hra.IsNegative() || allowance.IsNegative() {
		return decimal.Zero, invalidInput("salary components cannot be negative")
	}
	return base.Add(hra).Add(allowance), nil
}

func ProvidentFund(gross decimal.Decimal) (decimal.Decimal, error) {
	if gross.IsNegative() {
		return decimal.Zero, invalidInput("gross salary cannot be negative")
	}
	return gross.Mul(ProvidentFundRate).Round(CurrencyPlaces), nil
}

// IncomeTax applies TaxSlabs marginally: each slab's rate only covers the part of gross inside it.
func IncomeTax(gross decimal.Decimal) (decimal.Decimal, error) {
	if gross.IsNegative() {
		return decimal.Zero, invalidInput("gross salary cannot be negative")
	}
	tax := decimal.Zero
	lower := decimal.Zero
	for _, slab := range TaxSlabs {
		if gross.LessThanOrEqual(lower) {
			break
		}
		upper := gross
		if !slab.UpTo.IsZero() && slab.UpTo.LessThan(gross) {
			upper = slab.UpTo
		}
		tax = tax.Add(upper.Sub(lower).Mul(slab.Rate))
		lower = slab.UpTo
	}
	return tax.Round(CurrencyPlaces), nil
}

func TotalDeductions(incomeTax, providentFund, healthInsurance decimal.Decimal) (decimal.Decimal, error) {
	if incomeTax.IsNegative() || providentFund.IsNegative() || healthInsurance.IsNegative() {
		return decimal.Zero, invalidInput("deductions cannot be negative")
	}
	return incomeTax.Add(providentFund).Add(healthInsurance), nil
}

// NetSalary rejects deductions larger than gross pay instead of clamping to zero.
func NetSalary(gross, totalDeductions decimal.Decimal) (decimal.Decimal, error) {
	if gross.IsNegative() || totalDeductions.IsNegative() {
		return decimal.Zero, invalidInput("amounts cannot be negative")
	}
	if totalDeductions.GreaterThan(gross) {
		return decimal.Zero, invalidInput("total deductions %s exceed gross salary %s", totalDeductions.StringFixed(CurrencyPlaces), gross.StringFixed(CurrencyPlaces))
	}
	return gross.Sub(totalDeductions).Round(CurrencyPlaces), nil
}

// Compute runs the salary components through every calculation step.
func Compute(base, hra, allowance decimal.Decimal) (Breakdown, error) {
	gross, err := GrossSalary(base, hra, allowance)
	if err != nil {
		return Breakdown{}, err
	}
	pf, err := ProvidentFund(gross)
	if err != nil {
		return Breakdown{}, err
	}
	tax, err := IncomeTax(gross)
	if err != nil {
		return Breakdown{}, err
	}
	total, err := TotalDeductions(tax, pf, HealthInsurance)
	if err != nil {
		return Breakdown{}, err
	}
	net, err := NetSalary(gross, total)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{
		BaseSalary:      base,
		HRA:             hra,
		Allowance:       allowance,
		GrossSalary:     gross,
		IncomeTax:       tax,
		ProvidentFund:   pf,
		HealthInsurance: HealthInsurance,
		TotalDeductions: total,
		NetSalary:       net,
	}, nil
}

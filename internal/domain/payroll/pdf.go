package payroll

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"payroll/internal/domain/core"
	cryptoutil "payroll/internal/platform/crypto"
)

// RenderPDF writes a one page payslip document.
func RenderPDF(w io.Writer, emp core.Employee, p Payslip) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %d", p.ID), false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	header := [][2]string{
		{"Payslip ID", fmt.Sprint(p.ID)},
		{"Employee", fmt.Sprintf("%s (#%d)", emp.Name, emp.ID)},
		{"Department", emp.Department},
		{"Designation", emp.Designation},
		{"Period", fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)},
		{"Issued on", p.IssuedOn.Format("2006-01-02")},
	}
	for _, field := range header {
		pdf.CellFormat(45, 7, field[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, field[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	type line struct {
		label  string
		amount decimal.Decimal
	}
	section := func(title string, rows []line, totalLabel string, total decimal.Decimal) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, row := range rows {
			pdf.CellFormat(120, 7, row.label, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, row.amount.StringFixed(CurrencyPlaces), "", 1, "R", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(120, 7, totalLabel, "T", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, total.StringFixed(CurrencyPlaces), "T", 1, "R", false, 0, "")
		pdf.Ln(4)
	}

	section("Earnings", []line{
		{"Base salary", p.BaseSalary},
		{"House rent allowance", p.HRA},
		{"Allowance", p.Allowance},
	}, "Gross salary", p.GrossSalary)

	section("Deductions", []line{
		{"Income tax", p.IncomeTax},
		{"Provident fund (12%)", p.ProvidentFund},
		{"Health insurance", p.HealthInsurance},
	}, "Total deductions", p.TotalDeductions)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(120, 9, "Net salary", "TB", 0, "L", false, 0, "")
	pdf.CellFormat(0, 9, p.NetSalary.StringFixed(CurrencyPlaces), "TB", 1, "R", false, 0, "")

	return pdf.Output(w)
}

// Archive keeps rendered payslip PDFs on disk, sealed when an encryption key is configured.
// Payslips never change, so a stored document is served as is.
type Archive struct {
	Dir    string
	Crypto *cryptoutil.Service
}

func NewArchive(dir string, crypto *cryptoutil.Service) *Archive {
	return &Archive{Dir: dir, Crypto: crypto}
}

func (a *Archive) PDF(emp core.Employee, p Payslip) ([]byte, error) {
	path := a.path(p.ID)
	sealed, err := os.ReadFile(path)
	if err == nil {
		return a.Crypto.Decrypt(sealed)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var buf bytes.Buffer
	if err := RenderPDF(&buf, emp, p); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return nil, err
	}
	sealed, err = a.Crypto.Encrypt(buf.Bytes())
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, sealed, 0o600); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Archive) path(payslipID int64) string {
	name := fmt.Sprintf("payslip-%d.pdf", payslipID)
	if a.Crypto.Configured() {
		name += ".enc"
	}
	return filepath.Join(a.Dir, name)
}

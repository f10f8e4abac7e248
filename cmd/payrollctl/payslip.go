package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"payroll/internal/app/backend"
	"payroll/internal/domain/payroll"
)

func newPayslipCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payslip",
		Short: "Issue and inspect payslips",
	}
	cmd.AddCommand(
		newPayslipIssueCommand(),
		newPayslipShowCommand(),
		newPayslipListCommand(),
		newPayslipPDFCommand(),
		newPayslipRunCommand(),
	)
	return cmd
}

func periodFlags(cmd *cobra.Command, period *payroll.Period) {
	cmd.Flags().IntVar(&period.Month, "month", 0, "payroll month (1-12)")
	cmd.Flags().IntVar(&period.Year, "year", 0, "payroll year")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")
}

func newPayslipIssueCommand() *cobra.Command {
	var period payroll.Period
	cmd := &cobra.Command{
		Use:   "issue <employee-id>",
		Short: "Issue a payslip for one employee and period",
		Args:  cobra.ExactArgs(1),
		RunE: withBackend(func(ctx context.Context, b *backend.Backend, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := b.Issuer.Issue(ctx, id, period.Month, period.Year)
			if err != nil {
				return err
			}
			printPayslip(p)
			return nil
		}),
	}
	periodFlags(cmd, &period)
	return cmd
}

func newPayslipShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <payslip-id>",
		Short: "Show a payslip",
		Args:  cobra.ExactArgs(1),
		RunE: withBackend(func(ctx context.Context, b *backend.Backend, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := b.Issuer.Get(ctx, id)
			if err != nil {
				return err
			}
			printPayslip(p)
			return nil
		}),
	}
}

func newPayslipListCommand() *cobra.Command {
	var (
		employeeID  int64
		month, year int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payslips for an employee or for a period",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(ctx context.Context, b *backend.Backend, _ []string) error {
			var (
				slips []payroll.Payslip
				err   error
			)
			switch {
			case employeeID > 0:
				slips, err = b.Issuer.ListForEmployee(ctx, employeeID)
			case month != 0 || year != 0:
				slips, err = b.Issuer.ListForPeriod(ctx, month, year)
			default:
				return fmt.Errorf("either --employee or --month and --year is required")
			}
			if err != nil {
				return err
			}
			printPayslipTable(slips)
			return nil
		}),
	}
	cmd.Flags().Int64Var(&employeeID, "employee", 0, "employee id")
	cmd.Flags().IntVar(&month, "month", 0, "payroll month (1-12)")
	cmd.Flags().IntVar(&year, "year", 0, "payroll year")
	cmd.MarkFlagsMutuallyExclusive("employee", "month")
	cmd.MarkFlagsRequiredTogether("month", "year")
	return cmd
}

func newPayslipPDFCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pdf <payslip-id>",
		Short: "Write a payslip PDF to a file",
		Args:  cobra.ExactArgs(1),
		RunE: withBackend(func(ctx context.Context, b *backend.Backend, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := b.Issuer.Get(ctx, id)
			if err != nil {
				return err
			}
			emp, err := b.Employees.LookupEmployee(ctx, p.EmployeeID)
			if err != nil {
				return err
			}
			doc, err := b.Archive.PDF(emp, p)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("payslip-%d.pdf", id)
			}
			if err := os.WriteFile(out, doc, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "wrote %s\n", out)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default payslip-<id>.pdf)")
	return cmd
}

func newPayslipRunCommand() *cobra.Command {
	var period payroll.Period
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Issue payslips for every active employee",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(ctx context.Context, b *backend.Backend, _ []string) error {
			result, err := b.Jobs.RunPayroll(ctx, period)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%02d/%d: %d issued, %d skipped, %d failed\n",
				period.Month, period.Year, len(result.Issued), len(result.Skipped), len(result.Failed))
			for _, f := range result.Failed {
				fmt.Fprintf(stdout, "  employee %d: %s\n", f.EmployeeID, f.Reason)
			}
			return nil
		}),
	}
	periodFlags(cmd, &period)
	return cmd
}

func printPayslip(p payroll.Payslip) {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Payslip\t%d\t\n", p.ID)
	fmt.Fprintf(tw, "Employee\t%d\t\n", p.EmployeeID)
	fmt.Fprintf(tw, "Period\t%02d/%d\t\n", p.Month, p.Year)
	fmt.Fprintf(tw, "Issued on\t%s\t\n", p.IssuedOn.Format("2006-01-02"))
	fmt.Fprintf(tw, "Base salary\t%s\t\n", p.BaseSalary.StringFixed(2))
	fmt.Fprintf(tw, "HRA\t%s\t\n", p.HRA.StringFixed(2))
	fmt.Fprintf(tw, "Allowance\t%s\t\n", p.Allowance.StringFixed(2))
	fmt.Fprintf(tw, "Gross\t%s\t\n", p.GrossSalary.StringFixed(2))
	fmt.Fprintf(tw, "Income tax\t%s\t\n", p.IncomeTax.StringFixed(2))
	fmt.Fprintf(tw, "Provident fund\t%s\t\n", p.ProvidentFund.StringFixed(2))
	fmt.Fprintf(tw, "Health insurance\t%s\t\n", p.HealthInsurance.StringFixed(2))
	fmt.Fprintf(tw, "Total deductions\t%s\t\n", p.TotalDeductions.StringFixed(2))
	fmt.Fprintf(tw, "Net salary\t%s\t\n", p.NetSalary.StringFixed(2))
	_ = tw.Flush()
}

func printPayslipTable(slips []payroll.Payslip) {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMPLOYEE\tPERIOD\tGROSS\tDEDUCTIONS\tNET\tISSUED")
	for _, p := range slips {
		fmt.Fprintf(tw, "%d\t%d\t%02d/%d\t%s\t%s\t%s\t%s\n",
			p.ID, p.EmployeeID, p.Month, p.Year,
			p.GrossSalary.StringFixed(2), p.TotalDeductions.StringFixed(2), p.NetSalary.StringFixed(2),
			p.IssuedOn.Format("2006-01-02"))
	}
	_ = tw.Flush()
}

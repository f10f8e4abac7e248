package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"payroll/internal/app/backend"
	"payroll/internal/domain/core"
)

func newEmployeeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage employees and their salary components",
	}
	cmd.AddCommand(
		newEmployeeAddCommand(),
		newEmployeeListCommand(),
		newEmployeeShowCommand(),
		newEmployeeSalaryCommand(),
		newEmployeeDeactivateCommand(),
	)
	return cmd
}

type salaryFlags struct {
	base, hra, allowance string
}

func (f *salaryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.base, "base", "", "monthly base salary")
	cmd.Flags().StringVar(&f.hra, "hra", "0", "house rent allowance")
	cmd.Flags().StringVar(&f.allowance, "allowance", "0", "other allowances")
	_ = cmd.MarkFlagRequired("base")
}

func (f *salaryFlags) components() (core.SalaryComponents, error) {
	var out core.SalaryComponents
	var err error
	if out.BaseSalary, err = parseAmount("base", f.base); err != nil {
		return out, err
	}
	if out.HRA, err = parseAmount("hra", f.hra); err != nil {
		return out, err
	}
	if out.Allowance, err = parseAmount("allowance", f.allowance); err != nil {
		return out, err
	}
	return out, nil
}

func parseAmount(name, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %q is not a valid amount", name, raw)
	}
	return d, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid id", raw)
	}
	return id, nil
}

func newEmployeeAddCommand() *cobra.Command {
	var (
		name, email, department, designation, joined string
		salary                                       salaryFlags
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(ctx context.Context, b *backend.Backend, _ []string) error {
			joinDate, err := time.Parse("2006-01-02", joined)
			if err != nil {
				return fmt.Errorf("--joined must be YYYY-MM-DD")
			}
			components, err := salary.components()
			if err != nil {
				return err
			}
			id, err := b.Employees.AddEmployee(ctx, core.NewEmployee{
				Name:        name,
				Email:       email,
				Department:  department,
				Designation: designation,
				JoinDate:    joinDate,
				BaseSalary:  components.BaseSalary,
				HRA:         components.HRA,
				Allowance:   components.Allowance,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "employee %d created\n", id)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "work email")
	cmd.Flags().StringVar(&department, "department", "", "department")
	cmd.Flags().StringVar(&designation, "designation", "", "designation")
	cmd.Flags().StringVar(&joined, "joined", time.Now().Format("2006-01-02"), "join date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	salary.register(cmd)
	return cmd
}

func newEmployeeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active employees",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(ctx context.Context, b *backend.Backend, _ []string) error {
			employees, err := b.Employees.ListEmployees(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDEPARTMENT\tBASE\tHRA\tALLOWANCE")
			for _, e := range employees {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.Name, e.Email, e.Department,
					e.BaseSalary.StringFixed(2), e.HRA.StringFixed(2), e.Allowance.StringFixed(2))
			}
			return tw.Flush()
		}),
	}
}

func newEmployeeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <employee-id>",
		Short: "Show an active employee",
		Args:  cobra.ExactArgs(1),
		RunE: withBackend(func(ctx context.Context, b *backend.Backend, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := b.Employees.GetEmployee(ctx, id)
			if err != nil {
				return err
			}
			printEmployee(e)
			return nil
		}),
	}
}

func newEmployeeSalaryCommand() *cobra.Command {
	var salary salaryFlags
	cmd := &cobra.Command{
		Use:   "salary <employee-id>",
		Short: "Replace an employee's salary components",
		Args:  cobra.ExactArgs(1),
		RunE: withBackend(func(ctx context.Context, b *backend.Backend, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			components, err := salary.components()
			if err != nil {
				return err
			}
			if err := b.Employees.UpdateSalary(ctx, id, components); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "employee %d salary updated\n", id)
			return nil
		}),
	}
	salary.register(cmd)
	return cmd
}

func newEmployeeDeactivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <employee-id>",
		Short: "Deactivate an employee; issued payslips stay readable",
		Args:  cobra.ExactArgs(1),
		RunE: withBackend(func(ctx context.Context, b *backend.Backend, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := b.Employees.DeactivateEmployee(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "employee %d deactivated\n", id)
			return nil
		}),
	}
}

func printEmployee(e core.Employee) {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%d\n", e.ID)
	fmt.Fprintf(tw, "Name\t%s\n", e.Name)
	fmt.Fprintf(tw, "Email\t%s\n", e.Email)
	fmt.Fprintf(tw, "Department\t%s\n", e.Department)
	fmt.Fprintf(tw, "Designation\t%s\n", e.Designation)
	fmt.Fprintf(tw, "Joined\t%s\n", e.JoinDate.Format("2006-01-02"))
	fmt.Fprintf(tw, "Base salary\t%s\n", e.BaseSalary.StringFixed(2))
	fmt.Fprintf(tw, "HRA\t%s\n", e.HRA.StringFixed(2))
	fmt.Fprintf(tw, "Allowance\t%s\n", e.Allowance.StringFixed(2))
	_ = tw.Flush()
}

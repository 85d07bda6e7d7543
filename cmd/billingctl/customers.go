package main

import (
	"fmt"
	"os"
	"strconv"

	appbilling "github.com/imperialbinding/billing/internal/application/billing"
	"github.com/imperialbinding/billing/internal/infrastructure/csvimport"
	"github.com/spf13/cobra"
)

func newCustomersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer"},
		Short:   "List, add and inspect customers",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Example: `  billingctl customers list --search alice
  billingctl customers list --with-balance`,
		Args: cobra.NoArgs,
		RunE: a.runCustomersList,
	}
	list.Flags().String("search", "", "Filter by name or email")
	list.Flags().Bool("with-balance", false, "Include invoiced, paid and balance columns")

	add := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a customer",
		Example: `  billingctl customers add "Alice" --email alice@example.com`,
		Args:    cobra.ExactArgs(1),
		RunE:    a.runCustomersAdd,
	}
	add.Flags().String("email", "", "Email address")
	add.Flags().String("phone", "", "Phone number")
	add.Flags().String("address", "", "Postal address")

	balance := &cobra.Command{
		Use:   "balance <customer-id>",
		Short: "Show what a customer has been invoiced, has paid and still owes",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runCustomersBalance,
	}

	imp := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Load customers from a CSV file",
		Long: `Load customers from a CSV file whose header names the columns
name, email, phone and address (any order, any case). Only name is
required. Invalid rows are listed and skipped.`,
		Example: `  billingctl customers import customers.csv --dry-run`,
		Args:    cobra.ExactArgs(1),
		RunE:    a.runCustomersImport,
	}
	imp.Flags().Bool("dry-run", false, "Validate the file without creating customers")
	imp.Flags().Int("max-errors", csvimport.DefaultMaxErrors, "Maximum number of row errors to list")

	cmd.AddCommand(list, add, balance, imp)
	return cmd
}

func (a *app) runCustomersList(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetString("search")
	withBalance, _ := cmd.Flags().GetBool("with-balance")
	ctx := a.ctx(cmd)

	tw := newTable(cmd.OutOrStdout())
	if withBalance {
		rows, err := a.customers.ListWithBalance(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tNAME\tINVOICED\tPAID\tBALANCE")
		for _, c := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name,
				c.TotalInvoiced.StringFixed(2), c.TotalPaid.StringFixed(2), c.Balance.StringFixed(2))
		}
		return tw.Flush()
	}

	rows, _, err := a.customers.List(ctx, appbilling.ListFilter{Search: search, PageSize: 100})
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE")
	for _, c := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
	}
	return tw.Flush()
}

func (a *app) runCustomersAdd(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	phone, _ := cmd.Flags().GetString("phone")
	address, _ := cmd.Flags().GetString("address")

	customer, err := a.customers.Create(a.ctx(cmd), appbilling.CreateCustomerRequest{
		Name:    args[0],
		Email:   email,
		Phone:   phone,
		Address: address,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created customer %d (%s)\n", customer.ID, customer.Name)
	return nil
}

func (a *app) runCustomersBalance(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	balance, err := a.customers.GetBalance(a.ctx(cmd), id)
	if err != nil {
		return err
	}

	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintf(tw, "Invoiced:\t%s\n", balance.TotalInvoiced.StringFixed(2))
	fmt.Fprintf(tw, "Paid:\t%s\n", balance.TotalPaid.StringFixed(2))
	fmt.Fprintf(tw, "Balance:\t%s\n", balance.Balance.StringFixed(2))
	return tw.Flush()
}

func (a *app) runCustomersImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	maxErrors, _ := cmd.Flags().GetInt("max-errors")

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := a.customers.Import(a.ctx(cmd), f, appbilling.ImportOptions{DryRun: dryRun, MaxErrors: maxErrors})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verb := "Imported"
	if result.DryRun {
		verb = "Would import"
	}
	fmt.Fprintf(out, "%s %d of %d customers\n", verb, result.Imported, result.Rows)
	if result.TotalErrors == 0 {
		return nil
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "LINE\tCOLUMN\tCODE\tMESSAGE")
	for _, e := range result.Errors {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Line, e.Column, e.Code, e.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if hidden := result.TotalErrors - len(result.Errors); hidden > 0 {
		fmt.Fprintf(out, "... and %d more\n", hidden)
	}
	return nil
}

func parseID(value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

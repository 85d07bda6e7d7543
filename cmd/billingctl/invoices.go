package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	appbilling "github.com/imperialbinding/billing/internal/application/billing"
	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newInvoicesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"invoice"},
		Short:   "Issue and inspect invoices",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices, newest first",
		Args:  cobra.NoArgs,
		RunE:  a.runInvoicesList,
	}
	list.Flags().Uint64("customer", 0, "Only invoices for this customer id")
	list.Flags().String("search", "", "Filter by invoice number or customer name")

	show := &cobra.Command{
		Use:   "show <invoice-id>",
		Short: "Show an invoice with its line items",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runInvoicesShow,
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Issue an invoice",
		Long: `Issue an invoice for a customer. Each --item is "description,quantity,rate";
the description may itself contain commas.`,
		Example: `  billingctl invoices create --customer 1 \
    --item "Hardcover binding,2,50.00" --item "Gold foil title,1,20"`,
		Args: cobra.NoArgs,
		RunE: a.runInvoicesCreate,
	}
	create.Flags().Uint64("customer", 0, "Customer id (required)")
	create.Flags().StringArray("item", nil, `Line item as "description,quantity,rate"`)
	create.Flags().String("notes", "", "Free text printed on the invoice")
	_ = create.MarkFlagRequired("customer")

	next := &cobra.Command{
		Use:   "next-number",
		Short: "Show the invoice number the next issued invoice will get",
		Args:  cobra.NoArgs,
		RunE:  a.runInvoicesNextNumber,
	}
	next.Flags().Int("year", 0, "Calendar year (defaults to the current year)")

	cmd.AddCommand(list, show, create, next)
	return cmd
}

func (a *app) runInvoicesList(cmd *cobra.Command, args []string) error {
	customerID, _ := cmd.Flags().GetUint64("customer")
	search, _ := cmd.Flags().GetString("search")
	ctx := a.ctx(cmd)

	var (
		invoices []appbilling.InvoiceResponse
		err      error
	)
	if customerID > 0 {
		invoices, err = a.invoices.ListByCustomer(ctx, customerID)
	} else {
		invoices, _, err = a.invoices.List(ctx, appbilling.ListFilter{Search: search, PageSize: 100})
	}
	if err != nil {
		return err
	}

	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "ID\tNUMBER\tCUSTOMER\tISSUED\tSUBTOTAL\tSTATUS")
	for _, inv := range invoices {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", inv.ID, inv.InvoiceNumber, inv.CustomerName,
			inv.IssueDate, inv.Subtotal.StringFixed(2), inv.Status)
	}
	return tw.Flush()
}

func (a *app) runInvoicesShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	inv, err := a.invoices.GetByID(a.ctx(cmd), id)
	if err != nil {
		return err
	}
	writeInvoice(cmd, inv)
	return nil
}

func (a *app) runInvoicesCreate(cmd *cobra.Command, args []string) error {
	customerID, _ := cmd.Flags().GetUint64("customer")
	rawItems, _ := cmd.Flags().GetStringArray("item")
	notes, _ := cmd.Flags().GetString("notes")

	items := make([]appbilling.InvoiceItemRequest, 0, len(rawItems))
	for _, raw := range rawItems {
		item, err := parseItem(raw)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	inv, err := a.invoices.Create(a.ctx(cmd), appbilling.CreateInvoiceRequest{
		CustomerID: customerID,
		Notes:      notes,
		Items:      items,
	})
	if err != nil {
		return err
	}
	writeInvoice(cmd, inv)
	return nil
}

func (a *app) runInvoicesNextNumber(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = a.clock.Now().Year()
	}

	var last int64
	seq, err := a.sequences.FindByYear(a.ctx(cmd), year)
	switch {
	case err == nil:
		last = seq.LastNumber
	case errors.Is(err, shared.ErrNotFound):
	default:
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), domain.FormatInvoiceNumber(year, last+1))
	return nil
}

func writeInvoice(cmd *cobra.Command, inv *appbilling.InvoiceResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Invoice %s  (%s)\n", inv.InvoiceNumber, inv.Status)
	fmt.Fprintf(out, "Customer: %s (id %d)\n", inv.CustomerName, inv.CustomerID)
	fmt.Fprintf(out, "Issued:   %s\n", inv.IssueDate)
	if inv.Notes != "" {
		fmt.Fprintf(out, "Notes:    %s\n", inv.Notes)
	}
	fmt.Fprintln(out)

	tw := newTable(out)
	fmt.Fprintln(tw, "#\tDESCRIPTION\tQTY\tRATE\tAMOUNT")
	for _, item := range inv.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", item.Position, item.Description, item.Quantity,
			item.Rate.StringFixed(2), item.Amount.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\t\tSubtotal\t%s\n", inv.Subtotal.StringFixed(2))
	_ = tw.Flush()
}

// parseItem reads "description,quantity,rate" splitting on the last two commas
func parseItem(raw string) (appbilling.InvoiceItemRequest, error) {
	rateAt := strings.LastIndex(raw, ",")
	if rateAt < 0 {
		return appbilling.InvoiceItemRequest{}, fmt.Errorf("item %q: expected description,quantity,rate", raw)
	}
	qtyAt := strings.LastIndex(raw[:rateAt], ",")
	if qtyAt < 0 {
		return appbilling.InvoiceItemRequest{}, fmt.Errorf("item %q: expected description,quantity,rate", raw)
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(raw[qtyAt+1:rateAt]), 10, 64)
	if err != nil {
		return appbilling.InvoiceItemRequest{}, fmt.Errorf("item %q: invalid quantity: %w", raw, err)
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(raw[rateAt+1:]))
	if err != nil {
		return appbilling.InvoiceItemRequest{}, fmt.Errorf("item %q: invalid rate: %w", raw, err)
	}
	return appbilling.InvoiceItemRequest{
		Description: strings.TrimSpace(raw[:qtyAt]),
		Quantity:    qty,
		Rate:        rate,
	}, nil
}

package main

import (
	"fmt"

	appbilling "github.com/imperialbinding/billing/internal/application/billing"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPaymentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment"},
		Short:   "Record and list payments",
	}

	record := &cobra.Command{
		Use:   "record",
		Short: "Record money received from a customer",
		Example: `  billingctl payments record --customer 1 --amount 50
  billingctl payments record --customer 1 --invoice 3 --amount 70 --date 2026-03-01`,
		Args: cobra.NoArgs,
		RunE: a.runPaymentsRecord,
	}
	record.Flags().Uint64("customer", 0, "Customer id (required)")
	record.Flags().String("amount", "", "Amount received (required)")
	record.Flags().Uint64("invoice", 0, "Invoice the payment settles")
	record.Flags().String("date", "", "Payment date as yyyy-MM-dd (defaults to today)")
	_ = record.MarkFlagRequired("customer")
	_ = record.MarkFlagRequired("amount")

	list := &cobra.Command{
		Use:   "list",
		Short: "List payments, newest first",
		Args:  cobra.NoArgs,
		RunE:  a.runPaymentsList,
	}
	list.Flags().Uint64("customer", 0, "Only payments from this customer id")

	cmd.AddCommand(record, list)
	return cmd
}

func (a *app) runPaymentsRecord(cmd *cobra.Command, args []string) error {
	customerID, _ := cmd.Flags().GetUint64("customer")
	rawAmount, _ := cmd.Flags().GetString("amount")
	invoiceID, _ := cmd.Flags().GetUint64("invoice")
	date, _ := cmd.Flags().GetString("date")

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", rawAmount, err)
	}

	req := appbilling.RecordPaymentRequest{
		CustomerID:  customerID,
		AmountPaid:  amount,
		PaymentDate: date,
	}
	if invoiceID > 0 {
		req.InvoiceID = &invoiceID
	}

	payment, err := a.payments.Record(a.ctx(cmd), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded payment %d of %s from %s on %s\n",
		payment.ID, payment.AmountPaid.StringFixed(2), payment.CustomerName, payment.PaymentDate)
	return nil
}

func (a *app) runPaymentsList(cmd *cobra.Command, args []string) error {
	customerID, _ := cmd.Flags().GetUint64("customer")
	ctx := a.ctx(cmd)

	var (
		payments []appbilling.PaymentResponse
		err      error
	)
	if customerID > 0 {
		payments, err = a.payments.ListByCustomer(ctx, customerID)
	} else {
		payments, _, err = a.payments.List(ctx, appbilling.ListFilter{PageSize: 100})
	}
	if err != nil {
		return err
	}

	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "ID\tCUSTOMER\tINVOICE\tDATE\tAMOUNT")
	for _, p := range payments {
		invoice := "-"
		if p.InvoiceID != nil {
			invoice = fmt.Sprint(*p.InvoiceID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.CustomerName, invoice, p.PaymentDate, p.AmountPaid.StringFixed(2))
	}
	return tw.Flush()
}

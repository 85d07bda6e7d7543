package billing

import (
	"context"
	"fmt"

	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// BalanceCalculator derives what customers owe from stored invoices and
// payments. Nothing is cached; every call re-aggregates.
type BalanceCalculator struct {
	customers domain.CustomerRepository
	invoices  domain.InvoiceRepository
	payments  domain.PaymentRepository
}

// NewBalanceCalculator creates a new BalanceCalculator
func NewBalanceCalculator(
	customers domain.CustomerRepository,
	invoices domain.InvoiceRepository,
	payments domain.PaymentRepository,
) *BalanceCalculator {
	return &BalanceCalculator{
		customers: customers,
		invoices:  invoices,
		payments:  payments,
	}
}

// TotalInvoiced sums the subtotals of every invoice of the customer
func (c *BalanceCalculator) TotalInvoiced(ctx context.Context, customerID uint64) (decimal.Decimal, error) {
	total, err := c.invoices.SumSubtotalByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total invoices: %w", err)
	}
	return total, nil
}

// TotalPaid sums every payment of the customer
func (c *BalanceCalculator) TotalPaid(ctx context.Context, customerID uint64) (decimal.Decimal, error) {
	total, err := c.payments.SumAmountByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total payments: %w", err)
	}
	return total, nil
}

// Balance returns invoiced minus paid; negative means the customer is in credit
func (c *BalanceCalculator) Balance(ctx context.Context, customerID uint64) (decimal.Decimal, error) {
	totals, err := c.Totals(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.Balance(), nil
}

// Totals returns both sums for one customer. The Customer field is left empty.
func (c *BalanceCalculator) Totals(ctx context.Context, customerID uint64) (domain.CustomerBalance, error) {
	invoiced, err := c.TotalInvoiced(ctx, customerID)
	if err != nil {
		return domain.CustomerBalance{}, err
	}
	paid, err := c.TotalPaid(ctx, customerID)
	if err != nil {
		return domain.CustomerBalance{}, err
	}
	return domain.CustomerBalance{TotalInvoiced: invoiced, TotalPaid: paid}, nil
}

// CustomersWithBalance returns every customer with its totals from a single
// grouped query
func (c *BalanceCalculator) CustomersWithBalance(ctx context.Context) ([]domain.CustomerBalance, error) {
	balances, err := c.customers.FindAllWithBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer balances: %w", err)
	}
	return balances, nil
}

package billing

import (
	"context"

	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// Create inserts a new customer and assigns its ID
	Create(ctx context.Context, customer *Customer) error

	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uint64) (*Customer, error)

	// FindAll finds all customers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindAllWithBalance returns every customer with invoiced and paid totals,
	// aggregated in one query
	FindAllWithBalance(ctx context.Context) ([]CustomerBalance, error)
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// Create inserts the invoice row (without items) and assigns its ID
	Create(ctx context.Context, invoice *Invoice) error

	// CreateItem inserts a single line item and assigns its ID
	CreateItem(ctx context.Context, item *InvoiceItem) error

	// UpdateSubtotal stores the final subtotal of an invoice
	UpdateSubtotal(ctx context.Context, invoiceID uint64, subtotal decimal.Decimal) error

	// FindByID finds an invoice with its items in position order
	FindByID(ctx context.Context, id uint64) (*Invoice, error)

	// FindAll finds invoices matching the filter, without items
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// FindByCustomer finds every invoice of a customer, newest first
	FindByCustomer(ctx context.Context, customerID uint64) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumSubtotalByCustomer totals invoice subtotals for a customer (0 when none)
	SumSubtotalByCustomer(ctx context.Context, customerID uint64) (decimal.Decimal, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Create inserts a payment and assigns its ID
	Create(ctx context.Context, payment *Payment) error

	// FindAll finds payments matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)

	// FindByCustomer finds every payment of a customer, newest first
	FindByCustomer(ctx context.Context, customerID uint64) ([]Payment, error)

	// Count counts payments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumAmountByCustomer totals payments for a customer (0 when none)
	SumAmountByCustomer(ctx context.Context, customerID uint64) (decimal.Decimal, error)
}

// InvoiceSequenceRepository persists the per-year invoice counters
type InvoiceSequenceRepository interface {
	// LockForYear returns the counter for year, creating it at zero when
	// absent. The row stays locked until the surrounding transaction ends.
	LockForYear(ctx context.Context, year int) (*InvoiceSequence, error)

	// Save stores the counter's last number
	Save(ctx context.Context, seq *InvoiceSequence) error

	// FindByYear reads the counter without locking it
	FindByYear(ctx context.Context, year int) (*InvoiceSequence, error)
}

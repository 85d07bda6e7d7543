package billing

import (
	"time"

	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payment is money received from a customer, optionally against an invoice.
// Payments are append-only; overpayment simply drives the balance negative.
type Payment struct {
	shared.BaseEntity
	CustomerID   uint64
	CustomerName string // populated on reads
	InvoiceID    *uint64
	AmountPaid   decimal.Decimal
	PaymentDate  time.Time
}

// NewPayment creates a payment; a zero paymentDate means "today" per clock
func NewPayment(customerID uint64, invoiceID *uint64, amount decimal.Decimal, paymentDate time.Time, now time.Time) (*Payment, error) {
	if customerID == 0 {
		return nil, shared.NewInvalidInputError("Payment must belong to a customer")
	}
	if !amount.IsPositive() {
		return nil, shared.NewInvalidInputError("Payment amount must be positive")
	}
	if !HasMoneyScale(amount) {
		return nil, shared.NewInvalidInputError("Payment amount cannot have more than 2 decimal places")
	}
	if paymentDate.IsZero() {
		paymentDate = now
	}

	return &Payment{
		BaseEntity:  shared.NewBaseEntity(now),
		CustomerID:  customerID,
		InvoiceID:   invoiceID,
		AmountPaid:  amount,
		PaymentDate: shared.StartOfDay(paymentDate),
	}, nil
}

// HasInvoice reports whether the payment is tied to a specific invoice
func (p *Payment) HasInvoice() bool {
	return p.InvoiceID != nil && *p.InvoiceID != 0
}

package billing

import (
	"strings"
	"time"

	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice
type InvoiceStatus string

// InvoiceStatusIssued is the only state an invoice can be in today
const InvoiceStatusIssued InvoiceStatus = "ISSUED"

// Invoice is a numbered bill to a customer.
// The subtotal always equals the sum of its item amounts once the
// builder has finished adding items.
type Invoice struct {
	shared.BaseEntity
	InvoiceNumber string
	CustomerID    uint64
	CustomerName  string // populated on reads
	IssueDate     time.Time
	Subtotal      decimal.Decimal
	Notes         string
	Status        InvoiceStatus
	Items         []InvoiceItem
}

// InvoiceItem is one priced line of an invoice.
// Amount is fixed at creation and never recomputed.
type InvoiceItem struct {
	ID          uint64
	InvoiceID   uint64
	Position    int
	Description string
	Quantity    int64
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// NewInvoice creates an invoice shell with a zero subtotal
func NewInvoice(number string, customerID uint64, issueDate time.Time, notes string, now time.Time) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewInvalidInputError("Invoice number cannot be empty")
	}
	if customerID == 0 {
		return nil, shared.NewInvalidInputError("Invoice must belong to a customer")
	}

	return &Invoice{
		BaseEntity:    shared.NewBaseEntity(now),
		InvoiceNumber: number,
		CustomerID:    customerID,
		IssueDate:     shared.StartOfDay(issueDate),
		Subtotal:      decimal.Zero,
		Notes:         notes,
		Status:        InvoiceStatusIssued,
		Items:         make([]InvoiceItem, 0),
	}, nil
}

// LineAmount computes quantity × rate
func LineAmount(quantity int64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(rate)
}

// AddItem prices a new line, appends it and adds it to the subtotal.
// The returned item is a copy ready to be persisted.
func (inv *Invoice) AddItem(description string, quantity int64, rate decimal.Decimal) (InvoiceItem, error) {
	if quantity < 0 {
		return InvoiceItem{}, shared.NewInvalidInputError("Item quantity cannot be negative")
	}
	if rate.IsNegative() {
		return InvoiceItem{}, shared.NewInvalidInputError("Item rate cannot be negative")
	}
	if !HasMoneyScale(rate) {
		return InvoiceItem{}, shared.NewInvalidInputError("Item rate cannot have more than 2 decimal places")
	}

	item := InvoiceItem{
		InvoiceID:   inv.ID,
		Position:    len(inv.Items) + 1,
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		Rate:        rate,
		Amount:      LineAmount(quantity, rate),
	}
	inv.Items = append(inv.Items, item)
	inv.Subtotal = inv.Subtotal.Add(item.Amount)
	return item, nil
}

// SetItemID records the store-assigned ID of the item at position pos
func (inv *Invoice) SetItemID(pos int, id uint64) {
	if pos < 1 || pos > len(inv.Items) {
		return
	}
	inv.Items[pos-1].ID = id
}

// ItemsTotal re-sums the item amounts
func (inv *Invoice) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Amount)
	}
	return total
}

package billing

import (
	"context"
	"fmt"

	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
)

// InvoiceNumberAllocator hands out IB-{year}-{n} numbers from the per-year
// counter. Next must be called with repositories bound to the transaction
// that also saves the invoice, so a rollback returns the number.
type InvoiceNumberAllocator struct {
	clock shared.Clock
}

// NewInvoiceNumberAllocator creates an allocator reading the year from clock
func NewInvoiceNumberAllocator(clock shared.Clock) *InvoiceNumberAllocator {
	if clock == nil {
		clock = shared.NewSystemClock(nil)
	}
	return &InvoiceNumberAllocator{clock: clock}
}

// Next locks the current year's counter, advances it by one and returns the
// formatted number
func (a *InvoiceNumberAllocator) Next(ctx context.Context, sequences domain.InvoiceSequenceRepository) (string, error) {
	year := a.clock.Now().Year()

	seq, err := sequences.LockForYear(ctx, year)
	if err != nil {
		return "", fmt.Errorf("failed to lock invoice sequence for %d: %w", year, err)
	}

	n := seq.Advance()
	if err := sequences.Save(ctx, seq); err != nil {
		return "", fmt.Errorf("failed to advance invoice sequence for %d: %w", year, err)
	}

	return domain.FormatInvoiceNumber(year, n), nil
}

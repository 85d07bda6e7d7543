package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MetricsRecorder receives business events for telemetry
type MetricsRecorder interface {
	RecordInvoiceCreated(ctx context.Context, subtotal decimal.Decimal, itemCount int)
	RecordPaymentRecorded(ctx context.Context, amount decimal.Decimal, againstInvoice bool)
	RecordDocumentRendered(ctx context.Context, engine string, duration time.Duration, err error)
}

// NoopMetricsRecorder discards every event
type NoopMetricsRecorder struct{}

// RecordInvoiceCreated does nothing
func (NoopMetricsRecorder) RecordInvoiceCreated(context.Context, decimal.Decimal, int) {}

// RecordPaymentRecorded does nothing
func (NoopMetricsRecorder) RecordPaymentRecorded(context.Context, decimal.Decimal, bool) {}

// RecordDocumentRendered does nothing
func (NoopMetricsRecorder) RecordDocumentRendered(context.Context, string, time.Duration, error) {}

var _ MetricsRecorder = NoopMetricsRecorder{}

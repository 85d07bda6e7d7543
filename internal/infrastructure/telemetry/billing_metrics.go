package telemetry

import (
	"context"
	"fmt"
	"time"

	appbilling "github.com/imperialbinding/billing/internal/application/billing"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const billingMeterName = "github.com/imperialbinding/billing"

// BillingMetrics records invoice, payment and document instruments.
type BillingMetrics struct {
	invoicesCreated  metric.Int64Counter
	invoiceSubtotal  metric.Float64Histogram
	invoiceItems     metric.Int64Histogram
	paymentsRecorded metric.Int64Counter
	paymentAmount    metric.Float64Histogram
	renderDuration   metric.Float64Histogram
	renderFailures   metric.Int64Counter
}

var _ appbilling.MetricsRecorder = (*BillingMetrics)(nil)

// NewBillingMetrics registers the billing instruments on meter
func NewBillingMetrics(meter metric.Meter) (*BillingMetrics, error) {
	m := &BillingMetrics{}
	var err error

	if m.invoicesCreated, err = meter.Int64Counter("billing.invoices.created",
		metric.WithDescription("Invoices issued"),
		metric.WithUnit("{invoice}"),
	); err != nil {
		return nil, fmt.Errorf("create invoices counter: %w", err)
	}
	if m.invoiceSubtotal, err = meter.Float64Histogram("billing.invoice.subtotal",
		metric.WithDescription("Subtotal of issued invoices"),
		metric.WithUnit("{currency}"),
	); err != nil {
		return nil, fmt.Errorf("create subtotal histogram: %w", err)
	}
	if m.invoiceItems, err = meter.Int64Histogram("billing.invoice.items",
		metric.WithDescription("Line items per invoice"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50),
	); err != nil {
		return nil, fmt.Errorf("create items histogram: %w", err)
	}
	if m.paymentsRecorded, err = meter.Int64Counter("billing.payments.recorded",
		metric.WithDescription("Payments recorded"),
		metric.WithUnit("{payment}"),
	); err != nil {
		return nil, fmt.Errorf("create payments counter: %w", err)
	}
	if m.paymentAmount, err = meter.Float64Histogram("billing.payment.amount",
		metric.WithDescription("Amount of recorded payments"),
		metric.WithUnit("{currency}"),
	); err != nil {
		return nil, fmt.Errorf("create payment histogram: %w", err)
	}
	if m.renderDuration, err = meter.Float64Histogram("billing.document.render.duration",
		metric.WithDescription("Invoice PDF render time"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	); err != nil {
		return nil, fmt.Errorf("create render histogram: %w", err)
	}
	if m.renderFailures, err = meter.Int64Counter("billing.document.render.failures",
		metric.WithDescription("Invoice PDF renders that failed"),
	); err != nil {
		return nil, fmt.Errorf("create render failure counter: %w", err)
	}

	return m, nil
}

// RecordInvoiceCreated counts an issued invoice
func (m *BillingMetrics) RecordInvoiceCreated(ctx context.Context, subtotal decimal.Decimal, itemCount int) {
	m.invoicesCreated.Add(ctx, 1)
	m.invoiceSubtotal.Record(ctx, subtotal.InexactFloat64())
	m.invoiceItems.Record(ctx, int64(itemCount))
}

// RecordPaymentRecorded counts a payment
func (m *BillingMetrics) RecordPaymentRecorded(ctx context.Context, amount decimal.Decimal, againstInvoice bool) {
	attrs := metric.WithAttributes(attribute.Bool("against_invoice", againstInvoice))
	m.paymentsRecorded.Add(ctx, 1, attrs)
	m.paymentAmount.Record(ctx, amount.InexactFloat64(), attrs)
}

// RecordDocumentRendered records render latency by engine and outcome
func (m *BillingMetrics) RecordDocumentRendered(ctx context.Context, engine string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.renderDuration.Record(ctx, float64(duration.Microseconds())/1000,
		metric.WithAttributes(
			attribute.String("engine", engine),
			attribute.String("status", status),
		))
	if err != nil {
		m.renderFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("engine", engine)))
	}
}

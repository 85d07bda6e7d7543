package billing

import (
	"context"
	"strings"
	"time"

	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PaymentService records money received from customers
type PaymentService struct {
	paymentRepo domain.PaymentRepository
	txScope     TransactionScope
	clock       shared.Clock
	metrics     MetricsRecorder
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo domain.PaymentRepository,
	txScope TransactionScope,
	clock shared.Clock,
	logger *zap.Logger,
) *PaymentService {
	if clock == nil {
		clock = shared.NewSystemClock(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		txScope:     txScope,
		clock:       clock,
		metrics:     NoopMetricsRecorder{},
		logger:      logger,
	}
}

// SetMetrics installs a metrics recorder
func (s *PaymentService) SetMetrics(metrics MetricsRecorder) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// Record stores a payment for an existing customer. When an invoice is
// given it must exist and belong to the same customer. Overpayment is
// accepted and shows up as a negative balance.
func (s *PaymentService) Record(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error) {
	paymentDate, err := s.parseDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}

	invoiceID := req.InvoiceID
	if invoiceID != nil && *invoiceID == 0 {
		invoiceID = nil
	}

	var recorded *domain.Payment
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.Customers().FindByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}

		if invoiceID != nil {
			invoice, err := repos.Invoices().FindByID(ctx, *invoiceID)
			if err != nil {
				return err
			}
			if invoice.CustomerID != customer.ID {
				return shared.NewInvalidInputError("Invoice " + invoice.InvoiceNumber + " belongs to another customer")
			}
		}

		payment, err := domain.NewPayment(customer.ID, invoiceID, req.AmountPaid, paymentDate, s.clock.Now())
		if err != nil {
			return err
		}
		if err := repos.Payments().Create(ctx, payment); err != nil {
			return err
		}

		payment.CustomerName = customer.Name
		recorded = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPaymentRecorded(ctx, recorded.AmountPaid, recorded.HasInvoice())
	logger.For(ctx, s.logger).Info("payment recorded",
		zap.Uint64("payment_id", recorded.ID),
		zap.Uint64("customer_id", recorded.CustomerID),
		zap.String("amount", recorded.AmountPaid.StringFixed(2)),
		zap.Bool("against_invoice", recorded.HasInvoice()))

	response := ToPaymentResponse(recorded)
	return &response, nil
}

// List returns a page of payments and the total count
func (s *PaymentService) List(ctx context.Context, filter ListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := filter.ToDomain()

	payments, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.paymentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPaymentResponses(payments), total, nil
}

// ListByCustomer returns every payment of a customer, newest first
func (s *PaymentService) ListByCustomer(ctx context.Context, customerID uint64) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// parseDate reads a yyyy-MM-dd date in the clock's location; empty means today
func (s *PaymentService) parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return shared.Today(s.clock), nil
	}
	t, err := time.ParseInLocation(DateLayout, value, s.clock.Now().Location())
	if err != nil {
		return time.Time{}, shared.NewInvalidInputError("Payment date must be formatted as yyyy-MM-dd")
	}
	return t, nil
}

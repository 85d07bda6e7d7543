package billing

import (
	"context"
	"fmt"

	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// InvoiceService issues invoices and reads them back
type InvoiceService struct {
	invoiceRepo domain.InvoiceRepository
	txScope     TransactionScope
	allocator   *InvoiceNumberAllocator
	clock       shared.Clock
	metrics     MetricsRecorder
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService.
// txScope must hand out repositories bound to one database transaction.
func NewInvoiceService(
	invoiceRepo domain.InvoiceRepository,
	txScope TransactionScope,
	clock shared.Clock,
	logger *zap.Logger,
) *InvoiceService {
	if clock == nil {
		clock = shared.NewSystemClock(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		txScope:     txScope,
		allocator:   NewInvoiceNumberAllocator(clock),
		clock:       clock,
		metrics:     NoopMetricsRecorder{},
		logger:      logger,
	}
}

// SetMetrics installs a metrics recorder
func (s *InvoiceService) SetMetrics(metrics MetricsRecorder) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// Create issues an invoice for an existing customer.
// Customer lookup, number allocation, header, items and subtotal are one
// unit of work: if any step fails nothing is stored and no number is used.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	var created *domain.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.Customers().FindByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}

		number, err := s.allocator.Next(ctx, repos.Sequences())
		if err != nil {
			return err
		}

		now := s.clock.Now()
		invoice, err := domain.NewInvoice(number, customer.ID, now, req.Notes, now)
		if err != nil {
			return err
		}
		if err := repos.Invoices().Create(ctx, invoice); err != nil {
			return err
		}

		for _, line := range req.Items {
			item, err := invoice.AddItem(line.Description, line.Quantity, line.Rate)
			if err != nil {
				return err
			}
			if err := repos.Invoices().CreateItem(ctx, &item); err != nil {
				return err
			}
			invoice.SetItemID(item.Position, item.ID)
		}

		if err := repos.Invoices().UpdateSubtotal(ctx, invoice.ID, invoice.Subtotal); err != nil {
			return err
		}

		invoice.CustomerName = customer.Name
		created = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInvoiceCreated(ctx, created.Subtotal, len(created.Items))
	logger.For(ctx, s.logger).Info("invoice created",
		zap.String("invoice_number", created.InvoiceNumber),
		zap.Uint64("invoice_id", created.ID),
		zap.Uint64("customer_id", created.CustomerID),
		zap.String("subtotal", created.Subtotal.StringFixed(2)),
		zap.Int("items", len(created.Items)))

	response := ToInvoiceResponse(created)
	return &response, nil
}

// GetByID retrieves an invoice with its items and customer name
func (s *InvoiceService) GetByID(ctx context.Context, id uint64) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List returns a page of invoice summaries and the total matching count
func (s *InvoiceService) List(ctx context.Context, filter ListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := filter.ToDomain()

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceSummaries(invoices), total, nil
}

// ListByCustomer returns every invoice of a customer, newest first
func (s *InvoiceService) ListByCustomer(ctx context.Context, customerID uint64) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToInvoiceSummaries(invoices), nil
}

// validateItems rejects negative quantities and rates before a number is allocated
func validateItems(items []InvoiceItemRequest) error {
	for i, item := range items {
		if item.Quantity < 0 {
			return shared.NewInvalidInputError(fmt.Sprintf("Item %d: quantity cannot be negative", i+1))
		}
		if item.Rate.IsNegative() {
			return shared.NewInvalidInputError(fmt.Sprintf("Item %d: rate cannot be negative", i+1))
		}
		if !domain.HasMoneyScale(item.Rate) {
			return shared.NewInvalidInputError(fmt.Sprintf("Item %d: rate cannot have more than 2 decimal places", i+1))
		}
	}
	return nil
}

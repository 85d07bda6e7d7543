package billing

import (
	"context"

	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CustomerService handles the customer directory and balance queries
type CustomerService struct {
	customerRepo domain.CustomerRepository
	invoiceRepo  domain.InvoiceRepository
	paymentRepo  domain.PaymentRepository
	balances     *BalanceCalculator
	clock        shared.Clock
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo domain.CustomerRepository,
	invoiceRepo domain.InvoiceRepository,
	paymentRepo domain.PaymentRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *CustomerService {
	if clock == nil {
		clock = shared.NewSystemClock(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		balances:     NewBalanceCalculator(customerRepo, invoiceRepo, paymentRepo),
		clock:        clock,
		logger:       logger,
	}
}

// Balances exposes the calculator used by this service
func (s *CustomerService) Balances() *BalanceCalculator {
	return s.balances
}

// Create adds a customer to the directory
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := domain.NewCustomer(req.Name, req.Email, req.Phone, req.Address, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("customer created",
		zap.Uint64("customer_id", customer.ID),
		zap.String("name", customer.Name))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uint64) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List returns a page of customers and the total matching count
func (s *CustomerService) List(ctx context.Context, filter ListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := filter.ToDomain()

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// ListWithBalance returns every customer with invoiced, paid and balance figures
func (s *CustomerService) ListWithBalance(ctx context.Context) ([]CustomerWithBalanceResponse, error) {
	balances, err := s.balances.CustomersWithBalance(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerWithBalanceResponse, len(balances))
	for i := range balances {
		responses[i] = ToCustomerWithBalanceResponse(&balances[i])
	}
	return responses, nil
}

// GetBalance returns the outstanding balance of an existing customer
func (s *CustomerService) GetBalance(ctx context.Context, id uint64) (*BalanceResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	totals, err := s.balances.Totals(ctx, id)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{
		CustomerID:    id,
		TotalInvoiced: totals.TotalInvoiced,
		TotalPaid:     totals.TotalPaid,
		Balance:       totals.Balance(),
	}, nil
}

// GetHistory returns a customer with all invoices, payments and the balance
func (s *CustomerService) GetHistory(ctx context.Context, id uint64) (*CustomerHistoryResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.FindByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	totals, err := s.balances.Totals(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CustomerHistoryResponse{
		Customer: ToCustomerResponse(customer),
		Invoices: ToInvoiceSummaries(invoices),
		Payments: ToPaymentResponses(payments),
		BalanceResponse: BalanceResponse{
			CustomerID:    id,
			TotalInvoiced: totals.TotalInvoiced,
			TotalPaid:     totals.TotalPaid,
			Balance:       totals.Balance(),
		},
	}, nil
}

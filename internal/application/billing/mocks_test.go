package billing

import (
	"context"
	"io"
	"time"

	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	infra "github.com/imperialbinding/billing/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domain.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) FindAllWithBalance(ctx context.Context) ([]domain.CustomerBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerBalance), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CreateItem(ctx context.Context, item *domain.InvoiceItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateSubtotal(ctx context.Context, invoiceID uint64, subtotal decimal.Decimal) error {
	args := m.Called(ctx, invoiceID, subtotal)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uint64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domain.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, customerID uint64) ([]domain.Invoice, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumSubtotalByCustomer(ctx context.Context, customerID uint64) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domain.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByCustomer(ctx context.Context, customerID uint64) ([]domain.Payment, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) SumAmountByCustomer(ctx context.Context, customerID uint64) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockInvoiceSequenceRepository is a mock implementation of InvoiceSequenceRepository
type MockInvoiceSequenceRepository struct {
	mock.Mock
}

func (m *MockInvoiceSequenceRepository) LockForYear(ctx context.Context, year int) (*domain.InvoiceSequence, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSequence), args.Error(1)
}

func (m *MockInvoiceSequenceRepository) Save(ctx context.Context, seq *domain.InvoiceSequence) error {
	args := m.Called(ctx, seq)
	return args.Error(0)
}

func (m *MockInvoiceSequenceRepository) FindByYear(ctx context.Context, year int) (*domain.InvoiceSequence, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSequence), args.Error(1)
}

// =============================================================================
// Mock Printing
// =============================================================================

// MockPDFRenderer is a mock implementation of PDFRenderer
type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, doc *infra.InvoiceDocument) (*infra.RenderResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Engine() string {
	return infra.EngineFPDF
}

func (m *MockPDFRenderer) Close() error {
	return nil
}

// MockPDFStorage is a mock implementation of PDFStorage
type MockPDFStorage struct {
	mock.Mock
}

func (m *MockPDFStorage) Store(ctx context.Context, name string, data []byte) (*infra.StoreResult, error) {
	args := m.Called(ctx, name, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.StoreResult), args.Error(1)
}

func (m *MockPDFStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockPDFStorage) Path(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

// MockDocumentMirror is a mock implementation of DocumentMirror
type MockDocumentMirror struct {
	mock.Mock
}

func (m *MockDocumentMirror) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockDocumentMirror) PresignGetObject(ctx context.Context, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, expires)
	return args.String(0), args.Error(1)
}

// MockMetricsRecorder is a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordInvoiceCreated(ctx context.Context, subtotal decimal.Decimal, itemCount int) {
	m.Called(ctx, subtotal, itemCount)
}

func (m *MockMetricsRecorder) RecordPaymentRecorded(ctx context.Context, amount decimal.Decimal, againstInvoice bool) {
	m.Called(ctx, amount, againstInvoice)
}

func (m *MockMetricsRecorder) RecordDocumentRendered(ctx context.Context, engine string, duration time.Duration, err error) {
	m.Called(ctx, engine, duration, err)
}

// =============================================================================
// Helpers
// =============================================================================

type testRepos struct {
	customers *MockCustomerRepository
	invoices  *MockInvoiceRepository
	payments  *MockPaymentRepository
	sequences *MockInvoiceSequenceRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		customers: new(MockCustomerRepository),
		invoices:  new(MockInvoiceRepository),
		payments:  new(MockPaymentRepository),
		sequences: new(MockInvoiceSequenceRepository),
	}
}

func (r *testRepos) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(r.customers, r.invoices, r.payments, r.sequences)
}

func (r *testRepos) assertExpectations(t mock.TestingT) {
	r.customers.AssertExpectations(t)
	r.invoices.AssertExpectations(t)
	r.payments.AssertExpectations(t)
	r.sequences.AssertExpectations(t)
}

var testNow = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

func newTestCustomer(id uint64, name string) *domain.Customer {
	return &domain.Customer{
		BaseEntity: shared.BaseEntity{ID: id, CreatedAt: testNow},
		Name:       name,
	}
}

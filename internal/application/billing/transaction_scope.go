package billing

import (
	"context"

	domain "github.com/imperialbinding/billing/internal/domain/billing"
)

// TransactionScope provides transactional access to billing repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all billing repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	Customers() domain.CustomerRepository
	Invoices() domain.InvoiceRepository
	Payments() domain.PaymentRepository
	// Sequences returns the invoice counter repository; its row locks are
	// held until the transaction ends
	Sequences() domain.InvoiceSequenceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	customers domain.CustomerRepository
	invoices  domain.InvoiceRepository
	payments  domain.PaymentRepository
	sequences domain.InvoiceSequenceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	customers domain.CustomerRepository,
	invoices domain.InvoiceRepository,
	payments domain.PaymentRepository,
	sequences domain.InvoiceSequenceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		customers: customers,
		invoices:  invoices,
		payments:  payments,
		sequences: sequences,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Customers returns the customer repository.
func (s *NoOpTransactionScope) Customers() domain.CustomerRepository { return s.customers }

// Invoices returns the invoice repository.
func (s *NoOpTransactionScope) Invoices() domain.InvoiceRepository { return s.invoices }

// Payments returns the payment repository.
func (s *NoOpTransactionScope) Payments() domain.PaymentRepository { return s.payments }

// Sequences returns the invoice sequence repository.
func (s *NoOpTransactionScope) Sequences() domain.InvoiceSequenceRepository { return s.sequences }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)

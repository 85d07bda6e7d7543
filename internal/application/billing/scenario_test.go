package billing_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	appbilling "github.com/imperialbinding/billing/internal/application/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/logger"
	"github.com/imperialbinding/billing/internal/infrastructure/persistence"
	"github.com/imperialbinding/billing/internal/infrastructure/printing"
	"github.com/imperialbinding/billing/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type services struct {
	customers *appbilling.CustomerService
	invoices  *appbilling.InvoiceService
	payments  *appbilling.PaymentService
	documents *appbilling.DocumentService
	pdfDir    string
}

func newServices(t *testing.T, clock shared.Clock) *services {
	t.Helper()
	return newServicesWithLogger(t, clock, zap.NewNop())
}

func newServicesWithLogger(t *testing.T, clock shared.Clock, log *zap.Logger) *services {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	pdfDir := t.TempDir()
	storage, err := printing.NewFileSystemStorage(&printing.FileSystemStorageConfig{BasePath: pdfDir})
	require.NoError(t, err)

	customers := appbilling.NewCustomerService(customerRepo, invoiceRepo, paymentRepo, clock, log)
	return &services{
		customers: customers,
		invoices:  appbilling.NewInvoiceService(invoiceRepo, txScope, clock, log),
		payments:  appbilling.NewPaymentService(paymentRepo, txScope, clock, log),
		documents: appbilling.NewDocumentService(invoiceRepo, customers.Balances(),
			printing.NewFPDFRenderer(nil), storage, nil, appbilling.DefaultDocumentSettings(), clock, log),
		pdfDir: pdfDir,
	}
}

func TestScenario_AliceInvoiceAndPartialPayment(t *testing.T) {
	ctx := context.Background()
	s := newServices(t, testutil.FixedClock(2025, time.March, 14))

	alice, err := s.customers.Create(ctx, appbilling.CreateCustomerRequest{Name: "Alice"})
	require.NoError(t, err)

	inv, err := s.invoices.Create(ctx, appbilling.CreateInvoiceRequest{
		CustomerID: alice.ID,
		Items: []appbilling.InvoiceItemRequest{
			{Description: "Hardcover binding", Quantity: 2, Rate: decimal.NewFromInt(50)},
			{Description: "Gold foil title", Quantity: 1, Rate: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "IB-2025-0001", inv.InvoiceNumber)
	assert.Equal(t, "ISSUED", inv.Status)
	assert.True(t, decimal.NewFromInt(120).Equal(inv.Subtotal))

	_, err = s.payments.Record(ctx, appbilling.RecordPaymentRequest{
		CustomerID: alice.ID,
		InvoiceID:  &inv.ID,
		AmountPaid: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	balance, err := s.customers.GetBalance(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(70).Equal(balance.Balance), balance.Balance.String())

	doc, err := s.documents.Generate(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "IB-2025-0001.pdf", doc.FileName)
	onDisk, err := os.ReadFile(filepath.Join(s.pdfDir, doc.FileName))
	require.NoError(t, err)
	assert.Equal(t, doc.Data, onDisk)

	again, err := s.documents.Generate(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Data, again.Data)
}

func TestScenario_UnknownCustomerConsumesNoNumber(t *testing.T) {
	ctx := context.Background()
	s := newServices(t, testutil.FixedClock(2025, time.March, 14))

	_, err := s.invoices.Create(ctx, appbilling.CreateInvoiceRequest{
		CustomerID: 404,
		Items:      []appbilling.InvoiceItemRequest{{Description: "Rebind", Quantity: 1, Rate: decimal.NewFromInt(10)}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	bob, err := s.customers.Create(ctx, appbilling.CreateCustomerRequest{Name: "Bob"})
	require.NoError(t, err)
	inv, err := s.invoices.Create(ctx, appbilling.CreateInvoiceRequest{CustomerID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, "IB-2025-0001", inv.InvoiceNumber)
	assert.True(t, inv.Subtotal.IsZero())
}

func TestScenario_FractionalRatesSumExactly(t *testing.T) {
	ctx := context.Background()
	s := newServices(t, testutil.FixedClock(2025, time.March, 14))

	carol, err := s.customers.Create(ctx, appbilling.CreateCustomerRequest{Name: "Carol"})
	require.NoError(t, err)
	for _, rate := range []string{"0.1", "0.2"} {
		_, err := s.invoices.Create(ctx, appbilling.CreateInvoiceRequest{
			CustomerID: carol.ID,
			Items:      []appbilling.InvoiceItemRequest{{Description: "Corner repair", Quantity: 1, Rate: decimal.RequireFromString(rate)}},
		})
		require.NoError(t, err)

		_, err = s.payments.Record(ctx, appbilling.RecordPaymentRequest{
			CustomerID: carol.ID,
			AmountPaid: decimal.RequireFromString(rate),
		})
		require.NoError(t, err)
	}

	balance, err := s.customers.GetBalance(ctx, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.3", balance.TotalInvoiced.String())
	assert.Equal(t, "0.3", balance.TotalPaid.String())
	assert.True(t, balance.Balance.IsZero(), balance.Balance.String())

	rows, err := s.customers.ListWithBalance(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "0.3", rows[0].TotalInvoiced.String())
	assert.Equal(t, "0.3", rows[0].TotalPaid.String())
	assert.True(t, rows[0].Balance.IsZero(), rows[0].Balance.String())
}

func TestScenario_LogsCarryRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newServicesWithLogger(t, testutil.FixedClock(2025, time.March, 14), zap.New(core))
	ctx := logger.ContextWithRequestID(context.Background(), "req-42")

	dave, err := s.customers.Create(ctx, appbilling.CreateCustomerRequest{Name: "Dave"})
	require.NoError(t, err)
	inv, err := s.invoices.Create(ctx, appbilling.CreateInvoiceRequest{
		CustomerID: dave.ID,
		Items:      []appbilling.InvoiceItemRequest{{Description: "Spine repair", Quantity: 1, Rate: decimal.NewFromInt(40)}},
	})
	require.NoError(t, err)
	_, err = s.payments.Record(ctx, appbilling.RecordPaymentRequest{CustomerID: dave.ID, InvoiceID: &inv.ID, AmountPaid: decimal.NewFromInt(40)})
	require.NoError(t, err)
	_, err = s.documents.Generate(ctx, inv.ID)
	require.NoError(t, err)

	for _, msg := range []string{"customer created", "invoice created", "payment recorded"} {
		entries := logs.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"], msg)
	}
	for _, entry := range logs.All() {
		assert.Equal(t, "req-42", entry.ContextMap()["request_id"], entry.Message)
	}
}

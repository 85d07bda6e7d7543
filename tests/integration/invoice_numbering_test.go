package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	appbilling "github.com/imperialbinding/billing/internal/application/billing"
	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/infrastructure/persistence"
	"github.com/imperialbinding/billing/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedCustomer(t *testing.T, tdb *TestDB, name string) uint64 {
	t.Helper()
	customer, err := domain.NewCustomer(name, "", "", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(tdb.DB).Create(context.Background(), customer))
	return customer.ID
}

func oneLine() []appbilling.InvoiceItemRequest {
	return []appbilling.InvoiceItemRequest{{Description: "Rebind", Quantity: 1, Rate: decimal.NewFromInt(10)}}
}

func TestInvoiceNumbering_ConcurrentIssuesAreGapFree(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	customerID := seedCustomer(t, tdb, "Alice")
	clock := testutil.FixedClock(2025, time.June, 1)
	invoices := appbilling.NewInvoiceService(
		persistence.NewGormInvoiceRepository(tdb.DB),
		persistence.NewGormTransactionScope(tdb.DB),
		clock, zap.NewNop())

	const workers = 25
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []string
		errs    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, err := invoices.Create(context.Background(), appbilling.CreateInvoiceRequest{
				CustomerID: customerID,
				Items:      oneLine(),
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, inv.InvoiceNumber)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	sort.Strings(numbers)
	expected := make([]string, workers)
	for i := range expected {
		expected[i] = fmt.Sprintf("IB-2025-%04d", i+1)
	}
	assert.Equal(t, expected, numbers)

	seq, err := persistence.NewGormInvoiceSequenceRepository(tdb.DB).FindByYear(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), seq.LastNumber)
}

func TestInvoiceNumbering_RestartsEachYear(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	customerID := seedCustomer(t, tdb, "Alice")
	clock := testutil.FixedClock(2025, time.December, 31)
	invoices := appbilling.NewInvoiceService(
		persistence.NewGormInvoiceRepository(tdb.DB),
		persistence.NewGormTransactionScope(tdb.DB),
		clock, zap.NewNop())
	ctx := context.Background()
	req := appbilling.CreateInvoiceRequest{CustomerID: customerID, Items: oneLine()}

	first, err := invoices.Create(ctx, req)
	require.NoError(t, err)
	second, err := invoices.Create(ctx, req)
	require.NoError(t, err)

	clock.Set(time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC))
	third, err := invoices.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "IB-2025-0001", first.InvoiceNumber)
	assert.Equal(t, "IB-2025-0002", second.InvoiceNumber)
	assert.Equal(t, "IB-2026-0001", third.InvoiceNumber)
	assert.Equal(t, "2026-01-01", third.IssueDate)
}

func TestInvoiceNumbering_FailedIssueRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	customerID := seedCustomer(t, tdb, "Alice")
	invoices := appbilling.NewInvoiceService(
		persistence.NewGormInvoiceRepository(tdb.DB),
		persistence.NewGormTransactionScope(tdb.DB),
		testutil.FixedClock(2025, time.March, 14), zap.NewNop())
	ctx := context.Background()

	// A description longer than the column forces the item insert to fail
	// after the number and invoice row were written.
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	_, err := invoices.Create(ctx, appbilling.CreateInvoiceRequest{
		CustomerID: customerID,
		Items:      []appbilling.InvoiceItemRequest{{Description: string(long), Quantity: 1, Rate: decimal.NewFromInt(1)}},
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, tdb.DB.Table("invoices").Count(&count).Error)
	assert.Zero(t, count)

	inv, err := invoices.Create(ctx, appbilling.CreateInvoiceRequest{CustomerID: customerID, Items: oneLine()})
	require.NoError(t, err)
	assert.Equal(t, "IB-2025-0001", inv.InvoiceNumber)
}

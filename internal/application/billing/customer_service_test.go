package billing

import (
	"context"
	"errors"
	"strings"
	"testing"

	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCustomerService(repos *testRepos) *CustomerService {
	return NewCustomerService(repos.customers, repos.invoices, repos.payments, shared.NewFixedClock(testNow), nil)
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and stores the customer", func(t *testing.T) {
		repos := newTestRepos()
		repos.customers.On("Create", ctx, mock.MatchedBy(func(c *domain.Customer) bool {
			return c.Name == "Alice" && c.Email == "alice@example.com" && c.CreatedAt.Equal(testNow)
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Customer).ID = 1
		}).Return(nil)

		resp, err := newTestCustomerService(repos).Create(ctx, CreateCustomerRequest{
			Name:  "  Alice ",
			Email: "alice@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, uint64(1), resp.ID)
		assert.Equal(t, "Alice", resp.Name)
		repos.assertExpectations(t)
	})

	t.Run("blank name", func(t *testing.T) {
		repos := newTestRepos()
		_, err := newTestCustomerService(repos).Create(ctx, CreateCustomerRequest{Name: "   "})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		repos.customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("name too long", func(t *testing.T) {
		repos := newTestRepos()
		_, err := newTestCustomerService(repos).Create(ctx, CreateCustomerRequest{Name: strings.Repeat("a", 201)})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("store failure", func(t *testing.T) {
		repos := newTestRepos()
		repos.customers.On("Create", ctx, mock.Anything).Return(shared.NewPersistenceError("create customer", errors.New("locked")))

		_, err := newTestCustomerService(repos).Create(ctx, CreateCustomerRequest{Name: "Bob"})

		assert.ErrorIs(t, err, shared.ErrPersistence)
	})
}

func TestCustomerService_Balance(t *testing.T) {
	ctx := context.Background()

	t.Run("invoiced minus paid", func(t *testing.T) {
		repos := newTestRepos()
		repos.customers.On("FindByID", ctx, uint64(1)).Return(newTestCustomer(1, "Alice"), nil)
		repos.invoices.On("SumSubtotalByCustomer", ctx, uint64(1)).Return(decimal.NewFromInt(120), nil)
		repos.payments.On("SumAmountByCustomer", ctx, uint64(1)).Return(decimal.NewFromInt(50), nil)

		resp, err := newTestCustomerService(repos).GetBalance(ctx, 1)

		require.NoError(t, err)
		assert.True(t, resp.Balance.Equal(decimal.NewFromInt(70)))
		assert.True(t, resp.TotalInvoiced.Equal(decimal.NewFromInt(120)))
		assert.True(t, resp.TotalPaid.Equal(decimal.NewFromInt(50)))
	})

	t.Run("credit balance is negative", func(t *testing.T) {
		repos := newTestRepos()
		repos.customers.On("FindByID", ctx, uint64(1)).Return(newTestCustomer(1, "Alice"), nil)
		repos.invoices.On("SumSubtotalByCustomer", ctx, uint64(1)).Return(decimal.Zero, nil)
		repos.payments.On("SumAmountByCustomer", ctx, uint64(1)).Return(decimal.NewFromInt(30), nil)

		resp, err := newTestCustomerService(repos).GetBalance(ctx, 1)

		require.NoError(t, err)
		assert.True(t, resp.Balance.Equal(decimal.NewFromInt(-30)))
	})

	t.Run("unknown customer", func(t *testing.T) {
		repos := newTestRepos()
		repos.customers.On("FindByID", ctx, uint64(9)).Return(nil, shared.NewNotFoundError("customer", 9))

		_, err := newTestCustomerService(repos).GetBalance(ctx, 9)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		repos.invoices.AssertNotCalled(t, "SumSubtotalByCustomer", mock.Anything, mock.Anything)
	})

	t.Run("calculator of a customer without activity is zero", func(t *testing.T) {
		repos := newTestRepos()
		repos.invoices.On("SumSubtotalByCustomer", ctx, uint64(4)).Return(decimal.Zero, nil)
		repos.payments.On("SumAmountByCustomer", ctx, uint64(4)).Return(decimal.Zero, nil)

		balance, err := newTestCustomerService(repos).Balances().Balance(ctx, 4)

		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("aggregation failure", func(t *testing.T) {
		repos := newTestRepos()
		repos.invoices.On("SumSubtotalByCustomer", ctx, uint64(4)).
			Return(decimal.Zero, shared.NewPersistenceError("sum invoices", errors.New("timeout")))

		_, err := newTestCustomerService(repos).Balances().Balance(ctx, 4)

		assert.ErrorIs(t, err, shared.ErrPersistence)
	})
}

func TestCustomerService_ListWithBalance(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	repos.customers.On("FindAllWithBalance", ctx).Return([]domain.CustomerBalance{
		{Customer: *newTestCustomer(1, "Alice"), TotalInvoiced: decimal.NewFromInt(120), TotalPaid: decimal.NewFromInt(50)},
		{Customer: *newTestCustomer(2, "Bob"), TotalInvoiced: decimal.Zero, TotalPaid: decimal.Zero},
	}, nil)

	rows, err := newTestCustomerService(repos).ListWithBalance(ctx)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].Name)
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromInt(70)))
	assert.True(t, rows[1].Balance.IsZero())
}

func TestCustomerService_ListAndGet(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	filter := ListFilter{Search: "ali"}.ToDomain()
	repos.customers.On("FindAll", ctx, filter).Return([]domain.Customer{*newTestCustomer(1, "Alice")}, nil)
	repos.customers.On("Count", ctx, filter).Return(int64(1), nil)
	repos.customers.On("FindByID", ctx, uint64(1)).Return(newTestCustomer(1, "Alice"), nil)

	service := newTestCustomerService(repos)

	list, total, err := service.List(ctx, ListFilter{Search: "ali"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)

	got, err := service.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
}

func TestCustomerService_GetHistory(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	repos.customers.On("FindByID", ctx, uint64(1)).Return(newTestCustomer(1, "Alice"), nil)
	repos.invoices.On("FindByCustomer", ctx, uint64(1)).Return([]domain.Invoice{{
		BaseEntity:    shared.BaseEntity{ID: 5},
		InvoiceNumber: "IB-2025-0001",
		CustomerID:    1,
		IssueDate:     testNow,
		Subtotal:      decimal.NewFromInt(120),
		Status:        domain.InvoiceStatusIssued,
	}}, nil)
	repos.payments.On("FindByCustomer", ctx, uint64(1)).Return([]domain.Payment{{
		BaseEntity:  shared.BaseEntity{ID: 3},
		CustomerID:  1,
		AmountPaid:  decimal.NewFromInt(50),
		PaymentDate: testNow,
	}}, nil)
	repos.invoices.On("SumSubtotalByCustomer", ctx, uint64(1)).Return(decimal.NewFromInt(120), nil)
	repos.payments.On("SumAmountByCustomer", ctx, uint64(1)).Return(decimal.NewFromInt(50), nil)

	history, err := newTestCustomerService(repos).GetHistory(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, "Alice", history.Customer.Name)
	require.Len(t, history.Invoices, 1)
	require.Len(t, history.Payments, 1)
	assert.True(t, history.Balance.Equal(decimal.NewFromInt(70)))
	repos.assertExpectations(t)
}

package billing_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appbilling "github.com/imperialbinding/billing/internal/application/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/csvimport"
	"github.com/imperialbinding/billing/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customersCSV = `Name,Email,Phone,Address
Alice,alice@example.com,555-0100,"1 Press Lane, London"
,nobody@example.com,,
Bob,not-an-email,,
Carol,carol@example.com,,
alice,ALICE@example.com,,
`

func TestCustomerService_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("imports valid rows and reports the rest", func(t *testing.T) {
		s := newServices(t, testutil.FixedClock(2025, time.March, 14))

		result, err := s.customers.Import(ctx, strings.NewReader(customersCSV), appbilling.ImportOptions{})
		require.NoError(t, err)

		assert.Equal(t, 5, result.Rows)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 3, result.Failed)
		assert.Equal(t, 3, result.TotalErrors)
		require.Len(t, result.Errors, 3)

		assert.Equal(t, 3, result.Errors[0].Line)
		assert.Equal(t, "name", result.Errors[0].Column)
		assert.Equal(t, csvimport.ErrCodeRequiredField, result.Errors[0].Code)

		assert.Equal(t, 4, result.Errors[1].Line)
		assert.Equal(t, "email", result.Errors[1].Column)
		assert.Equal(t, csvimport.ErrCodeInvalidFormat, result.Errors[1].Code)

		assert.Equal(t, 6, result.Errors[2].Line)
		assert.Equal(t, csvimport.ErrCodeDuplicate, result.Errors[2].Code)
		assert.Contains(t, result.Errors[2].Message, "line 2")

		customers, total, err := s.customers.List(ctx, appbilling.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		names := []string{customers[0].Name, customers[1].Name}
		assert.ElementsMatch(t, []string{"Alice", "Carol"}, names)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		s := newServices(t, testutil.FixedClock(2025, time.March, 14))

		result, err := s.customers.Import(ctx, strings.NewReader(customersCSV), appbilling.ImportOptions{DryRun: true})
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, 2, result.Imported)

		_, total, err := s.customers.List(ctx, appbilling.ListFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("error list is capped", func(t *testing.T) {
		s := newServices(t, testutil.FixedClock(2025, time.March, 14))

		result, err := s.customers.Import(ctx, strings.NewReader(customersCSV), appbilling.ImportOptions{MaxErrors: 1})
		require.NoError(t, err)
		assert.Len(t, result.Errors, 1)
		assert.Equal(t, 3, result.TotalErrors)
	})

	t.Run("missing name column", func(t *testing.T) {
		s := newServices(t, testutil.FixedClock(2025, time.March, 14))

		_, err := s.customers.Import(ctx, strings.NewReader("email\na@example.com\n"), appbilling.ImportOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("empty file", func(t *testing.T) {
		s := newServices(t, testutil.FixedClock(2025, time.March, 14))

		_, err := s.customers.Import(ctx, strings.NewReader(""), appbilling.ImportOptions{})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

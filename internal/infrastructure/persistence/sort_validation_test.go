package persistence

import (
	"testing"

	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	for input, want := range map[string]string{
		"":                 "DESC",
		"asc":              "ASC",
		"  ASC ":           "ASC",
		"desc":             "DESC",
		"ascending":        "DESC",
		"ASC; DELETE FROM": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty falls back", "", "issue_date"},
		{"whitelisted column", "subtotal", "subtotal"},
		{"surrounding space trimmed", " invoice_number ", "invoice_number"},
		{"unknown column", "balance", "issue_date"},
		{"column names are case sensitive", "SUBTOTAL", "issue_date"},
		{"expression", "subtotal, (SELECT 1)", "issue_date"},
		{"comment", "subtotal--", "issue_date"},
		{"statement", "subtotal; DROP TABLE invoices", "issue_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.input, InvoiceSortFields, "issue_date"))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"customers": CustomerSortFields,
		"invoices":  InvoiceSortFields,
		"payments":  PaymentSortFields,
	} {
		assert.True(t, fields["id"], "%s must allow id", name)
		assert.True(t, fields["created_at"], "%s must allow created_at", name)
	}
	assert.True(t, PaymentSortFields["payment_date"])
	assert.False(t, CustomerSortFields["address"])
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name    string
		filter  shared.Filter
		allowed map[string]bool
		want    string
	}{
		{"defaults to newest first", shared.Filter{}, InvoiceSortFields, "id DESC"},
		{"id ascending", shared.Filter{OrderBy: "id", OrderDir: "asc"}, InvoiceSortFields, "id ASC"},
		{"id tie breaker", shared.Filter{OrderBy: "issue_date", OrderDir: "asc"}, InvoiceSortFields, "issue_date ASC, id ASC"},
		{"payments by date", shared.Filter{OrderBy: "payment_date"}, PaymentSortFields, "payment_date DESC, id DESC"},
		{"rejected field and direction", shared.Filter{OrderBy: "password", OrderDir: "asc; drop"}, CustomerSortFields, "id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.filter, tt.allowed))
		})
	}
}

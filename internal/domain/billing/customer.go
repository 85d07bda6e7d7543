package billing

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/imperialbinding/billing/internal/domain/shared"
)

// MaxCustomerNameLength bounds the customer name column
const MaxCustomerNameLength = 200

// Customer is a party that receives invoices and makes payments
type Customer struct {
	shared.BaseEntity
	Name    string
	Email   string
	Phone   string
	Address string
}

// NewCustomer creates a customer after validating the name
func NewCustomer(name, email, phone, address string, now time.Time) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidInputError("Customer name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxCustomerNameLength {
		return nil, shared.NewInvalidInputError("Customer name cannot exceed 200 characters")
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(now),
		Name:       name,
		Email:      strings.TrimSpace(email),
		Phone:      strings.TrimSpace(phone),
		Address:    strings.TrimSpace(address),
	}, nil
}

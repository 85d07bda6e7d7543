package billing

import (
	"time"

	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used on the wire and in documents
const DateLayout = "2006-01-02"

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
}

// ListFilter is the query string accepted by list endpoints
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the query into a normalized domain filter
func (f ListFilter) ToDomain() shared.Filter {
	return shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
	}.Normalize()
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerWithBalanceResponse is a customer row of the balance listing
type CustomerWithBalanceResponse struct {
	CustomerResponse
	TotalInvoiced decimal.Decimal `json:"total_invoiced"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Balance       decimal.Decimal `json:"balance"`
}

// BalanceResponse is the outstanding balance of one customer
type BalanceResponse struct {
	CustomerID    uint64          `json:"customer_id"`
	TotalInvoiced decimal.Decimal `json:"total_invoiced"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Balance       decimal.Decimal `json:"balance"`
}

// CustomerHistoryResponse lists everything billed to and received from a customer
type CustomerHistoryResponse struct {
	Customer CustomerResponse  `json:"customer"`
	Invoices []InvoiceResponse `json:"invoices"`
	Payments []PaymentResponse `json:"payments"`
	BalanceResponse
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

// ToCustomerWithBalanceResponse converts a domain CustomerBalance
func ToCustomerWithBalanceResponse(b *domain.CustomerBalance) CustomerWithBalanceResponse {
	return CustomerWithBalanceResponse{
		CustomerResponse: ToCustomerResponse(&b.Customer),
		TotalInvoiced:    b.TotalInvoiced,
		TotalPaid:        b.TotalPaid,
		Balance:          b.Balance(),
	}
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to issue a new invoice
type CreateInvoiceRequest struct {
	CustomerID uint64               `json:"customer_id" binding:"required"`
	Notes      string               `json:"notes" binding:"max=2000"`
	Items      []InvoiceItemRequest `json:"items" binding:"dive"`
}

// InvoiceItemRequest is one line of a CreateInvoiceRequest
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"max=500"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID          uint64          `json:"id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents an invoice in API responses.
// Items is omitted from list results.
type InvoiceResponse struct {
	ID            uint64                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerID    uint64                `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	IssueDate     string                `json:"issue_date"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Notes         string                `json:"notes"`
	Status        string                `json:"status"`
	CreatedAt     time.Time             `json:"created_at"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
}

// ToInvoiceResponse converts a domain Invoice including its items
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	resp := ToInvoiceSummary(inv)
	resp.Items = make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		resp.Items[i] = InvoiceItemResponse{
			ID:          item.ID,
			Position:    item.Position,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		}
	}
	return resp
}

// ToInvoiceSummary converts a domain Invoice without its items
func ToInvoiceSummary(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		IssueDate:     inv.IssueDate.Format(DateLayout),
		Subtotal:      inv.Subtotal,
		Notes:         inv.Notes,
		Status:        string(inv.Status),
		CreatedAt:     inv.CreatedAt,
	}
}

// ToInvoiceSummaries converts a slice of invoices without items
func ToInvoiceSummaries(invoices []domain.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceSummary(&invoices[i])
	}
	return out
}

// =============================================================================
// Payment DTOs
// =============================================================================

// RecordPaymentRequest represents money received from a customer.
// PaymentDate is yyyy-MM-dd and defaults to today.
type RecordPaymentRequest struct {
	CustomerID  uint64          `json:"customer_id" binding:"required"`
	InvoiceID   *uint64         `json:"invoice_id"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	PaymentDate string          `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID           uint64          `json:"id"`
	CustomerID   uint64          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	InvoiceID    *uint64         `json:"invoice_id,omitempty"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	PaymentDate  string          `json:"payment_date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		CustomerID:   p.CustomerID,
		CustomerName: p.CustomerName,
		InvoiceID:    p.InvoiceID,
		AmountPaid:   p.AmountPaid,
		PaymentDate:  p.PaymentDate.Format(DateLayout),
		CreatedAt:    p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of payments
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out
}

// =============================================================================
// Document DTOs
// =============================================================================

// GeneratedDocument describes a rendered and stored invoice PDF
type GeneratedDocument struct {
	InvoiceID     uint64 `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	FileName      string `json:"file_name"`
	Path          string `json:"path"`
	Size          int64  `json:"size"`
	PageCount     int    `json:"page_count"`
	Engine        string `json:"engine"`
	MirrorKey     string `json:"mirror_key,omitempty"`
	Data          []byte `json:"-"`
}

// DocumentURLResponse is a time-limited download link for a mirrored PDF
type DocumentURLResponse struct {
	InvoiceNumber string    `json:"invoice_number"`
	URL           string    `json:"url"`
	ExpiresAt     time.Time `json:"expires_at"`
}

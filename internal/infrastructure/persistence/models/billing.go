package models

import (
	"time"

	"github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(200);not null"`
	Email   string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(50)"`
	Address string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *billing.Customer {
	return &billing.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Address:    m.Address,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *billing.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *billing.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	BaseModel
	InvoiceNumber string             `gorm:"type:varchar(32);not null;uniqueIndex:idx_invoices_number"`
	CustomerID    uint64             `gorm:"not null;index:idx_invoices_customer"`
	IssueDate     time.Time          `gorm:"type:date;not null"`
	Subtotal      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Notes         string             `gorm:"type:text"`
	Status        string             `gorm:"type:varchar(20);not null;default:'ISSUED'"`
	Customer      *CustomerModel     `gorm:"foreignKey:CustomerID"`
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
// Items are included only when they were preloaded.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		BaseEntity:    m.BaseModel.ToDomain(),
		InvoiceNumber: m.InvoiceNumber,
		CustomerID:    m.CustomerID,
		IssueDate:     m.IssueDate,
		Subtotal:      m.Subtotal,
		Notes:         m.Notes,
		Status:        billing.InvoiceStatus(m.Status),
		Items:         make([]billing.InvoiceItem, 0, len(m.Items)),
	}
	if m.Customer != nil {
		inv.CustomerName = m.Customer.Name
	}
	for i := range m.Items {
		inv.Items = append(inv.Items, *m.Items[i].ToDomain())
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice.
// Items are persisted separately and are not copied.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.IssueDate = inv.IssueDate
	m.Subtotal = inv.Subtotal
	m.Notes = inv.Notes
	m.Status = string(inv.Status)
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for an invoice line.
type InvoiceItemModel struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	InvoiceID   uint64          `gorm:"not null;index:idx_invoice_items_invoice"`
	Position    int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:varchar(500)"`
	Quantity    int64           `gorm:"not null;default:0"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem.
func (m *InvoiceItemModel) ToDomain() *billing.InvoiceItem {
	return &billing.InvoiceItem{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Position:    m.Position,
		Description: m.Description,
		Quantity:    m.Quantity,
		Rate:        m.Rate,
		Amount:      m.Amount,
	}
}

// InvoiceItemModelFromDomain creates a new persistence model from a domain InvoiceItem.
func InvoiceItemModelFromDomain(item *billing.InvoiceItem) *InvoiceItemModel {
	return &InvoiceItemModel{
		ID:          item.ID,
		InvoiceID:   item.InvoiceID,
		Position:    item.Position,
		Description: item.Description,
		Quantity:    item.Quantity,
		Rate:        item.Rate,
		Amount:      item.Amount,
	}
}

// PaymentModel is the persistence model for the Payment domain entity.
type PaymentModel struct {
	BaseModel
	CustomerID  uint64          `gorm:"not null;index:idx_payments_customer"`
	InvoiceID   *uint64         `gorm:"index:idx_payments_invoice"`
	AmountPaid  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentDate time.Time       `gorm:"type:date;not null"`
	Customer    *CustomerModel  `gorm:"foreignKey:CustomerID"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *billing.Payment {
	p := &billing.Payment{
		BaseEntity:  m.BaseModel.ToDomain(),
		CustomerID:  m.CustomerID,
		InvoiceID:   m.InvoiceID,
		AmountPaid:  m.AmountPaid,
		PaymentDate: m.PaymentDate,
	}
	if m.Customer != nil {
		p.CustomerName = m.Customer.Name
	}
	return p
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.CustomerID = p.CustomerID
	m.InvoiceID = p.InvoiceID
	m.AmountPaid = p.AmountPaid
	m.PaymentDate = p.PaymentDate
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// InvoiceSequenceModel stores the last invoice number issued per year.
type InvoiceSequenceModel struct {
	Year       int   `gorm:"primaryKey;autoIncrement:false"`
	LastNumber int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}

// ToDomain converts the persistence model to a domain InvoiceSequence.
func (m *InvoiceSequenceModel) ToDomain() *billing.InvoiceSequence {
	return &billing.InvoiceSequence{
		Year:       m.Year,
		LastNumber: m.LastNumber,
	}
}

// AllModels lists every model, in dependency order, for AutoMigrate.
func AllModels() []any {
	return []any{
		&CustomerModel{},
		&InvoiceSequenceModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&PaymentModel{},
	}
}

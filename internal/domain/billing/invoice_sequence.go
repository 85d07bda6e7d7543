package billing

import "fmt"

// InvoiceNumberPrefix starts every invoice number
const InvoiceNumberPrefix = "IB"

// InvoiceSequence holds the last number issued in a calendar year
type InvoiceSequence struct {
	Year       int
	LastNumber int64
}

// NewInvoiceSequence starts a fresh counter for year
func NewInvoiceSequence(year int) *InvoiceSequence {
	return &InvoiceSequence{Year: year}
}

// Advance increments the counter by one and returns the new value
func (s *InvoiceSequence) Advance() int64 {
	s.LastNumber++
	return s.LastNumber
}

// FormatInvoiceNumber renders IB-{year}-{n} with n zero padded to four digits.
// Values above 9999 widen the field.
func FormatInvoiceNumber(year int, n int64) string {
	return fmt.Sprintf("%s-%d-%04d", InvoiceNumberPrefix, year, n)
}

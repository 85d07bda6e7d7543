package billing

import "github.com/shopspring/decimal"

// Balance is what a customer owes: invoiced minus paid.
// A negative value means the customer is in credit.
func Balance(totalInvoiced, totalPaid decimal.Decimal) decimal.Decimal {
	return totalInvoiced.Sub(totalPaid)
}

// CustomerBalance is a customer together with its derived totals
type CustomerBalance struct {
	Customer      Customer
	TotalInvoiced decimal.Decimal
	TotalPaid     decimal.Decimal
}

// Balance returns TotalInvoiced - TotalPaid
func (b CustomerBalance) Balance() decimal.Decimal {
	return Balance(b.TotalInvoiced, b.TotalPaid)
}

// MoneyScale is the number of decimal places stored for every money column
const MoneyScale = 2

// RoundMoney rounds d to MoneyScale places. Aggregates read back from the
// store go through it since some drivers return SUM over DECIMAL as a float.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// HasMoneyScale reports whether d can be stored without losing digits
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

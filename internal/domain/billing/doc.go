// Package billing holds the domain model for customer invoicing.
//
// The bounded context covers:
//   - Customers, who own invoices and payments by reference
//   - Invoices with line items, numbered from a per-year sequence
//   - Payments, recorded against a customer and optionally an invoice
//   - Balances, derived from invoice subtotals and payments
//
// Invoices are immutable once issued. Amounts are exact decimals.
package billing

// Package models holds the gorm table mappings for the billing store.
//
// Domain entities in internal/domain/billing carry no ORM tags. Each model
// here has a ToDomain method and a ...ModelFromDomain constructor used by
// the repositories. Money columns are DECIMAL(18,2) mapped to decimal.Decimal.
package models

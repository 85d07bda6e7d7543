package persistence

import (
	"errors"

	"github.com/imperialbinding/billing/internal/domain/shared"
	"gorm.io/gorm"
)

// wrapError converts a GORM error into a domain error for operation op
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.WrapDomainError(shared.CodeConcurrencyFailed, "failed to "+op+": duplicate key", err)
	}
	return shared.NewPersistenceError(op, err)
}

// notFoundOr maps gorm.ErrRecordNotFound to a not-found error for entity id
func notFoundOr(op, entity string, id uint64, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity, id)
	}
	return wrapError(op, err)
}

package domain

import (
	"github.com/allisson/cardvault/internal/errors"
)

// Payment-specific error definitions.
var (
	// ErrInvalidCardFormat indicates a card number is not 13-19 digits with a valid Luhn checksum.
	ErrInvalidCardFormat = errors.Wrap(errors.ErrInvalidInput, "invalid card format")

	// ErrPaymentMethodNotFound indicates no stored payment method has the requested id.
	ErrPaymentMethodNotFound = errors.Wrap(errors.ErrNotFound, "payment method not found")

	// ErrInvalidBatchSize indicates a migration or verification batch size below 1.
	ErrInvalidBatchSize = errors.Wrap(errors.ErrInvalidInput, "batch size must be greater than zero")

	// ErrSameKeyMigration indicates a migration whose source and target key are the same.
	ErrSameKeyMigration = errors.Wrap(errors.ErrInvalidInput, "old and new key ids must differ")
)

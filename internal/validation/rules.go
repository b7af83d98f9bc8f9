// Package validation provides custom validation rules for request DTOs.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// CardNumberCharacters accepts digits separated by spaces or dashes.
// Length and checksum are checked by the payment domain after sanitizing.
// The error message never echoes the value.
var CardNumberCharacters = validation.NewStringRuleWithError(
	func(s string) bool {
		for _, r := range s {
			if (r < '0' || r > '9') && r != ' ' && r != '-' {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_card_number_characters", "must contain only digits, spaces or dashes"),
)

// KeyID validates a key ring identifier.
var KeyID = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_key_id_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if err := cryptoDomain.ValidateKeyID(s); err != nil {
		return validation.NewError("validation_key_id", "must be a valid key id")
	}
	return nil
})

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

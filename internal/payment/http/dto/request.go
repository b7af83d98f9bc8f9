// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/cardvault/internal/validation"
)

// maxCardInputLength bounds card input before sanitizing, allowing one separator per digit.
const maxCardInputLength = 38

// EncryptRequest contains the parameters for encrypting arbitrary data.
type EncryptRequest struct {
	Plaintext string `json:"plaintext"` // Base64-encoded plaintext
	KeyID     string `json:"key_id"`    // Optional ring key; defaults to the current key
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
		validation.Field(&r.KeyID, customValidation.KeyID),
	)
}

// CiphertextRequest carries a single SealedString.
// It is used by decrypt, card decrypt, validate and inspect.
type CiphertextRequest struct {
	Ciphertext string `json:"ciphertext"`
}

// Validate checks if the ciphertext request is valid.
func (r *CiphertextRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}

// FingerprintRequest contains the data to fingerprint under the current key.
type FingerprintRequest struct {
	Plaintext string `json:"plaintext"` // Base64-encoded plaintext
}

// Validate checks if the fingerprint request is valid.
func (r *FingerprintRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}

// CardRequest carries a raw card number. Spaces and dashes are allowed.
type CardRequest struct {
	CardNumber string `json:"card_number"`
}

// Validate checks the card request shape. Length and Luhn are checked by the use case.
func (r *CardRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CardNumber,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, maxCardInputLength),
			customValidation.CardNumberCharacters,
		),
	)
}

// ReEncryptRequest moves a SealedString from one ring key to another.
type ReEncryptRequest struct {
	Ciphertext string `json:"ciphertext"`
	OldKeyID   string `json:"old_key_id"`
	NewKeyID   string `json:"new_key_id"`
}

// Validate checks if the re-encrypt request is valid.
func (r *ReEncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
		validation.Field(&r.OldKeyID, validation.Required, customValidation.KeyID),
		validation.Field(&r.NewKeyID, validation.Required, customValidation.KeyID),
	)
}

// MigrateRequest starts a migration of stored payment methods between keys.
type MigrateRequest struct {
	OldKeyID  string `json:"old_key_id"`
	NewKeyID  string `json:"new_key_id"`
	BatchSize int    `json:"batch_size"`
}

// Validate checks if the migrate request is valid.
func (r *MigrateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OldKeyID, validation.Required, customValidation.KeyID),
		validation.Field(&r.NewKeyID, validation.Required, customValidation.KeyID),
		validation.Field(&r.BatchSize, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

// VerifyRequest starts an integrity scan of stored payment methods.
type VerifyRequest struct {
	BatchSize int `json:"batch_size"`
}

// Validate checks if the verify request is valid.
func (r *VerifyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BatchSize, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

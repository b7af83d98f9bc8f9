// Package domain defines the payment card guard and the stored payment method record.
//
// Card numbers are sanitized and Luhn-validated before they reach a cipher. A stored
// PaymentMethod never holds the card number itself, only its sealed envelope, a
// salted fingerprint for equality search and the last four digits for display.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is a stored, encrypted card.
type PaymentMethod struct {
	// ID is the unique identifier of the payment method (UUIDv7).
	ID uuid.UUID
	// KeyID is the ring key the sealed card is currently encrypted under.
	KeyID string
	// SealedCard is the opaque SealedString holding the card number.
	SealedCard string
	// Fingerprint is the salted digest of the card number under the current key.
	Fingerprint string
	// LastFour holds the final four digits for display.
	LastFour string
	// CreatedAt is the UTC timestamp when the card was stored.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last re-encryption.
	UpdatedAt time.Time
}

// MigrationReport summarizes a key migration over stored payment methods.
type MigrationReport struct {
	OldKeyID string
	NewKeyID string
	Migrated int
}

// VerificationReport summarizes an integrity scan over stored payment methods.
type VerificationReport struct {
	Checked int
	Failed  []uuid.UUID
}

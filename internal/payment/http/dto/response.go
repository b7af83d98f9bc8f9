package dto

import (
	"time"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
)

// CiphertextResponse contains a SealedString.
type CiphertextResponse struct {
	Ciphertext string `json:"ciphertext"`
	KeyID      string `json:"key_id,omitempty"`
}

// CardCiphertextResponse contains an encrypted card and its masked form for display.
type CardCiphertextResponse struct {
	Ciphertext string `json:"ciphertext"`
	MaskedCard string `json:"masked_card"`
}

// PlaintextResponse contains decrypted data.
// SECURITY: The Plaintext field contains sensitive data and should be transmitted over HTTPS.
type PlaintextResponse struct {
	Plaintext []byte `json:"plaintext"`
}

// CardResponse contains a decrypted card number.
// SECURITY: The CardNumber field contains sensitive data and should be transmitted over HTTPS.
type CardResponse struct {
	CardNumber string `json:"card_number"`
}

// FingerprintResponse contains a salted fingerprint and the key that salted it.
type FingerprintResponse struct {
	Fingerprint string `json:"fingerprint"`
	KeyID       string `json:"key_id"`
}

// ValidateResponse reports whether a SealedString decrypts.
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// EnvelopeResponse describes an envelope without any ciphertext material.
type EnvelopeResponse struct {
	KeyID     string    `json:"key_id"`
	Algorithm string    `json:"algorithm"`
	Timestamp time.Time `json:"timestamp"`
	Length    int       `json:"length"`
}

// MapEnvelopeToResponse converts a decoded envelope to an API response.
func MapEnvelopeToResponse(env *cryptoDomain.Envelope) EnvelopeResponse {
	return EnvelopeResponse{
		KeyID:     env.KeyID,
		Algorithm: string(env.Algorithm),
		Timestamp: env.Timestamp,
		Length:    len(env.Ciphertext),
	}
}

// KeyResponse identifies a ring key.
type KeyResponse struct {
	KeyID string `json:"key_id"`
}

// PaymentMethodResponse represents a stored payment method in API responses.
// The sealed card and fingerprint are never exposed.
type PaymentMethodResponse struct {
	ID        string    `json:"id"`
	KeyID     string    `json:"key_id"`
	LastFour  string    `json:"last_four"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapPaymentMethodToResponse converts a domain payment method to an API response.
func MapPaymentMethodToResponse(pm *paymentDomain.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:        pm.ID.String(),
		KeyID:     pm.KeyID,
		LastFour:  pm.LastFour,
		CreatedAt: pm.CreatedAt,
		UpdatedAt: pm.UpdatedAt,
	}
}

// ListPaymentMethodsResponse is one keyset page of payment methods.
type ListPaymentMethodsResponse struct {
	Data []PaymentMethodResponse `json:"data"`
	// Next is the "after" value for the following page, empty on the last page.
	Next string `json:"next,omitempty"`
}

// MapPaymentMethodsToListResponse converts a page of payment methods. limit is the
// requested page size; a full page yields a Next cursor.
func MapPaymentMethodsToListResponse(methods []*paymentDomain.PaymentMethod, limit int) ListPaymentMethodsResponse {
	data := make([]PaymentMethodResponse, 0, len(methods))
	for _, pm := range methods {
		data = append(data, MapPaymentMethodToResponse(pm))
	}

	response := ListPaymentMethodsResponse{Data: data}
	if len(methods) > 0 && len(methods) == limit {
		response.Next = methods[len(methods)-1].ID.String()
	}
	return response
}

// MigrationResponse summarizes a finished migration.
type MigrationResponse struct {
	OldKeyID string `json:"old_key_id"`
	NewKeyID string `json:"new_key_id"`
	Migrated int    `json:"migrated"`
}

// MapMigrationReportToResponse converts a migration report to an API response.
func MapMigrationReportToResponse(report *paymentDomain.MigrationReport) MigrationResponse {
	return MigrationResponse{
		OldKeyID: report.OldKeyID,
		NewKeyID: report.NewKeyID,
		Migrated: report.Migrated,
	}
}

// VerificationResponse summarizes an integrity scan.
type VerificationResponse struct {
	Checked int      `json:"checked"`
	Failed  []string `json:"failed"`
}

// MapVerificationReportToResponse converts a verification report to an API response.
func MapVerificationReportToResponse(report *paymentDomain.VerificationReport) VerificationResponse {
	failed := make([]string, 0, len(report.Failed))
	for _, id := range report.Failed {
		failed = append(failed, id.String())
	}
	return VerificationResponse{Checked: report.Checked, Failed: failed}
}

// Package usecase implements the payment-data encryption facade, key rotation and
// the stored payment method workflows built on top of them.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
)

// PaymentMethodRepository defines the interface for PaymentMethod persistence operations.
type PaymentMethodRepository interface {
	Create(ctx context.Context, pm *paymentDomain.PaymentMethod) error
	Update(ctx context.Context, pm *paymentDomain.PaymentMethod) error
	Get(ctx context.Context, id uuid.UUID) (*paymentDomain.PaymentMethod, error)
	GetByFingerprint(ctx context.Context, fingerprint string) (*paymentDomain.PaymentMethod, error)
	// ListByKeyID returns up to limit payment methods still encrypted under keyID.
	ListByKeyID(ctx context.Context, keyID string, limit int) ([]*paymentDomain.PaymentMethod, error)
	// ListAfter returns up to limit payment methods with an id greater than afterID, ordered by id.
	ListAfter(ctx context.Context, afterID uuid.UUID, limit int) ([]*paymentDomain.PaymentMethod, error)
}

// KeyRotationUseCase defines key rotation and re-encryption.
type KeyRotationUseCase interface {
	// RotateKey adds a fresh key to the ring and returns its id. The current key is unchanged.
	RotateKey(ctx context.Context) (string, error)
	// ActivateKey makes keyID the current key for new encryptions.
	ActivateKey(ctx context.Context, keyID string) error
	// ReEncrypt decrypts sealed with oldKeyID and encrypts the plaintext under newKeyID.
	ReEncrypt(ctx context.Context, sealed, oldKeyID, newKeyID string) (string, error)
	// ReEncryptBatch runs ReEncrypt over sealed with bounded concurrency.
	// The result is index-aligned with sealed. Any failure fails the whole batch.
	ReEncryptBatch(ctx context.Context, sealed []string, oldKeyID, newKeyID string) ([]string, error)
}

// EncryptionUseCase is the public encryption facade used by payment code.
//
// Every ciphertext it returns is a SealedString: base64 of the outer-sealed,
// serialized envelope. Callers persist that string and nothing else.
type EncryptionUseCase interface {
	KeyRotationUseCase

	Encrypt(ctx context.Context, plaintext []byte) (string, error)
	EncryptWithKey(ctx context.Context, plaintext []byte, keyID string) (string, error)
	// Decrypt returns the plaintext of sealed.
	//
	// Security Note: callers should zero the returned slice with cryptoDomain.Zero after use.
	Decrypt(ctx context.Context, sealed string) ([]byte, error)
	EncryptCard(ctx context.Context, rawCardNumber string) (string, error)
	DecryptCard(ctx context.Context, sealed string) (string, error)
	Fingerprint(plaintext []byte) string
	CurrentKeyID() string
	// ValidateIntegrity reports whether sealed decrypts. It is meant for health checks.
	ValidateIntegrity(ctx context.Context, sealed string) bool
	// Inspect unseals and decodes sealed without decrypting it.
	Inspect(ctx context.Context, sealed string) (*cryptoDomain.Envelope, error)
}

// PaymentMethodUseCase defines the stored payment method workflows.
type PaymentMethodUseCase interface {
	// Store validates and encrypts rawCardNumber. A card already stored under the same
	// fingerprint is returned instead of creating a duplicate.
	Store(ctx context.Context, rawCardNumber string) (*paymentDomain.PaymentMethod, error)
	Get(ctx context.Context, id uuid.UUID) (*paymentDomain.PaymentMethod, error)
	FindByCardNumber(ctx context.Context, rawCardNumber string) (*paymentDomain.PaymentMethod, error)
	// List returns up to limit payment methods with an id greater than afterID, ordered by id.
	List(ctx context.Context, afterID uuid.UUID, limit int) ([]*paymentDomain.PaymentMethod, error)
	// Reveal decrypts the card number of a stored payment method.
	Reveal(ctx context.Context, id uuid.UUID) (string, error)
	// Migrate re-encrypts every payment method on oldKeyID under newKeyID and
	// recomputes its fingerprint under the current key.
	Migrate(ctx context.Context, oldKeyID, newKeyID string, batchSize int) (*paymentDomain.MigrationReport, error)
	// Verify checks that every stored payment method still decrypts.
	Verify(ctx context.Context, batchSize int) (*paymentDomain.VerificationReport, error)
}

package usecase

import (
	"context"
	"log/slog"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
)

// encryptionUseCase implements EncryptionUseCase.
//
// Calls are independent: the only shared state is the read-mostly KeyRing and the
// current key pointer, so any number of goroutines may encrypt and decrypt at once.
type encryptionUseCase struct {
	*keyRotationUseCase

	fingerprints cryptoService.FingerprintGenerator
}

// Encrypt encrypts plaintext under the current key.
func (e *encryptionUseCase) Encrypt(ctx context.Context, plaintext []byte) (string, error) {
	return e.EncryptWithKey(ctx, plaintext, e.current.ID())
}

// EncryptWithKey encrypts plaintext under the ring key registered as keyID.
func (e *encryptionUseCase) EncryptWithKey(ctx context.Context, plaintext []byte, keyID string) (string, error) {
	if len(plaintext) == 0 {
		return "", cryptoDomain.ErrEmptyPlaintext
	}

	env, err := e.envelopes.Encrypt(e.ring, keyID, e.algorithm, plaintext)
	if err != nil {
		return "", err
	}
	return e.codec.encode(ctx, env)
}

// Decrypt unseals sealed and decrypts it with the key named in its envelope.
func (e *encryptionUseCase) Decrypt(ctx context.Context, sealed string) ([]byte, error) {
	env, err := e.codec.decode(ctx, sealed)
	if err != nil {
		return nil, err
	}

	plaintext, err := e.envelopes.Decrypt(e.ring, env, env.KeyID)
	if err != nil {
		e.logger.WarnContext(ctx, "decryption failed",
			slog.String("key_id", env.KeyID),
			slog.Any("error", err),
		)
		return nil, err
	}
	return plaintext, nil
}

// EncryptCard sanitizes and validates rawCardNumber before encrypting it.
// Invalid numbers fail with ErrInvalidCardFormat without touching a cipher.
func (e *encryptionUseCase) EncryptCard(ctx context.Context, rawCardNumber string) (string, error) {
	number := paymentDomain.SanitizeCardNumber(rawCardNumber)
	if !paymentDomain.ValidateCardNumber(number) {
		return "", paymentDomain.ErrInvalidCardFormat
	}

	sealed, err := e.Encrypt(ctx, []byte(number))
	if err != nil {
		return "", err
	}

	e.logger.DebugContext(ctx, "card encrypted",
		slog.String("last_four", paymentDomain.LastFour(number)),
		slog.String("key_id", e.current.ID()),
	)
	return sealed, nil
}

// DecryptCard decrypts a SealedString produced by EncryptCard.
func (e *encryptionUseCase) DecryptCard(ctx context.Context, sealed string) (string, error) {
	plaintext, err := e.Decrypt(ctx, sealed)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	return string(plaintext), nil
}

// Fingerprint returns the salted digest of plaintext under the current key id.
func (e *encryptionUseCase) Fingerprint(plaintext []byte) string {
	return e.fingerprints.Fingerprint(plaintext, e.current.ID())
}

// CurrentKeyID returns the id of the key used for new encryptions.
func (e *encryptionUseCase) CurrentKeyID() string {
	return e.current.ID()
}

// ValidateIntegrity reports whether sealed still decrypts. Failures are swallowed.
func (e *encryptionUseCase) ValidateIntegrity(ctx context.Context, sealed string) bool {
	plaintext, err := e.Decrypt(ctx, sealed)
	if err != nil {
		return false
	}
	cryptoDomain.Zero(plaintext)
	return true
}

// Inspect unseals and decodes sealed without decrypting it.
func (e *encryptionUseCase) Inspect(ctx context.Context, sealed string) (*cryptoDomain.Envelope, error) {
	return e.codec.decode(ctx, sealed)
}

// NewEncryptionUseCase creates the encryption facade.
//
// currentKeyID must already be registered in ring.
func NewEncryptionUseCase(
	ring *cryptoDomain.KeyRing,
	current *CurrentKey,
	envelopes cryptoService.EnvelopeEncrypter,
	sealer cryptoService.SecretSealer,
	fingerprints cryptoService.FingerprintGenerator,
	algorithm cryptoDomain.Algorithm,
	concurrency int,
	logger *slog.Logger,
) EncryptionUseCase {
	return &encryptionUseCase{
		keyRotationUseCase: newKeyRotationUseCase(
			ring,
			current,
			envelopes,
			sealer,
			algorithm,
			concurrency,
			logger,
		),
		fingerprints: fingerprints,
	}
}

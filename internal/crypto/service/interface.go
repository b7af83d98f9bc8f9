// Package service provides the authenticated ciphers, envelope encryption and outer
// sealing used to protect payment data at rest.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
//
// Implementations return the authentication tag detached from the ciphertext, so
// len(ciphertext) always equals len(plaintext).
type AEAD interface {
	// Encrypt encrypts plaintext under a fresh random nonce.
	Encrypt(plaintext, aad []byte) (nonce, ciphertext, tag []byte, err error)

	// Decrypt verifies tag and returns the plaintext, or ErrAuthenticationFailed.
	Decrypt(nonce, ciphertext, tag, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// EnvelopeEncrypter turns plaintext into Envelopes using keys held in a KeyRing.
type EnvelopeEncrypter interface {
	// Encrypt encrypts plaintext under the ring key registered as keyID.
	Encrypt(
		ring *cryptoDomain.KeyRing,
		keyID string,
		alg cryptoDomain.Algorithm,
		plaintext []byte,
	) (*cryptoDomain.Envelope, error)

	// Decrypt authenticates and decrypts env using the ring key registered as keyID.
	Decrypt(ring *cryptoDomain.KeyRing, env *cryptoDomain.Envelope, keyID string) ([]byte, error)
}

// SecretSealer wraps serialized envelopes with a host-managed key.
//
// Both methods fail with ErrSealingFailed when the host key is unavailable.
type SecretSealer interface {
	Seal(ctx context.Context, data []byte) (string, error)
	Unseal(ctx context.Context, sealed string) ([]byte, error)
}

// FingerprintGenerator produces deterministic salted digests for equality search.
type FingerprintGenerator interface {
	Fingerprint(plaintext []byte, keyID string) string
}

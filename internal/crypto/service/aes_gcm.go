package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// Security properties:
//   - 256-bit key
//   - 12-byte nonce, randomly generated per encryption
//   - 16-byte authentication tag, returned detached from the ciphertext
//
// The random nonce trades a negligible birthday-bound collision probability for
// statelessness: no counter has to survive restarts or be shared across replicas.
//
// The cipher is safe for concurrent use from multiple goroutines.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
// The key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with optional additional authenticated data.
// Pass nil for aad if no additional data needs to be authenticated.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (nonce, ciphertext, tag []byte, err error) {
	return sealDetached(a.aead, plaintext, aad)
}

// Decrypt verifies the tag and decrypts ciphertext. On a tag mismatch it returns
// ErrAuthenticationFailed and no plaintext bytes.
func (a *AESGCMCipher) Decrypt(nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	return openDetached(a.aead, nonce, ciphertext, tag, aad)
}

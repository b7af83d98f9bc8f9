package service

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using ChaCha20-Poly1305.
//
// It is efficient on platforms without hardware AES acceleration and shares the
// nonce and tag sizes of AES-256-GCM, so envelopes of both algorithms have the same shape.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 creates a new ChaCha20-Poly1305 cipher instance.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using ChaCha20-Poly1305 with optional additional authenticated data.
func (c *ChaCha20Poly1305Cipher) Encrypt(plaintext, aad []byte) (nonce, ciphertext, tag []byte, err error) {
	return sealDetached(c.aead, plaintext, aad)
}

// Decrypt verifies the Poly1305 tag and decrypts ciphertext.
func (c *ChaCha20Poly1305Cipher) Decrypt(nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	return openDetached(c.aead, nonce, ciphertext, tag, aad)
}

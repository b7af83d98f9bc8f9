package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// sealDetached encrypts plaintext under a fresh nonce and splits the tag off the
// AEAD output.
func sealDetached(aead cipher.AEAD, plaintext, aad []byte) (nonce, ciphertext, tag []byte, err error) {
	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := aead.Seal(nil, nonce, plaintext, aad)
	split := len(out) - aead.Overhead()
	return nonce, out[:split:split], out[split:], nil
}

// openDetached rejoins ciphertext and tag and verifies them.
// Nothing but ErrAuthenticationFailed is returned when verification fails.
func openDetached(aead cipher.AEAD, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf(
			"%w: nonce must be %d bytes, got %d",
			cryptoDomain.ErrMalformedEnvelope,
			aead.NonceSize(),
			len(nonce),
		)
	}
	if len(tag) != aead.Overhead() {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}

package domain

import "fmt"

// Algorithm identifies the AEAD construction that produced an Envelope.
//
// The value is written verbatim into every envelope so readers can refuse
// ciphertext they do not know how to authenticate.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode with a 96-bit nonce and 128-bit tag.
	AESGCM Algorithm = "AES-256-GCM"

	// ChaCha20 is ChaCha20-Poly1305 (RFC 8439) with a 96-bit nonce and 128-bit tag.
	ChaCha20 Algorithm = "CHACHA20-POLY1305"
)

const (
	// KeySize is the size in bytes of every symmetric key held in a KeyRing.
	KeySize = 32
	// NonceSize is the size in bytes of the per-message nonce.
	NonceSize = 12
	// TagSize is the size in bytes of the authentication tag.
	TagSize = 16
	// MaxKeyIDLength bounds key identifiers so they fit the key_id column.
	MaxKeyIDLength = 255
)

// ParseAlgorithm converts a wire string into a known Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}

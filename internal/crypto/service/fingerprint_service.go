package service

import (
	"crypto/sha256"
	"encoding/base64"
)

// FingerprintSaltPrefix is prepended to the key id to form the fingerprint salt.
const FingerprintSaltPrefix = "FINGERPRINT_SALT_"

type sha256FingerprintService struct{}

// NewSHA256FingerprintService creates a FingerprintGenerator computing
// base64(SHA-256("FINGERPRINT_SALT_" + keyID || plaintext)).
//
// The salt embeds the key id, so the digest of a value changes whenever the
// current key changes. Stored fingerprints must be recomputed after activating a
// new key.
func NewSHA256FingerprintService() FingerprintGenerator {
	return &sha256FingerprintService{}
}

// Fingerprint returns the salted digest of plaintext.
func (s *sha256FingerprintService) Fingerprint(plaintext []byte, keyID string) string {
	h := sha256.New()
	h.Write([]byte(FingerprintSaltPrefix + keyID))
	h.Write(plaintext)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

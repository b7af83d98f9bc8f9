package service

import (
	"fmt"
	"maps"
	"slices"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

type cipherFactory func(key []byte) (AEAD, error)

// AEADManagerService builds per-key ciphers for every algorithm an envelope may name.
type AEADManagerService struct {
	factories map[cryptoDomain.Algorithm]cipherFactory
}

// NewAEADManager registers AES-256-GCM and ChaCha20-Poly1305.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{
		factories: map[cryptoDomain.Algorithm]cipherFactory{
			cryptoDomain.AESGCM: func(key []byte) (AEAD, error) {
				return NewAESGCM(key)
			},
			cryptoDomain.ChaCha20: func(key []byte) (AEAD, error) {
				return NewChaCha20Poly1305(key)
			},
		},
	}
}

// Algorithms returns the registered algorithms in sorted order.
func (am *AEADManagerService) Algorithms() []cryptoDomain.Algorithm {
	return slices.Sorted(maps.Keys(am.factories))
}

// CreateCipher returns a cipher for alg keyed with key. The key size is
// checked before the algorithm so a short key never reaches a constructor.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	factory, ok := am.factories[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedAlgorithm, alg)
	}
	return factory(key)
}

package service

import (
	"time"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// EnvelopeService implements EnvelopeEncrypter.
//
// Keys are read from the ring per call and zeroed as soon as the cipher has been
// built. No lock is held across nonce generation and the AEAD call.
type EnvelopeService struct {
	aeadManager AEADManager
	now         func() time.Time
}

// NewEnvelopeService creates an EnvelopeService backed by aeadManager.
func NewEnvelopeService(aeadManager AEADManager) *EnvelopeService {
	return &EnvelopeService{
		aeadManager: aeadManager,
		now:         time.Now,
	}
}

// Encrypt encrypts plaintext under the ring key registered as keyID.
//
// Returns ErrKeyNotFound if the ring does not hold keyID.
func (s *EnvelopeService) Encrypt(
	ring *cryptoDomain.KeyRing,
	keyID string,
	alg cryptoDomain.Algorithm,
	plaintext []byte,
) (*cryptoDomain.Envelope, error) {
	cipher, err := s.cipherFor(ring, keyID, alg)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext, tag, err := cipher.Encrypt(plaintext, nil)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.Envelope{
		KeyID:      keyID,
		Algorithm:  alg,
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Tag:        tag,
		Timestamp:  s.now().UTC(),
	}, nil
}

// Decrypt authenticates and decrypts env with the ring key registered as keyID.
//
// keyID is normally env.KeyID. Passing a different id decrypts with that key, which
// fails with ErrAuthenticationFailed unless both ids are bound to the same key.
func (s *EnvelopeService) Decrypt(
	ring *cryptoDomain.KeyRing,
	env *cryptoDomain.Envelope,
	keyID string,
) ([]byte, error) {
	cipher, err := s.cipherFor(ring, keyID, env.Algorithm)
	if err != nil {
		return nil, err
	}
	return cipher.Decrypt(env.Nonce, env.Ciphertext, env.Tag, nil)
}

func (s *EnvelopeService) cipherFor(
	ring *cryptoDomain.KeyRing,
	keyID string,
	alg cryptoDomain.Algorithm,
) (AEAD, error) {
	key, err := ring.Get(keyID)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	return s.aeadManager.CreateCipher(key, alg)
}

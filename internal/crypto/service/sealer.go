package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// KeeperSealer is a SecretSealer backed by a gocloud.dev/secrets keeper.
//
// Each call is bounded by timeout so a slow KMS cannot stall request handling.
// The sealed form is unpadded base64url of the keeper ciphertext.
type KeeperSealer struct {
	keeper  cryptoDomain.KMSKeeper
	timeout time.Duration
}

// NewKeeperSealer creates a KeeperSealer. A non-positive timeout disables the bound.
func NewKeeperSealer(keeper cryptoDomain.KMSKeeper, timeout time.Duration) *KeeperSealer {
	return &KeeperSealer{keeper: keeper, timeout: timeout}
}

// Seal encrypts data with the keeper key.
func (s *KeeperSealer) Seal(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ciphertext, err := s.keeper.Encrypt(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoDomain.ErrSealingFailed, err)
	}
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// Unseal reverses Seal.
func (s *KeeperSealer) Unseal(ctx context.Context, sealed string) ([]byte, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: sealed payload is not base64url", cryptoDomain.ErrMalformedEnvelope)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := s.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrSealingFailed, err)
	}
	return data, nil
}

// Close releases the keeper.
func (s *KeeperSealer) Close() error {
	return s.keeper.Close()
}

func (s *KeeperSealer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// PassthroughSealer is a SecretSealer that adds no outer protection.
// It is meant for development and tests.
type PassthroughSealer struct{}

// NewPassthroughSealer creates a PassthroughSealer.
func NewPassthroughSealer() *PassthroughSealer {
	return &PassthroughSealer{}
}

// Seal returns data as a string.
func (s *PassthroughSealer) Seal(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}

// Unseal returns sealed as bytes.
func (s *PassthroughSealer) Unseal(_ context.Context, sealed string) ([]byte, error) {
	return []byte(sealed), nil
}

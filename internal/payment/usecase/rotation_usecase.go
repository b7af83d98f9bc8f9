package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

// keyRotationUseCase implements KeyRotationUseCase.
//
// Rotation only ever adds keys to the ring. Old keys stay resolvable so records
// that have not been migrated yet keep decrypting.
type keyRotationUseCase struct {
	ring        *cryptoDomain.KeyRing
	current     *CurrentKey
	envelopes   cryptoService.EnvelopeEncrypter
	codec       sealedCodec
	algorithm   cryptoDomain.Algorithm
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// RotateKey generates a new 256-bit key and registers it under a fresh id.
//
// The key lives in process memory only. Operators persist durable keys with the
// create-key command and ENCRYPTION_KEYS.
func (r *keyRotationUseCase) RotateKey(ctx context.Context) (string, error) {
	key, err := cryptoDomain.GenerateKey()
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(key)

	keyID := cryptoDomain.NewKeyID(r.now())
	if err := r.ring.Add(keyID, key); err != nil {
		return "", err
	}

	r.logger.InfoContext(ctx, "key rotated",
		slog.String("key_id", keyID),
		slog.Int("key_count", r.ring.Len()),
	)
	return keyID, nil
}

// ActivateKey makes keyID the current key. Returns ErrKeyNotFound if the ring does not hold it.
func (r *keyRotationUseCase) ActivateKey(ctx context.Context, keyID string) error {
	if !r.ring.Contains(keyID) {
		return fmt.Errorf("%w: %s", cryptoDomain.ErrKeyNotFound, keyID)
	}

	previous := r.current.ID()
	r.current.Set(keyID)

	r.logger.InfoContext(ctx, "current key changed",
		slog.String("previous_key_id", previous),
		slog.String("key_id", keyID),
	)
	return nil
}

// ReEncrypt decrypts sealed with oldKeyID and returns a new SealedString under newKeyID.
//
// The stored value must only be replaced after this call succeeds, and oldKeyID must
// stay in the ring until every record referencing it has been migrated.
func (r *keyRotationUseCase) ReEncrypt(ctx context.Context, sealed, oldKeyID, newKeyID string) (string, error) {
	env, err := r.codec.decode(ctx, sealed)
	if err != nil {
		return "", err
	}
	if env.KeyID != oldKeyID {
		r.logger.WarnContext(ctx, "re-encrypt source key differs from envelope key",
			slog.String("envelope_key_id", env.KeyID),
			slog.String("old_key_id", oldKeyID),
		)
	}
	if !r.ring.Contains(newKeyID) {
		return "", fmt.Errorf("%w: %s", cryptoDomain.ErrKeyNotFound, newKeyID)
	}

	plaintext, err := r.envelopes.Decrypt(r.ring, env, oldKeyID)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	reEncrypted, err := r.envelopes.Encrypt(r.ring, newKeyID, r.algorithm, plaintext)
	if err != nil {
		return "", err
	}
	return r.codec.encode(ctx, reEncrypted)
}

// ReEncryptBatch re-encrypts sealed with at most concurrency calls in flight.
func (r *keyRotationUseCase) ReEncryptBatch(
	ctx context.Context,
	sealed []string,
	oldKeyID, newKeyID string,
) ([]string, error) {
	results := make([]string, len(sealed))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, s := range sealed {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := r.ReEncrypt(gctx, s, oldKeyID, newKeyID)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// NewKeyRotationUseCase creates a KeyRotationUseCase over ring and current.
func NewKeyRotationUseCase(
	ring *cryptoDomain.KeyRing,
	current *CurrentKey,
	envelopes cryptoService.EnvelopeEncrypter,
	sealer cryptoService.SecretSealer,
	algorithm cryptoDomain.Algorithm,
	concurrency int,
	logger *slog.Logger,
) KeyRotationUseCase {
	return newKeyRotationUseCase(ring, current, envelopes, sealer, algorithm, concurrency, logger)
}

func newKeyRotationUseCase(
	ring *cryptoDomain.KeyRing,
	current *CurrentKey,
	envelopes cryptoService.EnvelopeEncrypter,
	sealer cryptoService.SecretSealer,
	algorithm cryptoDomain.Algorithm,
	concurrency int,
	logger *slog.Logger,
) *keyRotationUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &keyRotationUseCase{
		ring:        ring,
		current:     current,
		envelopes:   envelopes,
		codec:       sealedCodec{sealer: sealer},
		algorithm:   algorithm,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
)

// KMSKeeper is the subset of *secrets.Keeper used to unwrap configured keys.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KeeperOpener opens a KMSKeeper for a gocloud secrets URI.
type KeeperOpener interface {
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

// KeyRingOptions is the configuration surface read by LoadKeyRing.
type KeyRingOptions struct {
	// MasterKey is the base64 master key (or its KMS ciphertext when KMSKeyURI is set).
	MasterKey string
	// CurrentKeyID is the id for MasterKey. Derived from the key when empty.
	CurrentKeyID string
	// EncryptionKeys holds "id:base64" pairs from earlier rotations.
	EncryptionKeys string
	// KMSKeyURI enables KMS mode: every configured key is a KMS ciphertext.
	KMSKeyURI string
}

// LoadKeyRing builds the startup KeyRing and returns it with the current key id.
//
// When no master key is configured an ephemeral one is generated and a warning is
// logged: data encrypted in this run becomes unrecoverable after a restart.
// A key id bound to two different keys fails with ErrKeyConflict.
func LoadKeyRing(
	ctx context.Context,
	opts KeyRingOptions,
	opener KeeperOpener,
	logger *slog.Logger,
) (*KeyRing, string, error) {
	unwrap, closeKeeper, err := newUnwrapper(ctx, opts.KMSKeyURI, opener)
	if err != nil {
		return nil, "", err
	}
	defer closeKeeper(logger)

	ring := NewKeyRing()

	masterKey, err := loadMasterKey(ctx, opts.MasterKey, unwrap, logger)
	if err != nil {
		return nil, "", err
	}
	defer Zero(masterKey)

	currentID := opts.CurrentKeyID
	if currentID == "" {
		currentID = DeriveKeyID(masterKey)
	}
	if err := ring.Add(currentID, masterKey); err != nil {
		ring.Close()
		return nil, "", err
	}

	if err := loadAdditionalKeys(ctx, ring, opts.EncryptionKeys, unwrap); err != nil {
		ring.Close()
		return nil, "", err
	}

	logger.Info("key ring loaded",
		slog.String("current_key_id", currentID),
		slog.Int("key_count", ring.Len()),
		slog.Bool("kms", opts.KMSKeyURI != ""),
	)

	return ring, currentID, nil
}

type unwrapFunc func(ctx context.Context, encoded string) ([]byte, error)

func newUnwrapper(
	ctx context.Context,
	keyURI string,
	opener KeeperOpener,
) (unwrapFunc, func(*slog.Logger), error) {
	plain := func(_ context.Context, encoded string) ([]byte, error) {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64: %v", ErrInvalidKeyRingConfig, err)
		}
		return key, nil
	}
	if keyURI == "" {
		return plain, func(*slog.Logger) {}, nil
	}
	if opener == nil {
		return nil, nil, fmt.Errorf("%w: KMS key URI set without a keeper opener", ErrInvalidKeyRingConfig)
	}

	keeper, err := opener.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSealingFailed, err)
	}

	unwrap := func(ctx context.Context, encoded string) ([]byte, error) {
		ciphertext, err := plain(ctx, encoded)
		if err != nil {
			return nil, err
		}
		key, err := keeper.Decrypt(ctx, ciphertext)
		if err != nil {
			return nil, fmt.Errorf("%w: kms decrypt: %w", ErrSealingFailed, err)
		}
		return key, nil
	}
	closer := func(logger *slog.Logger) {
		if err := keeper.Close(); err != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", err))
		}
	}
	return unwrap, closer, nil
}

func loadMasterKey(ctx context.Context, encoded string, unwrap unwrapFunc, logger *slog.Logger) ([]byte, error) {
	if encoded == "" {
		logger.Warn("no master key configured, generated an ephemeral key for development use only")
		logger.Warn("data encrypted with an ephemeral key is unrecoverable after restart, unsafe for production")
		return GenerateKey()
	}

	key, err := unwrap(ctx, strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}
	if len(key) != KeySize {
		Zero(key)
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}
	return key, nil
}

func loadAdditionalKeys(ctx context.Context, ring *KeyRing, raw string, unwrap unwrapFunc) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	i := 0
	for part := range strings.SplitSeq(raw, ",") {
		i++
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			// the entry may be key material, report its position only
			return fmt.Errorf("%w: entry %d is not id:base64key", ErrInvalidKeyRingConfig, i)
		}

		key, err := unwrap(ctx, p[1])
		if err != nil {
			return fmt.Errorf("key %s: %w", p[0], err)
		}
		err = ring.Add(p[0], key)
		Zero(key)
		if err != nil {
			return err
		}
	}
	return nil
}

package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// RunCreateKey generates a 256-bit key and writes it in the formats accepted by
// MASTER_KEY/CURRENT_KEY_ID and ENCRYPTION_KEYS.
//
// When kmsKeyURI is set the key is encrypted with the KMS keeper before output, matching
// the KMS_KEY_URI startup mode. Key material is zeroed once encoded.
func RunCreateKey(
	ctx context.Context,
	opener cryptoDomain.KeeperOpener,
	logger *slog.Logger,
	writer io.Writer,
	keyID string,
	kmsKeyURI string,
	format string,
) error {
	if keyID == "" {
		keyID = cryptoDomain.NewKeyID(time.Now())
	}
	if err := cryptoDomain.ValidateKeyID(keyID); err != nil {
		return err
	}

	key, err := cryptoDomain.GenerateKey()
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(key)

	encoded, err := encodeKey(ctx, opener, key, kmsKeyURI)
	if err != nil {
		return err
	}

	logger.Info("key created", slog.String("key_id", keyID), slog.Bool("kms", kmsKeyURI != ""))

	if format == "json" {
		return writeJSON(writer, map[string]interface{}{
			"key_id": keyID,
			"key":    encoded,
			"kms":    kmsKeyURI != "",
		})
	}

	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# As the current key:")
	_, _ = fmt.Fprintf(writer, "MASTER_KEY=\"%s\"\n", encoded)
	_, _ = fmt.Fprintf(writer, "CURRENT_KEY_ID=\"%s\"\n", keyID)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Or appended to the keys loaded alongside the current one:")
	_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEYS=\"%s:%s\"\n", keyID, encoded)

	return nil
}

func encodeKey(ctx context.Context, opener cryptoDomain.KeeperOpener, key []byte, kmsKeyURI string) (string, error) {
	if kmsKeyURI == "" {
		return base64.StdEncoding.EncodeToString(key), nil
	}

	keeper, err := opener.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() { _ = keeper.Close() }()

	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt key with KMS: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

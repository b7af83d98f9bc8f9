package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
	apperrors "github.com/allisson/cardvault/internal/errors"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
)

func masterKeyFixture(b byte) []byte {
	return bytes.Repeat([]byte{b}, cryptoDomain.KeySize)
}

func TestEncryptionUseCase_EncryptDecrypt(t *testing.T) {
	ctx := context.Background()
	facade := newTestFacade(t, masterKeyFixture(1))

	t.Run("Success_RoundTrip", func(t *testing.T) {
		sealed, err := facade.Encrypt(ctx, []byte("secret"))
		require.NoError(t, err)
		assert.NotContains(t, sealed, "secret")

		plaintext, err := facade.Decrypt(ctx, sealed)
		require.NoError(t, err)
		assert.Equal(t, []byte("secret"), plaintext)
	})

	t.Run("Success_SealedStringIsBase64OfSealerOutput", func(t *testing.T) {
		sealed, err := facade.Encrypt(ctx, []byte("secret"))
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(sealed)
		require.NoError(t, err)

		env, err := cryptoDomain.ParseEnvelope(raw)
		require.NoError(t, err)
		assert.Equal(t, facade.CurrentKeyID(), env.KeyID)
		assert.Equal(t, cryptoDomain.AESGCM, env.Algorithm)
		assert.Len(t, env.Ciphertext, len("secret"))
	})

	t.Run("Success_DistinctCiphertexts", func(t *testing.T) {
		s1, err := facade.Encrypt(ctx, []byte("secret"))
		require.NoError(t, err)
		s2, err := facade.Encrypt(ctx, []byte("secret"))
		require.NoError(t, err)
		assert.NotEqual(t, s1, s2)
	})

	t.Run("Error_EmptyPlaintext", func(t *testing.T) {
		seals := facade.sealer.seals.Load()

		_, err := facade.Encrypt(ctx, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrEmptyPlaintext)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Equal(t, seals, facade.sealer.seals.Load())
	})

	t.Run("Error_NotBase64", func(t *testing.T) {
		_, err := facade.Decrypt(ctx, "***")
		assert.ErrorIs(t, err, cryptoDomain.ErrMalformedEnvelope)
	})

	t.Run("Error_EmptySealedString", func(t *testing.T) {
		_, err := facade.Decrypt(ctx, "")
		assert.ErrorIs(t, err, cryptoDomain.ErrMalformedEnvelope)
	})

	t.Run("Error_Tampered", func(t *testing.T) {
		sealed, err := facade.Encrypt(ctx, []byte("secret"))
		require.NoError(t, err)

		env, err := facade.Inspect(ctx, sealed)
		require.NoError(t, err)
		env.Ciphertext[0] ^= 0x80
		data, err := env.Marshal()
		require.NoError(t, err)

		plaintext, err := facade.Decrypt(ctx, base64.StdEncoding.EncodeToString(data))
		assert.Nil(t, plaintext)
		assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
	})

	t.Run("Error_SealerUnavailable", func(t *testing.T) {
		failing := newTestFacade(t, masterKeyFixture(1))
		failing.sealer.err = cryptoDomain.ErrSealingFailed

		_, err := failing.Encrypt(ctx, []byte("secret"))
		assert.ErrorIs(t, err, cryptoDomain.ErrSealingFailed)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	})
}

func TestEncryptionUseCase_EncryptWithKey(t *testing.T) {
	ctx := context.Background()
	facade := newTestFacade(t, masterKeyFixture(1))

	other, err := facade.RotateKey(ctx)
	require.NoError(t, err)

	sealed, err := facade.EncryptWithKey(ctx, []byte("secret"), other)
	require.NoError(t, err)

	env, err := facade.Inspect(ctx, sealed)
	require.NoError(t, err)
	assert.Equal(t, other, env.KeyID)

	plaintext, err := facade.Decrypt(ctx, sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), plaintext)

	_, err = facade.EncryptWithKey(ctx, []byte("secret"), "key_missing")
	assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
}

func TestEncryptionUseCase_Cards(t *testing.T) {
	ctx := context.Background()
	facade := newTestFacade(t, masterKeyFixture(1))

	t.Run("Success_SanitizesBeforeEncrypting", func(t *testing.T) {
		sealed, err := facade.EncryptCard(ctx, "4111 1111-1111 1111")
		require.NoError(t, err)

		number, err := facade.DecryptCard(ctx, sealed)
		require.NoError(t, err)
		assert.Equal(t, "4111111111111111", number)
	})

	for _, raw := range []string{"4111111111111112", "123", "41111111abcd1111", ""} {
		t.Run("Error_InvalidCard_"+raw, func(t *testing.T) {
			seals := facade.sealer.seals.Load()

			sealed, err := facade.EncryptCard(ctx, raw)
			assert.Empty(t, sealed)
			assert.ErrorIs(t, err, paymentDomain.ErrInvalidCardFormat)
			assert.Equal(t, seals, facade.sealer.seals.Load(), "no sealing may happen for invalid cards")
		})
	}
}

func TestEncryptionUseCase_Fingerprint(t *testing.T) {
	ctx := context.Background()
	facade := newTestFacade(t, masterKeyFixture(1))

	fp1 := facade.Fingerprint([]byte("4111111111111111"))
	fp2 := facade.Fingerprint([]byte("4111111111111111"))
	assert.Equal(t, fp1, fp2)

	newKey, err := facade.RotateKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, fp1, facade.Fingerprint([]byte("4111111111111111")), "rotation alone keeps current")

	require.NoError(t, facade.ActivateKey(ctx, newKey))
	assert.NotEqual(t, fp1, facade.Fingerprint([]byte("4111111111111111")))
}

func TestEncryptionUseCase_ValidateIntegrity(t *testing.T) {
	ctx := context.Background()
	facade := newTestFacade(t, masterKeyFixture(1))

	sealed, err := facade.Encrypt(ctx, []byte("secret"))
	require.NoError(t, err)

	assert.True(t, facade.ValidateIntegrity(ctx, sealed))
	assert.False(t, facade.ValidateIntegrity(ctx, "garbage"))
	assert.False(t, facade.ValidateIntegrity(ctx, ""))

	otherProcess := newTestFacade(t, masterKeyFixture(2))
	assert.False(t, otherProcess.ValidateIntegrity(ctx, sealed))
}

func TestEncryptionUseCase_LegacyEnvelope(t *testing.T) {
	ctx := context.Background()
	facade := newTestFacade(t, masterKeyFixture(1))

	sealed, err := facade.Encrypt(ctx, []byte("4111111111111111"))
	require.NoError(t, err)
	env, err := facade.Inspect(ctx, sealed)
	require.NoError(t, err)

	legacy := `{"KeyId":"` + env.KeyID + `",` +
		`"Nonce":"` + base64.StdEncoding.EncodeToString(env.Nonce) + `",` +
		`"CipherText":"` + base64.StdEncoding.EncodeToString(env.Ciphertext) + `",` +
		`"Tag":"` + base64.StdEncoding.EncodeToString(env.Tag) + `",` +
		`"Timestamp":"2024-01-01T00:00:00Z","Algorithm":"AES-256-GCM"}`

	plaintext, err := facade.Decrypt(ctx, base64.StdEncoding.EncodeToString([]byte(legacy)))
	require.NoError(t, err)
	assert.Equal(t, []byte("4111111111111111"), plaintext)
}

func TestEncryptionUseCase_RestartWithSameMasterKey(t *testing.T) {
	ctx := context.Background()
	masterKey := masterKeyFixture(9)

	first := newTestFacade(t, bytes.Clone(masterKey))
	stored, err := first.EncryptCard(ctx, "4111111111111111")
	require.NoError(t, err)
	first.ring.Close()

	restarted := newTestFacade(t, bytes.Clone(masterKey))
	assert.Equal(t, first.CurrentKeyID(), restarted.CurrentKeyID())

	number, err := restarted.DecryptCard(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", number)
}

func TestEncryptionUseCase_RestartWithKeeperSealer(t *testing.T) {
	ctx := context.Background()
	keyURI := "base64key://" + base64.URLEncoding.EncodeToString(masterKeyFixture(5))
	masterKey := base64.StdEncoding.EncodeToString(masterKeyFixture(6))

	newProcess := func() (EncryptionUseCase, func()) {
		ring, currentID, err := cryptoDomain.LoadKeyRing(
			ctx,
			cryptoDomain.KeyRingOptions{MasterKey: masterKey},
			nil,
			createTestLogger(),
		)
		require.NoError(t, err)

		keeper, err := cryptoService.NewKMSService().OpenKeeper(ctx, keyURI)
		require.NoError(t, err)
		sealer := cryptoService.NewKeeperSealer(keeper, time.Second)

		facade := NewEncryptionUseCase(
			ring,
			NewCurrentKey(currentID),
			cryptoService.NewEnvelopeService(cryptoService.NewAEADManager()),
			sealer,
			cryptoService.NewSHA256FingerprintService(),
			cryptoDomain.AESGCM,
			2,
			createTestLogger(),
		)
		return facade, func() {
			ring.Close()
			assert.NoError(t, sealer.Close())
		}
	}

	first, shutdown := newProcess()
	stored, err := first.EncryptCard(ctx, "4111111111111111")
	require.NoError(t, err)
	shutdown()

	second, shutdown := newProcess()
	defer shutdown()

	number, err := second.DecryptCard(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", number)
}

func TestEncryptionUseCase_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	facade := newTestFacade(t, masterKeyFixture(1))

	errs := make(chan error, 32)
	for i := 0; i < 16; i++ {
		go func() {
			sealed, err := facade.Encrypt(ctx, []byte("secret"))
			if err == nil {
				_, err = facade.Decrypt(ctx, sealed)
			}
			errs <- err
		}()
		go func() {
			_, err := facade.RotateKey(ctx)
			errs <- err
		}()
	}

	for i := 0; i < 32; i++ {
		assert.NoError(t, <-errs)
	}
	assert.Equal(t, 17, facade.ring.Len())
}

func TestEncryptionUseCase_DecryptLogsNoPlaintext(t *testing.T) {
	ctx := context.Background()
	facade := newTestFacade(t, masterKeyFixture(1))

	sealed, err := facade.Encrypt(ctx, []byte("4111111111111111"))
	require.NoError(t, err)

	other := newTestFacade(t, masterKeyFixture(2))
	_, err = other.Decrypt(ctx, sealed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cryptoDomain.ErrKeyNotFound))
	assert.NotContains(t, err.Error(), "4111111111111111")
}

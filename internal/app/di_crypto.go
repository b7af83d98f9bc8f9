package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
	"github.com/allisson/cardvault/internal/metrics"
	paymentUseCase "github.com/allisson/cardvault/internal/payment/usecase"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyRing returns the startup key ring and the id of the current key.
func (c *Container) KeyRing() (*cryptoDomain.KeyRing, string, error) {
	var err error
	c.keyRingInit.Do(func() {
		c.keyRing, c.currentKeyID, err = c.initKeyRing()
		if err != nil {
			c.initErrors["keyRing"] = err
		}
	})
	if err != nil {
		return nil, "", err
	}
	if storedErr, exists := c.initErrors["keyRing"]; exists {
		return nil, "", storedErr
	}
	return c.keyRing, c.currentKeyID, nil
}

// Sealer returns the outer sealer applied to serialized envelopes.
func (c *Container) Sealer() (cryptoService.SecretSealer, error) {
	var err error
	c.sealerInit.Do(func() {
		c.sealer, err = c.initSealer()
		if err != nil {
			c.initErrors["sealer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sealer"]; exists {
		return nil, storedErr
	}
	return c.sealer, nil
}

// EncryptionUseCase returns the encryption facade, wrapped with metrics when enabled.
func (c *Container) EncryptionUseCase() (paymentUseCase.EncryptionUseCase, error) {
	var err error
	c.encryptionUseCaseInit.Do(func() {
		c.encryptionUseCase, err = c.initEncryptionUseCase()
		if err != nil {
			c.initErrors["encryptionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionUseCase"]; exists {
		return nil, storedErr
	}
	return c.encryptionUseCase, nil
}

func (c *Container) initKeyRing() (*cryptoDomain.KeyRing, string, error) {
	ring, currentKeyID, err := cryptoDomain.LoadKeyRing(
		context.Background(),
		cryptoDomain.KeyRingOptions{
			MasterKey:      c.config.MasterKey,
			CurrentKeyID:   c.config.CurrentKeyID,
			EncryptionKeys: c.config.EncryptionKeys,
			KMSKeyURI:      c.config.KMSKeyURI,
		},
		c.KMSService(),
		c.Logger(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load key ring: %w", err)
	}
	return ring, currentKeyID, nil
}

func (c *Container) initSealer() (cryptoService.SecretSealer, error) {
	if c.config.SealerKeyURI == "" {
		c.Logger().Warn("no sealer key configured, sealed values are only protected by the key ring")
		return cryptoService.NewPassthroughSealer(), nil
	}

	keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.SealerKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open sealer keeper: %w", err)
	}

	sealer := cryptoService.NewKeeperSealer(keeper, c.config.SealerTimeout)
	c.sealerCloser = sealer.Close
	return sealer, nil
}

func (c *Container) initEncryptionUseCase() (paymentUseCase.EncryptionUseCase, error) {
	ring, currentKeyID, err := c.KeyRing()
	if err != nil {
		return nil, err
	}

	sealer, err := c.Sealer()
	if err != nil {
		return nil, err
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption algorithm: %w", err)
	}

	baseUseCase := paymentUseCase.NewEncryptionUseCase(
		ring,
		paymentUseCase.NewCurrentKey(currentKeyID),
		cryptoService.NewEnvelopeService(cryptoService.NewAEADManager()),
		sealer,
		cryptoService.NewSHA256FingerprintService(),
		algorithm,
		c.config.ReEncryptConcurrency,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for encryption use case: %w", err)
		}
		if err := metrics.RegisterKeyRingGauge(provider.MeterProvider(), c.config.MetricsNamespace, ring); err != nil {
			return nil, fmt.Errorf("failed to register key ring gauge: %w", err)
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for encryption use case: %w", err)
		}
		return paymentUseCase.NewEncryptionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

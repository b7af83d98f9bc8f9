package app

import (
	"fmt"

	paymentHTTP "github.com/allisson/cardvault/internal/payment/http"
	paymentRepository "github.com/allisson/cardvault/internal/payment/repository"
	paymentUseCase "github.com/allisson/cardvault/internal/payment/usecase"
)

// PaymentMethodRepository returns the payment method repository for the configured driver.
func (c *Container) PaymentMethodRepository() (paymentUseCase.PaymentMethodRepository, error) {
	var err error
	c.paymentMethodRepoInit.Do(func() {
		c.paymentMethodRepo, err = c.initPaymentMethodRepository()
		if err != nil {
			c.initErrors["paymentMethodRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentMethodRepo"]; exists {
		return nil, storedErr
	}
	return c.paymentMethodRepo, nil
}

// PaymentMethodUseCase returns the payment method use case, wrapped with metrics when enabled.
func (c *Container) PaymentMethodUseCase() (paymentUseCase.PaymentMethodUseCase, error) {
	var err error
	c.paymentMethodUseCaseInit.Do(func() {
		c.paymentMethodUseCase, err = c.initPaymentMethodUseCase()
		if err != nil {
			c.initErrors["paymentMethodUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentMethodUseCase"]; exists {
		return nil, storedErr
	}
	return c.paymentMethodUseCase, nil
}

// CryptoHandler returns the HTTP handler for encryption operations.
func (c *Container) CryptoHandler() (*paymentHTTP.CryptoHandler, error) {
	var err error
	c.cryptoHandlerInit.Do(func() {
		c.cryptoHandler, err = c.initCryptoHandler()
		if err != nil {
			c.initErrors["cryptoHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptoHandler"]; exists {
		return nil, storedErr
	}
	return c.cryptoHandler, nil
}

// KeyHandler returns the HTTP handler for key rotation.
func (c *Container) KeyHandler() (*paymentHTTP.KeyHandler, error) {
	var err error
	c.keyHandlerInit.Do(func() {
		c.keyHandler, err = c.initKeyHandler()
		if err != nil {
			c.initErrors["keyHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyHandler"]; exists {
		return nil, storedErr
	}
	return c.keyHandler, nil
}

// PaymentMethodHandler returns the HTTP handler for stored payment methods.
func (c *Container) PaymentMethodHandler() (*paymentHTTP.PaymentMethodHandler, error) {
	var err error
	c.paymentMethodHandlerInit.Do(func() {
		c.paymentMethodHandler, err = c.initPaymentMethodHandler()
		if err != nil {
			c.initErrors["paymentMethodHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentMethodHandler"]; exists {
		return nil, storedErr
	}
	return c.paymentMethodHandler, nil
}

func (c *Container) initPaymentMethodRepository() (paymentUseCase.PaymentMethodRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for payment method repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return paymentRepository.NewMySQLPaymentMethodRepository(db), nil
	case "postgres":
		return paymentRepository.NewPostgreSQLPaymentMethodRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initPaymentMethodUseCase() (paymentUseCase.PaymentMethodUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for payment method use case: %w", err)
	}

	repo, err := c.PaymentMethodRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get repository for payment method use case: %w", err)
	}

	encryptionUseCase, err := c.EncryptionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption use case for payment method use case: %w", err)
	}

	baseUseCase := paymentUseCase.NewPaymentMethodUseCase(txManager, repo, encryptionUseCase, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for payment method use case: %w", err)
		}
		return paymentUseCase.NewPaymentMethodUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initCryptoHandler() (*paymentHTTP.CryptoHandler, error) {
	encryptionUseCase, err := c.EncryptionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption use case for crypto handler: %w", err)
	}
	return paymentHTTP.NewCryptoHandler(encryptionUseCase, c.Logger()), nil
}

func (c *Container) initKeyHandler() (*paymentHTTP.KeyHandler, error) {
	encryptionUseCase, err := c.EncryptionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption use case for key handler: %w", err)
	}
	return paymentHTTP.NewKeyHandler(encryptionUseCase, c.Logger()), nil
}

func (c *Container) initPaymentMethodHandler() (*paymentHTTP.PaymentMethodHandler, error) {
	useCase, err := c.PaymentMethodUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method use case for payment method handler: %w", err)
	}
	return paymentHTTP.NewPaymentMethodHandler(useCase, c.Logger()), nil
}

// Package http provides HTTP handlers for payment-data encryption, key management
// and stored payment methods.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	"github.com/allisson/cardvault/internal/httputil"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
	"github.com/allisson/cardvault/internal/payment/http/dto"
	paymentUseCase "github.com/allisson/cardvault/internal/payment/usecase"
	customValidation "github.com/allisson/cardvault/internal/validation"
)

// CryptoHandler exposes the encryption facade over HTTP.
type CryptoHandler struct {
	encryptionUseCase paymentUseCase.EncryptionUseCase
	logger            *slog.Logger
}

// NewCryptoHandler creates a new crypto handler with required dependencies.
func NewCryptoHandler(encryptionUseCase paymentUseCase.EncryptionUseCase, logger *slog.Logger) *CryptoHandler {
	return &CryptoHandler{
		encryptionUseCase: encryptionUseCase,
		logger:            logger,
	}
}

// bindAndValidate parses the JSON body into req and validates it.
// It writes the error response and returns false on failure.
func bindAndValidate(c *gin.Context, req interface{ Validate() error }, logger *slog.Logger) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httputil.HandleBadRequestGin(c, err, logger)
		return false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), logger)
		return false
	}
	return true
}

func decodePlaintext(c *gin.Context, encoded string, logger *slog.Logger) ([]byte, bool) {
	plaintext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 plaintext"), logger)
		return nil, false
	}
	return plaintext, true
}

// EncryptHandler encrypts base64 plaintext under the current key or the requested key.
// POST /v1/payment/encrypt
func (h *CryptoHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	plaintext, ok := decodePlaintext(c, req.Plaintext, h.logger)
	if !ok {
		return
	}
	defer cryptoDomain.Zero(plaintext)

	var sealed string
	var err error
	if req.KeyID != "" {
		sealed, err = h.encryptionUseCase.EncryptWithKey(c.Request.Context(), plaintext, req.KeyID)
	} else {
		sealed, err = h.encryptionUseCase.Encrypt(c.Request.Context(), plaintext)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CiphertextResponse{Ciphertext: sealed, KeyID: req.KeyID})
}

// DecryptHandler decrypts a SealedString.
// POST /v1/payment/decrypt
func (h *CryptoHandler) DecryptHandler(c *gin.Context) {
	var req dto.CiphertextRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	plaintext, err := h.encryptionUseCase.Decrypt(c.Request.Context(), req.Ciphertext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.PlaintextResponse{Plaintext: plaintext})
}

// EncryptCardHandler validates and encrypts a card number.
// POST /v1/payment/cards/encrypt
func (h *CryptoHandler) EncryptCardHandler(c *gin.Context) {
	var req dto.CardRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	sealed, err := h.encryptionUseCase.EncryptCard(c.Request.Context(), req.CardNumber)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CardCiphertextResponse{
		Ciphertext: sealed,
		MaskedCard: paymentDomain.MaskCardNumber(paymentDomain.SanitizeCardNumber(req.CardNumber)),
	})
}

// DecryptCardHandler decrypts a card number.
// POST /v1/payment/cards/decrypt
func (h *CryptoHandler) DecryptCardHandler(c *gin.Context) {
	var req dto.CiphertextRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	number, err := h.encryptionUseCase.DecryptCard(c.Request.Context(), req.Ciphertext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CardResponse{CardNumber: number})
}

// FingerprintHandler computes the salted fingerprint of base64 plaintext under the current key.
// POST /v1/payment/fingerprint
func (h *CryptoHandler) FingerprintHandler(c *gin.Context) {
	var req dto.FingerprintRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	plaintext, ok := decodePlaintext(c, req.Plaintext, h.logger)
	if !ok {
		return
	}
	defer cryptoDomain.Zero(plaintext)

	c.JSON(http.StatusOK, dto.FingerprintResponse{
		KeyID:       h.encryptionUseCase.CurrentKeyID(),
		Fingerprint: h.encryptionUseCase.Fingerprint(plaintext),
	})
}

// ValidateHandler reports whether a SealedString decrypts.
// POST /v1/payment/validate
func (h *CryptoHandler) ValidateHandler(c *gin.Context) {
	var req dto.CiphertextRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	c.JSON(http.StatusOK, dto.ValidateResponse{
		Valid: h.encryptionUseCase.ValidateIntegrity(c.Request.Context(), req.Ciphertext),
	})
}

// InspectHandler describes the envelope inside a SealedString without decrypting it.
// POST /v1/payment/inspect
func (h *CryptoHandler) InspectHandler(c *gin.Context) {
	var req dto.CiphertextRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	env, err := h.encryptionUseCase.Inspect(c.Request.Context(), req.Ciphertext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEnvelopeToResponse(env))
}

// ReEncryptHandler moves a SealedString from one ring key to another.
// POST /v1/payment/reencrypt
func (h *CryptoHandler) ReEncryptHandler(c *gin.Context) {
	var req dto.ReEncryptRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	sealed, err := h.encryptionUseCase.ReEncrypt(c.Request.Context(), req.Ciphertext, req.OldKeyID, req.NewKeyID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CiphertextResponse{Ciphertext: sealed, KeyID: req.NewKeyID})
}

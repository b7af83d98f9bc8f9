package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/httputil"
	"github.com/allisson/cardvault/internal/payment/http/dto"
	paymentUseCase "github.com/allisson/cardvault/internal/payment/usecase"
)

// PaymentMethodHandler handles stored payment methods.
type PaymentMethodHandler struct {
	paymentMethodUseCase paymentUseCase.PaymentMethodUseCase
	logger               *slog.Logger
}

// NewPaymentMethodHandler creates a new payment method handler with required dependencies.
func NewPaymentMethodHandler(
	paymentMethodUseCase paymentUseCase.PaymentMethodUseCase,
	logger *slog.Logger,
) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		paymentMethodUseCase: paymentMethodUseCase,
		logger:               logger,
	}
}

func (h *PaymentMethodHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid payment method id"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// CreateHandler stores a card. A card stored by an earlier request is returned with 200 instead of 201.
// POST /v1/payment/methods
func (h *PaymentMethodHandler) CreateHandler(c *gin.Context) {
	var req dto.CardRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	start := time.Now()
	pm, err := h.paymentMethodUseCase.Store(c.Request.Context(), req.CardNumber)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	status := http.StatusCreated
	if pm.CreatedAt.Before(start.Add(-time.Second)) {
		status = http.StatusOK
	}
	c.JSON(status, dto.MapPaymentMethodToResponse(pm))
}

// ListHandler pages through stored payment methods.
// GET /v1/payment/methods?after=<id>&limit=<n>
func (h *PaymentMethodHandler) ListHandler(c *gin.Context) {
	after, limit, err := httputil.ParseKeysetPagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	methods, err := h.paymentMethodUseCase.List(c.Request.Context(), after, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPaymentMethodsToListResponse(methods, limit))
}

// GetHandler returns a stored payment method without its card number.
// GET /v1/payment/methods/:id
func (h *PaymentMethodHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	pm, err := h.paymentMethodUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPaymentMethodToResponse(pm))
}

// RevealHandler decrypts the card number of a stored payment method.
// POST /v1/payment/methods/:id/reveal
func (h *PaymentMethodHandler) RevealHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	number, err := h.paymentMethodUseCase.Reveal(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CardResponse{CardNumber: number})
}

// SearchHandler finds a stored payment method by card number.
// POST /v1/payment/methods/search
func (h *PaymentMethodHandler) SearchHandler(c *gin.Context) {
	var req dto.CardRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	pm, err := h.paymentMethodUseCase.FindByCardNumber(c.Request.Context(), req.CardNumber)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPaymentMethodToResponse(pm))
}

// MigrateHandler re-encrypts every stored payment method from one key to another.
// POST /v1/payment/methods/migrate
func (h *PaymentMethodHandler) MigrateHandler(c *gin.Context) {
	var req dto.MigrateRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	report, err := h.paymentMethodUseCase.Migrate(c.Request.Context(), req.OldKeyID, req.NewKeyID, req.BatchSize)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMigrationReportToResponse(report))
}

// VerifyHandler checks that every stored payment method still decrypts.
// POST /v1/payment/methods/verify
func (h *PaymentMethodHandler) VerifyHandler(c *gin.Context) {
	var req dto.VerifyRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	report, err := h.paymentMethodUseCase.Verify(c.Request.Context(), req.BatchSize)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVerificationReportToResponse(report))
}

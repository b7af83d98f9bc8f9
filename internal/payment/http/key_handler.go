package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/cardvault/internal/httputil"
	"github.com/allisson/cardvault/internal/payment/http/dto"
	paymentUseCase "github.com/allisson/cardvault/internal/payment/usecase"
)

// KeyHandler handles key rotation and activation.
type KeyHandler struct {
	rotationUseCase paymentUseCase.EncryptionUseCase
	logger          *slog.Logger
}

// NewKeyHandler creates a new key handler with required dependencies.
func NewKeyHandler(rotationUseCase paymentUseCase.EncryptionUseCase, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		rotationUseCase: rotationUseCase,
		logger:          logger,
	}
}

// CurrentHandler returns the id of the key used for new encryptions.
// GET /v1/payment/keys/current
func (h *KeyHandler) CurrentHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.KeyResponse{KeyID: h.rotationUseCase.CurrentKeyID()})
}

// RotateHandler adds a fresh key to the ring. The current key is unchanged.
// POST /v1/payment/keys/rotate
func (h *KeyHandler) RotateHandler(c *gin.Context) {
	keyID, err := h.rotationUseCase.RotateKey(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.KeyResponse{KeyID: keyID})
}

// ActivateHandler makes a ring key current.
// POST /v1/payment/keys/:id/activate
func (h *KeyHandler) ActivateHandler(c *gin.Context) {
	keyID := c.Param("id")
	if keyID == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("key id cannot be empty"), h.logger)
		return
	}

	if err := h.rotationUseCase.ActivateKey(c.Request.Context(), keyID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.KeyResponse{KeyID: keyID})
}

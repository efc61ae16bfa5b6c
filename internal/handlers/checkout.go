package handlers

import (
	"OilCanvas/internal/middleware"
	"OilCanvas/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// CheckoutHandler создаёт checkout-сессии.
type CheckoutHandler struct {
	CheckoutService *service.CheckoutService
	Logger          *zap.SugaredLogger
}

func NewCheckoutHandler(s *service.CheckoutService, logger *zap.SugaredLogger) *CheckoutHandler {
	return &CheckoutHandler{CheckoutService: s, Logger: logger}
}

// CreateCheckoutRequest — тело запроса создания сессии.
type CreateCheckoutRequest struct {
	ImageID string `json:"imageId"`
}

// CreateCheckoutResponse — redirect URL для покупателя.
type CreateCheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// Create создаёт checkout-сессию для записи покупателя.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageID == "" {
		h.Logger.Warnw("Checkout: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "imageId is required")
		return
	}

	url, err := h.CheckoutService.Create(r.Context(), p.ShopID, p.UserID, req.ImageID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "image not found")
		return
	case err != nil:
		h.Logger.Errorw("Checkout: service error", "image_id", req.ImageID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create checkout")
		return
	}

	writeJSON(w, http.StatusOK, CreateCheckoutResponse{CheckoutURL: url})
}

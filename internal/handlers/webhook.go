package handlers

import (
	"OilCanvas/internal/commerce"
	"OilCanvas/internal/config"
	"OilCanvas/internal/service"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// WebhookHandler принимает вебхуки коммерческой платформы.
// Аутентификация — HMAC подпись тела, а не сессия.
type WebhookHandler struct {
	WebhookService *service.WebhookService
	Logger         *zap.SugaredLogger
	Config         *config.Config
}

func NewWebhookHandler(s *service.WebhookService, logger *zap.SugaredLogger, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{WebhookService: s, Logger: logger, Config: cfg}
}

// Probe — проверка доступности эндпоинта платформой.
func (h *WebhookHandler) Probe(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Webhook endpoint"))
}

// Receive обрабатывает доставку вебхука. Подпись проверяется до любого
// чтения полезной нагрузки; все топики кроме orders/paid подтверждаются
// и игнорируются.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.Logger.Warnw("Webhook: failed to read body", "error", err)
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get(commerce.HeaderHmacSHA256)
	if !commerce.VerifyWebhook(h.Config.WebhookSecret, body, signature) {
		h.Logger.Warnw("Webhook: invalid signature")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	topic := r.Header.Get(commerce.HeaderTopic)
	if topic != commerce.TopicOrdersPaid {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Webhook received"))
		return
	}

	shopID := r.Header.Get(commerce.HeaderShopDomain)
	if err := h.WebhookService.ProcessOrderPaid(r.Context(), shopID, body); err != nil {
		h.Logger.Errorw("Webhook: processing failed", "shop_id", shopID, "error", err)
		http.Error(w, "processing error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Webhook processed"))
}

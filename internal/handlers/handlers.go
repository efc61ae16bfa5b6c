package handlers

import (
	"OilCanvas/internal/config"
	"OilCanvas/internal/middleware"
	"OilCanvas/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	artworkService *service.ArtworkService,
	checkoutService *service.CheckoutService,
	webhookService *service.WebhookService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithMetrics)
	r.Use(middleware.WithAuth(cfg.AuthSecret))

	// Handlers
	artworkHandler := NewArtworkHandler(artworkService, logger, cfg)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)
	webhookHandler := NewWebhookHandler(webhookService, logger, cfg)

	// Service routes
	r.Get("/healthz", health)
	r.Handle("/metrics", promhttp.Handler())

	// Artwork routes
	r.Get("/api/styles", artworkHandler.Styles)
	r.Get("/api/images/list", artworkHandler.List)
	r.Get("/api/admin/images", artworkHandler.AdminList)
	r.Post("/api/images/generate", artworkHandler.Generate)
	r.Get("/api/images/download/{id}", artworkHandler.Download)

	// Checkout route
	r.Post("/api/checkout/create", checkoutHandler.Create)

	// Webhook routes (вместо принципала — HMAC подпись платформы)
	r.Get("/webhooks", webhookHandler.Probe)
	r.Post("/webhooks", webhookHandler.Receive)

	return &Handler{Router: r}
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

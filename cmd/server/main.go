package main

import (
	"OilCanvas/internal/commerce"
	"OilCanvas/internal/config"
	"OilCanvas/internal/handlers"
	"OilCanvas/internal/middleware"
	"OilCanvas/internal/painter"
	"OilCanvas/internal/repo"
	"OilCanvas/internal/service"
	"OilCanvas/internal/storage"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	store, err := storage.NewS3Storage(cfg.AWSRegion, cfg.S3Bucket, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
	if err != nil {
		sugar.Fatalw("failed to initialize object storage", "error", err)
	}

	generator := painter.NewHTTPGenerator(cfg.PainterURL, cfg.PainterAPIKey)
	checkoutClient := commerce.NewHTTPCheckoutClient(cfg.CheckoutAPIURL, cfg.CheckoutAPIToken)

	artworkRepo := repo.NewArtworkRepository(gormDB)
	artworkService := service.NewArtworkService(artworkRepo, store, generator, sugar, cfg.ArtworkProductID)
	checkoutService := service.NewCheckoutService(artworkRepo, checkoutClient, sugar)
	webhookService := service.NewWebhookService(artworkRepo, sugar)

	h := handlers.NewHandler(artworkService, checkoutService, webhookService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"S3Bucket", cfg.S3Bucket,
		"PainterURL", cfg.PainterURL,
		"ArtworkProductID", cfg.ArtworkProductID,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}

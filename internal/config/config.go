package config

import (
	"flag"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	DatabaseDSN   string `env:"DATABASE_URI"`
	AuthSecret    string `env:"AUTH_SECRET"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	BaseURL       string `env:"BASE_URL"`
	EnableHTTPS   bool   `env:"ENABLE_HTTPS"`

	// Object storage
	AWSRegion          string `env:"AWS_REGION"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket           string `env:"S3_BUCKET"`

	// Generation service
	PainterURL    string `env:"PAINTER_URL"`
	PainterAPIKey string `env:"PAINTER_API_KEY"`

	// Commerce platform
	CheckoutAPIURL   string `env:"CHECKOUT_API_URL"`
	CheckoutAPIToken string `env:"CHECKOUT_API_TOKEN"`
	ArtworkProductID string `env:"ARTWORK_PRODUCT_ID"`

	// Limits
	UploadMaxSizeMB int `env:"UPLOAD_MAX_MB"`

	// Derived
	ServerURL string `env:"-"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "секрет подписи вебхуков платформы")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS")
	flag.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "имя S3 бакета для ассетов")
	flag.StringVar(&cfg.PainterURL, "painter-url", cfg.PainterURL, "URL сервиса генерации изображений")
	flag.StringVar(&cfg.CheckoutAPIURL, "checkout-url", cfg.CheckoutAPIURL, "URL checkout API коммерческой платформы")
	flag.StringVar(&cfg.ArtworkProductID, "product-id", cfg.ArtworkProductID, "id товара, под которым продаётся картина")
	flag.IntVar(&cfg.UploadMaxSizeMB, "upload-max-mb", cfg.UploadMaxSizeMB, "лимит размера загружаемого изображения, МБ")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = "dev-webhook-secret"
	}
	if cfg.UploadMaxSizeMB <= 0 {
		cfg.UploadMaxSizeMB = 20
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	return cfg
}

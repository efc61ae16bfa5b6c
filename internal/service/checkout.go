package service

import (
	"OilCanvas/internal/commerce"
	"OilCanvas/internal/repo"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutService создаёт checkout-сессии для картин. Локального состояния
// не меняет: подтверждение покупки приходит асинхронно вебхуком.
type CheckoutService struct {
	repo   repo.ArtworkRepository
	client commerce.CheckoutClient
	logger *zap.SugaredLogger
}

func NewCheckoutService(r repo.ArtworkRepository, client commerce.CheckoutClient, logger *zap.SugaredLogger) *CheckoutService {
	return &CheckoutService{repo: r, client: client, logger: logger}
}

// Create возвращает redirect URL checkout-сессии для записи покупателя.
func (s *CheckoutService) Create(ctx context.Context, shopID, userID, artworkID string) (string, error) {
	a, err := s.repo.GetByID(ctx, shopID, userID, artworkID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	url, err := s.client.CreateCheckout(ctx, commerce.CheckoutRequest{
		ProductID: a.ProductID,
		ArtworkID: a.ID,
		ShopID:    shopID,
	})
	if err != nil {
		s.logger.Errorw("Checkout: session creation failed", "artwork_id", artworkID, "error", err)
		return "", fmt.Errorf("%w: checkout", ErrUpstream)
	}
	return url, nil
}

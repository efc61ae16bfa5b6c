package service

import (
	"OilCanvas/internal/repo"
	"context"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// WebhookService применяет события orders/paid к записям магазина.
type WebhookService struct {
	repo   repo.ArtworkRepository
	logger *zap.SugaredLogger
}

func NewWebhookService(r repo.ArtworkRepository, logger *zap.SugaredLogger) *WebhookService {
	return &WebhookService{repo: r, logger: logger}
}

// ProcessOrderPaid помечает купленными записи, соответствующие позициям
// заказа. Платформа шлёт числовые id — gjson приводит их к строкам.
// Повторная доставка и позиции без картины — тихие no-op.
func (s *WebhookService) ProcessOrderPaid(ctx context.Context, shopID string, payload []byte) error {
	orderID := gjson.GetBytes(payload, "id").String()

	for _, item := range gjson.GetBytes(payload, "line_items").Array() {
		productID := item.Get("product_id").String()
		if productID == "" {
			continue
		}

		updated, err := s.repo.MarkPurchased(ctx, shopID, productID, orderID)
		if err != nil {
			return err
		}
		if updated != nil {
			s.logger.Infow("artwork marked as purchased",
				"artwork_id", updated.ID,
				"order_id", orderID,
				"shop_id", shopID,
			)
		}
	}
	return nil
}

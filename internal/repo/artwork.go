package repo

import (
	"OilCanvas/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// ArtworkRepository — контракт доступа к Artwork для слоя сервиса.
// Каждый метод требует shopID: записи никогда не пересекают границу магазина.
type ArtworkRepository interface {
	// Create сохраняет новую запись.
	Create(ctx context.Context, a *model.Artwork) error

	// GetByID возвращает запись по id в пределах пары (shop, user).
	// Чужая или отсутствующая запись — gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, shopID, userID, id string) (*model.Artwork, error)

	// List возвращает страницу записей пользователя, новые первыми,
	// и общее количество под тем же фильтром.
	List(ctx context.Context, shopID, userID string, filter model.PurchaseFilter, offset, limit int) ([]model.Artwork, int64, error)

	// ListByShop — то же, но по всем пользователям магазина (админский вид).
	ListByShop(ctx context.Context, shopID string, filter model.PurchaseFilter, offset, limit int) ([]model.Artwork, int64, error)

	// MarkPurchased атомарно помечает купленной самую старую некупленную
	// запись магазина с данным productID. Возвращает nil, nil если
	// кандидата нет (повторная доставка или чужой товар).
	MarkPurchased(ctx context.Context, shopID, productID, orderID string) (*model.Artwork, error)
}

type artworkRepo struct {
	db *gorm.DB
}

// NewArtworkRepository создаёт реализацию репозитория для Artwork.
func NewArtworkRepository(db *gorm.DB) ArtworkRepository {
	return &artworkRepo{db: db}
}

func (r *artworkRepo) Create(ctx context.Context, a *model.Artwork) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *artworkRepo) GetByID(ctx context.Context, shopID, userID, id string) (*model.Artwork, error) {
	var a model.Artwork
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND user_id = ? AND id = ?", shopID, userID, id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// applyFilter сужает запрос по состоянию покупки.
func applyFilter(q *gorm.DB, filter model.PurchaseFilter) *gorm.DB {
	switch filter {
	case model.FilterPurchased:
		return q.Where("is_purchased = ?", true)
	case model.FilterNotPurchased:
		return q.Where("is_purchased = ?", false)
	}
	return q
}

func (r *artworkRepo) List(ctx context.Context, shopID, userID string, filter model.PurchaseFilter, offset, limit int) ([]model.Artwork, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Artwork{}).
		Where("shop_id = ? AND user_id = ?", shopID, userID)
	return r.page(applyFilter(base, filter), offset, limit)
}

func (r *artworkRepo) ListByShop(ctx context.Context, shopID string, filter model.PurchaseFilter, offset, limit int) ([]model.Artwork, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Artwork{}).
		Where("shop_id = ?", shopID)
	return r.page(applyFilter(base, filter), offset, limit)
}

func (r *artworkRepo) page(q *gorm.DB, offset, limit int) ([]model.Artwork, int64, error) {
	// Session: условия переиспользуются для Count и для выборки страницы
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []model.Artwork
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *artworkRepo) MarkPurchased(ctx context.Context, shopID, productID, orderID string) (*model.Artwork, error) {
	for {
		var candidate model.Artwork
		err := r.db.WithContext(ctx).
			Where("shop_id = ? AND product_id = ? AND is_purchased = ?", shopID, productID, false).
			Order("created_at ASC").
			First(&candidate).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		// Условное обновление: RowsAffected == 0 значит, что кандидата
		// успел забрать параллельный вебхук — берём следующего.
		tx := r.db.WithContext(ctx).Model(&model.Artwork{}).
			Where("id = ? AND is_purchased = ?", candidate.ID, false).
			Updates(map[string]any{"is_purchased": true, "order_id": orderID})
		if tx.Error != nil {
			return nil, tx.Error
		}
		if tx.RowsAffected > 0 {
			candidate.IsPurchased = true
			candidate.OrderID = &orderID
			return &candidate, nil
		}
	}
}

package model

import "time"

// Artwork — серверная модель сгенерированной картины и состояния её покупки.
type Artwork struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID string `gorm:"not null;index:idx_artworks_tenant"`
	ShopID string `gorm:"not null;index:idx_artworks_tenant"`

	// Товар платформы, под которым картина продаётся. По нему вебхук
	// orders/paid находит запись.
	ProductID string `gorm:"not null;index"`

	// Исходный ассет
	OriginalKey string
	OriginalURL string
	MimeType    string
	Width       int
	Height      int

	// Производные ассеты
	GeneratedKey   string
	GeneratedURL   string
	WatermarkedKey string
	WatermarkedURL string `gorm:"not null"`
	ThumbnailURL   string

	StyleSelected        string `gorm:"not null"`
	CustomizationDetails string

	IsPurchased bool    `gorm:"not null;default:false;index"`
	OrderID     *string

	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
	GenerationDate *time.Time
}

// Известные стили. Набор открытый: значение передаётся сервису генерации
// как есть, константы нужны каталогу стилей для UI.
const (
	StyleRenaissance   = "renaissance"
	StyleImpressionist = "impressionist"
	StyleRoyal         = "royal"
	StyleAnime         = "anime"
)

// KnownStyles возвращает каталог стилей в порядке отображения.
func KnownStyles() []string {
	return []string{StyleRenaissance, StyleImpressionist, StyleRoyal, StyleAnime}
}

// PurchaseFilter — фильтр листинга по состоянию покупки.
type PurchaseFilter string

const (
	FilterAll          PurchaseFilter = "all"
	FilterPurchased    PurchaseFilter = "purchased"
	FilterNotPurchased PurchaseFilter = "not-purchased"
)

// ParsePurchaseFilter разбирает значение query-параметра.
// Пустая строка трактуется как "all".
func ParsePurchaseFilter(s string) (PurchaseFilter, bool) {
	switch PurchaseFilter(s) {
	case "", FilterAll:
		return FilterAll, true
	case FilterPurchased:
		return FilterPurchased, true
	case FilterNotPurchased:
		return FilterNotPurchased, true
	}
	return "", false
}

package service

import (
	"OilCanvas/internal/model"
	"OilCanvas/internal/painter"
	"OilCanvas/internal/repo"
	"OilCanvas/internal/storage"
	"OilCanvas/internal/watermark"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Размеры страниц листингов.
const (
	GalleryPageSize = 10
	AdminPageSize   = 20
)

// ArtworkService инкапсулирует генерацию, листинг и выдачу картин.
type ArtworkService struct {
	repo      repo.ArtworkRepository
	store     storage.ObjectStorage
	gen       painter.Generator
	logger    *zap.SugaredLogger
	productID string
}

func NewArtworkService(r repo.ArtworkRepository, store storage.ObjectStorage, gen painter.Generator, logger *zap.SugaredLogger, productID string) *ArtworkService {
	return &ArtworkService{repo: r, store: store, gen: gen, logger: logger, productID: productID}
}

// GenerateInput — вход операции генерации.
type GenerateInput struct {
	Image       []byte
	FileName    string
	ContentType string
	Style       string
	Details     string
}

// GenerateResult — то, что уходит клиенту после генерации.
type GenerateResult struct {
	ID             string
	WatermarkedURL string
	Style          string
}

// Generate выполняет конвейер: загрузка исходника → внешняя генерация →
// водяной знак → сохранение записи. Любой отказ внешнего сервиса валит
// операцию целиком: запись создаётся последним шагом.
func (s *ArtworkService) Generate(ctx context.Context, shopID, userID string, in GenerateInput) (GenerateResult, error) {
	if len(in.Image) == 0 || in.Style == "" {
		return GenerateResult{}, ErrInvalidInput
	}

	id := uuid.NewString()
	ext := assetExt(in.FileName, in.ContentType)

	originalKey := "original/" + id + "." + ext
	originalURL, err := s.store.Put(ctx, originalKey, in.ContentType, in.Image)
	if err != nil {
		s.logger.Errorw("Generate: original upload failed", "artwork_id", id, "error", err)
		return GenerateResult{}, fmt.Errorf("%w: storage", ErrUpstream)
	}

	res, err := s.gen.Generate(ctx, painter.Request{
		SourceURL: originalURL,
		Style:     in.Style,
		Details:   in.Details,
	})
	if err != nil {
		s.logger.Errorw("Generate: generation service failed", "artwork_id", id, "style", in.Style, "error", err)
		return GenerateResult{}, fmt.Errorf("%w: generation", ErrUpstream)
	}

	generated, genType, err := s.gen.Fetch(ctx, res.ImageURL)
	if err != nil {
		s.logger.Errorw("Generate: fetch of generated image failed", "artwork_id", id, "error", err)
		return GenerateResult{}, fmt.Errorf("%w: generation", ErrUpstream)
	}
	if genType == "" {
		genType = "image/jpeg"
	}

	watermarked, err := watermark.Apply(generated)
	if err != nil {
		s.logger.Errorw("Generate: watermark failed", "artwork_id", id, "error", err)
		return GenerateResult{}, fmt.Errorf("%w: watermark", ErrUpstream)
	}

	genExt := assetExt(res.ImageURL, genType)
	generatedKey := "generated/" + id + "." + genExt
	generatedURL, err := s.store.Put(ctx, generatedKey, genType, generated)
	if err != nil {
		s.logger.Errorw("Generate: generated upload failed", "artwork_id", id, "error", err)
		return GenerateResult{}, fmt.Errorf("%w: storage", ErrUpstream)
	}

	watermarkedKey := "watermarked/" + id + ".jpg"
	watermarkedURL, err := s.store.Put(ctx, watermarkedKey, "image/jpeg", watermarked)
	if err != nil {
		s.logger.Errorw("Generate: watermarked upload failed", "artwork_id", id, "error", err)
		return GenerateResult{}, fmt.Errorf("%w: storage", ErrUpstream)
	}

	// Миниатюра опциональна: её отказ не валит генерацию
	thumbnailURL := ""
	if thumb, terr := watermark.Thumbnail(watermarked); terr == nil {
		if url, perr := s.store.Put(ctx, "thumbs/"+id+".jpg", "image/jpeg", thumb); perr == nil {
			thumbnailURL = url
		} else {
			s.logger.Warnw("Generate: thumbnail upload failed", "artwork_id", id, "error", perr)
		}
	} else {
		s.logger.Warnw("Generate: thumbnail render failed", "artwork_id", id, "error", terr)
	}

	width, height := 0, 0
	if cfg, _, derr := image.DecodeConfig(bytes.NewReader(in.Image)); derr == nil {
		width, height = cfg.Width, cfg.Height
	}

	now := time.Now().UTC()
	a := &model.Artwork{
		ID:                   id,
		UserID:               userID,
		ShopID:               shopID,
		ProductID:            s.productID,
		OriginalKey:          originalKey,
		OriginalURL:          originalURL,
		MimeType:             in.ContentType,
		Width:                width,
		Height:               height,
		GeneratedKey:         generatedKey,
		GeneratedURL:         generatedURL,
		WatermarkedKey:       watermarkedKey,
		WatermarkedURL:       watermarkedURL,
		ThumbnailURL:         thumbnailURL,
		StyleSelected:        in.Style,
		CustomizationDetails: in.Details,
		IsPurchased:          false,
		GenerationDate:       &now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Errorw("Generate: persist failed", "artwork_id", id, "error", err)
		return GenerateResult{}, err
	}

	return GenerateResult{ID: id, WatermarkedURL: watermarkedURL, Style: in.Style}, nil
}

// ListResult — страница листинга.
type ListResult struct {
	Artworks   []model.Artwork
	Total      int64
	TotalPages int
	PageSize   int
}

// List возвращает страницу записей пользователя, новые первыми.
func (s *ArtworkService) List(ctx context.Context, shopID, userID string, filter model.PurchaseFilter, page int) (ListResult, error) {
	return s.list(ctx, filter, page, GalleryPageSize, func(offset, limit int) ([]model.Artwork, int64, error) {
		return s.repo.List(ctx, shopID, userID, filter, offset, limit)
	})
}

// ListByShop — админский листинг по всем пользователям магазина.
func (s *ArtworkService) ListByShop(ctx context.Context, shopID string, filter model.PurchaseFilter, page int) (ListResult, error) {
	return s.list(ctx, filter, page, AdminPageSize, func(offset, limit int) ([]model.Artwork, int64, error) {
		return s.repo.ListByShop(ctx, shopID, filter, offset, limit)
	})
}

func (s *ArtworkService) list(ctx context.Context, filter model.PurchaseFilter, page, pageSize int, fetch func(offset, limit int) ([]model.Artwork, int64, error)) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	items, total, err := fetch((page-1)*pageSize, pageSize)
	if err != nil {
		return ListResult{}, err
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return ListResult{Artworks: items, Total: total, TotalPages: totalPages, PageSize: pageSize}, nil
}

// DownloadResult — полноразмерный ассет для выдачи покупателю.
type DownloadResult struct {
	Data        []byte
	ContentType string
	FileName    string
}

// Download выдаёт полноразмерный ассет. Чужая или отсутствующая запись —
// ErrNotFound, некупленная — ErrNotPurchased.
func (s *ArtworkService) Download(ctx context.Context, shopID, userID, id string) (DownloadResult, error) {
	a, err := s.repo.GetByID(ctx, shopID, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DownloadResult{}, ErrNotFound
	}
	if err != nil {
		return DownloadResult{}, err
	}
	if !a.IsPurchased {
		return DownloadResult{}, ErrNotPurchased
	}

	data, contentType, err := s.store.Get(ctx, a.GeneratedKey)
	if err != nil {
		s.logger.Errorw("Download: storage fetch failed", "artwork_id", id, "error", err)
		return DownloadResult{}, fmt.Errorf("%w: storage", ErrUpstream)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(a.GeneratedKey), "."))
	if ext == "" {
		ext = "jpg"
	}
	if contentType == "" {
		contentType = extContentType(ext)
	}

	return DownloadResult{
		Data:        data,
		ContentType: contentType,
		FileName:    fmt.Sprintf("custom-painting-%s.%s", a.ID, ext),
	}, nil
}

// assetExt выводит расширение файла из имени либо из MIME-типа.
func assetExt(name, contentType string) string {
	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")); ext != "" {
		if ext == "jpeg" {
			return "jpg"
		}
		return ext
	}
	switch contentType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

func extContentType(ext string) string {
	if ext == "jpg" {
		return "image/jpeg"
	}
	return "image/" + ext
}

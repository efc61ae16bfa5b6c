package handlers

import (
	"OilCanvas/internal/config"
	"OilCanvas/internal/middleware"
	"OilCanvas/internal/model"
	"OilCanvas/internal/service"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ArtworkHandler обрабатывает генерацию, листинги и выдачу картин.
type ArtworkHandler struct {
	ArtworkService *service.ArtworkService
	Logger         *zap.SugaredLogger
	Config         *config.Config
}

// NewArtworkHandler создаёт хендлер artworks
func NewArtworkHandler(s *service.ArtworkService, logger *zap.SugaredLogger, cfg *config.Config) *ArtworkHandler {
	return &ArtworkHandler{ArtworkService: s, Logger: logger, Config: cfg}
}

// ArtworkDTO — представление записи в листингах.
type ArtworkDTO struct {
	ID                   string `json:"id"`
	WatermarkedImageURL  string `json:"watermarkedImageUrl"`
	ThumbnailURL         string `json:"thumbnailUrl,omitempty"`
	StyleSelected        string `json:"styleSelected"`
	CustomizationDetails string `json:"customizationDetails,omitempty"`
	IsPurchased          bool   `json:"isPurchased"`
	CreatedAt            string `json:"createdAt"`
}

// ListResponse — ответ листинга.
type ListResponse struct {
	Images     []ArtworkDTO `json:"images"`
	Total      int64        `json:"total"`
	TotalPages int          `json:"totalPages"`
	PageSize   int          `json:"pageSize"`
}

// GenerateResponse — ответ генерации.
type GenerateResponse struct {
	Success             bool   `json:"success"`
	ID                  string `json:"id"`
	WatermarkedImageURL string `json:"watermarkedImageUrl"`
	StyleSelected       string `json:"styleSelected"`
}

// StyleDTO — элемент каталога стилей.
type StyleDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func toDTO(items []model.Artwork) []ArtworkDTO {
	out := make([]ArtworkDTO, 0, len(items))
	for _, a := range items {
		out = append(out, ArtworkDTO{
			ID:                   a.ID,
			WatermarkedImageURL:  a.WatermarkedURL,
			ThumbnailURL:         a.ThumbnailURL,
			StyleSelected:        a.StyleSelected,
			CustomizationDetails: a.CustomizationDetails,
			IsPurchased:          a.IsPurchased,
			CreatedAt:            a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// listParams разбирает page и фильтр из query. Невалидный фильтр — ошибка.
func listParams(r *http.Request, filterParam string) (int, model.PurchaseFilter, error) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return 0, "", fmt.Errorf("invalid page: %q", p)
		}
		page = n
	}
	filter, ok := model.ParsePurchaseFilter(r.URL.Query().Get(filterParam))
	if !ok {
		return 0, "", fmt.Errorf("invalid filter")
	}
	return page, filter, nil
}

// List отдаёт страницу галереи покупателя.
func (h *ArtworkHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, filter, err := listParams(r, "filter")
	if err != nil {
		h.Logger.Warnw("List: bad query", "error", err)
		writeError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	res, err := h.ArtworkService.List(r.Context(), p.ShopID, p.UserID, filter, page)
	if err != nil {
		h.Logger.Errorw("List: service error", "shop_id", p.ShopID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch images")
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Images:     toDTO(res.Artworks),
		Total:      res.Total,
		TotalPages: res.TotalPages,
		PageSize:   res.PageSize,
	})
}

// AdminList отдаёт страницу записей всего магазина (все пользователи).
func (h *ArtworkHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, filter, err := listParams(r, "status")
	if err != nil {
		h.Logger.Warnw("AdminList: bad query", "error", err)
		writeError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	res, err := h.ArtworkService.ListByShop(r.Context(), p.ShopID, filter, page)
	if err != nil {
		h.Logger.Errorw("AdminList: service error", "shop_id", p.ShopID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch images")
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Images:     toDTO(res.Artworks),
		Total:      res.Total,
		TotalPages: res.TotalPages,
		PageSize:   res.PageSize,
	})
}

// Generate принимает multipart (image, style, details) и запускает конвейер.
func (h *ArtworkHandler) Generate(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Лимит общего тела запроса
	maxBody := int64(h.Config.UploadMaxSizeMB)*1024*1024 + 1*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.Logger.Warnw("Generate: invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	style := r.FormValue("style")
	details := r.FormValue("details")

	file, header, err := r.FormFile("image")
	if err != nil || style == "" {
		h.Logger.Warnw("Generate: missing required fields", "has_style", style != "", "error", err)
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		h.Logger.Warnw("Generate: failed to read image", "error", err)
		writeError(w, http.StatusBadRequest, "failed to read image")
		return
	}

	res, err := h.ArtworkService.Generate(r.Context(), p.ShopID, p.UserID, service.GenerateInput{
		Image:       imageBytes,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Style:       style,
		Details:     details,
	})
	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if err != nil {
		h.Logger.Errorw("Generate: service error", "shop_id", p.ShopID, "error", err)
		writeError(w, http.StatusInternalServerError, "an error occurred during image generation")
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Success:             true,
		ID:                  res.ID,
		WatermarkedImageURL: res.WatermarkedURL,
		StyleSelected:       res.Style,
	})
}

// Download отдаёт полноразмерный ассет купленной картины.
func (h *ArtworkHandler) Download(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "image id is required", http.StatusBadRequest)
		return
	}

	res, err := h.ArtworkService.Download(r.Context(), p.ShopID, p.UserID, id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "image not found", http.StatusNotFound)
		return
	case errors.Is(err, service.ErrNotPurchased):
		http.Error(w, "purchase required to download", http.StatusForbidden)
		return
	case err != nil:
		h.Logger.Errorw("Download: service error", "artwork_id", id, "error", err)
		http.Error(w, "failed to download image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

// Styles отдаёт каталог стилей для UI.
func (h *ArtworkHandler) Styles(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetPrincipalFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	styles := make([]StyleDTO, 0, 4)
	labels := map[string]string{
		model.StyleRenaissance:   "Renaissance",
		model.StyleImpressionist: "Impressionist",
		model.StyleRoyal:         "Royal Portrait",
		model.StyleAnime:         "Anime",
	}
	for _, tag := range model.KnownStyles() {
		styles = append(styles, StyleDTO{Value: tag, Label: labels[tag]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"styles": styles})
}

package handlers_test

import (
	"OilCanvas/internal/commerce"
	"OilCanvas/internal/config"
	"OilCanvas/internal/handlers"
	"OilCanvas/internal/middleware"
	"OilCanvas/internal/model"
	"OilCanvas/internal/painter"
	"OilCanvas/internal/repo"
	"OilCanvas/internal/service"
	"bytes"
	"context"
	"errors"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Minimal mocks

type mockArtworkRepo struct{ mock.Mock }

func (m *mockArtworkRepo) Create(ctx context.Context, a *model.Artwork) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockArtworkRepo) GetByID(ctx context.Context, shopID, userID, id string) (*model.Artwork, error) {
	args := m.Called(ctx, shopID, userID, id)
	if v, ok := args.Get(0).(*model.Artwork); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArtworkRepo) List(ctx context.Context, shopID, userID string, filter model.PurchaseFilter, offset, limit int) ([]model.Artwork, int64, error) {
	args := m.Called(ctx, shopID, userID, filter, offset, limit)
	var items []model.Artwork
	if v, ok := args.Get(0).([]model.Artwork); ok {
		items = v
	}
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockArtworkRepo) ListByShop(ctx context.Context, shopID string, filter model.PurchaseFilter, offset, limit int) ([]model.Artwork, int64, error) {
	args := m.Called(ctx, shopID, filter, offset, limit)
	var items []model.Artwork
	if v, ok := args.Get(0).([]model.Artwork); ok {
		items = v
	}
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockArtworkRepo) MarkPurchased(ctx context.Context, shopID, productID, orderID string) (*model.Artwork, error) {
	args := m.Called(ctx, shopID, productID, orderID)
	if v, ok := args.Get(0).(*model.Artwork); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.ArtworkRepository = (*mockArtworkRepo)(nil)

// fakeStorage — хранилище в памяти вместо S3
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failPut bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	if f.failPut {
		return "", errors.New("storage down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return f.URL(key), nil
}

func (f *fakeStorage) Get(_ context.Context, key string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, "", errors.New("object not found")
	}
	return data, f.types[key], nil
}

func (f *fakeStorage) URL(key string) string { return "https://cdn.test/" + key }

// fakeGenerator — детерминированный сервис генерации
type fakeGenerator struct {
	failGenerate bool
	result       []byte
}

func (f *fakeGenerator) Generate(_ context.Context, _ painter.Request) (painter.Result, error) {
	if f.failGenerate {
		return painter.Result{}, errors.New("generation down")
	}
	return painter.Result{ImageURL: "https://ai.test/out/result.png"}, nil
}

func (f *fakeGenerator) Fetch(_ context.Context, _ string) ([]byte, string, error) {
	return f.result, "image/png", nil
}

// stubCheckoutClient — checkout API, возвращающий фиксированный URL
type stubCheckoutClient struct {
	fail    bool
	lastReq commerce.CheckoutRequest
}

func (s *stubCheckoutClient) CreateCheckout(_ context.Context, req commerce.CheckoutRequest) (string, error) {
	s.lastReq = req
	if s.fail {
		return "", errors.New("checkout down")
	}
	return "https://pay.test/c/session-1", nil
}

var _ commerce.CheckoutClient = (*stubCheckoutClient)(nil)

// pngBytes кодирует маленький одноцветный PNG для конвейера генерации
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(16, 16, color.NRGBA{R: 10, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

type testEnv struct {
	router   http.Handler
	repo     *mockArtworkRepo
	store    *fakeStorage
	gen      *fakeGenerator
	checkout *stubCheckoutClient
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		AuthSecret:       "test-secret",
		WebhookSecret:    "test-webhook-secret",
		UploadMaxSizeMB:  5,
		ArtworkProductID: "777",
	}
	logger := zap.NewNop().Sugar()

	ar := &mockArtworkRepo{}
	store := newFakeStorage()
	gen := &fakeGenerator{result: pngBytes(t)}
	co := &stubCheckoutClient{}

	artworkSvc := service.NewArtworkService(ar, store, gen, logger, cfg.ArtworkProductID)
	checkoutSvc := service.NewCheckoutService(ar, co, logger)
	webhookSvc := service.NewWebhookService(ar, logger)

	h := handlers.NewHandler(artworkSvc, checkoutSvc, webhookSvc, logger, cfg)
	return &testEnv{router: h.Router, repo: ar, store: store, gen: gen, checkout: co, cfg: cfg}
}

func addAuthCookie(t *testing.T, req *http.Request, p middleware.Principal, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, p, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

// multipartBody собирает multipart-форму генерации
func multipartBody(t *testing.T, image []byte, style, details string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if image != nil {
		fw, err := mw.CreateFormFile("image", "portrait.jpg")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		_, _ = fw.Write(image)
	}
	if style != "" {
		_ = mw.WriteField("style", style)
	}
	if details != "" {
		_ = mw.WriteField("details", details)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

package painter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request — вход сервиса генерации: исходник, стиль и пожелания покупателя.
type Request struct {
	SourceURL string `json:"source_url"`
	Style     string `json:"style"`
	Details   string `json:"details,omitempty"`
}

// Result — ответ сервиса: URL сгенерированного изображения.
type Result struct {
	ImageURL string `json:"image_url"`
}

// Generator — контракт сервиса генерации. Fetch скачивает готовый ассет,
// чтобы наложить водяной знак и сохранить полноразмерную копию.
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
	Fetch(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// HTTPGenerator — сетевой клиент сервиса генерации.
type HTTPGenerator struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

var _ Generator = (*HTTPGenerator)(nil)

func NewHTTPGenerator(baseURL, apiKey string) *HTTPGenerator {
	return &HTTPGenerator{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 120 * time.Second},
	}
}

type generateResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url"`
	Error    string `json:"error,omitempty"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, in Request) (Result, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/generations", bytes.NewReader(b))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpc.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, err
	}
	if !out.Success || out.ImageURL == "" {
		return Result{}, fmt.Errorf("generation failed: %s", out.Error)
	}
	return Result{ImageURL: out.ImageURL}, nil
}

func (g *HTTPGenerator) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CheckoutRequest — параметры создания checkout-сессии.
type CheckoutRequest struct {
	ProductID string `json:"product_id"`
	ArtworkID string `json:"artwork_id"`
	ShopID    string `json:"shop_id"`
}

// CheckoutClient — контракт checkout API коммерческой платформы.
type CheckoutClient interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (checkoutURL string, err error)
}

// HTTPCheckoutClient — сетевой клиент checkout API.
type HTTPCheckoutClient struct {
	baseURL string
	token   string
	httpc   *http.Client
}

var _ CheckoutClient = (*HTTPCheckoutClient)(nil)

func NewHTTPCheckoutClient(baseURL, token string) *HTTPCheckoutClient {
	return &HTTPCheckoutClient{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

func (c *HTTPCheckoutClient) CreateCheckout(ctx context.Context, in CheckoutRequest) (string, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkouts", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("checkout API returned status %d", resp.StatusCode)
	}

	var out checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.CheckoutURL == "" {
		return "", fmt.Errorf("checkout API returned empty checkout_url")
	}
	return out.CheckoutURL, nil
}

package commerce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Заголовки вебхуков платформы.
const (
	HeaderTopic      = "X-Shopify-Topic"
	HeaderHmacSHA256 = "X-Shopify-Hmac-Sha256"
	HeaderShopDomain = "X-Shopify-Shop-Domain"
)

// TopicOrdersPaid — единственный топик, который меняет состояние записей.
const TopicOrdersPaid = "orders/paid"

// SignWebhook подписывает тело вебхука HMAC-SHA256 (base64).
func SignWebhook(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyWebhook сверяет подпись тела вебхука за константное время.
func VerifyWebhook(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := SignWebhook(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

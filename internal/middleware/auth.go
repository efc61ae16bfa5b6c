package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const principalContextKey contextKey = "principal"

const authCookieName = "auth_token"

const sessionTTL = 24 * time.Hour

// Principal — принципал запроса: сессия покупателя в рамках магазина.
type Principal struct {
	UserID string
	ShopID string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	ShopID string `json:"shop"`
}

// WithAuth разбирает JWT из cookie или заголовка Authorization и кладёт
// принципала в контекст. Запрос без валидного токена проходит дальше
// анонимным — отказ отдаёт хендлер.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims := &sessionClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !parsed.Valid || claims.UserID == "" || claims.ShopID == "" {
				next.ServeHTTP(w, r)
				return
			}

			p := Principal{UserID: claims.UserID, ShopID: claims.ShopID}
			ctx := context.WithValue(r.Context(), principalContextKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(authCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// GetPrincipalFromContext возвращает принципала запроса, если он установлен.
func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

// NewSessionToken выпускает подписанный токен сессии.
func NewSessionToken(p Principal, secret string) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
		UserID: p.UserID,
		ShopID: p.ShopID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// SetLoginCookie выпускает токен сессии и ставит его в auth cookie.
func SetLoginCookie(w http.ResponseWriter, p Principal, secret string) error {
	token, err := NewSessionToken(p, secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	return nil
}

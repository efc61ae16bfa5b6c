package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// Тест: SetLoginCookie + WithAuth — принципал попадает в контекст
func TestWithAuth_ValidCookieSetsPrincipal(t *testing.T) {
	const secret = "test-secret"

	// next-хендлер читает принципала из контекста
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := GetPrincipalFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if p.UserID != "u77" || p.ShopID != "shop-77" {
			t.Fatalf("unexpected principal: %+v", p)
		}
		w.WriteHeader(http.StatusOK)
	})

	h := WithAuth(secret)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rrCookie := httptest.NewRecorder()
	_ = SetLoginCookie(rrCookie, Principal{UserID: "u77", ShopID: "shop-77"}, secret)
	for _, c := range rrCookie.Result().Cookies() {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid cookie, got %d", rr.Code)
	}
}

// Тест: Bearer-токен в заголовке Authorization тоже принимается
func TestWithAuth_BearerToken(t *testing.T) {
	const secret = "test-secret"
	token, err := NewSessionToken(Principal{UserID: "u1", ShopID: "s1"}, secret)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	h := WithAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPrincipalFromContext(r.Context()); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d", rr.Code)
	}
}

// Тест: отсутствие cookie — принципал не устанавливается
func TestWithAuth_NoCookieLeavesAnonymous(t *testing.T) {
	h := WithAuth("any-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPrincipalFromContext(r.Context()); ok {
			t.Fatalf("principal must not be set without cookie")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// Тест: невалидный токен — принципал не устанавливается
func TestWithAuth_InvalidToken(t *testing.T) {
	// Сгенерируем cookie с секретом A, а проверять будем секретом B
	rrCookie := httptest.NewRecorder()
	_ = SetLoginCookie(rrCookie, Principal{UserID: "u5", ShopID: "s5"}, "secret-A")

	h := WithAuth("secret-B")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPrincipalFromContext(r.Context()); ok {
			t.Fatalf("principal must not be set with invalid token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rrCookie.Result().Cookies() {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

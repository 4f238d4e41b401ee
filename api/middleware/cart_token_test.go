package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestCartTokenMintsWhenMissing(t *testing.T) {
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen == "" {
		t.Fatal("expected a token in context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("minted token is not a uuid: %q", seen)
	}
	if echoed := resp.Header().Get("X-Cart-Token"); echoed != seen {
		t.Fatalf("header %q does not match context token %q", echoed, seen)
	}
}

func TestCartTokenKeepsValidToken(t *testing.T) {
	token := uuid.NewString()
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Token", token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen != token {
		t.Fatalf("expected token %q to survive, got %q", token, seen)
	}
}

func TestCartTokenReplacesMalformedToken(t *testing.T) {
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Token", "not-a-uuid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen == "not-a-uuid" {
		t.Fatal("malformed token must be replaced")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("replacement token is not a uuid: %q", seen)
	}
}

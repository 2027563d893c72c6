package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenSourceCachesToken(t *testing.T) {
	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Fatalf("unexpected basic auth: %s %s %v", user, pass, ok)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Fatalf("unexpected grant type: %s", r.PostForm.Get("grant_type"))
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "token-1",
			"expires_in":   1800,
		})
	}))
	defer server.Close()

	source := NewTokenSource(server.URL, "client-id", "client-secret", 0)

	for i := 0; i < 3; i++ {
		token, err := source.Token(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "token-1" {
			t.Fatalf("unexpected token: %s", token)
		}
	}
	if requests != 1 {
		t.Fatalf("expected a single token request, got %d", requests)
	}
}

func TestTokenSourceRefreshesExpiredToken(t *testing.T) {
	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		// Short lifetime is entirely consumed by the expiry buffer, so the
		// cached token is immediately stale.
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "token",
			"expires_in":   30,
		})
	}))
	defer server.Close()

	source := NewTokenSource(server.URL, "client-id", "client-secret", 0)

	if _, err := source.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := source.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 2 {
		t.Fatalf("expected a refresh per call for an expired token, got %d", requests)
	}
}

func TestTokenSourceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid_client"}`))
	}))
	defer server.Close()

	source := NewTokenSource(server.URL, "client-id", "wrong", 0)
	if _, err := source.Token(context.Background()); err == nil {
		t.Fatal("expected error for rejected credentials")
	}
}

func TestTokenSourceEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"expires_in": 1800}`))
	}))
	defer server.Close()

	source := NewTokenSource(server.URL, "client-id", "client-secret", 0)
	if _, err := source.Token(context.Background()); err == nil {
		t.Fatal("expected error for response without access_token")
	}
}

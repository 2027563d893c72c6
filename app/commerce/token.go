package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// expiryBuffer is subtracted from the token lifetime so a token is never
// used right at its expiry edge.
const expiryBuffer = 60 * time.Second

// TokenSource caches an admin OAuth client-credentials token process-wide.
// Concurrent refreshes may race; any valid cached token wins over a refresh.
type TokenSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	client       *http.Client

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func NewTokenSource(tokenURL, clientID, clientSecret string, timeout time.Duration) *TokenSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TokenSource{
		tokenURL:     strings.TrimSpace(tokenURL),
		clientID:     strings.TrimSpace(clientID),
		clientSecret: clientSecret,
		client:       &http.Client{Timeout: timeout},
	}
}

func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, expiresAt := s.token, s.expiresAt
	s.mu.RUnlock()

	if token != "" && time.Now().Before(expiresAt) {
		return token, nil
	}

	return s.refresh(ctx)
}

func (s *TokenSource) refresh(ctx context.Context) (string, error) {
	values := url.Values{}
	values.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("admin token request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", fmt.Errorf("admin token response has no access_token")
	}

	expiresAt := time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - expiryBuffer)

	s.mu.Lock()
	s.token = payload.AccessToken
	s.expiresAt = expiresAt
	s.mu.Unlock()

	return payload.AccessToken, nil
}

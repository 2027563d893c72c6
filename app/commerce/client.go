package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrBasketNotFound     = errors.New("basket not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order already exists")
)

type Config struct {
	ShopBaseURL  string
	AdminBaseURL string
	SiteID       string
	ClientID     string
	HTTPTimeout  time.Duration
}

type httpClient struct {
	cfg    Config
	client *http.Client
}

func newHTTPClient(cfg Config) *httpClient {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg.ShopBaseURL = strings.TrimRight(strings.TrimSpace(cfg.ShopBaseURL), "/")
	cfg.AdminBaseURL = strings.TrimRight(strings.TrimSpace(cfg.AdminBaseURL), "/")

	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// doJSON issues a request with the given bearer authorization and decodes a
// JSON response into out (when out is non-nil). 404 responses map to
// errNotFound so callers can distinguish missing resources from failures.
func (c *httpClient) doJSON(ctx context.Context, method, rawURL, authorization string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			authorization = "Bearer " + authorization
		}
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("commerce request failed: %s %s status=%d body=%s", method, rawURL, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

var errNotFound = errors.New("resource not found")

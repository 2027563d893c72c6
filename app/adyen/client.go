package adyen

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

type Config struct {
	APIKey          string
	MerchantAccount string
	CheckoutBaseURL string
	HTTPTimeout     time.Duration
}

// Client talks to the Adyen Checkout API.
type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg.CheckoutBaseURL = strings.TrimRight(strings.TrimSpace(cfg.CheckoutBaseURL), "/")

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) MerchantAccount() string {
	return c.cfg.MerchantAccount
}

func (c *Client) PaymentMethods(ctx context.Context, req *PaymentMethodsRequest) (*PaymentMethodsResponse, error) {
	if req.MerchantAccount == "" {
		req.MerchantAccount = c.cfg.MerchantAccount
	}

	var result PaymentMethodsResponse
	if err := c.postJSON(ctx, "/paymentMethods", "", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Payments submits a payment. The idempotency key guards against duplicate
// charges on retried submissions of the same attempt.
func (c *Client) Payments(ctx context.Context, req *PaymentRequest, idempotencyKey string) (*PaymentsResponse, error) {
	var result PaymentsResponse
	if err := c.postJSON(ctx, "/payments", idempotencyKey, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) PaymentDetails(ctx context.Context, req *DetailsRequest) (*PaymentsResponse, error) {
	var result PaymentsResponse
	if err := c.postJSON(ctx, "/payments/details", "", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) postJSON(ctx context.Context, path string, idempotencyKey string, payload interface{}, out interface{}) error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return errors.New("adyen api key is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.CheckoutBaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.cfg.APIKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
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
	if resp.StatusCode >= 400 {
		return fmt.Errorf("adyen request failed: path=%s status=%d body=%s", path, resp.StatusCode, string(respBody))
	}

	return json.Unmarshal(respBody, out)
}

package commerce

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

// OrderClient wraps order retrieval/creation and the admin order-status
// endpoints. Admin calls authenticate with the cached client-credentials
// token; order creation runs under the shopper's own token.
type OrderClient struct {
	*httpClient
	tokens tokenSource
}

func NewOrderClient(cfg Config, tokens tokenSource) *OrderClient {
	return &OrderClient{
		httpClient: newHTTPClient(cfg),
		tokens:     tokens,
	}
}

func (c *OrderClient) adminOrderURL(orderNo, suffix string) string {
	return fmt.Sprintf("%s/s/-/dw/data/v23_2/sites/%s/orders/%s%s",
		c.cfg.AdminBaseURL, c.cfg.SiteID, url.PathEscape(orderNo), suffix)
}

func (c *OrderClient) GetOrder(ctx context.Context, orderNo string) (*Order, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	order := &Order{}
	err = c.doJSON(ctx, "GET", c.adminOrderURL(orderNo, ""), token, nil, order)
	if errors.Is(err, errNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrder turns a basket into an order carrying the pre-generated order
// number. Creation is idempotent: if an order with that number already
// exists the underlying creation call is never made.
func (c *OrderClient) CreateOrder(ctx context.Context, authorization, basketID, orderNo string) (*Order, error) {
	existing, err := c.GetOrder(ctx, orderNo)
	if err != nil && !errors.Is(err, ErrOrderNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrOrderAlreadyExists
	}

	rawURL := fmt.Sprintf("%s/s/%s/dw/shop/v23_2/orders", c.cfg.ShopBaseURL, c.cfg.SiteID)
	payload := map[string]string{
		"basket_id": basketID,
		"order_no":  orderNo,
	}

	order := &Order{}
	err = c.doJSON(ctx, "POST", rawURL, authorization, payload, order)
	if errors.Is(err, errNotFound) {
		return nil, ErrBasketNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (c *OrderClient) SetStatus(ctx context.Context, orderNo, status string) error {
	return c.putStatus(ctx, orderNo, "/status", map[string]string{"status": status})
}

// FailOrder marks an order failed. With reopenBasket the platform makes the
// originating basket editable again so the shopper can retry.
func (c *OrderClient) FailOrder(ctx context.Context, orderNo string, reopenBasket bool) error {
	payload := map[string]interface{}{"status": OrderStatusFailed}
	if reopenBasket {
		payload["c_reopenBasket"] = true
	}
	return c.putStatus(ctx, orderNo, "/status", payload)
}

func (c *OrderClient) SetPaymentStatus(ctx context.Context, orderNo, status string) error {
	return c.putStatus(ctx, orderNo, "/payment_status", map[string]string{"status": status})
}

func (c *OrderClient) SetExportStatus(ctx context.Context, orderNo, status string) error {
	return c.putStatus(ctx, orderNo, "/export_status", map[string]string{"status": status})
}

func (c *OrderClient) SetConfirmationStatus(ctx context.Context, orderNo, status string) error {
	return c.putStatus(ctx, orderNo, "/confirmation_status", map[string]string{"status": status})
}

// UpdatePaymentTransaction records the provider's PSP reference against the
// order's payment transaction for downstream reconciliation.
func (c *OrderClient) UpdatePaymentTransaction(ctx context.Context, orderNo, pspReference string) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	payload := map[string]string{"transaction_id": pspReference}
	err = c.doJSON(ctx, "PATCH", c.adminOrderURL(orderNo, "/payment_transaction"), token, payload, nil)
	if errors.Is(err, errNotFound) {
		return ErrOrderNotFound
	}
	return err
}

func (c *OrderClient) putStatus(ctx context.Context, orderNo, suffix string, payload interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	err = c.doJSON(ctx, "PUT", c.adminOrderURL(orderNo, suffix), token, payload, nil)
	if errors.Is(err, errNotFound) {
		return ErrOrderNotFound
	}
	return err
}

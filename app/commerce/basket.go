package commerce

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// BasketClient wraps the shopper basket endpoints. Calls are made with the
// shopper's own bearer token forwarded from the storefront.
type BasketClient struct {
	*httpClient
}

func NewBasketClient(cfg Config) *BasketClient {
	return &BasketClient{httpClient: newHTTPClient(cfg)}
}

func (c *BasketClient) basketURL(basketID, suffix string) string {
	return fmt.Sprintf("%s/s/%s/dw/shop/v23_2/baskets/%s%s",
		c.cfg.ShopBaseURL, c.cfg.SiteID, url.PathEscape(basketID), suffix)
}

func (c *BasketClient) GetBasket(ctx context.Context, authorization, basketID string) (*Basket, error) {
	basket := &Basket{}
	err := c.doJSON(ctx, "GET", c.basketURL(basketID, ""), authorization, nil, basket)
	if errors.Is(err, errNotFound) {
		return nil, ErrBasketNotFound
	}
	if err != nil {
		return nil, err
	}
	return basket, nil
}

func (c *BasketClient) GetCustomerBaskets(ctx context.Context, authorization, customerID string) ([]Basket, error) {
	rawURL := fmt.Sprintf("%s/s/%s/dw/shop/v23_2/customers/%s/baskets",
		c.cfg.ShopBaseURL, c.cfg.SiteID, url.PathEscape(customerID))

	var payload struct {
		Baskets []Basket `json:"baskets"`
	}
	if err := c.doJSON(ctx, "GET", rawURL, authorization, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Baskets, nil
}

func (c *BasketClient) AddPaymentInstrument(ctx context.Context, authorization, basketID string, instrument *BasketPaymentInstrumentRequest) (*Basket, error) {
	basket := &Basket{}
	err := c.doJSON(ctx, "POST", c.basketURL(basketID, "/payment_instruments"), authorization, instrument, basket)
	if errors.Is(err, errNotFound) {
		return nil, ErrBasketNotFound
	}
	if err != nil {
		return nil, err
	}
	return basket, nil
}

func (c *BasketClient) RemovePaymentInstrument(ctx context.Context, authorization, basketID, instrumentID string) (*Basket, error) {
	basket := &Basket{}
	err := c.doJSON(ctx, "DELETE", c.basketURL(basketID, "/payment_instruments/"+url.PathEscape(instrumentID)), authorization, nil, basket)
	if errors.Is(err, errNotFound) {
		return nil, ErrBasketNotFound
	}
	if err != nil {
		return nil, err
	}
	return basket, nil
}

func (c *BasketClient) UpdateBillingAddress(ctx context.Context, authorization, basketID string, address *OrderAddress) (*Basket, error) {
	basket := &Basket{}
	err := c.doJSON(ctx, "PUT", c.basketURL(basketID, "/billing_address?use_as_shipping=false"), authorization, address, basket)
	if errors.Is(err, errNotFound) {
		return nil, ErrBasketNotFound
	}
	if err != nil {
		return nil, err
	}
	return basket, nil
}

func (c *BasketClient) UpdateShippingAddress(ctx context.Context, authorization, basketID, shipmentID string, address *OrderAddress) (*Basket, error) {
	basket := &Basket{}
	err := c.doJSON(ctx, "PUT", c.basketURL(basketID, "/shipments/"+url.PathEscape(shipmentID)+"/shipping_address"), authorization, address, basket)
	if errors.Is(err, errNotFound) {
		return nil, ErrBasketNotFound
	}
	if err != nil {
		return nil, err
	}
	return basket, nil
}

package service

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrBasketNotFound        = errors.New("basket not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyExists    = errors.New("order already exists")
	ErrOrderCustomerMismatch = errors.New("order belongs to a different customer")
	ErrWebhookUnauthorized   = errors.New("webhook delivery is not authorized")
)

package types

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	headerAuthorization = "authorization"
	headerBasketID      = "basketid"
	headerCustomerID    = "customerid"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type EnvironmentResponse struct {
	ClientKeyPublic string `json:"clientKeyPublic"`
	EnvironmentName string `json:"environmentName"`
}

// CheckoutResponse is the normalized result returned to the storefront for
// both /payments and /payments/details. IsSuccessful is only present on
// final outcomes; Action only when the widget must run a follow-up step.
type CheckoutResponse struct {
	IsFinal           bool            `json:"isFinal"`
	IsSuccessful      *bool           `json:"isSuccessful,omitempty"`
	Action            json.RawMessage `json:"action,omitempty"`
	MerchantReference string          `json:"merchantReference,omitempty"`
}

type PaymentMethodsRequest struct {
	CustomerID string
	Locale     string
}

func NewPaymentMethodsRequestFromContext(ctx echo.Context) (*PaymentMethodsRequest, error) {
	return &PaymentMethodsRequest{
		CustomerID: strings.TrimSpace(ctx.Request().Header.Get(headerCustomerID)),
		Locale:     strings.TrimSpace(ctx.QueryParam("locale")),
	}, nil
}

func (r *PaymentMethodsRequest) Validate() error {
	if r.CustomerID == "" {
		return errors.New("customerid header is required")
	}
	return nil
}

type PaymentsRequest struct {
	Authorization string
	BasketID      string
	CustomerID    string
	RemoteIP      string
	StateData     json.RawMessage
}

func NewPaymentsRequestFromContext(ctx echo.Context) (*PaymentsRequest, error) {
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := ctx.Bind(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &PaymentsRequest{
		Authorization: strings.TrimSpace(ctx.Request().Header.Get(headerAuthorization)),
		BasketID:      strings.TrimSpace(ctx.Request().Header.Get(headerBasketID)),
		CustomerID:    strings.TrimSpace(ctx.Request().Header.Get(headerCustomerID)),
		RemoteIP:      ctx.RealIP(),
		StateData:     body.Data,
	}, nil
}

func (r *PaymentsRequest) Validate() error {
	if r.Authorization == "" {
		return errors.New("authorization header is required")
	}
	if r.BasketID == "" {
		return errors.New("basketid header is required")
	}
	if r.CustomerID == "" {
		return errors.New("customerid header is required")
	}
	if len(r.StateData) == 0 {
		return errors.New("data is required")
	}
	return nil
}

type PaymentDetailsRequest struct {
	CustomerID string
	Data       json.RawMessage
}

func NewPaymentDetailsRequestFromContext(ctx echo.Context) (*PaymentDetailsRequest, error) {
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := ctx.Bind(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &PaymentDetailsRequest{
		CustomerID: strings.TrimSpace(ctx.Request().Header.Get(headerCustomerID)),
		Data:       body.Data,
	}, nil
}

func (r *PaymentDetailsRequest) Validate() error {
	if len(r.Data) == 0 {
		return errors.New("data is required")
	}
	return nil
}

// WebhookRequest carries the raw delivery plus the basic-auth credentials
// the sender presented. Authentication happens in the service, before any
// parsing of the payload into notification items.
type WebhookRequest struct {
	Username string
	Password string
	HasAuth  bool
	Payload  []byte
}

func NewWebhookRequestFromContext(ctx echo.Context) (*WebhookRequest, error) {
	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, err
	}

	username, password, ok := ctx.Request().BasicAuth()
	return &WebhookRequest{
		Username: username,
		Password: password,
		HasAuth:  ok,
		Payload:  payload,
	}, nil
}

func (r *WebhookRequest) Validate() error {
	if len(r.Payload) == 0 {
		return errors.New("payload is required")
	}
	return nil
}

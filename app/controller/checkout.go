package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-checkout/app/checkout"
	"github.com/vibast-solutions/ms-go-checkout/app/factory"
	"github.com/vibast-solutions/ms-go-checkout/app/service"
	"github.com/vibast-solutions/ms-go-checkout/app/types"
)

type CheckoutController struct {
	checkoutService *service.CheckoutService
	logger          logrus.FieldLogger
}

func NewCheckoutController(checkoutService *service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		logger:          factory.NewModuleLogger("checkout-controller"),
	}
}

func (c *CheckoutController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *CheckoutController) Environment(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.checkoutService.Environment())
}

func (c *CheckoutController) PaymentMethods(ctx echo.Context) error {
	req, err := types.NewPaymentMethodsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	methods, err := c.checkoutService.PaymentMethods(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Payment methods lookup failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, methods)
}

func (c *CheckoutController) Payments(ctx echo.Context) error {
	req, err := types.NewPaymentsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.checkoutService.SubmitPayment(ctx.Request().Context(), req)
	if err != nil {
		return c.writeCheckoutError(ctx, err, "Payment submission failed")
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *CheckoutController) PaymentDetails(ctx echo.Context) error {
	req, err := types.NewPaymentDetailsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.checkoutService.SubmitDetails(ctx.Request().Context(), req)
	if err != nil {
		return c.writeCheckoutError(ctx, err, "Payment details submission failed")
	}

	return ctx.JSON(http.StatusOK, result)
}

// Webhook acknowledges with the provider's fixed token as plain text; the
// provider matches the body literally.
func (c *CheckoutController) Webhook(ctx echo.Context) error {
	req, err := types.NewWebhookRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	ack, err := c.checkoutService.HandleWebhook(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrWebhookUnauthorized) {
			return c.writeError(ctx, http.StatusUnauthorized, err.Error())
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Webhook ingestion failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.String(http.StatusOK, ack)
}

func (c *CheckoutController) writeCheckoutError(ctx echo.Context, err error, message string) error {
	var invalidCurrency *checkout.InvalidCurrencyError
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.As(err, &invalidCurrency):
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBasketNotFound), errors.Is(err, service.ErrOrderNotFound):
		return c.writeError(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrOrderAlreadyExists), errors.Is(err, service.ErrOrderCustomerMismatch):
		return c.writeError(ctx, http.StatusConflict, err.Error())
	default:
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error(message)
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
}

func (c *CheckoutController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}

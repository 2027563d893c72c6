package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-checkout/app/adyen"
	"github.com/vibast-solutions/ms-go-checkout/app/checkout"
	"github.com/vibast-solutions/ms-go-checkout/app/commerce"
	"github.com/vibast-solutions/ms-go-checkout/app/entity"
	"github.com/vibast-solutions/ms-go-checkout/app/factory"
	"github.com/vibast-solutions/ms-go-checkout/app/mapper"
	"github.com/vibast-solutions/ms-go-checkout/app/types"
	"github.com/vibast-solutions/ms-go-checkout/config"
)

const (
	defaultBatchSize = int32(100)

	// Payment method id the storefront registers basket payment
	// instruments under on the commerce platform.
	paymentMethodID = "ADYEN"
)

type basketAPI interface {
	GetBasket(ctx context.Context, authorization, basketID string) (*commerce.Basket, error)
	AddPaymentInstrument(ctx context.Context, authorization, basketID string, instrument *commerce.BasketPaymentInstrumentRequest) (*commerce.Basket, error)
	RemovePaymentInstrument(ctx context.Context, authorization, basketID, instrumentID string) (*commerce.Basket, error)
}

type orderAPI interface {
	GetOrder(ctx context.Context, orderNo string) (*commerce.Order, error)
	CreateOrder(ctx context.Context, authorization, basketID, orderNo string) (*commerce.Order, error)
	SetStatus(ctx context.Context, orderNo, status string) error
	FailOrder(ctx context.Context, orderNo string, reopenBasket bool) error
	SetPaymentStatus(ctx context.Context, orderNo, status string) error
	SetExportStatus(ctx context.Context, orderNo, status string) error
	SetConfirmationStatus(ctx context.Context, orderNo, status string) error
	UpdatePaymentTransaction(ctx context.Context, orderNo, pspReference string) error
}

type adyenAPI interface {
	PaymentMethods(ctx context.Context, req *adyen.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error)
	Payments(ctx context.Context, req *adyen.PaymentRequest, idempotencyKey string) (*adyen.PaymentsResponse, error)
	PaymentDetails(ctx context.Context, req *adyen.DetailsRequest) (*adyen.PaymentsResponse, error)
}

type notificationRepository interface {
	Create(ctx context.Context, record *entity.NotificationRecord) error
	ListByStatus(ctx context.Context, status string, limit int32) ([]*entity.NotificationRecord, error)
	MarkProcessed(ctx context.Context, id uint64, processedStatus string, now time.Time) error
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time, limit int32) (int64, error)
}

type CheckoutService struct {
	baskets          basketAPI
	orders           orderAPI
	provider         adyenAPI
	notificationRepo notificationRepository
	adyenCfg         config.AdyenConfig
	checkoutCfg      config.CheckoutConfig
	notificationsCfg config.NotificationsConfig
	logger           logrus.FieldLogger
}

func NewCheckoutService(
	baskets basketAPI,
	orders orderAPI,
	provider adyenAPI,
	notificationRepo notificationRepository,
	adyenCfg config.AdyenConfig,
	checkoutCfg config.CheckoutConfig,
	notificationsCfg config.NotificationsConfig,
) *CheckoutService {
	return &CheckoutService{
		baskets:          baskets,
		orders:           orders,
		provider:         provider,
		notificationRepo: notificationRepo,
		adyenCfg:         adyenCfg,
		checkoutCfg:      checkoutCfg,
		notificationsCfg: notificationsCfg,
		logger:           factory.NewModuleLogger("checkout-service"),
	}
}

// Environment exposes the public widget configuration.
func (s *CheckoutService) Environment() *types.EnvironmentResponse {
	return &types.EnvironmentResponse{
		ClientKeyPublic: s.adyenCfg.ClientKey,
		EnvironmentName: s.adyenCfg.Environment,
	}
}

func (s *CheckoutService) PaymentMethods(ctx context.Context, req *types.PaymentMethodsRequest) (*adyen.PaymentMethodsResponse, error) {
	return s.provider.PaymentMethods(ctx, &adyen.PaymentMethodsRequest{
		MerchantAccount:  s.adyenCfg.MerchantAccount,
		ShopperReference: req.CustomerID,
		ShopperLocale:    req.Locale,
		Channel:          adyen.ChannelWeb,
	})
}

// SubmitPayment runs the full payment flow: fetch basket, rebuild its
// payment instrument, assemble the provider request, create the order
// idempotently, submit to the provider and map the outcome.
func (s *CheckoutService) SubmitPayment(ctx context.Context, req *types.PaymentsRequest) (*types.CheckoutResponse, error) {
	basket, err := s.baskets.GetBasket(ctx, req.Authorization, req.BasketID)
	if err != nil {
		if errors.Is(err, commerce.ErrBasketNotFound) {
			return nil, ErrBasketNotFound
		}
		return nil, err
	}

	state, err := checkout.ParseStateData(req.StateData)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable state data", ErrInvalidRequest)
	}

	orderNo := basket.OrderNo
	if orderNo == "" {
		return nil, fmt.Errorf("%w: basket has no order number", ErrInvalidRequest)
	}

	basket, err = s.refreshPaymentInstrument(ctx, req.Authorization, basket)
	if err != nil {
		return nil, err
	}

	builder := checkout.NewPaymentRequestBuilder(
		checkout.BuilderConfig{
			MerchantAccount:    s.adyenCfg.MerchantAccount,
			ReturnURL:          s.checkoutCfg.ReturnURL,
			ApplicationName:    s.checkoutCfg.ApplicationName,
			ApplicationVersion: s.checkoutCfg.ApplicationVersion,
		},
		basket,
		state,
		checkout.RequestInfo{CustomerID: req.CustomerID, RemoteIP: req.RemoteIP},
		s.logger,
	)

	paymentRequest, err := builder.BuildStandard()
	if err != nil {
		return nil, err
	}

	if _, err := s.orders.CreateOrder(ctx, req.Authorization, req.BasketID, orderNo); err != nil {
		switch {
		case errors.Is(err, commerce.ErrOrderAlreadyExists):
			// A continuation step settles against the order the first
			// partial payment created; everything else gets the conflict.
			if !builder.PartialPayment() {
				return nil, ErrOrderAlreadyExists
			}
		case errors.Is(err, commerce.ErrBasketNotFound):
			return nil, ErrBasketNotFound
		default:
			return nil, err
		}
	}

	result, err := s.provider.Payments(ctx, paymentRequest, uuid.NewString())
	if err != nil {
		// The order exists but the submission never completed; fail it so
		// the shopper gets their basket back.
		if failErr := s.orders.FailOrder(ctx, orderNo, true); failErr != nil {
			s.logger.WithError(failErr).WithField("order_no", orderNo).Error("Failing order after payment submission error failed")
		}
		return nil, err
	}
	if result.MerchantReference == "" {
		result.MerchantReference = orderNo
	}

	if err := s.applyPaymentResult(ctx, result); err != nil {
		return nil, err
	}

	return mapper.NormalizeResult(result), nil
}

// SubmitDetails forwards the additional-authentication payload and applies
// the now-final outcome to the order.
func (s *CheckoutService) SubmitDetails(ctx context.Context, req *types.PaymentDetailsRequest) (*types.CheckoutResponse, error) {
	var details adyen.DetailsRequest
	if err := json.Unmarshal(req.Data, &details); err != nil {
		return nil, fmt.Errorf("%w: unreadable details data", ErrInvalidRequest)
	}

	result, err := s.provider.PaymentDetails(ctx, &details)
	if err != nil {
		return nil, err
	}

	if result.MerchantReference != "" && req.CustomerID != "" {
		order, err := s.orders.GetOrder(ctx, result.MerchantReference)
		if err != nil && !errors.Is(err, commerce.ErrOrderNotFound) {
			return nil, err
		}
		if order != nil && order.CustomerInfo.CustomerID != req.CustomerID {
			return nil, ErrOrderCustomerMismatch
		}
	}

	if err := s.applyPaymentResult(ctx, result); err != nil {
		return nil, err
	}

	return mapper.NormalizeResult(result), nil
}

// applyPaymentResult records the synchronous part of the outcome. Terminal
// order state is still owned by the webhook path; here we only attach the
// PSP reference on authorisation or release the basket on a final refusal.
func (s *CheckoutService) applyPaymentResult(ctx context.Context, result *adyen.PaymentsResponse) error {
	if result.MerchantReference == "" {
		return nil
	}

	switch result.ResultCode {
	case adyen.ResultAuthorised:
		return s.orders.UpdatePaymentTransaction(ctx, result.MerchantReference, result.PspReference)
	case adyen.ResultRefused, adyen.ResultError, adyen.ResultCancelled:
		return s.orders.FailOrder(ctx, result.MerchantReference, true)
	default:
		return nil
	}
}

// refreshPaymentInstrument drops stale provider payment instruments from the
// basket and registers a fresh one covering the current order total.
func (s *CheckoutService) refreshPaymentInstrument(ctx context.Context, authorization string, basket *commerce.Basket) (*commerce.Basket, error) {
	current := basket
	for _, instrument := range basket.PaymentInstruments {
		if instrument.PaymentMethodID != paymentMethodID {
			continue
		}
		updated, err := s.baskets.RemovePaymentInstrument(ctx, authorization, basket.BasketID, instrument.PaymentInstrumentID)
		if err != nil {
			return nil, err
		}
		current = updated
	}

	updated, err := s.baskets.AddPaymentInstrument(ctx, authorization, current.BasketID, &commerce.BasketPaymentInstrumentRequest{
		Amount:          current.OrderTotal,
		PaymentMethodID: paymentMethodID,
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CheckoutService) batchSize() int32 {
	if s.notificationsCfg.JobBatchSize > 0 {
		return s.notificationsCfg.JobBatchSize
	}
	return defaultBatchSize
}

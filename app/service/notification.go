package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-checkout/app/adyen"
	"github.com/vibast-solutions/ms-go-checkout/app/commerce"
	"github.com/vibast-solutions/ms-go-checkout/app/entity"
	"github.com/vibast-solutions/ms-go-checkout/app/repository"
	"github.com/vibast-solutions/ms-go-checkout/app/types"
)

// NotificationAck is the fixed acknowledgment the provider expects. It must
// go back for every accepted delivery or the provider redelivers forever.
const NotificationAck = "[accepted]"

const (
	eventCodeOrderClosed = "ORDER_CLOSED"
	eventCodeOfferClosed = "OFFER_CLOSED"
)

// Event codes the periodic job acts on. Everything else is recorded as
// PENDING for audit and never dispatched.
var actionableEventCodes = map[string]struct{}{
	"AUTHORISATION":  {},
	"CANCELLATION":   {},
	"CAPTURE":        {},
	"CAPTURE_FAILED": {},
	"REFUND":         {},
	"OFFER_CLOSED":   {},
	"ORDER_CLOSED":   {},
}

// HandleWebhook ingests a raw provider delivery. Authentication and HMAC
// validation happen before any record is written or any order touched; a
// delivery failing either check is rejected outright.
func (s *CheckoutService) HandleWebhook(ctx context.Context, req *types.WebhookRequest) (string, error) {
	if err := s.authenticateWebhook(req); err != nil {
		return "", err
	}

	var envelope adyen.NotificationEnvelope
	if err := json.Unmarshal(req.Payload, &envelope); err != nil {
		return "", err
	}

	if s.adyenCfg.HMACKey != "" {
		for i := range envelope.NotificationItems {
			item := &envelope.NotificationItems[i].NotificationRequestItem
			valid, err := adyen.ValidateHMAC(item, s.adyenCfg.HMACKey)
			if err != nil || !valid {
				s.logger.WithField("merchant_reference", item.MerchantReference).Warn("Rejecting webhook item with invalid hmac")
				return "", ErrWebhookUnauthorized
			}
		}
	}

	now := time.Now().UTC()
	for i := range envelope.NotificationItems {
		item := &envelope.NotificationItems[i].NotificationRequestItem
		if err := s.recordNotification(ctx, item, now); err != nil {
			return "", err
		}
	}

	return NotificationAck, nil
}

func (s *CheckoutService) authenticateWebhook(req *types.WebhookRequest) error {
	if s.adyenCfg.WebhookUser == "" && s.adyenCfg.WebhookPassword == "" {
		return nil
	}
	if !req.HasAuth {
		return ErrWebhookUnauthorized
	}
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.adyenCfg.WebhookUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adyenCfg.WebhookPassword)) == 1
	if !userOK || !passOK {
		return ErrWebhookUnauthorized
	}
	return nil
}

// recordNotification persists the event before any business processing.
// A redelivery of an already-recorded event is acknowledged silently.
func (s *CheckoutService) recordNotification(ctx context.Context, item *adyen.NotificationRequestItem, now time.Time) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	status := entity.NotificationStatusPending
	if _, ok := actionableEventCodes[item.EventCode]; ok {
		status = entity.NotificationStatusProcess
	}

	record := &entity.NotificationRecord{
		MerchantReference: item.MerchantReference,
		EventCode:         item.EventCode,
		EventDate:         item.EventDate,
		PspReference:      item.PspReference,
		Success:           item.Success,
		PayloadJSON:       string(payload),
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.notificationRepo.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrNotificationAlreadyExists) {
			s.logger.WithField("merchant_reference", item.MerchantReference).Info("Duplicate notification delivery, already recorded")
			return nil
		}
		return err
	}
	return nil
}

// handleNotification drives the order-status state machine for a single
// event. ORDER_CLOSED reconciles order state according to its outcome;
// OFFER_CLOSED means the shopper abandoned a redirect flow and always
// fails the order. Every other event code passes through untouched. All
// four status updates of a branch must succeed or the failure propagates
// to the caller for job-level retry.
func (s *CheckoutService) handleNotification(ctx context.Context, item *adyen.NotificationRequestItem) error {
	if item.EventCode != eventCodeOrderClosed && item.EventCode != eventCodeOfferClosed {
		return nil
	}

	order, err := s.orders.GetOrder(ctx, item.MerchantReference)
	if err != nil {
		if errors.Is(err, commerce.ErrOrderNotFound) {
			s.logger.WithField("merchant_reference", item.MerchantReference).Info("No order for notification, skipping")
			return nil
		}
		return err
	}

	if item.EventCode == eventCodeOrderClosed && item.Success == "true" {
		return s.applyTerminalSuccess(ctx, order.OrderNo)
	}
	return s.applyTerminalFailure(ctx, order.OrderNo)
}

func (s *CheckoutService) applyTerminalSuccess(ctx context.Context, orderNo string) error {
	if err := s.orders.SetConfirmationStatus(ctx, orderNo, commerce.ConfirmationStatusConfirmed); err != nil {
		return err
	}
	if err := s.orders.SetPaymentStatus(ctx, orderNo, commerce.PaymentStatusPaid); err != nil {
		return err
	}
	if err := s.orders.SetExportStatus(ctx, orderNo, commerce.ExportStatusReady); err != nil {
		return err
	}
	return s.orders.SetStatus(ctx, orderNo, commerce.OrderStatusNew)
}

func (s *CheckoutService) applyTerminalFailure(ctx context.Context, orderNo string) error {
	if err := s.orders.SetConfirmationStatus(ctx, orderNo, commerce.ConfirmationStatusNotConfirmed); err != nil {
		return err
	}
	if err := s.orders.SetPaymentStatus(ctx, orderNo, commerce.PaymentStatusNotPaid); err != nil {
		return err
	}
	if err := s.orders.SetExportStatus(ctx, orderNo, commerce.ExportStatusNotExported); err != nil {
		return err
	}
	return s.orders.SetStatus(ctx, orderNo, commerce.OrderStatusFailed)
}

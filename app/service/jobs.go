package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-checkout/app/adyen"
	"github.com/vibast-solutions/ms-go-checkout/app/commerce"
	"github.com/vibast-solutions/ms-go-checkout/app/entity"
)

// RunProcessNotificationsBatch dispatches pending PROCESS records to the
// notification handler. A failing record marks its order failed (only while
// the order is still in its initial created state) and never stops the
// batch; the first error is reported so the job run is visible as failed.
func (s *CheckoutService) RunProcessNotificationsBatch(ctx context.Context) error {
	records, err := s.notificationRepo.ListByStatus(ctx, entity.NotificationStatusProcess, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, record := range records {
		if record == nil {
			continue
		}

		now := time.Now().UTC()

		var item adyen.NotificationRequestItem
		if err := json.Unmarshal([]byte(record.PayloadJSON), &item); err != nil {
			s.logger.WithError(err).WithField("notification_id", record.ID).Error("Unreadable notification payload")
			firstErr = keepFirstErr(firstErr, err)
			if markErr := s.notificationRepo.MarkProcessed(ctx, record.ID, entity.NotificationProcessedFailed, now); markErr != nil {
				firstErr = keepFirstErr(firstErr, markErr)
			}
			continue
		}

		if err := s.handleNotification(ctx, &item); err != nil {
			s.logger.WithError(err).WithField("merchant_reference", item.MerchantReference).Error("Notification handling failed")
			s.failOrderIfStillCreated(ctx, item.MerchantReference)
			firstErr = keepFirstErr(firstErr, err)
			if markErr := s.notificationRepo.MarkProcessed(ctx, record.ID, entity.NotificationProcessedFailed, now); markErr != nil {
				firstErr = keepFirstErr(firstErr, markErr)
			}
			continue
		}

		if err := s.notificationRepo.MarkProcessed(ctx, record.ID, entity.NotificationProcessedSuccess, now); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}

	return firstErr
}

// RunCleanupNotificationsBatch purges successfully processed records older
// than the retention window.
func (s *CheckoutService) RunCleanupNotificationsBatch(ctx context.Context) error {
	retention := time.Duration(s.notificationsCfg.RetentionDays) * 24 * time.Hour
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	cutoff := time.Now().UTC().Add(-retention)

	deleted, err := s.notificationRepo.DeleteProcessedBefore(ctx, cutoff, s.batchSize())
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.WithField("deleted", deleted).Info("Purged processed notifications")
	}
	return nil
}

// failOrderIfStillCreated is the handler-failure fallback. A later, more
// specific status must never be overridden, so the order is only failed
// while it still sits in its initial created state.
func (s *CheckoutService) failOrderIfStillCreated(ctx context.Context, orderNo string) {
	if orderNo == "" {
		return
	}
	order, err := s.orders.GetOrder(ctx, orderNo)
	if err != nil {
		if !errors.Is(err, commerce.ErrOrderNotFound) {
			s.logger.WithError(err).WithField("order_no", orderNo).Warn("Order lookup for failure fallback failed")
		}
		return
	}
	if order.Status != commerce.OrderStatusCreated {
		return
	}
	if err := s.orders.FailOrder(ctx, orderNo, false); err != nil {
		s.logger.WithError(err).WithField("order_no", orderNo).Warn("Failure fallback status update failed")
	}
}

func keepFirstErr(current error, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}

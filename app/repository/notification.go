package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-checkout/app/entity"
)

var ErrNotificationAlreadyExists = errors.New("notification already recorded")

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, record *entity.NotificationRecord) error {
	query := `
		INSERT INTO notifications (
			merchant_reference, event_code, event_date, psp_reference, success,
			payload_json, status, processed_status, processed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		record.MerchantReference,
		record.EventCode,
		record.EventDate,
		record.PspReference,
		record.Success,
		record.PayloadJSON,
		record.Status,
		nullableStringValue(record.ProcessedStatus),
		nullableTimeValue(record.ProcessedAt),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrNotificationAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	record.ID = uint64(id)
	return nil
}

// ListByStatus returns unprocessed records in arrival order, oldest first.
func (r *NotificationRepository) ListByStatus(ctx context.Context, status string, limit int32) ([]*entity.NotificationRecord, error) {
	query := `
		SELECT id, merchant_reference, event_code, event_date, psp_reference, success,
			payload_json, status, processed_status, processed_at, created_at, updated_at
		FROM notifications
		WHERE status = ? AND processed_status IS NULL
		ORDER BY id ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.NotificationRecord, 0)
	for rows.Next() {
		record := &entity.NotificationRecord{}
		if err := scanNotification(rows, record); err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	return items, rows.Err()
}

func (r *NotificationRepository) MarkProcessed(ctx context.Context, id uint64, processedStatus string, now time.Time) error {
	query := `
		UPDATE notifications
		SET processed_status = ?, processed_at = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query, processedStatus, now, now, id)
	return err
}

// DeleteProcessedBefore purges successfully handled records older than the
// retention cutoff. Returns the number of rows removed.
func (r *NotificationRepository) DeleteProcessedBefore(ctx context.Context, cutoff time.Time, limit int32) (int64, error) {
	query := `
		DELETE FROM notifications
		WHERE processed_status = ? AND processed_at < ?
		LIMIT ?
	`

	result, err := r.db.ExecContext(ctx, query, entity.NotificationProcessedSuccess, cutoff, limit)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNotification(row rowScanner, record *entity.NotificationRecord) error {
	var processedStatus sql.NullString
	var processedAt sql.NullTime

	if err := row.Scan(
		&record.ID,
		&record.MerchantReference,
		&record.EventCode,
		&record.EventDate,
		&record.PspReference,
		&record.Success,
		&record.PayloadJSON,
		&record.Status,
		&processedStatus,
		&processedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return err
	}

	record.ProcessedStatus = stringPtrFromNull(processedStatus)
	record.ProcessedAt = timePtrFromNull(processedAt)
	return nil
}

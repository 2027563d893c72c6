package entity

import "time"

// Processing status of a stored notification. PROCESS records are picked up
// by the periodic job; PENDING records are unrecognized event codes kept for
// audit until the cleanup horizon.
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusProcess = "PROCESS"
)

// Outcome recorded once a PROCESS record has been handled.
const (
	NotificationProcessedSuccess = "SUCCESS"
	NotificationProcessedFailed  = "FAILED"
)

// NotificationRecord is one received webhook event, persisted before any
// business processing. The record is the durability mechanism: a crash
// mid-handling leaves it in PROCESS for the next job run to retry.
type NotificationRecord struct {
	ID uint64

	// MerchantReference plus EventDate plus EventCode identify a delivery;
	// redeliveries of the same event collapse onto the existing record.
	MerchantReference string
	EventCode         string
	EventDate         string

	PspReference string
	Success      string
	PayloadJSON  string

	Status          string
	ProcessedStatus *string
	ProcessedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

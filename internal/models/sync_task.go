package models

import (
	"database/sql"
	"time"
)

// SyncTask is an outbox row for publishing booking changes downstream.
type SyncTask struct {
	ID          int64
	TaskType    string
	BookingID   int64
	Payload     []byte
	Status      string
	RetryCount  int
	LastError   string
	CreatedAt   time.Time
	ProcessedAt sql.NullTime
	NextRetryAt sql.NullTime
}

const (
	SyncStatusPending = "pending"
	SyncStatusRetry   = "retry"
	SyncStatusDone    = "done"
	SyncStatusFailed  = "failed"
)

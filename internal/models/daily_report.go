package models

import (
	"time"

	"github.com/google/uuid"
)

// Daily report statuses.
const (
	ReportDraft     = "draft"
	ReportSubmitted = "submitted"
)

// DailyReport is a per-object, per-day summary of work item counts as of
// generation time. Unique per (object, report_date); the scheduler backfill
// must never create a duplicate for an existing pair.
type DailyReport struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ObjectID       uuid.UUID `json:"object_id" db:"object_id"`
	ReportDate     time.Time `json:"report_date" db:"report_date"`
	PlannedCount   int       `json:"planned_count" db:"planned_count"`
	CompletedCount int       `json:"completed_count" db:"completed_count"`
	OverdueCount   int       `json:"overdue_count" db:"overdue_count"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

package models

import "time"

// Well-known setting keys.
const (
	// SettingReportsCursor holds the last date (YYYY-MM-DD) fully processed
	// by the daily-report backfill. The sole scheduler state surviving restart.
	SettingReportsCursor = "daily_reports_last_processed_date"
)

// SystemSetting is a generic key-value row for persisted service state.
type SystemSetting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records a mutating user action against the HTTP API.
type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    *uuid.UUID `json:"user_id" db:"user_id"`
	Method    string     `json:"method" db:"method"`
	Path      string     `json:"path" db:"path"`
	Status    int        `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// AuditLogFilters narrows audit log queries.
type AuditLogFilters struct {
	UserID    *uuid.UUID `json:"user_id"`
	Method    *string    `json:"method"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

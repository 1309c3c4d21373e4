package models

import (
	"time"

	"github.com/google/uuid"
)

// Planned work statuses. planned -> in_progress -> completed are user-driven
// transitions; overdue is set only by the scheduler sweep.
const (
	WorkPlanned    = "planned"
	WorkInProgress = "in_progress"
	WorkCompleted  = "completed"
	WorkOverdue    = "overdue"
)

// Planned work priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// PlannedWork is a scheduled work item on a job site.
type PlannedWork struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ObjectID    uuid.UUID  `json:"object_id" db:"object_id"`
	WorkType    string     `json:"work_type" db:"work_type"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	PlannedDate *time.Time `json:"planned_date" db:"planned_date"`
	Priority    string     `json:"priority" db:"priority"`
	Status      string     `json:"status" db:"status"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// CanTransition reports whether a user-driven status change is allowed.
// The overdue status is owned by the scheduler and cannot be set by users,
// but an overdue item may still be moved forward.
func CanTransition(from, to string) bool {
	switch to {
	case WorkInProgress:
		return from == WorkPlanned || from == WorkOverdue
	case WorkCompleted:
		return from == WorkPlanned || from == WorkInProgress || from == WorkOverdue
	}
	return false
}

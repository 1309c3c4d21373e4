package models

import (
	"time"

	"github.com/google/uuid"
)

// Site object statuses.
const (
	ObjectActive    = "active"
	ObjectSuspended = "suspended"
	ObjectFinished  = "finished"
)

// SiteObject is a construction job site.
type SiteObject struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   *string   `json:"address" db:"address"`
	Status    string    `json:"status" db:"status"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Site element types.
const (
	ElementSupport = "support"
	ElementTrench  = "trench"
	ElementFixture = "fixture"
)

// SiteElement is a physical element of a job site (a support, a trench
// section, a fixture) with planned vs executed unit counts.
type SiteElement struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ObjectID      uuid.UUID `json:"object_id" db:"object_id"`
	ElementType   string    `json:"element_type" db:"element_type"`
	Title         string    `json:"title" db:"title"`
	PlannedCount  int       `json:"planned_count" db:"planned_count"`
	ExecutedCount int       `json:"executed_count" db:"executed_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

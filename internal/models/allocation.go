package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserMaterialAllocation is the quantity of a material currently held by a
// user. It is a materialized view over the movement log, kept for query
// performance: rows are created lazily on first issue and deleted when the
// quantity reaches exactly zero.
type UserMaterialAllocation struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	MaterialID uuid.UUID       `json:"material_id" db:"material_id"`
	Quantity   decimal.Decimal `json:"quantity" db:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// AllocationView is an allocation enriched with display names for listings.
type AllocationView struct {
	UserMaterialAllocation
	UserName     string `json:"user_name"`
	MaterialName string `json:"material_name"`
	MaterialUnit string `json:"material_unit"`
}

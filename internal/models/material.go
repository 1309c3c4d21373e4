package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material represents a warehouse material. CurrentQuantity is the
// warehouse-held stock; quantities attributed to users live in
// UserMaterialAllocation rows.
type Material struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	Name            string           `json:"name" db:"name"`
	Unit            string           `json:"unit" db:"unit"`
	CurrentQuantity decimal.Decimal  `json:"current_quantity" db:"current_quantity"`
	MinQuantity     decimal.Decimal  `json:"min_quantity" db:"min_quantity"`
	PricePerUnit    *decimal.Decimal `json:"price_per_unit" db:"price_per_unit"`
	Supplier        *string          `json:"supplier" db:"supplier"`
	IsActive        bool             `json:"is_active" db:"is_active"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

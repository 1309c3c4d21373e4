package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock-affecting event.
type MovementType string

const (
	MovementAdd      MovementType = "add"      // receipt into the warehouse
	MovementMove     MovementType = "move"     // issue from warehouse to a user
	MovementReturn   MovementType = "return"   // return from a user to the warehouse
	MovementWriteoff MovementType = "writeoff" // write-off from the warehouse
)

// Valid reports whether t is one of the known movement types.
func (t MovementType) Valid() bool {
	switch t {
	case MovementAdd, MovementMove, MovementReturn, MovementWriteoff:
		return true
	}
	return false
}

// WarehouseMovement is one entry of the append-only stock event log.
// Rows are immutable once created; corrections are made via compensating
// movements, never edits.
type WarehouseMovement struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	MaterialID   uuid.UUID       `json:"material_id" db:"material_id"`
	FromUserID   *uuid.UUID      `json:"from_user_id" db:"from_user_id"`
	ToUserID     *uuid.UUID      `json:"to_user_id" db:"to_user_id"`
	Quantity     decimal.Decimal `json:"quantity" db:"quantity"`
	MovementType MovementType    `json:"movement_type" db:"movement_type"`
	Note         *string         `json:"note" db:"note"`
	CreatedBy    uuid.UUID       `json:"created_by" db:"created_by"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// MovementView is a movement enriched with display names for listings.
type MovementView struct {
	WarehouseMovement
	MaterialName string  `json:"material_name"`
	MaterialUnit string  `json:"material_unit"`
	FromUserName *string `json:"from_user_name,omitempty"`
	ToUserName   *string `json:"to_user_name,omitempty"`
}

// WarehouseAttachment records a file attached to a movement. The payload
// lives in object storage under StorageKey; the row keeps metadata only.
type WarehouseAttachment struct {
	ID          uuid.UUID `json:"id" db:"id"`
	MovementID  uuid.UUID `json:"movement_id" db:"movement_id"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	StorageKey  string    `json:"storage_key" db:"storage_key"`
	UploadedBy  uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"sitedesk/internal/caching"
	"sitedesk/internal/models"
	"sitedesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AttachmentUpload carries an optional file part of a movement request.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// MovementRequest describes one stock-affecting event to record.
type MovementRequest struct {
	MaterialID   uuid.UUID
	Quantity     decimal.Decimal
	MovementType models.MovementType
	FromUserID   *uuid.UUID
	ToUserID     *uuid.UUID
	Note         *string
	CreatedBy    uuid.UUID
	Attachment   *AttachmentUpload
}

// MovementResult is the outcome of a recorded movement. Warning is set when
// the movement implicitly reactivated a depleted material, so callers can
// explain the state change to the user.
type MovementResult struct {
	Movement *models.WarehouseMovement `json:"movement"`
	Material *models.Material          `json:"material"`
	Warning  string                    `json:"warning,omitempty"`
}

// AllocationReconciler is the slice of AllocationService the recorder needs.
type AllocationReconciler interface {
	ApplyDelta(ctx context.Context, allocs repositories.AllocationRepository, userID, materialID uuid.UUID, delta decimal.Decimal) error
}

type MovementService interface {
	Record(ctx context.Context, req *MovementRequest) (*MovementResult, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*models.MovementView, error)
	ListByMaterial(ctx context.Context, materialID uuid.UUID, limit, offset int) ([]*models.MovementView, error)
	GetAttachment(ctx context.Context, id uuid.UUID) (*models.WarehouseAttachment, error)
	AttachmentURL(ctx context.Context, attachment *models.WarehouseAttachment) (string, error)
}

type movementService struct {
	db          repositories.DB
	allocations AllocationReconciler
	attachments AttachmentStore
	cache       caching.CacheService
}

func NewMovementService(db repositories.DB, allocations AllocationReconciler, attachments AttachmentStore, cache caching.CacheService) MovementService {
	return &movementService{
		db:          db,
		allocations: allocations,
		attachments: attachments,
		cache:       cache,
	}
}

// Record validates and applies one movement: the movement row, the material
// stock change, the allocation delta, the visibility flip and the attachment
// metadata all commit in a single transaction, or none of them do. The
// material row is locked up front so concurrent movements against the same
// material serialize on the sufficiency check.
func (s *movementService) Record(ctx context.Context, req *MovementRequest) (*MovementResult, error) {
	if req.Quantity.Sign() <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive number", ErrInvalidInput)
	}
	if !req.MovementType.Valid() {
		return nil, fmt.Errorf("%w: unknown movement type %q", ErrInvalidInput, req.MovementType)
	}
	if req.MovementType == models.MovementMove && req.ToUserID == nil {
		return nil, fmt.Errorf("%w: to_user_id is required for an issue", ErrInvalidInput)
	}
	if req.MovementType == models.MovementReturn && req.FromUserID == nil {
		return nil, fmt.Errorf("%w: from_user_id is required for a return", ErrInvalidInput)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	materials := repositories.NewMaterialRepo(tx)
	movements := repositories.NewMovementRepo(tx)
	allocs := repositories.NewAllocationRepo(tx)

	material, err := materials.GetByIDForUpdate(ctx, req.MaterialID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: material %s", ErrNotFound, req.MaterialID)
		}
		return nil, err
	}

	switch req.MovementType {
	case models.MovementMove, models.MovementWriteoff:
		if material.CurrentQuantity.LessThan(req.Quantity) {
			return nil, &InsufficientStockError{Available: material.CurrentQuantity, Requested: req.Quantity}
		}
	case models.MovementReturn:
		// Locked read so the sufficiency check holds through the delta below
		// without leaning on the material lock alone.
		allocation, err := allocs.GetByUserAndMaterialForUpdate(ctx, *req.FromUserID, req.MaterialID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &InsufficientAllocationError{Available: decimal.Zero, Requested: req.Quantity}
			}
			return nil, err
		}
		if allocation.Quantity.LessThan(req.Quantity) {
			return nil, &InsufficientAllocationError{Available: allocation.Quantity, Requested: req.Quantity}
		}
	}

	movement := &models.WarehouseMovement{
		ID:           uuid.New(),
		MaterialID:   req.MaterialID,
		FromUserID:   req.FromUserID,
		ToUserID:     req.ToUserID,
		Quantity:     req.Quantity,
		MovementType: req.MovementType,
		Note:         req.Note,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    time.Now(),
	}
	if err := movements.Create(ctx, movement); err != nil {
		return nil, err
	}

	newQuantity := material.CurrentQuantity
	switch req.MovementType {
	case models.MovementAdd, models.MovementReturn:
		newQuantity = newQuantity.Add(req.Quantity)
	case models.MovementMove, models.MovementWriteoff:
		newQuantity = newQuantity.Sub(req.Quantity)
	}

	active, warning := nextVisibility(material.IsActive, newQuantity, req.MovementType, material.Name)
	if err := materials.UpdateStock(ctx, material.ID, newQuantity, active); err != nil {
		return nil, err
	}
	material.CurrentQuantity = newQuantity
	material.IsActive = active

	switch req.MovementType {
	case models.MovementMove:
		if err := s.allocations.ApplyDelta(ctx, allocs, *req.ToUserID, material.ID, req.Quantity); err != nil {
			return nil, err
		}
	case models.MovementReturn:
		if err := s.allocations.ApplyDelta(ctx, allocs, *req.FromUserID, material.ID, req.Quantity.Neg()); err != nil {
			return nil, err
		}
	}

	// The payload goes to object storage before commit; if anything after
	// the upload fails, the orphaned object is removed best-effort.
	var uploadedKey string
	if req.Attachment != nil {
		attachment := &models.WarehouseAttachment{
			ID:          uuid.New(),
			MovementID:  movement.ID,
			FileName:    req.Attachment.FileName,
			ContentType: req.Attachment.ContentType,
			SizeBytes:   req.Attachment.Size,
			UploadedBy:  req.CreatedBy,
		}
		attachment.StorageKey = fmt.Sprintf("movements/%s/%s", movement.ID.String(), attachment.ID.String())

		if err := s.attachments.Upload(ctx, attachment.StorageKey, req.Attachment.Reader, req.Attachment.Size, req.Attachment.ContentType); err != nil {
			return nil, fmt.Errorf("upload attachment: %w", err)
		}
		uploadedKey = attachment.StorageKey

		if err := movements.CreateAttachment(ctx, attachment); err != nil {
			s.removeUploaded(uploadedKey)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if uploadedKey != "" {
			s.removeUploaded(uploadedKey)
		}
		return nil, err
	}

	if cacheErr := s.cache.DeleteMaterial(ctx, material.ID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for material %s: %v", material.ID.String(), cacheErr)
	}
	for _, userID := range []*uuid.UUID{req.FromUserID, req.ToUserID} {
		if userID == nil {
			continue
		}
		if cacheErr := s.cache.DeleteUserAllocations(ctx, *userID); cacheErr != nil {
			log.Printf("Failed to invalidate allocations cache for user %s: %v", userID.String(), cacheErr)
		}
	}

	return &MovementResult{Movement: movement, Material: material, Warning: warning}, nil
}

func (s *movementService) removeUploaded(key string) {
	// Background context: cleanup should proceed even if the request died.
	if err := s.attachments.Remove(context.Background(), key); err != nil {
		log.Printf("Failed to remove orphaned attachment object %s: %v", key, err)
	}
}

// nextVisibility implements the auto-visibility rule: receipts and returns
// reactivate a depleted material (with a warning for the caller), issues and
// write-offs deactivate it once the quantity reaches zero. Deactivation is a
// listing hint only; it never blocks operations addressing the material by id.
func nextVisibility(wasActive bool, newQuantity decimal.Decimal, movementType models.MovementType, materialName string) (bool, string) {
	switch movementType {
	case models.MovementAdd, models.MovementReturn:
		if !wasActive && newQuantity.Sign() > 0 {
			return true, fmt.Sprintf("material %q was inactive and has been restored to the active list", materialName)
		}
		return true, ""
	case models.MovementMove, models.MovementWriteoff:
		if newQuantity.Sign() <= 0 {
			return false, ""
		}
		return wasActive, ""
	}
	return wasActive, ""
}

func (s *movementService) ListRecent(ctx context.Context, limit, offset int) ([]*models.MovementView, error) {
	return repositories.NewMovementRepo(s.db).ListRecent(ctx, limit, offset)
}

func (s *movementService) ListByMaterial(ctx context.Context, materialID uuid.UUID, limit, offset int) ([]*models.MovementView, error) {
	return repositories.NewMovementRepo(s.db).ListByMaterial(ctx, materialID, limit, offset)
}

func (s *movementService) GetAttachment(ctx context.Context, id uuid.UUID) (*models.WarehouseAttachment, error) {
	attachment, err := repositories.NewMovementRepo(s.db).GetAttachment(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: attachment %s", ErrNotFound, id)
		}
		return nil, err
	}
	return attachment, nil
}

func (s *movementService) AttachmentURL(ctx context.Context, attachment *models.WarehouseAttachment) (string, error) {
	return s.attachments.PresignedURL(ctx, attachment.StorageKey, 15*time.Minute)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sitedesk/internal/caching"
	"sitedesk/internal/models"
	"sitedesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AllocationService maintains the per-user material holdings table. The
// movement log is the source of truth; this table is a materialized view
// updated incrementally by ApplyDelta and rebuildable from scratch.
type AllocationService interface {
	ApplyDelta(ctx context.Context, allocs repositories.AllocationRepository, userID, materialID uuid.UUID, delta decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*models.AllocationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.AllocationView, error)
	Rebuild(ctx context.Context) error
}

type allocationService struct {
	db    repositories.DB
	cache caching.CacheService
}

func NewAllocationService(db repositories.DB, cache caching.CacheService) AllocationService {
	return &allocationService{db: db, cache: cache}
}

// ApplyDelta adjusts one (user, material) holding. The stored quantity is
// floored at zero and the row is deleted when it lands on exactly zero;
// discrepancies below zero are absorbed rather than surfaced. Runs against
// the repository it is handed, so the movement recorder can pass in its
// transaction-scoped one.
func (s *allocationService) ApplyDelta(ctx context.Context, allocs repositories.AllocationRepository, userID, materialID uuid.UUID, delta decimal.Decimal) error {
	existing, err := allocs.GetByUserAndMaterialForUpdate(ctx, userID, materialID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if delta.Sign() <= 0 {
			return nil // nothing held, nothing to take away
		}
		return allocs.Create(ctx, &models.UserMaterialAllocation{
			ID:         uuid.New(),
			UserID:     userID,
			MaterialID: materialID,
			Quantity:   delta,
		})
	}

	newQuantity := existing.Quantity.Add(delta)
	if newQuantity.Sign() <= 0 {
		return allocs.Delete(ctx, existing.ID)
	}
	return allocs.UpdateQuantity(ctx, existing.ID, newQuantity)
}

func (s *allocationService) List(ctx context.Context, limit, offset int) ([]*models.AllocationView, error) {
	return repositories.NewAllocationRepo(s.db).List(ctx, limit, offset)
}

func (s *allocationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.AllocationView, error) {
	if cached, err := s.cache.GetUserAllocations(ctx, userID); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("Cache error for user allocations %s: %v", userID.String(), err)
	}

	allocations, err := repositories.NewAllocationRepo(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cache.SetUserAllocations(ctx, userID, allocations, 2*time.Minute); cacheErr != nil {
		log.Printf("Failed to cache user allocations %s: %v", userID.String(), cacheErr)
	}
	return allocations, nil
}

// Rebuild derives the allocation table from the movement log: issues add to
// the receiving user, returns subtract from the sender, everything else is
// warehouse-only. Intended for recovery and testing; normal operation keeps
// the table current incrementally.
func (s *allocationService) Rebuild(ctx context.Context) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	allocs := repositories.NewAllocationRepo(tx)
	movements := repositories.NewMovementRepo(tx)

	if err := allocs.DeleteAll(ctx); err != nil {
		return err
	}

	history, err := movements.ListAllOrdered(ctx)
	if err != nil {
		return err
	}

	type holding struct {
		userID     uuid.UUID
		materialID uuid.UUID
	}
	totals := make(map[holding]decimal.Decimal)
	for _, m := range history {
		switch m.MovementType {
		case models.MovementMove:
			if m.ToUserID == nil {
				continue
			}
			key := holding{*m.ToUserID, m.MaterialID}
			totals[key] = totals[key].Add(m.Quantity)
		case models.MovementReturn:
			if m.FromUserID == nil {
				continue
			}
			key := holding{*m.FromUserID, m.MaterialID}
			totals[key] = totals[key].Sub(m.Quantity)
		}
	}

	for key, quantity := range totals {
		if quantity.Sign() <= 0 {
			continue
		}
		if err := allocs.Create(ctx, &models.UserMaterialAllocation{
			ID:         uuid.New(),
			UserID:     key.userID,
			MaterialID: key.materialID,
			Quantity:   quantity,
		}); err != nil {
			return fmt.Errorf("rebuild allocation for user %s material %s: %w", key.userID, key.materialID, err)
		}
	}

	return tx.Commit(ctx)
}

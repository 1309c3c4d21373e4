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
)

type MaterialService interface {
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Material, error)
	ListLowStock(ctx context.Context) ([]*models.Material, error)
}

type materialService struct {
	materials repositories.MaterialRepository
	cache     caching.CacheService
}

func NewMaterialService(materials repositories.MaterialRepository, cache caching.CacheService) MaterialService {
	return &materialService{materials: materials, cache: cache}
}

func (s *materialService) Create(ctx context.Context, material *models.Material) error {
	if material.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if material.Unit == "" {
		return fmt.Errorf("%w: unit is required", ErrInvalidInput)
	}
	if material.CurrentQuantity.Sign() < 0 {
		return fmt.Errorf("%w: current_quantity cannot be negative", ErrInvalidInput)
	}

	// Name must be unique among active materials only; depleted materials
	// keep their names without blocking new entries.
	existing, err := s.materials.GetActiveByName(ctx, material.Name)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: an active material named %q already exists", ErrInvalidInput, material.Name)
	}

	material.ID = uuid.New()
	material.IsActive = material.CurrentQuantity.Sign() > 0
	return s.materials.Create(ctx, material)
}

func (s *materialService) GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	if cached, err := s.cache.GetMaterial(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("Cache error for material %s: %v", id.String(), err)
	}

	material, err := s.materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: material %s", ErrNotFound, id)
		}
		return nil, err
	}

	if cacheErr := s.cache.SetMaterial(ctx, material, 5*time.Minute); cacheErr != nil {
		log.Printf("Failed to cache material %s: %v", id.String(), cacheErr)
	}
	return material, nil
}

func (s *materialService) Update(ctx context.Context, material *models.Material) error {
	if err := s.materials.Update(ctx, material); err != nil {
		return err
	}
	if cacheErr := s.cache.DeleteMaterial(ctx, material.ID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for material %s: %v", material.ID.String(), cacheErr)
	}
	return nil
}

func (s *materialService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.materials.Delete(ctx, id); err != nil {
		return err
	}
	if cacheErr := s.cache.DeleteMaterial(ctx, id); cacheErr != nil {
		log.Printf("Failed to invalidate cache for material %s: %v", id.String(), cacheErr)
	}
	return nil
}

func (s *materialService) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Material, error) {
	return s.materials.List(ctx, activeOnly, limit, offset)
}

func (s *materialService) ListLowStock(ctx context.Context) ([]*models.Material, error) {
	return s.materials.ListLowStock(ctx)
}

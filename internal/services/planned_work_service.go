package services

import (
	"context"
	"errors"
	"fmt"

	"sitedesk/internal/models"
	"sitedesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PlannedWorkService interface {
	Create(ctx context.Context, work *models.PlannedWork) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PlannedWork, error)
	Update(ctx context.Context, work *models.PlannedWork) error
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*models.PlannedWork, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByObject(ctx context.Context, objectID uuid.UUID, limit, offset int) ([]*models.PlannedWork, error)
}

type plannedWorkService struct {
	works   repositories.PlannedWorkRepository
	objects repositories.ObjectRepository
}

func NewPlannedWorkService(works repositories.PlannedWorkRepository, objects repositories.ObjectRepository) PlannedWorkService {
	return &plannedWorkService{works: works, objects: objects}
}

func (s *plannedWorkService) Create(ctx context.Context, work *models.PlannedWork) error {
	if work.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if _, err := s.objects.GetByID(ctx, work.ObjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: object %s", ErrNotFound, work.ObjectID)
		}
		return err
	}
	if work.Priority == "" {
		work.Priority = models.PriorityNormal
	}

	work.ID = uuid.New()
	work.Status = models.WorkPlanned
	return s.works.Create(ctx, work)
}

func (s *plannedWorkService) GetByID(ctx context.Context, id uuid.UUID) (*models.PlannedWork, error) {
	work, err := s.works.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: planned work %s", ErrNotFound, id)
		}
		return nil, err
	}
	return work, nil
}

func (s *plannedWorkService) Update(ctx context.Context, work *models.PlannedWork) error {
	return s.works.Update(ctx, work)
}

// ChangeStatus applies a user-driven transition. The overdue status is
// reserved for the scheduler sweep and rejected here.
func (s *plannedWorkService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*models.PlannedWork, error) {
	work, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(work.Status, status) {
		return nil, fmt.Errorf("%w: cannot change status from %q to %q", ErrInvalidInput, work.Status, status)
	}
	if err := s.works.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	work.Status = status
	return work, nil
}

func (s *plannedWorkService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.works.Delete(ctx, id)
}

func (s *plannedWorkService) ListByObject(ctx context.Context, objectID uuid.UUID, limit, offset int) ([]*models.PlannedWork, error) {
	return s.works.ListByObject(ctx, objectID, limit, offset)
}

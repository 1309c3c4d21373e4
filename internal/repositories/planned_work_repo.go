package repositories

import (
	"context"
	"time"

	"sitedesk/internal/models"

	"github.com/google/uuid"
)

// WorkCounts holds per-object work item counts as of a reporting date.
type WorkCounts struct {
	Planned   int
	Completed int
	Overdue   int
}

type PlannedWorkRepository interface {
	Create(ctx context.Context, work *models.PlannedWork) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PlannedWork, error)
	Update(ctx context.Context, work *models.PlannedWork) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByObject(ctx context.Context, objectID uuid.UUID, limit, offset int) ([]*models.PlannedWork, error)
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
	CountsAsOf(ctx context.Context, objectID uuid.UUID, asOf time.Time) (WorkCounts, error)
}

type plannedWorkRepo struct {
	db Querier
}

func NewPlannedWorkRepo(db Querier) PlannedWorkRepository {
	return &plannedWorkRepo{db: db}
}

func (r *plannedWorkRepo) Create(ctx context.Context, work *models.PlannedWork) error {
	query := `
		INSERT INTO planned_works (id, object_id, work_type, title, description, planned_date, priority, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, work.ID, work.ObjectID, work.WorkType, work.Title, work.Description, work.PlannedDate, work.Priority, work.Status, work.CreatedBy)
	return err
}

func (r *plannedWorkRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PlannedWork, error) {
	w := &models.PlannedWork{}
	query := `
		SELECT id, object_id, work_type, title, description, planned_date, priority, status, created_by, created_at, updated_at
		FROM planned_works
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&w.ID, &w.ObjectID, &w.WorkType, &w.Title, &w.Description, &w.PlannedDate, &w.Priority, &w.Status, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *plannedWorkRepo) Update(ctx context.Context, work *models.PlannedWork) error {
	query := `
		UPDATE planned_works
		SET work_type = $1, title = $2, description = $3, planned_date = $4, priority = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, work.WorkType, work.Title, work.Description, work.PlannedDate, work.Priority, work.ID)
	return err
}

func (r *plannedWorkRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE planned_works SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *plannedWorkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM planned_works WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *plannedWorkRepo) ListByObject(ctx context.Context, objectID uuid.UUID, limit, offset int) ([]*models.PlannedWork, error) {
	query := `
		SELECT id, object_id, work_type, title, description, planned_date, priority, status, created_by, created_at, updated_at
		FROM planned_works
		WHERE object_id = $1
		ORDER BY planned_date NULLS LAST, created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, objectID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var works []*models.PlannedWork
	for rows.Next() {
		w := &models.PlannedWork{}
		if err := rows.Scan(&w.ID, &w.ObjectID, &w.WorkType, &w.Title, &w.Description, &w.PlannedDate, &w.Priority, &w.Status, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		works = append(works, w)
	}
	return works, rows.Err()
}

// MarkOverdue flips every planned/in_progress item whose date has passed to
// overdue. A single idempotent statement: rerunning it touches no rows that
// are already overdue, so updated_at stays put on those.
func (r *plannedWorkRepo) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE planned_works
		SET status = 'overdue', updated_at = NOW()
		WHERE planned_date IS NOT NULL AND planned_date < $1 AND status IN ('planned', 'in_progress')
	`
	tag, err := r.db.Exec(ctx, query, today)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountsAsOf computes planned/completed/overdue counts for one object as of
// the given date, considering only items that existed by then.
func (r *plannedWorkRepo) CountsAsOf(ctx context.Context, objectID uuid.UUID, asOf time.Time) (WorkCounts, error) {
	var counts WorkCounts
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('planned', 'in_progress')),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE planned_date IS NOT NULL AND planned_date < $2 AND status != 'completed')
		FROM planned_works
		WHERE object_id = $1 AND created_at::date <= $2
	`
	err := r.db.QueryRow(ctx, query, objectID, asOf).Scan(&counts.Planned, &counts.Completed, &counts.Overdue)
	if err != nil {
		return WorkCounts{}, err
	}
	return counts, nil
}

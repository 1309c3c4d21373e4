package repositories

import (
	"context"

	"sitedesk/internal/models"

	"github.com/google/uuid"
)

type ObjectRepository interface {
	Create(ctx context.Context, object *models.SiteObject) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SiteObject, error)
	Update(ctx context.Context, object *models.SiteObject) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.SiteObject, error)
	ListActive(ctx context.Context) ([]*models.SiteObject, error)

	CreateElement(ctx context.Context, element *models.SiteElement) error
	GetElementByID(ctx context.Context, id uuid.UUID) (*models.SiteElement, error)
	UpdateElement(ctx context.Context, element *models.SiteElement) error
	DeleteElement(ctx context.Context, id uuid.UUID) error
	ListElements(ctx context.Context, objectID uuid.UUID) ([]*models.SiteElement, error)
}

type objectRepo struct {
	db Querier
}

func NewObjectRepo(db Querier) ObjectRepository {
	return &objectRepo{db: db}
}

func (r *objectRepo) Create(ctx context.Context, object *models.SiteObject) error {
	query := `
		INSERT INTO site_objects (id, name, address, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, object.ID, object.Name, object.Address, object.Status, object.CreatedBy)
	return err
}

func (r *objectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SiteObject, error) {
	o := &models.SiteObject{}
	query := `
		SELECT id, name, address, status, created_by, created_at, updated_at
		FROM site_objects
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &o.Address, &o.Status, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *objectRepo) Update(ctx context.Context, object *models.SiteObject) error {
	query := `
		UPDATE site_objects
		SET name = $1, address = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, object.Name, object.Address, object.Status, object.ID)
	return err
}

func (r *objectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM site_objects WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *objectRepo) list(ctx context.Context, query string, args ...any) ([]*models.SiteObject, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objects []*models.SiteObject
	for rows.Next() {
		o := &models.SiteObject{}
		if err := rows.Scan(&o.ID, &o.Name, &o.Address, &o.Status, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		objects = append(objects, o)
	}
	return objects, rows.Err()
}

func (r *objectRepo) List(ctx context.Context, limit, offset int) ([]*models.SiteObject, error) {
	query := `
		SELECT id, name, address, status, created_by, created_at, updated_at
		FROM site_objects
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

// ListActive returns every non-finished object. The report backfill iterates
// this set, so it deliberately has no pagination.
func (r *objectRepo) ListActive(ctx context.Context) ([]*models.SiteObject, error) {
	query := `
		SELECT id, name, address, status, created_by, created_at, updated_at
		FROM site_objects
		WHERE status != 'finished'
		ORDER BY name
	`
	return r.list(ctx, query)
}

func (r *objectRepo) CreateElement(ctx context.Context, element *models.SiteElement) error {
	query := `
		INSERT INTO site_elements (id, object_id, element_type, title, planned_count, executed_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, element.ID, element.ObjectID, element.ElementType, element.Title, element.PlannedCount, element.ExecutedCount)
	return err
}

func (r *objectRepo) GetElementByID(ctx context.Context, id uuid.UUID) (*models.SiteElement, error) {
	e := &models.SiteElement{}
	query := `
		SELECT id, object_id, element_type, title, planned_count, executed_count, created_at, updated_at
		FROM site_elements
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.ObjectID, &e.ElementType, &e.Title, &e.PlannedCount, &e.ExecutedCount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *objectRepo) UpdateElement(ctx context.Context, element *models.SiteElement) error {
	query := `
		UPDATE site_elements
		SET element_type = $1, title = $2, planned_count = $3, executed_count = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, element.ElementType, element.Title, element.PlannedCount, element.ExecutedCount, element.ID)
	return err
}

func (r *objectRepo) DeleteElement(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM site_elements WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *objectRepo) ListElements(ctx context.Context, objectID uuid.UUID) ([]*models.SiteElement, error) {
	query := `
		SELECT id, object_id, element_type, title, planned_count, executed_count, created_at, updated_at
		FROM site_elements
		WHERE object_id = $1
		ORDER BY title
	`
	rows, err := r.db.Query(ctx, query, objectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var elements []*models.SiteElement
	for rows.Next() {
		e := &models.SiteElement{}
		if err := rows.Scan(&e.ID, &e.ObjectID, &e.ElementType, &e.Title, &e.PlannedCount, &e.ExecutedCount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		elements = append(elements, e)
	}
	return elements, rows.Err()
}

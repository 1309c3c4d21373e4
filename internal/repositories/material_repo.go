package repositories

import (
	"context"

	"sitedesk/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Material, error)
	GetActiveByName(ctx context.Context, name string) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	UpdateStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal, isActive bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Material, error)
	ListLowStock(ctx context.Context) ([]*models.Material, error)
}

type materialRepo struct {
	db Querier
}

func NewMaterialRepo(db Querier) MaterialRepository {
	return &materialRepo{db: db}
}

const materialColumns = `id, name, unit, current_quantity, min_quantity, price_per_unit, supplier, is_active, created_at, updated_at`

func scanMaterial(row interface{ Scan(dest ...any) error }) (*models.Material, error) {
	m := &models.Material{}
	err := row.Scan(&m.ID, &m.Name, &m.Unit, &m.CurrentQuantity, &m.MinQuantity, &m.PricePerUnit, &m.Supplier, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *materialRepo) Create(ctx context.Context, material *models.Material) error {
	query := `
		INSERT INTO materials (id, name, unit, current_quantity, min_quantity, price_per_unit, supplier, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, material.ID, material.Name, material.Unit, material.CurrentQuantity, material.MinQuantity, material.PricePerUnit, material.Supplier, material.IsActive)
	return err
}

func (r *materialRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	return scanMaterial(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate locks the material row for the duration of the enclosing
// transaction, serializing concurrent stock checks against the same material.
func (r *materialRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 FOR UPDATE`
	return scanMaterial(r.db.QueryRow(ctx, query, id))
}

func (r *materialRepo) GetActiveByName(ctx context.Context, name string) (*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE name = $1 AND is_active = true`
	return scanMaterial(r.db.QueryRow(ctx, query, name))
}

func (r *materialRepo) Update(ctx context.Context, material *models.Material) error {
	query := `
		UPDATE materials
		SET name = $1, unit = $2, min_quantity = $3, price_per_unit = $4, supplier = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, material.Name, material.Unit, material.MinQuantity, material.PricePerUnit, material.Supplier, material.IsActive, material.ID)
	return err
}

func (r *materialRepo) UpdateStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal, isActive bool) error {
	query := `
		UPDATE materials
		SET current_quantity = $1, is_active = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, quantity, isActive, id)
	return err
}

func (r *materialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM materials WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *materialRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE ($1 = false OR is_active = true) ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []*models.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (r *materialRepo) ListLowStock(ctx context.Context) ([]*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE is_active = true AND current_quantity <= min_quantity ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []*models.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

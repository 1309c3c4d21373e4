package repositories

import (
	"context"

	"sitedesk/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AllocationRepository interface {
	Create(ctx context.Context, allocation *models.UserMaterialAllocation) error
	GetByUserAndMaterial(ctx context.Context, userID, materialID uuid.UUID) (*models.UserMaterialAllocation, error)
	GetByUserAndMaterialForUpdate(ctx context.Context, userID, materialID uuid.UUID) (*models.UserMaterialAllocation, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context, limit, offset int) ([]*models.AllocationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.AllocationView, error)
}

type allocationRepo struct {
	db Querier
}

func NewAllocationRepo(db Querier) AllocationRepository {
	return &allocationRepo{db: db}
}

func (r *allocationRepo) Create(ctx context.Context, allocation *models.UserMaterialAllocation) error {
	query := `
		INSERT INTO user_material_allocations (id, user_id, material_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, allocation.ID, allocation.UserID, allocation.MaterialID, allocation.Quantity)
	return err
}

func (r *allocationRepo) getByUserAndMaterial(ctx context.Context, userID, materialID uuid.UUID, forUpdate bool) (*models.UserMaterialAllocation, error) {
	a := &models.UserMaterialAllocation{}
	query := `
		SELECT id, user_id, material_id, quantity, updated_at
		FROM user_material_allocations
		WHERE user_id = $1 AND material_id = $2
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	err := r.db.QueryRow(ctx, query, userID, materialID).Scan(&a.ID, &a.UserID, &a.MaterialID, &a.Quantity, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *allocationRepo) GetByUserAndMaterial(ctx context.Context, userID, materialID uuid.UUID) (*models.UserMaterialAllocation, error) {
	return r.getByUserAndMaterial(ctx, userID, materialID, false)
}

func (r *allocationRepo) GetByUserAndMaterialForUpdate(ctx context.Context, userID, materialID uuid.UUID) (*models.UserMaterialAllocation, error) {
	return r.getByUserAndMaterial(ctx, userID, materialID, true)
}

func (r *allocationRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	query := `
		UPDATE user_material_allocations
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, quantity, id)
	return err
}

func (r *allocationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM user_material_allocations WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// DeleteAll clears the allocation table. Only the rebuild routine uses it,
// inside the same transaction that replays the movement log.
func (r *allocationRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM user_material_allocations`)
	return err
}

const allocationViewQuery = `
	SELECT a.id, a.user_id, a.material_id, a.quantity, a.updated_at, u.full_name, m.name, m.unit
	FROM user_material_allocations a
	JOIN users u ON u.id = a.user_id
	JOIN materials m ON m.id = a.material_id
`

func (r *allocationRepo) scanViews(ctx context.Context, query string, args ...any) ([]*models.AllocationView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*models.AllocationView
	for rows.Next() {
		v := &models.AllocationView{}
		if err := rows.Scan(&v.ID, &v.UserID, &v.MaterialID, &v.Quantity, &v.UpdatedAt, &v.UserName, &v.MaterialName, &v.MaterialUnit); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *allocationRepo) List(ctx context.Context, limit, offset int) ([]*models.AllocationView, error) {
	query := allocationViewQuery + ` ORDER BY u.full_name, m.name LIMIT $1 OFFSET $2`
	return r.scanViews(ctx, query, limit, offset)
}

func (r *allocationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.AllocationView, error) {
	query := allocationViewQuery + ` WHERE a.user_id = $1 ORDER BY m.name`
	return r.scanViews(ctx, query, userID)
}

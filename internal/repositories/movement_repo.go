package repositories

import (
	"context"

	"sitedesk/internal/models"

	"github.com/google/uuid"
)

type MovementRepository interface {
	Create(ctx context.Context, movement *models.WarehouseMovement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WarehouseMovement, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*models.MovementView, error)
	ListByMaterial(ctx context.Context, materialID uuid.UUID, limit, offset int) ([]*models.MovementView, error)
	ListAllOrdered(ctx context.Context) ([]*models.WarehouseMovement, error)
	CreateAttachment(ctx context.Context, attachment *models.WarehouseAttachment) error
	GetAttachment(ctx context.Context, id uuid.UUID) (*models.WarehouseAttachment, error)
	ListAttachments(ctx context.Context, movementID uuid.UUID) ([]*models.WarehouseAttachment, error)
}

type movementRepo struct {
	db Querier
}

func NewMovementRepo(db Querier) MovementRepository {
	return &movementRepo{db: db}
}

// Create appends one movement to the event log. Movements are immutable:
// there is no Update, corrections go through compensating movements.
func (r *movementRepo) Create(ctx context.Context, movement *models.WarehouseMovement) error {
	query := `
		INSERT INTO warehouse_movements (id, material_id, from_user_id, to_user_id, quantity, movement_type, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, movement.ID, movement.MaterialID, movement.FromUserID, movement.ToUserID, movement.Quantity, movement.MovementType, movement.Note, movement.CreatedBy)
	return err
}

func (r *movementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.WarehouseMovement, error) {
	m := &models.WarehouseMovement{}
	query := `
		SELECT id, material_id, from_user_id, to_user_id, quantity, movement_type, note, created_by, created_at
		FROM warehouse_movements
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.MaterialID, &m.FromUserID, &m.ToUserID, &m.Quantity, &m.MovementType, &m.Note, &m.CreatedBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

const movementViewQuery = `
	SELECT wm.id, wm.material_id, wm.from_user_id, wm.to_user_id, wm.quantity, wm.movement_type, wm.note, wm.created_by, wm.created_at,
	       m.name, m.unit, fu.full_name, tu.full_name
	FROM warehouse_movements wm
	JOIN materials m ON m.id = wm.material_id
	LEFT JOIN users fu ON fu.id = wm.from_user_id
	LEFT JOIN users tu ON tu.id = wm.to_user_id
`

func (r *movementRepo) scanViews(ctx context.Context, query string, args ...any) ([]*models.MovementView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*models.MovementView
	for rows.Next() {
		v := &models.MovementView{}
		if err := rows.Scan(&v.ID, &v.MaterialID, &v.FromUserID, &v.ToUserID, &v.Quantity, &v.MovementType, &v.Note, &v.CreatedBy, &v.CreatedAt,
			&v.MaterialName, &v.MaterialUnit, &v.FromUserName, &v.ToUserName); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *movementRepo) ListRecent(ctx context.Context, limit, offset int) ([]*models.MovementView, error) {
	query := movementViewQuery + ` ORDER BY wm.created_at DESC LIMIT $1 OFFSET $2`
	return r.scanViews(ctx, query, limit, offset)
}

func (r *movementRepo) ListByMaterial(ctx context.Context, materialID uuid.UUID, limit, offset int) ([]*models.MovementView, error) {
	query := movementViewQuery + ` WHERE wm.material_id = $1 ORDER BY wm.created_at DESC LIMIT $2 OFFSET $3`
	return r.scanViews(ctx, query, materialID, limit, offset)
}

// ListAllOrdered returns the full movement log in insertion order. Used by
// the allocation rebuild routine, which replays history from the beginning.
func (r *movementRepo) ListAllOrdered(ctx context.Context) ([]*models.WarehouseMovement, error) {
	query := `
		SELECT id, material_id, from_user_id, to_user_id, quantity, movement_type, note, created_by, created_at
		FROM warehouse_movements
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*models.WarehouseMovement
	for rows.Next() {
		m := &models.WarehouseMovement{}
		if err := rows.Scan(&m.ID, &m.MaterialID, &m.FromUserID, &m.ToUserID, &m.Quantity, &m.MovementType, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (r *movementRepo) CreateAttachment(ctx context.Context, attachment *models.WarehouseAttachment) error {
	query := `
		INSERT INTO warehouse_attachments (id, movement_id, file_name, content_type, size_bytes, storage_key, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, attachment.ID, attachment.MovementID, attachment.FileName, attachment.ContentType, attachment.SizeBytes, attachment.StorageKey, attachment.UploadedBy)
	return err
}

func (r *movementRepo) GetAttachment(ctx context.Context, id uuid.UUID) (*models.WarehouseAttachment, error) {
	a := &models.WarehouseAttachment{}
	query := `
		SELECT id, movement_id, file_name, content_type, size_bytes, storage_key, uploaded_by, created_at
		FROM warehouse_attachments
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.MovementID, &a.FileName, &a.ContentType, &a.SizeBytes, &a.StorageKey, &a.UploadedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *movementRepo) ListAttachments(ctx context.Context, movementID uuid.UUID) ([]*models.WarehouseAttachment, error) {
	query := `
		SELECT id, movement_id, file_name, content_type, size_bytes, storage_key, uploaded_by, created_at
		FROM warehouse_attachments
		WHERE movement_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, movementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []*models.WarehouseAttachment
	for rows.Next() {
		a := &models.WarehouseAttachment{}
		if err := rows.Scan(&a.ID, &a.MovementID, &a.FileName, &a.ContentType, &a.SizeBytes, &a.StorageKey, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

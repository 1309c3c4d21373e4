package repositories

import (
	"context"
	"fmt"

	"sitedesk/internal/models"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogRepo struct {
	db Querier
}

func NewAuditLogRepo(db Querier) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, method, path, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.UserID, entry.Method, entry.Path, entry.Status)
	return err
}

func (r *auditLogRepo) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	query := `
		SELECT id, user_id, method, path, status, created_at
		FROM audit_logs
		WHERE 1=1
	`
	args := []any{}
	argn := 0

	if filters.UserID != nil {
		argn++
		query += fmt.Sprintf(` AND user_id = $%d`, argn)
		args = append(args, *filters.UserID)
	}
	if filters.Method != nil {
		argn++
		query += fmt.Sprintf(` AND method = $%d`, argn)
		args = append(args, *filters.Method)
	}
	if filters.StartDate != nil {
		argn++
		query += fmt.Sprintf(` AND created_at >= $%d`, argn)
		args = append(args, *filters.StartDate)
	}
	if filters.EndDate != nil {
		argn++
		query += fmt.Sprintf(` AND created_at <= $%d`, argn)
		args = append(args, *filters.EndDate)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argn+1, argn+2)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		e := &models.AuditLog{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Method, &e.Path, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

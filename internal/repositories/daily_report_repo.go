package repositories

import (
	"context"
	"time"

	"sitedesk/internal/models"

	"github.com/google/uuid"
)

type DailyReportRepository interface {
	Create(ctx context.Context, report *models.DailyReport) error
	Exists(ctx context.Context, objectID uuid.UUID, date time.Time) (bool, error)
	EarliestDate(ctx context.Context) (*time.Time, error)
	List(ctx context.Context, limit, offset int) ([]*models.DailyReport, error)
	ListByObject(ctx context.Context, objectID uuid.UUID, limit, offset int) ([]*models.DailyReport, error)
}

type dailyReportRepo struct {
	db Querier
}

func NewDailyReportRepo(db Querier) DailyReportRepository {
	return &dailyReportRepo{db: db}
}

// Create inserts one report. The (object_id, report_date) unique constraint
// is the backstop; callers are expected to check Exists first.
func (r *dailyReportRepo) Create(ctx context.Context, report *models.DailyReport) error {
	query := `
		INSERT INTO daily_reports (id, object_id, report_date, planned_count, completed_count, overdue_count, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, report.ID, report.ObjectID, report.ReportDate, report.PlannedCount, report.CompletedCount, report.OverdueCount, report.Status)
	return err
}

func (r *dailyReportRepo) Exists(ctx context.Context, objectID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM daily_reports WHERE object_id = $1 AND report_date = $2)`
	err := r.db.QueryRow(ctx, query, objectID, date).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// EarliestDate returns the oldest report date, or nil when no reports exist.
// MIN over an empty table yields one row holding SQL NULL, so the scan target
// must itself be a pointer.
func (r *dailyReportRepo) EarliestDate(ctx context.Context) (*time.Time, error) {
	var date *time.Time
	query := `SELECT MIN(report_date) FROM daily_reports`
	if err := r.db.QueryRow(ctx, query).Scan(&date); err != nil {
		return nil, err
	}
	return date, nil
}

func (r *dailyReportRepo) list(ctx context.Context, query string, args ...any) ([]*models.DailyReport, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*models.DailyReport
	for rows.Next() {
		rep := &models.DailyReport{}
		if err := rows.Scan(&rep.ID, &rep.ObjectID, &rep.ReportDate, &rep.PlannedCount, &rep.CompletedCount, &rep.OverdueCount, &rep.Status, &rep.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *dailyReportRepo) List(ctx context.Context, limit, offset int) ([]*models.DailyReport, error) {
	query := `
		SELECT id, object_id, report_date, planned_count, completed_count, overdue_count, status, created_at
		FROM daily_reports
		ORDER BY report_date DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

func (r *dailyReportRepo) ListByObject(ctx context.Context, objectID uuid.UUID, limit, offset int) ([]*models.DailyReport, error) {
	query := `
		SELECT id, object_id, report_date, planned_count, completed_count, overdue_count, status, created_at
		FROM daily_reports
		WHERE object_id = $1
		ORDER BY report_date DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, objectID, limit, offset)
}

package jobs

import (
	"context"
	"log"
	"time"

	"sitedesk/internal/models"
	"sitedesk/internal/repositories"

	"github.com/google/uuid"
)

const (
	// Without a cursor the backfill never reaches further back than this,
	// even when older reports exist.
	maxHistoryDays = 14
	// Range used when there is neither a cursor nor any existing report.
	fallbackDays = 7
	// The lightweight startup pass covers today and yesterday only.
	startupWindowDays = 2

	cursorDateLayout = "2006-01-02"
)

// ReportBackfillService generates one DailyReport per active object per day
// for every day since the last processed date. Existence checks make the run
// idempotent; per-object failures are logged and skipped so one broken
// object cannot stall the rest.
type ReportBackfillService struct {
	objects  repositories.ObjectRepository
	works    repositories.PlannedWorkRepository
	reports  repositories.DailyReportRepository
	settings repositories.SettingRepository
	now      func() time.Time
}

func NewReportBackfillService(
	objects repositories.ObjectRepository,
	works repositories.PlannedWorkRepository,
	reports repositories.DailyReportRepository,
	settings repositories.SettingRepository,
) *ReportBackfillService {
	return &ReportBackfillService{
		objects:  objects,
		works:    works,
		reports:  reports,
		settings: settings,
		now:      time.Now,
	}
}

// Run performs a full-range backfill and, on success, advances the persisted
// cursor to today.
func (s *ReportBackfillService) Run(ctx context.Context) error {
	today := dateOnly(s.now())

	start, err := s.resolveStartDate(ctx, today)
	if err != nil {
		return err
	}
	if start.After(today) {
		log.Printf("Report backfill: nothing to do, cursor already at %s", today.Format(cursorDateLayout))
		return nil
	}

	created, err := s.backfillRange(ctx, start, today)
	if err != nil {
		return err
	}
	log.Printf("Report backfill created %d reports for %s..%s", created, start.Format(cursorDateLayout), today.Format(cursorDateLayout))

	return s.settings.Set(ctx, models.SettingReportsCursor, today.Format(cursorDateLayout))
}

// RunStartup is the lightweight variant used at process start: it covers
// only the last two days and never advances the cursor, so startup does not
// block on a potentially large historical backfill.
func (s *ReportBackfillService) RunStartup(ctx context.Context) error {
	today := dateOnly(s.now())
	start := today.AddDate(0, 0, -(startupWindowDays - 1))

	created, err := s.backfillRange(ctx, start, today)
	if err != nil {
		return err
	}
	if created > 0 {
		log.Printf("Startup report backfill created %d reports", created)
	}
	return nil
}

// resolveStartDate picks the first day to process: the day after the
// persisted cursor when one exists, otherwise the earliest existing report
// date clamped to maxHistoryDays back, otherwise fallbackDays back.
func (s *ReportBackfillService) resolveStartDate(ctx context.Context, today time.Time) (time.Time, error) {
	cursor, err := s.settings.Get(ctx, models.SettingReportsCursor)
	if err != nil {
		return time.Time{}, err
	}
	if cursor != "" {
		last, parseErr := time.ParseInLocation(cursorDateLayout, cursor, time.UTC)
		if parseErr == nil {
			return last.AddDate(0, 0, 1), nil
		}
		log.Printf("Ignoring malformed report cursor %q: %v", cursor, parseErr)
	}

	earliest, err := s.reports.EarliestDate(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if earliest != nil {
		start := dateOnly(*earliest)
		clamp := today.AddDate(0, 0, -maxHistoryDays)
		if start.Before(clamp) {
			start = clamp
		}
		return start, nil
	}

	return today.AddDate(0, 0, -fallbackDays), nil
}

func (s *ReportBackfillService) backfillRange(ctx context.Context, start, end time.Time) (int, error) {
	objects, err := s.objects.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		for _, object := range objects {
			inserted, err := s.backfillObject(ctx, object.ID, date)
			if err != nil {
				log.Printf("Failed to backfill report for object %s on %s: %v", object.ID.String(), date.Format(cursorDateLayout), err)
				continue
			}
			if inserted {
				created++
			}
		}
	}
	return created, nil
}

func (s *ReportBackfillService) backfillObject(ctx context.Context, objectID uuid.UUID, date time.Time) (bool, error) {
	exists, err := s.reports.Exists(ctx, objectID, date)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	counts, err := s.works.CountsAsOf(ctx, objectID, date)
	if err != nil {
		return false, err
	}

	report := &models.DailyReport{
		ID:             uuid.New(),
		ObjectID:       objectID,
		ReportDate:     date,
		PlannedCount:   counts.Planned,
		CompletedCount: counts.Completed,
		OverdueCount:   counts.Overdue,
		Status:         models.ReportDraft,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return false, err
	}
	return true, nil
}

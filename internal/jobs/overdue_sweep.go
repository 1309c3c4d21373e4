package jobs

import (
	"context"
	"log"
	"time"

	"sitedesk/internal/repositories"
)

// OverdueSweepService flips planned works whose date has passed into the
// overdue status. The sweep is a single idempotent statement; rerunning it
// on already-overdue items is a no-op.
type OverdueSweepService struct {
	works repositories.PlannedWorkRepository
	now   func() time.Time
}

func NewOverdueSweepService(works repositories.PlannedWorkRepository) *OverdueSweepService {
	return &OverdueSweepService{works: works, now: time.Now}
}

func (s *OverdueSweepService) Run(ctx context.Context) error {
	today := dateOnly(s.now())

	count, err := s.works.MarkOverdue(ctx, today)
	if err != nil {
		log.Printf("Overdue sweep failed: %v", err)
		return err
	}
	if count > 0 {
		log.Printf("Overdue sweep marked %d planned works overdue", count)
	}
	return nil
}

// dateOnly truncates a timestamp to its calendar day in UTC. Report dates
// and the scheduler cursor are day-granular.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

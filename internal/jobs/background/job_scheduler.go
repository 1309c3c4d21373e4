package background

import (
	"context"
	"log"
	"sync"
	"time"

	"sitedesk/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler owns the recurring timers: the overdue-status sweep and the
// daily-report backfill run independently of each other, and a failure in
// one tick never affects the other. State lives in the store, not here, so
// restarts are safe. Single-instance assumption: no distributed locking is
// in place, run at most one process with the scheduler enabled.
type JobScheduler struct {
	scheduler gocron.Scheduler
	sweep     *jobs.OverdueSweepService
	backfill  *jobs.ReportBackfillService

	sweepInterval    time.Duration
	backfillInterval time.Duration

	registered map[string]gocron.Job
	mu         sync.RWMutex
}

func NewJobScheduler(sweep *jobs.OverdueSweepService, backfill *jobs.ReportBackfillService, sweepInterval, backfillInterval time.Duration) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:        scheduler,
		sweep:            sweep,
		backfill:         backfill,
		sweepInterval:    sweepInterval,
		backfillInterval: backfillInterval,
		registered:       make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) registerJobs() {
	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.sweepInterval),
		gocron.NewTask(js.runSweep),
		gocron.WithName("overdue-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create overdue sweep job: %v", err)
	} else {
		js.registered["overdue-sweep"] = sweepJob
	}

	backfillJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.backfillInterval),
		gocron.NewTask(js.runBackfill),
		gocron.WithName("report-backfill"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create report backfill job: %v", err)
	} else {
		js.registered["report-backfill"] = backfillJob
	}

	log.Printf("Registered %d background jobs", len(js.registered))
}

// Start launches the timers and kicks off the one-shot lightweight startup
// pass: an immediate sweep plus a two-day backfill that leaves the cursor
// untouched.
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")

	go func() {
		ctx := context.Background()
		if err := js.sweep.Run(ctx); err != nil {
			log.Printf("Startup overdue sweep failed: %v", err)
		}
		if err := js.backfill.RunStartup(ctx); err != nil {
			log.Printf("Startup report backfill failed: %v", err)
		}
	}()

	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) runSweep() {
	if err := js.sweep.Run(context.Background()); err != nil {
		log.Printf("Scheduled overdue sweep failed: %v", err)
	}
}

func (js *JobScheduler) runBackfill() {
	if err := js.backfill.Run(context.Background()); err != nil {
		log.Printf("Scheduled report backfill failed: %v", err)
	}
}

// GetJobStatus returns information about the scheduled jobs.
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.registered))
	for name := range js.registered {
		names = append(names, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.registered),
		"jobs":       names,
	}
}

package handlers

import (
	"net/http"

	"sitedesk/internal/jobs"
	"sitedesk/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobHandlers exposes manual triggers and status for the background jobs.
type JobHandlers struct {
	sweep     *jobs.OverdueSweepService
	backfill  *jobs.ReportBackfillService
	scheduler *background.JobScheduler
}

func NewJobHandlers(sweep *jobs.OverdueSweepService, backfill *jobs.ReportBackfillService, scheduler *background.JobScheduler) *JobHandlers {
	return &JobHandlers{
		sweep:     sweep,
		backfill:  backfill,
		scheduler: scheduler,
	}
}

// TriggerOverdueSweep handles POST /v1/jobs/overdue-sweep
func (h *JobHandlers) TriggerOverdueSweep(c echo.Context) error {
	if err := h.sweep.Run(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Overdue sweep failed")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Overdue sweep completed",
	})
}

// TriggerReportBackfill handles POST /v1/jobs/report-backfill
func (h *JobHandlers) TriggerReportBackfill(c echo.Context) error {
	if err := h.backfill.Run(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Report backfill failed")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Report backfill completed",
	})
}

// GetJobStatus handles GET /v1/jobs/status
func (h *JobHandlers) GetJobStatus(c echo.Context) error {
	if h.scheduler == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"scheduler": "disabled",
		})
	}
	return c.JSON(http.StatusOK, h.scheduler.GetJobStatus())
}

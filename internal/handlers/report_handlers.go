package handlers

import (
	"net/http"

	"sitedesk/internal/common"
	"sitedesk/internal/models"
	"sitedesk/internal/repositories"

	"github.com/labstack/echo/v4"
)

// ReportHandlers handles HTTP requests for daily reports. Reports are
// generated by the backfill job; this surface is read-only.
type ReportHandlers struct {
	reportRepo repositories.DailyReportRepository
}

func NewReportHandlers(reportRepo repositories.DailyReportRepository) *ReportHandlers {
	return &ReportHandlers{reportRepo: reportRepo}
}

// ListReports handles GET /v1/reports
func (h *ReportHandlers) ListReports(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	var reports []*models.DailyReport
	var err error
	if objectParam := c.QueryParam("object_id"); objectParam != "" {
		objectID, vErr := common.ValidateUUID(objectParam, "object_id")
		if vErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
		}
		reports, err = h.reportRepo.ListByObject(ctx, objectID, limit, offset)
	} else {
		reports, err = h.reportRepo.List(ctx, limit, offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"reports": reports,
	})
}

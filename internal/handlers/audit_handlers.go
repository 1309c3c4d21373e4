package handlers

import (
	"net/http"

	"sitedesk/internal/common"
	"sitedesk/internal/models"
	"sitedesk/internal/repositories"

	"github.com/labstack/echo/v4"
)

// AuditHandlers handles HTTP requests for the audit trail
type AuditHandlers struct {
	auditRepo repositories.AuditLogRepository
}

func NewAuditHandlers(auditRepo repositories.AuditLogRepository) *AuditHandlers {
	return &AuditHandlers{auditRepo: auditRepo}
}

// ListAuditLogs handles GET /v1/audit-logs
func (h *AuditHandlers) ListAuditLogs(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	filters := &models.AuditLogFilters{
		Limit:  limit,
		Offset: offset,
	}

	if userParam := c.QueryParam("user_id"); userParam != "" {
		userID, err := common.ValidateUUID(userParam, "user_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.UserID = &userID
	}
	if method := c.QueryParam("method"); method != "" {
		filters.Method = &method
	}
	if startParam := c.QueryParam("start_date"); startParam != "" {
		start, err := common.ParseDate(startParam, "start_date")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.StartDate = &start
	}
	if endParam := c.QueryParam("end_date"); endParam != "" {
		end, err := common.ParseDate(endParam, "end_date")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.EndDate = &end
	}

	entries, err := h.auditRepo.List(ctx, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"audit_logs": entries,
	})
}

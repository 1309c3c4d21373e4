package handlers

import (
	"net/http"
	"strings"

	"sitedesk/internal/common"
	"sitedesk/internal/models"
	"sitedesk/internal/services"

	"github.com/labstack/echo/v4"
)

// WorkHandlers handles HTTP requests for planned works
type WorkHandlers struct {
	workService services.PlannedWorkService
}

func NewWorkHandlers(workService services.PlannedWorkService) *WorkHandlers {
	return &WorkHandlers{workService: workService}
}

func validPriority(priority string) bool {
	switch priority {
	case models.PriorityLow, models.PriorityNormal, models.PriorityHigh:
		return true
	}
	return false
}

// CreateWork handles POST /v1/works
func (h *WorkHandlers) CreateWork(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		ObjectID    string  `json:"object_id"`
		WorkType    string  `json:"work_type"`
		Title       string  `json:"title"`
		Description *string `json:"description"`
		PlannedDate *string `json:"planned_date"`
		Priority    string  `json:"priority"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	objectID, err := common.ValidateUUID(req.ObjectID, "object_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Priority != "" && !validPriority(req.Priority) {
		return echo.NewHTTPError(http.StatusBadRequest, "Priority must be one of: low, normal, high")
	}

	work := &models.PlannedWork{
		ObjectID:    objectID,
		WorkType:    req.WorkType,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    req.Priority,
		CreatedBy:   userID,
	}

	if req.PlannedDate != nil && *req.PlannedDate != "" {
		date, err := common.ParseDate(*req.PlannedDate, "planned_date")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		work.PlannedDate = &date
	}

	if err := h.workService.Create(ctx, work); err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Work created successfully",
		"work":    work,
	})
}

// GetWork handles GET /v1/works/:id
func (h *WorkHandlers) GetWork(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	work, err := h.workService.GetByID(ctx, id)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, work)
}

// UpdateWork handles PUT /v1/works/:id. Status changes go through the
// dedicated status endpoint, not here.
func (h *WorkHandlers) UpdateWork(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	work, err := h.workService.GetByID(ctx, id)
	if err != nil {
		return domainError(c, err)
	}

	var req struct {
		WorkType    *string `json:"work_type"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		PlannedDate *string `json:"planned_date"`
		Priority    *string `json:"priority"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.WorkType != nil {
		work.WorkType = *req.WorkType
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Work title cannot be empty")
		}
		work.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		work.Description = req.Description
	}
	if req.PlannedDate != nil {
		if *req.PlannedDate == "" {
			work.PlannedDate = nil
		} else {
			date, err := common.ParseDate(*req.PlannedDate, "planned_date")
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			work.PlannedDate = &date
		}
	}
	if req.Priority != nil {
		if !validPriority(*req.Priority) {
			return echo.NewHTTPError(http.StatusBadRequest, "Priority must be one of: low, normal, high")
		}
		work.Priority = *req.Priority
	}

	if err := h.workService.Update(ctx, work); err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Work updated successfully",
		"work":    work,
	})
}

// ChangeWorkStatus handles PUT /v1/works/:id/status
func (h *WorkHandlers) ChangeWorkStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	work, err := h.workService.ChangeStatus(ctx, id, req.Status)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Work status updated successfully",
		"work":    work,
	})
}

// DeleteWork handles DELETE /v1/works/:id
func (h *WorkHandlers) DeleteWork(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.workService.Delete(ctx, id); err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Work deleted successfully",
	})
}

// ListWorks handles GET /v1/objects/:id/works
func (h *WorkHandlers) ListWorks(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	objectID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	works, err := h.workService.ListByObject(ctx, objectID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"works": works,
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"sitedesk/internal/common"
	"sitedesk/internal/models"
	"sitedesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// ObjectHandlers handles HTTP requests for site objects and their elements
type ObjectHandlers struct {
	objectRepo repositories.ObjectRepository
}

func NewObjectHandlers(objectRepo repositories.ObjectRepository) *ObjectHandlers {
	return &ObjectHandlers{objectRepo: objectRepo}
}

func validObjectStatus(status string) bool {
	switch status {
	case models.ObjectActive, models.ObjectSuspended, models.ObjectFinished:
		return true
	}
	return false
}

func validElementType(elementType string) bool {
	switch elementType {
	case models.ElementSupport, models.ElementTrench, models.ElementFixture:
		return true
	}
	return false
}

// CreateObject handles POST /v1/objects
func (h *ObjectHandlers) CreateObject(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		Name    string  `json:"name"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Object name is required")
	}

	object := &models.SiteObject{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		Status:    models.ObjectActive,
		CreatedBy: userID,
	}
	if err := h.objectRepo.Create(ctx, object); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Object created successfully",
		"object":  object,
	})
}

// GetObject handles GET /v1/objects/:id
func (h *ObjectHandlers) GetObject(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	object, err := h.objectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Object")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, object)
}

// UpdateObject handles PUT /v1/objects/:id
func (h *ObjectHandlers) UpdateObject(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	object, err := h.objectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Object")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
		Status  *string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Object name cannot be empty")
		}
		object.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		object.Address = req.Address
	}
	if req.Status != nil {
		if !validObjectStatus(*req.Status) {
			return echo.NewHTTPError(http.StatusBadRequest, "Status must be one of: active, suspended, finished")
		}
		object.Status = *req.Status
	}

	if err := h.objectRepo.Update(ctx, object); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Object updated successfully",
		"object":  object,
	})
}

// DeleteObject handles DELETE /v1/objects/:id
func (h *ObjectHandlers) DeleteObject(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.objectRepo.Delete(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Object deleted successfully",
	})
}

// ListObjects handles GET /v1/objects
func (h *ObjectHandlers) ListObjects(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	objects, err := h.objectRepo.List(ctx, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"objects": objects,
	})
}

// CreateElement handles POST /v1/objects/:id/elements
func (h *ObjectHandlers) CreateElement(c echo.Context) error {
	ctx := c.Request().Context()

	objectID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if _, err := h.objectRepo.GetByID(ctx, objectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Object")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req struct {
		ElementType  string `json:"element_type"`
		Title        string `json:"title"`
		PlannedCount int    `json:"planned_count"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if !validElementType(req.ElementType) {
		return echo.NewHTTPError(http.StatusBadRequest, "Element type must be one of: support, trench, fixture")
	}
	if strings.TrimSpace(req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Element title is required")
	}
	if req.PlannedCount < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Planned count cannot be negative")
	}

	element := &models.SiteElement{
		ID:           uuid.New(),
		ObjectID:     objectID,
		ElementType:  req.ElementType,
		Title:        strings.TrimSpace(req.Title),
		PlannedCount: req.PlannedCount,
	}
	if err := h.objectRepo.CreateElement(ctx, element); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Element created successfully",
		"element": element,
	})
}

// UpdateElement handles PUT /v1/elements/:id
func (h *ObjectHandlers) UpdateElement(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	element, err := h.objectRepo.GetElementByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Element")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req struct {
		ElementType   *string `json:"element_type"`
		Title         *string `json:"title"`
		PlannedCount  *int    `json:"planned_count"`
		ExecutedCount *int    `json:"executed_count"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.ElementType != nil {
		if !validElementType(*req.ElementType) {
			return echo.NewHTTPError(http.StatusBadRequest, "Element type must be one of: support, trench, fixture")
		}
		element.ElementType = *req.ElementType
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Element title cannot be empty")
		}
		element.Title = strings.TrimSpace(*req.Title)
	}
	if req.PlannedCount != nil {
		if *req.PlannedCount < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Planned count cannot be negative")
		}
		element.PlannedCount = *req.PlannedCount
	}
	if req.ExecutedCount != nil {
		if *req.ExecutedCount < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Executed count cannot be negative")
		}
		element.ExecutedCount = *req.ExecutedCount
	}

	if err := h.objectRepo.UpdateElement(ctx, element); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Element updated successfully",
		"element": element,
	})
}

// DeleteElement handles DELETE /v1/elements/:id
func (h *ObjectHandlers) DeleteElement(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.objectRepo.DeleteElement(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Element deleted successfully",
	})
}

// ListElements handles GET /v1/objects/:id/elements
func (h *ObjectHandlers) ListElements(c echo.Context) error {
	ctx := c.Request().Context()

	objectID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	elements, err := h.objectRepo.ListElements(ctx, objectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"elements": elements,
	})
}

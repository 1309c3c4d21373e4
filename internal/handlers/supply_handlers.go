package handlers

import (
	"net/http"
	"strings"

	"sitedesk/internal/common"
	"sitedesk/internal/models"
	"sitedesk/internal/services"

	"github.com/labstack/echo/v4"
)

// SupplyHandlers handles HTTP requests for warehouse movements and
// per-user allocations.
type SupplyHandlers struct {
	movementService   services.MovementService
	allocationService services.AllocationService
}

func NewSupplyHandlers(movementService services.MovementService, allocationService services.AllocationService) *SupplyHandlers {
	return &SupplyHandlers{
		movementService:   movementService,
		allocationService: allocationService,
	}
}

// RecordMovement handles POST /api/supply/movements. The body is either
// plain JSON or multipart/form-data when an attachment is included.
func (h *SupplyHandlers) RecordMovement(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req *services.MovementRequest
	var err error
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		req, err = h.bindMultipartMovement(c)
	} else {
		req, err = h.bindJSONMovement(c)
	}
	if err != nil {
		return err
	}
	req.CreatedBy = userID

	result, err := h.movementService.Record(ctx, req)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *SupplyHandlers) bindJSONMovement(c echo.Context) (*services.MovementRequest, error) {
	var body struct {
		MaterialID   string  `json:"material_id"`
		Quantity     string  `json:"quantity"`
		MovementType string  `json:"movement_type"`
		FromUserID   *string `json:"from_user_id"`
		ToUserID     *string `json:"to_user_id"`
		Note         *string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return h.buildMovementRequest(body.MaterialID, body.Quantity, body.MovementType, body.FromUserID, body.ToUserID, body.Note)
}

func (h *SupplyHandlers) bindMultipartMovement(c echo.Context) (*services.MovementRequest, error) {
	var fromUser, toUser, note *string
	if v := c.FormValue("from_user_id"); v != "" {
		fromUser = &v
	}
	if v := c.FormValue("to_user_id"); v != "" {
		toUser = &v
	}
	if v := c.FormValue("note"); v != "" {
		note = &v
	}

	req, err := h.buildMovementRequest(c.FormValue("material_id"), c.FormValue("quantity"), c.FormValue("movement_type"), fromUser, toUser, note)
	if err != nil {
		return nil, err
	}

	fileHeader, err := c.FormFile("attachment")
	if err != nil {
		// No file part is fine; multipart without an attachment is allowed.
		return req, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Failed to read attachment")
	}
	// The movement service streams the reader to object storage within the
	// request; echo cleans the underlying temp file after the handler returns.
	req.Attachment = &services.AttachmentUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	}
	return req, nil
}

func (h *SupplyHandlers) buildMovementRequest(materialID, quantity, movementType string, fromUser, toUser, note *string) (*services.MovementRequest, error) {
	matID, err := common.ValidateUUID(materialID, "material_id")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	qty, err := common.ParseQuantity(quantity, "quantity")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req := &services.MovementRequest{
		MaterialID:   matID,
		Quantity:     qty,
		MovementType: models.MovementType(movementType),
		Note:         note,
	}

	if fromUser != nil {
		id, err := common.ValidateUUID(*fromUser, "from_user_id")
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		req.FromUserID = &id
	}
	if toUser != nil {
		id, err := common.ValidateUUID(*toUser, "to_user_id")
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		req.ToUserID = &id
	}
	return req, nil
}

// ListMovements handles GET /api/supply/movements
func (h *SupplyHandlers) ListMovements(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	var movements []*models.MovementView
	var err error
	if materialParam := c.QueryParam("material_id"); materialParam != "" {
		materialID, vErr := common.ValidateUUID(materialParam, "material_id")
		if vErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
		}
		movements, err = h.movementService.ListByMaterial(ctx, materialID, limit, offset)
	} else {
		movements, err = h.movementService.ListRecent(ctx, limit, offset)
	}
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"movements": movements,
	})
}

// ListAllocations handles GET /api/supply/allocations
func (h *SupplyHandlers) ListAllocations(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	allocations, err := h.allocationService.List(ctx, limit, offset)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"allocations": allocations,
	})
}

// ListUserAllocations handles GET /api/supply/user/:id/allocations
func (h *SupplyHandlers) ListUserAllocations(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	allocations, err := h.allocationService.ListByUser(ctx, userID)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":     userID,
		"allocations": allocations,
	})
}

// RebuildAllocations handles POST /v1/supply/allocations/rebuild. It replays
// the movement log into the allocations table, for recovery after manual
// data surgery.
func (h *SupplyHandlers) RebuildAllocations(c echo.Context) error {
	if err := h.allocationService.Rebuild(c.Request().Context()); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Allocations rebuilt from movement log",
	})
}

// DownloadAttachment handles GET /v1/supply/attachments/:id. It redirects to
// a short-lived presigned object storage URL rather than proxying the bytes.
func (h *SupplyHandlers) DownloadAttachment(c echo.Context) error {
	ctx := c.Request().Context()

	attachmentID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	attachment, err := h.movementService.GetAttachment(ctx, attachmentID)
	if err != nil {
		return domainError(c, err)
	}

	url, err := h.movementService.AttachmentURL(ctx, attachment)
	if err != nil {
		return domainError(c, err)
	}

	return c.Redirect(http.StatusTemporaryRedirect, url)
}

package handlers

import (
	"net/http"
	"strings"

	"sitedesk/internal/common"
	"sitedesk/internal/models"
	"sitedesk/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// MaterialHandlers handles HTTP requests for the material catalog
type MaterialHandlers struct {
	materialService services.MaterialService
}

func NewMaterialHandlers(materialService services.MaterialService) *MaterialHandlers {
	return &MaterialHandlers{materialService: materialService}
}

type materialRequest struct {
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Quantity     *string `json:"quantity"`
	MinQuantity  *string `json:"min_quantity"`
	PricePerUnit *string `json:"price_per_unit"`
	Supplier     *string `json:"supplier"`
}

func (h *MaterialHandlers) applyRequest(material *models.Material, req *materialRequest) error {
	if strings.TrimSpace(req.Name) != "" {
		material.Name = strings.TrimSpace(req.Name)
	}
	if strings.TrimSpace(req.Unit) != "" {
		material.Unit = strings.TrimSpace(req.Unit)
	}
	if req.Quantity != nil {
		qty, err := decimal.NewFromString(*req.Quantity)
		if err != nil || qty.Sign() < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "quantity must be a non-negative decimal")
		}
		material.CurrentQuantity = qty
	}
	if req.MinQuantity != nil {
		minQty, err := decimal.NewFromString(*req.MinQuantity)
		if err != nil || minQty.Sign() < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "min_quantity must be a non-negative decimal")
		}
		material.MinQuantity = minQty
	}
	if req.PricePerUnit != nil {
		price, err := decimal.NewFromString(*req.PricePerUnit)
		if err != nil || price.Sign() < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "price_per_unit must be a non-negative decimal")
		}
		material.PricePerUnit = &price
	}
	if req.Supplier != nil {
		material.Supplier = req.Supplier
	}
	return nil
}

// CreateMaterial handles POST /v1/materials
func (h *MaterialHandlers) CreateMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	var req materialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	material := &models.Material{}
	if err := h.applyRequest(material, &req); err != nil {
		return err
	}

	if err := h.materialService.Create(ctx, material); err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Material created successfully",
		"material": material,
	})
}

// GetMaterial handles GET /v1/materials/:id
func (h *MaterialHandlers) GetMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	material, err := h.materialService.GetByID(ctx, id)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, material)
}

// UpdateMaterial handles PUT /v1/materials/:id
func (h *MaterialHandlers) UpdateMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	material, err := h.materialService.GetByID(ctx, id)
	if err != nil {
		return domainError(c, err)
	}

	var req materialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	// Catalog edits never touch the stock level; quantity only moves through
	// recorded movements.
	req.Quantity = nil
	if err := h.applyRequest(material, &req); err != nil {
		return err
	}

	if err := h.materialService.Update(ctx, material); err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Material updated successfully",
		"material": material,
	})
}

// DeleteMaterial handles DELETE /v1/materials/:id
func (h *MaterialHandlers) DeleteMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.materialService.Delete(ctx, id); err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Material deleted successfully",
	})
}

// ListMaterials handles GET /v1/materials. Inactive (depleted) materials are
// hidden unless include_inactive=true.
func (h *MaterialHandlers) ListMaterials(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	activeOnly := c.QueryParam("include_inactive") != "true"

	materials, err := h.materialService.List(ctx, activeOnly, limit, offset)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"materials": materials,
	})
}

// ListLowStock handles GET /v1/materials/low-stock
func (h *MaterialHandlers) ListLowStock(c echo.Context) error {
	materials, err := h.materialService.ListLowStock(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"materials": materials,
	})
}

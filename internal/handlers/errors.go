package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"sitedesk/internal/common"
	"sitedesk/internal/services"

	"github.com/labstack/echo/v4"
)

// domainError translates service-layer errors into HTTP responses.
// Insufficiency errors return 400 with the available and requested amounts
// so clients can show a meaningful message.
func domainError(c echo.Context, err error) error {
	var stockErr *services.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":     "insufficient stock",
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	}

	var allocErr *services.InsufficientAllocationError
	if errors.As(err, &allocErr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":     "insufficient allocation",
			"available": allocErr.Available,
			"requested": allocErr.Requested,
		})
	}

	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func paginationParams(c echo.Context) (int, int) {
	return common.ValidatePaginationParams(intQueryParam(c, "limit", 50), intQueryParam(c, "offset", 0))
}

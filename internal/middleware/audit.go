package middleware

import (
	"net/http"

	"sitedesk/internal/common"
	"sitedesk/internal/models"
	"sitedesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditMiddleware records mutating HTTP requests in the audit trail.
type AuditMiddleware struct {
	auditLogs repositories.AuditLogRepository
}

func NewAuditMiddleware(auditLogs repositories.AuditLogRepository) *AuditMiddleware {
	return &AuditMiddleware{auditLogs: auditLogs}
}

// AuditRequest logs every non-GET request after the handler ran. Audit
// failures are logged but never fail the request itself.
func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return err
			}

			ctx := c.Request().Context()

			var userPtr *uuid.UUID
			if userID, ok := common.GetUserIDFromContext(ctx); ok {
				userPtr = &userID
			}

			status := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}

			entry := &models.AuditLog{
				ID:     uuid.New(),
				UserID: userPtr,
				Method: method,
				Path:   c.Path(),
				Status: status,
			}
			if logErr := m.auditLogs.Create(ctx, entry); logErr != nil {
				c.Logger().Errorf("Failed to write audit log entry: %v", logErr)
			}

			return err
		}
	}
}

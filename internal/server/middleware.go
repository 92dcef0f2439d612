package server

import (
	"github.com/labstack/echo/v4"

	"github.com/threadlab/threads-backend/internal/platform/correlation"
)

// correlationMiddleware assigns every request a correlation ID so all log
// lines emitted while handling it can be tied together.
func correlationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/user"
)

// requireCapability lets the request through when the caller's role grants c.
// It must run after the auth middleware.
func requireCapability(c user.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr := ctxUser(ctx)
			if usr.Can(c) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

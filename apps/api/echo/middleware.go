package echoapi

import (
	"github.com/labstack/echo/v4"
)

// staffMiddleware only allows admins and editors through.
func staffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if !usr.IsStaff() {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

// verifiedEmailMiddleware rejects users that have not verified their email address.
// Applied to all content-creating endpoints.
func verifiedEmailMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if !usr.EmailVerified {
				return errEmailNotVerified
			}
			return next(ctx)
		}
	}
}

// selfOrStaffMiddleware only allows the user matching the ":username" path
// param, or staff, through.
func selfOrStaffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if usr.Username != ctx.Param("username") && !usr.IsStaff() {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

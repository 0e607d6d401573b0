package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marlanuera/CA1-Code/internal/logging"
	"github.com/marlanuera/CA1-Code/internal/models"
	"github.com/marlanuera/CA1-Code/internal/service"
	"github.com/marlanuera/CA1-Code/internal/session"
)

const (
	MsgLoginRequired = "Please log in to view this resource"
	MsgAccessDenied  = "Access denied"
)

// ValidatorFunc inspects the signed-in user and returns a non-nil error to reject the request.
type ValidatorFunc func(u *session.UserInfo) error

func RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return requireUserWithValidator(next, nil)
}

// RequireAdmin implies RequireAuthenticated.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return requireUserWithValidator(next, func(u *session.UserInfo) error {
		if u.Role != models.RoleAdmin {
			return service.ErrForbidden
		}
		return nil
	})
}

func requireUserWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("guard", c.Path())
		sess := session.Get(c)

		u := sess.User()
		if u == nil {
			l.Warn("access_denied", "status", http.StatusFound, "reason", "not signed in", "error", service.ErrUnauthenticated)
			sess.AddFlash(session.FlashError, MsgLoginRequired)
			return c.Redirect(http.StatusFound, "/login")
		}

		if validator != nil {
			if err := validator(u); err != nil {
				l.Warn("access_denied", "status", http.StatusFound, "reason", "role check failed", "user_id", u.ID, "role", u.Role, "error", err)
				sess.AddFlash(session.FlashError, MsgAccessDenied)
				return c.Redirect(http.StatusFound, "/shopping")
			}
		}

		return next(c)
	}
}

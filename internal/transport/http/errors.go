package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marlanuera/CA1-Code/internal/logging"
	"github.com/marlanuera/CA1-Code/internal/session"
)

// ErrorHandler renders failures with the error page and falls back to plain
// text when no session or renderer is available.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	if _, ok := session.Lookup(c); ok && c.Echo().Renderer != nil {
		rerr := render(c, code, "error", http.StatusText(code), echo.Map{"Code": code, "Message": msg})
		if rerr == nil {
			return
		}
		logging.FromContext(c.Request().Context()).Error("render_error_page_failed", "error", rerr)
	}
	_ = c.String(code, msg)
}

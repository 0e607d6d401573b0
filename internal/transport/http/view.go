package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marlanuera/CA1-Code/internal/middleware/csrf"
	"github.com/marlanuera/CA1-Code/internal/session"
)

// render fills the fields every page uses and renders name.
func render(c echo.Context, code int, name, title string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	sess := session.Get(c)
	data["Title"] = title
	data["User"] = sess.User()
	data["CSRFToken"] = csrf.Token(c)
	data["Flashes"] = sess.PopFlashes()
	data["CartCount"] = sess.Cart().Count()
	if _, ok := data["Query"]; !ok {
		data["Query"] = ""
	}
	return c.Render(code, name, data)
}

func page(c echo.Context, name, title string, data echo.Map) error {
	return render(c, http.StatusOK, name, title, data)
}

func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusFound, to)
}

func flashRedirect(c echo.Context, kind, msg, to string) error {
	session.Get(c).AddFlash(kind, msg)
	return redirect(c, to)
}

func paramID(c echo.Context) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(n), nil
}

func userID(c echo.Context) uint {
	if u := session.Get(c).User(); u != nil {
		return u.ID
	}
	return 0
}

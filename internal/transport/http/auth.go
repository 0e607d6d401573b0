package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marlanuera/CA1-Code/internal/logging"
	"github.com/marlanuera/CA1-Code/internal/models"
	"github.com/marlanuera/CA1-Code/internal/service"
	"github.com/marlanuera/CA1-Code/internal/session"
)

const (
	MsgAllFieldsRequired = "All fields are required."
	MsgWeakPassword      = "Password should be at least 6 characters long"
	MsgInvalidRole       = "Please choose a valid role"
	MsgRegisterFailed    = "Registration failed"
	MsgRegistered        = "Registration successful! Please log in."
	MsgInvalidCreds      = "Invalid credentials"
	MsgDatabaseError     = "Database error"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Home(c echo.Context) error {
	return page(c, "home", "Supermarket", nil)
}

func (h *AuthHTTP) RegisterForm(c echo.Context) error {
	fd := session.Get(c).PopFormData()
	if fd == nil {
		fd = map[string]string{}
	}
	return page(c, "register", "Register", echo.Map{"FormData": fd})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")
	sess := session.Get(c)

	in := service.RegisterInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		Address:  c.FormValue("address"),
		Contact:  c.FormValue("contact"),
		Role:     c.FormValue("role"),
	}

	_, err := h.Svc.Register(ctx, in)
	switch {
	case err == nil:
		l.Info("register_success", "email", in.Email)
		return flashRedirect(c, session.FlashSuccess, MsgRegistered, "/login")
	case errors.Is(err, service.ErrMissingFields):
		l.Warn("register_failed", "status", 400, "reason", "missing fields", "error", err)
		return c.String(http.StatusBadRequest, MsgAllFieldsRequired)
	case errors.Is(err, service.ErrWeakPassword):
		l.Warn("register_failed", "status", 302, "reason", "weak password", "error", err)
		sess.SetFormData(in.FormData())
		return flashRedirect(c, session.FlashError, MsgWeakPassword, "/register")
	case errors.Is(err, service.ErrInvalidRole):
		l.Warn("register_failed", "status", 302, "reason", "invalid role", "error", err)
		sess.SetFormData(in.FormData())
		return flashRedirect(c, session.FlashError, MsgInvalidRole, "/register")
	case errors.Is(err, service.ErrConflict):
		l.Warn("register_failed", "status", 302, "reason", "email taken", "error", err)
	default:
		l.Error("register_failed", "status", 302, "reason", "cannot create user", "error", err)
	}
	sess.SetFormData(in.FormData())
	return flashRedirect(c, session.FlashError, MsgRegisterFailed, "/register")
}

func (h *AuthHTTP) LoginForm(c echo.Context) error {
	return page(c, "login", "Login", nil)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")
	sess := session.Get(c)

	u, err := h.Svc.Login(ctx, c.FormValue("email"), c.FormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			l.Warn("login_failed", "status", 302, "reason", "missing fields", "error", err)
			return flashRedirect(c, session.FlashError, MsgAllFieldsRequired, "/login")
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 302, "reason", "invalid credentials", "error", err)
			return flashRedirect(c, session.FlashError, MsgInvalidCreds, "/login")
		default:
			l.Error("login_failed", "status", 302, "reason", "database", "error", err)
			return flashRedirect(c, session.FlashError, MsgDatabaseError, "/login")
		}
	}

	sess.Login(*u)
	l.Info("login_success", "user_id", u.ID, "role", u.Role)
	if u.Role == models.RoleAdmin {
		return redirect(c, "/inventory")
	}
	return redirect(c, "/shopping")
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	session.Get(c).Destroy()
	return redirect(c, "/")
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")
	u := session.Get(c).User()

	orders, err := h.Svc.Orders(ctx, u.ID)
	if err != nil {
		l.Error("profile_failed", "status", 302, "reason", "cannot load orders", "error", err)
		return flashRedirect(c, session.FlashError, "Error fetching profile", "/shopping")
	}
	return page(c, "profile", "My profile", echo.Map{"Profile": u, "Orders": orders})
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_profile")
	sess := session.Get(c)

	u, err := h.Svc.UpdateProfile(ctx, sess.User().ID, service.ProfileInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Address:  c.FormValue("address"),
		Contact:  c.FormValue("contact"),
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingFields):
		l.Warn("update_profile_failed", "status", 302, "reason", "missing fields", "error", err)
		return flashRedirect(c, session.FlashError, "Username and email are required", "/profile")
	case errors.Is(err, service.ErrConflict):
		l.Warn("update_profile_failed", "status", 302, "reason", "email taken", "error", err)
		return flashRedirect(c, session.FlashError, "That email is already in use", "/profile")
	default:
		l.Error("update_profile_failed", "status", 302, "reason", "cannot update profile", "error", err)
		return flashRedirect(c, session.FlashError, "Error updating profile", "/profile")
	}

	sess.SetUser(session.NewUserInfo(*u))
	l.Info("update_profile_success", "user_id", u.ID)
	return flashRedirect(c, session.FlashSuccess, "Profile updated successfully", "/profile")
}

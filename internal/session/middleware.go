package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marlanuera/CA1-Code/internal/logging"
	loggingmw "github.com/marlanuera/CA1-Code/internal/middleware/logging"
)

const contextKey = "session"

type Config struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	SkipPaths  []string
}

func DefaultConfig() Config {
	return Config{
		CookieName: "session",
		TTL:        7 * 24 * time.Hour,
	}
}

// Get returns the session attached by Middleware. It panics when the
// middleware is not installed on the route.
func Get(c echo.Context) *Session {
	s, ok := c.Get(contextKey).(*Session)
	if !ok {
		panic("session: middleware not installed")
	}
	return s
}

// Lookup is Get for code that may run outside the middleware.
func Lookup(c echo.Context) (*Session, bool) {
	s, ok := c.Get(contextKey).(*Session)
	return s, ok
}

// Attach binds s to c; used by the middleware and by handler tests.
func Attach(c echo.Context, s *Session) {
	c.Set(contextKey, s)
	if s.User() != nil {
		c.Set(loggingmw.UserIDKey, s.User().ID)
	}
}

// Middleware loads the session before the handler and writes it back right
// before the response header goes out.
func Middleware(store Store, cfg Config) echo.MiddlewareFunc {
	def := DefaultConfig()
	if cfg.CookieName == "" {
		cfg.CookieName = def.CookieName
	}
	if cfg.TTL == 0 {
		cfg.TTL = def.TTL
	}
	skip := map[string]struct{}{}
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skip[c.Request().URL.Path]; ok {
				return next(c)
			}
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			var sess *Session
			if ck, err := c.Cookie(cfg.CookieName); err == nil && ck.Value != "" {
				loaded, err := store.Load(ctx, ck.Value)
				switch {
				case err == nil:
					sess = loaded
				case errors.Is(err, ErrInvalidToken):
					l.Debug("session_load_skipped", "reason", "invalid or expired token")
				default:
					l.Error("session_load_failed", "error", err)
				}
			}
			if sess == nil {
				sess = New()
			}
			Attach(c, sess)
			if u := sess.User(); u != nil {
				c.SetRequest(c.Request().WithContext(logging.With(ctx, "user_id", u.ID)))
			}

			c.Response().Before(func() {
				persist(c, store, cfg, sess)
			})

			return next(c)
		}
	}
}

func persist(c echo.Context, store Store, cfg Config, sess *Session) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx)

	if !sess.dirty() {
		return
	}

	if sess.previousID != "" {
		if err := store.Delete(ctx, sess.previousID); err != nil {
			l.Warn("session_delete_failed", "error", err)
		}
	}

	if sess.Destroyed() {
		if err := store.Delete(ctx, sess.ID); err != nil {
			l.Warn("session_delete_failed", "error", err)
		}
		c.SetCookie(&http.Cookie{
			Name:     cfg.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		return
	}

	token, err := store.Save(ctx, sess)
	if err != nil {
		l.Error("session_save_failed", "error", err)
		return
	}
	if len(token) > MaxTokenBytes {
		l.Error("session_save_failed", "reason", "cookie too large", "bytes", len(token), "error", ErrSessionTooLarge)
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.TTL),
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

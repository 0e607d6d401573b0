package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlanuera/CA1-Code/internal/models"
	"github.com/marlanuera/CA1-Code/internal/session"
)

func newContext(u *models.User) (echo.Context, *httptest.ResponseRecorder, *session.Session) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	s := session.New()
	if u != nil {
		s.Login(*u)
	}
	session.Attach(c, s)
	return c, rec, s
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestRequireAuthenticated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
		wantLoc    string
		wantFlash  string
	}{
		{name: "anonymous", user: nil, wantStatus: http.StatusFound, wantLoc: "/login", wantFlash: MsgLoginRequired},
		{name: "user", user: &models.User{ID: 1, Role: models.RoleUser}, wantStatus: http.StatusOK},
		{name: "admin", user: &models.User{ID: 2, Role: models.RoleAdmin}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, rec, s := newContext(tt.user)
			require.NoError(t, RequireAuthenticated(okHandler)(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get(echo.HeaderLocation))
				flashes := s.PopFlashes()
				require.Len(t, flashes, 1)
				assert.Equal(t, tt.wantFlash, flashes[0].Message)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
		wantLoc    string
		wantFlash  string
	}{
		{name: "anonymous", user: nil, wantStatus: http.StatusFound, wantLoc: "/login", wantFlash: MsgLoginRequired},
		{name: "user", user: &models.User{ID: 1, Role: models.RoleUser}, wantStatus: http.StatusFound, wantLoc: "/shopping", wantFlash: MsgAccessDenied},
		{name: "admin", user: &models.User{ID: 2, Role: models.RoleAdmin}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, rec, s := newContext(tt.user)
			require.NoError(t, RequireAdmin(okHandler)(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get(echo.HeaderLocation))
				flashes := s.PopFlashes()
				require.Len(t, flashes, 1)
				assert.Equal(t, tt.wantFlash, flashes[0].Message)
			}
		})
	}
}

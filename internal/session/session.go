// Package session keeps per-visitor state: the signed-in user, the cart,
// one-shot flash messages and form data echoed back after a failed submit.
package session

import (
	"github.com/google/uuid"

	"github.com/marlanuera/CA1-Code/internal/cart"
	"github.com/marlanuera/CA1-Code/internal/models"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// UserInfo is the session copy of a user. It never carries the password hash.
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Contact  string `json:"contact"`
	Role     string `json:"role"`
}

func NewUserInfo(u models.User) *UserInfo {
	return &UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Address:  u.Address,
		Contact:  u.Contact,
		Role:     u.Role,
	}
}

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Data is the persisted part of a session.
type Data struct {
	User     *UserInfo         `json:"user,omitempty"`
	Cart     cart.Cart         `json:"cart"`
	Flashes  []Flash           `json:"flashes,omitempty"`
	FormData map[string]string `json:"formData,omitempty"`
}

type Session struct {
	ID   string
	Data Data

	// id the session had before Renew, so the store can drop it
	previousID string
	destroyed  bool
	// serialized Data as loaded; Save is skipped while it is unchanged
	loaded []byte
}

func New() *Session {
	return &Session{ID: uuid.NewString()}
}

func (s *Session) User() *UserInfo { return s.Data.User }

func (s *Session) Cart() *cart.Cart { return &s.Data.Cart }

func (s *Session) IsAuthenticated() bool { return s.Data.User != nil }

func (s *Session) IsAdmin() bool {
	return s.Data.User != nil && s.Data.User.Role == models.RoleAdmin
}

// Login stores the user under a fresh session id.
func (s *Session) Login(u models.User) {
	s.Renew()
	s.Data.User = NewUserInfo(u)
}

// SetUser replaces the user copy without changing the session id.
func (s *Session) SetUser(u *UserInfo) { s.Data.User = u }

// Renew moves the session to a new id, keeping its data.
func (s *Session) Renew() {
	if s.previousID == "" {
		s.previousID = s.ID
	}
	s.ID = uuid.NewString()
}

// Destroy drops all data; the cookie is cleared when the response is written.
func (s *Session) Destroy() {
	s.Data = Data{}
	s.destroyed = true
}

func (s *Session) Destroyed() bool { return s.destroyed }

func (s *Session) AddFlash(kind, msg string) {
	s.Data.Flashes = append(s.Data.Flashes, Flash{Kind: kind, Message: msg})
}

// PopFlashes returns pending flashes and removes them from the session.
func (s *Session) PopFlashes() []Flash {
	f := s.Data.Flashes
	s.Data.Flashes = nil
	return f
}

func (s *Session) SetFormData(fd map[string]string) { s.Data.FormData = fd }

func (s *Session) PopFormData() map[string]string {
	fd := s.Data.FormData
	s.Data.FormData = nil
	return fd
}

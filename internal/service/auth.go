package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/marlanuera/CA1-Code/internal/events"
	"github.com/marlanuera/CA1-Code/internal/hash"
	"github.com/marlanuera/CA1-Code/internal/models"
	"github.com/marlanuera/CA1-Code/internal/repo"
)

const MinPasswordLen = 6

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Address  string
	Contact  string
	Role     string
}

func (in RegisterInput) normalized() RegisterInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Address = strings.TrimSpace(in.Address)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	return in
}

// FormData is what the register form gets back after a failed submit. The
// password is never echoed.
func (in RegisterInput) FormData() map[string]string {
	return map[string]string{
		"username": in.Username,
		"email":    in.Email,
		"address":  in.Address,
		"contact":  in.Contact,
		"role":     in.Role,
	}
}

// ValidateRegistration checks presence first, then password strength, then role.
func ValidateRegistration(in RegisterInput, allowAdmin bool) error {
	in = in.normalized()
	if in.Username == "" || in.Email == "" || in.Password == "" || in.Address == "" || in.Contact == "" || in.Role == "" {
		return ErrMissingFields
	}
	if len(in.Password) < MinPasswordLen {
		return fmt.Errorf("%w: at least %d characters", ErrWeakPassword, MinPasswordLen)
	}
	switch in.Role {
	case models.RoleUser:
	case models.RoleAdmin:
		if !allowAdmin {
			return fmt.Errorf("%w: admin sign-up disabled", ErrInvalidRole)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, in.Role)
	}
	return nil
}

type AuthService struct {
	Repo             *repo.GormRepo
	Events           events.Publisher
	AllowAdminSignup bool
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := ValidateRegistration(in, s.AllowAdminSignup); err != nil {
		return nil, err
	}
	in = in.normalized()

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
		Address:      in.Address,
		Contact:      in.Contact,
		Role:         in.Role,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, dbErr("create user", err)
	}

	events.Emit(ctx, s.Events, events.TopicUser, events.New("user_registered", strconv.FormatUint(uint64(u.ID), 10), map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"role":     u.Role,
	}))
	return u, nil
}

// Login never tells unknown emails and wrong passwords apart.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	u, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbErr("get user", err)
	}

	stored := ""
	if u != nil {
		stored = u.PasswordHash
	}
	if !hash.CheckPassword(stored, password) {
		return nil, ErrInvalidCredentials
	}

	events.Emit(ctx, s.Events, events.TopicUser, events.New("user_logged_in", strconv.FormatUint(uint64(u.ID), 10), nil))
	return u, nil
}

type ProfileInput struct {
	Username string
	Email    string
	Address  string
	Contact  string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" {
		return nil, ErrMissingFields
	}

	err := s.Repo.UpdateProfile(ctx, userID, in.Username, in.Email, strings.TrimSpace(in.Address), strings.TrimSpace(in.Contact))
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, notFoundOr("update profile", err, ErrNotFound)
	}

	u, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, notFoundOr("get user", err, ErrNotFound)
	}
	return u, nil
}

func (s *AuthService) Orders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.Repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, dbErr("list orders", err)
	}
	return orders, nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlanuera/CA1-Code/internal/events"
	"github.com/marlanuera/CA1-Code/internal/models"
)

func validInput() RegisterInput {
	return RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret1",
		Address:  "1 Main St",
		Contact:  "555-0100",
		Role:     "user",
	}
}

func TestValidateRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*RegisterInput)
		allowAdmin bool
		wantErr    error
	}{
		{name: "valid", mutate: func(*RegisterInput) {}},
		{name: "empty username", mutate: func(in *RegisterInput) { in.Username = "  " }, wantErr: ErrMissingFields},
		{name: "empty email", mutate: func(in *RegisterInput) { in.Email = "" }, wantErr: ErrMissingFields},
		{name: "empty password", mutate: func(in *RegisterInput) { in.Password = "" }, wantErr: ErrMissingFields},
		{name: "empty contact", mutate: func(in *RegisterInput) { in.Contact = "" }, wantErr: ErrMissingFields},
		{name: "missing fields win over weak password", mutate: func(in *RegisterInput) { in.Address = ""; in.Password = "abc" }, wantErr: ErrMissingFields},
		{name: "five characters", mutate: func(in *RegisterInput) { in.Password = "abc12" }, wantErr: ErrWeakPassword},
		{name: "six characters", mutate: func(in *RegisterInput) { in.Password = "abc123" }},
		{name: "admin without opt-in", mutate: func(in *RegisterInput) { in.Role = "admin" }, wantErr: ErrInvalidRole},
		{name: "admin with opt-in", mutate: func(in *RegisterInput) { in.Role = "admin" }, allowAdmin: true},
		{name: "unknown role", mutate: func(in *RegisterInput) { in.Role = "root" }, wantErr: ErrInvalidRole},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := validInput()
			tt.mutate(&in)
			err := ValidateRegistration(in, tt.allowAdmin)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterInput_FormDataOmitsPassword(t *testing.T) {
	t.Parallel()

	fd := validInput().FormData()
	assert.Equal(t, "alice", fd["username"])
	_, ok := fd["password"]
	assert.False(t, ok)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := &AuthService{Repo: env.Repo, Events: env.Events}
	ctx := context.Background()

	u, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.Equal(t, []string{"user_registered"}, env.Events.Types(events.TopicUser))

	_, err = svc.Register(ctx, validInput())
	require.ErrorIs(t, err, ErrConflict)

	got, err := svc.Login(ctx, " ALICE@example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := &AuthService{Repo: env.Repo}

	u, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, u)

	_, err = svc.Login(context.Background(), "", "whatever")
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := &AuthService{Repo: env.Repo}
	ctx := context.Background()

	u, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	other := validInput()
	other.Email = "bob@example.com"
	_, err = svc.Register(ctx, other)
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, u.ID, ProfileInput{Username: "", Email: "x@example.com"})
	require.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.UpdateProfile(ctx, u.ID, ProfileInput{Username: "alice", Email: "bob@example.com"})
	require.ErrorIs(t, err, ErrConflict)

	updated, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{Username: "alice2", Email: "alice2@example.com", Address: "2 High St", Contact: "555"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "2 High St", updated.Address)
	assert.Equal(t, models.RoleUser, updated.Role)

	_, err = svc.UpdateProfile(ctx, 9999, ProfileInput{Username: "x", Email: "y@example.com"})
	require.ErrorIs(t, err, ErrNotFound)
}

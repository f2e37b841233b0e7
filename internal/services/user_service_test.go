package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/bizsuite/internal/permissions"
	apperrors "github.com/charlesng35/bizsuite/pkg/errors"
)

func TestUserServiceCreateAndAuthenticate(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	user := f.createUser(t, "dana", permissions.RoleManager)
	require.Equal(t, "Manager", user.Role)
	require.NotEqual(t, "correct-horse", user.Password)

	_, err := f.users.Create(ctx, CreateUserInput{Username: "dana", Email: "other@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrUserExists)

	_, err = f.users.Create(ctx, CreateUserInput{Username: "eve", Email: "eve@example.com", Password: "short"})
	require.Error(t, err)
	require.Equal(t, 400, apperrors.FromError(err).StatusCode)

	_, err = f.users.Create(ctx, CreateUserInput{Username: "finn", Email: "finn@example.com", Password: "correct-horse", Role: "owner"})
	require.ErrorIs(t, err, ErrInvalidRole)

	plain, err := f.users.Create(ctx, CreateUserInput{Username: "gus", Email: "GUS@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, "User", plain.Role)
	require.Equal(t, "gus@example.com", plain.Email)

	got, err := f.users.Authenticate(ctx, "dana", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotNil(t, got.LastLoginAt)

	_, err = f.users.Authenticate(ctx, "dana@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = f.users.Authenticate(ctx, "dana", "wrong-password")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.users.Authenticate(ctx, "nobody", "correct-horse")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.Contains(t, f.auditActions(t), "auth.login")
}

func TestUserServiceGetAndExists(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "hal", permissions.RoleUser)

	got, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "hal", got.Username)

	_, err = f.users.GetByID(ctx, user.ID+100)
	require.ErrorIs(t, err, ErrUserNotFound)

	ok, err := f.users.Exists(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.users.EnsureBootstrapAdmin(ctx, BootstrapAdmin{})
	require.NoError(t, err)
	require.False(t, created)

	created, err = f.users.EnsureBootstrapAdmin(ctx, BootstrapAdmin{Username: "admin", Password: "change-me-now"})
	require.NoError(t, err)
	require.True(t, created)

	admin, err := f.users.Authenticate(ctx, "admin", "change-me-now")
	require.NoError(t, err)
	require.Equal(t, string(permissions.RoleAdmin), admin.Role)
	require.Equal(t, "admin@localhost", admin.Email)

	created, err = f.users.EnsureBootstrapAdmin(ctx, BootstrapAdmin{Username: "admin2", Password: "change-me-now"})
	require.NoError(t, err)
	require.False(t, created)
}

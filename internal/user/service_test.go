package user

import (
	"context"
	"testing"

	database "github.com/sebuszqo/khata/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *service {
	t.Helper()
	dbService, err := database.NewDBService(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dbService.Close() })
	require.NoError(t, dbService.RunMigrations(context.Background()))

	return &service{repo: NewUserRepository(dbService.DB), bcryptCost: bcrypt.MinCost}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, " Alice@Example.com ", "alice1", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice@example.com", created.Email)

	byLogin, err := svc.Authenticate(ctx, "alice1", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byLogin.ID)

	byEmail, err := svc.Authenticate(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = svc.Authenticate(ctx, "alice1", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	found, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice1", found.Login)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "alice1", "password123")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, "alice@example.com", "al", "password123")
	assert.ErrorIs(t, err, ErrLoginLength)

	_, err = svc.Register(ctx, "alice@example.com", "alice1", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_Duplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice1", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "alice2", "password123")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = svc.Register(ctx, "other@example.com", "alice1", "password123")
	assert.ErrorIs(t, err, ErrLoginAlreadyExists)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

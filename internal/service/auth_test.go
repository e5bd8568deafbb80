package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozinhecomigo/recipes/backend/internal/models"
	"github.com/cozinhecomigo/recipes/backend/internal/service"
	"github.com/cozinhecomigo/recipes/backend/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	auth := service.NewAuthService(db, 2*time.Hour).WithClock(func() time.Time { return now })
	ctx := context.Background()

	user, err := auth.Register(ctx, service.RegisterInput{
		Name:      "Ana Maria",
		Email:     " Ana@Example.com ",
		Password:  "segredo123",
		Biography: "Confeiteira",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "segredo123", user.PasswordHash)

	_, err = auth.Register(ctx, service.RegisterInput{Name: "Outra", Email: "ana@example.com", Password: "segredo123"})
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	token, loggedIn, err := auth.Login(ctx, "ANA@example.com", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, user.ID, token.UserID)
	assert.NotEmpty(t, token.Code)
	assert.True(t, token.ExpiresAt.Equal(now.Add(2*time.Hour)))

	_, _, err = auth.Login(ctx, "ana@example.com", "errada")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, "ninguem@example.com", "segredo123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterValidatesInput(t *testing.T) {
	auth := service.NewAuthService(testhelpers.SetupSQLite(t), time.Hour)
	ctx := context.Background()

	cases := map[string]service.RegisterInput{
		"missing name":   {Email: "a@b.com", Password: "123456"},
		"invalid email":  {Name: "A", Email: "not-an-email", Password: "123456"},
		"short password": {Name: "A", Email: "a@b.com", Password: "123"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Register(ctx, in)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
			assert.True(t, service.IsValidation(err))
		})
	}
}

func TestResolveToken(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	now := time.Now()
	auth := service.NewAuthService(db, time.Hour).WithClock(func() time.Time { return now })
	user := testhelpers.CreateTestUser(t, db, "Carlos")
	ctx := context.Background()

	valid := testhelpers.CreateTestToken(t, db, user.ID, now.Add(time.Minute))
	token, err := auth.ResolveToken(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, user.ID, token.UserID)

	expired := testhelpers.CreateTestToken(t, db, user.ID, now.Add(-time.Second))
	_, err = auth.ResolveToken(ctx, expired)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = auth.ResolveToken(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	auth := service.NewAuthService(db, time.Hour)
	user := testhelpers.CreateTestUser(t, db, "Bia")
	ctx := context.Background()

	token, _, err := auth.Login(ctx, user.Email, testhelpers.TestPassword)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, token.Code))
	_, err = auth.ResolveToken(ctx, token.Code)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	assert.ErrorIs(t, auth.Logout(ctx, token.Code), service.ErrInvalidToken)
	assert.ErrorIs(t, auth.Logout(ctx, ""), service.ErrAuthenticationRequired)

	var remaining int64
	require.NoError(t, db.Model(&models.Token{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestGetUser(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	auth := service.NewAuthService(db, time.Hour)
	user := testhelpers.CreateTestUser(t, db, "Pedro")

	got, err := auth.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pedro", got.Name)

	_, err = auth.GetUser(context.Background(), 999)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

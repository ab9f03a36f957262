package service

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"github.com/maheshrc27/postdeck/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesUser(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(context.Background(), &transfer.RegisterRequest{
		Email:    "  Real@Example.com ",
		Username: "real_user",
		Password: "secret1",
		FullName: "Real User",
	})
	require.NoError(t, err)
	assert.Equal(t, "real@example.com", user.Email)
	assert.Equal(t, "Real User", user.DisplayName)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, utils.CheckPassword("secret1", user.PasswordHash))
}

func TestRegister_Conflict(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", models.RoleUser)

	_, err := env.auth.Register(context.Background(), &transfer.RegisterRequest{
		Email: "alice@example.com", Username: "alice2", Password: "secret1",
	})
	assert.ErrorIs(t, err, ErrUserExists)

	status, _ := StatusOf(err)
	assert.Equal(t, Conflict, status)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	cases := map[string]transfer.RegisterRequest{
		"missing email":  {Username: "alice", Password: "secret1"},
		"bad email":      {Email: "nope", Username: "alice", Password: "secret1"},
		"short username": {Email: "a@example.com", Username: "al", Password: "secret1"},
		"bad username":   {Email: "a@example.com", Username: "al ice", Password: "secret1"},
		"short password": {Email: "a@example.com", Username: "alice", Password: "123"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), &req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "real", models.RoleUser)

	_, _, unknown := env.auth.Login(context.Background(), &transfer.LoginRequest{Email: "nouser@x.com", Password: "pw"})
	_, _, wrong := env.auth.Login(context.Background(), &transfer.LoginRequest{Email: "real@example.com", Password: "wrongpw"})

	require.Error(t, unknown)
	require.Error(t, wrong)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.ErrorIs(t, wrong, ErrInvalidCredentials)
	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestLogin_IssuesToken(t *testing.T) {
	env := newTestEnv(t)
	actor := env.register(t, "real", models.RoleUser)

	token, user, err := env.auth.Login(context.Background(), &transfer.LoginRequest{Email: "REAL@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, user.ID)
	assert.NotNil(t, user.LastLoginAt)

	authenticated, err := env.auth.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, authenticated.UserID)
	assert.Equal(t, models.RoleUser, authenticated.Role)

	stored, err := env.users.GetUserInfo(context.Background(), actor.UserID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.auth.Login(context.Background(), &transfer.LoginRequest{Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	actor := env.register(t, "real", models.RoleUser)

	token, user, err := env.auth.Refresh(context.Background(), actor.UserID)
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, user.ID)
	_, err = env.auth.Authenticate(context.Background(), token)
	assert.NoError(t, err)

	_, _, err = env.auth.Refresh(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_RejectsForeignTokens(t *testing.T) {
	env := newTestEnv(t)
	token, err := utils.GenerateToken("another-secret", 1, models.RoleAdmin, 0)
	require.NoError(t, err)

	_, err = env.auth.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.auth.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_UnknownEmailStillComparesPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "real", models.RoleUser)

	var hashes []string
	original := checkPassword
	checkPassword = func(password, hash string) error {
		hashes = append(hashes, hash)
		return original(password, hash)
	}
	t.Cleanup(func() { checkPassword = original })

	_, _, err := env.auth.Login(context.Background(), &transfer.LoginRequest{Email: "nouser@x.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.Len(t, hashes, 1)
	assert.NotEmpty(t, hashes[0])
	assert.ErrorIs(t, utils.CheckPassword("pw", hashes[0]), utils.ErrPasswordMismatch)

	_, _, err = env.auth.Login(context.Background(), &transfer.LoginRequest{Email: "real@example.com", Password: "wrongpw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Len(t, hashes, 2)
}

func TestAuthenticate_UsesStoredUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", models.RoleUser)

	elevated, err := utils.GenerateToken(env.cfg.SecretKey, alice.UserID, models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	actor, err := env.auth.Authenticate(context.Background(), elevated)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, actor.Role)

	gone, err := utils.GenerateToken(env.cfg.SecretKey, alice.UserID+100, models.RoleUser, time.Hour)
	require.NoError(t, err)
	_, err = env.auth.Authenticate(context.Background(), gone)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

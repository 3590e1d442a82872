package service_test

import (
	"context"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/internal/testutil"
	"quiz_rating_backend/internal/util"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memoryTokenStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]time.Duration{}
	}
	m.revoked[jti] = ttl
	return nil
}

func (m *memoryTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func TestAuthenticateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "5001", "correct-horse")

	p, err := f.auth.AuthenticateUser(ctx, "5001", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.ID)
	assert.Equal(t, model.RoleUser, p.Role)

	_, err = f.auth.AuthenticateUser(ctx, "5001", "wrong-password")
	assert.ErrorIs(t, err, util.ErrAuthFailure)

	_, err = f.auth.AuthenticateUser(ctx, "no-such-user", "correct-horse")
	assert.ErrorIs(t, err, util.ErrAuthFailure)
	assert.NotErrorIs(t, err, util.ErrNotFound)
}

func TestBlockedUserCannotAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "5002", "correct-horse")

	_, err := f.users.Block(ctx, user.ID)
	require.NoError(t, err)

	_, err = f.auth.AuthenticateUser(ctx, "5002", "correct-horse")
	require.ErrorIs(t, err, util.ErrAuthFailure)

	_, err = f.users.Unblock(ctx, user.ID)
	require.NoError(t, err)
	_, err = f.auth.AuthenticateUser(ctx, "5002", "correct-horse")
	assert.NoError(t, err)
}

func TestLoginAndVerifyToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "5003", "correct-horse")
	admin := testutil.CreateAdmin(t, f.db, "9001", "admin-pass")

	resp, err := f.auth.Login(ctx, model.RoleUser, service.LoginRequest{Number: "5003", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	p, claims, err := f.auth.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.ID)
	assert.Equal(t, "5003", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	resp, err = f.auth.Login(ctx, model.RoleAdmin, service.LoginRequest{Number: "9001", Password: "admin-pass"})
	require.NoError(t, err)
	p, _, err = f.auth.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, p.ID)
	assert.Equal(t, model.RoleAdmin, p.Role)

	// 用户账号不能以管理员身份登录
	_, err = f.auth.Login(ctx, model.RoleAdmin, service.LoginRequest{Number: "5003", Password: "correct-horse"})
	assert.ErrorIs(t, err, util.ErrAuthFailure)

	_, err = f.auth.Login(ctx, model.Role("root"), service.LoginRequest{Number: "5003", Password: "correct-horse"})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestVerifyTokenRejectsTamperedAndForeignTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "5004", "correct-horse")

	resp, err := f.auth.Login(ctx, model.RoleUser, service.LoginRequest{Number: "5004", Password: "correct-horse"})
	require.NoError(t, err)

	_, _, err = f.auth.VerifyToken(ctx, resp.Token+"x")
	assert.ErrorIs(t, err, util.ErrAuthFailure)

	foreign, _, err := util.GenerateJWT("5004", string(model.RoleUser), "another-secret-another-secret-xx", time.Hour)
	require.NoError(t, err)
	_, _, err = f.auth.VerifyToken(ctx, foreign)
	assert.ErrorIs(t, err, util.ErrAuthFailure)

	expired, _, err := util.GenerateJWT("5004", string(model.RoleUser), testutil.TestSecret, -time.Minute)
	require.NoError(t, err)
	_, _, err = f.auth.VerifyToken(ctx, expired)
	assert.ErrorIs(t, err, util.ErrAuthFailure)
}

func TestVerifyTokenAfterPrincipalDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "5005", "correct-horse")

	resp, err := f.auth.Login(ctx, model.RoleUser, service.LoginRequest{Number: "5005", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, user.ID))

	_, _, err = f.auth.VerifyToken(ctx, resp.Token)
	assert.ErrorIs(t, err, util.ErrPrincipalNotFound)
	assert.Equal(t, 401, util.StatusFor(err))
}

func TestVerifyTokenForBlockedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "5006", "correct-horse")

	resp, err := f.auth.Login(ctx, model.RoleUser, service.LoginRequest{Number: "5006", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = f.users.Block(ctx, user.ID)
	require.NoError(t, err)

	_, _, err = f.auth.VerifyToken(ctx, resp.Token)
	assert.ErrorIs(t, err, util.ErrAuthFailure)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "5007", "correct-horse")

	store := &memoryTokenStore{}
	auth := service.NewAuthService(
		repository.NewUserRepository(f.db),
		repository.NewAdminRepository(f.db),
		store,
		testutil.Config(),
	)

	resp, err := auth.Login(ctx, model.RoleUser, service.LoginRequest{Number: "5007", Password: "correct-horse"})
	require.NoError(t, err)
	_, claims, err := auth.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))
	ttl, ok := store.revoked[claims.ID]
	require.True(t, ok)
	assert.Greater(t, ttl, 59*time.Minute)

	_, _, err = auth.VerifyToken(ctx, resp.Token)
	assert.ErrorIs(t, err, util.ErrAuthFailure)

	// 新令牌不受影响
	resp, err = auth.Login(ctx, model.RoleUser, service.LoginRequest{Number: "5007", Password: "correct-horse"})
	require.NoError(t, err)
	_, _, err = auth.VerifyToken(ctx, resp.Token)
	assert.NoError(t, err)
}

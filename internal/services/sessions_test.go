package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/appointment-intake/internal/models"
	"github.com/harentsoaR/appointment-intake/internal/store"
	"github.com/harentsoaR/appointment-intake/internal/utils"
)

func TestMemorySessionStoreExpiry(t *testing.T) {
	s := NewMemorySessionStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", 1, time.Minute))
	require.NoError(t, s.Save(ctx, "b", 2, time.Hour))

	uid, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, uid)

	now = now.Add(2 * time.Minute)
	_, err = s.Load(ctx, "a")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, s.Prune())
	_, err = s.Load(ctx, "b")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func TestMemorySessionStoreDelete(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "a", 1, time.Hour))
	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))

	_, err := s.Load(ctx, "a")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func TestRedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	s := NewRedisSessionStore(rdb)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "sid", 42, time.Minute))
	assert.True(t, mr.Exists("session:sid"))

	uid, err := s.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 42, uid)

	mr.FastForward(2 * time.Minute)
	_, err = s.Load(ctx, "sid")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	require.NoError(t, s.Save(ctx, "other", 7, time.Minute))
	require.NoError(t, s.Delete(ctx, "other"))
	_, err = s.Load(ctx, "other")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func newTestSessionManager(t *testing.T) (*SessionManager, *CredentialService) {
	t.Helper()
	creds := NewCredentialService(store.NewMemoryUserStore(), "", "")
	require.NoError(t, creds.EnsureDefaultAdmin(context.Background()))
	return NewSessionManager(creds, NewMemorySessionStore(), []byte("test-secret"), time.Hour), creds
}

func TestSessionLoginResolveLogout(t *testing.T) {
	m, _ := newTestSessionManager(t)
	ctx := context.Background()

	token, u, err := m.Login(ctx, DefaultAdminUsername, DefaultAdminPassword)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.NotEmpty(t, token)

	resolved, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)

	require.NoError(t, m.Logout(ctx, token))
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func TestSessionLoginWrongPassword(t *testing.T) {
	m, _ := newTestSessionManager(t)
	_, _, err := m.Login(context.Background(), DefaultAdminUsername, "nope")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestSessionResolveRejectsGarbage(t *testing.T) {
	m, _ := newTestSessionManager(t)
	ctx := context.Background()

	for _, token := range []string{"", "not-a-jwt"} {
		_, err := m.Resolve(ctx, token)
		assert.ErrorIs(t, err, models.ErrNotAuthenticated)
	}

	// correctly signed, but for a session that was never opened
	forged, err := utils.GenerateJWT([]byte("test-secret"), "unknown-session", 1, time.Hour)
	require.NoError(t, err)
	_, err = m.Resolve(ctx, forged)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	assert.NoError(t, m.Logout(ctx, "not-a-jwt"))
}

func TestSessionEstablishForNewUser(t *testing.T) {
	m, creds := newTestSessionManager(t)
	ctx := context.Background()

	u, err := creds.CreateUser(ctx, "carol", "pw", false)
	require.NoError(t, err)
	token, err := m.Establish(ctx, u)
	require.NoError(t, err)

	resolved, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "carol", resolved.Username)
	assert.False(t, resolved.IsAdmin)
}

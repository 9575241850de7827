package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/appointment-intake/internal/models"
	"github.com/harentsoaR/appointment-intake/internal/utils"
)

// SessionStore maps live session IDs to the user they belong to.
// Load returns models.ErrNotAuthenticated for unknown or expired sessions.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, userID int, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (int, error)
	Delete(ctx context.Context, sessionID string) error
}

type memorySession struct {
	userID  int
	expires time.Time
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Save(_ context.Context, sessionID string, userID int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = memorySession{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return 0, models.ErrNotAuthenticated
	}
	if !s.now().Before(sess.expires) {
		delete(s.sessions, sessionID)
		return 0, models.ErrNotAuthenticated
	}
	return sess.userID, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Prune drops expired sessions and returns how many were removed.
func (s *MemorySessionStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.expires) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor prunes expired sessions every interval until ctx is done.
func (s *MemorySessionStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Prune(); n > 0 {
				log.Debug().Int("removed", n).Msg("pruned expired sessions")
			}
		}
	}
}

// RedisSessionStore keeps sessions in Redis so they survive restarts and are
// shared between instances.
type RedisSessionStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, prefix: "session:"}
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, userID int, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.prefix+sessionID, strconv.Itoa(userID), ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (int, error) {
	userID, err := s.rdb.Get(ctx, s.prefix+sessionID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, models.ErrNotAuthenticated
	}
	if err != nil {
		return 0, fmt.Errorf("redis load session: %w", err)
	}
	return userID, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, s.prefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// SessionManager is the authentication gate: it turns verified credentials
// into session tokens and tokens back into users.
type SessionManager struct {
	creds    *CredentialService
	sessions SessionStore
	secret   []byte
	ttl      time.Duration
}

func NewSessionManager(creds *CredentialService, sessions SessionStore, secret []byte, ttl time.Duration) *SessionManager {
	return &SessionManager{creds: creds, sessions: sessions, secret: secret, ttl: ttl}
}

// TTL is the lifetime of a new session.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Login verifies the credentials and opens a session.
func (m *SessionManager) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	u, err := m.creds.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := m.Establish(ctx, u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Establish opens a session for an already verified user.
func (m *SessionManager) Establish(ctx context.Context, u *models.User) (string, error) {
	sessionID := uuid.NewString()
	if err := m.sessions.Save(ctx, sessionID, u.ID, m.ttl); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	token, err := utils.GenerateJWT(m.secret, sessionID, u.ID, m.ttl)
	if err != nil {
		_ = m.sessions.Delete(ctx, sessionID)
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Resolve returns the user behind a session token, or ErrNotAuthenticated.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.ErrNotAuthenticated
	}
	claims, err := utils.ValidateJWT(m.secret, token)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}
	userID, err := m.sessions.Load(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if userID != claims.UserID {
		return nil, models.ErrNotAuthenticated
	}
	u, err := m.creds.User(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return u, nil
}

// Logout ends the session behind token. Unknown or invalid tokens are ignored.
func (m *SessionManager) Logout(ctx context.Context, token string) error {
	claims, err := utils.ValidateJWT(m.secret, token)
	if err != nil {
		return nil
	}
	return m.sessions.Delete(ctx, claims.SessionID())
}

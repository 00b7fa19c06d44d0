package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/anandk/placement/pkg/models"
)

var (
	ErrNoSession = errors.New("no active session")
	ErrExpired   = errors.New("session expired")
)

// Session is the signed-in identity persisted between process runs.
type Session struct {
	UserID       int64       `json:"user_id"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	Token        string      `json:"token"`
	RememberMe   bool        `json:"remember_me"`
	LastActivity int64       `json:"last_activity"`
}

// Manager keeps the current session in an encrypted file. The file holds a
// random 24-byte nonce followed by the secretbox-sealed JSON payload, so the
// session survives restarts without ever touching disk in the clear.
//
// Sessions without RememberMe expire after the configured inactivity window;
// Touch on each authenticated request keeps them alive.
type Manager struct {
	mu      sync.Mutex
	path    string
	key     [32]byte
	timeout time.Duration

	clock func() time.Time
}

func NewManager(path, secret string, timeout time.Duration) *Manager {
	return &Manager{
		path:    path,
		key:     sha256.Sum256([]byte(secret)),
		timeout: timeout,
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// Create starts a session for the user and persists it. Any previous session
// is replaced.
func (m *Manager) Create(user *models.User, rememberMe bool) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		Token:        uuid.NewString(),
		RememberMe:   rememberMe,
		LastActivity: m.clock().UnixMilli(),
	}
	if err := m.save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the live session, ErrNoSession when none exists, or
// ErrExpired when the inactivity window has lapsed (the stale file is
// cleared).
func (m *Manager) Current() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// IsLoggedIn reports whether a live session exists.
func (m *Manager) IsLoggedIn() bool {
	s, err := m.Current()
	return err == nil && s != nil
}

// Role returns the signed-in role, or the empty role without a session.
func (m *Manager) Role() models.Role {
	s, err := m.Current()
	if err != nil || s == nil {
		return ""
	}
	return s.Role
}

// Touch resets the inactivity clock.
func (m *Manager) Touch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load()
	if err != nil {
		return err
	}
	s.LastActivity = m.clock().UnixMilli()
	return m.save(s)
}

// Clear removes the session file.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clear()
}

func (m *Manager) clear() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (m *Manager) save(s *Session) error {
	plain, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &m.key)

	if err := os.WriteFile(m.path, sealed, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (m *Manager) load() (*Session, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(raw) < 24 {
		return nil, ErrNoSession
	}

	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &m.key)
	if !ok {
		// undecryptable file is treated as absent, not fatal
		return nil, ErrNoSession
	}

	var s Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return nil, ErrNoSession
	}

	if !s.RememberMe && m.timeout > 0 {
		idle := m.clock().Sub(time.UnixMilli(s.LastActivity))
		if idle > m.timeout {
			_ = m.clear()
			return nil, ErrExpired
		}
	}
	return &s, nil
}

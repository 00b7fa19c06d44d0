package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anandk/placement/pkg/models"
)

func newTestManager(t *testing.T, timeout time.Duration) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.bin")
	return NewManager(path, "test-secret", timeout)
}

func testUser() *models.User {
	return &models.User{ID: 7, Email: "alice@college.edu", Role: models.RoleStudent}
}

func TestSessionLifecycle(t *testing.T) {
	m := newTestManager(t, 30*time.Minute)

	if m.IsLoggedIn() {
		t.Fatalf("expected no session before Create")
	}
	if _, err := m.Current(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession got %v", err)
	}

	s, err := m.Create(testUser(), false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if s.Token == "" {
		t.Fatalf("expected a session token")
	}

	got, err := m.Current()
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if got.UserID != 7 || got.Role != models.RoleStudent || got.Token != s.Token {
		t.Fatalf("session round trip mismatch: %#v", got)
	}
	if !m.IsLoggedIn() {
		t.Fatalf("expected logged in")
	}
	if m.Role() != models.RoleStudent {
		t.Fatalf("expected student role got %q", m.Role())
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if m.IsLoggedIn() {
		t.Fatalf("expected logged out after Clear")
	}
	// clearing twice is fine
	if err := m.Clear(); err != nil {
		t.Fatalf("second Clear error: %v", err)
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")

	m1 := NewManager(path, "secret", 30*time.Minute)
	s, err := m1.Create(testUser(), false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// a fresh manager over the same file and secret sees the session
	m2 := NewManager(path, "secret", 30*time.Minute)
	got, err := m2.Current()
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if got.Token != s.Token {
		t.Fatalf("expected same session across restart")
	}

	// the wrong secret cannot read it
	m3 := NewManager(path, "other-secret", 30*time.Minute)
	if _, err := m3.Current(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession with wrong key, got %v", err)
	}
}

func TestSessionFileIsEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")
	m := NewManager(path, "secret", 30*time.Minute)
	if _, err := m.Create(testUser(), false); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read session file: %v", err)
	}
	for _, needle := range []string{"alice@college.edu", "user_id", "STUDENT"} {
		if containsBytes(raw, needle) {
			t.Fatalf("plaintext %q leaked into the session file", needle)
		}
	}
}

func containsBytes(raw []byte, s string) bool {
	needle := []byte(s)
	for i := 0; i+len(needle) <= len(raw); i++ {
		if string(raw[i:i+len(needle)]) == s {
			return true
		}
	}
	return false
}

func TestInactivityTimeout(t *testing.T) {
	m := newTestManager(t, 30*time.Minute)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m.clock = func() time.Time { return base }

	if _, err := m.Create(testUser(), false); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// within the window
	m.clock = func() time.Time { return base.Add(29 * time.Minute) }
	if _, err := m.Current(); err != nil {
		t.Fatalf("expected live session at 29m, got %v", err)
	}

	// Touch pushes the window forward
	if err := m.Touch(); err != nil {
		t.Fatalf("Touch error: %v", err)
	}
	m.clock = func() time.Time { return base.Add(58 * time.Minute) }
	if _, err := m.Current(); err != nil {
		t.Fatalf("expected live session after touch, got %v", err)
	}

	// past the window the session expires and the file is cleared
	m.clock = func() time.Time { return base.Add(2 * time.Hour) }
	if _, err := m.Current(); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired got %v", err)
	}
	if _, err := m.Current(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after expiry cleanup, got %v", err)
	}
}

func TestRememberMeBypassesTimeout(t *testing.T) {
	m := newTestManager(t, 30*time.Minute)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m.clock = func() time.Time { return base }

	if _, err := m.Create(testUser(), true); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	m.clock = func() time.Time { return base.Add(90 * 24 * time.Hour) }
	if _, err := m.Current(); err != nil {
		t.Fatalf("remember-me session should not expire, got %v", err)
	}
}

package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// Tokens is the persisted session.
type Tokens struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Store persists Tokens between studio runs.
type Store interface {
	// Load returns nil, nil when nothing is stored.
	Load() (*Tokens, error)
	Save(t *Tokens) error
	Clear() error
}

// tokenFile is the on-disk TOML layout.
type tokenFile struct {
	Session struct {
		UserID       string    `toml:"user_id"`
		Email        string    `toml:"email"`
		AccessToken  string    `toml:"access_token"`
		RefreshToken string    `toml:"refresh_token"`
		ExpiresAt    time.Time `toml:"expires_at"`
	} `toml:"session"`
}

// FileStore keeps the session in a TOML file readable only by the owner.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore at path. The file is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *FileStore) Load() (*Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var f tokenFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if f.Session.AccessToken == "" {
		return nil, nil
	}

	userID, err := uuid.Parse(f.Session.UserID)
	if err != nil {
		return nil, fmt.Errorf("decode session file: invalid user id: %w", err)
	}

	return &Tokens{
		UserID:       userID,
		Email:        f.Session.Email,
		AccessToken:  f.Session.AccessToken,
		RefreshToken: f.Session.RefreshToken,
		ExpiresAt:    f.Session.ExpiresAt,
	}, nil
}

// Save implements Store.
func (s *FileStore) Save(t *Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var f tokenFile
	f.Session.UserID = t.UserID.String()
	f.Session.Email = t.Email
	f.Session.AccessToken = t.AccessToken
	f.Session.RefreshToken = t.RefreshToken
	f.Session.ExpiresAt = t.ExpiresAt.UTC()

	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	return os.WriteFile(s.path, data, 0o600)
}

// Clear implements Store. Clearing a missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the session in memory only.
type MemoryStore struct {
	mu     sync.Mutex
	tokens *Tokens
}

// Load implements Store.
func (m *MemoryStore) Load() (*Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		return nil, nil
	}
	t := *m.tokens
	return &t, nil
}

// Save implements Store.
func (m *MemoryStore) Save(t *Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tokens = &cp
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = nil
	return nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/store"
)

type memoryUsers struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
	err     error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: map[string]domain.User{}}
}

func (m *memoryUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return store.ErrEmailExists
	}
	m.byEmail[u.Email] = *u
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (m *memoryUsers) WithTx(*sql.Tx) store.UserStore { return m }

type memoryProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]domain.Profile
	err      error
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{profiles: map[uuid.UUID]domain.Profile{}}
}

func (m *memoryProfiles) Get(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return &p, nil
}

func (m *memoryProfiles) Upsert(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.profiles[p.UserID] = *p
	return nil
}

func (m *memoryProfiles) WithTx(*sql.Tx) store.ProfileStore { return m }

var errDatabase = errors.New("database unavailable")

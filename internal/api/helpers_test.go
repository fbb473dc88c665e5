package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/api/middleware"
	"github.com/phrazzld/flashforge/internal/config"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/service"
	"github.com/phrazzld/flashforge/internal/service/auth"
	"github.com/phrazzld/flashforge/internal/store"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse battery"

// fakeAccounts is an in-memory AccountService.
type fakeAccounts struct {
	mu    sync.Mutex
	users map[string]domain.User
	err   error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: map[string]domain.User{}}
}

func (f *fakeAccounts) Register(_ context.Context, email, password string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}
	if _, ok := f.users[user.Email]; ok {
		return nil, fmt.Errorf("failed to create user: %w", store.ErrEmailExists)
	}
	f.users[user.Email] = *user
	return user, nil
}

func (f *fakeAccounts) Authenticate(_ context.Context, email, password string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || user.Password != password {
		return nil, service.ErrInvalidCredentials
	}
	return &user, nil
}

func (f *fakeAccounts) GetUser(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("failed to retrieve user: %w", store.ErrUserNotFound)
}

func (f *fakeAccounts) remove(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, email)
}

// fakeProfiles is an in-memory ProfileStore that validates like the
// postgres one.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]domain.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[uuid.UUID]domain.Profile{}}
}

func (f *fakeProfiles) Get(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p *domain.Profile) error {
	if err := p.Theme.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.UserID] = *p
	return nil
}

func (f *fakeProfiles) WithTx(*sql.Tx) store.ProfileStore { return f }

type testServer struct {
	router    http.Handler
	accounts  *fakeAccounts
	jwt       auth.JWTService
	generator generation.GeneratorFunc
}

// newTestServer wires the handlers onto a chi router laid out like the
// server's. gen may be nil when a test does not generate.
func newTestServer(t *testing.T, gen generation.GeneratorFunc) *testServer {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "api-handler-test-secret-with-32-chars",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	if gen == nil {
		gen = func(context.Context, domain.GenerationRequest) (domain.GenerationResult, error) {
			return domain.GenerationResult{}, generation.ErrGenerationFailed
		}
	}

	accounts := newFakeAccounts()
	authHandler := NewAuthHandler(accounts, jwtService)
	profileHandler := NewProfileHandler(service.NewProfileService(newFakeProfiles()))
	flashcardHandler := NewFlashcardHandler(gen, 0)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Get("/health", NewHealthHandler(func() string { return "closed" }).Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/profiles/{id}", profileHandler.GetProfile)
			r.Put("/profiles/{id}", profileHandler.UpdateProfile)
			r.Post("/flashcards", flashcardHandler.Generate)
		})
	})

	return &testServer{router: r, accounts: accounts, jwt: jwtService, generator: gen}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its auth response.
func (s *testServer) register(t *testing.T, email string) AuthResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{Email: email, Password: testPassword})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

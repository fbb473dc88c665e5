package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid registration",
			body:       RegisterRequest{Email: "new@example.com", Password: testPassword},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email",
			body:       RegisterRequest{Email: "not-an-email", Password: testPassword},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid email: invalid email format",
		},
		{
			name:       "short password",
			body:       RegisterRequest{Email: "short@example.com", Password: "short"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid password: too short",
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "duplicate email",
			body:       RegisterRequest{Email: "taken@example.com", Password: testPassword},
			wantStatus: http.StatusConflict,
			wantError:  "Email already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, nil)
			srv.register(t, "taken@example.com")

			w := srv.do(t, http.MethodPost, "/api/auth/register", "", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, w))
				return
			}

			var resp AuthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "new@example.com", resp.Email)
			assert.NotEmpty(t, resp.AccessToken)
			assert.NotEmpty(t, resp.RefreshToken)
			assert.True(t, resp.ExpiresAt.After(time.Now()))
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)
	registered := srv.register(t, "login@example.com")

	t.Run("success", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/auth/login", "",
			LoginRequest{Email: "Login@Example.com", Password: testPassword})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, registered.UserID, resp.UserID)
		assert.Equal(t, "login@example.com", resp.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/auth/login", "",
			LoginRequest{Email: "login@example.com", Password: "wrong password!!"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decodeError(t, w))
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/auth/login", "",
			LoginRequest{Email: "nobody@example.com", Password: testPassword})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decodeError(t, w))
	})

	t.Run("missing password", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "login@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("rotates the refresh token", func(t *testing.T) {
		srv := newTestServer(t, nil)
		first := srv.register(t, "refresh@example.com")

		w := srv.do(t, http.MethodPost, "/api/auth/refresh", "",
			RefreshTokenRequest{RefreshToken: first.RefreshToken})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var second AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
		assert.Equal(t, first.UserID, second.UserID)
		assert.Equal(t, "refresh@example.com", second.Email)
		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

		// the used token is spent
		w = srv.do(t, http.MethodPost, "/api/auth/refresh", "",
			RefreshTokenRequest{RefreshToken: first.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid refresh token", decodeError(t, w))
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		srv := newTestServer(t, nil)
		resp := srv.register(t, "wrongtype@example.com")

		w := srv.do(t, http.MethodPost, "/api/auth/refresh", "",
			RefreshTokenRequest{RefreshToken: resp.AccessToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted account", func(t *testing.T) {
		srv := newTestServer(t, nil)
		resp := srv.register(t, "gone@example.com")
		srv.accounts.remove("gone@example.com")

		w := srv.do(t, http.MethodPost, "/api/auth/refresh", "",
			RefreshTokenRequest{RefreshToken: resp.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		srv := newTestServer(t, nil)
		w := srv.do(t, http.MethodPost, "/api/auth/refresh", "", RefreshTokenRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)
	resp := srv.register(t, "logout@example.com")
	profilePath := "/api/profiles/" + resp.UserID.String()

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, profilePath, resp.AccessToken, nil).Code)

	w := srv.do(t, http.MethodPost, "/api/auth/logout", resp.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, profilePath, resp.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token revoked", decodeError(t, w))

	w = srv.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "session.toml")
	s := NewFileStore(path)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	want := &Tokens{
		UserID:       uuid.New(),
		Email:        "learner@example.com",
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	loaded, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is = = not toml"), 0o600))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	var s MemoryStore
	got, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Save(&Tokens{AccessToken: "a"}))
	got, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)

	require.NoError(t, s.Clear())
	got, _ = s.Load()
	assert.Nil(t, got)
}

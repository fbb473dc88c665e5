package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	theme := domain.ProfileTheme{FrontImageURL: "https://img.example/f.png"}

	t.Run("missing profile reads as empty theme", func(t *testing.T) {
		svc := NewProfileService(newMemoryProfiles())

		p, err := svc.Get(ctx, owner, owner)

		require.NoError(t, err)
		assert.Equal(t, owner, p.UserID)
		assert.Equal(t, domain.ProfileTheme{}, p.Theme)
	})

	t.Run("save then get", func(t *testing.T) {
		svc := NewProfileService(newMemoryProfiles())

		_, err := svc.Save(ctx, owner, owner, theme)
		require.NoError(t, err)

		p, err := svc.Get(ctx, owner, owner)
		require.NoError(t, err)
		assert.Equal(t, theme, p.Theme)
	})

	t.Run("other users are refused", func(t *testing.T) {
		svc := NewProfileService(newMemoryProfiles())
		intruder := uuid.New()

		_, err := svc.Get(ctx, intruder, owner)
		assert.ErrorIs(t, err, ErrNotOwned)

		_, err = svc.Save(ctx, intruder, owner, theme)
		assert.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		profiles := newMemoryProfiles()
		profiles.err = errDatabase
		svc := NewProfileService(profiles)

		_, err := svc.Get(ctx, owner, owner)
		assert.ErrorIs(t, err, errDatabase)

		_, err = svc.Save(ctx, owner, owner, theme)
		assert.ErrorIs(t, err, errDatabase)
	})
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/store"
)

// ProfileService reads and writes a user's card theme. Only the owner may do
// either.
type ProfileService struct {
	profiles store.ProfileStore
}

// NewProfileService creates a ProfileService.
func NewProfileService(profiles store.ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get returns the profile of owner. A user who never saved a theme gets an
// empty one.
func (s *ProfileService) Get(ctx context.Context, requester, owner uuid.UUID) (*domain.Profile, error) {
	if requester != owner {
		return nil, ErrNotOwned
	}

	p, err := s.profiles.Get(ctx, owner)
	if err != nil {
		if store.IsNotFoundError(err) {
			return &domain.Profile{UserID: owner}, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}

// Save replaces the theme of owner.
func (s *ProfileService) Save(ctx context.Context, requester, owner uuid.UUID, theme domain.ProfileTheme) (*domain.Profile, error) {
	if requester != owner {
		return nil, ErrNotOwned
	}

	p := &domain.Profile{UserID: owner, Theme: theme}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return p, nil
}

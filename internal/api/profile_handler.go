package api

import (
	"net/http"

	"github.com/phrazzld/flashforge/internal/api/shared"
	"github.com/phrazzld/flashforge/internal/service"
)

// ProfileHandler serves a user's card theme.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile handles GET /api/profiles/{id}.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	ownerID, err := getPathUUID(r, "id")
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID, ownerID)
	if err != nil {
		handleAPIError(w, r, err, shared.WithElevatedLogLevel())
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}

// UpdateProfile handles PUT /api/profiles/{id}.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	ownerID, err := getPathUUID(r, "id")
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	var req ProfileRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	profile, err := h.profiles.Save(r.Context(), userID, ownerID, req.Theme())
	if err != nil {
		handleAPIError(w, r, err, shared.WithElevatedLogLevel())
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}

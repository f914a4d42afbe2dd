// Package handler exposes the public profile endpoints.
package handler

import (
	"time"

	"lostpaws_backend/internal/profiles/repository"
	"lostpaws_backend/platform/apperr"
	"lostpaws_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfileResponse is the API shape of a public profile.
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatarUrl"`
	JoinedAt  string    `json:"joinedAt"`
}

// ProfileHandler handles profile HTTP requests.
type ProfileHandler struct {
	repo repository.ProfileRepository
}

// NewProfileHandler creates the profiles HTTP handler.
func NewProfileHandler(repo repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{repo: repo}
}

// Get handles GET /profiles/:id.
func (h *ProfileHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.ValidationFields("invalid profile id", []apperr.FieldError{
			{Field: "id", Message: "must be a valid UUID"},
		}))
		return
	}

	profile, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, ProfileResponse{
		ID:        profile.ID,
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
		JoinedAt:  profile.JoinedAt.UTC().Format(time.RFC3339),
	})
}

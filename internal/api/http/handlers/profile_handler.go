package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feed-service/internal/api/dto"
	"github.com/spec-kit/feed-service/internal/auth"
	apperrors "github.com/spec-kit/feed-service/pkg/util"
)

// ProfileHandler serves the authenticated member's own profile.
type ProfileHandler struct{}

// NewProfileHandler constructs handler.
func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Me handles GET /me.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("access token required")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "profile fetched successfully",
		"data": dto.UserResponse{
			ID:        principal.ID,
			Mobile:    principal.Mobile,
			Name:      principal.Name,
			CreatedAt: principal.CreatedAt,
		},
	})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feed-service/internal/api/dto"
	"github.com/spec-kit/feed-service/internal/service"
	apperrors "github.com/spec-kit/feed-service/pkg/util"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Mobile == "" || req.Name == "" {
		return apperrors.NewValidationError("mobile and name are required", nil)
	}

	user, err := h.auth.Register(c.Context(), req.Mobile, req.Name)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "user registered successfully",
		"data": fiber.Map{
			"userId": user.ID,
			"mobile": user.Mobile,
			"name":   user.Name,
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Mobile == "" || req.OTP == "" {
		return apperrors.NewValidationError("mobile and otp are required", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Mobile, req.OTP)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "login successful",
		"data": dto.LoginResponse{
			Token:     token,
			ExpiresAt: exp,
			User: dto.UserResponse{
				ID:        user.ID,
				Mobile:    user.Mobile,
				Name:      user.Name,
				CreatedAt: user.CreatedAt,
			},
		},
	})
}

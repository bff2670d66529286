package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feed-service/internal/api/dto"
	"github.com/spec-kit/feed-service/internal/auth"
	"github.com/spec-kit/feed-service/internal/domain"
	"github.com/spec-kit/feed-service/internal/service"
	apperrors "github.com/spec-kit/feed-service/pkg/util"
)

// PostsHandler manages feed post endpoints.
type PostsHandler struct {
	service *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{service: postService}
}

// Create handles POST /posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("access token required")
	}

	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.service.Create(c.Context(), principal.ID, service.PostInput{
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ImageBase64: req.ImageBase64,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "post created successfully",
		"data":    postResponse(post),
	})
}

// List handles GET /posts and GET /posts?mine=true.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("access token required")
	}

	mineOnly := c.Query("mine") == "true"
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	posts, err := h.service.List(c.Context(), principal.ID, mineOnly, limit, offset)
	if err != nil {
		return err
	}

	items := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, postResponse(&posts[i]))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "posts fetched successfully",
		"data":    items,
	})
}

// Get handles GET /posts/:id. The ownership guard has already fetched the
// post and verified the caller owns it.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	resource, ok := auth.ResourceFromContext(c)
	if !ok {
		return apperrors.NewInternalError(nil)
	}
	post, ok := resource.(*domain.Post)
	if !ok {
		return apperrors.NewInternalError(nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "post fetched successfully",
		"data":    postResponse(post),
	})
}

// Update handles PUT /posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("access token required")
	}

	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.service.Update(c.Context(), principal.ID, c.Params("id"), service.PostInput{
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ImageBase64: req.ImageBase64,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "post updated successfully",
		"data":    postResponse(post),
	})
}

// Delete handles DELETE /posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("access token required")
	}

	if err := h.service.Delete(c.Context(), principal.ID, c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "post deleted successfully",
	})
}

func postResponse(post *domain.Post) dto.PostResponse {
	return dto.PostResponse{
		ID:          post.ID,
		UserID:      post.UserID,
		Description: post.Description,
		ImageURL:    post.ImageURL,
		ImageBase64: post.ImageBase64,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

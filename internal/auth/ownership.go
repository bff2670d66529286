package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/feed-service/pkg/util"
)

const resourceKey = "auth_resource"

// OwnedResource is any resource that can report its owner.
type OwnedResource interface {
	OwnerID() string
}

// ResourceFetcher loads a resource by id. Implementations return
// pgx.ErrNoRows when the id is unknown.
type ResourceFetcher func(ctx context.Context, id string) (OwnedResource, error)

// RequireOwnership guards routes addressing a single resource by the :id
// path parameter. The resource must exist (404) and belong to the
// authenticated principal (403); existence is not hidden from non-owners.
// On success the resource is attached to the request context.
func RequireOwnership(fetch ResourceFetcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("access token required")
		}

		id := c.Params("id")
		if id == "" {
			return apperrors.NewValidationError("resource id required", nil)
		}

		resource, err := fetch(c.Context(), id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("resource", nil)
			}
			return apperrors.NewInternalError(err)
		}

		if resource.OwnerID() != principal.ID {
			return apperrors.NewForbidden("you can only access your own resources")
		}

		c.Locals(resourceKey, resource)
		return c.Next()
	}
}

// ResourceFromContext retrieves the resource attached by RequireOwnership.
func ResourceFromContext(c *fiber.Ctx) (OwnedResource, bool) {
	val := c.Locals(resourceKey)
	if val == nil {
		return nil, false
	}
	resource, ok := val.(OwnedResource)
	return resource, ok
}

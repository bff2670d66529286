package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/feed-service/internal/domain"
	apperrors "github.com/spec-kit/feed-service/pkg/util"
)

type fakeUserRepo struct {
	byID map[string]*domain.User
	err  error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	for _, user := range r.byID {
		if user.Mobile == mobile {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestApp(middleware *AuthMiddleware) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"success": false,
				"message": domainErr.Message,
			})
		},
	})
	app.Get("/protected", middleware.Handle, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"success": true, "data": principal.ID})
	})
	return app
}

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return req
}

func decodeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Message
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	repo := &fakeUserRepo{byID: map[string]*domain.User{}}
	app := newTestApp(NewAuthMiddleware(tm, repo, zap.NewNop()))

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc"} {
		resp, err := app.Test(authRequest(header), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	repo := &fakeUserRepo{byID: map[string]*domain.User{}}
	app := newTestApp(NewAuthMiddleware(tm, repo, zap.NewNop()))

	resp, err := app.Test(authRequest("Bearer this-is-not-a-token"), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "malformed token", decodeMessage(t, resp))
}

func TestAuthMiddleware_WrongSignature(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	repo := &fakeUserRepo{byID: map[string]*domain.User{}}
	app := newTestApp(NewAuthMiddleware(tm, repo, zap.NewNop()))

	foreign, _, err := NewTokenManager("other-secret", time.Hour).Issue("user-1")
	require.NoError(t, err)

	resp, err := app.Test(authRequest("Bearer "+foreign), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid token signature", decodeMessage(t, resp))
}

func TestAuthMiddleware_UnknownPrincipal(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	repo := &fakeUserRepo{byID: map[string]*domain.User{}}
	app := newTestApp(NewAuthMiddleware(tm, repo, zap.NewNop()))

	// Valid token for a user that no longer exists.
	token, _, err := tm.Issue("ghost")
	require.NoError(t, err)

	resp, err := app.Test(authRequest("Bearer "+token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "user not found for token", decodeMessage(t, resp))
}

func TestAuthMiddleware_DirectoryFailure(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	repo := &fakeUserRepo{byID: map[string]*domain.User{}, err: errors.New("connection refused")}
	app := newTestApp(NewAuthMiddleware(tm, repo, zap.NewNop()))

	token, _, err := tm.Issue("user-1")
	require.NoError(t, err)

	resp, err := app.Test(authRequest("Bearer "+token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	// Internal detail must never reach the client.
	assert.Equal(t, "internal server error", decodeMessage(t, resp))
}

func TestAuthMiddleware_Success(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	repo := &fakeUserRepo{byID: map[string]*domain.User{
		"user-1": {ID: "user-1", Mobile: "9999999999", Name: "Alice"},
	}}
	app := newTestApp(NewAuthMiddleware(tm, repo, zap.NewNop()))

	token, _, err := tm.Issue("user-1")
	require.NoError(t, err)

	resp, err := app.Test(authRequest("Bearer "+token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user-1", body.Data)
}

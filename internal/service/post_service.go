package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/feed-service/internal/config"
	"github.com/spec-kit/feed-service/internal/domain"
	"github.com/spec-kit/feed-service/internal/events"
	"github.com/spec-kit/feed-service/internal/repository"
	apperrors "github.com/spec-kit/feed-service/pkg/util"
)

const feedCacheKey = "feed:all"

// PostService coordinates post workflows and the global feed.
type PostService struct {
	posts      repository.PostRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	pageSize   int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PostDependencies bundles collaborators for the post service.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	Cache      *redis.Client
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// PostInput describes post create/update payloads.
type PostInput struct {
	Description string
	ImageURL    *string
	ImageBase64 *string
}

// NewPostService builds the service. Cache may be nil; listing then always
// hits the repository.
func NewPostService(cfg config.FeedConfig, deps PostDependencies) *PostService {
	pageSize := cfg.DefaultPageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return &PostService{
		posts:      deps.PostRepo,
		cache:      deps.Cache,
		cacheTTL:   cfg.CacheTTL(),
		pageSize:   pageSize,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Create stores a new post owned by ownerID.
func (s *PostService) Create(ctx context.Context, ownerID string, input PostInput) (*domain.Post, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}

	post := &domain.Post{
		UserID:      ownerID,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		ImageBase64: input.ImageBase64,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.invalidateFeedCache(ctx)
	s.publish(ctx, events.EventPostCreated, ownerID, events.PostCreatedPayload{
		PostID:      post.ID,
		Description: preview(post.Description),
		HasImage:    post.ImageURL != nil || post.ImageBase64 != nil,
	})
	return post, nil
}

// List returns the feed newest-first. With mineOnly the result is limited to
// the caller's own posts and bypasses the shared cache.
func (s *PostService) List(ctx context.Context, callerID string, mineOnly bool, limit, offset int) ([]domain.Post, error) {
	if limit <= 0 {
		limit = s.pageSize
	}

	if mineOnly {
		return s.posts.ListByOwner(ctx, callerID, limit, offset)
	}

	if posts, ok := s.feedFromCache(ctx, limit, offset); ok {
		return posts, nil
	}

	posts, err := s.posts.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	s.storeFeedCache(ctx, posts, limit, offset)
	return posts, nil
}

// Get loads a single post by id.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Update rewrites the content fields of a post the caller owns. The
// ownership condition and the write execute as one statement at the store.
func (s *PostService) Update(ctx context.Context, ownerID, postID string, input PostInput) (*domain.Post, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}

	post := &domain.Post{
		ID:          postID,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		ImageBase64: input.ImageBase64,
	}
	if err := s.posts.UpdateIfOwner(ctx, post, ownerID); err != nil {
		return nil, classifyOwnedMutation(err)
	}

	s.invalidateFeedCache(ctx)
	s.publish(ctx, events.EventPostUpdated, ownerID, events.PostUpdatedPayload{PostID: postID})
	return post, nil
}

// Delete removes a post the caller owns.
func (s *PostService) Delete(ctx context.Context, ownerID, postID string) error {
	if err := s.posts.DeleteIfOwner(ctx, postID, ownerID); err != nil {
		return classifyOwnedMutation(err)
	}

	s.invalidateFeedCache(ctx)
	s.publish(ctx, events.EventPostDeleted, ownerID, events.PostDeletedPayload{PostID: postID})
	return nil
}

func classifyOwnedMutation(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("post", nil)
	case errors.Is(err, repository.ErrNotOwner):
		return apperrors.NewForbidden("you can only modify your own posts")
	default:
		return err
	}
}

func (s *PostService) feedFromCache(ctx context.Context, limit, offset int) ([]domain.Post, bool) {
	if s.cache == nil || s.cacheTTL <= 0 || offset != 0 || limit != s.pageSize {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, feedCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Warn("feed cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false
	}
	return posts, true
}

func (s *PostService) storeFeedCache(ctx context.Context, posts []domain.Post, limit, offset int) {
	if s.cache == nil || s.cacheTTL <= 0 || offset != 0 || limit != s.pageSize {
		return
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, feedCacheKey, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("feed cache write failed", zap.Error(err))
	}
}

func (s *PostService) invalidateFeedCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, feedCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Warn("feed cache invalidation failed", zap.Error(err))
	}
}

func (s *PostService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func preview(text string) string {
	const max = 80
	if len(text) <= max {
		return text
	}
	return text[:max]
}

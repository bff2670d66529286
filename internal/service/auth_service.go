package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/feed-service/internal/auth"
	"github.com/spec-kit/feed-service/internal/config"
	"github.com/spec-kit/feed-service/internal/domain"
	"github.com/spec-kit/feed-service/internal/events"
	"github.com/spec-kit/feed-service/internal/repository"
	apperrors "github.com/spec-kit/feed-service/pkg/util"
)

// AuthService coordinates registration and the OTP login flow.
type AuthService struct {
	users      repository.UserRepository
	otp        *auth.OTPValidator
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		otp:        auth.NewOTPValidator(cfg.StaticOTP),
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		dispatcher: deps.Dispatcher,
	}
}

// Register creates a new member. Duplicate mobiles are rejected before the
// insert; the unique index backs the check under concurrency.
func (s *AuthService) Register(ctx context.Context, mobile, name string) (*domain.User, error) {
	if _, err := s.users.GetByMobile(ctx, mobile); err == nil {
		return nil, apperrors.NewValidationError("user already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user := &domain.User{
		Mobile: mobile,
		Name:   name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Mobile: user.Mobile,
		Name:   user.Name,
	})
	return user, nil
}

// Login validates the static OTP and issues a bearer token for the user.
func (s *AuthService) Login(ctx context.Context, mobile, otp string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewNotFound("user", nil)
		}
		return nil, "", time.Time{}, err
	}

	if !s.otp.Validate(otp) {
		return nil, "", time.Time{}, apperrors.NewValidationError("invalid otp", nil)
	}

	token, exp, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
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

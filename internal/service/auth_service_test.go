package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/feed-service/internal/config"
	"github.com/spec-kit/feed-service/internal/domain"
	"github.com/spec-kit/feed-service/internal/events"
	apperrors "github.com/spec-kit/feed-service/pkg/util"
)

type fakeUserRepo struct {
	byID     map[string]*domain.User
	byMobile map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:     map[string]*domain.User{},
		byMobile: map[string]*domain.User{},
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byID[user.ID] = user
	r.byMobile[user.Mobile] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	user, ok := r.byMobile[mobile]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTLHours: 1,
		StaticOTP:     "123456",
	}
}

func TestAuthService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventUserRegistered, func(ctx context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo, Dispatcher: dispatcher})

	user, err := svc.Register(context.Background(), "9999999999", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "9999999999", user.Mobile)
	assert.Equal(t, "Alice", user.Name)
	require.Len(t, published, 1)
	assert.Equal(t, user.ID, published[0].UserID)
}

func TestAuthService_RegisterDuplicateMobile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo})

	_, err := svc.Register(context.Background(), "9999999999", "Alice")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "9999999999", "Mallory")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Equal(t, "user already exists", domainErr.Message)
}

func TestAuthService_LoginUnknownMobile(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: newFakeUserRepo()})

	_, _, _, err := svc.Login(context.Background(), "0000000000", "123456")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}

func TestAuthService_LoginWrongOTP(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo})

	_, err := svc.Register(context.Background(), "9999999999", "Alice")
	require.NoError(t, err)

	// Any code other than the configured one fails, regardless of mobile.
	for _, otp := range []string{"000000", "12345", "1234567", ""} {
		_, _, _, err := svc.Login(context.Background(), "9999999999", otp)
		require.Error(t, err, "otp %q", otp)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
		assert.Equal(t, "invalid otp", domainErr.Message)
	}
}

func TestAuthService_LoginIssuesVerifiableToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo})

	registered, err := svc.Register(context.Background(), "9999999999", "Alice")
	require.NoError(t, err)

	user, token, exp, err := svc.Login(context.Background(), "9999999999", "123456")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.True(t, exp.After(time.Now()))

	// The issued credential round-trips through the token manager.
	userID, err := svc.TokenManager().Parse(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)

	// The static code is not consumed: a second login succeeds.
	_, _, _, err = svc.Login(context.Background(), "9999999999", "123456")
	require.NoError(t, err)
}

package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	tm := NewTokenManager("test-secret-key", time.Hour)

	token, exp, err := tm.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	// Verification is stateless and idempotent.
	for i := 0; i < 3; i++ {
		userID, err := tm.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", userID)
	}
}

func TestTokenManager_WrongKey(t *testing.T) {
	tm := NewTokenManager("test-secret-key", time.Hour)
	other := NewTokenManager("a-different-key", time.Hour)

	token, _, err := other.Issue("user-123")
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret-key", time.Hour)

	// Signed with the right key but already past its expiry.
	claims := &Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_Malformed(t *testing.T) {
	tm := NewTokenManager("test-secret-key", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt-token"},
		{name: "three garbage segments", token: "header.payload.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Parse(tt.token)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestTokenManager_WrongSigningMethod(t *testing.T) {
	tm := NewTokenManager("test-secret-key", time.Hour)

	// "none" algorithm must never be accepted.
	claims := &Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	require.Error(t, err)
}

func TestTokenManager_MissingUserID(t *testing.T) {
	tm := NewTokenManager("test-secret-key", time.Hour)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenManager_DefaultTTL(t *testing.T) {
	tm := NewTokenManager("test-secret-key", 0)

	_, exp, err := tm.Issue("user-123")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), exp, 5*time.Second)
}

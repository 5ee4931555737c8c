package utils

import (
	"testing"
	"time"

	"mentor-scheduler/core/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	userID := uuid.New()
	claims := TokenClaims{UserID: userID, UserType: "member", SessionID: "s-1"}

	signed, err := GenerateToken(claims, "secret", "host", time.Hour)
	require.NoError(t, err)

	got, appErr := ParseToken(signed, "secret", "host")
	require.Nil(t, appErr)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "member", got.UserType)
	assert.Equal(t, "s-1", got.SessionKey())
}

func TestParseTokenRejects(t *testing.T) {
	claims := TokenClaims{UserID: uuid.New(), UserType: "member"}

	expired, err := GenerateToken(claims, "secret", "", -time.Minute)
	require.NoError(t, err)
	valid, err := GenerateToken(claims, "secret", "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
		issuer string
		code   errors.ErrorCode
	}{
		{"empty", "", "secret", "", errors.ErrMissingAuthorizationHeader},
		{"garbage", "not-a-token", "secret", "", errors.ErrInvalidTokenFormat},
		{"wrong secret", valid, "other", "", errors.ErrInvalidTokenFormat},
		{"wrong issuer", valid, "secret", "host", errors.ErrInvalidTokenFormat},
		{"expired", expired, "secret", "", errors.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, appErr := ParseToken(tt.token, tt.secret, tt.issuer)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestSessionKeyFallback(t *testing.T) {
	id := uuid.New()
	c := TokenClaims{UserID: id, UserType: "member"}
	assert.Equal(t, "member:"+id.String(), c.SessionKey())
}

func TestGenerateSlug(t *testing.T) {
	s := GenerateSlug("Ana Calendar")
	assert.Regexp(t, `^ana-calendar-[0-9a-z]{7}$`, s)
	assert.NotEqual(t, s, GenerateSlug("Ana Calendar"))
}

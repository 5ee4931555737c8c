package utils

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"mentor-scheduler/core/config"
	"mentor-scheduler/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the identity issued by the host platform.
type TokenClaims struct {
	UserID    uuid.UUID `json:"sub"`
	UserType  string    `json:"typ"`
	SessionID string    `json:"sid"`
}

type jwtClaims struct {
	UserType  string `json:"typ"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionKey identifies the session the acting mode is stored under. Tokens
// without a sid fall back to the identity itself.
func (c *TokenClaims) SessionKey() string {
	if c.SessionID != "" {
		return c.SessionID
	}
	return c.UserType + ":" + c.UserID.String()
}

func ValidateAndParseToken(tokenString string) (*TokenClaims, *errors.AppError) {
	cfg := config.Get()
	return ParseToken(tokenString, cfg.JWT.Secret, cfg.JWT.Issuer)
}

func ParseToken(tokenString, secret, issuer string) (*TokenClaims, *errors.AppError) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, errors.NewAppError(errors.ErrMissingAuthorizationHeader, "missing token", nil)
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "token expired", err)
		}
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", err)
	}
	if !token.Valid {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", nil)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid subject", err)
	}

	return &TokenClaims{
		UserID:    userID,
		UserType:  claims.UserType,
		SessionID: claims.SessionID,
	}, nil
}

// GenerateToken signs claims for ttl. The host platform issues real tokens;
// this exists for local tooling and tests.
func GenerateToken(claims TokenClaims, secret, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := jwtClaims{
		UserType:  claims.UserType,
		SessionID: claims.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

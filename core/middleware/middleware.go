package middleware

import (
	"net/http"
	"strings"
	"time"

	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/controller"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/logger"
	"mentor-scheduler/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	secret string
	issuer string
}

func NewMiddleware(secret, issuer string) *Middleware {
	return &Middleware{secret: secret, issuer: issuer}
}

// AuthMiddleware verifies the bearer token and stores its claims under
// constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrMissingAuthorizationHeader, "Missing authorization header")
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrInvalidTokenFormat, "Invalid authorization header format")
			}

			claims, appErr := utils.ParseToken(token, m.secret, m.issuer)
			if appErr != nil {
				logger.Warn("Middleware:AuthMiddleware:ParseToken", "code", appErr.Code)
				return controller.NewErrorResponse(http.StatusUnauthorized, appErr.Code, appErr.Message)
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RequestLogger logs one line per request.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("HTTP",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency", time.Since(start).String(),
			)
			return nil
		}
	}
}

// TokenClaims returns the claims stored by AuthMiddleware.
func TokenClaims(c echo.Context) (*utils.TokenClaims, bool) {
	claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
	return claims, ok && claims != nil
}

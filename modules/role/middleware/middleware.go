package middleware

import (
	"context"
	"net/http"

	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/controller"
	"mentor-scheduler/core/errors"
	coreMiddleware "mentor-scheduler/core/middleware"
	"mentor-scheduler/core/utils"
	"mentor-scheduler/modules/role/entity"

	"github.com/labstack/echo/v4"
)

// Resolver builds the request's role context from token claims.
type Resolver interface {
	Resolve(ctx context.Context, claims *utils.TokenClaims) (*entity.RequestContext, *errors.AppError)
}

// Resolve runs after AuthMiddleware and stores the resolved
// *entity.RequestContext under constants.ContextRequestContext.
func Resolve(resolver Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := coreMiddleware.TokenClaims(c)
			if !ok {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "Unauthorized")
			}

			rc, appErr := resolver.Resolve(c.Request().Context(), claims)
			if appErr != nil {
				return controller.NewErrorResponse(controller.StatusFor(appErr.Code), appErr.Code, appErr.Message)
			}

			c.Set(constants.ContextRequestContext, rc)
			return next(c)
		}
	}
}

// Current returns the role context stored by Resolve. Handlers mounted
// outside the private group get an empty context, which fails every guard.
func Current(c echo.Context) *entity.RequestContext {
	if rc, ok := c.Get(constants.ContextRequestContext).(*entity.RequestContext); ok && rc != nil {
		return rc
	}
	return &entity.RequestContext{}
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/utils"
	"mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	err *errors.AppError
}

func (f fakeResolver) Resolve(_ context.Context, claims *utils.TokenClaims) (*entity.RequestContext, *errors.AppError) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.RequestContext{
		Identity:   entity.Identity{UserType: claims.UserType, UserID: claims.UserID},
		SessionKey: claims.SessionID,
		Mode:       entity.ModePartner,
	}, nil
}

func TestResolve(t *testing.T) {
	claims := &utils.TokenClaims{UserID: uuid.New(), UserType: "member", SessionID: "s-1"}

	tests := []struct {
		name     string
		claims   *utils.TokenClaims
		resolver fakeResolver
		status   int
		session  string
	}{
		{"no claims", nil, fakeResolver{}, http.StatusUnauthorized, ""},
		{"resolver fails", claims, fakeResolver{err: errors.New(errors.ErrUnauthorized, "nope")}, http.StatusUnauthorized, ""},
		{"resolved", claims, fakeResolver{}, http.StatusOK, "s-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			setClaims := func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					if tt.claims != nil {
						c.Set(constants.ContextTokenData, tt.claims)
					}
					return next(c)
				}
			}
			e.GET("/", func(c echo.Context) error {
				return c.String(http.StatusOK, Current(c).SessionKey)
			}, setClaims, Resolve(tt.resolver))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.session, rec.Body.String())
			}
		})
	}
}

func TestCurrentWithoutResolve(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	rc := Current(c)
	_, appErr := rc.RequireAnyRole()
	assert.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

package controller

import (
	"net/http"
	"strings"

	"mentor-scheduler/core/controller"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/modules/feed/service"
	roleMiddleware "mentor-scheduler/modules/role/middleware"

	"github.com/labstack/echo/v4"
)

type FeedController struct {
	controller.BaseController
	service service.FeedServiceInterface
}

func NewFeedController(service service.FeedServiceInterface) *FeedController {
	return &FeedController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// PublicFeed serves a public calendar as iCalendar
// @Summary Public calendar feed
// @Tags Feed
// @Produce text/calendar
// @Param slug path string true "Calendar slug"
// @Success 200 {string} string "text/calendar"
// @Failure 404 {object} controller.ErrorResponse
// @Router /public/calendars/{slug}/feed.ics [get]
func (c *FeedController) PublicFeed(ctx echo.Context) error {
	slug := strings.TrimSpace(ctx.Param("slug"))
	if slug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar slug")
	}

	body, appErr := c.service.PublicFeed(ctx.Request().Context(), slug)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+slug+`.ics"`)
	return ctx.Blob(http.StatusOK, service.ContentType, body)
}

// Publish uploads the acting role's feed to object storage
// @Summary Publish my calendar feed
// @Tags Feed
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PublishResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/calendar/feed/publish [post]
func (c *FeedController) Publish(ctx echo.Context) error {
	result, appErr := c.service.Publish(ctx.Request().Context(), roleMiddleware.Current(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Feed published")
}

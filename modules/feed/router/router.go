package router

import (
	"mentor-scheduler/modules/feed/controller"

	"github.com/labstack/echo/v4"
)

type FeedRouter struct {
	controller *controller.FeedController
}

func NewFeedRouter(controller *controller.FeedController) *FeedRouter {
	return &FeedRouter{controller: controller}
}

// Setup registers the anonymous feed on public and publishing on private.
func (r *FeedRouter) Setup(public, private *echo.Group) {
	public.GET("/calendars/:slug/feed.ics", r.controller.PublicFeed)
	private.POST("/calendar/feed/publish", r.controller.Publish)
}

package feed

import (
	"mentor-scheduler/modules/feed/controller"
	"mentor-scheduler/modules/feed/router"
	"mentor-scheduler/modules/feed/service"

	"github.com/labstack/echo/v4"
)

func Init(public, private *echo.Group, calendars service.CalendarLookup, events service.EventProjector, store service.ObjectStore, prefix, publicURL string) {
	svc := service.NewFeedService(calendars, events, store, prefix, publicURL)
	ctrl := controller.NewFeedController(svc)
	router.NewFeedRouter(ctrl).Setup(public, private)
}

package router

import (
	"mentor-scheduler/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Setup(private *echo.Group) {
	// Own calendar
	private.GET("/calendar", r.controller.GetOwn)
	private.PUT("/calendar", r.controller.UpdateOwn)

	// Any calendar
	calendarRoutes := private.Group("/calendars")
	calendarRoutes.GET("/:id", r.controller.GetByID)
	calendarRoutes.GET("/:id/availability", r.controller.Availability)
	calendarRoutes.GET("/:id/slots", r.controller.Slots)
	calendarRoutes.GET("/:id/day", r.controller.Day)
}

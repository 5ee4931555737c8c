package calendar

import (
	"mentor-scheduler/core/database"
	"mentor-scheduler/modules/calendar/controller"
	"mentor-scheduler/modules/calendar/repository"
	"mentor-scheduler/modules/calendar/router"
	"mentor-scheduler/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

func Init(private *echo.Group, db database.IDatabase, events service.EventProjector, names service.NameDirectory) service.CalendarService {
	// Initialize layers
	repo := repository.NewCalendarRepository(db)
	calendarService := service.NewCalendarService(repo, events, names)
	calendarController := controller.NewCalendarController(calendarService)

	// Setup routes
	router.NewCalendarRouter(calendarController).Setup(private)

	return calendarService
}

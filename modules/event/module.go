package event

import (
	"mentor-scheduler/core/database"
	"mentor-scheduler/modules/event/controller"
	"mentor-scheduler/modules/event/repository"
	"mentor-scheduler/modules/event/router"
	"mentor-scheduler/modules/event/service"

	"github.com/labstack/echo/v4"
)

// NewService builds the event service. It is created before any routes so the
// calendar module can project events through it.
func NewService(db database.IDatabase, directory service.Directory, classes service.ClassNames, notifier service.Notifier) *service.EventService {
	repo := repository.NewEventRepository(db)
	return service.NewEventService(repo, directory, classes, notifier)
}

// Init registers the event routes
func Init(private *echo.Group, svc service.EventServiceInterface) {
	ctrl := controller.NewEventController(svc)
	router.NewEventRouter(ctrl).Setup(private)
}

package class

import (
	"mentor-scheduler/core/database"
	"mentor-scheduler/modules/class/controller"
	"mentor-scheduler/modules/class/repository"
	"mentor-scheduler/modules/class/router"
	"mentor-scheduler/modules/class/service"

	"github.com/labstack/echo/v4"
)

func NewService(db database.IDatabase) service.ClassServiceInterface {
	return service.NewClassService(repository.NewClassRepository(db))
}

func Init(private *echo.Group, svc service.ClassServiceInterface) {
	ctrl := controller.NewClassController(svc)
	router.NewClassRouter(ctrl).Register(private)
}

package notification

import (
	"mentor-scheduler/core/database"
	"mentor-scheduler/modules/notification/controller"
	"mentor-scheduler/modules/notification/repository"
	"mentor-scheduler/modules/notification/router"
	"mentor-scheduler/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func NewService(db database.Querier) *service.NotificationService {
	return service.NewNotificationService(repository.NewNotificationRepository(db))
}

func Init(private *echo.Group, svc service.NotificationServiceInterface) {
	ctrl := controller.NewNotificationController(svc)
	router.NewNotificationRouter(ctrl).Register(private)
}

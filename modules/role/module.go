package role

import (
	"mentor-scheduler/core/database"
	"mentor-scheduler/modules/role/controller"
	"mentor-scheduler/modules/role/repository"
	"mentor-scheduler/modules/role/router"
	"mentor-scheduler/modules/role/service"

	"github.com/labstack/echo/v4"
)

// NewService builds the role service. It is created before the private
// group because the group's middleware needs it to resolve sessions.
func NewService(db database.IDatabase, modes service.ModeStore, classes service.ClassDirectory) service.RoleServiceInterface {
	return service.NewRoleService(repository.NewRoleRepository(db), modes, classes)
}

func Init(private *echo.Group, svc service.RoleServiceInterface) {
	ctrl := controller.NewRoleController(svc)
	router.NewRoleRouter(ctrl).Register(private)
}

package router

import (
	"mentor-scheduler/modules/role/controller"

	"github.com/labstack/echo/v4"
)

type RoleRouter struct {
	RoleController *controller.RoleController
}

func NewRoleRouter(roleController *controller.RoleController) *RoleRouter {
	return &RoleRouter{RoleController: roleController}
}

func (r *RoleRouter) Register(private *echo.Group) {
	private.GET("/mode", r.RoleController.GetMode)
	private.POST("/mode", r.RoleController.SwitchMode)
	private.POST("/leaders", r.RoleController.RegisterLeader)
	private.POST("/partners", r.RoleController.RegisterPartner)
	private.GET("/me", r.RoleController.Me)
}

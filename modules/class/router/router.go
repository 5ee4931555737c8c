package router

import (
	"mentor-scheduler/modules/class/controller"

	"github.com/labstack/echo/v4"
)

type ClassRouter struct {
	ClassController *controller.ClassController
}

func NewClassRouter(classController *controller.ClassController) *ClassRouter {
	return &ClassRouter{ClassController: classController}
}

// Register mounts class routes on the authenticated /private group.
func (r *ClassRouter) Register(private *echo.Group) {
	private.GET("/classes", r.ClassController.ListMine)
}

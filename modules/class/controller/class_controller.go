package controller

import (
	"mentor-scheduler/core/controller"
	"mentor-scheduler/core/params"
	"mentor-scheduler/modules/class/service"
	roleMiddleware "mentor-scheduler/modules/role/middleware"

	"github.com/labstack/echo/v4"
)

type ClassController struct {
	controller.BaseController
	ClassService service.ClassServiceInterface
}

func NewClassController(svc service.ClassServiceInterface) *ClassController {
	return &ClassController{
		BaseController: controller.NewBaseController(),
		ClassService:   svc,
	}
}

// ListMine handles GET /classes
// @Summary List my classes
// @Tags Class
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.PaginatedClassResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /private/classes [get]
func (c *ClassController) ListMine(ctx echo.Context) error {
	rc := roleMiddleware.Current(ctx)
	queryParams := params.NewQueryParams(ctx)

	result, appErr := c.ClassService.ListMine(ctx.Request().Context(), rc, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Classes retrieved successfully")
}

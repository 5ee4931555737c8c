package controller

import (
	"mentor-scheduler/core/controller"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/modules/role/dto"
	roleMiddleware "mentor-scheduler/modules/role/middleware"
	"mentor-scheduler/modules/role/service"

	"github.com/labstack/echo/v4"
)

type RoleController struct {
	controller.BaseController
	RoleService service.RoleServiceInterface
}

func NewRoleController(svc service.RoleServiceInterface) *RoleController {
	return &RoleController{
		BaseController: controller.NewBaseController(),
		RoleService:    svc,
	}
}

// GetMode handles GET /mode
// @Summary Get acting mode
// @Tags Role
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ModeResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /private/mode [get]
func (c *RoleController) GetMode(ctx echo.Context) error {
	rc := roleMiddleware.Current(ctx)
	return c.SuccessResponse(ctx, c.RoleService.GetMode(ctx.Request().Context(), rc), "Mode retrieved successfully")
}

// SwitchMode handles POST /mode
// @Summary Switch acting mode
// @Tags Role
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SwitchModeRequest true "Requested mode"
// @Success 200 {object} dto.ModeResponse
// @Failure 401 {object} controller.ErrorResponse
// @Failure 422 {object} controller.ErrorResponse
// @Router /private/mode [post]
func (c *RoleController) SwitchMode(ctx echo.Context) error {
	var req dto.SwitchModeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", err.Error())
	}

	rc := roleMiddleware.Current(ctx)
	result, appErr := c.RoleService.SwitchMode(ctx.Request().Context(), rc, req.Mode)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Mode switched successfully")
}

// RegisterLeader handles POST /leaders
// @Summary Register a leader profile
// @Description Creates the leader profile and its calendar
// @Tags Role
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RegisterProfileRequest true "Profile"
// @Success 201 {object} dto.RegisterProfileResponse
// @Failure 409 {object} controller.ErrorResponse
// @Failure 422 {object} controller.ErrorResponse
// @Router /private/leaders [post]
func (c *RoleController) RegisterLeader(ctx echo.Context) error {
	var req dto.RegisterProfileRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", err.Error())
	}

	result, appErr := c.RoleService.RegisterLeader(ctx.Request().Context(), roleMiddleware.Current(ctx), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Leader registered successfully")
}

// RegisterPartner handles POST /partners
// @Summary Register a partner profile
// @Description Creates the partner profile and its calendar
// @Tags Role
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RegisterProfileRequest true "Profile"
// @Success 201 {object} dto.RegisterProfileResponse
// @Failure 409 {object} controller.ErrorResponse
// @Failure 422 {object} controller.ErrorResponse
// @Router /private/partners [post]
func (c *RoleController) RegisterPartner(ctx echo.Context) error {
	var req dto.RegisterProfileRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", err.Error())
	}

	result, appErr := c.RoleService.RegisterPartner(ctx.Request().Context(), roleMiddleware.Current(ctx), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Partner registered successfully")
}

// Me handles GET /me
// @Summary Current identity and profiles
// @Tags Role
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MeResponse
// @Router /private/me [get]
func (c *RoleController) Me(ctx echo.Context) error {
	rc := roleMiddleware.Current(ctx)
	return c.SuccessResponse(ctx, c.RoleService.Me(ctx.Request().Context(), rc), "Profile retrieved successfully")
}

package controller

import (
	"strconv"
	"time"

	"mentor-scheduler/core/controller"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/params"
	"mentor-scheduler/modules/calendar/dto"
	"mentor-scheduler/modules/calendar/service"
	roleMiddleware "mentor-scheduler/modules/role/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	service service.CalendarService
}

func NewCalendarController(service service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// GetOwn returns the acting role's calendar with its events
// GET /api/v1/private/calendar?start=...&end=...&type=...
// @Summary Get my calendar
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param start query string false "Range start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Range end (RFC3339 or YYYY-MM-DD)"
// @Param type query string false "Event type filter"
// @Success 200 {object} dto.CalendarResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /private/calendar [get]
func (c *CalendarController) GetOwn(ctx echo.Context) error {
	q := params.NewQueryParams(ctx)

	result, appErr := c.service.GetOwn(ctx.Request().Context(), roleMiddleware.Current(ctx), *q)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar retrieved successfully")
}

// GetByID returns any calendar, with events projected for the viewer
// GET /api/v1/private/calendars/:id
// @Summary Get a calendar
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param id path string true "Calendar ID"
// @Success 200 {object} dto.CalendarResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /private/calendars/{id} [get]
func (c *CalendarController) GetByID(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID", nil)
	}
	q := params.NewQueryParams(ctx)

	result, appErr := c.service.GetByID(ctx.Request().Context(), roleMiddleware.Current(ctx), id, *q)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar retrieved successfully")
}

// UpdateOwn changes the acting role's calendar policy
// PUT /api/v1/private/calendar
// @Summary Update my calendar
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateCalendarRequest true "Calendar fields"
// @Success 200 {object} dto.CalendarResponse
// @Failure 422 {object} controller.ErrorResponse
// @Router /private/calendar [put]
func (c *CalendarController) UpdateOwn(ctx echo.Context) error {
	var req dto.UpdateCalendarRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", err.Error())
	}

	result, appErr := c.service.UpdateOwn(ctx.Request().Context(), roleMiddleware.Current(ctx), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar updated successfully")
}

// Availability answers whether [start, end) is free
// GET /api/v1/private/calendars/:id/availability?start=...&end=...
// @Summary Check availability
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param id path string true "Calendar ID"
// @Param start query string true "RFC3339 start"
// @Param end query string true "RFC3339 end"
// @Success 200 {object} dto.AvailabilityResponse
// @Router /private/calendars/{id}/availability [get]
func (c *CalendarController) Availability(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID", nil)
	}

	start, err := time.Parse(time.RFC3339, ctx.QueryParam("start"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid start format, use RFC3339", nil)
	}
	end, err := time.Parse(time.RFC3339, ctx.QueryParam("end"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid end format, use RFC3339", nil)
	}

	result, appErr := c.service.Availability(ctx.Request().Context(), roleMiddleware.Current(ctx), id, start, end)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Availability checked")
}

// Slots suggests free slots on one day
// GET /api/v1/private/calendars/:id/slots?date=YYYY-MM-DD&duration=60
// @Summary Suggest free slots
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param id path string true "Calendar ID"
// @Param date query string true "Day (YYYY-MM-DD)"
// @Param duration query int false "Duration in minutes"
// @Success 200 {object} dto.SlotsResponse
// @Router /private/calendars/{id}/slots [get]
func (c *CalendarController) Slots(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID", nil)
	}

	date, err := time.Parse(time.DateOnly, ctx.QueryParam("date"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid date format, use YYYY-MM-DD", nil)
	}

	duration := 0
	if raw := ctx.QueryParam("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration <= 0 {
			return c.BadRequest(errors.ErrInvalidInput, "duration must be a positive number of minutes", nil)
		}
	}

	result, appErr := c.service.Slots(ctx.Request().Context(), roleMiddleware.Current(ctx), id, date, duration)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Slots retrieved successfully")
}

// Day lists one day's events
// GET /api/v1/private/calendars/:id/day?date=YYYY-MM-DD
// @Summary Events for a date
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param id path string true "Calendar ID"
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {object} dto.DayResponse
// @Router /private/calendars/{id}/day [get]
func (c *CalendarController) Day(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID", nil)
	}

	date, err := time.Parse(time.DateOnly, ctx.QueryParam("date"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid date format, use YYYY-MM-DD", nil)
	}

	result, appErr := c.service.EventsForDate(ctx.Request().Context(), roleMiddleware.Current(ctx), id, date)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Events retrieved successfully")
}

package controller

import (
	"strconv"

	"mentor-scheduler/core/controller"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/modules/event/dto"
	"mentor-scheduler/modules/event/service"
	roleMiddleware "mentor-scheduler/modules/role/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles event HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

// NewEventController creates a new controller
func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

func (c *EventController) pathID(ctx echo.Context, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, c.BadRequest(errors.ErrInvalidInput, "Invalid "+what+" ID")
	}
	return id, nil
}

// CreateEvent handles POST /events
// @Summary Create an event on my calendar
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.EventResponse
// @Failure 409 {object} controller.ErrorResponse
// @Failure 422 {object} controller.ErrorResponse
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", err.Error())
	}

	result, appErr := c.EventService.CreateOnOwnCalendar(ctx.Request().Context(), roleMiddleware.Current(ctx), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "Event created successfully")
}

// BookEvent handles POST /calendars/:id/events
// @Summary Book an event on a calendar
// @Description Partners booking someone else's calendar always land in pending approval
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Calendar ID"
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.EventResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/calendars/{id}/events [post]
func (c *EventController) BookEvent(ctx echo.Context) error {
	calendarID, err := c.pathID(ctx, "calendar")
	if err != nil {
		return err
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", err.Error())
	}

	result, appErr := c.EventService.CreateOnCalendar(ctx.Request().Context(), roleMiddleware.Current(ctx), calendarID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "Event booked successfully")
}

// GetEvent handles GET /events/:id
// @Summary Get an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /private/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	id, err := c.pathID(ctx, "event")
	if err != nil {
		return err
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), roleMiddleware.Current(ctx), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateEvent handles PUT /events/:id
// @Summary Update an event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} dto.EventResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	id, err := c.pathID(ctx, "event")
	if err != nil {
		return err
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", err.Error())
	}

	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), roleMiddleware.Current(ctx), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event updated successfully")
}

// DeleteEvent handles DELETE /events/:id
// @Summary Delete an event
// @Tags Event
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	id, err := c.pathID(ctx, "event")
	if err != nil {
		return err
	}

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), roleMiddleware.Current(ctx), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// ConfirmEvent handles POST /events/:id/confirm
// @Summary Confirm or approve an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/events/{id}/confirm [post]
func (c *EventController) ConfirmEvent(ctx echo.Context) error {
	id, err := c.pathID(ctx, "event")
	if err != nil {
		return err
	}

	result, appErr := c.EventService.ConfirmEvent(ctx.Request().Context(), roleMiddleware.Current(ctx), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event confirmed")
}

// CancelEvent handles POST /events/:id/cancel
// @Summary Cancel an event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.CancelEventRequest false "Reason"
// @Success 200 {object} dto.EventResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/events/{id}/cancel [post]
func (c *EventController) CancelEvent(ctx echo.Context) error {
	id, err := c.pathID(ctx, "event")
	if err != nil {
		return err
	}

	var req dto.CancelEventRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&req); err != nil {
			return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", err.Error())
		}
	}

	result, appErr := c.EventService.CancelEvent(ctx.Request().Context(), roleMiddleware.Current(ctx), id, req.Reason)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event cancelled")
}

// CompleteEvent handles POST /events/:id/complete
// @Summary Mark an event completed
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Router /private/events/{id}/complete [post]
func (c *EventController) CompleteEvent(ctx echo.Context) error {
	id, err := c.pathID(ctx, "event")
	if err != nil {
		return err
	}

	result, appErr := c.EventService.CompleteEvent(ctx.Request().Context(), roleMiddleware.Current(ctx), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event completed")
}

// Upcoming handles GET /events
// @Summary Upcoming events on my calendar
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Max events" default(20)
// @Success 200 {object} dto.EventListResponse
// @Router /private/events [get]
func (c *EventController) Upcoming(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.BadRequest(errors.ErrInvalidInput, "limit must be a positive number")
		}
		limit = n
	}

	result, appErr := c.EventService.Upcoming(ctx.Request().Context(), roleMiddleware.Current(ctx), limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// PendingApprovals handles GET /events/pending-approvals
// @Summary Bookings waiting for my approval
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.EventListResponse
// @Router /private/events/pending-approvals [get]
func (c *EventController) PendingApprovals(ctx echo.Context) error {
	result, appErr := c.EventService.PendingApprovals(ctx.Request().Context(), roleMiddleware.Current(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// InviteParticipant handles POST /events/:id/participants
// @Summary Invite a leader or partner
// @Tags Participant
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.InviteParticipantRequest true "Invitee"
// @Success 201 {object} dto.ParticipantResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/events/{id}/participants [post]
func (c *EventController) InviteParticipant(ctx echo.Context) error {
	id, err := c.pathID(ctx, "event")
	if err != nil {
		return err
	}

	var req dto.InviteParticipantRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", err.Error())
	}

	result, appErr := c.EventService.InviteParticipant(ctx.Request().Context(), roleMiddleware.Current(ctx), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "Participant invited")
}

// JoinEvent handles POST /events/:id/join
// @Summary Join an event
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.ParticipantResponse
// @Router /private/events/{id}/join [post]
func (c *EventController) JoinEvent(ctx echo.Context) error {
	id, err := c.pathID(ctx, "event")
	if err != nil {
		return err
	}

	result, appErr := c.EventService.JoinEvent(ctx.Request().Context(), roleMiddleware.Current(ctx), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Joined event")
}

type participantAction func(svc service.EventServiceInterface, ctx echo.Context, id uuid.UUID) (*dto.ParticipantResponse, *errors.AppError)

func (c *EventController) participant(action participantAction, message string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := c.pathID(ctx, "participant")
		if err != nil {
			return err
		}

		result, appErr := action(c.EventService, ctx, id)
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.SuccessResponse(ctx, result, message)
	}
}

// ConfirmParticipant handles POST /participants/:id/confirm
// @Summary Accept an invitation
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} dto.ParticipantResponse
// @Router /private/participants/{id}/confirm [post]
func (c *EventController) ConfirmParticipant() echo.HandlerFunc {
	return c.participant(func(svc service.EventServiceInterface, ctx echo.Context, id uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
		return svc.ConfirmParticipant(ctx.Request().Context(), roleMiddleware.Current(ctx), id)
	}, "Participation confirmed")
}

// DeclineParticipant handles POST /participants/:id/decline
// @Summary Decline an invitation
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} dto.ParticipantResponse
// @Router /private/participants/{id}/decline [post]
func (c *EventController) DeclineParticipant() echo.HandlerFunc {
	return c.participant(func(svc service.EventServiceInterface, ctx echo.Context, id uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
		return svc.DeclineParticipant(ctx.Request().Context(), roleMiddleware.Current(ctx), id)
	}, "Invitation declined")
}

// CancelParticipant handles POST /participants/:id/cancel
// @Summary Withdraw from an event
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} dto.ParticipantResponse
// @Router /private/participants/{id}/cancel [post]
func (c *EventController) CancelParticipant() echo.HandlerFunc {
	return c.participant(func(svc service.EventServiceInterface, ctx echo.Context, id uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
		return svc.CancelParticipant(ctx.Request().Context(), roleMiddleware.Current(ctx), id)
	}, "Participation cancelled")
}

// CheckInParticipant handles POST /participants/:id/check-in
// @Summary Record attendance
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} dto.ParticipantResponse
// @Router /private/participants/{id}/check-in [post]
func (c *EventController) CheckInParticipant() echo.HandlerFunc {
	return c.participant(func(svc service.EventServiceInterface, ctx echo.Context, id uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
		return svc.CheckInParticipant(ctx.Request().Context(), roleMiddleware.Current(ctx), id)
	}, "Checked in")
}

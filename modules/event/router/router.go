package router

import (
	"mentor-scheduler/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event routes
type EventRouter struct {
	EventController *controller.EventController
}

// NewEventRouter creates a new router
func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes on the authenticated group
func (r *EventRouter) Setup(private *echo.Group) {
	ctrl := r.EventController

	eventRoutes := private.Group("/events")

	// CRUD
	eventRoutes.POST("", ctrl.CreateEvent)
	eventRoutes.GET("", ctrl.Upcoming)
	eventRoutes.GET("/pending-approvals", ctrl.PendingApprovals)
	eventRoutes.GET("/:id", ctrl.GetEvent)
	eventRoutes.PUT("/:id", ctrl.UpdateEvent)
	eventRoutes.DELETE("/:id", ctrl.DeleteEvent)

	// Lifecycle
	eventRoutes.POST("/:id/confirm", ctrl.ConfirmEvent)
	eventRoutes.POST("/:id/cancel", ctrl.CancelEvent)
	eventRoutes.POST("/:id/complete", ctrl.CompleteEvent)

	// Participants
	eventRoutes.POST("/:id/participants", ctrl.InviteParticipant)
	eventRoutes.POST("/:id/join", ctrl.JoinEvent)

	participantRoutes := private.Group("/participants")
	participantRoutes.POST("/:id/confirm", ctrl.ConfirmParticipant())
	participantRoutes.POST("/:id/decline", ctrl.DeclineParticipant())
	participantRoutes.POST("/:id/cancel", ctrl.CancelParticipant())
	participantRoutes.POST("/:id/check-in", ctrl.CheckInParticipant())

	// Booking onto any calendar
	private.POST("/calendars/:id/events", ctrl.BookEvent)
}

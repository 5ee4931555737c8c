package dto

import (
	"time"

	"mentor-scheduler/modules/event/entity"
	roleEntity "mentor-scheduler/modules/role/entity"
	"mentor-scheduler/modules/visibility"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

// CreateEventRequest for creating an event on a calendar
type CreateEventRequest struct {
	Title                     string         `json:"title" example:"Mentoring session"`
	Description               *string        `json:"description"`
	Location                  *string        `json:"location"`
	StartTime                 time.Time      `json:"start_time"` // RFC3339
	EndTime                   time.Time      `json:"end_time"`   // RFC3339
	EventType                 string         `json:"event_type" example:"booking"`
	Visibility                string         `json:"visibility" example:"class_only"`
	Status                    string         `json:"status" example:"draft"`
	Capacity                  *int           `json:"capacity"`
	RequiresApproval          bool           `json:"requires_approval"`
	CancellationDeadlineHours *int           `json:"cancellation_deadline_hours"`
	RescheduleLimit           *int           `json:"reschedule_limit"`
	ClassID                   *uuid.UUID     `json:"class_id"`
	ParentEventID             *uuid.UUID     `json:"parent_event_id"`
	MeetingLink               *string        `json:"meeting_link"`
	MeetingProvider           *string        `json:"meeting_provider"`
	JoinInstructions          *string        `json:"join_instructions"`
	Color                     *string        `json:"color"`
	Tags                      []string       `json:"tags"`
	Metadata                  map[string]any `json:"metadata"`
}

// UpdateEventRequest for updating event details. Absent fields are kept.
type UpdateEventRequest struct {
	Title                     *string        `json:"title"`
	Description               *string        `json:"description"`
	Location                  *string        `json:"location"`
	StartTime                 *time.Time     `json:"start_time"`
	EndTime                   *time.Time     `json:"end_time"`
	EventType                 *string        `json:"event_type"`
	Visibility                *string        `json:"visibility"`
	Capacity                  *int           `json:"capacity"`
	RequiresApproval          *bool          `json:"requires_approval"`
	CancellationDeadlineHours *int           `json:"cancellation_deadline_hours"`
	RescheduleLimit           *int           `json:"reschedule_limit"`
	ClassID                   *uuid.UUID     `json:"class_id"`
	MeetingLink               *string        `json:"meeting_link"`
	MeetingProvider           *string        `json:"meeting_provider"`
	JoinInstructions          *string        `json:"join_instructions"`
	Color                     *string        `json:"color"`
	Tags                      []string       `json:"tags"`
	Metadata                  map[string]any `json:"metadata"`
}

// CancelEventRequest carries the optional cancellation reason
type CancelEventRequest struct {
	Reason string `json:"reason"`
}

// InviteParticipantRequest adds a leader or partner to an event
type InviteParticipantRequest struct {
	ParticipantType string    `json:"participant_type" example:"partner"`
	ParticipantID   uuid.UUID `json:"participant_id"`
	Role            string    `json:"role" example:"attendee"`
	Notes           *string   `json:"notes"`
}

// ===================== Response DTOs =====================

// ParticipantResponse for participant details
type ParticipantResponse struct {
	ID          uuid.UUID          `json:"id"`
	EventID     uuid.UUID          `json:"event_id"`
	Participant roleEntity.RoleRef `json:"participant"`
	Name        string             `json:"name,omitempty"`
	Role        string             `json:"role"`
	Status      string             `json:"status"`
	InvitedAt   *time.Time         `json:"invited_at,omitempty"`
	ResponseAt  *time.Time         `json:"response_at,omitempty"`
	CheckedInAt *time.Time         `json:"checked_in_at,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

// EventResponse is the projected event; participants are only listed when
// the viewer sees full details.
type EventResponse struct {
	visibility.EventView
	Participants []ParticipantResponse `json:"participants,omitempty"`
}

type EventListResponse struct {
	Events []visibility.EventView `json:"events"`
}

// ===================== Mappers =====================

func ToParticipantResponse(p *entity.Participant, names map[roleEntity.RoleRef]string) ParticipantResponse {
	return ParticipantResponse{
		ID:          p.ID,
		EventID:     p.EventID,
		Participant: p.Ref(),
		Name:        names[p.Ref()],
		Role:        string(p.Role),
		Status:      string(p.Status),
		InvitedAt:   p.InvitedAt,
		ResponseAt:  p.ResponseAt,
		CheckedInAt: p.CheckedInAt,
		Notes:       p.Notes,
	}
}

func ToEventResponse(view visibility.EventView, participants []entity.Participant, names map[roleEntity.RoleRef]string) *EventResponse {
	resp := &EventResponse{EventView: view}
	if view.Masked {
		return resp
	}
	resp.Participants = make([]ParticipantResponse, 0, len(participants))
	for i := range participants {
		resp.Participants = append(resp.Participants, ToParticipantResponse(&participants[i], names))
	}
	return resp
}

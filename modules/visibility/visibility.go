// Package visibility decides whether a viewer sees an event in full, as an
// opaque busy block, or not at all.
package visibility

import (
	"time"

	"mentor-scheduler/modules/event/entity"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
)

const (
	MaskedTitle     = "Busy"
	MaskedClassName = "event-busy"
)

// VisibleTo reports whether viewer may know the event exists. A nil viewer is
// anonymous and only sees public events.
//
// Parties to an event (creator, calendar owner, participants) always see it.
// Busy events are never visible to anyone else; they only surface as masked
// placeholders.
func VisibleTo(d *entity.EventDetail, viewer roleEntity.Actor) bool {
	if d.Event.Visibility == entity.VisibilityPublic {
		return true
	}
	if viewer == nil {
		return false
	}
	if viewer.IsParticipantOf(d) {
		return true
	}

	switch d.Event.Visibility {
	case entity.VisibilityClassOnly:
		return d.Event.ClassID != nil && viewer.HasClassAccess(*d.Event.ClassID)
	default:
		return false
	}
}

// FullDetailsVisibleTo reports whether viewer may see title, description,
// location and meeting details. It is never true when VisibleTo is false.
func FullDetailsVisibleTo(d *entity.EventDetail, viewer roleEntity.Actor) bool {
	if !VisibleTo(d, viewer) {
		return false
	}
	if d.Event.Visibility == entity.VisibilityPublic {
		return true
	}
	if viewer.IsParticipantOf(d) {
		return true
	}
	return d.Event.Visibility == entity.VisibilityClassOnly &&
		d.Event.ClassID != nil && viewer.HasClassAccess(*d.Event.ClassID)
}

// EventView is the projection handed to clients.
type EventView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	AllDay    bool      `json:"allDay"`
	Color     string    `json:"color,omitempty"`
	ClassName string    `json:"className"`
	Editable  bool      `json:"editable"`
	Masked    bool      `json:"masked"`

	Details *EventDetails `json:"extendedProps,omitempty"`
}

type EventDetails struct {
	CalendarID       uuid.UUID          `json:"calendar_id"`
	Description      string             `json:"description,omitempty"`
	Location         string             `json:"location,omitempty"`
	CreatorName      string             `json:"creator_name,omitempty"`
	Creator          roleEntity.RoleRef `json:"creator"`
	ClassID          *uuid.UUID         `json:"class_id,omitempty"`
	ClassName        string             `json:"class_name,omitempty"`
	EventType        entity.EventType   `json:"event_type"`
	Visibility       entity.Visibility  `json:"visibility"`
	Status           entity.EventStatus `json:"status"`
	RequiresApproval bool               `json:"requires_approval"`
	Capacity         *int               `json:"capacity,omitempty"`
	CurrentAttendees int                `json:"current_attendees"`
	DurationMinutes  int                `json:"duration_minutes"`
	MeetingLink      string             `json:"meeting_link,omitempty"`
	MeetingProvider  string             `json:"meeting_provider,omitempty"`
	JoinInstructions string             `json:"join_instructions,omitempty"`
	Tags             []string           `json:"tags"`
	ParentEventID    *uuid.UUID         `json:"parent_event_id,omitempty"`
	ConfirmedAt      *time.Time         `json:"confirmed_at,omitempty"`
	CancelledAt      *time.Time         `json:"cancelled_at,omitempty"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty"`
}

// Masked keeps identity and time range and nothing else.
func Masked(d *entity.EventDetail) EventView {
	return EventView{
		ID:        d.Event.ID,
		Title:     MaskedTitle,
		Start:     d.Event.StartTime,
		End:       d.Event.EndTime,
		ClassName: MaskedClassName,
		Color:     entity.EventTypeBlock.DefaultColor(),
		Masked:    true,
	}
}

func Full(d *entity.EventDetail, viewer roleEntity.Actor) EventView {
	e := &d.Event
	tags := []string(e.Tags)
	if tags == nil {
		tags = []string{}
	}
	return EventView{
		ID:        e.ID,
		Title:     e.Title,
		Start:     e.StartTime,
		End:       e.EndTime,
		Color:     e.DisplayColor(),
		ClassName: "event-" + string(e.EventType),
		Editable:  editable(d, viewer),
		Details: &EventDetails{
			CalendarID:       e.CalendarID,
			Description:      deref(e.Description),
			Location:         deref(e.Location),
			CreatorName:      d.CreatorName,
			Creator:          e.Creator(),
			ClassID:          e.ClassID,
			ClassName:        d.ClassName,
			EventType:        e.EventType,
			Visibility:       e.Visibility,
			Status:           e.Status,
			RequiresApproval: e.RequiresApproval,
			Capacity:         e.Capacity,
			CurrentAttendees: e.CurrentAttendees,
			DurationMinutes:  e.DurationMinutes,
			MeetingLink:      deref(e.MeetingLink),
			MeetingProvider:  deref(e.MeetingProvider),
			JoinInstructions: deref(e.JoinInstructions),
			Tags:             tags,
			ParentEventID:    e.ParentEventID,
			ConfirmedAt:      e.ConfirmedAt,
			CancelledAt:      e.CancelledAt,
			CompletedAt:      e.CompletedAt,
		},
	}
}

// Project returns the full view when allowed and the masked one otherwise.
// ok is false when viewer may not learn the event exists at all.
func Project(d *entity.EventDetail, viewer roleEntity.Actor) (EventView, bool) {
	if FullDetailsVisibleTo(d, viewer) {
		return Full(d, viewer), true
	}
	if d.Event.Visibility == entity.VisibilityBusy {
		return Masked(d), true
	}
	return EventView{}, false
}

// ProjectAll projects a calendar listing, dropping events viewer may not see.
func ProjectAll(details []entity.EventDetail, viewer roleEntity.Actor) []EventView {
	views := make([]EventView, 0, len(details))
	for i := range details {
		if v, ok := Project(&details[i], viewer); ok {
			views = append(views, v)
		}
	}
	return views
}

func editable(d *entity.EventDetail, viewer roleEntity.Actor) bool {
	if viewer == nil || d.Event.Status.Terminal() {
		return false
	}
	ref := viewer.Ref()
	return d.Event.Creator().Equal(ref) || d.Owner.Equal(ref)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

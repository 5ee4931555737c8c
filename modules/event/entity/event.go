package entity

import (
	"fmt"
	"strings"
	"time"

	coreEntity "mentor-scheduler/core/entity"
	"mentor-scheduler/core/errors"
	calendarEntity "mentor-scheduler/modules/calendar/entity"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type EventType string

const (
	EventTypeBooking      EventType = "booking"
	EventTypeClassSession EventType = "class_session"
	EventTypeOfficeHours  EventType = "office_hours"
	EventTypePersonal     EventType = "personal"
	EventTypeBlock        EventType = "block"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeBooking, EventTypeClassSession, EventTypeOfficeHours, EventTypePersonal, EventTypeBlock:
		return true
	}
	return false
}

// DefaultColor is the display color used when an event has none of its own.
func (t EventType) DefaultColor() string {
	switch t {
	case EventTypeClassSession:
		return "#22c55e"
	case EventTypeOfficeHours:
		return "#eab308"
	case EventTypePersonal:
		return "#8b5cf6"
	case EventTypeBlock:
		return "#6b7280"
	default:
		return "#3788d8"
	}
}

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityClassOnly Visibility = "class_only"
	VisibilityBusy      Visibility = "busy"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityClassOnly, VisibilityBusy:
		return true
	}
	return false
}

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPending   EventStatus = "pending"
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPending, EventStatusConfirmed, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

func (s EventStatus) Terminal() bool {
	return s == EventStatusCancelled || s == EventStatusCompleted
}

const DefaultRescheduleLimit = 3

type Event struct {
	ID                        uuid.UUID        `db:"id" json:"id"`
	CalendarID                uuid.UUID        `db:"calendar_id" json:"calendar_id"`
	CreatorType               roleEntity.Kind  `db:"creator_type" json:"creator_type"`
	CreatorID                 uuid.UUID        `db:"creator_id" json:"creator_id"`
	ClassID                   *uuid.UUID       `db:"class_id" json:"class_id,omitempty"`
	ParentEventID             *uuid.UUID       `db:"parent_event_id" json:"parent_event_id,omitempty"`
	Title                     string           `db:"title" json:"title"`
	Description               *string          `db:"description" json:"description,omitempty"`
	Location                  *string          `db:"location" json:"location,omitempty"`
	StartTime                 time.Time        `db:"start_time" json:"start_time"`
	EndTime                   time.Time        `db:"end_time" json:"end_time"`
	DurationMinutes           int              `db:"duration_minutes" json:"duration_minutes"`
	EventType                 EventType        `db:"event_type" json:"event_type"`
	Visibility                Visibility       `db:"visibility" json:"visibility"`
	Status                    EventStatus      `db:"status" json:"status"`
	Capacity                  *int             `db:"capacity" json:"capacity,omitempty"`
	CurrentAttendees          int              `db:"current_attendees" json:"current_attendees"`
	RequiresApproval          bool             `db:"requires_approval" json:"requires_approval"`
	CancellationDeadlineHours *int             `db:"cancellation_deadline_hours" json:"cancellation_deadline_hours,omitempty"`
	RescheduleLimit           *int             `db:"reschedule_limit" json:"reschedule_limit,omitempty"`
	RescheduleCount           int              `db:"reschedule_count" json:"reschedule_count"`
	MeetingLink               *string          `db:"meeting_link" json:"meeting_link,omitempty"`
	MeetingProvider           *string          `db:"meeting_provider" json:"meeting_provider,omitempty"`
	JoinInstructions          *string          `db:"join_instructions" json:"join_instructions,omitempty"`
	Color                     *string          `db:"color" json:"color,omitempty"`
	Tags                      pq.StringArray   `db:"tags" json:"tags"`
	Metadata                  coreEntity.JSONB `db:"metadata" json:"metadata"`
	ConfirmedAt               *time.Time       `db:"confirmed_at" json:"confirmed_at,omitempty"`
	CancelledAt               *time.Time       `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CompletedAt               *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
	CancellationReason        *string          `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedAt                 time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time        `db:"updated_at" json:"updated_at"`
}

func (e *Event) Creator() roleEntity.RoleRef {
	return roleEntity.RoleRef{Kind: e.CreatorType, ID: e.CreatorID}
}

func (e *Event) Interval() calendarEntity.Interval {
	return calendarEntity.Interval{Start: e.StartTime, End: e.EndTime}
}

// SetTimes sets start and end and derives the duration from them.
func (e *Event) SetTimes(start, end time.Time) {
	e.StartTime = start
	e.EndTime = end
	e.DurationMinutes = int(end.Sub(start) / time.Minute)
}

func (e *Event) DisplayColor() string {
	if e.Color != nil && *e.Color != "" {
		return *e.Color
	}
	return e.EventType.DefaultColor()
}

func (e *Event) Validate() *errors.AppError {
	var fields []errors.FieldError
	add := func(field, msg string) {
		fields = append(fields, errors.FieldError{Field: field, Message: msg})
	}

	if strings.TrimSpace(e.Title) == "" {
		add("title", "can't be blank")
	}
	if e.StartTime.IsZero() {
		add("start_time", "can't be blank")
	}
	if e.EndTime.IsZero() {
		add("end_time", "can't be blank")
	}
	if !e.StartTime.IsZero() && !e.EndTime.IsZero() && !e.EndTime.After(e.StartTime) {
		add("end_time", "must be after start time")
	}
	if !e.EventType.Valid() {
		add("event_type", "is not included in the list")
	}
	if !e.Visibility.Valid() {
		add("visibility", "is not included in the list")
	}
	if !e.Status.Valid() {
		add("status", "is not included in the list")
	}
	if e.Capacity != nil && *e.Capacity < 1 {
		add("capacity", "must be greater than or equal to 1")
	}
	if e.Capacity != nil && e.CurrentAttendees > *e.Capacity {
		add("current_attendees", "must be less than or equal to capacity")
	}
	if e.CancellationDeadlineHours != nil && *e.CancellationDeadlineHours < 0 {
		add("cancellation_deadline_hours", "must be greater than or equal to 0")
	}
	if e.RescheduleLimit != nil && *e.RescheduleLimit < 0 {
		add("reschedule_limit", "must be greater than or equal to 0")
	}

	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

// Confirm moves a pending or draft event to confirmed.
func (e *Event) Confirm(now time.Time) *errors.AppError {
	if e.Status != EventStatusPending && e.Status != EventStatusDraft {
		return errors.New(errors.ErrStateConflict,
			fmt.Sprintf("Cannot confirm an event that is %s", e.Status))
	}
	e.Status = EventStatusConfirmed
	e.ConfirmedAt = &now
	return nil
}

// CanBeCancelled is false for terminal events and when less than the
// cancellation deadline remains before the start.
func (e *Event) CanBeCancelled(now time.Time) bool {
	if e.Status.Terminal() {
		return false
	}
	if e.CancellationDeadlineHours == nil {
		return true
	}
	deadline := time.Duration(*e.CancellationDeadlineHours) * time.Hour
	return e.StartTime.Sub(now) >= deadline
}

func (e *Event) Cancel(reason string, now time.Time) *errors.AppError {
	if e.Status.Terminal() {
		return errors.New(errors.ErrStateConflict,
			fmt.Sprintf("Cannot cancel an event that is %s", e.Status))
	}
	if !e.CanBeCancelled(now) {
		return errors.New(errors.ErrStateConflict,
			fmt.Sprintf("Events must be cancelled at least %d hours before they start", *e.CancellationDeadlineHours))
	}
	e.Status = EventStatusCancelled
	e.CancelledAt = &now
	if reason != "" {
		e.CancellationReason = &reason
	}
	return nil
}

// Complete marks a confirmed event completed. Completing a completed event
// changes nothing.
func (e *Event) Complete(now time.Time) *errors.AppError {
	switch e.Status {
	case EventStatusCompleted:
		return nil
	case EventStatusConfirmed:
		e.Status = EventStatusCompleted
		e.CompletedAt = &now
		return nil
	}
	return errors.New(errors.ErrStateConflict,
		fmt.Sprintf("Cannot complete an event that is %s", e.Status))
}

func (e *Event) CanBeRescheduled(now time.Time) bool {
	if e.RescheduleLimit != nil && e.RescheduleCount >= *e.RescheduleLimit {
		return false
	}
	return e.CanBeCancelled(now)
}

// Reschedule moves the event. Moving a non-draft event counts against the
// reschedule limit.
func (e *Event) Reschedule(start, end time.Time, now time.Time) *errors.AppError {
	if start.Equal(e.StartTime) && end.Equal(e.EndTime) {
		return nil
	}
	if e.Status != EventStatusDraft {
		if !e.CanBeRescheduled(now) {
			return errors.New(errors.ErrStateConflict, "This event can no longer be rescheduled")
		}
		e.RescheduleCount++
	}
	e.SetTimes(start, end)
	return nil
}

// CheckCapacity reports whether delta more attendees fit.
func (e *Event) CheckCapacity(delta int) *errors.AppError {
	if delta <= 0 || e.Capacity == nil {
		return nil
	}
	if e.CurrentAttendees+delta > *e.Capacity {
		return errors.New(errors.ErrStateConflict, "Event is at full capacity")
	}
	return nil
}

// ApplyAttendeeDelta adjusts the counter after CheckCapacity passed.
func (e *Event) ApplyAttendeeDelta(delta int) {
	e.CurrentAttendees += delta
	if e.CurrentAttendees < 0 {
		e.CurrentAttendees = 0
	}
}

package entity

import (
	"testing"
	"time"

	"mentor-scheduler/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newEvent(status EventStatus, start time.Time) *Event {
	e := &Event{
		Title:      "Mentoring",
		EventType:  EventTypeBooking,
		Visibility: VisibilityClassOnly,
		Status:     status,
	}
	e.SetTimes(start, start.Add(time.Hour))
	return e
}

func TestSetTimesDerivesDuration(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	e := &Event{}
	e.SetTimes(start, start.Add(90*time.Minute))
	assert.Equal(t, 90, e.DurationMinutes)
}

func TestValidate(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(e *Event)
		field  string
	}{
		{"blank title", func(e *Event) { e.Title = "  " }, "title"},
		{"end before start", func(e *Event) { e.EndTime = e.StartTime }, "end_time"},
		{"bad type", func(e *Event) { e.EventType = "party" }, "event_type"},
		{"bad visibility", func(e *Event) { e.Visibility = "secret" }, "visibility"},
		{"zero capacity", func(e *Event) { e.Capacity = intPtr(0) }, "capacity"},
		{"over capacity", func(e *Event) { e.Capacity = intPtr(1); e.CurrentAttendees = 2 }, "current_attendees"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEvent(EventStatusDraft, start)
			tt.mutate(e)
			appErr := e.Validate()
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrValidationFailed, appErr.Code)
			fields := make([]string, 0, len(appErr.Fields))
			for _, f := range appErr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}

	assert.Nil(t, newEvent(EventStatusDraft, start).Validate())
}

func TestConfirm(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, s := range []EventStatus{EventStatusPending, EventStatusDraft} {
		e := newEvent(s, now.Add(48*time.Hour))
		require.Nil(t, e.Confirm(now))
		assert.Equal(t, EventStatusConfirmed, e.Status)
		require.NotNil(t, e.ConfirmedAt)
		assert.Equal(t, now, *e.ConfirmedAt)
	}

	for _, s := range []EventStatus{EventStatusConfirmed, EventStatusCancelled, EventStatusCompleted} {
		e := newEvent(s, now.Add(48*time.Hour))
		appErr := e.Confirm(now)
		require.NotNil(t, appErr, s)
		assert.Equal(t, errors.ErrStateConflict, appErr.Code)
	}
}

func TestCancelDeadline(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	e := newEvent(EventStatusConfirmed, now.Add(23*time.Hour))
	e.CancellationDeadlineHours = intPtr(24)
	appErr := e.Cancel("changed plans", now)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrStateConflict, appErr.Code)
	assert.Equal(t, EventStatusConfirmed, e.Status)

	e = newEvent(EventStatusConfirmed, now.Add(24*time.Hour))
	e.CancellationDeadlineHours = intPtr(24)
	require.Nil(t, e.Cancel("changed plans", now))
	assert.Equal(t, EventStatusCancelled, e.Status)
	assert.Equal(t, "changed plans", *e.CancellationReason)
	assert.Equal(t, now, *e.CancelledAt)

	e = newEvent(EventStatusDraft, now.Add(time.Hour))
	require.Nil(t, e.Cancel("", now))
	assert.Nil(t, e.CancellationReason)

	e = newEvent(EventStatusCompleted, now.Add(48*time.Hour))
	assert.NotNil(t, e.Cancel("", now))
}

func TestCompleteIsIdempotent(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	e := newEvent(EventStatusConfirmed, now.Add(-2*time.Hour))

	require.Nil(t, e.Complete(now))
	first := *e.CompletedAt

	require.Nil(t, e.Complete(now.Add(time.Hour)))
	assert.Equal(t, EventStatusCompleted, e.Status)
	assert.Equal(t, first, *e.CompletedAt)

	pending := newEvent(EventStatusPending, now)
	appErr := pending.Complete(now)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrStateConflict, appErr.Code)
}

func TestCanBeRescheduled(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	e := newEvent(EventStatusConfirmed, now.Add(72*time.Hour))
	e.RescheduleLimit = intPtr(2)
	e.RescheduleCount = 2
	e.CancellationDeadlineHours = intPtr(1)

	assert.True(t, e.CanBeCancelled(now))
	assert.False(t, e.CanBeRescheduled(now), "limit reached even though the deadline check passes")

	e.RescheduleLimit = nil
	assert.True(t, e.CanBeRescheduled(now))
}

func TestReschedule(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(72 * time.Hour)

	draft := newEvent(EventStatusDraft, start)
	draft.RescheduleLimit = intPtr(0)
	require.Nil(t, draft.Reschedule(start.Add(time.Hour), start.Add(2*time.Hour), now))
	assert.Equal(t, 0, draft.RescheduleCount)

	confirmed := newEvent(EventStatusConfirmed, start)
	confirmed.RescheduleLimit = intPtr(1)
	require.Nil(t, confirmed.Reschedule(start.Add(time.Hour), start.Add(3*time.Hour), now))
	assert.Equal(t, 1, confirmed.RescheduleCount)
	assert.Equal(t, 120, confirmed.DurationMinutes)

	appErr := confirmed.Reschedule(start, start.Add(time.Hour), now)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrStateConflict, appErr.Code)

	// same times is a no-op
	require.Nil(t, confirmed.Reschedule(confirmed.StartTime, confirmed.EndTime, now))
}

func TestCheckCapacity(t *testing.T) {
	e := newEvent(EventStatusConfirmed, time.Now())
	e.Capacity = intPtr(2)
	e.CurrentAttendees = 2

	assert.NotNil(t, e.CheckCapacity(1))
	assert.Nil(t, e.CheckCapacity(-1))
	e.ApplyAttendeeDelta(-1)
	assert.Nil(t, e.CheckCapacity(1))
	e.ApplyAttendeeDelta(1)
	assert.Equal(t, 2, e.CurrentAttendees)
}

func TestDisplayColor(t *testing.T) {
	e := newEvent(EventStatusDraft, time.Now())
	e.EventType = EventTypeOfficeHours
	assert.Equal(t, "#eab308", e.DisplayColor())

	custom := "#000000"
	e.Color = &custom
	assert.Equal(t, "#000000", e.DisplayColor())
}

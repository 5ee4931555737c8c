package dto

import (
	"time"

	"mentor-scheduler/modules/visibility"

	"github.com/google/uuid"
)

// ========== Calendar DTOs ==========

// CalendarResponse is a calendar plus the events its viewer may see in the
// requested range.
type CalendarResponse struct {
	ID                   uuid.UUID      `json:"id"`
	OwnerType            string         `json:"owner_type"`
	OwnerID              uuid.UUID      `json:"owner_id"`
	OwnerName            string         `json:"owner_name,omitempty"`
	CalendarType         string         `json:"calendar_type"`
	Name                 string         `json:"name"`
	Slug                 string         `json:"slug"`
	Description          *string        `json:"description,omitempty"`
	Timezone             string         `json:"timezone"`
	Color                string         `json:"color"`
	DefaultEventDuration int            `json:"default_event_duration"`
	BufferTime           int            `json:"buffer_time"`
	AdvanceBookingDays   int            `json:"advance_booking_days"`
	MinimumNoticeHours   int            `json:"minimum_notice_hours"`
	IsPublic             bool           `json:"is_public"`
	IsOwner              bool           `json:"is_owner"`
	Settings             map[string]any `json:"settings"`
	WorkHours            map[string]any `json:"work_hours"`
	BookingRules         map[string]any `json:"booking_rules"`

	RangeStart time.Time              `json:"range_start"`
	RangeEnd   time.Time              `json:"range_end"`
	Events     []visibility.EventView `json:"events"`
}

// UpdateCalendarRequest changes the owner's calendar policy. Absent fields
// are left as they are.
type UpdateCalendarRequest struct {
	Name                 *string        `json:"name"`
	Description          *string        `json:"description"`
	Timezone             *string        `json:"timezone"`
	Color                *string        `json:"color"`
	DefaultEventDuration *int           `json:"default_event_duration"`
	BufferTime           *int           `json:"buffer_time"`
	AdvanceBookingDays   *int           `json:"advance_booking_days"`
	MinimumNoticeHours   *int           `json:"minimum_notice_hours"`
	IsPublic             *bool          `json:"is_public"`
	Settings             map[string]any `json:"settings"`
	WorkHours            map[string]any `json:"work_hours"`
	BookingRules         map[string]any `json:"booking_rules"`
}

// ========== Availability DTOs ==========

type AvailabilityResponse struct {
	CalendarID uuid.UUID `json:"calendar_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Available  bool      `json:"available"`
}

// TimeSlot represents a time period
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotsResponse struct {
	CalendarID      uuid.UUID  `json:"calendar_id"`
	Date            string     `json:"date"`
	DurationMinutes int        `json:"duration_minutes"`
	Timezone        string     `json:"timezone"`
	Slots           []TimeSlot `json:"slots"`
}

type DayResponse struct {
	CalendarID uuid.UUID              `json:"calendar_id"`
	Date       string                 `json:"date"`
	Timezone   string                 `json:"timezone"`
	Events     []visibility.EventView `json:"events"`
}

package entity

import (
	"fmt"
	"time"

	coreEntity "mentor-scheduler/core/entity"
	"mentor-scheduler/core/errors"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
)

type CalendarType string

const (
	CalendarTypeLeader  CalendarType = "leader"
	CalendarTypePartner CalendarType = "partner"
)

const (
	DefaultTimezone             = "UTC"
	DefaultColor                = "#3788d8"
	DefaultEventDurationMinutes = 60
	DefaultBufferMinutes        = 0
	DefaultAdvanceBookingDays   = 30
	DefaultMinimumNoticeHours   = 24
)

type Calendar struct {
	ID                   uuid.UUID        `db:"id" json:"id"`
	OwnerType            roleEntity.Kind  `db:"owner_type" json:"owner_type"`
	OwnerID              uuid.UUID        `db:"owner_id" json:"owner_id"`
	CalendarType         CalendarType     `db:"calendar_type" json:"calendar_type"`
	Name                 string           `db:"name" json:"name"`
	Slug                 string           `db:"slug" json:"slug"`
	Description          *string          `db:"description" json:"description,omitempty"`
	Timezone             string           `db:"timezone" json:"timezone"`
	Color                string           `db:"color" json:"color"`
	DefaultEventDuration int              `db:"default_event_duration" json:"default_event_duration"`
	BufferTime           int              `db:"buffer_time" json:"buffer_time"`
	AdvanceBookingDays   int              `db:"advance_booking_days" json:"advance_booking_days"`
	MinimumNoticeHours   int              `db:"minimum_notice_hours" json:"minimum_notice_hours"`
	IsPublic             bool             `db:"is_public" json:"is_public"`
	Settings             coreEntity.JSONB `db:"settings" json:"settings"`
	WorkHours            coreEntity.JSONB `db:"work_hours" json:"work_hours"`
	BookingRules         coreEntity.JSONB `db:"booking_rules" json:"booking_rules"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time        `db:"updated_at" json:"updated_at"`
}

// NewCalendar builds the calendar a freshly registered profile gets.
func NewCalendar(owner roleEntity.RoleRef, ownerName string, timezone string, slug string) *Calendar {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	return &Calendar{
		ID:                   uuid.New(),
		OwnerType:            owner.Kind,
		OwnerID:              owner.ID,
		CalendarType:         CalendarType(owner.Kind),
		Name:                 DefaultName(ownerName),
		Slug:                 slug,
		Timezone:             timezone,
		Color:                DefaultColor,
		DefaultEventDuration: DefaultEventDurationMinutes,
		BufferTime:           DefaultBufferMinutes,
		AdvanceBookingDays:   DefaultAdvanceBookingDays,
		MinimumNoticeHours:   DefaultMinimumNoticeHours,
		Settings:             coreEntity.JSONB{},
		WorkHours:            coreEntity.JSONB{},
		BookingRules:         coreEntity.JSONB{},
	}
}

func DefaultName(ownerName string) string {
	return fmt.Sprintf("%s's Calendar", ownerName)
}

func (c *Calendar) Owner() roleEntity.RoleRef {
	return roleEntity.RoleRef{Kind: c.OwnerType, ID: c.OwnerID}
}

// Location falls back to UTC when the stored zone is unknown.
func (c *Calendar) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DayRange returns [start of day, start of next day) for date in the
// calendar's timezone.
func (c *Calendar) DayRange(date time.Time) (time.Time, time.Time) {
	loc := c.Location()
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (c *Calendar) Buffer() time.Duration {
	return time.Duration(c.BufferTime) * time.Minute
}

// CheckBookingWindow applies minimum notice and the advance booking window to
// a booking starting at start.
func (c *Calendar) CheckBookingWindow(start, now time.Time) *errors.AppError {
	notice := time.Duration(c.MinimumNoticeHours) * time.Hour
	if start.Before(now.Add(notice)) {
		return errors.New(errors.ErrStateConflict,
			fmt.Sprintf("Bookings need at least %d hours notice", c.MinimumNoticeHours))
	}
	if c.AdvanceBookingDays > 0 && start.After(now.AddDate(0, 0, c.AdvanceBookingDays)) {
		return errors.New(errors.ErrStateConflict,
			fmt.Sprintf("Bookings can be made at most %d days in advance", c.AdvanceBookingDays))
	}
	return nil
}

// Validate checks the policy fields.
func (c *Calendar) Validate() *errors.AppError {
	var fields []errors.FieldError
	if c.Name == "" {
		fields = append(fields, errors.FieldError{Field: "name", Message: "can't be blank"})
	}
	if _, err := time.LoadLocation(c.Timezone); c.Timezone == "" || err != nil {
		fields = append(fields, errors.FieldError{Field: "timezone", Message: "is not a valid timezone"})
	}
	if c.DefaultEventDuration <= 0 {
		fields = append(fields, errors.FieldError{Field: "default_event_duration", Message: "must be greater than 0"})
	}
	if c.BufferTime < 0 {
		fields = append(fields, errors.FieldError{Field: "buffer_time", Message: "must be greater than or equal to 0"})
	}
	if c.AdvanceBookingDays <= 0 {
		fields = append(fields, errors.FieldError{Field: "advance_booking_days", Message: "must be greater than 0"})
	}
	if c.MinimumNoticeHours < 0 {
		fields = append(fields, errors.FieldError{Field: "minimum_notice_hours", Message: "must be greater than or equal to 0"})
	}
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `db:"start_time" json:"start"`
	End   time.Time `db:"end_time" json:"end"`
}

// Overlaps is the three-case overlap test: b starts inside a, a starts
// inside b, or one contains the other.
func Overlaps(a, b Interval) bool {
	bStartsInsideA := !b.Start.Before(a.Start) && b.Start.Before(a.End)
	aStartsInsideB := !a.Start.Before(b.Start) && a.Start.Before(b.End)
	aContainsB := !b.Start.Before(a.Start) && !b.End.After(a.End)
	return bStartsInsideA || aStartsInsideB || aContainsB
}

// IsAvailable reports whether want overlaps none of busy.
func IsAvailable(want Interval, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(want, b) {
			return false
		}
	}
	return true
}

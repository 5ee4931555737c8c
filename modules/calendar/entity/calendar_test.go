package entity

import (
	"testing"
	"time"

	"mentor-scheduler/core/errors"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2026, 10, 19, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	busy := Interval{Start: at(10, 0), End: at(11, 0)}

	tests := []struct {
		name string
		want Interval
		hit  bool
	}{
		{"ends inside", Interval{Start: at(9, 30), End: at(10, 30)}, true},
		{"starts inside", Interval{Start: at(10, 30), End: at(11, 30)}, true},
		{"contains", Interval{Start: at(9, 0), End: at(12, 0)}, true},
		{"contained", Interval{Start: at(10, 15), End: at(10, 45)}, true},
		{"identical", busy, true},
		{"touches before", Interval{Start: at(9, 0), End: at(10, 0)}, false},
		{"touches after", Interval{Start: at(11, 0), End: at(12, 0)}, false},
		{"disjoint", Interval{Start: at(13, 0), End: at(14, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hit, Overlaps(tt.want, busy))
			assert.Equal(t, tt.hit, Overlaps(busy, tt.want))
			assert.Equal(t, !tt.hit, IsAvailable(tt.want, []Interval{busy}))
		})
	}
}

func TestNewCalendarDefaults(t *testing.T) {
	owner := roleEntity.PartnerRef(uuid.New())
	cal := NewCalendar(owner, "Bo", "", "bo-abc1234")

	assert.Equal(t, "Bo's Calendar", cal.Name)
	assert.Equal(t, CalendarTypePartner, cal.CalendarType)
	assert.Equal(t, owner, cal.Owner())
	assert.Equal(t, "UTC", cal.Timezone)
	assert.Equal(t, DefaultEventDurationMinutes, cal.DefaultEventDuration)
	assert.Equal(t, DefaultAdvanceBookingDays, cal.AdvanceBookingDays)
	assert.Equal(t, DefaultMinimumNoticeHours, cal.MinimumNoticeHours)
	assert.False(t, cal.IsPublic)
	assert.Nil(t, cal.Validate())
}

func TestDayRangeUsesCalendarTimezone(t *testing.T) {
	cal := &Calendar{Timezone: "America/Sao_Paulo"}
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:30 UTC on the 20th is still the 19th in Sao Paulo.
	start, end := cal.DayRange(time.Date(2026, 10, 20, 1, 30, 0, 0, time.UTC))
	assert.True(t, start.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, loc)))
	assert.True(t, end.Equal(time.Date(2026, 10, 20, 0, 0, 0, 0, loc)))

	cal.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cal.Location())
}

func TestCheckBookingWindow(t *testing.T) {
	now := at(9, 0)
	cal := &Calendar{MinimumNoticeHours: 24, AdvanceBookingDays: 30}

	assert.NotNil(t, cal.CheckBookingWindow(now.Add(2*time.Hour), now))
	assert.Nil(t, cal.CheckBookingWindow(now.Add(24*time.Hour), now))
	assert.Nil(t, cal.CheckBookingWindow(now.AddDate(0, 0, 30), now))

	appErr := cal.CheckBookingWindow(now.AddDate(0, 0, 31), now)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrStateConflict, appErr.Code)
}

func TestCalendarValidate(t *testing.T) {
	cal := &Calendar{Name: "", Timezone: "nope", DefaultEventDuration: 0, BufferTime: -1, AdvanceBookingDays: 0, MinimumNoticeHours: -1}
	appErr := cal.Validate()
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrValidationFailed, appErr.Code)
	assert.Len(t, appErr.Fields, 6)
}

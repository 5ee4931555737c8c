package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	coreEntity "mentor-scheduler/core/entity"
	"mentor-scheduler/modules/calendar/entity"
)

// SlotFinder suggests free intervals on one calendar day.
type SlotFinder struct {
	// BusinessHoursStart applies when the calendar has no work hours, default 8:00
	BusinessHoursStart int
	// BusinessHoursEnd applies when the calendar has no work hours, default 18:00
	BusinessHoursEnd int
	// StepMinutes between candidate start times
	StepMinutes int
	MaxSlots    int
}

func NewSlotFinder() *SlotFinder {
	return &SlotFinder{
		BusinessHoursStart: 8,
		BusinessHoursEnd:   18,
		StepMinutes:        30,
		MaxSlots:           48,
	}
}

// SlotQuery describes one day's search.
type SlotQuery struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Duration    time.Duration
	Buffer      time.Duration
	Busy        []entity.Interval
	// Earliest and Latest bound the slot start (minimum notice, advance window).
	Earliest time.Time
	Latest   time.Time
}

func (sf *SlotFinder) FindAvailableSlots(q SlotQuery) []entity.Interval {
	if q.Duration <= 0 || !q.WindowEnd.After(q.WindowStart) {
		return []entity.Interval{}
	}

	// 1. Pad busy times with the calendar buffer and merge them
	padded := make([]entity.Interval, 0, len(q.Busy))
	for _, b := range q.Busy {
		padded = append(padded, entity.Interval{Start: b.Start.Add(-q.Buffer), End: b.End.Add(q.Buffer)})
	}
	mergedBusy := sf.mergeOverlappingSlots(padded)

	// 2. Generate candidates inside the window
	candidates := sf.generateTimeSlots(q.WindowStart, q.WindowEnd, q.Duration)

	// 3. Drop busy candidates and those outside the booking window
	free := sf.filterBusySlots(candidates, mergedBusy)
	result := make([]entity.Interval, 0, len(free))
	for _, slot := range free {
		if !q.Earliest.IsZero() && slot.Start.Before(q.Earliest) {
			continue
		}
		if !q.Latest.IsZero() && slot.Start.After(q.Latest) {
			continue
		}
		result = append(result, slot)
		if sf.MaxSlots > 0 && len(result) == sf.MaxSlots {
			break
		}
	}
	return result
}

// mergeOverlappingSlots merges overlapping or adjacent intervals
func (sf *SlotFinder) mergeOverlappingSlots(slots []entity.Interval) []entity.Interval {
	if len(slots) == 0 {
		return slots
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	merged := []entity.Interval{slots[0]}
	for i := 1; i < len(slots); i++ {
		last := &merged[len(merged)-1]
		current := slots[i]

		if !current.Start.After(last.End) {
			if current.End.After(last.End) {
				last.End = current.End
			}
		} else {
			merged = append(merged, current)
		}
	}
	return merged
}

// generateTimeSlots steps through [start, end) on StepMinutes boundaries
func (sf *SlotFinder) generateTimeSlots(start, end time.Time, duration time.Duration) []entity.Interval {
	step := time.Duration(sf.StepMinutes) * time.Minute
	if step <= 0 {
		step = 30 * time.Minute
	}

	slots := []entity.Interval{}
	for current := sf.roundUp(start, step); !current.Add(duration).After(end); current = current.Add(step) {
		slots = append(slots, entity.Interval{Start: current, End: current.Add(duration)})
	}
	return slots
}

// filterBusySlots removes slots that overlap busy times
func (sf *SlotFinder) filterBusySlots(slots []entity.Interval, busy []entity.Interval) []entity.Interval {
	filtered := []entity.Interval{}
	for _, slot := range slots {
		if entity.IsAvailable(slot, busy) {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

// roundUp rounds t up to the next multiple of step past midnight.
func (sf *SlotFinder) roundUp(t time.Time, step time.Duration) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := t.Sub(midnight)
	if rem := offset % step; rem != 0 {
		return t.Add(step - rem)
	}
	return t
}

// WorkWindow returns the working interval for the day starting at dayStart.
// work_hours maps lower-case weekday names to {"start": "HH:MM", "end": "HH:MM"};
// a day absent from a non-empty map is closed. An empty map means business
// hours every day.
func (sf *SlotFinder) WorkWindow(workHours coreEntity.JSONB, dayStart time.Time) (time.Time, time.Time, bool) {
	if len(workHours) == 0 {
		return dayStart.Add(time.Duration(sf.BusinessHoursStart) * time.Hour),
			dayStart.Add(time.Duration(sf.BusinessHoursEnd) * time.Hour), true
	}

	raw, ok := workHours[strings.ToLower(dayStart.Weekday().String())]
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	hours, ok := raw.(map[string]any)
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	from, errFrom := clockOffset(hours["start"])
	to, errTo := clockOffset(hours["end"])
	if errFrom != nil || errTo != nil || to <= from {
		return time.Time{}, time.Time{}, false
	}
	return dayStart.Add(from), dayStart.Add(to), true
}

func clockOffset(v any) (time.Duration, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("work hours: expected HH:MM string, got %T", v)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

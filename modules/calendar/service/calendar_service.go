package service

import (
	"context"
	"strings"
	"time"

	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/params"
	"mentor-scheduler/modules/calendar/dto"
	"mentor-scheduler/modules/calendar/entity"
	"mentor-scheduler/modules/calendar/mapper"
	"mentor-scheduler/modules/calendar/repository"
	roleEntity "mentor-scheduler/modules/role/entity"
	"mentor-scheduler/modules/visibility"

	"github.com/google/uuid"
)

// EventProjector lists a calendar's events as seen by viewer. Only events
// whose start lies in [start, end] are returned.
type EventProjector interface {
	ProjectRange(ctx context.Context, cal *entity.Calendar, viewer roleEntity.Actor, start, end time.Time, eventType string) ([]visibility.EventView, *errors.AppError)
}

// NameDirectory resolves profile display names.
type NameDirectory interface {
	DisplayNames(ctx context.Context, refs []roleEntity.RoleRef) (map[roleEntity.RoleRef]string, *errors.AppError)
}

type CalendarService interface {
	// Calendar reads
	GetOwn(ctx context.Context, rc *roleEntity.RequestContext, q params.QueryParams) (*dto.CalendarResponse, *errors.AppError)
	GetByID(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, q params.QueryParams) (*dto.CalendarResponse, *errors.AppError)
	GetPublicBySlug(ctx context.Context, slug string) (*entity.Calendar, *errors.AppError)
	OwnCalendar(ctx context.Context, rc *roleEntity.RequestContext) (*entity.Calendar, *errors.AppError)

	// Policy
	UpdateOwn(ctx context.Context, rc *roleEntity.RequestContext, req *dto.UpdateCalendarRequest) (*dto.CalendarResponse, *errors.AppError)

	// Availability
	Availability(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, start, end time.Time) (*dto.AvailabilityResponse, *errors.AppError)
	Slots(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, date time.Time, durationMinutes int) (*dto.SlotsResponse, *errors.AppError)
	EventsForDate(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, date time.Time) (*dto.DayResponse, *errors.AppError)
}

type calendarService struct {
	repo       repository.CalendarRepositoryInterface
	events     EventProjector
	names      NameDirectory
	slotFinder *SlotFinder
	now        func() time.Time
}

func NewCalendarService(repo repository.CalendarRepositoryInterface, events EventProjector, names NameDirectory) CalendarService {
	return &calendarService{
		repo:       repo,
		events:     events,
		names:      names,
		slotFinder: NewSlotFinder(),
		now:        time.Now,
	}
}

func (s *calendarService) ownerName(ctx context.Context, cal *entity.Calendar) string {
	names, appErr := s.names.DisplayNames(ctx, []roleEntity.RoleRef{cal.Owner()})
	if appErr != nil {
		return ""
	}
	return names[cal.Owner()]
}

func (s *calendarService) load(ctx context.Context, id uuid.UUID) (*entity.Calendar, *errors.AppError) {
	cal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get calendar", err)
	}
	if cal == nil {
		return nil, errors.New(errors.ErrNotFound, "Calendar not found")
	}
	return cal, nil
}

// OwnCalendar returns the calendar of the acting role.
func (s *calendarService) OwnCalendar(ctx context.Context, rc *roleEntity.RequestContext) (*entity.Calendar, *errors.AppError) {
	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	cal, err := s.repo.GetByOwner(ctx, actor.Ref())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get calendar", err)
	}
	if cal == nil {
		return nil, errors.New(errors.ErrNotFound, "Calendar not found")
	}
	return cal, nil
}

func (s *calendarService) GetOwn(ctx context.Context, rc *roleEntity.RequestContext, q params.QueryParams) (*dto.CalendarResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	cal, appErr := s.OwnCalendar(ctx, rc)
	if appErr != nil {
		return nil, appErr
	}
	return s.withEvents(ctx, cal, rc.Actor(), q)
}

func (s *calendarService) GetByID(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, q params.QueryParams) (*dto.CalendarResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}
	cal, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	return s.withEvents(ctx, cal, actor, q)
}

// withEvents attaches the projected events for q's range, the current month
// when no range is given.
func (s *calendarService) withEvents(ctx context.Context, cal *entity.Calendar, viewer roleEntity.Actor, q params.QueryParams) (*dto.CalendarResponse, *errors.AppError) {
	start, end := params.MonthRange(s.now().In(cal.Location()))
	if q.Start != nil {
		start = *q.Start
	}
	if q.End != nil {
		end = *q.End
	}
	if end.Before(start) {
		return nil, errors.NewValidationError([]errors.FieldError{
			{Field: "end", Message: "must be after start"},
		})
	}

	views, appErr := s.events.ProjectRange(ctx, cal, viewer, start, end, q.Type)
	if appErr != nil {
		return nil, appErr
	}

	resp := mapper.ToCalendarResponse(cal, s.ownerName(ctx, cal), viewer != nil && viewer.OwnsCalendar(cal.Owner()))
	resp.RangeStart = start
	resp.RangeEnd = end
	resp.Events = views
	return resp, nil
}

// GetPublicBySlug returns a calendar that has opted into public sharing.
func (s *calendarService) GetPublicBySlug(ctx context.Context, slug string) (*entity.Calendar, *errors.AppError) {
	cal, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get calendar", err)
	}
	if cal == nil || !cal.IsPublic {
		return nil, errors.New(errors.ErrNotFound, "Calendar not found")
	}
	return cal, nil
}

func (s *calendarService) UpdateOwn(ctx context.Context, rc *roleEntity.RequestContext, req *dto.UpdateCalendarRequest) (*dto.CalendarResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	cal, appErr := s.OwnCalendar(ctx, rc)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	mapper.ApplyUpdate(cal, req)

	if appErr := cal.Validate(); appErr != nil {
		return nil, appErr
	}
	if appErr := ValidateWorkHours(cal.WorkHours); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.Update(ctx, cal); err != nil {
		return nil, errors.FromDB(err, "Failed to update calendar")
	}

	return mapper.ToCalendarResponse(cal, s.ownerName(ctx, cal), true), nil
}

func (s *calendarService) Availability(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, start, end time.Time) (*dto.AvailabilityResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := rc.RequireAnyRole(); appErr != nil {
		return nil, appErr
	}
	if !end.After(start) {
		return nil, errors.NewValidationError([]errors.FieldError{
			{Field: "end", Message: "must be after start"},
		})
	}

	cal, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	ok, err := s.repo.IsAvailable(ctx, cal.ID, entity.Interval{Start: start, End: end}, nil)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to check availability", err)
	}

	return &dto.AvailabilityResponse{CalendarID: cal.ID, Start: start, End: end, Available: ok}, nil
}

// Slots suggests free start times on date inside the calendar's work hours.
// Someone booking onto another calendar only gets slots that respect its
// minimum notice and advance window.
func (s *calendarService) Slots(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, date time.Time, durationMinutes int) (*dto.SlotsResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}
	cal, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if durationMinutes <= 0 {
		durationMinutes = cal.DefaultEventDuration
	}

	loc := cal.Location()
	dayStart, _ := cal.DayRange(time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc))
	resp := &dto.SlotsResponse{
		CalendarID:      cal.ID,
		Date:            dayStart.Format(time.DateOnly),
		DurationMinutes: durationMinutes,
		Timezone:        cal.Timezone,
		Slots:           []dto.TimeSlot{},
	}

	windowStart, windowEnd, open := s.slotFinder.WorkWindow(cal.WorkHours, dayStart)
	if !open {
		return resp, nil
	}

	busy, err := s.repo.BusyIntervals(ctx, cal.ID, windowStart.Add(-cal.Buffer()), windowEnd.Add(cal.Buffer()))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load busy times", err)
	}

	now := s.now()
	q := SlotQuery{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Duration:    time.Duration(durationMinutes) * time.Minute,
		Buffer:      cal.Buffer(),
		Busy:        busy,
		Earliest:    now,
	}
	if !actor.OwnsCalendar(cal.Owner()) {
		q.Earliest = now.Add(time.Duration(cal.MinimumNoticeHours) * time.Hour)
		q.Latest = now.AddDate(0, 0, cal.AdvanceBookingDays)
	}

	for _, slot := range s.slotFinder.FindAvailableSlots(q) {
		resp.Slots = append(resp.Slots, dto.TimeSlot{Start: slot.Start, End: slot.End})
	}
	return resp, nil
}

// EventsForDate lists the events starting on date, a calendar day in the
// calendar's timezone.
func (s *calendarService) EventsForDate(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, date time.Time) (*dto.DayResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}
	cal, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	loc := cal.Location()
	dayStart, next := cal.DayRange(time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc))
	// ProjectRange is inclusive; stop one tick before the next day begins.
	views, appErr := s.events.ProjectRange(ctx, cal, actor, dayStart, next.Add(-time.Microsecond), "")
	if appErr != nil {
		return nil, appErr
	}

	return &dto.DayResponse{
		CalendarID: cal.ID,
		Date:       dayStart.Format(time.DateOnly),
		Timezone:   cal.Timezone,
		Events:     views,
	}, nil
}

// ValidateWorkHours checks the weekday -> {"start","end"} map shape.
func ValidateWorkHours(workHours map[string]any) *errors.AppError {
	var fields []errors.FieldError
	for day, raw := range workHours {
		if !validWeekday(day) {
			fields = append(fields, errors.FieldError{Field: "work_hours." + day, Message: "is not a weekday"})
			continue
		}
		hours, ok := raw.(map[string]any)
		if !ok {
			fields = append(fields, errors.FieldError{Field: "work_hours." + day, Message: "must have start and end"})
			continue
		}
		from, errFrom := clockOffset(hours["start"])
		to, errTo := clockOffset(hours["end"])
		if errFrom != nil || errTo != nil {
			fields = append(fields, errors.FieldError{Field: "work_hours." + day, Message: "times must be HH:MM"})
			continue
		}
		if to <= from {
			fields = append(fields, errors.FieldError{Field: "work_hours." + day, Message: "end must be after start"})
		}
	}
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

func validWeekday(day string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == day {
			return true
		}
	}
	return false
}

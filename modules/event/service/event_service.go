package service

import (
	"context"
	"strings"
	"time"

	"mentor-scheduler/core/constants"
	coreEntity "mentor-scheduler/core/entity"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/logger"
	"mentor-scheduler/core/queue"
	calendarEntity "mentor-scheduler/modules/calendar/entity"
	"mentor-scheduler/modules/event/dto"
	"mentor-scheduler/modules/event/entity"
	"mentor-scheduler/modules/event/repository"
	roleEntity "mentor-scheduler/modules/role/entity"
	"mentor-scheduler/modules/visibility"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Directory resolves leader and partner profiles.
type Directory interface {
	DisplayNames(ctx context.Context, refs []roleEntity.RoleRef) (map[roleEntity.RoleRef]string, *errors.AppError)
	Exists(ctx context.Context, ref roleEntity.RoleRef) (bool, *errors.AppError)
}

// ClassNames resolves class display names.
type ClassNames interface {
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, *errors.AppError)
}

// Notifier dispatches notifications. Failures never undo the change that
// triggered them.
type Notifier interface {
	ParticipantInvited(ctx context.Context, p queue.ParticipantInvitedPayload) error
	ParticipantJoined(ctx context.Context, p queue.ParticipantJoinedPayload) error
	EventStatusChanged(ctx context.Context, p queue.EventStatusChangedPayload) error
}

const (
	defaultUpcomingLimit = 20
	completionBatchSize  = 100
)

// EventService handles event business logic
type EventService struct {
	repo      repository.EventRepositoryInterface
	directory Directory
	classes   ClassNames
	notifier  Notifier
	now       func() time.Time
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	// Events
	CreateOnOwnCalendar(ctx context.Context, rc *roleEntity.RequestContext, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	CreateOnCalendar(ctx context.Context, rc *roleEntity.RequestContext, calendarID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID) *errors.AppError
	ConfirmEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	CancelEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, reason string) (*dto.EventResponse, *errors.AppError)
	CompleteEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID) (*dto.EventResponse, *errors.AppError)

	// Listings
	Upcoming(ctx context.Context, rc *roleEntity.RequestContext, limit int) (*dto.EventListResponse, *errors.AppError)
	PendingApprovals(ctx context.Context, rc *roleEntity.RequestContext) (*dto.EventListResponse, *errors.AppError)
	ProjectRange(ctx context.Context, cal *calendarEntity.Calendar, viewer roleEntity.Actor, start, end time.Time, eventType string) ([]visibility.EventView, *errors.AppError)

	// Participants
	InviteParticipant(ctx context.Context, rc *roleEntity.RequestContext, eventID uuid.UUID, req *dto.InviteParticipantRequest) (*dto.ParticipantResponse, *errors.AppError)
	JoinEvent(ctx context.Context, rc *roleEntity.RequestContext, eventID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError)
	ConfirmParticipant(ctx context.Context, rc *roleEntity.RequestContext, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError)
	DeclineParticipant(ctx context.Context, rc *roleEntity.RequestContext, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError)
	CancelParticipant(ctx context.Context, rc *roleEntity.RequestContext, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError)
	CheckInParticipant(ctx context.Context, rc *roleEntity.RequestContext, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError)

	// Background
	CompleteDue(ctx context.Context) (int, error)
}

// NewEventService creates a new event service
func NewEventService(repo repository.EventRepositoryInterface, directory Directory, classes ClassNames, notifier Notifier) *EventService {
	return &EventService{
		repo:      repo,
		directory: directory,
		classes:   classes,
		notifier:  notifier,
		now:       time.Now,
	}
}

var creatableStatuses = map[entity.EventStatus]bool{
	entity.EventStatusDraft:     true,
	entity.EventStatusPending:   true,
	entity.EventStatusConfirmed: true,
}

// newEvent builds an event from req with the creation defaults applied.
func newEvent(req *dto.CreateEventRequest, creator roleEntity.RoleRef) (*entity.Event, *errors.AppError) {
	event := &entity.Event{
		ID:                        uuid.New(),
		CreatorType:               creator.Kind,
		CreatorID:                 creator.ID,
		ClassID:                   req.ClassID,
		ParentEventID:             req.ParentEventID,
		Title:                     strings.TrimSpace(req.Title),
		Description:               req.Description,
		Location:                  req.Location,
		EventType:                 entity.EventType(req.EventType),
		Visibility:                entity.Visibility(req.Visibility),
		Status:                    entity.EventStatus(req.Status),
		Capacity:                  req.Capacity,
		RequiresApproval:          req.RequiresApproval,
		CancellationDeadlineHours: req.CancellationDeadlineHours,
		RescheduleLimit:           req.RescheduleLimit,
		MeetingLink:               req.MeetingLink,
		MeetingProvider:           req.MeetingProvider,
		JoinInstructions:          req.JoinInstructions,
		Color:                     req.Color,
		Tags:                      pq.StringArray(req.Tags),
		Metadata:                  coreEntity.JSONB(req.Metadata),
	}
	event.SetTimes(req.StartTime, req.EndTime)

	if event.EventType == "" {
		event.EventType = entity.EventTypeBooking
	}
	if event.Visibility == "" {
		event.Visibility = entity.VisibilityClassOnly
	}
	if event.Status == "" {
		event.Status = entity.EventStatusDraft
	}
	if !creatableStatuses[event.Status] {
		return nil, errors.NewValidationError([]errors.FieldError{
			{Field: "status", Message: "must be draft, pending or confirmed"},
		})
	}
	if event.RescheduleLimit == nil {
		limit := entity.DefaultRescheduleLimit
		event.RescheduleLimit = &limit
	}
	if event.Color == nil {
		color := event.EventType.DefaultColor()
		event.Color = &color
	}
	if event.Tags == nil {
		event.Tags = pq.StringArray{}
	}
	if event.Metadata == nil {
		event.Metadata = coreEntity.JSONB{}
	}
	return event, nil
}

// CreateOnOwnCalendar creates an event on the acting role's calendar
func (s *EventService) CreateOnOwnCalendar(ctx context.Context, rc *roleEntity.RequestContext, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	return s.create(ctx, rc, nil, req)
}

// CreateOnCalendar books an event on any calendar
func (s *EventService) CreateOnCalendar(ctx context.Context, rc *roleEntity.RequestContext, calendarID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	return s.create(ctx, rc, &calendarID, req)
}

// create serializes on the calendar row, checks for overlaps and inserts the
// event with its organizer in one transaction. A booking by a partner onto
// someone else's calendar is forced into pending approval.
func (s *EventService) create(ctx context.Context, rc *roleEntity.RequestContext, calendarID *uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	event, appErr := newEvent(req, actor.Ref())
	if appErr != nil {
		return nil, appErr
	}
	if appErr := event.Validate(); appErr != nil {
		return nil, appErr
	}
	if event.ClassID != nil && !actor.HasClassAccess(*event.ClassID) {
		return nil, errors.New(errors.ErrForbidden, "You don't have access to this class")
	}

	now := s.now()
	var cal *calendarEntity.Calendar
	var organizer *entity.Participant

	err := s.repo.WithTx(ctx, func(repo repository.EventRepositoryInterface) error {
		target, err := s.targetCalendar(ctx, repo, actor, calendarID)
		if err != nil {
			return err
		}
		// Serialize writers on this calendar until commit.
		cal, err = repo.LockCalendar(ctx, target.ID)
		if err != nil {
			return err
		}

		owns := actor.OwnsCalendar(cal.Owner())
		if rc.ActingAsPartner() && !owns {
			event.Status = entity.EventStatusPending
			event.RequiresApproval = true
		}
		if !owns {
			if appErr := cal.CheckBookingWindow(event.StartTime, now); appErr != nil {
				return appErr
			}
		}
		if event.Status == entity.EventStatusConfirmed {
			event.ConfirmedAt = &now
		}
		event.CalendarID = cal.ID

		if event.ParentEventID != nil {
			parent, err := repo.GetEventByID(ctx, *event.ParentEventID)
			if err != nil {
				return err
			}
			if parent == nil || parent.CalendarID != cal.ID {
				return errors.NewValidationError([]errors.FieldError{
					{Field: "parent_event_id", Message: "must be an event on the same calendar"},
				})
			}
		}

		if appErr := s.checkConflict(ctx, repo, cal, event.Interval(), nil, owns); appErr != nil {
			return appErr
		}

		if err := repo.CreateEvent(ctx, event); err != nil {
			return err
		}

		organizer = entity.NewParticipant(event.ID, actor.Ref(), entity.ParticipantRoleOrganizer, now)
		tr, appErr := entity.TransitionParticipant(organizer.Status, entity.ParticipantStatusConfirmed)
		if appErr != nil {
			return appErr
		}
		if appErr := event.CheckCapacity(tr.AttendeeDelta); appErr != nil {
			return appErr
		}
		organizer.Apply(tr, now)
		if err := repo.CreateParticipant(ctx, organizer); err != nil {
			return err
		}
		if err := repo.ApplyAttendeeDelta(ctx, event.ID, tr.AttendeeDelta); err != nil {
			return err
		}
		event.ApplyAttendeeDelta(tr.AttendeeDelta)
		return nil
	})
	if err != nil {
		return nil, errors.FromDB(err, "Failed to create event")
	}

	logger.Info("EventService:create", "event_id", event.ID, "calendar_id", cal.ID, "status", event.Status)

	if !actor.OwnsCalendar(cal.Owner()) {
		s.notifyStatus(ctx, event, cal, actor, "", event.Status, "")
	}

	return s.respond(ctx, cal, event, []entity.Participant{*organizer}, actor), nil
}

func (s *EventService) targetCalendar(ctx context.Context, repo repository.EventRepositoryInterface, actor roleEntity.Actor, calendarID *uuid.UUID) (*calendarEntity.Calendar, error) {
	var cal *calendarEntity.Calendar
	var err error
	if calendarID == nil {
		cal, err = repo.GetCalendarByOwner(ctx, actor.Ref())
	} else {
		cal, err = repo.GetCalendar(ctx, *calendarID)
	}
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, errors.New(errors.ErrNotFound, "Calendar not found")
	}
	return cal, nil
}

// checkConflict runs the overlap test. Bookings onto someone else's
// calendar also keep the calendar's buffer free on both sides.
func (s *EventService) checkConflict(ctx context.Context, repo repository.EventRepositoryInterface, cal *calendarEntity.Calendar, want calendarEntity.Interval, exclude *uuid.UUID, owns bool) *errors.AppError {
	if !owns {
		want = calendarEntity.Interval{Start: want.Start.Add(-cal.Buffer()), End: want.End.Add(cal.Buffer())}
	}
	ok, err := repo.IsAvailable(ctx, cal.ID, want, exclude)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to check availability", err)
	}
	if !ok {
		return errors.New(errors.ErrStateConflict, "This time overlaps another event on the calendar")
	}
	return nil
}

// GetEvent fetches one event projected for the viewer
func (s *EventService) GetEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	event, cal, appErr := s.loadEvent(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	details, appErr := s.details(ctx, cal, []entity.Event{*event})
	if appErr != nil {
		return nil, appErr
	}
	d := &details[0]

	view, ok := visibility.Project(d, actor)
	if !ok {
		return nil, errors.New(errors.ErrUnauthorized, "You are not allowed to view this event")
	}
	return dto.ToEventResponse(view, d.Participants, s.participantNames(ctx, d.Participants)), nil
}

// UpdateEvent edits an event. Moving a non-draft event counts against its
// reschedule limit and is re-checked for overlaps.
func (s *EventService) UpdateEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}
	if req.ClassID != nil && !actor.HasClassAccess(*req.ClassID) {
		return nil, errors.New(errors.ErrForbidden, "You don't have access to this class")
	}

	now := s.now()
	var event *entity.Event
	var cal *calendarEntity.Calendar

	err := s.repo.WithTx(ctx, func(repo repository.EventRepositoryInterface) error {
		current, err := repo.GetEventByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return errors.New(errors.ErrNotFound, "Event not found")
		}
		// Calendar first, then the event row, the same order as create.
		cal, err = repo.LockCalendar(ctx, current.CalendarID)
		if err != nil {
			return err
		}
		event, err = repo.LockEventByID(ctx, id)
		if err != nil {
			return err
		}
		if event == nil {
			return errors.New(errors.ErrNotFound, "Event not found")
		}

		if !canManage(actor, event, cal) {
			return errors.New(errors.ErrUnauthorized, "Only the creator or the calendar owner can edit this event")
		}
		if event.Status.Terminal() {
			return errors.New(errors.ErrStateConflict, "A "+string(event.Status)+" event can't be edited")
		}

		owns := actor.OwnsCalendar(cal.Owner())
		if req.RequiresApproval != nil && *req.RequiresApproval != event.RequiresApproval && !owns {
			return errors.New(errors.ErrUnauthorized, "Only the calendar owner can change whether a booking needs approval")
		}

		applyUpdate(event, req)

		start, end := event.StartTime, event.EndTime
		if req.StartTime != nil {
			start = *req.StartTime
		}
		if req.EndTime != nil {
			end = *req.EndTime
		}
		moved := !start.Equal(event.StartTime) || !end.Equal(event.EndTime)
		if moved {
			if !end.After(start) {
				return errors.NewValidationError([]errors.FieldError{
					{Field: "end_time", Message: "must be after start time"},
				})
			}
			if appErr := event.Reschedule(start, end, now); appErr != nil {
				return appErr
			}
		}

		if appErr := event.Validate(); appErr != nil {
			return appErr
		}
		if moved {
			if !owns {
				if appErr := cal.CheckBookingWindow(event.StartTime, now); appErr != nil {
					return appErr
				}
			}
			if appErr := s.checkConflict(ctx, repo, cal, event.Interval(), &event.ID, owns); appErr != nil {
				return appErr
			}
		}

		return repo.UpdateEvent(ctx, event)
	})
	if err != nil {
		return nil, errors.FromDB(err, "Failed to update event")
	}

	return s.respondFresh(ctx, cal, event, actor)
}

func applyUpdate(e *entity.Event, req *dto.UpdateEventRequest) {
	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.Location != nil {
		e.Location = req.Location
	}
	if req.EventType != nil {
		e.EventType = entity.EventType(*req.EventType)
	}
	if req.Visibility != nil {
		e.Visibility = entity.Visibility(*req.Visibility)
	}
	if req.Capacity != nil {
		e.Capacity = req.Capacity
	}
	if req.RequiresApproval != nil {
		e.RequiresApproval = *req.RequiresApproval
	}
	if req.CancellationDeadlineHours != nil {
		e.CancellationDeadlineHours = req.CancellationDeadlineHours
	}
	if req.RescheduleLimit != nil {
		e.RescheduleLimit = req.RescheduleLimit
	}
	if req.ClassID != nil {
		e.ClassID = req.ClassID
	}
	if req.MeetingLink != nil {
		e.MeetingLink = req.MeetingLink
	}
	if req.MeetingProvider != nil {
		e.MeetingProvider = req.MeetingProvider
	}
	if req.JoinInstructions != nil {
		e.JoinInstructions = req.JoinInstructions
	}
	if req.Color != nil {
		e.Color = req.Color
	}
	if req.Tags != nil {
		e.Tags = pq.StringArray(req.Tags)
	}
	if req.Metadata != nil {
		e.Metadata = coreEntity.JSONB(req.Metadata)
	}
}

// DeleteEvent hard-deletes an event and its participants
func (s *EventService) DeleteEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return appErr
	}

	err := s.repo.WithTx(ctx, func(repo repository.EventRepositoryInterface) error {
		event, err := repo.LockEventByID(ctx, id)
		if err != nil {
			return err
		}
		if event == nil {
			return errors.New(errors.ErrNotFound, "Event not found")
		}
		cal, err := repo.GetCalendar(ctx, event.CalendarID)
		if err != nil {
			return err
		}
		if !canManage(actor, event, cal) {
			return errors.New(errors.ErrUnauthorized, "Only the creator or the calendar owner can delete this event")
		}
		return repo.DeleteEvent(ctx, id)
	})
	if err != nil {
		return errors.FromDB(err, "Failed to delete event")
	}

	logger.Info("EventService:DeleteEvent", "event_id", id, "by", actor.Ref().String())
	return nil
}

// ConfirmEvent approves a pending event. An event awaiting approval can only
// be confirmed by the leader who owns the calendar, acting as leader.
func (s *EventService) ConfirmEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	return s.transition(ctx, rc, id, func(actor roleEntity.Actor, event *entity.Event, cal *calendarEntity.Calendar, now time.Time) *errors.AppError {
		if event.Status == entity.EventStatusPending && event.RequiresApproval {
			if !rc.ActingAsLeader() || !rc.Leader.OwnsCalendar(cal.Owner()) {
				if !canManage(actor, event, cal) {
					return errors.New(errors.ErrUnauthorized, "You are not allowed to confirm this event")
				}
				return errors.New(errors.ErrStateConflict, "This booking is waiting for the calendar owner's approval")
			}
		} else if !canManage(actor, event, cal) {
			return errors.New(errors.ErrUnauthorized, "Only the creator or the calendar owner can confirm this event")
		}
		return event.Confirm(now)
	}, "")
}

// CancelEvent cancels an event subject to its cancellation deadline
func (s *EventService) CancelEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, reason string) (*dto.EventResponse, *errors.AppError) {
	reason = strings.TrimSpace(reason)
	return s.transition(ctx, rc, id, func(actor roleEntity.Actor, event *entity.Event, cal *calendarEntity.Calendar, now time.Time) *errors.AppError {
		if !canManage(actor, event, cal) {
			return errors.New(errors.ErrUnauthorized, "Only the creator or the calendar owner can cancel this event")
		}
		return event.Cancel(reason, now)
	}, reason)
}

// CompleteEvent marks a confirmed event completed
func (s *EventService) CompleteEvent(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	return s.transition(ctx, rc, id, func(actor roleEntity.Actor, event *entity.Event, cal *calendarEntity.Calendar, now time.Time) *errors.AppError {
		if !canManage(actor, event, cal) {
			return errors.New(errors.ErrUnauthorized, "Only the creator or the calendar owner can complete this event")
		}
		return event.Complete(now)
	}, "")
}

type transitionFunc func(actor roleEntity.Actor, event *entity.Event, cal *calendarEntity.Calendar, now time.Time) *errors.AppError

// transition locks the event, applies fn and persists the result. Other
// parties are notified when the status actually changed.
func (s *EventService) transition(ctx context.Context, rc *roleEntity.RequestContext, id uuid.UUID, fn transitionFunc, reason string) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	var event *entity.Event
	var cal *calendarEntity.Calendar
	var from entity.EventStatus

	err := s.repo.WithTx(ctx, func(repo repository.EventRepositoryInterface) error {
		var err error
		event, err = repo.LockEventByID(ctx, id)
		if err != nil {
			return err
		}
		if event == nil {
			return errors.New(errors.ErrNotFound, "Event not found")
		}
		cal, err = repo.GetCalendar(ctx, event.CalendarID)
		if err != nil {
			return err
		}

		from = event.Status
		if appErr := fn(actor, event, cal, now); appErr != nil {
			return appErr
		}
		if event.Status == from {
			return nil
		}
		return repo.UpdateEvent(ctx, event)
	})
	if err != nil {
		return nil, errors.FromDB(err, "Failed to update event")
	}

	if event.Status != from {
		logger.Info("EventService:transition", "event_id", event.ID, "from", from, "to", event.Status)
		s.notifyStatus(ctx, event, cal, actor, from, event.Status, reason)
	}

	return s.respondFresh(ctx, cal, event, actor)
}

// canManage is true for the event's creator and the calendar's owner.
func canManage(actor roleEntity.Actor, event *entity.Event, cal *calendarEntity.Calendar) bool {
	return event.Creator().Equal(actor.Ref()) || actor.OwnsCalendar(cal.Owner())
}

// Upcoming lists events starting from now on the acting role's calendar
func (s *EventService) Upcoming(ctx context.Context, rc *roleEntity.RequestContext, limit int) (*dto.EventListResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}

	cal, appErr := s.ownCalendar(ctx, actor)
	if appErr != nil {
		return nil, appErr
	}

	events, err := s.repo.ListUpcoming(ctx, cal.ID, s.now(), limit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list events", err)
	}
	return s.project(ctx, cal, events, actor)
}

// PendingApprovals lists bookings on the acting role's calendar that wait
// for approval
func (s *EventService) PendingApprovals(ctx context.Context, rc *roleEntity.RequestContext) (*dto.EventListResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	cal, appErr := s.ownCalendar(ctx, actor)
	if appErr != nil {
		return nil, appErr
	}

	events, err := s.repo.ListPendingApprovals(ctx, cal.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list pending approvals", err)
	}
	return s.project(ctx, cal, events, actor)
}

func (s *EventService) project(ctx context.Context, cal *calendarEntity.Calendar, events []entity.Event, viewer roleEntity.Actor) (*dto.EventListResponse, *errors.AppError) {
	details, appErr := s.details(ctx, cal, events)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.EventListResponse{Events: visibility.ProjectAll(details, viewer)}, nil
}

// ProjectRange lists the calendar's events starting in [start, end] as seen
// by viewer.
func (s *EventService) ProjectRange(ctx context.Context, cal *calendarEntity.Calendar, viewer roleEntity.Actor, start, end time.Time, eventType string) ([]visibility.EventView, *errors.AppError) {
	if eventType != "" && !entity.EventType(eventType).Valid() {
		return nil, errors.NewValidationError([]errors.FieldError{
			{Field: "type", Message: "is not included in the list"},
		})
	}

	events, err := s.repo.ListForRange(ctx, cal.ID, start, end, eventType)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list events", err)
	}

	details, appErr := s.details(ctx, cal, events)
	if appErr != nil {
		return nil, appErr
	}
	return visibility.ProjectAll(details, viewer), nil
}

// CompleteDue completes confirmed events that have ended. It is run by the
// worker on a schedule and returns how many events it completed.
func (s *EventService) CompleteDue(ctx context.Context) (int, error) {
	now := s.now()
	ids, err := s.repo.ListDueForCompletion(ctx, now, completionBatchSize)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, id := range ids {
		done := false
		err := s.repo.WithTx(ctx, func(repo repository.EventRepositoryInterface) error {
			event, err := repo.LockEventByID(ctx, id)
			if err != nil || event == nil {
				return err
			}
			if event.Status != entity.EventStatusConfirmed {
				return nil
			}
			if appErr := event.Complete(now); appErr != nil {
				return appErr
			}
			done = true
			return repo.UpdateEvent(ctx, event)
		})
		if err != nil {
			logger.Error("EventService:CompleteDue", "event_id", id, "error", err)
			continue
		}
		if done {
			completed++
		}
	}
	return completed, nil
}

// ===================== Helpers =====================

func (s *EventService) ownCalendar(ctx context.Context, actor roleEntity.Actor) (*calendarEntity.Calendar, *errors.AppError) {
	cal, err := s.repo.GetCalendarByOwner(ctx, actor.Ref())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get calendar", err)
	}
	if cal == nil {
		return nil, errors.New(errors.ErrNotFound, "Calendar not found")
	}
	return cal, nil
}

func (s *EventService) loadEvent(ctx context.Context, id uuid.UUID) (*entity.Event, *calendarEntity.Calendar, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get event", err)
	}
	if event == nil {
		return nil, nil, errors.New(errors.ErrNotFound, "Event not found")
	}
	cal, err := s.repo.GetCalendar(ctx, event.CalendarID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get calendar", err)
	}
	if cal == nil {
		return nil, nil, errors.New(errors.ErrNotFound, "Calendar not found")
	}
	return event, cal, nil
}

// details attaches participants, the creator's display name and the class
// name to each event.
func (s *EventService) details(ctx context.Context, cal *calendarEntity.Calendar, events []entity.Event) ([]entity.EventDetail, *errors.AppError) {
	details := make([]entity.EventDetail, 0, len(events))
	if len(events) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, 0, len(events))
	creators := make([]roleEntity.RoleRef, 0, len(events))
	var classIDs []uuid.UUID
	for i := range events {
		ids = append(ids, events[i].ID)
		creators = append(creators, events[i].Creator())
		if events[i].ClassID != nil {
			classIDs = append(classIDs, *events[i].ClassID)
		}
	}

	participants, err := s.repo.ListParticipants(ctx, ids)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load participants", err)
	}
	names, appErr := s.directory.DisplayNames(ctx, creators)
	if appErr != nil {
		return nil, appErr
	}
	classNames := map[uuid.UUID]string{}
	if len(classIDs) > 0 {
		if classNames, appErr = s.classes.NamesByIDs(ctx, classIDs); appErr != nil {
			return nil, appErr
		}
	}

	for i := range events {
		d := entity.EventDetail{
			Event:        events[i],
			Owner:        cal.Owner(),
			Participants: participants[events[i].ID],
			CreatorName:  names[events[i].Creator()],
		}
		if events[i].ClassID != nil {
			d.ClassName = classNames[*events[i].ClassID]
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *EventService) participantNames(ctx context.Context, participants []entity.Participant) map[roleEntity.RoleRef]string {
	refs := make([]roleEntity.RoleRef, 0, len(participants))
	for _, p := range participants {
		refs = append(refs, p.Ref())
	}
	names, appErr := s.directory.DisplayNames(ctx, refs)
	if appErr != nil {
		logger.Warn("EventService:participantNames", "error", appErr)
		return map[roleEntity.RoleRef]string{}
	}
	return names
}

// respond projects an event the actor just wrote.
func (s *EventService) respond(ctx context.Context, cal *calendarEntity.Calendar, event *entity.Event, participants []entity.Participant, actor roleEntity.Actor) *dto.EventResponse {
	d := entity.EventDetail{Event: *event, Owner: cal.Owner(), Participants: participants}
	if names, appErr := s.directory.DisplayNames(ctx, []roleEntity.RoleRef{event.Creator()}); appErr == nil {
		d.CreatorName = names[event.Creator()]
	}
	if event.ClassID != nil {
		if names, appErr := s.classes.NamesByIDs(ctx, []uuid.UUID{*event.ClassID}); appErr == nil {
			d.ClassName = names[*event.ClassID]
		}
	}

	view, ok := visibility.Project(&d, actor)
	if !ok {
		view = visibility.Masked(&d)
	}
	return dto.ToEventResponse(view, participants, s.participantNames(ctx, participants))
}

func (s *EventService) respondFresh(ctx context.Context, cal *calendarEntity.Calendar, event *entity.Event, actor roleEntity.Actor) (*dto.EventResponse, *errors.AppError) {
	byEvent, err := s.repo.ListParticipants(ctx, []uuid.UUID{event.ID})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load participants", err)
	}
	return s.respond(ctx, cal, event, byEvent[event.ID], actor), nil
}

var _ EventServiceInterface = (*EventService)(nil)

package service

import (
	"context"
	"time"

	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/logger"
	calendarEntity "mentor-scheduler/modules/calendar/entity"
	"mentor-scheduler/modules/event/dto"
	"mentor-scheduler/modules/event/entity"
	"mentor-scheduler/modules/event/repository"
	roleEntity "mentor-scheduler/modules/role/entity"
	"mentor-scheduler/modules/visibility"

	"github.com/google/uuid"
)

// InviteParticipant adds a leader or partner to an event as pending
func (s *EventService) InviteParticipant(ctx context.Context, rc *roleEntity.RequestContext, eventID uuid.UUID, req *dto.InviteParticipantRequest) (*dto.ParticipantResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	ref := roleEntity.RoleRef{Kind: roleEntity.Kind(req.ParticipantType), ID: req.ParticipantID}
	role := entity.ParticipantRole(req.Role)
	if role == "" {
		role = entity.ParticipantRoleAttendee
	}
	if appErr := validateInvite(ref, role); appErr != nil {
		return nil, appErr
	}

	exists, appErr := s.directory.Exists(ctx, ref)
	if appErr != nil {
		return nil, appErr
	}
	if !exists {
		return nil, errors.New(errors.ErrNotFound, "Participant not found")
	}

	now := s.now()
	var event *entity.Event
	var participant *entity.Participant

	err := s.repo.WithTx(ctx, func(repo repository.EventRepositoryInterface) error {
		var err error
		event, err = repo.LockEventByID(ctx, eventID)
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
			return errors.New(errors.ErrUnauthorized, "Only the creator or the calendar owner can invite participants")
		}
		if event.Status.Terminal() {
			return errors.New(errors.ErrStateConflict, "Can't invite to a "+string(event.Status)+" event")
		}

		participant = entity.NewParticipant(event.ID, ref, role, now)
		participant.Notes = req.Notes
		return repo.CreateParticipant(ctx, participant)
	})
	if err != nil {
		return nil, errors.FromDB(err, "Failed to invite participant")
	}

	logger.Info("EventService:InviteParticipant", "event_id", event.ID, "participant", ref.String())

	if !ref.Equal(actor.Ref()) {
		s.notifyInvited(ctx, event, participant)
	}
	return s.participantResponse(ctx, participant), nil
}

func validateInvite(ref roleEntity.RoleRef, role entity.ParticipantRole) *errors.AppError {
	var fields []errors.FieldError
	if !ref.Kind.Valid() {
		fields = append(fields, errors.FieldError{Field: "participant_type", Message: "must be leader or partner"})
	}
	if ref.ID == uuid.Nil {
		fields = append(fields, errors.FieldError{Field: "participant_id", Message: "can't be blank"})
	}
	if !role.Valid() {
		fields = append(fields, errors.FieldError{Field: "role", Message: "is not included in the list"})
	}
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

// JoinEvent confirms the acting role on an event it can see, creating the
// participant record when there is none.
func (s *EventService) JoinEvent(ctx context.Context, rc *roleEntity.RequestContext, eventID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	var event *entity.Event
	var cal *calendarEntity.Calendar
	var participant *entity.Participant
	created := false

	err := s.repo.WithTx(ctx, func(repo repository.EventRepositoryInterface) error {
		var err error
		event, err = repo.LockEventByID(ctx, eventID)
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
		byEvent, err := repo.ListParticipants(ctx, []uuid.UUID{event.ID})
		if err != nil {
			return err
		}
		d := &entity.EventDetail{Event: *event, Owner: cal.Owner(), Participants: byEvent[event.ID]}
		if !visibility.VisibleTo(d, actor) {
			return errors.New(errors.ErrUnauthorized, "You are not allowed to join this event")
		}
		if event.Status.Terminal() {
			return errors.New(errors.ErrStateConflict, "Can't join a "+string(event.Status)+" event")
		}

		participant, err = repo.GetParticipantByRef(ctx, event.ID, actor.Ref())
		if err != nil {
			return err
		}
		if participant == nil {
			participant = entity.NewParticipant(event.ID, actor.Ref(), entity.ParticipantRoleAttendee, now)
			if err := repo.CreateParticipant(ctx, participant); err != nil {
				return err
			}
			created = true
		}
		return s.applyParticipantStatus(ctx, repo, event, participant, entity.ParticipantStatusConfirmed, now)
	})
	if err != nil {
		return nil, errors.FromDB(err, "Failed to join event")
	}

	if created {
		s.notifyJoined(ctx, event, cal, actor, participant)
	}

	return s.participantResponse(ctx, participant), nil
}

// ConfirmParticipant accepts an invitation
func (s *EventService) ConfirmParticipant(ctx context.Context, rc *roleEntity.RequestContext, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
	return s.respondAs(ctx, rc, participantID, entity.ParticipantStatusConfirmed)
}

// DeclineParticipant declines an invitation
func (s *EventService) DeclineParticipant(ctx context.Context, rc *roleEntity.RequestContext, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
	return s.respondAs(ctx, rc, participantID, entity.ParticipantStatusDeclined)
}

// CancelParticipant withdraws from an event
func (s *EventService) CancelParticipant(ctx context.Context, rc *roleEntity.RequestContext, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
	return s.respondAs(ctx, rc, participantID, entity.ParticipantStatusCancelled)
}

func (s *EventService) respondAs(ctx context.Context, rc *roleEntity.RequestContext, participantID uuid.UUID, to entity.ParticipantStatus) (*dto.ParticipantResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	var participant *entity.Participant

	err := s.repo.WithTx(ctx, func(repo repository.EventRepositoryInterface) error {
		event, p, err := s.lockParticipant(ctx, repo, actor, participantID)
		if err != nil {
			return err
		}
		participant = p
		if event.Status.Terminal() {
			return errors.New(errors.ErrStateConflict, "The event is already "+string(event.Status))
		}
		return s.applyParticipantStatus(ctx, repo, event, participant, to, now)
	})
	if err != nil {
		return nil, errors.FromDB(err, "Failed to update participant")
	}

	return s.participantResponse(ctx, participant), nil
}

// CheckInParticipant records attendance for a confirmed participant
func (s *EventService) CheckInParticipant(ctx context.Context, rc *roleEntity.RequestContext, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	var participant *entity.Participant

	err := s.repo.WithTx(ctx, func(repo repository.EventRepositoryInterface) error {
		_, p, err := s.lockParticipant(ctx, repo, actor, participantID)
		if err != nil {
			return err
		}
		participant = p
		if participant.Status != entity.ParticipantStatusConfirmed {
			return errors.New(errors.ErrStateConflict, "Only confirmed participants can check in")
		}
		participant.CheckIn(now)
		return repo.UpdateParticipant(ctx, participant)
	})
	if err != nil {
		return nil, errors.FromDB(err, "Failed to check in")
	}

	return s.participantResponse(ctx, participant), nil
}

// lockParticipant locks the event and then the participant row. Only the
// participant itself, the event creator and the calendar owner get through.
func (s *EventService) lockParticipant(ctx context.Context, repo repository.EventRepositoryInterface, actor roleEntity.Actor, participantID uuid.UUID) (*entity.Event, *entity.Participant, error) {
	p, err := repo.GetParticipantByID(ctx, participantID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, errors.New(errors.ErrNotFound, "Participant not found")
	}

	event, err := repo.LockEventByID(ctx, p.EventID)
	if err != nil {
		return nil, nil, err
	}
	if event == nil {
		return nil, nil, errors.New(errors.ErrNotFound, "Event not found")
	}
	p, err = repo.LockParticipantByID(ctx, participantID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, errors.New(errors.ErrNotFound, "Participant not found")
	}

	if !p.Ref().Equal(actor.Ref()) {
		cal, err := repo.GetCalendar(ctx, event.CalendarID)
		if err != nil {
			return nil, nil, err
		}
		if !canManage(actor, event, cal) {
			return nil, nil, errors.New(errors.ErrUnauthorized, "You can't change this participant")
		}
	}
	return event, p, nil
}

// applyParticipantStatus moves p to status and keeps the event's attendee
// counter in step, refusing to go over capacity.
func (s *EventService) applyParticipantStatus(ctx context.Context, repo repository.EventRepositoryInterface, event *entity.Event, p *entity.Participant, to entity.ParticipantStatus, now time.Time) error {
	tr, appErr := entity.TransitionParticipant(p.Status, to)
	if appErr != nil {
		return appErr
	}
	if tr.From == tr.To {
		return nil
	}
	if appErr := event.CheckCapacity(tr.AttendeeDelta); appErr != nil {
		return appErr
	}

	p.Apply(tr, now)
	if err := repo.UpdateParticipant(ctx, p); err != nil {
		return err
	}
	if err := repo.ApplyAttendeeDelta(ctx, event.ID, tr.AttendeeDelta); err != nil {
		return err
	}
	event.ApplyAttendeeDelta(tr.AttendeeDelta)
	return nil
}

func (s *EventService) participantResponse(ctx context.Context, p *entity.Participant) *dto.ParticipantResponse {
	resp := dto.ToParticipantResponse(p, s.participantNames(ctx, []entity.Participant{*p}))
	return &resp
}

package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"mentor-scheduler/core/database"
	"mentor-scheduler/core/logger"
	calendarEntity "mentor-scheduler/modules/calendar/entity"
	calendarRepository "mentor-scheduler/modules/calendar/repository"
	"mentor-scheduler/modules/event/entity"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// EventRepository handles events and event_participants. DB is either the
// pool or the transaction opened by WithTx.
type EventRepository struct {
	DB database.Querier
	db database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db, db: db}
}

type EventRepositoryInterface interface {
	// WithTx runs fn with a repository bound to one transaction.
	WithTx(ctx context.Context, fn func(repo EventRepositoryInterface) error) error

	// Calendar access inside the same transaction
	GetCalendar(ctx context.Context, id uuid.UUID) (*calendarEntity.Calendar, error)
	GetCalendarByOwner(ctx context.Context, owner roleEntity.RoleRef) (*calendarEntity.Calendar, error)
	LockCalendar(ctx context.Context, id uuid.UUID) (*calendarEntity.Calendar, error)
	IsAvailable(ctx context.Context, calendarID uuid.UUID, want calendarEntity.Interval, excludeEventID *uuid.UUID) (bool, error)

	// Events
	CreateEvent(ctx context.Context, event *entity.Event) error
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	LockEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ApplyAttendeeDelta(ctx context.Context, eventID uuid.UUID, delta int) error
	ListForRange(ctx context.Context, calendarID uuid.UUID, start, end time.Time, eventType string) ([]entity.Event, error)
	ListUpcoming(ctx context.Context, calendarID uuid.UUID, now time.Time, limit int) ([]entity.Event, error)
	ListPendingApprovals(ctx context.Context, calendarID uuid.UUID) ([]entity.Event, error)
	ListDueForCompletion(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)

	// Participants
	CreateParticipant(ctx context.Context, p *entity.Participant) error
	GetParticipantByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error)
	LockParticipantByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error)
	GetParticipantByRef(ctx context.Context, eventID uuid.UUID, ref roleEntity.RoleRef) (*entity.Participant, error)
	UpdateParticipant(ctx context.Context, p *entity.Participant) error
	ListParticipants(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]entity.Participant, error)
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(repo EventRepositoryInterface) error) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		return fn(&EventRepository{DB: tx, db: r.db})
	})
}

// ===================== Calendar =====================

func (r *EventRepository) calendars() *calendarRepository.CalendarRepository {
	return calendarRepository.NewCalendarRepository(r.DB)
}

func (r *EventRepository) GetCalendar(ctx context.Context, id uuid.UUID) (*calendarEntity.Calendar, error) {
	return r.calendars().GetByID(ctx, id)
}

func (r *EventRepository) GetCalendarByOwner(ctx context.Context, owner roleEntity.RoleRef) (*calendarEntity.Calendar, error) {
	return r.calendars().GetByOwner(ctx, owner)
}

func (r *EventRepository) LockCalendar(ctx context.Context, id uuid.UUID) (*calendarEntity.Calendar, error) {
	return r.calendars().LockByID(ctx, id)
}

func (r *EventRepository) IsAvailable(ctx context.Context, calendarID uuid.UUID, want calendarEntity.Interval, excludeEventID *uuid.UUID) (bool, error) {
	return r.calendars().IsAvailable(ctx, calendarID, want, excludeEventID)
}

// ===================== Events =====================

const eventColumns = `
	id, calendar_id, creator_type, creator_id, class_id, parent_event_id, title, description,
	location, start_time, end_time, duration_minutes, event_type, visibility, status, capacity,
	current_attendees, requires_approval, cancellation_deadline_hours, reschedule_limit,
	reschedule_count, meeting_link, meeting_provider, join_instructions, color, tags, metadata,
	confirmed_at, cancelled_at, completed_at, cancellation_reason, created_at, updated_at
`

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (
			id, calendar_id, creator_type, creator_id, class_id, parent_event_id, title, description,
			location, start_time, end_time, duration_minutes, event_type, visibility, status, capacity,
			current_attendees, requires_approval, cancellation_deadline_hours, reschedule_limit,
			reschedule_count, meeting_link, meeting_provider, join_instructions, color, tags, metadata,
			confirmed_at
		) VALUES (
			:id, :calendar_id, :creator_type, :creator_id, :class_id, :parent_event_id, :title, :description,
			:location, :start_time, :end_time, :duration_minutes, :event_type, :visibility, :status, :capacity,
			:current_attendees, :requires_approval, :cancellation_deadline_hours, :reschedule_limit,
			:reschedule_count, :meeting_link, :meeting_provider, :join_instructions, :color, :tags, :metadata,
			:confirmed_at
		)
	`
	if _, err := r.DB.NamedExecContext(ctx, query, event); err != nil {
		logger.Error("EventRepository:CreateEvent", "calendar_id", event.CalendarID, "error", err)
		return err
	}
	return nil
}

func (r *EventRepository) getEvent(ctx context.Context, method, query string, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	if err := r.DB.GetContext(ctx, &event, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:"+method, err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return r.getEvent(ctx, "GetEventByID", `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *EventRepository) LockEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return r.getEvent(ctx, "LockEventByID", `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id)
}

// UpdateEvent writes every mutable column except current_attendees, which
// only ApplyAttendeeDelta changes.
func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events SET
			class_id = :class_id, title = :title, description = :description, location = :location,
			start_time = :start_time, end_time = :end_time, duration_minutes = :duration_minutes,
			event_type = :event_type, visibility = :visibility, status = :status, capacity = :capacity,
			requires_approval = :requires_approval,
			cancellation_deadline_hours = :cancellation_deadline_hours,
			reschedule_limit = :reschedule_limit, reschedule_count = :reschedule_count,
			meeting_link = :meeting_link, meeting_provider = :meeting_provider,
			join_instructions = :join_instructions, color = :color, tags = :tags, metadata = :metadata,
			confirmed_at = :confirmed_at, cancelled_at = :cancelled_at, completed_at = :completed_at,
			cancellation_reason = :cancellation_reason, updated_at = NOW()
		WHERE id = :id
	`
	if _, err := r.DB.NamedExecContext(ctx, query, event); err != nil {
		logger.Error("EventRepository:UpdateEvent", "event_id", event.ID, "error", err)
		return err
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}

// ApplyAttendeeDelta is the only statement that changes current_attendees.
// The capacity CHECK constraint rejects an overflow.
func (r *EventRepository) ApplyAttendeeDelta(ctx context.Context, eventID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	query := `
		UPDATE events
		SET current_attendees = GREATEST(current_attendees + $2, 0), updated_at = NOW()
		WHERE id = $1
	`
	if err := r.DB.ExecContext(ctx, query, eventID, delta); err != nil {
		logger.Error("EventRepository:ApplyAttendeeDelta", "event_id", eventID, "delta", delta, "error", err)
		return err
	}
	return nil
}

// ListForRange returns events whose start_time lies in [start, end].
func (r *EventRepository) ListForRange(ctx context.Context, calendarID uuid.UUID, start, end time.Time, eventType string) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE calendar_id = $1
		  AND start_time >= $2 AND start_time <= $3
		  AND ($4 = '' OR event_type = $4)
		ORDER BY start_time ASC
	`
	events := []entity.Event{}
	if err := r.DB.SelectContext(ctx, &events, query, calendarID, start, end, eventType); err != nil {
		logger.Error("EventRepository:ListForRange", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) ListUpcoming(ctx context.Context, calendarID uuid.UUID, now time.Time, limit int) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE calendar_id = $1 AND start_time >= $2
		ORDER BY start_time ASC
		LIMIT $3
	`
	events := []entity.Event{}
	if err := r.DB.SelectContext(ctx, &events, query, calendarID, now, limit); err != nil {
		logger.Error("EventRepository:ListUpcoming", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) ListPendingApprovals(ctx context.Context, calendarID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE calendar_id = $1 AND status = 'pending' AND requires_approval = TRUE
		ORDER BY start_time ASC
	`
	events := []entity.Event{}
	if err := r.DB.SelectContext(ctx, &events, query, calendarID); err != nil {
		logger.Error("EventRepository:ListPendingApprovals", err)
		return nil, err
	}
	return events, nil
}

// ListDueForCompletion returns confirmed events that ended before now.
func (r *EventRepository) ListDueForCompletion(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM events
		WHERE status = 'confirmed' AND end_time < $1
		ORDER BY end_time ASC
		LIMIT $2
	`
	ids := []uuid.UUID{}
	if err := r.DB.SelectContext(ctx, &ids, query, now, limit); err != nil {
		logger.Error("EventRepository:ListDueForCompletion", err)
		return nil, err
	}
	return ids, nil
}

// ===================== Participants =====================

const participantColumns = `
	id, event_id, participant_type, participant_id, role, status, invited_at, response_at,
	checked_in_at, notes, created_at, updated_at
`

// CreateParticipant fails with a unique violation when the participant is
// already on the event.
func (r *EventRepository) CreateParticipant(ctx context.Context, p *entity.Participant) error {
	query := `
		INSERT INTO event_participants (
			id, event_id, participant_type, participant_id, role, status, invited_at, response_at, notes
		) VALUES (
			:id, :event_id, :participant_type, :participant_id, :role, :status, :invited_at, :response_at, :notes
		)
	`
	if _, err := r.DB.NamedExecContext(ctx, query, p); err != nil {
		logger.Error("EventRepository:CreateParticipant", "event_id", p.EventID, "error", err)
		return err
	}
	return nil
}

func (r *EventRepository) getParticipant(ctx context.Context, method, query string, args ...any) (*entity.Participant, error) {
	var p entity.Participant
	if err := r.DB.GetContext(ctx, &p, query, args...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:"+method, err)
		return nil, err
	}
	return &p, nil
}

func (r *EventRepository) GetParticipantByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error) {
	return r.getParticipant(ctx, "GetParticipantByID",
		`SELECT `+participantColumns+` FROM event_participants WHERE id = $1`, id)
}

func (r *EventRepository) LockParticipantByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error) {
	return r.getParticipant(ctx, "LockParticipantByID",
		`SELECT `+participantColumns+` FROM event_participants WHERE id = $1 FOR UPDATE`, id)
}

func (r *EventRepository) GetParticipantByRef(ctx context.Context, eventID uuid.UUID, ref roleEntity.RoleRef) (*entity.Participant, error) {
	query := `
		SELECT ` + participantColumns + ` FROM event_participants
		WHERE event_id = $1 AND participant_type = $2 AND participant_id = $3
	`
	return r.getParticipant(ctx, "GetParticipantByRef", query, eventID, ref.Kind, ref.ID)
}

func (r *EventRepository) UpdateParticipant(ctx context.Context, p *entity.Participant) error {
	query := `
		UPDATE event_participants SET
			role = :role, status = :status, response_at = :response_at,
			checked_in_at = :checked_in_at, notes = :notes, updated_at = NOW()
		WHERE id = :id
	`
	if _, err := r.DB.NamedExecContext(ctx, query, p); err != nil {
		logger.Error("EventRepository:UpdateParticipant", "participant_id", p.ID, "error", err)
		return err
	}
	return nil
}

func (r *EventRepository) ListParticipants(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]entity.Participant, error) {
	byEvent := make(map[uuid.UUID][]entity.Participant, len(eventIDs))
	if len(eventIDs) == 0 {
		return byEvent, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+participantColumns+` FROM event_participants
		WHERE event_id IN (?)
		ORDER BY created_at ASC
	`, eventIDs)
	if err != nil {
		return nil, err
	}

	var participants []entity.Participant
	if err := r.DB.SelectContext(ctx, &participants, r.DB.Rebind(query), args...); err != nil {
		logger.Error("EventRepository:ListParticipants", err)
		return nil, err
	}
	for _, p := range participants {
		byEvent[p.EventID] = append(byEvent[p.EventID], p)
	}
	return byEvent, nil
}

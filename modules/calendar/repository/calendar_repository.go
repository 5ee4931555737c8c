package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"mentor-scheduler/core/database"
	"mentor-scheduler/core/logger"
	"mentor-scheduler/modules/calendar/entity"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
)

type CalendarRepository struct {
	DB database.Querier
}

// NewCalendarRepository binds the repository to db, which may be a *database.Tx.
func NewCalendarRepository(db database.Querier) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

type CalendarRepositoryInterface interface {
	Create(ctx context.Context, cal *entity.Calendar) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Calendar, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Calendar, error)
	GetByOwner(ctx context.Context, owner roleEntity.RoleRef) (*entity.Calendar, error)
	Update(ctx context.Context, cal *entity.Calendar) error
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Calendar, error)
	IsAvailable(ctx context.Context, calendarID uuid.UUID, want entity.Interval, excludeEventID *uuid.UUID) (bool, error)
	BusyIntervals(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]entity.Interval, error)
}

const calendarColumns = `
	id, owner_type, owner_id, calendar_type, name, slug, description, timezone, color,
	default_event_duration, buffer_time, advance_booking_days, minimum_notice_hours,
	is_public, settings, work_hours, booking_rules, created_at, updated_at
`

// Create inserts cal. A second calendar for the same owner and kind fails on
// idx_calendars_owner_kind.
func (r *CalendarRepository) Create(ctx context.Context, cal *entity.Calendar) error {
	query := `
		INSERT INTO calendars (
			id, owner_type, owner_id, calendar_type, name, slug, description, timezone, color,
			default_event_duration, buffer_time, advance_booking_days, minimum_notice_hours,
			is_public, settings, work_hours, booking_rules
		) VALUES (
			:id, :owner_type, :owner_id, :calendar_type, :name, :slug, :description, :timezone, :color,
			:default_event_duration, :buffer_time, :advance_booking_days, :minimum_notice_hours,
			:is_public, :settings, :work_hours, :booking_rules
		)
	`
	if _, err := r.DB.NamedExecContext(ctx, query, cal); err != nil {
		logger.Error("CalendarRepository:Create", "owner", cal.Owner().String(), "error", err)
		return err
	}
	return nil
}

func (r *CalendarRepository) get(ctx context.Context, method string, query string, args ...any) (*entity.Calendar, error) {
	var cal entity.Calendar
	if err := r.DB.GetContext(ctx, &cal, query, args...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("CalendarRepository:"+method, err)
		return nil, err
	}
	return &cal, nil
}

func (r *CalendarRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Calendar, error) {
	return r.get(ctx, "GetByID", `SELECT `+calendarColumns+` FROM calendars WHERE id = $1`, id)
}

func (r *CalendarRepository) GetBySlug(ctx context.Context, slug string) (*entity.Calendar, error) {
	return r.get(ctx, "GetBySlug", `SELECT `+calendarColumns+` FROM calendars WHERE slug = $1`, slug)
}

// GetByOwner returns the owner's calendar of the kind matching the owner.
func (r *CalendarRepository) GetByOwner(ctx context.Context, owner roleEntity.RoleRef) (*entity.Calendar, error) {
	query := `
		SELECT ` + calendarColumns + ` FROM calendars
		WHERE owner_type = $1 AND owner_id = $2 AND calendar_type = $1
	`
	return r.get(ctx, "GetByOwner", query, owner.Kind, owner.ID)
}

// LockByID reads the calendar row FOR UPDATE. Only meaningful inside a
// transaction; it serializes writers on one calendar.
func (r *CalendarRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Calendar, error) {
	return r.get(ctx, "LockByID", `SELECT `+calendarColumns+` FROM calendars WHERE id = $1 FOR UPDATE`, id)
}

func (r *CalendarRepository) Update(ctx context.Context, cal *entity.Calendar) error {
	query := `
		UPDATE calendars SET
			name = :name, description = :description, timezone = :timezone, color = :color,
			default_event_duration = :default_event_duration, buffer_time = :buffer_time,
			advance_booking_days = :advance_booking_days, minimum_notice_hours = :minimum_notice_hours,
			is_public = :is_public, settings = :settings, work_hours = :work_hours,
			booking_rules = :booking_rules, updated_at = NOW()
		WHERE id = :id
	`
	if _, err := r.DB.NamedExecContext(ctx, query, cal); err != nil {
		logger.Error("CalendarRepository:Update", "id", cal.ID, "error", err)
		return err
	}
	return nil
}

// IsAvailable runs the three-case overlap test against the calendar's
// non-cancelled events.
func (r *CalendarRepository) IsAvailable(ctx context.Context, calendarID uuid.UUID, want entity.Interval, excludeEventID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM events
			WHERE calendar_id = $1
			  AND status <> 'cancelled'
			  AND ($4::uuid IS NULL OR id <> $4::uuid)
			  AND (
				(start_time < $3 AND end_time > $2)
				OR (start_time < $3 AND end_time > $3)
				OR (start_time >= $2 AND end_time <= $3)
			  )
		)
	`
	var conflict bool
	if err := r.DB.GetContext(ctx, &conflict, query, calendarID, want.Start, want.End, excludeEventID); err != nil {
		logger.Error("CalendarRepository:IsAvailable", err)
		return false, err
	}
	return !conflict, nil
}

// BusyIntervals returns non-cancelled events overlapping [from, to).
func (r *CalendarRepository) BusyIntervals(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]entity.Interval, error) {
	query := `
		SELECT start_time, end_time FROM events
		WHERE calendar_id = $1
		  AND status <> 'cancelled'
		  AND start_time < $3 AND end_time > $2
		ORDER BY start_time
	`
	busy := []entity.Interval{}
	if err := r.DB.SelectContext(ctx, &busy, query, calendarID, from, to); err != nil {
		logger.Error("CalendarRepository:BusyIntervals", err)
		return nil, err
	}
	return busy, nil
}

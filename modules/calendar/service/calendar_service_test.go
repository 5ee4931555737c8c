package service

import (
	"context"
	"testing"
	"time"

	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/params"
	"mentor-scheduler/modules/calendar/dto"
	"mentor-scheduler/modules/calendar/entity"
	roleEntity "mentor-scheduler/modules/role/entity"
	"mentor-scheduler/modules/visibility"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendarRepo struct {
	byID    map[uuid.UUID]*entity.Calendar
	busy    []entity.Interval
	updated *entity.Calendar
}

func (f *fakeCalendarRepo) Create(_ context.Context, cal *entity.Calendar) error {
	f.byID[cal.ID] = cal
	return nil
}

func (f *fakeCalendarRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Calendar, error) {
	if c, ok := f.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCalendarRepo) GetBySlug(_ context.Context, slug string) (*entity.Calendar, error) {
	for _, c := range f.byID {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCalendarRepo) GetByOwner(_ context.Context, owner roleEntity.RoleRef) (*entity.Calendar, error) {
	for _, c := range f.byID {
		if c.Owner().Equal(owner) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCalendarRepo) Update(_ context.Context, cal *entity.Calendar) error {
	f.updated = cal
	return nil
}

func (f *fakeCalendarRepo) LockByID(ctx context.Context, id uuid.UUID) (*entity.Calendar, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCalendarRepo) IsAvailable(_ context.Context, _ uuid.UUID, want entity.Interval, _ *uuid.UUID) (bool, error) {
	return entity.IsAvailable(want, f.busy), nil
}

func (f *fakeCalendarRepo) BusyIntervals(context.Context, uuid.UUID, time.Time, time.Time) ([]entity.Interval, error) {
	return f.busy, nil
}

type projectCall struct {
	start, end time.Time
	eventType  string
	viewer     roleEntity.Actor
}

type fakeProjector struct {
	calls []projectCall
}

func (f *fakeProjector) ProjectRange(_ context.Context, _ *entity.Calendar, viewer roleEntity.Actor, start, end time.Time, eventType string) ([]visibility.EventView, *errors.AppError) {
	f.calls = append(f.calls, projectCall{start: start, end: end, eventType: eventType, viewer: viewer})
	return []visibility.EventView{{ID: uuid.New(), Title: "x"}}, nil
}

type fakeNames map[roleEntity.RoleRef]string

func (f fakeNames) DisplayNames(context.Context, []roleEntity.RoleRef) (map[roleEntity.RoleRef]string, *errors.AppError) {
	return f, nil
}

type fixture struct {
	svc       *calendarService
	repo      *fakeCalendarRepo
	projector *fakeProjector
	leader    *roleEntity.Leader
	partner   *roleEntity.Partner
	leaderCal *entity.Calendar
}

func newFixture(now time.Time) *fixture {
	leader := &roleEntity.Leader{Profile: roleEntity.Profile{ID: uuid.New(), Name: "Lia"}}
	partner := &roleEntity.Partner{Profile: roleEntity.Profile{ID: uuid.New(), Name: "Bo"}}

	leaderCal := entity.NewCalendar(leader.Ref(), "Lia", "UTC", "lia-aaaaaaa")
	leaderCal.IsPublic = true
	partnerCal := entity.NewCalendar(partner.Ref(), "Bo", "UTC", "bo-bbbbbbb")

	repo := &fakeCalendarRepo{byID: map[uuid.UUID]*entity.Calendar{
		leaderCal.ID:  leaderCal,
		partnerCal.ID: partnerCal,
	}}
	projector := &fakeProjector{}
	svc := NewCalendarService(repo, projector, fakeNames{leader.Ref(): "Lia"}).(*calendarService)
	svc.now = func() time.Time { return now }

	return &fixture{svc: svc, repo: repo, projector: projector, leader: leader, partner: partner, leaderCal: leaderCal}
}

func (f *fixture) asLeader() *roleEntity.RequestContext {
	return &roleEntity.RequestContext{Mode: roleEntity.ModeLeader, Leader: f.leader}
}

func (f *fixture) asPartner() *roleEntity.RequestContext {
	return &roleEntity.RequestContext{Mode: roleEntity.ModePartner, Partner: f.partner}
}

func TestGetOwnDefaultsToCurrentMonth(t *testing.T) {
	f := newFixture(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))

	resp, appErr := f.svc.GetOwn(context.Background(), f.asLeader(), params.QueryParams{Type: "booking"})
	require.Nil(t, appErr)
	assert.Equal(t, f.leaderCal.ID, resp.ID)
	assert.True(t, resp.IsOwner)
	assert.Equal(t, "Lia", resp.OwnerName)
	assert.Len(t, resp.Events, 1)

	require.Len(t, f.projector.calls, 1)
	call := f.projector.calls[0]
	assert.True(t, call.start.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, call.end.Equal(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "booking", call.eventType)
	assert.Equal(t, f.leader.Ref(), call.viewer.Ref())
}

func TestGetOwnRequiresRole(t *testing.T) {
	f := newFixture(time.Now())
	_, appErr := f.svc.GetOwn(context.Background(), &roleEntity.RequestContext{}, params.QueryParams{})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestGetByIDRejectsInvertedRange(t *testing.T) {
	f := newFixture(time.Now())
	start := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	_, appErr := f.svc.GetByID(context.Background(), f.asPartner(), f.leaderCal.ID, params.QueryParams{Start: &start, End: &end})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrValidationFailed, appErr.Code)

	_, appErr = f.svc.GetByID(context.Background(), f.asPartner(), uuid.New(), params.QueryParams{})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestUpdateOwn(t *testing.T) {
	f := newFixture(time.Now())

	name := "  Office hours  "
	buffer := 15
	resp, appErr := f.svc.UpdateOwn(context.Background(), f.asLeader(), &dto.UpdateCalendarRequest{
		Name:       &name,
		BufferTime: &buffer,
		WorkHours:  map[string]any{"monday": map[string]any{"start": "09:00", "end": "17:00"}},
	})
	require.Nil(t, appErr)
	assert.Equal(t, "Office hours", resp.Name)
	require.NotNil(t, f.repo.updated)
	assert.Equal(t, 15, f.repo.updated.BufferTime)

	bad := -5
	_, appErr = f.svc.UpdateOwn(context.Background(), f.asLeader(), &dto.UpdateCalendarRequest{MinimumNoticeHours: &bad})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrValidationFailed, appErr.Code)
}

func TestAvailability(t *testing.T) {
	f := newFixture(time.Now())
	f.repo.busy = []entity.Interval{{
		Start: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC),
	}}

	resp, appErr := f.svc.Availability(context.Background(), f.asPartner(), f.leaderCal.ID,
		time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC), time.Date(2026, 10, 19, 11, 30, 0, 0, time.UTC))
	require.Nil(t, appErr)
	assert.False(t, resp.Available)

	resp, appErr = f.svc.Availability(context.Background(), f.asPartner(), f.leaderCal.ID,
		time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC), time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	require.Nil(t, appErr)
	assert.True(t, resp.Available)
}

func TestSlotsApplyNoticeForOtherCalendars(t *testing.T) {
	// Monday 2026-10-19, 09:00 UTC
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.leaderCal.MinimumNoticeHours = 4
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	// Owner: everything from now on, 09:00..17:00 starts.
	resp, appErr := f.svc.Slots(context.Background(), f.asLeader(), f.leaderCal.ID, day, 60)
	require.Nil(t, appErr)
	assert.Len(t, resp.Slots, 17)
	assert.Equal(t, "2026-10-19", resp.Date)

	// Partner booking: at least 4 hours notice, so 13:00..17:00.
	resp, appErr = f.svc.Slots(context.Background(), f.asPartner(), f.leaderCal.ID, day, 60)
	require.Nil(t, appErr)
	require.Len(t, resp.Slots, 9)
	assert.True(t, resp.Slots[0].Start.Equal(time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)))
}

func TestSlotsClosedDay(t *testing.T) {
	f := newFixture(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	f.leaderCal.WorkHours = map[string]any{"tuesday": map[string]any{"start": "09:00", "end": "17:00"}}

	resp, appErr := f.svc.Slots(context.Background(), f.asLeader(), f.leaderCal.ID, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), 0)
	require.Nil(t, appErr)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, f.leaderCal.DefaultEventDuration, resp.DurationMinutes)
}

func TestEventsForDateUsesCalendarDay(t *testing.T) {
	f := newFixture(time.Now())
	f.leaderCal.Timezone = "Asia/Tokyo"
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	resp, appErr := f.svc.EventsForDate(context.Background(), f.asPartner(), f.leaderCal.ID, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	require.Nil(t, appErr)
	assert.Equal(t, "2026-10-19", resp.Date)

	require.Len(t, f.projector.calls, 1)
	call := f.projector.calls[0]
	dayStart := time.Date(2026, 10, 19, 0, 0, 0, 0, tokyo)
	assert.True(t, call.start.Equal(dayStart))
	assert.True(t, call.end.Before(dayStart.AddDate(0, 0, 1)))
	assert.True(t, call.end.After(dayStart.AddDate(0, 0, 1).Add(-time.Second)))
}

func TestGetPublicBySlug(t *testing.T) {
	f := newFixture(time.Now())

	cal, appErr := f.svc.GetPublicBySlug(context.Background(), "lia-aaaaaaa")
	require.Nil(t, appErr)
	assert.Equal(t, f.leaderCal.ID, cal.ID)

	_, appErr = f.svc.GetPublicBySlug(context.Background(), "bo-bbbbbbb")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

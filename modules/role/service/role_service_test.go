package service

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/utils"
	calendarEntity "mentor-scheduler/modules/calendar/entity"
	"mentor-scheduler/modules/role/dto"
	"mentor-scheduler/modules/role/entity"
	"mentor-scheduler/modules/role/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoleRepo struct {
	mu        sync.Mutex
	leaders   map[entity.Identity]*entity.Leader
	partners  map[entity.Identity]*entity.Partner
	calendars []*calendarEntity.Calendar
	failCal   bool
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		leaders:  map[entity.Identity]*entity.Leader{},
		partners: map[entity.Identity]*entity.Partner{},
	}
}

// WithTx stages writes on a copy and only publishes them when fn succeeds.
func (f *fakeRoleRepo) WithTx(ctx context.Context, fn func(repo repository.RoleRepositoryInterface) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	staged := &fakeRoleRepo{
		leaders:  map[entity.Identity]*entity.Leader{},
		partners: map[entity.Identity]*entity.Partner{},
		failCal:  f.failCal,
	}
	for k, v := range f.leaders {
		staged.leaders[k] = v
	}
	for k, v := range f.partners {
		staged.partners[k] = v
	}
	staged.calendars = append(staged.calendars, f.calendars...)

	if err := fn(staged); err != nil {
		return err
	}
	f.leaders, f.partners, f.calendars = staged.leaders, staged.partners, staged.calendars
	return nil
}

func (f *fakeRoleRepo) GetLeaderByIdentity(_ context.Context, id entity.Identity) (*entity.Leader, error) {
	if l, ok := f.leaders[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRoleRepo) GetPartnerByIdentity(_ context.Context, id entity.Identity) (*entity.Partner, error) {
	if p, ok := f.partners[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRoleRepo) CreateLeader(_ context.Context, l *entity.Leader) error {
	id := entity.Identity{UserType: l.UserType, UserID: l.UserID}
	f.leaders[id] = l
	return nil
}

func (f *fakeRoleRepo) CreatePartner(_ context.Context, p *entity.Partner) error {
	id := entity.Identity{UserType: p.UserType, UserID: p.UserID}
	f.partners[id] = p
	return nil
}

func (f *fakeRoleRepo) CreateCalendar(_ context.Context, cal *calendarEntity.Calendar) error {
	if f.failCal {
		return stderrors.New("calendar insert failed")
	}
	f.calendars = append(f.calendars, cal)
	return nil
}

func (f *fakeRoleRepo) Exists(context.Context, entity.RoleRef) (bool, error) { return true, nil }

func (f *fakeRoleRepo) DisplayNames(context.Context, []entity.RoleRef) (map[entity.RoleRef]string, error) {
	return map[entity.RoleRef]string{}, nil
}

type fakeModeStore struct {
	modes map[string]string
	err   error
	sets  int
}

func (f *fakeModeStore) GetMode(_ context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	m, ok := f.modes[key]
	return m, ok, nil
}

func (f *fakeModeStore) SetMode(_ context.Context, key, mode string) error {
	if f.err != nil {
		return f.err
	}
	f.sets++
	f.modes[key] = mode
	return nil
}

type fakeClasses struct {
	led    []uuid.UUID
	member []uuid.UUID
}

func (f fakeClasses) LedClassIDs(context.Context, uuid.UUID) ([]uuid.UUID, *errors.AppError) {
	return f.led, nil
}

func (f fakeClasses) MemberClassIDs(context.Context, uuid.UUID) ([]uuid.UUID, *errors.AppError) {
	return f.member, nil
}

func claimsFor(userID uuid.UUID) *utils.TokenClaims {
	return &utils.TokenClaims{UserID: userID, UserType: "member", SessionID: "sess-1"}
}

func TestResolveDefaultsToPartner(t *testing.T) {
	repo := newFakeRoleRepo()
	modes := &fakeModeStore{modes: map[string]string{}}
	classID := uuid.New()
	svc := NewRoleService(repo, modes, fakeClasses{led: []uuid.UUID{classID}})

	userID := uuid.New()
	identity := entity.Identity{UserType: "member", UserID: userID}
	repo.leaders[identity] = &entity.Leader{Profile: entity.Profile{ID: uuid.New(), Name: "Lia"}}
	repo.partners[identity] = &entity.Partner{Profile: entity.Profile{ID: uuid.New(), Name: "Lia"}}

	rc, appErr := svc.Resolve(context.Background(), claimsFor(userID))
	require.Nil(t, appErr)
	assert.Equal(t, entity.ModePartner, rc.Mode)
	assert.Equal(t, "sess-1", rc.SessionKey)
	assert.Equal(t, []uuid.UUID{classID}, rc.Leader.ClassIDs)

	modes.modes["sess-1"] = "leader"
	rc, appErr = svc.Resolve(context.Background(), claimsFor(userID))
	require.Nil(t, appErr)
	assert.Equal(t, entity.ModeLeader, rc.Mode)
	assert.True(t, rc.ActingAsLeader())
}

func TestResolveSurvivesModeStoreOutage(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo, &fakeModeStore{err: stderrors.New("redis down")}, fakeClasses{})

	userID := uuid.New()
	repo.leaders[entity.Identity{UserType: "member", UserID: userID}] = &entity.Leader{Profile: entity.Profile{ID: uuid.New()}}

	rc, appErr := svc.Resolve(context.Background(), claimsFor(userID))
	require.Nil(t, appErr)
	assert.Equal(t, entity.ModeLeader, rc.Mode)
}

func TestSwitchMode(t *testing.T) {
	leaderOnly := func() *entity.RequestContext {
		return &entity.RequestContext{
			SessionKey: "s",
			Mode:       entity.ModeLeader,
			Leader:     &entity.Leader{Profile: entity.Profile{ID: uuid.New()}},
		}
	}

	tests := []struct {
		name      string
		requested string
		code      errors.ErrorCode
		wantMode  entity.Mode
	}{
		{"garbage literal", "admin", errors.ErrValidationFailed, entity.ModeLeader},
		{"case sensitive", "Leader", errors.ErrValidationFailed, entity.ModeLeader},
		{"missing profile", "partner", errors.ErrUnauthorized, entity.ModeLeader},
		{"ok", "leader", "", entity.ModeLeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modes := &fakeModeStore{modes: map[string]string{}}
			svc := NewRoleService(newFakeRoleRepo(), modes, fakeClasses{})
			rc := leaderOnly()

			res, appErr := svc.SwitchMode(context.Background(), rc, tt.requested)
			if tt.code != "" {
				require.NotNil(t, appErr)
				assert.Equal(t, tt.code, appErr.Code)
				assert.Zero(t, modes.sets)
				assert.Empty(t, modes.modes)
			} else {
				require.Nil(t, appErr)
				assert.Equal(t, "leader", res.Mode)
				assert.Equal(t, "leader", modes.modes["s"])
			}
			assert.Equal(t, tt.wantMode, rc.Mode)
			assert.NotNil(t, rc.Leader)
			assert.Nil(t, rc.Partner)
		})
	}
}

func TestRegisterLeaderCreatesCalendar(t *testing.T) {
	repo := newFakeRoleRepo()
	modes := &fakeModeStore{modes: map[string]string{}}
	svc := NewRoleService(repo, modes, fakeClasses{})

	rc := &entity.RequestContext{
		Identity:   entity.Identity{UserType: "member", UserID: uuid.New()},
		SessionKey: "s",
		Mode:       entity.ModePartner,
	}

	res, appErr := svc.RegisterLeader(context.Background(), rc, dto.RegisterProfileRequest{DisplayName: " Ana "})
	require.Nil(t, appErr)
	assert.Equal(t, "Ana", res.Profile.DisplayName)
	assert.Equal(t, "UTC", res.Profile.Timezone)

	require.Len(t, repo.calendars, 1)
	cal := repo.calendars[0]
	assert.Equal(t, "Ana's Calendar", cal.Name)
	assert.Equal(t, calendarEntity.CalendarTypeLeader, cal.CalendarType)
	assert.Equal(t, entity.LeaderRef(res.Profile.ID), cal.Owner())
	assert.Regexp(t, `^ana-[0-9a-z]{7}$`, cal.Slug)

	assert.Equal(t, entity.ModeLeader, rc.Mode)
	assert.Equal(t, "leader", modes.modes["s"])

	_, appErr = svc.RegisterLeader(context.Background(), rc, dto.RegisterProfileRequest{DisplayName: "Ana"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)
}

func TestRegisterPartnerRollsBackWithoutCalendar(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.failCal = true
	svc := NewRoleService(repo, &fakeModeStore{modes: map[string]string{}}, fakeClasses{})

	rc := &entity.RequestContext{Identity: entity.Identity{UserType: "member", UserID: uuid.New()}, SessionKey: "s"}
	_, appErr := svc.RegisterPartner(context.Background(), rc, dto.RegisterProfileRequest{DisplayName: "Bo"})
	require.NotNil(t, appErr)
	assert.Empty(t, repo.partners)
	assert.Nil(t, rc.Partner)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewRoleService(newFakeRoleRepo(), &fakeModeStore{modes: map[string]string{}}, fakeClasses{})
	rc := &entity.RequestContext{Identity: entity.Identity{UserType: "member", UserID: uuid.New()}}

	_, appErr := svc.RegisterPartner(context.Background(), rc, dto.RegisterProfileRequest{DisplayName: "", Timezone: "Mars/Olympus"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrValidationFailed, appErr.Code)
	assert.Len(t, appErr.Fields, 2)
}

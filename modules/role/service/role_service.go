package service

import (
	"context"
	"strings"
	"time"

	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/logger"
	"mentor-scheduler/core/utils"
	calendarEntity "mentor-scheduler/modules/calendar/entity"
	"mentor-scheduler/modules/role/dto"
	"mentor-scheduler/modules/role/entity"
	"mentor-scheduler/modules/role/mapper"
	"mentor-scheduler/modules/role/repository"

	"github.com/google/uuid"
)

// ModeStore persists the acting mode per session.
type ModeStore interface {
	GetMode(ctx context.Context, sessionKey string) (string, bool, error)
	SetMode(ctx context.Context, sessionKey string, mode string) error
}

// ClassDirectory answers which classes a profile leads or belongs to.
type ClassDirectory interface {
	LedClassIDs(ctx context.Context, leaderID uuid.UUID) ([]uuid.UUID, *errors.AppError)
	MemberClassIDs(ctx context.Context, partnerID uuid.UUID) ([]uuid.UUID, *errors.AppError)
}

type RoleService struct {
	repo    repository.RoleRepositoryInterface
	modes   ModeStore
	classes ClassDirectory
}

type RoleServiceInterface interface {
	Resolve(ctx context.Context, claims *utils.TokenClaims) (*entity.RequestContext, *errors.AppError)
	GetMode(ctx context.Context, rc *entity.RequestContext) *dto.ModeResponse
	SwitchMode(ctx context.Context, rc *entity.RequestContext, requested string) (*dto.ModeResponse, *errors.AppError)
	RegisterLeader(ctx context.Context, rc *entity.RequestContext, req dto.RegisterProfileRequest) (*dto.RegisterProfileResponse, *errors.AppError)
	RegisterPartner(ctx context.Context, rc *entity.RequestContext, req dto.RegisterProfileRequest) (*dto.RegisterProfileResponse, *errors.AppError)
	Me(ctx context.Context, rc *entity.RequestContext) *dto.MeResponse
	DisplayNames(ctx context.Context, refs []entity.RoleRef) (map[entity.RoleRef]string, *errors.AppError)
	Exists(ctx context.Context, ref entity.RoleRef) (bool, *errors.AppError)
}

func NewRoleService(repo repository.RoleRepositoryInterface, modes ModeStore, classes ClassDirectory) RoleServiceInterface {
	return &RoleService{repo: repo, modes: modes, classes: classes}
}

// Resolve loads both profiles of the authenticated identity and the session's
// acting mode. A mode store outage degrades to the default mode.
func (s *RoleService) Resolve(ctx context.Context, claims *utils.TokenClaims) (*entity.RequestContext, *errors.AppError) {
	if claims == nil {
		return nil, errors.New(errors.ErrUnauthorized, "Unauthorized")
	}

	rc := &entity.RequestContext{
		Identity:   entity.Identity{UserType: claims.UserType, UserID: claims.UserID},
		SessionKey: claims.SessionKey(),
	}

	leader, err := s.repo.GetLeaderByIdentity(ctx, rc.Identity)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load leader profile", err)
	}
	partner, err := s.repo.GetPartnerByIdentity(ctx, rc.Identity)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load partner profile", err)
	}

	if leader != nil {
		ids, appErr := s.classes.LedClassIDs(ctx, leader.ID)
		if appErr != nil {
			return nil, appErr
		}
		leader.ClassIDs = ids
	}
	if partner != nil {
		ids, appErr := s.classes.MemberClassIDs(ctx, partner.ID)
		if appErr != nil {
			return nil, appErr
		}
		partner.ClassIDs = ids
	}
	rc.Leader = leader
	rc.Partner = partner

	var stored entity.Mode
	raw, ok, err := s.modes.GetMode(ctx, rc.SessionKey)
	if err != nil {
		logger.Warn("RoleService:Resolve:GetMode", "session", rc.SessionKey, "error", err)
	} else if ok {
		if mode, valid := entity.ParseMode(raw); valid {
			stored = mode
		}
	}
	rc.Mode = entity.ResolveMode(stored, leader, partner)

	return rc, nil
}

func (s *RoleService) GetMode(ctx context.Context, rc *entity.RequestContext) *dto.ModeResponse {
	return mapper.ToModeResponse(rc)
}

// SwitchMode changes the acting mode of the session. A bad literal or a mode
// without a matching profile leaves the session untouched.
func (s *RoleService) SwitchMode(ctx context.Context, rc *entity.RequestContext, requested string) (*dto.ModeResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	mode, ok := entity.ParseMode(requested)
	if !ok {
		return nil, errors.NewValidationError([]errors.FieldError{
			{Field: "mode", Message: "must be partner or leader"},
		})
	}
	if !rc.HasProfileFor(mode) {
		return nil, errors.New(errors.ErrUnauthorized, "You don't have a "+string(mode)+" profile")
	}

	if err := s.modes.SetMode(ctx, rc.SessionKey, string(mode)); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to switch mode", err)
	}
	rc.Mode = mode

	return mapper.ToModeResponse(rc), nil
}

func validateRegistration(req *dto.RegisterProfileRequest) *errors.AppError {
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Timezone = strings.TrimSpace(req.Timezone)

	var fields []errors.FieldError
	if req.DisplayName == "" {
		fields = append(fields, errors.FieldError{Field: "display_name", Message: "can't be blank"})
	}
	if req.Timezone == "" {
		req.Timezone = calendarEntity.DefaultTimezone
	} else if _, err := time.LoadLocation(req.Timezone); err != nil {
		fields = append(fields, errors.FieldError{Field: "timezone", Message: "is not a valid timezone"})
	}
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

func newProfile(rc *entity.RequestContext, req dto.RegisterProfileRequest) entity.Profile {
	now := time.Now()
	return entity.Profile{
		ID:        uuid.New(),
		UserType:  rc.Identity.UserType,
		UserID:    rc.Identity.UserID,
		Name:      req.DisplayName,
		Timezone:  req.Timezone,
		Status:    entity.ProfileStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RegisterLeader creates the leader profile and its leader calendar in one
// transaction and switches the session to leader mode.
func (s *RoleService) RegisterLeader(ctx context.Context, rc *entity.RequestContext, req dto.RegisterProfileRequest) (*dto.RegisterProfileResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if rc.Leader != nil {
		return nil, errors.New(errors.ErrAlreadyExists, "Leader profile already exists")
	}
	if appErr := validateRegistration(&req); appErr != nil {
		return nil, appErr
	}

	leader := &entity.Leader{Profile: newProfile(rc, req), ClassIDs: []uuid.UUID{}}
	cal := calendarEntity.NewCalendar(leader.Ref(), leader.Name, leader.Timezone, utils.GenerateSlug(leader.Name))

	err := s.repo.WithTx(ctx, func(repo repository.RoleRepositoryInterface) error {
		if err := repo.CreateLeader(ctx, leader); err != nil {
			return err
		}
		return repo.CreateCalendar(ctx, cal)
	})
	if err != nil {
		return nil, errors.FromDB(err, "Failed to register leader")
	}

	rc.Leader = leader
	s.adoptMode(ctx, rc, entity.ModeLeader)

	return &dto.RegisterProfileResponse{
		Profile:    *mapper.ToLeaderResponse(leader),
		CalendarID: cal.ID,
		Slug:       cal.Slug,
	}, nil
}

// RegisterPartner mirrors RegisterLeader for the partner role.
func (s *RoleService) RegisterPartner(ctx context.Context, rc *entity.RequestContext, req dto.RegisterProfileRequest) (*dto.RegisterProfileResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if rc.Partner != nil {
		return nil, errors.New(errors.ErrAlreadyExists, "Partner profile already exists")
	}
	if appErr := validateRegistration(&req); appErr != nil {
		return nil, appErr
	}

	partner := &entity.Partner{Profile: newProfile(rc, req), ClassIDs: []uuid.UUID{}}
	cal := calendarEntity.NewCalendar(partner.Ref(), partner.Name, partner.Timezone, utils.GenerateSlug(partner.Name))

	err := s.repo.WithTx(ctx, func(repo repository.RoleRepositoryInterface) error {
		if err := repo.CreatePartner(ctx, partner); err != nil {
			return err
		}
		return repo.CreateCalendar(ctx, cal)
	})
	if err != nil {
		return nil, errors.FromDB(err, "Failed to register partner")
	}

	rc.Partner = partner
	s.adoptMode(ctx, rc, entity.ModePartner)

	return &dto.RegisterProfileResponse{
		Profile:    *mapper.ToPartnerResponse(partner),
		CalendarID: cal.ID,
		Slug:       cal.Slug,
	}, nil
}

// adoptMode switches to a freshly registered role. The profile is already
// committed, so a store failure is only logged.
func (s *RoleService) adoptMode(ctx context.Context, rc *entity.RequestContext, mode entity.Mode) {
	if err := s.modes.SetMode(ctx, rc.SessionKey, string(mode)); err != nil {
		logger.Warn("RoleService:adoptMode", "session", rc.SessionKey, "mode", mode, "error", err)
		rc.Mode = entity.ResolveMode(rc.Mode, rc.Leader, rc.Partner)
		return
	}
	rc.Mode = mode
}

func (s *RoleService) Me(ctx context.Context, rc *entity.RequestContext) *dto.MeResponse {
	return mapper.ToMeResponse(rc)
}

func (s *RoleService) DisplayNames(ctx context.Context, refs []entity.RoleRef) (map[entity.RoleRef]string, *errors.AppError) {
	names, err := s.repo.DisplayNames(ctx, refs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load display names", err)
	}
	return names, nil
}

func (s *RoleService) Exists(ctx context.Context, ref entity.RoleRef) (bool, *errors.AppError) {
	ok, err := s.repo.Exists(ctx, ref)
	if err != nil {
		return false, errors.NewAppError(errors.ErrGetFailed, "Failed to look up profile", err)
	}
	return ok, nil
}

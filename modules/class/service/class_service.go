package service

import (
	"context"

	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/params"
	"mentor-scheduler/modules/class/dto"
	"mentor-scheduler/modules/class/entity"
	"mentor-scheduler/modules/class/mapper"
	"mentor-scheduler/modules/class/repository"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
)

type ClassService struct {
	repo repository.ClassRepositoryInterface
}

type ClassServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Class, *errors.AppError)
	LedClassIDs(ctx context.Context, leaderID uuid.UUID) ([]uuid.UUID, *errors.AppError)
	MemberClassIDs(ctx context.Context, partnerID uuid.UUID) ([]uuid.UUID, *errors.AppError)
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, *errors.AppError)
	ListMine(ctx context.Context, rc *roleEntity.RequestContext, p params.QueryParams) (*dto.PaginatedClassResponse, *errors.AppError)
}

func NewClassService(repo repository.ClassRepositoryInterface) ClassServiceInterface {
	return &ClassService{repo: repo}
}

func (s *ClassService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Class, *errors.AppError) {
	class, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get class", err)
	}
	if class == nil {
		return nil, errors.New(errors.ErrNotFound, "Class not found")
	}
	return class, nil
}

func (s *ClassService) LedClassIDs(ctx context.Context, leaderID uuid.UUID) ([]uuid.UUID, *errors.AppError) {
	ids, err := s.repo.LedClassIDs(ctx, leaderID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load led classes", err)
	}
	return ids, nil
}

func (s *ClassService) MemberClassIDs(ctx context.Context, partnerID uuid.UUID) ([]uuid.UUID, *errors.AppError) {
	ids, err := s.repo.MemberClassIDs(ctx, partnerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load class memberships", err)
	}
	return ids, nil
}

func (s *ClassService) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, *errors.AppError) {
	names, err := s.repo.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load class names", err)
	}
	return names, nil
}

// ListMine lists the classes the acting role leads or belongs to.
func (s *ClassService) ListMine(ctx context.Context, rc *roleEntity.RequestContext, p params.QueryParams) (*dto.PaginatedClassResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := rc.RequireAnyRole(); appErr != nil {
		return nil, appErr
	}

	var ids []uuid.UUID
	if rc.ActingAsLeader() {
		ids = rc.Leader.ClassIDs
	} else if rc.Partner != nil {
		ids = rc.Partner.ClassIDs
	}

	page, err := s.repo.ListByIDs(ctx, ids, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list classes", err)
	}
	return mapper.ToClassPaginationResponse(page), nil
}

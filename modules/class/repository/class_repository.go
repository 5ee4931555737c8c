package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"mentor-scheduler/core/database"
	"mentor-scheduler/core/logger"
	"mentor-scheduler/core/params"
	"mentor-scheduler/modules/class/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ClassRepository reads the class directory owned by the host platform.
type ClassRepository struct {
	DB database.Querier
}

func NewClassRepository(db database.Querier) *ClassRepository {
	return &ClassRepository{DB: db}
}

type ClassRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Class, error)
	LedClassIDs(ctx context.Context, leaderID uuid.UUID) ([]uuid.UUID, error)
	MemberClassIDs(ctx context.Context, partnerID uuid.UUID) ([]uuid.UUID, error)
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID, p params.QueryParams) (*entity.PaginatedClassEntity, error)
}

const classColumns = `id, leader_id, name, slug, status, created_at, updated_at`

func (r *ClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Class, error) {
	var class entity.Class
	err := r.DB.GetContext(ctx, &class, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("ClassRepository:GetByID", err)
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) LedClassIDs(ctx context.Context, leaderID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.DB.SelectContext(ctx, &ids, `SELECT id FROM classes WHERE leader_id = $1`, leaderID)
	if err != nil {
		logger.Error("ClassRepository:LedClassIDs", err)
		return nil, err
	}
	return ids, nil
}

func (r *ClassRepository) MemberClassIDs(ctx context.Context, partnerID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := `
		SELECT class_id FROM class_memberships
		WHERE partner_id = $1 AND status = 'active'
	`
	if err := r.DB.SelectContext(ctx, &ids, query, partnerID); err != nil {
		logger.Error("ClassRepository:MemberClassIDs", err)
		return nil, err
	}
	return ids, nil
}

func (r *ClassRepository) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query, args, err := sqlx.In(`SELECT id, name FROM classes WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID   uuid.UUID `db:"id"`
		Name string    `db:"name"`
	}
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(query), args...); err != nil {
		logger.Error("ClassRepository:NamesByIDs", err)
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *ClassRepository) ListByIDs(ctx context.Context, ids []uuid.UUID, p params.QueryParams) (*entity.PaginatedClassEntity, error) {
	page := &entity.PaginatedClassEntity{
		Items:      []entity.Class{},
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		TotalItems: len(ids),
	}
	if len(ids) == 0 {
		return page, nil
	}

	offset := (p.PageNumber - 1) * p.PageSize
	query, args, err := sqlx.In(`
		SELECT `+classColumns+` FROM classes
		WHERE id IN (?)
		ORDER BY name ASC
		LIMIT ? OFFSET ?
	`, ids, p.PageSize, offset)
	if err != nil {
		return nil, err
	}

	if err := r.DB.SelectContext(ctx, &page.Items, r.DB.Rebind(query), args...); err != nil {
		logger.Error("ClassRepository:ListByIDs", err)
		return nil, err
	}
	return page, nil
}

package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"mentor-scheduler/core/database"
	"mentor-scheduler/core/logger"
	calendarEntity "mentor-scheduler/modules/calendar/entity"
	calendarRepository "mentor-scheduler/modules/calendar/repository"
	"mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RoleRepository stores leader and partner profiles.
type RoleRepository struct {
	DB database.Querier
	db database.IDatabase
}

func NewRoleRepository(db database.IDatabase) *RoleRepository {
	return &RoleRepository{DB: db, db: db}
}

type RoleRepositoryInterface interface {
	WithTx(ctx context.Context, fn func(repo RoleRepositoryInterface) error) error
	GetLeaderByIdentity(ctx context.Context, identity entity.Identity) (*entity.Leader, error)
	GetPartnerByIdentity(ctx context.Context, identity entity.Identity) (*entity.Partner, error)
	CreateLeader(ctx context.Context, leader *entity.Leader) error
	CreatePartner(ctx context.Context, partner *entity.Partner) error
	CreateCalendar(ctx context.Context, cal *calendarEntity.Calendar) error
	Exists(ctx context.Context, ref entity.RoleRef) (bool, error)
	DisplayNames(ctx context.Context, refs []entity.RoleRef) (map[entity.RoleRef]string, error)
}

const profileColumns = `id, user_type, user_id, display_name, timezone, status, created_at, updated_at`

func tableFor(kind entity.Kind) string {
	if kind == entity.KindLeader {
		return "leaders"
	}
	return "partners"
}

func (r *RoleRepository) WithTx(ctx context.Context, fn func(repo RoleRepositoryInterface) error) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		return fn(&RoleRepository{DB: tx, db: r.db})
	})
}

func (r *RoleRepository) getProfile(ctx context.Context, kind entity.Kind, identity entity.Identity) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM ` + tableFor(kind) + ` WHERE user_type = $1 AND user_id = $2`

	var profile entity.Profile
	if err := r.DB.GetContext(ctx, &profile, query, identity.UserType, identity.UserID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("RoleRepository:getProfile", "kind", kind, "error", err)
		return nil, err
	}
	return &profile, nil
}

func (r *RoleRepository) GetLeaderByIdentity(ctx context.Context, identity entity.Identity) (*entity.Leader, error) {
	profile, err := r.getProfile(ctx, entity.KindLeader, identity)
	if err != nil || profile == nil {
		return nil, err
	}
	return &entity.Leader{Profile: *profile}, nil
}

func (r *RoleRepository) GetPartnerByIdentity(ctx context.Context, identity entity.Identity) (*entity.Partner, error) {
	profile, err := r.getProfile(ctx, entity.KindPartner, identity)
	if err != nil || profile == nil {
		return nil, err
	}
	return &entity.Partner{Profile: *profile}, nil
}

func (r *RoleRepository) createProfile(ctx context.Context, kind entity.Kind, profile *entity.Profile) error {
	query := `
		INSERT INTO ` + tableFor(kind) + ` (id, user_type, user_id, display_name, timezone, status)
		VALUES (:id, :user_type, :user_id, :display_name, :timezone, :status)
	`
	if _, err := r.DB.NamedExecContext(ctx, query, profile); err != nil {
		logger.Error("RoleRepository:createProfile", "kind", kind, "user_id", profile.UserID, "error", err)
		return err
	}
	return nil
}

func (r *RoleRepository) CreateLeader(ctx context.Context, leader *entity.Leader) error {
	return r.createProfile(ctx, entity.KindLeader, &leader.Profile)
}

func (r *RoleRepository) CreatePartner(ctx context.Context, partner *entity.Partner) error {
	return r.createProfile(ctx, entity.KindPartner, &partner.Profile)
}

// CreateCalendar inserts the profile's calendar on the same connection, so a
// registration and its calendar commit together.
func (r *RoleRepository) CreateCalendar(ctx context.Context, cal *calendarEntity.Calendar) error {
	return calendarRepository.NewCalendarRepository(r.DB).Create(ctx, cal)
}

func (r *RoleRepository) Exists(ctx context.Context, ref entity.RoleRef) (bool, error) {
	if !ref.Kind.Valid() {
		return false, nil
	}
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + tableFor(ref.Kind) + ` WHERE id = $1)`
	if err := r.DB.GetContext(ctx, &exists, query, ref.ID); err != nil {
		logger.Error("RoleRepository:Exists", "ref", ref.String(), "error", err)
		return false, err
	}
	return exists, nil
}

// DisplayNames resolves the display name of each ref. Unknown refs are left
// out of the result.
func (r *RoleRepository) DisplayNames(ctx context.Context, refs []entity.RoleRef) (map[entity.RoleRef]string, error) {
	names := make(map[entity.RoleRef]string, len(refs))

	byKind := map[entity.Kind][]uuid.UUID{}
	for _, ref := range refs {
		if ref.Kind.Valid() {
			byKind[ref.Kind] = append(byKind[ref.Kind], ref.ID)
		}
	}

	for kind, ids := range byKind {
		query, args, err := sqlx.In(`SELECT id, display_name FROM `+tableFor(kind)+` WHERE id IN (?)`, ids)
		if err != nil {
			return nil, err
		}

		var rows []struct {
			ID   uuid.UUID `db:"id"`
			Name string    `db:"display_name"`
		}
		if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(query), args...); err != nil {
			logger.Error("RoleRepository:DisplayNames", "kind", kind, "error", err)
			return nil, err
		}
		for _, row := range rows {
			names[entity.RoleRef{Kind: kind, ID: row.ID}] = row.Name
		}
	}

	return names, nil
}

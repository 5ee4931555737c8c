package repository

import (
	"context"

	"mentor-scheduler/core/database"
	"mentor-scheduler/core/logger"
	"mentor-scheduler/core/params"
	"mentor-scheduler/modules/notification/entity"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationRepository struct {
	db database.Querier
}

func NewNotificationRepository(db database.Querier) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByRecipient(ctx context.Context, recipient roleEntity.RoleRef, params params.QueryParams) (*entity.PaginatedNotificationEntity, error)
	MarkAsRead(ctx context.Context, recipient roleEntity.RoleRef, ids []uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipient roleEntity.RoleRef) error
	CountUnread(ctx context.Context, recipient roleEntity.RoleRef) (int, error)
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	query := `
		INSERT INTO notifications (id, recipient_type, recipient_id, title, message, type, data, is_read, created_at, updated_at)
		VALUES (:id, :recipient_type, :recipient_id, :title, :message, :type, :data, :is_read, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		logger.Error("NotificationRepository:Create:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipient roleEntity.RoleRef, params params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	offset := (params.PageNumber - 1) * params.PageSize

	// Base query
	baseQuery := `FROM notifications WHERE recipient_type = $1 AND recipient_id = $2`

	// Count query
	var totalItems int
	err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, recipient.Kind, recipient.ID)
	if err != nil {
		logger.Error("NotificationRepository:GetByRecipient:Count:Error:", err)
		return nil, err
	}

	// Data query
	query := `
		SELECT id, recipient_type, recipient_id, title, message, type, data, is_read, created_at, updated_at ` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	notifications := []entity.Notification{}
	err = r.db.SelectContext(ctx, &notifications, query, recipient.Kind, recipient.ID, params.PageSize, offset)
	if err != nil {
		logger.Error("NotificationRepository:GetByRecipient:Select:Error:", err)
		return nil, err
	}

	return &entity.PaginatedNotificationEntity{
		Items:      notifications,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, recipient roleEntity.RoleRef, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		UPDATE notifications SET is_read = TRUE, updated_at = NOW()
		WHERE recipient_type = ? AND recipient_id = ? AND id IN (?)`, recipient.Kind, recipient.ID, ids)
	if err != nil {
		return err
	}

	if err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		logger.Error("NotificationRepository:MarkAsRead:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, recipient roleEntity.RoleRef) error {
	query := `
		UPDATE notifications SET is_read = TRUE, updated_at = NOW()
		WHERE recipient_type = $1 AND recipient_id = $2 AND is_read = FALSE`
	if err := r.db.ExecContext(ctx, query, recipient.Kind, recipient.ID); err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipient roleEntity.RoleRef) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_type = $1 AND recipient_id = $2 AND is_read = FALSE`
	if err := r.db.GetContext(ctx, &count, query, recipient.Kind, recipient.ID); err != nil {
		logger.Error("NotificationRepository:CountUnread:Error:", err)
		return 0, err
	}
	return count, nil
}

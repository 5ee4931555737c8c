package service

import (
	"context"
	"fmt"
	"time"

	"mentor-scheduler/core/constants"
	coreEntity "mentor-scheduler/core/entity"
	"mentor-scheduler/core/errors"
	"mentor-scheduler/core/params"
	"mentor-scheduler/core/queue"
	"mentor-scheduler/modules/notification/dto"
	"mentor-scheduler/modules/notification/entity"
	"mentor-scheduler/modules/notification/repository"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
)

type NotificationServiceInterface interface {
	GetMine(ctx context.Context, rc *roleEntity.RequestContext, queryParams params.QueryParams) (*dto.NotificationListResponse, *errors.AppError)
	MarkAsRead(ctx context.Context, rc *roleEntity.RequestContext, ids []uuid.UUID) *errors.AppError
	MarkAllAsRead(ctx context.Context, rc *roleEntity.RequestContext) *errors.AppError
	CountUnread(ctx context.Context, rc *roleEntity.RequestContext) (*dto.UnreadCountResponse, *errors.AppError)

	// Delivery, called by the queue worker or directly when the queue is off.
	ParticipantInvited(ctx context.Context, p queue.ParticipantInvitedPayload) error
	ParticipantJoined(ctx context.Context, p queue.ParticipantJoinedPayload) error
	EventStatusChanged(ctx context.Context, p queue.EventStatusChangedPayload) error
}

type NotificationService struct {
	repo repository.NotificationRepositoryInterface
	now  func() time.Time
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

func (s *NotificationService) create(ctx context.Context, recipient roleEntity.RoleRef, typ entity.NotificationType, title, message string, data coreEntity.JSONB) error {
	if !recipient.Kind.Valid() {
		return fmt.Errorf("notification: invalid recipient kind %q", recipient.Kind)
	}
	now := s.now()
	return s.repo.Create(ctx, &entity.Notification{
		RecipientType: recipient.Kind,
		RecipientID:   recipient.ID,
		Title:         title,
		Message:       message,
		Type:          typ,
		Data:          data,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: now,
			UpdatedAt: now,
		},
	})
}

func (s *NotificationService) ParticipantInvited(ctx context.Context, p queue.ParticipantInvitedPayload) error {
	recipient := roleEntity.RoleRef{Kind: roleEntity.Kind(p.RecipientKind), ID: p.RecipientID}
	return s.create(ctx, recipient, entity.TypeParticipantInvited,
		"New invitation",
		fmt.Sprintf("You have been invited to %q on %s", p.EventTitle, p.StartTime.UTC().Format("Jan 2, 2006 15:04 MST")),
		coreEntity.JSONB{
			"event_id":       p.EventID.String(),
			"participant_id": p.ParticipantID.String(),
		})
}

func (s *NotificationService) ParticipantJoined(ctx context.Context, p queue.ParticipantJoinedPayload) error {
	recipient := roleEntity.RoleRef{Kind: roleEntity.Kind(p.RecipientKind), ID: p.RecipientID}
	who := p.JoinedBy
	if who == "" {
		who = "Someone"
	}
	return s.create(ctx, recipient, entity.TypeParticipantJoined,
		"New participant",
		fmt.Sprintf("%s joined %q", who, p.EventTitle),
		coreEntity.JSONB{
			"event_id":       p.EventID.String(),
			"participant_id": p.ParticipantID.String(),
		})
}

func (s *NotificationService) EventStatusChanged(ctx context.Context, p queue.EventStatusChangedPayload) error {
	recipient := roleEntity.RoleRef{Kind: roleEntity.Kind(p.RecipientKind), ID: p.RecipientID}

	message := fmt.Sprintf("%q is now %s", p.EventTitle, p.To)
	if p.From == "" {
		message = fmt.Sprintf("%q was booked on your calendar (%s)", p.EventTitle, p.To)
	}
	if p.Reason != "" {
		message += ": " + p.Reason
	}

	return s.create(ctx, recipient, entity.TypeEventStatusChanged,
		"Event update",
		message,
		coreEntity.JSONB{
			"event_id": p.EventID.String(),
			"from":     p.From,
			"to":       p.To,
		})
}

func (s *NotificationService) GetMine(ctx context.Context, rc *roleEntity.RequestContext, queryParams params.QueryParams) (*dto.NotificationListResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	page, err := s.repo.GetByRecipient(ctx, actor.Ref(), queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get notifications", err)
	}
	return dto.ToNotificationListResponse(page), nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, rc *roleEntity.RequestContext, ids []uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return appErr
	}
	if len(ids) == 0 {
		return errors.NewValidationError([]errors.FieldError{{Field: "ids", Message: "can't be blank"}})
	}

	if err := s.repo.MarkAsRead(ctx, actor.Ref(), ids); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to mark as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, rc *roleEntity.RequestContext) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return appErr
	}

	if err := s.repo.MarkAllAsRead(ctx, actor.Ref()); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to mark all as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, rc *roleEntity.RequestContext) (*dto.UnreadCountResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	actor, appErr := rc.RequireAnyRole()
	if appErr != nil {
		return nil, appErr
	}

	count, err := s.repo.CountUnread(ctx, actor.Ref())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to count unread", err)
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

var _ NotificationServiceInterface = (*NotificationService)(nil)

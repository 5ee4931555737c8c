package entity

import (
	"mentor-scheduler/core/entity"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
)

type NotificationType string

const (
	TypeParticipantInvited NotificationType = "participant_invited"
	TypeEventStatusChanged NotificationType = "event_status_changed"
	TypeParticipantJoined  NotificationType = "participant_joined"
)

// Notification is addressed to a role profile, not to the host identity, so
// a user sees leader and partner notifications separately.
type Notification struct {
	RecipientType roleEntity.Kind  `db:"recipient_type" json:"recipient_type"`
	RecipientID   uuid.UUID        `db:"recipient_id" json:"recipient_id"`
	Title         string           `db:"title" json:"title"`
	Message       string           `db:"message" json:"message"`
	Type          NotificationType `db:"type" json:"type"`
	Data          entity.JSONB     `db:"data" json:"data"`
	IsRead        bool             `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

func (n *Notification) Recipient() roleEntity.RoleRef {
	return roleEntity.RoleRef{Kind: n.RecipientType, ID: n.RecipientID}
}

type PaginatedNotificationEntity = entity.Pagination[Notification]

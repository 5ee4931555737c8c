package entity

import (
	"mentor-scheduler/core/entity"

	"github.com/google/uuid"
)

type Class struct {
	LeaderID uuid.UUID `db:"leader_id"`
	Name     string    `db:"name"`
	Slug     string    `db:"slug"`
	Status   string    `db:"status"`

	entity.BaseEntity
}

type PaginatedClassEntity = entity.Pagination[Class]

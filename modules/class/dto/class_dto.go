package dto

import (
	"time"

	"mentor-scheduler/core/entity"

	"github.com/google/uuid"
)

type ClassResponse struct {
	ID        uuid.UUID `json:"id"`
	LeaderID  uuid.UUID `json:"leader_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type PaginatedClassResponse struct {
	entity.Pagination[ClassResponse]
	TotalPages int `json:"total_pages"`
}

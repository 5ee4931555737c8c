package dto

import (
	"time"

	"github.com/google/uuid"
)

type SwitchModeRequest struct {
	Mode string `json:"mode" example:"leader"`
}

type ModeResponse struct {
	Mode       string `json:"mode"`
	HasLeader  bool   `json:"has_leader"`
	HasPartner bool   `json:"has_partner"`
}

type RegisterProfileRequest struct {
	DisplayName string `json:"display_name" example:"Ana Souza"`
	Timezone    string `json:"timezone" example:"America/Sao_Paulo"`
}

type ProfileResponse struct {
	ID          uuid.UUID   `json:"id"`
	Kind        string      `json:"kind"`
	DisplayName string      `json:"display_name"`
	Timezone    string      `json:"timezone"`
	Status      string      `json:"status"`
	ClassIDs    []uuid.UUID `json:"class_ids"`
	CreatedAt   time.Time   `json:"created_at"`
}

type RegisterProfileResponse struct {
	Profile    ProfileResponse `json:"profile"`
	CalendarID uuid.UUID       `json:"calendar_id"`
	Slug       string          `json:"calendar_slug"`
}

type MeResponse struct {
	UserType string           `json:"user_type"`
	UserID   uuid.UUID        `json:"user_id"`
	Mode     string           `json:"mode"`
	Leader   *ProfileResponse `json:"leader,omitempty"`
	Partner  *ProfileResponse `json:"partner,omitempty"`
	Current  *ProfileResponse `json:"current,omitempty"`
}

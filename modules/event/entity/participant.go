package entity

import (
	"fmt"
	"time"

	"mentor-scheduler/core/errors"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
)

type ParticipantRole string

const (
	ParticipantRoleOrganizer ParticipantRole = "organizer"
	ParticipantRoleAttendee  ParticipantRole = "attendee"
	ParticipantRoleOptional  ParticipantRole = "optional"
)

func (r ParticipantRole) Valid() bool {
	return r == ParticipantRoleOrganizer || r == ParticipantRoleAttendee || r == ParticipantRoleOptional
}

type ParticipantStatus string

const (
	ParticipantStatusPending   ParticipantStatus = "pending"
	ParticipantStatusConfirmed ParticipantStatus = "confirmed"
	ParticipantStatusDeclined  ParticipantStatus = "declined"
	ParticipantStatusCancelled ParticipantStatus = "cancelled"
)

func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantStatusPending, ParticipantStatusConfirmed, ParticipantStatusDeclined, ParticipantStatusCancelled:
		return true
	}
	return false
}

// Participant is one RSVP record, unique per (event, participant).
type Participant struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	EventID         uuid.UUID         `db:"event_id" json:"event_id"`
	ParticipantType roleEntity.Kind   `db:"participant_type" json:"participant_type"`
	ParticipantID   uuid.UUID         `db:"participant_id" json:"participant_id"`
	Role            ParticipantRole   `db:"role" json:"role"`
	Status          ParticipantStatus `db:"status" json:"status"`
	InvitedAt       *time.Time        `db:"invited_at" json:"invited_at,omitempty"`
	ResponseAt      *time.Time        `db:"response_at" json:"response_at,omitempty"`
	CheckedInAt     *time.Time        `db:"checked_in_at" json:"checked_in_at,omitempty"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

func NewParticipant(eventID uuid.UUID, ref roleEntity.RoleRef, role ParticipantRole, now time.Time) *Participant {
	return &Participant{
		ID:              uuid.New(),
		EventID:         eventID,
		ParticipantType: ref.Kind,
		ParticipantID:   ref.ID,
		Role:            role,
		Status:          ParticipantStatusPending,
		InvitedAt:       &now,
	}
}

func (p *Participant) Ref() roleEntity.RoleRef {
	return roleEntity.RoleRef{Kind: p.ParticipantType, ID: p.ParticipantID}
}

// ParticipantTransition is the result of moving a participant between
// statuses. AttendeeDelta is what the event's current_attendees must change
// by, applied by the caller in the same transaction.
type ParticipantTransition struct {
	From          ParticipantStatus
	To            ParticipantStatus
	AttendeeDelta int
}

// TransitionParticipant computes the counter delta for from -> to. Entering
// confirmed counts +1, leaving confirmed for declined or cancelled counts -1.
// A participant can never go back to pending.
func TransitionParticipant(from, to ParticipantStatus) (ParticipantTransition, *errors.AppError) {
	if !to.Valid() {
		return ParticipantTransition{}, errors.NewValidationError([]errors.FieldError{
			{Field: "status", Message: "is not included in the list"},
		})
	}
	if to == ParticipantStatusPending && from != ParticipantStatusPending {
		return ParticipantTransition{}, errors.New(errors.ErrStateConflict,
			fmt.Sprintf("Cannot move a %s participant back to pending", from))
	}

	tr := ParticipantTransition{From: from, To: to}
	switch {
	case to == ParticipantStatusConfirmed && from != ParticipantStatusConfirmed:
		tr.AttendeeDelta = 1
	case from == ParticipantStatusConfirmed && (to == ParticipantStatusDeclined || to == ParticipantStatusCancelled):
		tr.AttendeeDelta = -1
	}
	return tr, nil
}

// Apply records the new status and the response timestamp.
func (p *Participant) Apply(tr ParticipantTransition, now time.Time) {
	p.Status = tr.To
	if tr.From != tr.To && (tr.To == ParticipantStatusConfirmed || tr.To == ParticipantStatusDeclined) {
		p.ResponseAt = &now
	}
}

func (p *Participant) CheckIn(now time.Time) {
	p.CheckedInAt = &now
}

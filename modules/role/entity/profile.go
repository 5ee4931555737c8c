package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type ProfileStatus string

const (
	ProfileStatusActive   ProfileStatus = "active"
	ProfileStatusInactive ProfileStatus = "inactive"
	ProfileStatusArchived ProfileStatus = "archived"
)

// Profile is the part shared by leaders and partners. Both are keyed by the
// host identity (user_type, user_id).
type Profile struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	UserType  string        `db:"user_type" json:"user_type"`
	UserID    uuid.UUID     `db:"user_id" json:"user_id"`
	Name      string        `db:"display_name" json:"display_name"`
	Timezone  string        `db:"timezone" json:"timezone"`
	Status    ProfileStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// Party is anything that names a creator, a calendar owner and a set of
// participants. Events satisfy it.
type Party interface {
	CreatorRef() RoleRef
	OwnerRef() RoleRef
	ParticipantRefs() []RoleRef
}

// Actor is the capability set authorization checks are written against.
type Actor interface {
	Ref() RoleRef
	Kind() Kind
	DisplayName() string
	OwnsCalendar(owner RoleRef) bool
	IsParticipantOf(p Party) bool
	HasClassAccess(classID uuid.UUID) bool
}

func isParty(self RoleRef, p Party) bool {
	if p == nil {
		return false
	}
	if p.CreatorRef().Equal(self) || p.OwnerRef().Equal(self) {
		return true
	}
	return slices.ContainsFunc(p.ParticipantRefs(), self.Equal)
}

// Leader is a mentor profile. ClassIDs holds the classes it leads.
type Leader struct {
	Profile
	ClassIDs []uuid.UUID `db:"-" json:"class_ids"`
}

func (l *Leader) Ref() RoleRef { return LeaderRef(l.ID) }
func (l *Leader) Kind() Kind { return KindLeader }
func (l *Leader) DisplayName() string { return l.Name }
func (l *Leader) OwnsCalendar(owner RoleRef) bool { return owner.Equal(l.Ref()) }
func (l *Leader) IsParticipantOf(p Party) bool { return isParty(l.Ref(), p) }

func (l *Leader) HasClassAccess(classID uuid.UUID) bool {
	return slices.Contains(l.ClassIDs, classID)
}

// Partner is a mentee profile. ClassIDs holds the classes where it has an
// active membership.
type Partner struct {
	Profile
	ClassIDs []uuid.UUID `db:"-" json:"class_ids"`
}

func (p *Partner) Ref() RoleRef { return PartnerRef(p.ID) }
func (p *Partner) Kind() Kind { return KindPartner }
func (p *Partner) DisplayName() string { return p.Name }
func (p *Partner) OwnsCalendar(owner RoleRef) bool { return owner.Equal(p.Ref()) }
func (p *Partner) IsParticipantOf(party Party) bool { return isParty(p.Ref(), party) }

func (p *Partner) HasClassAccess(classID uuid.UUID) bool {
	return slices.Contains(p.ClassIDs, classID)
}

package entity

import (
	"fmt"

	"github.com/google/uuid"
)

type Kind string

const (
	KindLeader  Kind = "leader"
	KindPartner Kind = "partner"
)

func (k Kind) Valid() bool {
	return k == KindLeader || k == KindPartner
}

// RoleRef points at either a leader or a partner profile. It is stored as a
// (<col>_type, <col>_id) column pair.
type RoleRef struct {
	Kind Kind      `db:"kind" json:"kind"`
	ID   uuid.UUID `db:"id" json:"id"`
}

func LeaderRef(id uuid.UUID) RoleRef {
	return RoleRef{Kind: KindLeader, ID: id}
}

func PartnerRef(id uuid.UUID) RoleRef {
	return RoleRef{Kind: KindPartner, ID: id}
}

func (r RoleRef) Equal(other RoleRef) bool {
	return r.Kind == other.Kind && r.ID == other.ID
}

func (r RoleRef) IsZero() bool {
	return r.Kind == "" && r.ID == uuid.Nil
}

func (r RoleRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

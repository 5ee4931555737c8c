package entity

import (
	"mentor-scheduler/core/errors"

	"github.com/google/uuid"
)

type Mode string

const (
	ModePartner Mode = "partner"
	ModeLeader  Mode = "leader"
)

// ParseMode accepts only the two literal mode values.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModePartner, ModeLeader:
		return Mode(raw), true
	}
	return "", false
}

// ResolveMode returns the stored mode when one exists, otherwise partner if a
// partner profile exists, else leader if a leader profile exists, else
// partner.
func ResolveMode(stored Mode, leader *Leader, partner *Partner) Mode {
	if stored != "" {
		return stored
	}
	if partner != nil {
		return ModePartner
	}
	if leader != nil {
		return ModeLeader
	}
	return ModePartner
}

// CurrentRole returns the profile matching mode, or nil when the session has
// no such profile. An unknown mode falls back to whichever profile exists.
func CurrentRole(mode Mode, leader *Leader, partner *Partner) Actor {
	switch mode {
	case ModePartner:
		if partner != nil {
			return partner
		}
		return nil
	case ModeLeader:
		if leader != nil {
			return leader
		}
		return nil
	}
	if partner != nil {
		return partner
	}
	if leader != nil {
		return leader
	}
	return nil
}

// Identity is the authenticated host user.
type Identity struct {
	UserType string
	UserID   uuid.UUID
}

// RequestContext carries the resolved roles for one request. Services take it
// explicitly; nothing reads the session behind their back.
type RequestContext struct {
	Identity   Identity
	SessionKey string
	Mode       Mode
	Leader     *Leader
	Partner    *Partner
}

func (rc *RequestContext) Actor() Actor {
	if rc == nil {
		return nil
	}
	return CurrentRole(rc.Mode, rc.Leader, rc.Partner)
}

func (rc *RequestContext) ActingAsLeader() bool {
	return rc != nil && rc.Mode == ModeLeader && rc.Leader != nil
}

func (rc *RequestContext) ActingAsPartner() bool {
	return rc != nil && rc.Mode == ModePartner && rc.Partner != nil
}

func (rc *RequestContext) RequireAnyRole() (Actor, *errors.AppError) {
	if actor := rc.Actor(); actor != nil {
		return actor, nil
	}
	return nil, errors.New(errors.ErrUnauthorized, "Please register as a leader or partner first")
}

func (rc *RequestContext) RequireLeader() (*Leader, *errors.AppError) {
	if rc == nil || rc.Leader == nil {
		return nil, errors.New(errors.ErrUnauthorized, "Leader profile required")
	}
	return rc.Leader, nil
}

func (rc *RequestContext) RequirePartner() (*Partner, *errors.AppError) {
	if rc == nil || rc.Partner == nil {
		return nil, errors.New(errors.ErrUnauthorized, "Partner profile required")
	}
	return rc.Partner, nil
}

// HasProfileFor reports whether the session holds the profile mode needs.
func (rc *RequestContext) HasProfileFor(mode Mode) bool {
	if rc == nil {
		return false
	}
	switch mode {
	case ModeLeader:
		return rc.Leader != nil
	case ModePartner:
		return rc.Partner != nil
	}
	return false
}

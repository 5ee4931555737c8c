package entity

import (
	"testing"

	"mentor-scheduler/core/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeader() *Leader {
	return &Leader{Profile: Profile{ID: uuid.New(), Name: "Lena"}}
}

func newPartner() *Partner {
	return &Partner{Profile: Profile{ID: uuid.New(), Name: "Pablo"}}
}

func TestResolveMode(t *testing.T) {
	l, p := newLeader(), newPartner()

	tests := []struct {
		name    string
		stored  Mode
		leader  *Leader
		partner *Partner
		want    Mode
	}{
		{"stored wins", ModeLeader, l, p, ModeLeader},
		{"both profiles prefers partner", "", l, p, ModePartner},
		{"leader only", "", l, nil, ModeLeader},
		{"partner only", "", nil, p, ModePartner},
		{"no profile", "", nil, nil, ModePartner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMode(tt.stored, tt.leader, tt.partner))
		})
	}
}

func TestCurrentRole(t *testing.T) {
	l, p := newLeader(), newPartner()

	assert.Equal(t, Actor(l), CurrentRole(ModeLeader, l, p))
	assert.Equal(t, Actor(p), CurrentRole(ModePartner, l, p))
	assert.Nil(t, CurrentRole(ModeLeader, nil, p))
	assert.Nil(t, CurrentRole(ModePartner, nil, nil))

	// corrupted mode falls back to whichever profile exists
	assert.Equal(t, Actor(p), CurrentRole(Mode("student"), l, p))
	assert.Equal(t, Actor(l), CurrentRole(Mode("student"), l, nil))
	assert.Nil(t, CurrentRole(Mode("student"), nil, nil))
}

func TestParseMode(t *testing.T) {
	for _, ok := range []string{"partner", "leader"} {
		m, valid := ParseMode(ok)
		assert.True(t, valid)
		assert.Equal(t, Mode(ok), m)
	}
	for _, bad := range []string{"", "admin", "Leader", "student"} {
		_, valid := ParseMode(bad)
		assert.False(t, valid, bad)
	}
}

func TestRequireGuards(t *testing.T) {
	var empty *RequestContext
	_, err := empty.RequireAnyRole()
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrUnauthorized, err.Code)

	rc := &RequestContext{Mode: ModePartner, Leader: newLeader()}
	_, err = rc.RequirePartner()
	assert.NotNil(t, err)
	_, err = rc.RequireAnyRole()
	assert.NotNil(t, err)

	leader, err := rc.RequireLeader()
	require.Nil(t, err)
	assert.Equal(t, rc.Leader, leader)
	assert.False(t, rc.ActingAsLeader())
}

type party struct {
	creator, owner RoleRef
	participants   []RoleRef
}

func (p party) CreatorRef() RoleRef { return p.creator }
func (p party) OwnerRef() RoleRef { return p.owner }
func (p party) ParticipantRefs() []RoleRef { return p.participants }

func TestActorCapabilities(t *testing.T) {
	l, p := newLeader(), newPartner()
	classID := uuid.New()
	l.ClassIDs = []uuid.UUID{classID}

	assert.True(t, l.OwnsCalendar(LeaderRef(l.ID)))
	assert.False(t, l.OwnsCalendar(PartnerRef(l.ID)), "same id with a different kind is a different owner")

	ev := party{creator: l.Ref(), owner: l.Ref(), participants: []RoleRef{p.Ref()}}
	assert.True(t, p.IsParticipantOf(ev))
	assert.True(t, l.IsParticipantOf(ev))
	assert.False(t, newPartner().IsParticipantOf(ev))

	assert.True(t, l.HasClassAccess(classID))
	assert.False(t, p.HasClassAccess(classID))
	p.ClassIDs = []uuid.UUID{classID}
	assert.True(t, p.HasClassAccess(classID))
}

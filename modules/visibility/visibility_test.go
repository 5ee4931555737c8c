package visibility

import (
	"testing"
	"time"

	"mentor-scheduler/modules/event/entity"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cast struct {
	owner     *roleEntity.Leader
	creator   *roleEntity.Partner
	attendee  *roleEntity.Partner
	classmate *roleEntity.Partner
	stranger  *roleEntity.Partner
	classID   uuid.UUID
}

func newCast() cast {
	classID := uuid.New()
	mk := func(name string) *roleEntity.Partner {
		return &roleEntity.Partner{Profile: roleEntity.Profile{ID: uuid.New(), Name: name}}
	}
	c := cast{
		owner:     &roleEntity.Leader{Profile: roleEntity.Profile{ID: uuid.New(), Name: "Lena"}, ClassIDs: []uuid.UUID{classID}},
		creator:   mk("Pablo"),
		attendee:  mk("Ari"),
		classmate: mk("Cleo"),
		stranger:  mk("Sam"),
		classID:   classID,
	}
	c.classmate.ClassIDs = []uuid.UUID{classID}
	return c
}

func (c cast) detail(v entity.Visibility) *entity.EventDetail {
	desc := "Career chat"
	link := "https://meet.example.com/abc"
	start := time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)
	e := entity.Event{
		ID:          uuid.New(),
		CalendarID:  uuid.New(),
		CreatorType: roleEntity.KindPartner,
		CreatorID:   c.creator.ID,
		ClassID:     &c.classID,
		Title:       "1:1 with Lena",
		Description: &desc,
		MeetingLink: &link,
		EventType:   entity.EventTypeBooking,
		Visibility:  v,
		Status:      entity.EventStatusPending,
	}
	e.SetTimes(start, start.Add(time.Hour))
	return &entity.EventDetail{
		Event:       e,
		Owner:       c.owner.Ref(),
		CreatorName: "Pablo",
		ClassName:   "Go 101",
		Participants: []entity.Participant{
			{ParticipantType: roleEntity.KindPartner, ParticipantID: c.creator.ID, Status: entity.ParticipantStatusConfirmed},
			{ParticipantType: roleEntity.KindPartner, ParticipantID: c.attendee.ID, Status: entity.ParticipantStatusPending},
		},
	}
}

func TestVisibilityMatrix(t *testing.T) {
	c := newCast()

	type expect struct{ visible, full bool }
	viewers := map[string]roleEntity.Actor{
		"owner":     c.owner,
		"creator":   c.creator,
		"attendee":  c.attendee,
		"classmate": c.classmate,
		"stranger":  c.stranger,
		"anonymous": nil,
	}

	tests := map[entity.Visibility]map[string]expect{
		entity.VisibilityPublic: {
			"owner": {true, true}, "creator": {true, true}, "attendee": {true, true},
			"classmate": {true, true}, "stranger": {true, true}, "anonymous": {true, true},
		},
		entity.VisibilityPrivate: {
			"owner": {true, true}, "creator": {true, true}, "attendee": {true, true},
			"classmate": {false, false}, "stranger": {false, false}, "anonymous": {false, false},
		},
		entity.VisibilityClassOnly: {
			"owner": {true, true}, "creator": {true, true}, "attendee": {true, true},
			"classmate": {true, true}, "stranger": {false, false}, "anonymous": {false, false},
		},
		entity.VisibilityBusy: {
			"owner": {true, true}, "creator": {true, true}, "attendee": {true, true},
			"classmate": {false, false}, "stranger": {false, false}, "anonymous": {false, false},
		},
	}

	for vis, byViewer := range tests {
		d := c.detail(vis)
		for name, want := range byViewer {
			t.Run(string(vis)+"/"+name, func(t *testing.T) {
				viewer := viewers[name]
				visible := VisibleTo(d, viewer)
				full := FullDetailsVisibleTo(d, viewer)
				assert.Equal(t, want.visible, visible)
				assert.Equal(t, want.full, full)
				if !visible {
					assert.False(t, full, "full details must imply visible")
				}
			})
		}
	}
}

func TestBusyEventIsMaskedInListing(t *testing.T) {
	c := newCast()
	busy := c.detail(entity.VisibilityBusy)

	assert.False(t, VisibleTo(busy, c.stranger))

	views := ProjectAll([]entity.EventDetail{*busy}, c.stranger)
	require.Len(t, views, 1)
	v := views[0]
	assert.True(t, v.Masked)
	assert.Equal(t, MaskedTitle, v.Title)
	assert.Equal(t, MaskedClassName, v.ClassName)
	assert.False(t, v.Editable)
	assert.Nil(t, v.Details)
	assert.Equal(t, busy.Event.ID, v.ID)
	assert.Equal(t, busy.Event.StartTime, v.Start)
	assert.Equal(t, busy.Event.EndTime, v.End)
}

func TestPrivateEventIsOmittedForStrangers(t *testing.T) {
	c := newCast()
	views := ProjectAll([]entity.EventDetail{*c.detail(entity.VisibilityPrivate), *c.detail(entity.VisibilityPublic)}, c.stranger)
	require.Len(t, views, 1)
	assert.False(t, views[0].Masked)
}

func TestFullProjection(t *testing.T) {
	c := newCast()
	d := c.detail(entity.VisibilityClassOnly)

	v, ok := Project(d, c.owner)
	require.True(t, ok)
	assert.False(t, v.Masked)
	assert.True(t, v.Editable)
	assert.Equal(t, "1:1 with Lena", v.Title)
	assert.Equal(t, "#3788d8", v.Color)
	assert.Equal(t, "event-booking", v.ClassName)
	require.NotNil(t, v.Details)
	assert.Equal(t, "Pablo", v.Details.CreatorName)
	assert.Equal(t, "Go 101", v.Details.ClassName)
	assert.Equal(t, "Career chat", v.Details.Description)
	assert.Equal(t, "https://meet.example.com/abc", v.Details.MeetingLink)
	assert.Equal(t, []string{}, v.Details.Tags)

	v, _ = Project(d, c.classmate)
	assert.False(t, v.Editable)
}

package entity

import (
	roleEntity "mentor-scheduler/modules/role/entity"
)

// EventDetail is an event together with what visibility and display need:
// the calendar owner, the participants and resolved display names.
type EventDetail struct {
	Event        Event
	Owner        roleEntity.RoleRef
	Participants []Participant
	CreatorName  string
	ClassName    string
}

func (d *EventDetail) CreatorRef() roleEntity.RoleRef {
	return d.Event.Creator()
}

func (d *EventDetail) OwnerRef() roleEntity.RoleRef {
	return d.Owner
}

func (d *EventDetail) ParticipantRefs() []roleEntity.RoleRef {
	refs := make([]roleEntity.RoleRef, 0, len(d.Participants))
	for _, p := range d.Participants {
		refs = append(refs, p.Ref())
	}
	return refs
}

var _ roleEntity.Party = (*EventDetail)(nil)

package service

import (
	"context"

	"mentor-scheduler/core/logger"
	"mentor-scheduler/core/queue"
	calendarEntity "mentor-scheduler/modules/calendar/entity"
	"mentor-scheduler/modules/event/entity"
	roleEntity "mentor-scheduler/modules/role/entity"
)

// notifyStatus tells the creator and the calendar owner about a status
// change, skipping whoever made it.
func (s *EventService) notifyStatus(ctx context.Context, event *entity.Event, cal *calendarEntity.Calendar, actor roleEntity.Actor, from, to entity.EventStatus, reason string) {
	if s.notifier == nil {
		return
	}

	recipients := []roleEntity.RoleRef{event.Creator()}
	if owner := cal.Owner(); !owner.Equal(event.Creator()) {
		recipients = append(recipients, owner)
	}

	for _, ref := range recipients {
		if ref.Equal(actor.Ref()) {
			continue
		}
		err := s.notifier.EventStatusChanged(ctx, queue.EventStatusChangedPayload{
			EventID:       event.ID,
			RecipientKind: string(ref.Kind),
			RecipientID:   ref.ID,
			EventTitle:    event.Title,
			From:          string(from),
			To:            string(to),
			Reason:        reason,
		})
		if err != nil {
			logger.Error("EventService:notifyStatus", "event_id", event.ID, "recipient", ref.String(), "error", err)
		}
	}
}

func (s *EventService) notifyInvited(ctx context.Context, event *entity.Event, p *entity.Participant) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.ParticipantInvited(ctx, queue.ParticipantInvitedPayload{
		EventID:       event.ID,
		ParticipantID: p.ID,
		RecipientKind: string(p.ParticipantType),
		RecipientID:   p.ParticipantID,
		EventTitle:    event.Title,
		StartTime:     event.StartTime,
	})
	if err != nil {
		logger.Error("EventService:notifyInvited", "event_id", event.ID, "participant_id", p.ID, "error", err)
	}
}

// notifyJoined tells the creator and the calendar owner that someone added
// themselves to the event.
func (s *EventService) notifyJoined(ctx context.Context, event *entity.Event, cal *calendarEntity.Calendar, actor roleEntity.Actor, p *entity.Participant) {
	if s.notifier == nil {
		return
	}

	recipients := []roleEntity.RoleRef{event.Creator()}
	if owner := cal.Owner(); !owner.Equal(event.Creator()) {
		recipients = append(recipients, owner)
	}

	for _, ref := range recipients {
		if ref.Equal(actor.Ref()) {
			continue
		}
		err := s.notifier.ParticipantJoined(ctx, queue.ParticipantJoinedPayload{
			EventID:       event.ID,
			ParticipantID: p.ID,
			RecipientKind: string(ref.Kind),
			RecipientID:   ref.ID,
			EventTitle:    event.Title,
			JoinedBy:      actor.DisplayName(),
		})
		if err != nil {
			logger.Error("EventService:notifyJoined", "event_id", event.ID, "recipient", ref.String(), "error", err)
		}
	}
}

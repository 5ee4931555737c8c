// Package task consumes the notification jobs the API enqueues.
package task

import (
	"context"
	"encoding/json"
	"fmt"

	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/logger"
	"mentor-scheduler/core/queue"

	"github.com/hibiken/asynq"
)

type Deliverer interface {
	ParticipantInvited(ctx context.Context, p queue.ParticipantInvitedPayload) error
	ParticipantJoined(ctx context.Context, p queue.ParticipantJoinedPayload) error
	EventStatusChanged(ctx context.Context, p queue.EventStatusChangedPayload) error
}

type Handler struct {
	deliverer Deliverer
}

func NewHandler(deliverer Deliverer) *Handler {
	return &Handler{deliverer: deliverer}
}

// Register adds the notification task handlers to mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(constants.TaskParticipantInvited, h.HandleParticipantInvited)
	mux.HandleFunc(constants.TaskParticipantJoined, h.HandleParticipantJoined)
	mux.HandleFunc(constants.TaskEventStatusChanged, h.HandleEventStatusChanged)
}

func (h *Handler) HandleParticipantInvited(ctx context.Context, t *asynq.Task) error {
	var p queue.ParticipantInvitedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A payload that can't be decoded will never succeed.
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if err := h.deliverer.ParticipantInvited(ctx, p); err != nil {
		logger.Error("NotificationTask:ParticipantInvited", "event_id", p.EventID, "error", err)
		return err
	}
	return nil
}

func (h *Handler) HandleParticipantJoined(ctx context.Context, t *asynq.Task) error {
	var p queue.ParticipantJoinedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if err := h.deliverer.ParticipantJoined(ctx, p); err != nil {
		logger.Error("NotificationTask:ParticipantJoined", "event_id", p.EventID, "error", err)
		return err
	}
	return nil
}

func (h *Handler) HandleEventStatusChanged(ctx context.Context, t *asynq.Task) error {
	var p queue.EventStatusChangedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if err := h.deliverer.EventStatusChanged(ctx, p); err != nil {
		logger.Error("NotificationTask:EventStatusChanged", "event_id", p.EventID, "error", err)
		return err
	}
	return nil
}

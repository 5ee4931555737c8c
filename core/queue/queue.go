package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mentor-scheduler/core/config"
	"mentor-scheduler/core/constants"
	"mentor-scheduler/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ParticipantInvitedPayload is enqueued when a participant record is created
// for someone other than the acting role.
type ParticipantInvitedPayload struct {
	EventID       uuid.UUID `json:"event_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	RecipientKind string    `json:"recipient_kind"`
	RecipientID   uuid.UUID `json:"recipient_id"`
	EventTitle    string    `json:"event_title"`
	StartTime     time.Time `json:"start_time"`
}

// EventStatusChangedPayload is enqueued after an event changes status.
type EventStatusChangedPayload struct {
	EventID       uuid.UUID `json:"event_id"`
	RecipientKind string    `json:"recipient_kind"`
	RecipientID   uuid.UUID `json:"recipient_id"`
	EventTitle    string    `json:"event_title"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Reason        string    `json:"reason,omitempty"`
}

// ParticipantJoinedPayload is enqueued when a role joins an event on its own.
type ParticipantJoinedPayload struct {
	EventID       uuid.UUID `json:"event_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	RecipientKind string    `json:"recipient_kind"`
	RecipientID   uuid.UUID `json:"recipient_id"`
	EventTitle    string    `json:"event_title"`
	JoinedBy      string    `json:"joined_by"`
}

func NewParticipantInvitedTask(p ParticipantInvitedPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskParticipantInvited, b), nil
}

func NewParticipantJoinedTask(p ParticipantJoinedPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskParticipantJoined, b), nil
}

func NewEventStatusChangedTask(p EventStatusChangedPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskEventStatusChanged, b), nil
}

// RedisOpt maps the redis section of the config to asynq's connection options.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

type Client struct {
	client   *asynq.Client
	maxRetry int
}

func NewClient(opt asynq.RedisClientOpt, maxRetry int) *Client {
	return &Client{client: asynq.NewClient(opt), maxRetry: maxRetry}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(constants.QueueDefault),
		asynq.MaxRetry(c.maxRetry),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	logger.Debug("Queue:Enqueue", "type", task.Type(), "id", info.ID)
	return nil
}

func (c *Client) ParticipantInvited(ctx context.Context, p ParticipantInvitedPayload) error {
	task, err := NewParticipantInvitedTask(p)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) EventStatusChanged(ctx context.Context, p EventStatusChangedPayload) error {
	task, err := NewEventStatusChangedTask(p)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) ParticipantJoined(ctx context.Context, p ParticipantJoinedPayload) error {
	task, err := NewParticipantJoinedTask(p)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

package task

import (
	"context"
	stderrors "errors"
	"testing"

	"mentor-scheduler/core/queue"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	invited []queue.ParticipantInvitedPayload
	joined  []queue.ParticipantJoinedPayload
	changed []queue.EventStatusChangedPayload
	err     error
}

func (r *recorder) ParticipantJoined(_ context.Context, p queue.ParticipantJoinedPayload) error {
	r.joined = append(r.joined, p)
	return r.err
}

func (r *recorder) ParticipantInvited(_ context.Context, p queue.ParticipantInvitedPayload) error {
	r.invited = append(r.invited, p)
	return r.err
}

func (r *recorder) EventStatusChanged(_ context.Context, p queue.EventStatusChangedPayload) error {
	r.changed = append(r.changed, p)
	return r.err
}

func TestHandlersDecodePayloads(t *testing.T) {
	rec := &recorder{}
	h := NewHandler(rec)

	invited := queue.ParticipantInvitedPayload{EventID: uuid.New(), RecipientKind: "partner", RecipientID: uuid.New(), EventTitle: "Intro"}
	task, err := queue.NewParticipantInvitedTask(invited)
	require.NoError(t, err)
	require.NoError(t, h.HandleParticipantInvited(context.Background(), task))
	require.Len(t, rec.invited, 1)
	assert.Equal(t, invited.EventID, rec.invited[0].EventID)

	changed := queue.EventStatusChangedPayload{EventID: uuid.New(), RecipientKind: "leader", RecipientID: uuid.New(), From: "pending", To: "confirmed"}
	task, err = queue.NewEventStatusChangedTask(changed)
	require.NoError(t, err)
	require.NoError(t, h.HandleEventStatusChanged(context.Background(), task))
	require.Len(t, rec.changed, 1)
	assert.Equal(t, "confirmed", rec.changed[0].To)

	joined := queue.ParticipantJoinedPayload{EventID: uuid.New(), RecipientKind: "leader", RecipientID: uuid.New(), JoinedBy: "Bo"}
	task, err = queue.NewParticipantJoinedTask(joined)
	require.NoError(t, err)
	require.NoError(t, h.HandleParticipantJoined(context.Background(), task))
	require.Len(t, rec.joined, 1)
	assert.Equal(t, "Bo", rec.joined[0].JoinedBy)
}

func TestHandlersSkipRetryOnBadPayload(t *testing.T) {
	h := NewHandler(&recorder{})

	err := h.HandleEventStatusChanged(context.Background(), asynq.NewTask("event:status_changed", []byte("{")))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, asynq.SkipRetry))
}

func TestHandlersPropagateDeliveryErrors(t *testing.T) {
	boom := stderrors.New("db down")
	h := NewHandler(&recorder{err: boom})

	task, err := queue.NewParticipantInvitedTask(queue.ParticipantInvitedPayload{EventID: uuid.New()})
	require.NoError(t, err)
	assert.ErrorIs(t, h.HandleParticipantInvited(context.Background(), task), boom)
}

package entity

import (
	"testing"
	"time"

	"mentor-scheduler/core/errors"
	roleEntity "mentor-scheduler/modules/role/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionParticipant(t *testing.T) {
	tests := []struct {
		from, to ParticipantStatus
		delta    int
	}{
		{ParticipantStatusPending, ParticipantStatusConfirmed, 1},
		{ParticipantStatusDeclined, ParticipantStatusConfirmed, 1},
		{ParticipantStatusCancelled, ParticipantStatusConfirmed, 1},
		{ParticipantStatusConfirmed, ParticipantStatusConfirmed, 0},
		{ParticipantStatusConfirmed, ParticipantStatusDeclined, -1},
		{ParticipantStatusConfirmed, ParticipantStatusCancelled, -1},
		{ParticipantStatusPending, ParticipantStatusDeclined, 0},
		{ParticipantStatusPending, ParticipantStatusCancelled, 0},
		{ParticipantStatusDeclined, ParticipantStatusCancelled, 0},
		{ParticipantStatusPending, ParticipantStatusPending, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			tr, appErr := TransitionParticipant(tt.from, tt.to)
			require.Nil(t, appErr)
			assert.Equal(t, tt.delta, tr.AttendeeDelta)
			assert.Equal(t, tt.from, tr.From)
			assert.Equal(t, tt.to, tr.To)
		})
	}
}

func TestTransitionParticipantRejects(t *testing.T) {
	_, appErr := TransitionParticipant(ParticipantStatusConfirmed, ParticipantStatusPending)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrStateConflict, appErr.Code)

	_, appErr = TransitionParticipant(ParticipantStatusPending, "maybe")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrValidationFailed, appErr.Code)
}

// A confirm/decline/confirm sequence nets exactly one attendee.
func TestTransitionCountsOnce(t *testing.T) {
	status := ParticipantStatusPending
	total := 0
	for _, to := range []ParticipantStatus{
		ParticipantStatusConfirmed,
		ParticipantStatusConfirmed,
		ParticipantStatusDeclined,
		ParticipantStatusCancelled,
		ParticipantStatusConfirmed,
	} {
		tr, appErr := TransitionParticipant(status, to)
		require.Nil(t, appErr)
		total += tr.AttendeeDelta
		status = to
	}
	assert.Equal(t, 1, total)
}

func TestParticipantApply(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	p := NewParticipant(uuid.New(), roleEntity.PartnerRef(uuid.New()), ParticipantRoleAttendee, now)
	assert.Equal(t, ParticipantStatusPending, p.Status)
	require.NotNil(t, p.InvitedAt)

	tr, _ := TransitionParticipant(p.Status, ParticipantStatusCancelled)
	p.Apply(tr, now)
	assert.Nil(t, p.ResponseAt)

	tr, _ = TransitionParticipant(p.Status, ParticipantStatusConfirmed)
	p.Apply(tr, now)
	assert.Equal(t, ParticipantStatusConfirmed, p.Status)
	require.NotNil(t, p.ResponseAt)

	p.CheckIn(now)
	assert.Equal(t, now, *p.CheckedInAt)
}

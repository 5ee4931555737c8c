package service

import (
	"context"
	"testing"

	"mentor-scheduler/core/errors"
	"mentor-scheduler/modules/event/dto"
	"mentor-scheduler/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, appErr := f.svc.CreateOnOwnCalendar(ctx, f.asLeader(), f.slot(3))
	require.Nil(t, appErr)

	invite := &dto.InviteParticipantRequest{ParticipantType: "partner", ParticipantID: f.partner.ID}
	p, appErr := f.svc.InviteParticipant(ctx, f.asLeader(), created.ID, invite)
	require.Nil(t, appErr)
	assert.Equal(t, "pending", p.Status)
	assert.Equal(t, "attendee", p.Role)
	assert.Equal(t, "Bo", p.Name)
	assert.NotNil(t, p.InvitedAt)

	require.Len(t, f.notifier.invited, 1)
	assert.Equal(t, f.partner.ID, f.notifier.invited[0].RecipientID)
	assert.Equal(t, p.ID, f.notifier.invited[0].ParticipantID)

	_, appErr = f.svc.InviteParticipant(ctx, f.asLeader(), created.ID, invite)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)

	_, appErr = f.svc.InviteParticipant(ctx, f.asLeader(), created.ID,
		&dto.InviteParticipantRequest{ParticipantType: "partner", ParticipantID: uuid.New()})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	_, appErr = f.svc.InviteParticipant(ctx, f.asLeader(), created.ID,
		&dto.InviteParticipantRequest{ParticipantType: "guest", Role: "host"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrValidationFailed, appErr.Code)
	assert.Len(t, appErr.Fields, 3)

	_, appErr = f.svc.InviteParticipant(ctx, f.asStranger(), created.ID,
		&dto.InviteParticipantRequest{ParticipantType: "partner", ParticipantID: f.stranger.ID})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestParticipantResponsesKeepCounterInStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.slot(3)
	capacity := 2
	req.Capacity = &capacity
	created, appErr := f.svc.CreateOnOwnCalendar(ctx, f.asLeader(), req)
	require.Nil(t, appErr)

	bo, appErr := f.svc.InviteParticipant(ctx, f.asLeader(), created.ID,
		&dto.InviteParticipantRequest{ParticipantType: "partner", ParticipantID: f.partner.ID})
	require.Nil(t, appErr)
	cy, appErr := f.svc.InviteParticipant(ctx, f.asLeader(), created.ID,
		&dto.InviteParticipantRequest{ParticipantType: "partner", ParticipantID: f.stranger.ID})
	require.Nil(t, appErr)

	// Someone else's invitation is off limits.
	_, appErr = f.svc.ConfirmParticipant(ctx, f.asStranger(), bo.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)

	resp, appErr := f.svc.ConfirmParticipant(ctx, f.asPartner(), bo.ID)
	require.Nil(t, appErr)
	assert.Equal(t, "confirmed", resp.Status)
	assert.NotNil(t, resp.ResponseAt)
	assert.Equal(t, 2, f.stored(t, created.ID).CurrentAttendees)

	// Confirming twice changes nothing.
	_, appErr = f.svc.ConfirmParticipant(ctx, f.asPartner(), bo.ID)
	require.Nil(t, appErr)
	assert.Equal(t, 2, f.stored(t, created.ID).CurrentAttendees)

	_, appErr = f.svc.ConfirmParticipant(ctx, f.asStranger(), cy.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrStateConflict, appErr.Code)
	assert.Equal(t, "pending", string(f.repo.participants[cy.ID].Status))

	_, appErr = f.svc.DeclineParticipant(ctx, f.asPartner(), bo.ID)
	require.Nil(t, appErr)
	assert.Equal(t, 1, f.stored(t, created.ID).CurrentAttendees)

	_, appErr = f.svc.ConfirmParticipant(ctx, f.asStranger(), cy.ID)
	require.Nil(t, appErr)
	assert.Equal(t, 2, f.stored(t, created.ID).CurrentAttendees)

	// The organizer may cancel on someone's behalf.
	_, appErr = f.svc.CancelParticipant(ctx, f.asLeader(), cy.ID)
	require.Nil(t, appErr)
	assert.Equal(t, 1, f.stored(t, created.ID).CurrentAttendees)
}

func TestCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, appErr := f.svc.CreateOnOwnCalendar(ctx, f.asLeader(), f.slot(3))
	require.Nil(t, appErr)
	bo, appErr := f.svc.InviteParticipant(ctx, f.asLeader(), created.ID,
		&dto.InviteParticipantRequest{ParticipantType: "partner", ParticipantID: f.partner.ID})
	require.Nil(t, appErr)

	_, appErr = f.svc.CheckInParticipant(ctx, f.asPartner(), bo.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrStateConflict, appErr.Code)

	_, appErr = f.svc.ConfirmParticipant(ctx, f.asPartner(), bo.ID)
	require.Nil(t, appErr)

	resp, appErr := f.svc.CheckInParticipant(ctx, f.asLeader(), bo.ID)
	require.Nil(t, appErr)
	require.NotNil(t, resp.CheckedInAt)
	assert.True(t, resp.CheckedInAt.Equal(f.now))

	_, appErr = f.svc.CheckInParticipant(ctx, f.asLeader(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestJoinEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	classReq := f.slot(3)
	classReq.ClassID = &f.classID
	classReq.EventType = "office_hours"
	open, appErr := f.svc.CreateOnOwnCalendar(ctx, f.asLeader(), classReq)
	require.Nil(t, appErr)

	private := f.slot(5)
	private.Visibility = "private"
	closed, appErr := f.svc.CreateOnOwnCalendar(ctx, f.asLeader(), private)
	require.Nil(t, appErr)

	_, appErr = f.svc.JoinEvent(ctx, f.asPartner(), closed.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)

	_, appErr = f.svc.JoinEvent(ctx, f.asStranger(), open.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)

	p, appErr := f.svc.JoinEvent(ctx, f.asPartner(), open.ID)
	require.Nil(t, appErr)
	assert.Equal(t, "confirmed", p.Status)
	assert.Equal(t, "attendee", p.Role)
	assert.Equal(t, 2, f.stored(t, open.ID).CurrentAttendees)

	require.Len(t, f.notifier.joined, 1)
	assert.Equal(t, f.leader.ID, f.notifier.joined[0].RecipientID)
	assert.Equal(t, "leader", f.notifier.joined[0].RecipientKind)
	assert.Equal(t, p.ID, f.notifier.joined[0].ParticipantID)
	assert.Equal(t, "Bo", f.notifier.joined[0].JoinedBy)

	// Joining again is a no-op.
	again, appErr := f.svc.JoinEvent(ctx, f.asPartner(), open.ID)
	require.Nil(t, appErr)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, 2, f.stored(t, open.ID).CurrentAttendees)
	assert.Len(t, f.notifier.joined, 1)

	_, appErr = f.svc.CancelEvent(ctx, f.asLeader(), open.ID, "")
	require.Nil(t, appErr)
	_, appErr = f.svc.DeclineParticipant(ctx, f.asPartner(), p.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrStateConflict, appErr.Code)
	assert.Equal(t, entity.ParticipantStatusConfirmed, f.repo.participants[p.ID].Status)
}

package cancellation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhaus/studio-api/internal/model"
	pkgerrors "github.com/inkhaus/studio-api/pkg/errors"
	"github.com/inkhaus/studio-api/pkg/logger"
)

type fakeRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	statusCalls  int
}

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, pkgerrors.NewNotFound("appointment", nil)
	}
	return apt, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus, reason *string) error {
	f.statusCalls++
	apt := f.appointments[id]
	apt.Status = status
	apt.CancelReason = reason
	return nil
}

type fakeNotifier struct {
	cancelled  int
	refundable bool
}

func (f *fakeNotifier) NotifyBookingCancelled(_ context.Context, _ *model.Appointment, refundable bool) {
	f.cancelled++
	f.refundable = refundable
}

var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func newTestService(apt *model.Appointment) (*Service, *fakeRepo, *fakeNotifier) {
	repo := &fakeRepo{appointments: map[uuid.UUID]*model.Appointment{}}
	if apt != nil {
		repo.appointments[apt.ID] = apt
	}
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier, logger.NewLogger(nil), nil)
	svc.now = func() time.Time { return testNow }
	return svc, repo, notifier
}

func pendingAppointment(start time.Time) *model.Appointment {
	return &model.Appointment{
		ID:        uuid.New(),
		ArtistID:  uuid.New(),
		StartTime: start,
		Status:    model.AppointmentStatusPending,
	}
}

func TestDecideBoundaries(t *testing.T) {
	start := testNow.Add(30 * 24 * time.Hour)

	tests := []struct {
		name       string
		now        time.Time
		success    bool
		refundable bool
	}{
		{"exactly 48h before is refused", start.Add(-MinCancellationLead), false, false},
		{"one second outside 48h is permitted", start.Add(-MinCancellationLead - time.Second), true, false},
		{"inside 48h is refused", start.Add(-10 * time.Hour), false, false},
		{"exactly 7d before refunds the deposit", start.Add(-RefundLead), true, true},
		{"one second inside 7d forfeits the deposit", start.Add(-RefundLead + time.Second), true, false},
		{"well in advance refunds the deposit", start.Add(-14 * 24 * time.Hour), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Decide(start, tt.now)
			assert.Equal(t, tt.success, decision.Success)
			assert.Equal(t, tt.refundable, decision.IsRefundable)
			assert.NotEmpty(t, decision.Message)
		})
	}
}

func TestCancelSeventyTwoHoursOut(t *testing.T) {
	apt := pendingAppointment(testNow.Add(72 * time.Hour))
	svc, repo, notifier := newTestService(apt)

	decision, err := svc.Cancel(context.Background(), apt.ID, "schedule conflict")
	require.NoError(t, err)

	assert.True(t, decision.Success)
	assert.False(t, decision.IsRefundable, "72h is inside the 7-day refund window")
	assert.Equal(t, 1, repo.statusCalls)
	assert.Equal(t, model.AppointmentStatusCancelled, apt.Status)
	require.NotNil(t, apt.CancelReason)
	assert.Equal(t, "schedule conflict", *apt.CancelReason)
	assert.Equal(t, 1, notifier.cancelled)
}

func TestCancelTenHoursOutIsRefused(t *testing.T) {
	apt := pendingAppointment(testNow.Add(10 * time.Hour))
	svc, repo, notifier := newTestService(apt)

	decision, err := svc.Cancel(context.Background(), apt.ID, "cold feet")
	require.NoError(t, err)

	assert.False(t, decision.Success)
	assert.Contains(t, decision.Message, "48")
	assert.False(t, decision.IsRefundable)
	assert.Zero(t, repo.statusCalls, "a refused cancellation must not write")
	assert.Zero(t, notifier.cancelled)
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
}

func TestCancelEightDaysOutRefundsDeposit(t *testing.T) {
	apt := pendingAppointment(testNow.Add(8 * 24 * time.Hour))
	svc, _, notifier := newTestService(apt)

	decision, err := svc.Cancel(context.Background(), apt.ID, "rescheduling abroad")
	require.NoError(t, err)

	assert.True(t, decision.Success)
	assert.True(t, decision.IsRefundable)
	assert.True(t, notifier.refundable)
}

func TestCancelMissingAppointmentIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(nil)

	decision, err := svc.Cancel(context.Background(), uuid.New(), "whatever")
	assert.True(t, pkgerrors.IsNotFound(err), "a missing appointment must be distinguishable from a policy refusal")
	require.NotNil(t, decision)
	assert.False(t, decision.Success)
	assert.Contains(t, decision.Message, "not found")
}

func TestCancelAlreadyCancelledConflicts(t *testing.T) {
	apt := pendingAppointment(testNow.Add(96 * time.Hour))
	apt.Status = model.AppointmentStatusCancelled
	svc, _, _ := newTestService(apt)

	_, err := svc.Cancel(context.Background(), apt.ID, "again")
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestCancelRequiresReason(t *testing.T) {
	apt := pendingAppointment(testNow.Add(96 * time.Hour))
	svc, _, _ := newTestService(apt)

	_, err := svc.Cancel(context.Background(), apt.ID, "")
	assert.True(t, pkgerrors.IsValidation(err))
}

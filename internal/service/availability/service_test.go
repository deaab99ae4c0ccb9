package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhaus/studio-api/internal/model"
	pkgerrors "github.com/inkhaus/studio-api/pkg/errors"
)

// fakeRepo mirrors the repository's documented overlap semantics in memory:
// half-open [start, end) intervals, slot-blocking statuses only, nil-end rows
// occupy a zero-length interval, nil-end probes test containment of the start
// instant.
type fakeRepo struct {
	appointments []*model.Appointment
}

func (f *fakeRepo) FindOverlapping(_ context.Context, artistID uuid.UUID, start time.Time, end *time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.ArtistID != artistID || !apt.IsActive() {
			continue
		}
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		aptEnd := apt.StartTime
		if apt.EndTime != nil {
			aptEnd = *apt.EndTime
		}
		if end != nil {
			if apt.StartTime.Before(*end) && aptEnd.After(start) {
				out = append(out, apt)
			}
		} else {
			if !apt.StartTime.After(start) && aptEnd.After(start) {
				out = append(out, apt)
			}
		}
	}
	return out, nil
}

func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, time.September, 14, hour, min, 0, 0, time.UTC)
}

func timePtr(v time.Time) *time.Time { return &v }

func storedAppointment(artistID uuid.UUID, start, end time.Time, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		ID:        uuid.New(),
		ArtistID:  artistID,
		StartTime: start,
		EndTime:   timePtr(end),
		Status:    status,
	}
}

func TestCheckReportsConflictForOverlappingWindow(t *testing.T) {
	artistID := uuid.New()
	stored := storedAppointment(artistID, at(t, 10, 0), at(t, 12, 0), model.AppointmentStatusConfirmed)
	svc := NewService(&fakeRepo{appointments: []*model.Appointment{stored}})

	result, err := svc.Check(context.Background(), artistID, at(t, 11, 0), timePtr(at(t, 13, 0)), nil)
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, stored.ID, result.Conflicts[0].ID)
	assert.Equal(t, model.AppointmentStatusConfirmed, result.Conflicts[0].Status)
}

func TestCheckTouchingBoundaryIsNotOverlap(t *testing.T) {
	artistID := uuid.New()
	stored := storedAppointment(artistID, at(t, 10, 0), at(t, 12, 0), model.AppointmentStatusConfirmed)
	svc := NewService(&fakeRepo{appointments: []*model.Appointment{stored}})

	result, err := svc.Check(context.Background(), artistID, at(t, 12, 0), timePtr(at(t, 13, 0)), nil)
	require.NoError(t, err)

	assert.True(t, result.IsAvailable)
	assert.Empty(t, result.Conflicts)
}

func TestCheckOverlapIsSymmetric(t *testing.T) {
	artistID := uuid.New()
	aStart, aEnd := at(t, 9, 0), at(t, 11, 0)
	bStart, bEnd := at(t, 10, 30), at(t, 12, 0)

	svcWithA := NewService(&fakeRepo{appointments: []*model.Appointment{
		storedAppointment(artistID, aStart, aEnd, model.AppointmentStatusPending),
	}})
	svcWithB := NewService(&fakeRepo{appointments: []*model.Appointment{
		storedAppointment(artistID, bStart, bEnd, model.AppointmentStatusPending),
	}})

	probeB, err := svcWithA.Check(context.Background(), artistID, bStart, &bEnd, nil)
	require.NoError(t, err)
	probeA, err := svcWithB.Check(context.Background(), artistID, aStart, &aEnd, nil)
	require.NoError(t, err)

	assert.False(t, probeB.IsAvailable)
	assert.False(t, probeA.IsAvailable)
}

func TestCheckExcludesAppointmentBeingRescheduled(t *testing.T) {
	artistID := uuid.New()
	stored := storedAppointment(artistID, at(t, 10, 0), at(t, 12, 0), model.AppointmentStatusConfirmed)
	svc := NewService(&fakeRepo{appointments: []*model.Appointment{stored}})

	result, err := svc.Check(context.Background(), artistID, at(t, 10, 0), timePtr(at(t, 12, 0)), &stored.ID)
	require.NoError(t, err)

	assert.True(t, result.IsAvailable, "an appointment must not conflict with itself on reschedule")
}

func TestCheckIgnoresCancelledAndCompleted(t *testing.T) {
	artistID := uuid.New()
	svc := NewService(&fakeRepo{appointments: []*model.Appointment{
		storedAppointment(artistID, at(t, 10, 0), at(t, 12, 0), model.AppointmentStatusCancelled),
		storedAppointment(artistID, at(t, 10, 0), at(t, 12, 0), model.AppointmentStatusCompleted),
	}})

	result, err := svc.Check(context.Background(), artistID, at(t, 10, 0), timePtr(at(t, 12, 0)), nil)
	require.NoError(t, err)

	assert.True(t, result.IsAvailable)
}

func TestCheckNilEndProbesStartInstant(t *testing.T) {
	artistID := uuid.New()
	stored := storedAppointment(artistID, at(t, 10, 0), at(t, 12, 0), model.AppointmentStatusConfirmed)
	svc := NewService(&fakeRepo{appointments: []*model.Appointment{stored}})

	// Instant inside the stored interval conflicts.
	result, err := svc.Check(context.Background(), artistID, at(t, 11, 0), nil, nil)
	require.NoError(t, err)
	assert.False(t, result.IsAvailable)

	// The half-open end boundary does not.
	result, err = svc.Check(context.Background(), artistID, at(t, 12, 0), nil, nil)
	require.NoError(t, err)
	assert.True(t, result.IsAvailable)
}

func TestCheckUnknownArtistIsTriviallyAvailable(t *testing.T) {
	svc := NewService(&fakeRepo{appointments: []*model.Appointment{
		storedAppointment(uuid.New(), at(t, 10, 0), at(t, 12, 0), model.AppointmentStatusConfirmed),
	}})

	result, err := svc.Check(context.Background(), uuid.New(), at(t, 10, 0), timePtr(at(t, 12, 0)), nil)
	require.NoError(t, err)

	assert.True(t, result.IsAvailable)
}

func TestCheckConflictsOrderedByStart(t *testing.T) {
	artistID := uuid.New()
	later := storedAppointment(artistID, at(t, 12, 0), at(t, 13, 0), model.AppointmentStatusPending)
	earlier := storedAppointment(artistID, at(t, 10, 0), at(t, 11, 0), model.AppointmentStatusConfirmed)
	svc := NewService(&fakeRepo{appointments: []*model.Appointment{earlier, later}})

	result, err := svc.Check(context.Background(), artistID, at(t, 9, 0), timePtr(at(t, 14, 0)), nil)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 2)
	assert.True(t, result.Conflicts[0].StartTime.Before(result.Conflicts[1].StartTime))
}

func TestCheckRejectsInvertedWindow(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.Check(context.Background(), uuid.New(), at(t, 12, 0), timePtr(at(t, 10, 0)), nil)
	assert.True(t, pkgerrors.IsValidation(err))
}

package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/pkg/errors"
)

// Repository is the slice of appointment persistence the checker needs.
type Repository interface {
	FindOverlapping(ctx context.Context, artistID uuid.UUID, start time.Time, end *time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error)
}

// Service answers whether a candidate time window is free for an artist. It is
// a read-only snapshot: the database exclusion constraint is the authoritative
// guard against two writers racing past the same check.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Check reports whether [start, end) is free for the artist, listing the
// conflicting appointments in start-ascending order when it is not. A nil end
// probes the start instant only. excludeID lets a reschedule ignore the
// appointment being moved. An artist with no appointments, including one the
// studio has never heard of, is trivially available.
func (s *Service) Check(ctx context.Context, artistID uuid.UUID, start time.Time, end *time.Time, excludeID *uuid.UUID) (*model.AvailabilityResult, error) {
	if artistID == uuid.Nil {
		return nil, errors.NewValidation("artist ID is required", nil)
	}
	if end != nil && !start.Before(*end) {
		return nil, errors.NewValidation("start time must precede end time", nil)
	}

	conflicts, err := s.repo.FindOverlapping(ctx, artistID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping appointments: %w", err)
	}

	result := &model.AvailabilityResult{
		IsAvailable: len(conflicts) == 0,
		Conflicts:   make([]model.AppointmentSummary, 0, len(conflicts)),
	}
	for _, apt := range conflicts {
		result.Conflicts = append(result.Conflicts, apt.Summary())
	}
	return result, nil
}

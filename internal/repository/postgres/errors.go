package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/inkhaus/studio-api/pkg/errors"
)

// Postgres error codes the repositories translate into the application
// taxonomy.
const (
	pqExclusionViolation = "23P01"
	pqUniqueViolation    = "23505"
)

// mapError translates driver-level failures. Exclusion violations come from
// the appointments no-overlap constraint and surface as conflicts; timeouts
// and connection drops are transient and safe to retry.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFound("record", err)
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.NewTransient(fmt.Sprintf("%s timed out", op), err)
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqExclusionViolation, pqUniqueViolation:
			return errors.NewConflict("appointment slot is no longer available", nil)
		case "08000", "08003", "08006": // connection failures
			return errors.NewTransient(fmt.Sprintf("%s failed: database unreachable", op), err)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

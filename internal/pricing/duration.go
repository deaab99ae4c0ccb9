package pricing

import (
	"fmt"

	"github.com/inkhaus/studio-api/internal/model"
	"github.com/inkhaus/studio-api/pkg/errors"
)

// EstimateDurationHours returns the expected session length for a size
// category. Complexity is accepted for forward extension and validated, but
// does not alter the estimate: it scales price, not chair time.
func (e *Engine) EstimateDurationHours(size model.SizeCategory, complexity int) (float64, error) {
	if err := validateComplexity(complexity); err != nil {
		return 0, err
	}

	hours, ok := e.tables.BaseHours[string(size)]
	if !ok {
		return 0, errors.NewInvalidInput(fmt.Sprintf("unknown size category %q", size))
	}
	return hours, nil
}

func validateComplexity(complexity int) error {
	if complexity < MinComplexity || complexity > MaxComplexity {
		return errors.NewInvalidInput(fmt.Sprintf("complexity must be between %d and %d, got %d", MinComplexity, MaxComplexity, complexity))
	}
	return nil
}

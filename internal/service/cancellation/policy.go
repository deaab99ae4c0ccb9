package cancellation

import (
	"fmt"
	"time"

	"github.com/inkhaus/studio-api/internal/model"
)

// Studio cancellation policy. Two tiers: inside MinCancellationLead the
// cancellation is refused outright; between the two cutoffs it is permitted
// but forfeits the deposit; at RefundLead or more the deposit is refundable.
const (
	MinCancellationLead = 48 * time.Hour
	RefundLead          = 7 * 24 * time.Hour
)

// Decide applies the lead-time policy to a scheduled start. Pure: the caller
// supplies "now" so the boundary behavior is exact and testable. Cancelling at
// exactly start-48h is refused; at exactly start-7d the deposit is refundable.
func Decide(scheduledStart, now time.Time) model.CancellationDecision {
	cutoff := scheduledStart.Add(-MinCancellationLead)
	if !now.Before(cutoff) {
		return model.CancellationDecision{
			Success: false,
			Message: fmt.Sprintf("appointments cannot be cancelled within %d hours of the scheduled start", int(MinCancellationLead.Hours())),
		}
	}

	refundCutoff := scheduledStart.Add(-RefundLead)
	refundable := !now.After(refundCutoff)

	message := "appointment cancelled; the deposit is not refundable this close to the appointment"
	if refundable {
		message = "appointment cancelled; the deposit will be refunded"
	}

	return model.CancellationDecision{
		Success:      true,
		Message:      message,
		IsRefundable: refundable,
	}
}

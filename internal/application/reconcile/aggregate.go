package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecomputeTotal re-derives an envelope total from its current line items
// and persists it, inside the caller's unit of work. The total is always
// the full sum of price times quantity across the items; the previously
// stored value is never read and never adjusted by a delta, so a total
// that drifted (items removed behind the envelope's back, a partial
// earlier write) self-heals on the next recompute.
func RecomputeTotal(ctx context.Context, s Store, kind EnvelopeKind, envelopeID uuid.UUID) (int64, error) {
	total, err := s.SumEnvelopeLineItems(ctx, envelopeID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum line items for %s %s: %w", kind, envelopeID, err)
	}
	if err := s.UpdateEnvelopeTotal(ctx, kind, envelopeID, total); err != nil {
		return 0, fmt.Errorf("failed to write total for %s %s: %w", kind, envelopeID, err)
	}
	return total, nil
}

package reservation

import (
	"context"

	"reservo/models"
)

// AvailabilityResult answers a read-only capacity check. It may be stale by
// the time the customer commits.
type AvailabilityResult struct {
	Available  bool              `json:"available"`
	Bottleneck *models.LedgerKey `json:"bottleneck,omitempty"`
	Capacity   int               `json:"capacity"`
	Remaining  int               `json:"remaining"`
	Quote      float64           `json:"quote"`
	Currency   string            `json:"currency,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

// CheckAvailability runs the conflict check against an unlocked snapshot.
func (e *Engine) CheckAvailability(ctx context.Context, req models.ReservationRequest) (*AvailabilityResult, error) {
	tx, err := e.store.Snapshot(ctx, req.ResourceID)
	if err != nil {
		return nil, classify(err)
	}
	p, err := planFor(tx.Model, req)
	if err != nil {
		return nil, err
	}

	d := tx.Admit(p.keys, req.Units)
	out := &AvailabilityResult{
		Available: d.Admitted,
		Capacity:  d.Capacity,
		Remaining: d.Remaining(),
		Quote:     p.quote,
		Currency:  tx.Resource.Currency,
		Reason:    d.Reason,
	}
	if d.Key.Date != "" {
		key := d.Key
		out.Bottleneck = &key
	}
	return out, nil
}

package reservation

import (
	"math"
	"time"

	"reservo/models"
	"reservo/services/capacity"
)

// priceTolerance absorbs float noise when comparing client and quoted prices.
const priceTolerance = 0.005

// plan is everything derived from a request and the resource it targets.
// Client-supplied derived values are never trusted.
type plan struct {
	keys      []models.LedgerKey
	startsAt  time.Time
	quote     float64
	slotStart string
	slotEnd   string
}

func planFor(model capacity.Model, req models.ReservationRequest) (*plan, error) {
	if req.Units <= 0 {
		return nil, newError(CodeInvalidRequest, "", "units must be positive, got %d", req.Units)
	}
	keys, err := model.Keys(req)
	if err != nil {
		return nil, classify(err)
	}
	startsAt, err := model.StartsAt(req)
	if err != nil {
		return nil, classify(err)
	}

	p := &plan{keys: keys, startsAt: startsAt, quote: Quote(model, keys, req.Units)}
	if slotted, ok := model.(*capacity.Slotted); ok {
		slot, err := slotted.ResolveSlot(req.SlotStart)
		if err != nil {
			return nil, classify(err)
		}
		p.slotStart = keys[0].Slot
		p.slotEnd, _ = capacity.NormalizeClock(slot.End)
	}
	return p, nil
}

// Quote prices units at every key, rounded to cents. It is 0 for unpriced
// resources.
func Quote(model capacity.Model, keys []models.LedgerKey, units int) float64 {
	var total float64
	for _, key := range keys {
		total += model.UnitPrice(key) * float64(units)
	}
	return math.Round(total*100) / 100
}

// checkPrice rejects a client price that disagrees with a non-zero quote.
func (p *plan) checkPrice(total float64) error {
	if total < 0 {
		return newError(CodeInvalidRequest, "", "totalPrice must not be negative")
	}
	if p.quote > 0 && !samePrice(total, p.quote) {
		return newError(CodeInvalidRequest, "", "totalPrice %.2f does not match quoted price %.2f", total, p.quote)
	}
	return nil
}

func samePrice(a, b float64) bool {
	return math.Abs(a-b) < priceTolerance
}

package availability

import (
	"fmt"

	"reservo/models"
	"reservo/services/capacity"
)

// ConsumptionReader is the read side of a ledger.
type ConsumptionReader interface {
	ConsumedAt(key models.LedgerKey) int
}

// Decision is the outcome of an admission check. When rejected, Key names
// the first key that could not take the request.
type Decision struct {
	Admitted bool
	Key      models.LedgerKey
	Capacity int
	Consumed int
	Reason   string
}

// Remaining is the capacity left at the decision's key.
func (d Decision) Remaining() int {
	if d.Capacity-d.Consumed < 0 {
		return 0
	}
	return d.Capacity - d.Consumed
}

// Admit decides whether amount can be added at every key. It has no side
// effects; a stay is admitted only if every night fits.
func Admit(model capacity.Model, ledger ConsumptionReader, keys []models.LedgerKey, amount int) Decision {
	if amount <= 0 {
		return Decision{Reason: fmt.Sprintf("requested amount %d must be positive", amount)}
	}
	if len(keys) == 0 {
		return Decision{Reason: "request covers no dates"}
	}

	tightest := Decision{Admitted: true, Capacity: -1}
	for _, key := range keys {
		limit, ok := model.CapacityOf(key)
		if !ok {
			return Decision{Key: key, Reason: fmt.Sprintf("no capacity is defined for %s", key)}
		}
		used := ledger.ConsumedAt(key)
		if used+amount > limit {
			return Decision{
				Key:      key,
				Capacity: limit,
				Consumed: used,
				Reason:   fmt.Sprintf("%s has %d of %d left, %d requested", key, max(limit-used, 0), limit, amount),
			}
		}
		if tightest.Capacity < 0 || limit-used < tightest.Capacity-tightest.Consumed {
			tightest = Decision{Admitted: true, Key: key, Capacity: limit, Consumed: used}
		}
	}
	return tightest
}

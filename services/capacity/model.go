// Package capacity normalizes the two capacity shapes a resource can have so
// the rest of the engine never branches on resource type.
package capacity

import (
	"errors"
	"fmt"
	"time"

	"reservo/models"
)

// DateLayout is the calendar-day format used for ledger keys.
const DateLayout = "2006-01-02"

// maxNights bounds a single ranged request.
const maxNights = 365

// ErrInvalid marks malformed requests: bad dates, empty stays, unmatched slots.
var ErrInvalid = errors.New("invalid reservation request")

// ErrMisconfigured marks a resource whose stored settings cannot produce a
// capacity model. No request against it can succeed until it is fixed.
var ErrMisconfigured = errors.New("resource is misconfigured")

// Model is the capacity view of one resource.
type Model interface {
	Kind() models.CapacityModel
	// CapacityOf reports the declared capacity for key; false means the key
	// does not exist (for example an unknown slot) and must be rejected.
	CapacityOf(key models.LedgerKey) (int, bool)
	// Keys expands a request into the ledger keys it consumes.
	Keys(req models.ReservationRequest) ([]models.LedgerKey, error)
	// StartsAt is the wall-clock instant the reservation begins.
	StartsAt(req models.ReservationRequest) (time.Time, error)
	// UnitPrice is the price of one unit for one key, 0 when unpriced.
	UnitPrice(key models.LedgerKey) float64
	// KeepsEmptyEntries tells the ledger whether a zeroed entry stays in place.
	KeepsEmptyEntries() bool
}

// For builds the capacity model matching the resource.
func For(res models.Resource) (Model, error) {
	loc := time.UTC
	if res.Timezone != "" {
		l, err := time.LoadLocation(res.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: resource %s has invalid timezone %q: %v", ErrMisconfigured, res.ID, res.Timezone, err)
		}
		loc = l
	}

	switch res.EffectiveCapacityModel() {
	case models.CapacityRanged:
		return &Ranged{resource: res, loc: loc}, nil
	case models.CapacitySlotted:
		return &Slotted{resource: res, loc: loc}, nil
	default:
		return nil, fmt.Errorf("%w: resource %s has unknown capacity model %q", ErrMisconfigured, res.ID, res.CapacityModel)
	}
}

func parseDate(field, value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalid, field)
	}
	d, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", ErrInvalid, field, value)
	}
	return d, nil
}

// atClock places an "HH:MM" clock value on the given day.
func atClock(day time.Time, clock string) time.Time {
	if clock == "" {
		return day
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}

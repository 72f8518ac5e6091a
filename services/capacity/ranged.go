package capacity

import (
	"fmt"
	"time"

	"reservo/models"
)

// Ranged counts units per night. Every date has the same flat capacity.
type Ranged struct {
	resource models.Resource
	loc      *time.Location
}

func (r *Ranged) Kind() models.CapacityModel { return models.CapacityRanged }

func (r *Ranged) CapacityOf(models.LedgerKey) (int, bool) {
	return r.resource.TotalUnits, true
}

// Keys returns one key per night in [checkIn, checkOut).
func (r *Ranged) Keys(req models.ReservationRequest) ([]models.LedgerKey, error) {
	in, out, err := r.stay(req)
	if err != nil {
		return nil, err
	}

	var keys []models.LedgerKey
	for d := in; d.Before(out); d = d.AddDate(0, 0, 1) {
		keys = append(keys, models.LedgerKey{Date: d.Format(DateLayout)})
	}
	return keys, nil
}

func (r *Ranged) StartsAt(req models.ReservationRequest) (time.Time, error) {
	in, err := parseDate("checkIn", req.CheckIn, r.loc)
	if err != nil {
		return time.Time{}, err
	}
	checkIn, _ := NormalizeClock(r.resource.CheckInTime)
	return atClock(in, checkIn), nil
}

func (r *Ranged) UnitPrice(models.LedgerKey) float64 { return r.resource.PricePerUnit }

// KeepsEmptyEntries is false: a night with no consumption is dropped to keep
// the ledger sparse.
func (r *Ranged) KeepsEmptyEntries() bool { return false }

func (r *Ranged) stay(req models.ReservationRequest) (time.Time, time.Time, error) {
	in, err := parseDate("checkIn", req.CheckIn, r.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := parseDate("checkOut", req.CheckOut, r.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !in.Before(out) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkOut %s must be after checkIn %s", ErrInvalid, req.CheckOut, req.CheckIn)
	}
	if out.Sub(in) > maxNights*24*time.Hour+time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: stays are limited to %d nights", ErrInvalid, maxNights)
	}
	return in, out, nil
}

package capacity

import (
	"fmt"
	"strings"
	"time"

	"reservo/models"
)

// clockLayouts are the start-time spellings accepted from clients and hosts.
var clockLayouts = []string{"15:04", "15:04:05", "3:04PM", "3:04 PM", "3PM", "3 PM"}

// NormalizeClock trims and reformats a time of day as "HH:MM".
func NormalizeClock(s string) (string, error) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if s == "" {
		return "", fmt.Errorf("%w: empty time", ErrInvalid)
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("%w: %q is not a time of day", ErrInvalid, s)
}

// Slotted counts occupants per (date, slot). Capacity comes from the slot list.
type Slotted struct {
	resource models.Resource
	loc      *time.Location
}

func (s *Slotted) Kind() models.CapacityModel { return models.CapacitySlotted }

func (s *Slotted) CapacityOf(key models.LedgerKey) (int, bool) {
	slot, err := s.ResolveSlot(key.Slot)
	if err != nil {
		return 0, false
	}
	return slot.MaxGuests, true
}

func (s *Slotted) Keys(req models.ReservationRequest) ([]models.LedgerKey, error) {
	day, err := parseDate("date", req.Date, s.loc)
	if err != nil {
		return nil, err
	}
	slot, err := s.ResolveSlot(req.SlotStart)
	if err != nil {
		return nil, err
	}
	start, _ := NormalizeClock(slot.Start)
	return []models.LedgerKey{{Date: day.Format(DateLayout), Slot: start}}, nil
}

func (s *Slotted) StartsAt(req models.ReservationRequest) (time.Time, error) {
	day, err := parseDate("date", req.Date, s.loc)
	if err != nil {
		return time.Time{}, err
	}
	start, err := NormalizeClock(req.SlotStart)
	if err != nil {
		return time.Time{}, err
	}
	return atClock(day, start), nil
}

func (s *Slotted) UnitPrice(key models.LedgerKey) float64 {
	slot, err := s.ResolveSlot(key.Slot)
	if err == nil && slot.Price > 0 {
		return slot.Price
	}
	return s.resource.PricePerUnit
}

// KeepsEmptyEntries is true: slots are enumerated from the resource, so a
// zeroed entry is harmless and kept.
func (s *Slotted) KeepsEmptyEntries() bool { return true }

// ResolveSlot matches a slot by its start time. Missing and ambiguous
// matches are both rejected.
func (s *Slotted) ResolveSlot(start string) (models.Slot, error) {
	want, err := NormalizeClock(start)
	if err != nil {
		return models.Slot{}, err
	}

	var found []models.Slot
	for _, slot := range s.resource.Slots {
		have, err := NormalizeClock(slot.Start)
		if err != nil {
			continue
		}
		if have == want {
			found = append(found, slot)
		}
	}

	switch len(found) {
	case 0:
		return models.Slot{}, fmt.Errorf("%w: no slot starts at %s", ErrInvalid, want)
	case 1:
		return found[0], nil
	default:
		return models.Slot{}, fmt.Errorf("%w: %d slots start at %s", ErrInvalid, len(found), want)
	}
}

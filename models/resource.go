package models

// ResourceKind is the product type a host publishes.
type ResourceKind string

const (
	KindAccommodation ResourceKind = "accommodation"
	KindService       ResourceKind = "service"
	KindExperience    ResourceKind = "experience"
)

// CapacityModel selects how capacity is counted for a resource.
type CapacityModel string

const (
	CapacityRanged  CapacityModel = "ranged"  // units per calendar date
	CapacitySlotted CapacityModel = "slotted" // occupants per (date, slot)
)

// Resource is a bookable listing owned by a host. Only the embedded ledger
// and its version are written by the reservation engine.
type Resource struct {
	ID            string        `bson:"id" json:"id"`
	HostID        string        `bson:"hostId" json:"hostId"`
	Kind          ResourceKind  `bson:"kind" json:"kind"`
	CapacityModel CapacityModel `bson:"capacityModel,omitempty" json:"capacityModel,omitempty"`
	Title         string        `bson:"title,omitempty" json:"title,omitempty"`
	Timezone      string        `bson:"timezone,omitempty" json:"timezone,omitempty"` // IANA name, UTC when empty
	TotalUnits    int           `bson:"totalUnits,omitempty" json:"totalUnits,omitempty"`
	CheckInTime   string        `bson:"checkInTime,omitempty" json:"checkInTime,omitempty"` // "15:00"; midnight when empty
	Slots         []Slot        `bson:"slots,omitempty" json:"slots,omitempty"`
	PricePerUnit  float64       `bson:"pricePerUnit,omitempty" json:"pricePerUnit,omitempty"`
	Currency      string        `bson:"currency,omitempty" json:"currency,omitempty"`
	Ledger        []LedgerEntry `bson:"ledger" json:"ledger"`
	LedgerVersion int           `bson:"ledgerVersion" json:"ledgerVersion"`
}

// Slot is a fixed daily time window of a slotted resource.
type Slot struct {
	ID        string  `bson:"id,omitempty" json:"id,omitempty"`
	Start     string  `bson:"start" json:"start"` // "11:00"
	End       string  `bson:"end" json:"end"`     // "13:00"
	MaxGuests int     `bson:"maxGuests" json:"maxGuests"`
	Price     float64 `bson:"price,omitempty" json:"price,omitempty"` // per occupant
}

// LedgerEntry records consumed capacity for one key. Slot is empty for ranged resources.
type LedgerEntry struct {
	Date     string `bson:"date" json:"date"`
	Slot     string `bson:"slot,omitempty" json:"slot,omitempty"`
	Consumed int    `bson:"consumed" json:"consumed"`
}

// EffectiveCapacityModel falls back to the model implied by the kind.
func (r Resource) EffectiveCapacityModel() CapacityModel {
	if r.CapacityModel != "" {
		return r.CapacityModel
	}
	if r.Kind == KindAccommodation {
		return CapacityRanged
	}
	return CapacitySlotted
}

package models

import "time"

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

type RefundStatus string

const (
	RefundNone      RefundStatus = "none"
	RefundPending   RefundStatus = "pending"
	RefundSucceeded RefundStatus = "succeeded"
	RefundFailed    RefundStatus = "failed"
)

// LedgerKey identifies one unit of capacity accounting: a night for ranged
// resources, a (date, slot start) pair for slotted ones.
type LedgerKey struct {
	Date string `bson:"date" json:"date"`
	Slot string `bson:"slot,omitempty" json:"slot,omitempty"`
}

func (k LedgerKey) String() string {
	if k.Slot == "" {
		return k.Date
	}
	return k.Date + " " + k.Slot
}

// ReservationRequest is what a customer asks for. Ranged resources use
// CheckIn/CheckOut, slotted resources use Date/SlotStart.
type ReservationRequest struct {
	ResourceID string  `json:"resourceId" binding:"required"`
	CustomerID string  `json:"-"`
	CheckIn    string  `json:"checkIn,omitempty" binding:"omitempty,isodate"`
	CheckOut   string  `json:"checkOut,omitempty" binding:"omitempty,isodate"`
	Date       string  `json:"date,omitempty" binding:"omitempty,isodate"`
	SlotStart  string  `json:"slotStart,omitempty" binding:"omitempty,clock"`
	Units      int     `json:"units" binding:"required,gt=0"`
	TotalPrice float64 `json:"totalPrice" binding:"gte=0"`
}

// Reservation is the durable record of a capacity consumption. Keys and
// Units are the exact ledger mutation applied at commit.
type Reservation struct {
	ID            string            `bson:"id" json:"id"`
	CustomerID    string            `bson:"customerId" json:"customerId"`
	ResourceID    string            `bson:"resourceId" json:"resourceId"`
	HostID        string            `bson:"hostId" json:"hostId"`
	Kind          ResourceKind      `bson:"kind" json:"kind"`
	CapacityModel CapacityModel     `bson:"capacityModel" json:"capacityModel"`
	CheckIn       string            `bson:"checkIn,omitempty" json:"checkIn,omitempty"`
	CheckOut      string            `bson:"checkOut,omitempty" json:"checkOut,omitempty"`
	Date          string            `bson:"date,omitempty" json:"date,omitempty"`
	SlotStart     string            `bson:"slotStart,omitempty" json:"slotStart,omitempty"`
	SlotEnd       string            `bson:"slotEnd,omitempty" json:"slotEnd,omitempty"`
	Keys          []LedgerKey       `bson:"keys" json:"keys"`
	Units         int               `bson:"units" json:"units"`
	TotalPrice    float64           `bson:"totalPrice" json:"totalPrice"`
	Currency      string            `bson:"currency,omitempty" json:"currency,omitempty"`
	OrderID       string            `bson:"orderId" json:"orderId"`
	PaymentID     string            `bson:"paymentId" json:"paymentId"`
	StartsAt      time.Time         `bson:"startsAt" json:"startsAt"`
	Status        ReservationStatus `bson:"status" json:"status"`
	Cancellation  *Cancellation     `bson:"cancellation,omitempty" json:"cancellation,omitempty"`
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// Cancellation holds the terminal transition details and the refund outcome.
type Cancellation struct {
	By          string       `bson:"by" json:"by"`
	ByHost      bool         `bson:"byHost" json:"byHost"`
	Reason      string       `bson:"reason,omitempty" json:"reason,omitempty"`
	At          time.Time    `bson:"at" json:"at"`
	RefundPct   int          `bson:"refundPct" json:"refundPct"`
	Refund      float64      `bson:"refund" json:"refund"`
	RefundState RefundStatus `bson:"refundStatus" json:"refundStatus"`
	Attempts    int          `bson:"refundAttempts" json:"refundAttempts"`
	LastError   string       `bson:"lastError,omitempty" json:"lastError,omitempty"`
}

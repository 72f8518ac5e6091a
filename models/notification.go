package models

import "time"

// ReservationNotice is the payload handed to the notification collaborator.
type ReservationNotice struct {
	Type          string       `json:"type"` // reservation_confirmed | reservation_cancelled
	Recipient     string       `json:"recipient"`
	Role          string       `json:"role"` // customer | host
	ReservationID string       `json:"reservationId"`
	ResourceID    string       `json:"resourceId"`
	Kind          ResourceKind `json:"kind"`
	Summary       string       `json:"summary"`
	StartsAt      time.Time    `json:"startsAt"`
	Amount        float64      `json:"amount"`
	Currency      string       `json:"currency,omitempty"`
	Reason        string       `json:"reason,omitempty"`
}

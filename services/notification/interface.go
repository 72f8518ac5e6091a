// Package notification tells customers and hosts about reservation changes.
package notification

import (
	"context"
	"fmt"
	"strings"

	"reservo/models"
)

const (
	TypeReservationConfirmed = "reservation_confirmed"
	TypeReservationCancelled = "reservation_cancelled"

	RoleCustomer = "customer"
	RoleHost     = "host"
)

// Notifier delivers notices. Delivery may be deferred; a nil error means
// the notices were accepted.
type Notifier interface {
	Notify(ctx context.Context, notices ...models.ReservationNotice) error
}

// NoticesFor builds the customer and host notices for a reservation event.
func NoticesFor(noticeType string, r models.Reservation) []models.ReservationNotice {
	base := models.ReservationNotice{
		Type:          noticeType,
		ReservationID: r.ID,
		ResourceID:    r.ResourceID,
		Kind:          r.Kind,
		Summary:       summarize(r),
		StartsAt:      r.StartsAt,
		Amount:        r.TotalPrice,
		Currency:      r.Currency,
	}
	if r.Cancellation != nil {
		base.Amount = r.Cancellation.Refund
		base.Reason = r.Cancellation.Reason
	}

	customer, host := base, base
	customer.Recipient, customer.Role = r.CustomerID, RoleCustomer
	host.Recipient, host.Role = r.HostID, RoleHost
	if host.Recipient == "" {
		return []models.ReservationNotice{customer}
	}
	return []models.ReservationNotice{customer, host}
}

func summarize(r models.Reservation) string {
	if r.CapacityModel == models.CapacitySlotted {
		return fmt.Sprintf("%s on %s at %s for %d", r.ResourceID, r.Date, r.SlotStart, r.Units)
	}
	return fmt.Sprintf("%s from %s to %s, %d unit%s", r.ResourceID, r.CheckIn, r.CheckOut, r.Units, plural(r.Units))
}

// Title and Body render a notice for push delivery.
func Title(n models.ReservationNotice) string {
	switch n.Type {
	case TypeReservationConfirmed:
		if n.Role == RoleHost {
			return "New reservation"
		}
		return "Reservation confirmed"
	case TypeReservationCancelled:
		return "Reservation cancelled"
	default:
		return "Reservation update"
	}
}

func Body(n models.ReservationNotice) string {
	var b strings.Builder
	b.WriteString(n.Summary)
	switch n.Type {
	case TypeReservationConfirmed:
		fmt.Fprintf(&b, ". Total %.2f %s.", n.Amount, n.Currency)
	case TypeReservationCancelled:
		if n.Amount > 0 {
			fmt.Fprintf(&b, ". Refund %.2f %s.", n.Amount, n.Currency)
		} else {
			b.WriteString(". No refund is due.")
		}
		if n.Reason != "" {
			fmt.Fprintf(&b, " Reason: %s", n.Reason)
		}
	}
	return b.String()
}

// plural returns "s" if n is not 1, otherwise returns an empty string.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

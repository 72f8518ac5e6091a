package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Health endpoint
	HealthHandler gin.HandlerFunc

	// Availability endpoint
	CheckAvailabilityHandler gin.HandlerFunc

	// Payment endpoints
	CreatePaymentOrderHandler gin.HandlerFunc

	// Reservation endpoints
	CommitReservationHandler gin.HandlerFunc
	GetReservationHandler    gin.HandlerFunc
	ListReservationsHandler  gin.HandlerFunc
	CancelReservationHandler gin.HandlerFunc
}

// NewHandlerBundle wires every handler to the reservation service.
func NewHandlerBundle(svc ReservationService) *HandlerBundle {
	rh := NewReservationHandler(svc)
	return &HandlerBundle{
		HealthHandler:             HealthHandler,
		CheckAvailabilityHandler:  rh.CheckAvailabilityHandler,
		CreatePaymentOrderHandler: rh.CreatePaymentOrderHandler,
		CommitReservationHandler:  rh.CommitReservationHandler,
		GetReservationHandler:     rh.GetReservationHandler,
		ListReservationsHandler:   rh.ListReservationsHandler,
		CancelReservationHandler:  rh.CancelReservationHandler,
	}
}

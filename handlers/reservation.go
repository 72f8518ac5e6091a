package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"reservo/middleware"
	"reservo/models"
	"reservo/services/reservation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReservationService is the engine surface the HTTP layer needs.
type ReservationService interface {
	CheckAvailability(ctx context.Context, req models.ReservationRequest) (*reservation.AvailabilityResult, error)
	CreatePaymentOrder(ctx context.Context, req models.ReservationRequest) (*models.PaymentOrder, error)
	Commit(ctx context.Context, req models.ReservationRequest, conf models.PaymentConfirmation) (*reservation.CommitResult, error)
	Cancel(ctx context.Context, reservationID string, actor models.Actor, reason string) (*reservation.CancelResult, error)
	GetReservation(ctx context.Context, reservationID string, actor models.Actor) (*models.Reservation, error)
	ListCustomerReservations(ctx context.Context, customerID string) ([]models.Reservation, error)
}

type ReservationHandler struct {
	Service ReservationService
}

func NewReservationHandler(svc ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

type commitInput struct {
	models.ReservationRequest
	Payment models.PaymentConfirmation `json:"payment"`
}

type cancelInput struct {
	Reason string `json:"reason" binding:"max=500"`
}

// CheckAvailabilityHandler answers whether a request fits right now.
func (h *ReservationHandler) CheckAvailabilityHandler(c *gin.Context) {
	var req models.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.Service.CheckAvailability(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreatePaymentOrderHandler opens a gateway order for the caller.
func (h *ReservationHandler) CreatePaymentOrderHandler(c *gin.Context) {
	var req models.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.CustomerID = middleware.ActorID(c)

	order, err := h.Service.CreatePaymentOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// CommitReservationHandler confirms a paid reservation for the caller.
func (h *ReservationHandler) CommitReservationHandler(c *gin.Context) {
	var in commitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	in.CustomerID = middleware.ActorID(c)

	result, err := h.Service.Commit(c.Request.Context(), in.ReservationRequest, in.Payment)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Degraded {
		getLogger(c).Warn("Reservation confirmed with warnings",
			zap.String("reservation_id", result.Reservation.ID),
			zap.Any("warnings", result.Warnings),
		)
	}
	c.JSON(http.StatusCreated, result)
}

func (h *ReservationHandler) GetReservationHandler(c *gin.Context) {
	r, err := h.Service.GetReservation(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ListReservationsHandler lists the caller's own reservations.
func (h *ReservationHandler) ListReservationsHandler(c *gin.Context) {
	list, err := h.Service.ListCustomerReservations(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

// CancelReservationHandler cancels as the caller, customer or host.
func (h *ReservationHandler) CancelReservationHandler(c *gin.Context) {
	var in cancelInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	result, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), actor(c), in.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Degraded {
		getLogger(c).Warn("Reservation cancelled with warnings",
			zap.String("reservation_id", c.Param("id")),
			zap.Any("warnings", result.Warnings),
		)
	}
	c.JSON(http.StatusOK, result)
}

func actor(c *gin.Context) models.Actor {
	return models.Actor{ID: middleware.ActorID(c)}
}

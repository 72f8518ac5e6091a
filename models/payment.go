package models

import "time"

// PaymentConfirmation is what the client returns after paying at the gateway.
type PaymentConfirmation struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// PaymentOrder is a gateway order the client was issued before paying.
type PaymentOrder struct {
	OrderID      string    `json:"orderId"`
	CustomerID   string    `json:"customerId"`
	ResourceID   string    `json:"resourceId"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	ClientSecret string    `json:"clientSecret,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RefundAck is the gateway acknowledgement of a refund.
type RefundAck struct {
	RefundID string  `json:"refundId"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"status"`
}

package notification

import (
	"context"
	"fmt"

	"reservo/models"

	"firebase.google.com/go/v4/messaging"
)

// Messenger is the subset of *messaging.Client used here.
type Messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushSender delivers notices over FCM. Every customer and host subscribes
// their devices to a topic named after their role and id.
type PushSender struct {
	client Messenger
}

func NewPushSender(client Messenger) *PushSender {
	return &PushSender{client: client}
}

// Topic is the FCM topic a recipient's devices subscribe to.
func Topic(role, recipient string) string {
	return role + "_" + recipient
}

func (p *PushSender) Send(ctx context.Context, n models.ReservationNotice) error {
	if n.Recipient == "" {
		return fmt.Errorf("notice for reservation %s has no recipient", n.ReservationID)
	}
	msg := &messaging.Message{
		Topic: Topic(n.Role, n.Recipient),
		Notification: &messaging.Notification{
			Title: Title(n),
			Body:  Body(n),
		},
		Data: map[string]string{
			"type":          n.Type,
			"role":          n.Role,
			"reservationId": n.ReservationID,
			"resourceId":    n.ResourceID,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "reservations",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	if _, err := p.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message to %s: %w", msg.Topic, err)
	}
	return nil
}

package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// FCMPushSender dispatches multicast pushes through Firebase Cloud
// Messaging. Per-token failures land in the failure count of the batch
// response; only a failed API call is an error.
type FCMPushSender struct {
	Client *messaging.Client
}

func (s *FCMPushSender) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, error) {
	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	resp, err := s.Client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to send FCM multicast: %w", err)
	}
	return resp.SuccessCount, resp.FailureCount, nil
}

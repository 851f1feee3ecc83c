package lifecycle

import (
	"context"

	"pinfield/server/logging"
)

const (
	// EventClientJoined is emitted when a client joins the playfield.
	EventClientJoined logging.EventType = "lifecycle.client_joined"
	// EventClientDisconnected is emitted when a client leaves.
	EventClientDisconnected logging.EventType = "lifecycle.client_disconnected"
)

// ClientJoinedPayload captures join metadata for a new client.
type ClientJoinedPayload struct {
	Generation uint64 `json:"generation"`
}

// ClientDisconnectedPayload captures the reason a client left.
type ClientDisconnectedPayload struct {
	Reason string `json:"reason"`
}

// ClientJoined publishes a client join event.
func ClientJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ClientJoinedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventClientJoined,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// ClientDisconnected publishes a client disconnect event.
func ClientDisconnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ClientDisconnectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventClientDisconnected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

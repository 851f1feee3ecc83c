// Package ws runs the per-connection WebSocket session: it subscribes the
// client to broadcasts and feeds its zone and regenerate messages into the
// hub's command queue.
package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"pinfield/server"
	"pinfield/server/internal/sim"
	"pinfield/server/internal/telemetry"
)

// Handler coordinates a websocket session for a client.
type Handler struct {
	hub    *server.Hub
	logger telemetry.Logger
}

// NewHandler constructs a websocket session handler for the given hub.
func NewHandler(hub *server.Hub, logger telemetry.Logger) *Handler {
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	return &Handler{hub: hub, logger: logger}
}

// Serve orchestrates a websocket session for the provided client connection.
func (h *Handler) Serve(clientID string, conn *websocket.Conn) {
	if h == nil || h.hub == nil || conn == nil {
		return
	}

	sub, snapshot, ok := h.hub.Subscribe(clientID, conn)
	if !ok {
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown client")
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		return
	}

	data, entities, err := h.hub.MarshalState(snapshot)
	if err != nil {
		h.logger.Printf("failed to marshal initial state for %s: %v", clientID, err)
		h.hub.Disconnect(clientID, "marshal_failed")
		return
	}
	if err := sub.Send(data); err != nil {
		h.hub.Disconnect(clientID, "write_failed")
		return
	}
	h.hub.RecordTelemetryBroadcast(len(data), entities)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.hub.Disconnect(clientID, "read_failed")
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", clientID, err)
			continue
		}

		writeJSON := func(payload any) bool {
			data, err := json.Marshal(payload)
			if err != nil {
				h.logger.Printf("failed to marshal response for %s: %v", clientID, err)
				return true
			}
			if err := sub.Send(data); err != nil {
				h.hub.Disconnect(clientID, "write_failed")
				return false
			}
			return true
		}

		sendReject := func(reason string) bool {
			reject := commandRejectMessage{
				Ver:    server.ProtocolVersion(),
				Type:   "commandReject",
				Reason: reason,
				Retry:  reason == sim.CommandRejectQueueLimit,
			}
			return writeJSON(reject)
		}

		switch msg.Type {
		case "zoneEntered":
			if msg.Zone == nil {
				h.logger.Printf("zoneEntered without zone from %s", clientID)
				continue
			}
			if ok, reason := h.hub.EnqueueZoneEntered(clientID, *msg.Zone); !ok {
				if !sendReject(reason) {
					return
				}
			}
		case "regenerate":
			if ok, reason := h.hub.EnqueueRegenerate(clientID, msg.Seed); !ok {
				if !sendReject(reason) {
					return
				}
			}
		case "heartbeat":
			now := time.Now()
			rtt, ok := h.hub.UpdateHeartbeat(clientID, now, msg.SentAt)
			if !ok {
				continue
			}
			ack := heartbeatMessage{
				Ver:        server.ProtocolVersion(),
				Type:       "heartbeat",
				ServerTime: now.UnixMilli(),
				ClientTime: msg.SentAt,
				RTTMillis:  rtt.Milliseconds(),
			}
			if !writeJSON(ack) {
				return
			}
		default:
			h.logger.Printf("unknown message type %q from %s", msg.Type, clientID)
		}
	}
}

// Package server wires the playfield simulation loop to its WebSocket
// subscribers: clients join over HTTP, subscribe over WebSocket, and receive
// state and light broadcasts every tick.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pinfield/server/internal/journal"
	"pinfield/server/internal/playfield"
	"pinfield/server/internal/sim"
	"pinfield/server/logging"
	logginglifecycle "pinfield/server/logging/lifecycle"
)

const (
	writeWait       = 5 * time.Second
	disconnectAfter = 30 * time.Second
	defaultTickRate = 15
)

// Hub owns all live clients and subscribers and drives the simulation loop.
type Hub struct {
	mu          sync.Mutex
	clients     map[string]*clientState
	subscribers map[string]*Subscriber
	nextID      atomic.Uint64
	tick        atomic.Uint64

	engine    *playfield.Engine
	loop      *sim.Loop
	tickRate  int
	telemetry *telemetryCounters
	publisher logging.Publisher
	clock     logging.Clock

	lastSnapshot sim.Snapshot
}

type clientState struct {
	id            string
	joinedAt      time.Time
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

// Subscriber is one WebSocket connection receiving broadcasts. The mutex
// serializes writes between the broadcast path and the handler's acks.
type Subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes one message to the connection under the write deadline.
func (s *Subscriber) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// HubConfig assembles the hub's tunables.
type HubConfig struct {
	Playfield playfield.Config
	Loop      sim.LoopConfig
}

// NewHub builds the engine, wraps it in the loop, and generates the initial
// playfield. A config the sampler rejects fails construction.
func NewHub(cfg HubConfig, deps sim.Deps) (*Hub, error) {
	clock := deps.Clock
	if clock == nil {
		clock = logging.SystemClock{}
		deps.Clock = clock
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
		deps.Publisher = publisher
	}

	capacity, maxAge := journal.ConfigFromEnv()
	engine, err := playfield.NewEngine(cfg.Playfield, deps, journal.New(capacity, maxAge, clock))
	if err != nil {
		return nil, fmt.Errorf("hub: build playfield: %w", err)
	}

	hub := &Hub{
		clients:     make(map[string]*clientState),
		subscribers: make(map[string]*Subscriber),
		engine:      engine,
		telemetry:   newTelemetryCounters(),
		publisher:   publisher,
		clock:       clock,
	}
	hub.lastSnapshot = engine.Snapshot()
	hub.telemetry.IncrementGeneration()

	if cfg.Loop.TickRate <= 0 {
		cfg.Loop.TickRate = defaultTickRate
	}
	hub.tickRate = cfg.Loop.TickRate
	hub.loop = sim.NewLoop(engine, cfg.Loop, sim.LoopHooks{
		NextTick: func() uint64 { return hub.tick.Add(1) },
		AfterStep: func(result sim.LoopStepResult) {
			hub.afterStep(result)
		},
		OnCommandDrop: func(reason string, cmd sim.Command) {
			hub.telemetry.IncrementDroppedCommand()
		},
		OnQueueWarning: func(length int) {
			log.Printf("command queue backlog at %d entries", length)
		},
	})
	return hub, nil
}

// TickRate reports the loop's effective tick rate.
func (h *Hub) TickRate() int {
	if h.tickRate <= 0 {
		return defaultTickRate
	}
	return h.tickRate
}

// Join registers a new client and returns the latest snapshot.
func (h *Hub) Join() joinResponse {
	id := h.nextID.Add(1)
	clientID := fmt.Sprintf("client-%d", id)
	now := h.clock.Now()

	h.mu.Lock()
	h.clients[clientID] = &clientState{
		id:            clientID,
		joinedAt:      now,
		lastHeartbeat: now,
	}
	snapshot := h.lastSnapshot
	h.mu.Unlock()

	logginglifecycle.ClientJoined(context.Background(), h.publisher, snapshot.Tick,
		logging.EntityRef{ID: clientID, Kind: logging.EntityKindClient},
		logginglifecycle.ClientJoinedPayload{Generation: snapshot.Generation})

	return joinResponse{
		Ver:      protoVersion,
		ID:       clientID,
		Snapshot: snapshot,
		Config:   h.engine.Config(),
		TickRate: h.TickRate(),
	}
}

// Subscribe associates a WebSocket connection with an existing client.
func (h *Hub) Subscribe(clientID string, conn *websocket.Conn) (*Subscriber, sim.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.clients[clientID]
	if !ok {
		return nil, sim.Snapshot{}, false
	}

	state.lastHeartbeat = h.clock.Now()

	if existing, ok := h.subscribers[clientID]; ok {
		existing.conn.Close()
	}

	sub := &Subscriber{conn: conn}
	h.subscribers[clientID] = sub
	return sub, h.lastSnapshot, true
}

// Disconnect removes a client and closes any active subscriber connection.
func (h *Hub) Disconnect(clientID, reason string) bool {
	h.mu.Lock()
	sub, subOK := h.subscribers[clientID]
	if subOK {
		delete(h.subscribers, clientID)
	}
	_, clientOK := h.clients[clientID]
	if clientOK {
		delete(h.clients, clientID)
	}
	tick := h.lastSnapshot.Tick
	h.mu.Unlock()

	if subOK {
		sub.conn.Close()
	}
	if clientOK {
		logginglifecycle.ClientDisconnected(context.Background(), h.publisher, tick,
			logging.EntityRef{ID: clientID, Kind: logging.EntityKindClient},
			logginglifecycle.ClientDisconnectedPayload{Reason: reason})
	}
	return clientOK
}

// UpdateHeartbeat records the most recent heartbeat time and RTT for a client.
func (h *Hub) UpdateHeartbeat(clientID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.clients[clientID]
	if !ok {
		return 0, false
	}

	state.lastHeartbeat = receivedAt

	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			state.lastRTT = rtt
		}
	}

	return state.lastRTT, true
}

// EnqueueZoneEntered stages a zone entry event for the next tick.
func (h *Hub) EnqueueZoneEntered(clientID string, zone int) (bool, string) {
	return h.enqueue(sim.Command{
		Type:        sim.CommandZoneEntered,
		ActorID:     clientID,
		ZoneEntered: &sim.ZoneEnteredCommand{Zone: zone},
	})
}

// EnqueueRegenerate stages a playfield rebuild. An empty seed keeps the
// current one.
func (h *Hub) EnqueueRegenerate(clientID, seed string) (bool, string) {
	return h.enqueue(sim.Command{
		Type:       sim.CommandRegenerate,
		ActorID:    clientID,
		Regenerate: &sim.RegenerateCommand{Seed: seed},
	})
}

func (h *Hub) enqueue(cmd sim.Command) (bool, string) {
	cmd.OriginTick = h.tick.Load()
	cmd.IssuedAt = h.clock.Now()
	cmd.TraceID = uuid.NewString()

	ok, reason := h.loop.Enqueue(cmd)
	if !ok {
		h.telemetry.IncrementDroppedCommand()
	}
	return ok, reason
}

// PendingCommands reports the number of staged commands awaiting the next
// tick.
func (h *Hub) PendingCommands() int {
	return h.loop.Pending()
}

// RunSimulation drives the fixed-rate tick loop until the stop channel
// closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	h.loop.Run(stop)
}

// afterStep runs on the loop goroutine once per tick: it caches the fresh
// snapshot, prunes stale clients, and fans the broadcasts out.
func (h *Hub) afterStep(result sim.LoopStepResult) {
	h.telemetry.RecordTickDuration(result.Duration)
	h.telemetry.RecordLightCommands(len(result.Lights))

	h.mu.Lock()
	if result.Snapshot.Generation > h.lastSnapshot.Generation {
		h.telemetry.IncrementGeneration()
	}
	h.lastSnapshot = result.Snapshot
	stale := h.staleClientsLocked(result.Now)
	h.mu.Unlock()

	for _, clientID := range stale {
		log.Printf("disconnecting %s due to heartbeat timeout", clientID)
		h.Disconnect(clientID, "heartbeat_timeout")
	}

	h.broadcastState(result.Snapshot)
	if len(result.Lights) > 0 {
		h.broadcastLights(result.Snapshot.Tick, result.Lights)
	}
}

func (h *Hub) staleClientsLocked(now time.Time) []string {
	var stale []string
	for id, state := range h.clients {
		if now.Sub(state.lastHeartbeat) > disconnectAfter {
			stale = append(stale, id)
		}
	}
	return stale
}

// MarshalState encodes a snapshot as a state message for a single session,
// returning the payload and the entity count for telemetry.
func (h *Hub) MarshalState(snapshot sim.Snapshot) ([]byte, int, error) {
	msg := stateMessage{
		Ver:        protoVersion,
		Type:       "state",
		Snapshot:   snapshot,
		ServerTime: h.clock.Now().UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, 0, err
	}
	return data, len(snapshot.Placements) + len(snapshot.Zones), nil
}

// RecordTelemetryBroadcast accounts for bytes written outside the broadcast
// fan-out, such as the initial state sent on subscribe.
func (h *Hub) RecordTelemetryBroadcast(bytes, entities int) {
	h.telemetry.RecordBroadcast(bytes, entities)
}

// ProtocolVersion reports the wire protocol version for handler responses.
func ProtocolVersion() int {
	return protoVersion
}

// broadcastState sends the latest playfield snapshot to every subscriber.
func (h *Hub) broadcastState(snapshot sim.Snapshot) {
	data, entities, err := h.MarshalState(snapshot)
	if err != nil {
		log.Printf("failed to marshal state message: %v", err)
		return
	}
	h.telemetry.RecordBroadcast(len(data), entities)
	h.fanOut(data)
}

// broadcastLights sends the tick's setLight commands to every subscriber.
func (h *Hub) broadcastLights(tick uint64, commands []sim.LightCommand) {
	msg := lightsMessage{
		Ver:        protoVersion,
		Type:       "lights",
		Tick:       tick,
		Commands:   commands,
		ServerTime: h.clock.Now().UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal lights message: %v", err)
		return
	}
	h.fanOut(data)
}

func (h *Hub) fanOut(data []byte) {
	h.mu.Lock()
	subs := make(map[string]*Subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.Send(data); err != nil {
			log.Printf("failed to send update to %s: %v", id, err)
			h.Disconnect(id, "write_failed")
		}
	}
}

// DiagnosticsSnapshot exposes heartbeat, telemetry, and journal data for the
// diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() diagnosticsSnapshot {
	h.mu.Lock()
	clients := make([]diagnosticsClient, 0, len(h.clients))
	for _, state := range h.clients {
		clients = append(clients, diagnosticsClient{
			Ver:           protoVersion,
			ID:            state.id,
			LastHeartbeat: state.lastHeartbeat.UnixMilli(),
			RTTMillis:     state.lastRTT.Milliseconds(),
		})
	}
	h.mu.Unlock()

	return diagnosticsSnapshot{
		Ver:       protoVersion,
		Clients:   clients,
		Telemetry: h.telemetry.Snapshot(),
		Journal:   h.engine.Journal().Snapshot(),
	}
}

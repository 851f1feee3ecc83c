package server

import (
	"testing"
	"time"

	"pinfield/server/internal/sim"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub, err := NewHub(HubConfig{}, sim.Deps{})
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	return hub
}

func TestJoinAssignsSequentialIDs(t *testing.T) {
	hub := newTestHub(t)

	first := hub.Join()
	second := hub.Join()

	if first.ID != "client-1" || second.ID != "client-2" {
		t.Fatalf("unexpected ids %q, %q", first.ID, second.ID)
	}
	if first.Ver != protoVersion {
		t.Fatalf("expected protocol version %d, got %d", protoVersion, first.Ver)
	}
	if len(first.Snapshot.Placements) == 0 {
		t.Fatal("join response missing placements")
	}
	if len(first.Snapshot.Zones) == 0 {
		t.Fatal("join response missing zones")
	}
	if first.TickRate <= 0 {
		t.Fatalf("join response missing tick rate, got %d", first.TickRate)
	}
}

func TestDisconnectUnknownClient(t *testing.T) {
	hub := newTestHub(t)
	if hub.Disconnect("client-404", "test") {
		t.Fatal("expected disconnect of unknown client to report false")
	}
}

func TestDisconnectRemovesClient(t *testing.T) {
	hub := newTestHub(t)
	joined := hub.Join()

	if !hub.Disconnect(joined.ID, "test") {
		t.Fatal("expected disconnect of known client to report true")
	}
	if _, ok := hub.UpdateHeartbeat(joined.ID, time.Now(), 0); ok {
		t.Fatal("expected heartbeat to fail after disconnect")
	}
}

func TestUpdateHeartbeatComputesRTT(t *testing.T) {
	hub := newTestHub(t)
	joined := hub.Join()

	received := time.Now()
	sent := received.Add(-40 * time.Millisecond).UnixMilli()
	rtt, ok := hub.UpdateHeartbeat(joined.ID, received, sent)
	if !ok {
		t.Fatal("expected heartbeat to succeed")
	}
	if rtt <= 0 || rtt > time.Second {
		t.Fatalf("implausible rtt %v", rtt)
	}
}

func TestEnqueueZoneEnteredStagesCommand(t *testing.T) {
	hub := newTestHub(t)
	joined := hub.Join()

	ok, reason := hub.EnqueueZoneEntered(joined.ID, 1)
	if !ok {
		t.Fatalf("enqueue rejected: %s", reason)
	}
	if pending := hub.loop.Pending(); pending != 1 {
		t.Fatalf("expected 1 pending command, got %d", pending)
	}
}

func TestEnqueueRegenerateAccepted(t *testing.T) {
	hub := newTestHub(t)
	joined := hub.Join()

	ok, reason := hub.EnqueueRegenerate(joined.ID, "tournament")
	if !ok {
		t.Fatalf("enqueue rejected: %s", reason)
	}
}

func TestDiagnosticsSnapshotListsClients(t *testing.T) {
	hub := newTestHub(t)
	joined := hub.Join()

	diag := hub.DiagnosticsSnapshot()
	if len(diag.Clients) != 1 || diag.Clients[0].ID != joined.ID {
		t.Fatalf("unexpected diagnostics clients: %+v", diag.Clients)
	}
	if diag.Telemetry.Generations == 0 {
		t.Fatal("expected at least one generation recorded")
	}
	if len(diag.Journal) == 0 {
		t.Fatal("expected journal entries from the initial generation")
	}
}

package server

import (
	"testing"
	"time"
)

func TestTelemetryRecordBroadcast(t *testing.T) {
	counters := newTelemetryCounters()

	counters.RecordBroadcast(100, 7)
	counters.RecordBroadcast(50, 3)

	snap := counters.Snapshot()
	if snap.BytesSent != 150 {
		t.Fatalf("expected 150 bytes, got %d", snap.BytesSent)
	}
	if snap.EntitiesSent != 10 {
		t.Fatalf("expected 10 entities, got %d", snap.EntitiesSent)
	}
}

func TestTelemetryNegativeValuesClamped(t *testing.T) {
	counters := newTelemetryCounters()

	counters.RecordBroadcast(-5, -1)
	counters.RecordTickDuration(-time.Second)

	snap := counters.Snapshot()
	if snap.BytesSent != 0 || snap.EntitiesSent != 0 {
		t.Fatalf("expected clamped broadcast counters, got %+v", snap)
	}
	if snap.TickDuration != 0 {
		t.Fatalf("expected clamped tick duration, got %d", snap.TickDuration)
	}
}

func TestTelemetryLightAndDropCounters(t *testing.T) {
	counters := newTelemetryCounters()

	counters.RecordLightCommands(4)
	counters.RecordLightCommands(0)
	counters.IncrementDroppedCommand()
	counters.IncrementGeneration()

	snap := counters.Snapshot()
	if snap.LightCommands != 4 {
		t.Fatalf("expected 4 light commands, got %d", snap.LightCommands)
	}
	if snap.DroppedCommands != 1 {
		t.Fatalf("expected 1 dropped command, got %d", snap.DroppedCommands)
	}
	if snap.Generations != 1 {
		t.Fatalf("expected 1 generation, got %d", snap.Generations)
	}
}

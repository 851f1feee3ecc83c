package logging_test

import (
	"context"
	"testing"

	"pinfield/server/logging"
	"pinfield/server/logging/sinks"
)

func newRouter(t *testing.T, cfg logging.Config, sink logging.Sink) *logging.Router {
	t.Helper()
	router, err := logging.NewRouter(cfg, logging.SystemClock{}, nil,
		map[string]logging.Sink{"memory": sink})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return router
}

func TestRouterDeliversToEnabledSink(t *testing.T) {
	memory := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"memory"}
	router := newRouter(t, cfg, memory)

	router.Publish(context.Background(), logging.Event{
		Type:     "zones.phase_changed",
		Tick:     7,
		Severity: logging.SeverityInfo,
	})

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 delivered event, got %d", len(events))
	}
	if events[0].Tick != 7 {
		t.Fatalf("unexpected event tick %d", events[0].Tick)
	}
	if events[0].Time.IsZero() {
		t.Fatal("expected router to stamp the event time")
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	memory := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"memory"}
	cfg.MinimumSeverity = logging.SeverityWarn
	router := newRouter(t, cfg, memory)

	router.Publish(context.Background(), logging.Event{
		Type:     "zones.phase_changed",
		Severity: logging.SeverityInfo,
	})
	router.Publish(context.Background(), logging.Event{
		Type:     "field.generation_failed",
		Severity: logging.SeverityWarn,
	})

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected severity filter to pass 1 event, got %d", len(events))
	}
	if events[0].Type != "field.generation_failed" {
		t.Fatalf("wrong event survived the filter: %q", events[0].Type)
	}
}

func TestRouterIgnoresDisabledSink(t *testing.T) {
	memory := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"console"}
	router := newRouter(t, cfg, memory)

	router.Publish(context.Background(), logging.Event{
		Type:     "zones.phase_changed",
		Severity: logging.SeverityInfo,
	})

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if events := memory.Events(); len(events) != 0 {
		t.Fatalf("disabled sink received %d events", len(events))
	}
}

func TestRouterStampsAmbientFields(t *testing.T) {
	memory := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"memory"}
	cfg.Fields = map[string]any{"service": "pinfield"}
	router := newRouter(t, cfg, memory)

	router.Publish(context.Background(), logging.Event{
		Type:     "zones.zone_claimed",
		Severity: logging.SeverityInfo,
	})

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Extra["service"] != "pinfield" {
		t.Fatalf("ambient field missing: %+v", events[0].Extra)
	}
}

func TestRouterStatsCountPublishes(t *testing.T) {
	memory := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"memory"}
	router := newRouter(t, cfg, memory)

	for i := 0; i < 3; i++ {
		router.Publish(context.Background(), logging.Event{
			Type:     "zones.phase_changed",
			Severity: logging.SeverityInfo,
		})
	}

	stats := router.Stats()
	if stats.EventsTotal != 3 {
		t.Fatalf("expected 3 published events, got %d", stats.EventsTotal)
	}

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

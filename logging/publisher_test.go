package logging

import (
	"context"
	"testing"
)

func TestWithFieldsStampsExtra(t *testing.T) {
	var captured Event
	base := PublisherFunc(func(_ context.Context, event Event) {
		captured = event
	})

	wrapped := WithFields(base, map[string]any{"component": "hub", "region": "field"})
	wrapped.Publish(context.Background(), Event{Type: "test_event"})

	if captured.Extra["component"] != "hub" {
		t.Fatalf("expected component=hub, got %v", captured.Extra["component"])
	}
	if captured.Extra["region"] != "field" {
		t.Fatalf("expected region=field, got %v", captured.Extra["region"])
	}
}

func TestWithFieldsDoesNotOverrideExistingExtra(t *testing.T) {
	var captured Event
	base := PublisherFunc(func(_ context.Context, event Event) {
		captured = event
	})

	wrapped := WithFields(base, map[string]any{"component": "hub"})
	wrapped.Publish(context.Background(), Event{}.WithExtra("component", "loop"))

	if captured.Extra["component"] != "loop" {
		t.Fatalf("expected event value to win, got %v", captured.Extra["component"])
	}
}

func TestWithFieldsDoesNotMutateOriginalEvent(t *testing.T) {
	base := PublisherFunc(func(context.Context, Event) {})
	wrapped := WithFields(base, map[string]any{"component": "hub"})

	original := Event{Type: "test_event"}
	wrapped.Publish(context.Background(), original)

	if original.Extra != nil {
		t.Fatalf("expected original event untouched, got extra %v", original.Extra)
	}
}

func TestWithFieldsNilPublisherDropsEvents(t *testing.T) {
	wrapped := WithFields(nil, map[string]any{"component": "hub"})
	wrapped.Publish(context.Background(), Event{Type: "test_event"})
}

func TestWithFieldsEmptyFieldsReturnsSamePublisher(t *testing.T) {
	called := false
	base := PublisherFunc(func(context.Context, Event) {
		called = true
	})

	wrapped := WithFields(base, nil)
	wrapped.Publish(context.Background(), Event{})

	if !called {
		t.Fatal("expected wrapped publisher to delegate")
	}
}

func TestNilPublisherFuncIsSafe(t *testing.T) {
	var f PublisherFunc
	f.Publish(context.Background(), Event{Type: "test_event"})
}

package net

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pinfield/server"
	"pinfield/server/internal/observability"
	"pinfield/server/internal/sim"
)

func newTestHub(t *testing.T) *server.Hub {
	t.Helper()
	hub, err := server.NewHub(server.HubConfig{}, sim.Deps{})
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	return hub
}

func TestJoinReturnsSnapshot(t *testing.T) {
	hub := newTestHub(t)
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/join", strings.NewReader(""))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
	if contentType := resp.Header().Get("Content-Type"); contentType != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", contentType)
	}

	var payload struct {
		ID       string `json:"id"`
		TickRate int    `json:"tickRate"`
		Snapshot struct {
			Placements []json.RawMessage `json:"placements"`
		} `json:"snapshot"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode join payload: %v", err)
	}
	if payload.ID != "client-1" {
		t.Fatalf("expected first client id, got %q", payload.ID)
	}
	if payload.TickRate <= 0 {
		t.Fatalf("expected positive tick rate, got %d", payload.TickRate)
	}
	if len(payload.Snapshot.Placements) == 0 {
		t.Fatal("join payload missing placements")
	}
}

func TestJoinRejectsGet(t *testing.T) {
	hub := newTestHub(t)
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/join", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", resp.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	hub := newTestHub(t)
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "ok" {
		t.Fatalf("expected ok body, got %q", body)
	}
}

func TestDiagnosticsEndpoint(t *testing.T) {
	hub := newTestHub(t)
	hub.Join()
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/diagnostics", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}

	var payload struct {
		Status   string `json:"status"`
		TickRate int    `json:"tickRate"`
		Diag     struct {
			Clients []json.RawMessage `json:"clients"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode diagnostics payload: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("expected ok status, got %q", payload.Status)
	}
	if len(payload.Diag.Clients) != 1 {
		t.Fatalf("expected one diagnostics client, got %d", len(payload.Diag.Clients))
	}
}

func TestPprofDisabledByDefault(t *testing.T) {
	hub := newTestHub(t)
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestPprofEnabledByToggle(t *testing.T) {
	hub := newTestHub(t)
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{
		Observability: observability.Config{EnablePprofTrace: true},
	})

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
}

package zones

import (
	"context"
	"strconv"

	"pinfield/server/logging"
)

const (
	// EventPhaseChanged is emitted on every lighting protocol transition.
	EventPhaseChanged logging.EventType = "zones.phase_changed"
	// EventZoneClaimed is emitted when entry arbitration settles.
	EventZoneClaimed logging.EventType = "zones.zone_claimed"
	// EventEntryDropped is emitted for entry events losing arbitration.
	EventEntryDropped logging.EventType = "zones.entry_dropped"
	// EventConfirmFlash is emitted when a scoring winner's flash starts.
	EventConfirmFlash logging.EventType = "zones.confirm_flash"
)

// PhaseChangedPayload records a protocol transition.
type PhaseChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ZoneClaimedPayload records the winning zone of entry arbitration.
type ZoneClaimedPayload struct {
	Zone    int  `json:"zone"`
	Scoring bool `json:"scoring"`
}

// EntryDroppedPayload records an entry event that lost arbitration.
type EntryDroppedPayload struct {
	Zone   int `json:"zone"`
	Winner int `json:"winner"`
}

// ConfirmFlashPayload records the start of a confirmation flash.
type ConfirmFlashPayload struct {
	Zone    int `json:"zone"`
	Flashes int `json:"flashes"`
}

// PhaseChanged publishes a lighting phase transition.
func PhaseChanged(ctx context.Context, pub logging.Publisher, tick uint64, payload PhaseChangedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPhaseChanged,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindPlayfield},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// ZoneClaimed publishes the arbitration winner.
func ZoneClaimed(ctx context.Context, pub logging.Publisher, tick uint64, payload ZoneClaimedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventZoneClaimed,
		Tick:     tick,
		Actor:    zoneRef(payload.Zone),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// EntryDropped publishes a losing entry event.
func EntryDropped(ctx context.Context, pub logging.Publisher, tick uint64, payload EntryDroppedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEntryDropped,
		Tick:     tick,
		Actor:    zoneRef(payload.Zone),
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// ConfirmFlash publishes the start of a scoring confirmation flash.
func ConfirmFlash(ctx context.Context, pub logging.Publisher, tick uint64, payload ConfirmFlashPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventConfirmFlash,
		Tick:     tick,
		Actor:    zoneRef(payload.Zone),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

func zoneRef(idx int) logging.EntityRef {
	return logging.EntityRef{ID: strconv.Itoa(idx), Kind: logging.EntityKindZone}
}

package field

import (
	"context"

	"pinfield/server/logging"
)

const (
	// EventGenerationCompleted is emitted after a successful scatter run.
	EventGenerationCompleted logging.EventType = "field.generation_completed"
	// EventGenerationFailed is emitted when generation rejects its config.
	EventGenerationFailed logging.EventType = "field.generation_failed"
)

// GenerationCompletedPayload summarizes one scatter result.
type GenerationCompletedPayload struct {
	Seed          string  `json:"seed"`
	Placements    int     `json:"placements"`
	Zones         int     `json:"zones"`
	MeanNearest   float64 `json:"meanNearest"`
	StddevNearest float64 `json:"stddevNearest"`
	MinNearest    float64 `json:"minNearest"`
}

// GenerationFailedPayload records a rejected generation config.
type GenerationFailedPayload struct {
	Seed   string `json:"seed"`
	Reason string `json:"reason"`
}

// GenerationCompleted publishes a successful generation summary.
func GenerationCompleted(ctx context.Context, pub logging.Publisher, tick uint64, payload GenerationCompletedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGenerationCompleted,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindPlayfield},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// GenerationFailed publishes a configuration rejection.
func GenerationFailed(ctx context.Context, pub logging.Publisher, tick uint64, payload GenerationFailedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGenerationFailed,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindPlayfield},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

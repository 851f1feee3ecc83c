package sim

import (
	"pinfield/server/internal/telemetry"
	"pinfield/server/logging"
)

// Deps carries the cross-cutting collaborators injected into the engine and
// shared with the loop.
type Deps struct {
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Clock     logging.Clock
	Publisher logging.Publisher
}

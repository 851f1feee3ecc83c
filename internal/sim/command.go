// Package sim stages inbound commands and runs the fixed-timestep loop that
// advances the playfield engine. Producers enqueue concurrently; the loop
// goroutine is the single consumer, which is what makes entry arbitration
// deterministic.
package sim

import "time"

// CommandType enumerates the supported playfield commands.
type CommandType string

const (
	CommandRegenerate  CommandType = "Regenerate"
	CommandZoneEntered CommandType = "ZoneEntered"
)

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick  uint64
	ActorID     string
	Type        CommandType
	IssuedAt    time.Time
	TraceID     string
	Regenerate  *RegenerateCommand
	ZoneEntered *ZoneEnteredCommand
}

// RegenerateCommand requests a full playfield rebuild. An empty seed keeps
// the current one.
type RegenerateCommand struct {
	Seed string
}

// ZoneEnteredCommand carries a discrete zone entry event from the collision
// side of the world.
type ZoneEnteredCommand struct {
	Zone int
}

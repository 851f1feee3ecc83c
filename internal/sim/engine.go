package sim

import (
	"pinfield/server/internal/field"
	"pinfield/server/internal/track"
)

// EngineCore is the surface the loop drives each tick.
type EngineCore interface {
	Deps() Deps
	Apply(cmds []Command) error
	Step()
	Snapshot() Snapshot
	DrainLightCommands() []LightCommand
}

// Engine is the loop-wrapped core exposed to the hub.
type Engine interface {
	EngineCore
	Enqueue(cmd Command) (bool, string)
	Pending() int
	Run(stop <-chan struct{})
}

// LightCommand is one outbound setLight instruction.
type LightCommand struct {
	Zone int  `json:"zone"`
	On   bool `json:"on"`
}

// Snapshot copies the playfield state into broadcast-friendly structs.
type Snapshot struct {
	Tick       uint64               `json:"t"`
	Generation uint64               `json:"generation"`
	Seed       string               `json:"seed"`
	Placements []field.Placement    `json:"placements"`
	Zones      []track.Zone         `json:"zones"`
	Lights     []bool               `json:"lights"`
	Phase      string               `json:"phase"`
	Claimed    int                  `json:"claimed"`
	HasClaim   bool                 `json:"hasClaim"`
	Spacing    field.SpacingSummary `json:"spacing"`
}

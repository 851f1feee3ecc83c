package server

import (
	"pinfield/server/internal/journal"
	"pinfield/server/internal/playfield"
	"pinfield/server/internal/sim"
)

// protoVersion tags every outbound message so clients can reject payloads
// from an incompatible server build.
const protoVersion = 1

type joinResponse struct {
	Ver      int              `json:"ver"`
	ID       string           `json:"id"`
	Snapshot sim.Snapshot     `json:"snapshot"`
	Config   playfield.Config `json:"config"`
	TickRate int              `json:"tickRate"`
}

type stateMessage struct {
	Ver        int          `json:"ver"`
	Type       string       `json:"type"`
	Snapshot   sim.Snapshot `json:"snapshot"`
	ServerTime int64        `json:"serverTime"`
}

type lightsMessage struct {
	Ver        int                `json:"ver"`
	Type       string             `json:"type"`
	Tick       uint64             `json:"t"`
	Commands   []sim.LightCommand `json:"commands"`
	ServerTime int64              `json:"serverTime"`
}

type diagnosticsClient struct {
	Ver           int    `json:"ver"`
	ID            string `json:"id"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
}

type diagnosticsSnapshot struct {
	Ver       int                 `json:"ver"`
	Clients   []diagnosticsClient `json:"clients"`
	Telemetry telemetrySnapshot   `json:"telemetry"`
	Journal   []journal.Entry     `json:"journal"`
}

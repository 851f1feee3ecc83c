package playfield

import (
	"context"
	"fmt"

	"pinfield/server/internal/field"
	"pinfield/server/internal/journal"
	"pinfield/server/internal/sim"
	"pinfield/server/internal/track"
	"pinfield/server/logging"
	loggingfield "pinfield/server/logging/field"
)

// Engine owns the playfield state driven by the simulation loop: the scatter
// result, the zone track, the light sequencer, and the journal of light
// commands. All mutation happens on the loop goroutine.
type Engine struct {
	cfg  Config
	deps sim.Deps

	clock     logging.Clock
	publisher logging.Publisher

	sched *track.TickScheduler
	seq   *track.Sequencer
	log   *journal.Journal

	tick       uint64
	generation uint64
	seed       string
	placements []field.Placement
	spacing    field.SpacingSummary
	pending    []sim.LightCommand
}

// NewEngine builds the engine and generates the initial playfield. A config
// the sampler rejects fails construction.
func NewEngine(cfg Config, deps sim.Deps, log *journal.Journal) (*Engine, error) {
	cfg = cfg.normalized()
	clock := deps.Clock
	if clock == nil {
		clock = logging.SystemClock{}
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	e := &Engine{
		cfg:       cfg,
		deps:      deps,
		clock:     clock,
		publisher: publisher,
		sched:     track.NewTickScheduler(clock.Now()),
		log:       log,
	}
	// Light commands fan out to the broadcast buffer and the journal.
	e.seq = track.NewSequencer(track.SequencerDeps{
		Scheduler: e.sched,
		Writer: track.MultiLightWriter(
			track.LightWriterFunc(e.recordLight),
			journalLightWriter{log: log, tick: func() uint64 { return e.tick }},
		),
		Publisher: publisher,
		Tick:      func() uint64 { return e.tick },
	}, cfg.Sequence)

	if err := e.regenerate(cfg.Seed); err != nil {
		return nil, err
	}
	return e, nil
}

// Deps exposes the injected collaborators to the loop.
func (e *Engine) Deps() sim.Deps {
	return e.deps
}

// Config returns the normalized playfield configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Journal returns the light-command journal, which may be nil.
func (e *Engine) Journal() *journal.Journal {
	return e.log
}

// Apply consumes the tick's drained command batch in arrival order.
func (e *Engine) Apply(cmds []sim.Command) error {
	var firstErr error
	for _, cmd := range cmds {
		if err := e.applyCommand(cmd); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Engine) applyCommand(cmd sim.Command) error {
	switch cmd.Type {
	case sim.CommandRegenerate:
		seed := e.seed
		if cmd.Regenerate != nil && cmd.Regenerate.Seed != "" {
			seed = cmd.Regenerate.Seed
		}
		if err := e.regenerate(seed); err != nil {
			if e.deps.Logger != nil {
				e.deps.Logger.Printf("regenerate rejected (seed=%q): %v", seed, err)
			}
			return err
		}
		return nil
	case sim.CommandZoneEntered:
		if cmd.ZoneEntered == nil {
			return fmt.Errorf("zone entered command missing payload")
		}
		accepted := e.seq.ZoneEntered(cmd.ZoneEntered.Zone)
		if accepted {
			if winner, ok := e.seq.Claimed(); ok {
				e.journalClaim(winner)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}
}

// Step advances the cooperative scheduler to the current wall time, firing
// whatever light steps came due since the last tick.
func (e *Engine) Step() {
	e.tick++
	e.sched.Advance(e.clock.Now())
}

// Snapshot copies the broadcastable state.
func (e *Engine) Snapshot() sim.Snapshot {
	claimed, hasClaim := e.seq.Claimed()
	return sim.Snapshot{
		Tick:       e.tick,
		Generation: e.generation,
		Seed:       e.seed,
		Placements: append([]field.Placement(nil), e.placements...),
		Zones:      e.seq.Zones(),
		Lights:     e.seq.Lights(),
		Phase:      e.seq.Phase().String(),
		Claimed:    claimed,
		HasClaim:   hasClaim,
		Spacing:    e.spacing,
	}
}

// DrainLightCommands hands the tick's accumulated setLight instructions to
// the loop and clears the buffer.
func (e *Engine) DrainLightCommands() []sim.LightCommand {
	if len(e.pending) == 0 {
		return nil
	}
	drained := e.pending
	e.pending = nil
	return drained
}

// regenerate rebuilds placements and zones from the seed. Both results are
// computed before any existing state is touched, so a rejected config leaves
// the previous playfield intact.
func (e *Engine) regenerate(seed string) error {
	placements, err := field.Generate(e.cfg.fieldConfig(seed))
	if err != nil {
		loggingfield.GenerationFailed(context.Background(), e.publisher, e.tick,
			loggingfield.GenerationFailedPayload{Seed: seed, Reason: err.Error()})
		return err
	}
	zoneRNG := field.NewDeterministicRNG(seed, "track.scoring")
	zones, err := track.Partition(e.cfg.Region(), e.cfg.Zones, zoneRNG)
	if err != nil {
		loggingfield.GenerationFailed(context.Background(), e.publisher, e.tick,
			loggingfield.GenerationFailedPayload{Seed: seed, Reason: err.Error()})
		return err
	}

	e.seed = seed
	e.placements = placements
	e.spacing = field.Summarize(placements)
	e.generation++

	e.seq.Reset(zones)
	e.seq.Start()

	e.log.Append(journal.Entry{
		Tick: e.tick,
		Kind: journal.KindGeneration,
		Zone: -1,
		Note: seed,
	})
	if e.deps.Metrics != nil {
		e.deps.Metrics.Add("playfield_generations_total", 1)
		e.deps.Metrics.Store("playfield_placements", uint64(len(placements)))
	}
	loggingfield.GenerationCompleted(context.Background(), e.publisher, e.tick,
		loggingfield.GenerationCompletedPayload{
			Seed:          seed,
			Placements:    len(placements),
			Zones:         len(zones),
			MeanNearest:   e.spacing.MeanNearest,
			StddevNearest: e.spacing.StddevNearest,
			MinNearest:    e.spacing.MinNearest,
		})
	return nil
}

func (e *Engine) recordLight(zone int, on bool) {
	e.pending = append(e.pending, sim.LightCommand{Zone: zone, On: on})
	if e.deps.Metrics != nil {
		e.deps.Metrics.Add("playfield_light_commands_total", 1)
	}
}

// journalLightWriter mirrors every light command into the journal.
type journalLightWriter struct {
	log  *journal.Journal
	tick func() uint64
}

func (w journalLightWriter) SetLight(zone int, on bool) {
	w.log.Append(journal.Entry{Tick: w.tick(), Kind: journal.KindLight, Zone: zone, On: on})
}

func (e *Engine) journalClaim(zone int) {
	e.log.Append(journal.Entry{Tick: e.tick, Kind: journal.KindClaim, Zone: zone})
}

var _ sim.EngineCore = (*Engine)(nil)

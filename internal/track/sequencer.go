package track

import (
	"context"
	"time"

	"pinfield/server/logging"
	loggingzones "pinfield/server/logging/zones"
)

// Phase enumerates the lighting protocol states.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMarquee
	PhaseBlackout
	PhaseScoringFlash
	PhaseSteadyOn
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMarquee:
		return "marquee"
	case PhaseBlackout:
		return "blackout"
	case PhaseScoringFlash:
		return "scoring-flash"
	case PhaseSteadyOn:
		return "steady-on"
	default:
		return "unknown"
	}
}

// SequenceConfig tunes the startup lighting protocol and the entry
// confirmation flash.
type SequenceConfig struct {
	MarqueeDuration      time.Duration `json:"marqueeDuration" yaml:"marqueeDuration"`
	MarqueeLoops         int           `json:"marqueeLoops" yaml:"marqueeLoops"`
	ScoringFlashDuration time.Duration `json:"scoringFlashDuration" yaml:"scoringFlashDuration"`
	ScoringFlashCount    int           `json:"scoringFlashCount" yaml:"scoringFlashCount"`
	ConfirmDuration      time.Duration `json:"confirmDuration" yaml:"confirmDuration"`
	ConfirmFlashCount    int           `json:"confirmFlashCount" yaml:"confirmFlashCount"`
}

func (cfg SequenceConfig) normalized() SequenceConfig {
	normalized := cfg
	if normalized.MarqueeDuration <= 0 {
		normalized.MarqueeDuration = 2 * time.Second
	}
	if normalized.MarqueeLoops <= 0 {
		normalized.MarqueeLoops = 2
	}
	if normalized.ScoringFlashDuration <= 0 {
		normalized.ScoringFlashDuration = time.Second
	}
	if normalized.ScoringFlashCount <= 0 {
		normalized.ScoringFlashCount = 3
	}
	if normalized.ConfirmDuration <= 0 {
		normalized.ConfirmDuration = time.Second
	}
	if normalized.ConfirmFlashCount <= 0 {
		normalized.ConfirmFlashCount = 3
	}
	return normalized
}

// SequencerDeps injects the sequencer's collaborators.
type SequencerDeps struct {
	Scheduler Scheduler
	Writer    LightWriter
	Publisher logging.Publisher
	Tick      func() uint64
}

// Sequencer owns the per-zone light state and the claimed flag. All methods
// and scheduled callbacks run on the simulation goroutine; no light is ever
// driven by two control paths at once.
type Sequencer struct {
	sched     Scheduler
	writer    LightWriter
	publisher logging.Publisher
	tick      func() uint64
	cfg       SequenceConfig

	zones       []Zone
	lights      []bool
	phase       Phase
	generation  uint64
	claimed     bool
	claimedZone int
	cancels     []func()
}

// NewSequencer builds an idle sequencer with no zones installed.
func NewSequencer(deps SequencerDeps, cfg SequenceConfig) *Sequencer {
	writer := deps.Writer
	if writer == nil {
		writer = nopLightWriter{}
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	tick := deps.Tick
	if tick == nil {
		tick = func() uint64 { return 0 }
	}
	return &Sequencer{
		sched:     deps.Scheduler,
		writer:    writer,
		publisher: publisher,
		tick:      tick,
		cfg:       cfg.normalized(),
	}
}

// Reset tears the current zone set down and installs a fresh one. Every
// pending delayed step is abandoned, stale callbacks are fenced off by the
// generation bump, and any lit light from the old set is switched off before
// the new set exists.
func (s *Sequencer) Reset(zones []Zone) {
	s.generation++
	s.cancelPending()

	for idx, on := range s.lights {
		if on {
			s.setLight(idx, false)
		}
	}

	s.zones = append([]Zone(nil), zones...)
	s.lights = make([]bool, len(s.zones))
	s.claimed = false
	s.claimedZone = -1
	s.setPhase(PhaseIdle)
}

// Start launches the startup lighting protocol from the marquee phase.
// A sequencer without zones stays idle.
func (s *Sequencer) Start() {
	if len(s.zones) == 0 {
		return
	}
	s.enterMarquee()
}

// Generation reports the current zone-set generation. Scheduled callbacks
// capture it and no-op once it moves on.
func (s *Sequencer) Generation() uint64 {
	return s.generation
}

// Phase reports the current protocol phase.
func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Zones returns a copy of the current zone set.
func (s *Sequencer) Zones() []Zone {
	return append([]Zone(nil), s.zones...)
}

// Lights returns a copy of the per-zone light states.
func (s *Sequencer) Lights() []bool {
	return append([]bool(nil), s.lights...)
}

// Claimed reports the winning zone index once entry arbitration settled.
func (s *Sequencer) Claimed() (int, bool) {
	if !s.claimed {
		return -1, false
	}
	return s.claimedZone, true
}

// ZoneEntered arbitrates a discrete entry event. The first call after a
// Reset wins: every other zone locks and, when the winner is a scoring zone,
// an independent confirmation flash plays on its light alone. Later calls
// are no-ops and report false.
func (s *Sequencer) ZoneEntered(idx int) bool {
	if idx < 0 || idx >= len(s.zones) {
		return false
	}
	if s.claimed {
		loggingzones.EntryDropped(context.Background(), s.publisher, s.tick(),
			loggingzones.EntryDroppedPayload{Zone: idx, Winner: s.claimedZone})
		return false
	}

	s.claimed = true
	s.claimedZone = idx
	for i := range s.zones {
		if i != idx {
			s.zones[i].Locked = true
		}
	}

	scoring := s.zones[idx].Scoring
	loggingzones.ZoneClaimed(context.Background(), s.publisher, s.tick(),
		loggingzones.ZoneClaimedPayload{Zone: idx, Scoring: scoring})

	if scoring {
		if s.phase != PhaseSteadyOn {
			// The confirmation flash takes over the lights. Any startup
			// protocol steps still in flight are abandoned and the field
			// jumps straight to steady-on first.
			s.cancelPending()
			s.enterSteadyOn()
		}
		s.startConfirmFlash(idx)
	}
	return true
}

func (s *Sequencer) enterMarquee() {
	s.setPhase(PhaseMarquee)
	steps := len(s.zones) * s.cfg.MarqueeLoops
	stepDuration := s.cfg.MarqueeDuration / time.Duration(steps)
	s.marqueeStep(0, steps, stepDuration)
}

// marqueeStep lights exactly one zone at a time, sweeping index order for
// the configured number of loops.
func (s *Sequencer) marqueeStep(step, steps int, stepDuration time.Duration) {
	if step >= steps {
		s.setLight((steps-1)%len(s.zones), false)
		s.enterBlackout()
		return
	}

	if step > 0 {
		s.setLight((step-1)%len(s.zones), false)
	}
	s.setLight(step%len(s.zones), true)

	s.after(stepDuration, func() {
		s.marqueeStep(step+1, steps, stepDuration)
	})
}

func (s *Sequencer) enterBlackout() {
	s.setPhase(PhaseBlackout)
	for idx := range s.lights {
		s.setLight(idx, false)
	}
	// Blackout is instantaneous; the flash phase begins on the same step.
	s.enterScoringFlash()
}

func (s *Sequencer) enterScoringFlash() {
	s.setPhase(PhaseScoringFlash)
	halfPeriod := s.cfg.ScoringFlashDuration / time.Duration(s.cfg.ScoringFlashCount*2)
	s.scoringFlashStep(0, s.cfg.ScoringFlashCount*2, halfPeriod)
}

// scoringFlashStep flashes every scoring light in unison: even steps on,
// odd steps off. Non-scoring lights stay dark throughout.
func (s *Sequencer) scoringFlashStep(step, steps int, halfPeriod time.Duration) {
	if step >= steps {
		s.enterSteadyOn()
		return
	}

	on := step%2 == 0
	for _, zone := range s.zones {
		if zone.Scoring {
			s.setLight(zone.Index, on)
		}
	}

	s.after(halfPeriod, func() {
		s.scoringFlashStep(step+1, steps, halfPeriod)
	})
}

func (s *Sequencer) enterSteadyOn() {
	s.setPhase(PhaseSteadyOn)
	for idx := range s.lights {
		s.setLight(idx, true)
	}
}

// startConfirmFlash plays the winner's confirmation: ConfirmFlashCount
// on/off cycles over ConfirmDuration on that zone's light alone, ending lit.
func (s *Sequencer) startConfirmFlash(idx int) {
	loggingzones.ConfirmFlash(context.Background(), s.publisher, s.tick(),
		loggingzones.ConfirmFlashPayload{Zone: idx, Flashes: s.cfg.ConfirmFlashCount})
	halfPeriod := s.cfg.ConfirmDuration / time.Duration(s.cfg.ConfirmFlashCount*2)
	s.confirmStep(idx, 0, s.cfg.ConfirmFlashCount*2, halfPeriod)
}

func (s *Sequencer) confirmStep(idx, step, steps int, halfPeriod time.Duration) {
	if step >= steps {
		s.setLight(idx, true)
		return
	}

	s.setLight(idx, step%2 == 0)
	s.after(halfPeriod, func() {
		s.confirmStep(idx, step+1, steps, halfPeriod)
	})
}

// after schedules fn behind the generation fence so steps belonging to a
// torn-down zone set never touch the lights.
func (s *Sequencer) after(delay time.Duration, fn func()) {
	if s.sched == nil {
		return
	}
	generation := s.generation
	cancel := s.sched.After(delay, func() {
		if s.generation != generation {
			return
		}
		fn()
	})
	s.cancels = append(s.cancels, cancel)
}

func (s *Sequencer) cancelPending() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = s.cancels[:0]
}

func (s *Sequencer) setLight(idx int, on bool) {
	if idx < 0 || idx >= len(s.lights) {
		return
	}
	if s.lights[idx] == on {
		return
	}
	s.lights[idx] = on
	s.writer.SetLight(idx, on)
}

func (s *Sequencer) setPhase(phase Phase) {
	if s.phase == phase {
		return
	}
	previous := s.phase
	s.phase = phase
	loggingzones.PhaseChanged(context.Background(), s.publisher, s.tick(),
		loggingzones.PhaseChangedPayload{From: previous.String(), To: phase.String()})
}

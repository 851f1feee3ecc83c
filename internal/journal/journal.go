// Package journal keeps a bounded in-memory record of recent light commands
// and zone events for the diagnostics endpoint. It is not persistence; the
// record dies with the process.
package journal

import (
	"os"
	"strconv"
	"sync"
	"time"

	"pinfield/server/logging"
)

// Kind identifies the type of journal entry.
type Kind string

const (
	// KindLight records one outbound setLight command.
	KindLight Kind = "light"
	// KindClaim records the entry arbitration winner.
	KindClaim Kind = "claim"
	// KindGeneration records a playfield rebuild.
	KindGeneration Kind = "generation"
)

// Entry is one journal record.
type Entry struct {
	Seq  uint64    `json:"seq"`
	Tick uint64    `json:"tick"`
	Time time.Time `json:"time"`
	Kind Kind      `json:"kind"`
	Zone int       `json:"zone"`
	On   bool      `json:"on"`
	Note string    `json:"note,omitempty"`
}

// Journal is a capacity- and age-bounded ring of entries.
type Journal struct {
	mu       sync.Mutex
	entries  []Entry
	nextSeq  uint64
	capacity int
	maxAge   time.Duration
	clock    logging.Clock
}

const (
	defaultCapacity = 256
	defaultMaxAge   = time.Minute
)

// New constructs a journal. Non-positive capacity or age fall back to the
// defaults.
func New(capacity int, maxAge time.Duration, clock logging.Clock) *Journal {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	if clock == nil {
		clock = logging.SystemClock{}
	}
	return &Journal{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		maxAge:   maxAge,
		clock:    clock,
	}
}

// Append records an entry, stamping sequence and time, and evicts whatever
// the bounds no longer admit.
func (j *Journal) Append(entry Entry) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	j.nextSeq++
	entry.Seq = j.nextSeq
	if entry.Time.IsZero() {
		entry.Time = j.clock.Now()
	}

	j.entries = append(j.entries, entry)
	j.pruneLocked(entry.Time)
}

// Snapshot copies the live entries, oldest first.
func (j *Journal) Snapshot() []Entry {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pruneLocked(j.clock.Now())
	copied := make([]Entry, len(j.entries))
	copy(copied, j.entries)
	return copied
}

// Len reports the number of live entries.
func (j *Journal) Len() int {
	if j == nil {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

func (j *Journal) pruneLocked(now time.Time) {
	cutoff := now.Add(-j.maxAge)
	firstLive := 0
	for firstLive < len(j.entries) && j.entries[firstLive].Time.Before(cutoff) {
		firstLive++
	}
	if firstLive > 0 {
		j.entries = append(j.entries[:0], j.entries[firstLive:]...)
	}
	if overflow := len(j.entries) - j.capacity; overflow > 0 {
		j.entries = append(j.entries[:0], j.entries[overflow:]...)
	}
}

// ConfigFromEnv reads journal bounds from the environment, falling back to
// the defaults on absent or malformed values.
func ConfigFromEnv() (int, time.Duration) {
	capacity := defaultCapacity
	if raw := os.Getenv("LIGHT_JOURNAL_CAPACITY"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			capacity = value
		}
	}
	maxAge := defaultMaxAge
	if raw := os.Getenv("LIGHT_JOURNAL_MAX_AGE_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			maxAge = time.Duration(value) * time.Millisecond
		}
	}
	return capacity, maxAge
}

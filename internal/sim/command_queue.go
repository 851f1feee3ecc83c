package sim

import "sync"

const (
	queueDepthMetricKey   = "playfield_command_queue_depth"
	queueRejectsMetricKey = "playfield_command_queue_rejects_total"
)

// CommandQueue stages playfield commands (regenerations, zone entries) in a
// fixed-size ring until the next tick drains them. Producers are the network
// goroutines; the simulation loop is the only consumer.
type CommandQueue struct {
	mu      sync.Mutex
	ring    []Command
	head    int
	tail    int
	depth   int
	metrics telemetryMetrics
}

type telemetryMetrics interface {
	Add(string, uint64)
	Store(string, uint64)
}

// NewCommandQueue builds a queue holding at most capacity commands.
func NewCommandQueue(capacity int, metrics telemetryMetrics) *CommandQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &CommandQueue{
		ring:    make([]Command, capacity),
		metrics: metrics,
	}
}

// Capacity reports how many commands the queue can hold.
func (q *CommandQueue) Capacity() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ring)
}

// Push stages a command for the next tick. A full queue rejects the command
// and returns false; callers surface that to the client as a retryable error.
func (q *CommandQueue) Push(cmd Command) bool {
	if q == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.depth == len(q.ring) {
		if q.metrics != nil {
			q.metrics.Add(queueRejectsMetricKey, 1)
		}
		return false
	}
	q.ring[q.tail] = cmd
	q.tail = (q.tail + 1) % len(q.ring)
	q.depth++
	q.storeDepthLocked()
	return true
}

// Drain hands every staged command to the tick in FIFO order and empties
// the queue.
func (q *CommandQueue) Drain() []Command {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.depth == 0 {
		return nil
	}
	drained := make([]Command, 0, q.depth)
	for i := 0; i < q.depth; i++ {
		drained = append(drained, q.ring[(q.head+i)%len(q.ring)])
	}
	q.head = 0
	q.tail = 0
	q.depth = 0
	q.storeDepthLocked()
	return drained
}

// Len reports the number of staged commands.
func (q *CommandQueue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.depth
}

func (q *CommandQueue) storeDepthLocked() {
	if q.metrics == nil {
		return
	}
	q.metrics.Store(queueDepthMetricKey, uint64(q.depth))
}

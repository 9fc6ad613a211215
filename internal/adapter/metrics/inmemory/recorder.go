package inmemory

import (
	"sync"
	"time"
)

type CommandStats struct {
	Total     uint64 `json:"total"`
	Success   uint64 `json:"success"`
	Failure   uint64 `json:"failure"`
	Errors    uint64 `json:"errors"`
	Unhandled uint64 `json:"unhandled"`
	// AvgLatencyMs covers completed dispatches only.
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

type Snapshot struct {
	DispatchTotal     uint64                  `json:"dispatch_total"`
	DispatchSuccess   uint64                  `json:"dispatch_success"`
	DispatchFailure   uint64                  `json:"dispatch_failure"`
	DispatchErrors    uint64                  `json:"dispatch_errors"`
	DispatchUnhandled uint64                  `json:"dispatch_unhandled"`
	ByCommandType     map[string]CommandStats `json:"by_command_type"`
}

type commandCounters struct {
	success   uint64
	failure   uint64
	errors    uint64
	unhandled uint64
	elapsed   time.Duration
}

type Recorder struct {
	mu     sync.Mutex
	byType map[string]*commandCounters
}

func NewRecorder() *Recorder {
	return &Recorder{
		byType: map[string]*commandCounters{},
	}
}

func (r *Recorder) counters(commandType string) *commandCounters {
	c, ok := r.byType[commandType]
	if !ok {
		c = &commandCounters{}
		r.byType[commandType] = c
	}
	return c
}

func (r *Recorder) RecordDispatch(commandType string, success bool, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.counters(commandType)
	if success {
		c.success++
	} else {
		c.failure++
	}
	c.elapsed += elapsed
}

func (r *Recorder) RecordUnhandled(commandType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters(commandType).unhandled++
}

func (r *Recorder) RecordError(commandType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters(commandType).errors++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{ByCommandType: make(map[string]CommandStats, len(r.byType))}
	for name, c := range r.byType {
		stats := CommandStats{
			Success:   c.success,
			Failure:   c.failure,
			Errors:    c.errors,
			Unhandled: c.unhandled,
			Total:     c.success + c.failure + c.errors + c.unhandled,
		}
		if done := c.success + c.failure; done > 0 {
			stats.AvgLatencyMs = float64(c.elapsed.Microseconds()) / 1000 / float64(done)
		}
		out.ByCommandType[name] = stats
		out.DispatchSuccess += stats.Success
		out.DispatchFailure += stats.Failure
		out.DispatchErrors += stats.Errors
		out.DispatchUnhandled += stats.Unhandled
		out.DispatchTotal += stats.Total
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

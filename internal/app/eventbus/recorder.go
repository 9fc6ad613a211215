package eventbus

import (
	"context"
	"sync"
)

// Recorder keeps every event it sees, in publish order.
type Recorder struct {
	mu     sync.Mutex
	events []any
}

func NewRecorder(b *Bus) *Recorder {
	r := &Recorder{}
	b.SubscribeAll(func(_ context.Context, event any) {
		r.mu.Lock()
		r.events = append(r.events, event)
		r.mu.Unlock()
	})
	return r
}

func (r *Recorder) Events() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// OfType filters recorded events by concrete type.
func OfType[E any](r *Recorder) []E {
	var out []E
	for _, evt := range r.Events() {
		if e, ok := evt.(E); ok {
			out = append(out, e)
		}
	}
	return out
}

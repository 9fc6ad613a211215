package commandbus

import (
	"context"
	"errors"
	"sync"
	"time"
)

type okCommand struct{ N int }

func (okCommand) CommandType() string { return "OkCommand" }

type failCommand struct{ Reason string }

func (failCommand) CommandType() string { return "FailCommand" }

type explodingCommand struct{}

func (explodingCommand) CommandType() string { return "ExplodingCommand" }

type unroutedCommand struct{}

func (unroutedCommand) CommandType() string { return "UnroutedCommand" }

var errHandlerExploded = errors.New("handler exploded")

type callCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *callCounter) hit(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[name]++
}

func (c *callCounter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func newTestDispatcher(counter *callCounter, publisher *stubPublisher, opts ...Option) *Dispatcher {
	d := NewDispatcher(publisher, opts...)
	MustRegister(d, HandlerFunc[okCommand](func(_ context.Context, cmd okCommand) (Result, error) {
		counter.hit("ok")
		return OkWith(map[string]any{"n": cmd.N}), nil
	}))
	MustRegister(d, HandlerFunc[failCommand](func(_ context.Context, cmd failCommand) (Result, error) {
		counter.hit("fail")
		return Fail(cmd.Reason), nil
	}))
	MustRegister(d, HandlerFunc[explodingCommand](func(context.Context, explodingCommand) (Result, error) {
		counter.hit("explode")
		return Result{}, errHandlerExploded
	}))
	return d
}

type stubPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *stubPublisher) Publish(_ context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *stubPublisher) executed() []CommandExecuted {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []CommandExecuted
	for _, e := range p.events {
		if ce, ok := e.(CommandExecuted); ok {
			out = append(out, ce)
		}
	}
	return out
}

type recordingTx struct {
	calls   int
	lastErr error
}

func (t *recordingTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	t.lastErr = fn(ctx)
	return t.lastErr
}

type stubMetrics struct {
	mu        sync.Mutex
	success   int
	failure   int
	unhandled []string
	errors    []string
	latencies []time.Duration
}

func (m *stubMetrics) RecordDispatch(_ string, success bool, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies = append(m.latencies, latency)
	if success {
		m.success++
	} else {
		m.failure++
	}
}

func (m *stubMetrics) RecordUnhandled(commandType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unhandled = append(m.unhandled, commandType)
}

func (m *stubMetrics) RecordError(commandType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, commandType)
}

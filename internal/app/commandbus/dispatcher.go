package commandbus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"worldharvest/internal/app/eventbus"
	"worldharvest/internal/app/ports"
	"worldharvest/internal/pkg/log"
)

var ErrDuplicateHandler = errors.New("duplicate command handler")

type handleFunc func(ctx context.Context, cmd Command) (Result, error)

// Dispatcher routes each command to the single handler registered for its
// type and publishes CommandExecuted after every success.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]handleFunc

	events  eventbus.Publisher
	tx      ports.TxManager
	metrics ports.DispatchMetrics
	logger  log.Logger
	now     func() time.Time
}

type Option func(*Dispatcher)

// WithTxManager lets transactional batches run inside one unit of work.
func WithTxManager(tx ports.TxManager) Option {
	return func(d *Dispatcher) { d.tx = tx }
}

func WithMetrics(m ports.DispatchMetrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithLogger(l log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

func NewDispatcher(events eventbus.Publisher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: map[string]handleFunc{},
		events:   events,
		logger:   log.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register binds h to the command type C. Registering a second handler for
// the same type is a configuration error.
func Register[C Command](d *Dispatcher, h Handler[C]) error {
	var zero C
	commandType := zero.CommandType()

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.handlers[commandType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, commandType)
	}
	d.handlers[commandType] = func(ctx context.Context, cmd Command) (Result, error) {
		typed, ok := cmd.(C)
		if !ok {
			return Result{}, fmt.Errorf("command %s has unexpected Go type %T", commandType, cmd)
		}
		return h.Handle(ctx, typed)
	}
	return nil
}

func MustRegister[C Command](d *Dispatcher, h Handler[C]) {
	if err := Register(d, h); err != nil {
		panic(err)
	}
}

// RegisteredTypes lists the command types with a handler, sorted.
func (d *Dispatcher) RegisteredTypes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (d *Dispatcher) lookup(commandType string) (handleFunc, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.handlers[commandType]
	return h, ok
}

// Dispatch runs cmd through its handler. Missing handlers produce a failed
// result; handler errors are returned untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	commandType := "<nil>"
	if cmd != nil {
		commandType = cmd.CommandType()
	}
	h, ok := d.lookup(commandType)
	if !ok {
		d.logger.Warn("no handler registered", "command_type", commandType)
		if d.metrics != nil {
			d.metrics.RecordUnhandled(commandType)
		}
		return Failf("No handler registered for %s", commandType), nil
	}

	startedAt := d.now()
	res, err := h(ctx, cmd)
	if err != nil {
		d.logger.Error(err, "command handler failed", "command_type", commandType)
		if d.metrics != nil {
			d.metrics.RecordError(commandType)
		}
		return Result{}, err
	}
	if d.metrics != nil {
		d.metrics.RecordDispatch(commandType, res.Success, d.now().Sub(startedAt))
	}
	if !res.Success {
		d.logger.Debug("command rejected", "command_type", commandType, "reason", res.ErrorMessage)
		return res, nil
	}

	// The handler has already applied its changes, so the notification must
	// go out even if the caller gives up now.
	if d.events != nil {
		if err := d.events.Publish(context.WithoutCancel(ctx), CommandExecuted{CommandType: commandType, Command: cmd}); err != nil {
			return res, fmt.Errorf("publish command executed: %w", err)
		}
	}
	return res, nil
}

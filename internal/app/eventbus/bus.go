package eventbus

import (
	"context"
	"sync"
)

// Publisher is what command handlers depend on.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

type subscription struct {
	id      uint64
	deliver func(ctx context.Context, event any) bool
}

// Bus is an in-process, synchronous publish/subscribe channel. Subscribers
// run on the publishing goroutine in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers fn for every published event whose concrete type is E.
// The returned func removes the subscription.
func Subscribe[E any](b *Bus, fn func(ctx context.Context, event E)) (unsubscribe func()) {
	return b.subscribe(func(ctx context.Context, event any) bool {
		e, ok := event.(E)
		if !ok {
			return false
		}
		fn(ctx, e)
		return true
	})
}

// SubscribeAll registers fn for every event regardless of type.
func (b *Bus) SubscribeAll(fn func(ctx context.Context, event any)) (unsubscribe func()) {
	return b.subscribe(func(ctx context.Context, event any) bool {
		fn(ctx, event)
		return true
	})
}

func (b *Bus) subscribe(deliver func(ctx context.Context, event any) bool) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, deliver: deliver})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers event to the matching subscribers. It fails only when ctx
// is already done; a publish with no subscribers is not an error.
func (b *Bus) Publish(ctx context.Context, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.deliver(ctx, event)
	}
	return nil
}

package eventbus

import (
	"context"
	"errors"
	"testing"
)

type nodeSpawned struct{ ID string }
type nodeRemoved struct{ ID string }

func TestSubscribe_FiltersByConcreteType(t *testing.T) {
	b := New()
	var spawned []string
	var removed []string
	Subscribe(b, func(_ context.Context, e nodeSpawned) { spawned = append(spawned, e.ID) })
	Subscribe(b, func(_ context.Context, e nodeRemoved) { removed = append(removed, e.ID) })

	ctx := context.Background()
	if err := b.Publish(ctx, nodeSpawned{ID: "a"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := b.Publish(ctx, nodeRemoved{ID: "b"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := b.Publish(ctx, nodeSpawned{ID: "c"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(spawned) != 2 || spawned[0] != "a" || spawned[1] != "c" {
		t.Fatalf("unexpected spawned: %v", spawned)
	}
	if len(removed) != 1 || removed[0] != "b" {
		t.Fatalf("unexpected removed: %v", removed)
	}
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	unsubscribe := Subscribe(b, func(context.Context, nodeSpawned) { calls++ })

	_ = b.Publish(context.Background(), nodeSpawned{})
	unsubscribe()
	unsubscribe()
	_ = b.Publish(context.Background(), nodeSpawned{})

	if calls != 1 {
		t.Fatalf("expected 1 delivery, got %d", calls)
	}
}

func TestPublish_CancelledContextDeliversNothing(t *testing.T) {
	b := New()
	calls := 0
	Subscribe(b, func(context.Context, nodeSpawned) { calls++ })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.Publish(ctx, nodeSpawned{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no delivery, got %d", calls)
	}
}

func TestRecorder_OfType(t *testing.T) {
	b := New()
	rec := NewRecorder(b)
	_ = b.Publish(context.Background(), nodeSpawned{ID: "a"})
	_ = b.Publish(context.Background(), nodeRemoved{ID: "b"})

	if got := len(rec.Events()); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
	removed := OfType[nodeRemoved](rec)
	if len(removed) != 1 || removed[0].ID != "b" {
		t.Fatalf("unexpected removed events: %v", removed)
	}
	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Fatalf("expected reset recorder to be empty")
	}
}

// Package memory is a table-backed ports.ActorProvider for the server and tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"worldharvest/internal/app/ports"
	"worldharvest/internal/domain/resourcenode"
)

type Actor struct {
	ID           string
	EquippedTool string
	Area         string
	Position     resourcenode.Position
}

type Provider struct {
	mu     sync.RWMutex
	actors map[string]Actor
}

func NewProvider(actors ...Actor) *Provider {
	p := &Provider{actors: make(map[string]Actor, len(actors))}
	for _, a := range actors {
		p.Put(a)
	}
	return p
}

// Put inserts or replaces an actor.
func (p *Provider) Put(a Actor) {
	a.ID = strings.TrimSpace(a.ID)
	p.mu.Lock()
	p.actors[a.ID] = a
	p.mu.Unlock()
}

func (p *Provider) Equip(actorID, tool string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := strings.TrimSpace(actorID)
	a, ok := p.actors[id]
	if !ok {
		return ports.ErrNotFound
	}
	a.EquippedTool = tool
	p.actors[id] = a
	return nil
}

func (p *Provider) EquippedTool(_ context.Context, actorID string) (string, error) {
	a, err := p.get(actorID)
	if err != nil {
		return "", err
	}
	return a.EquippedTool, nil
}

func (p *Provider) Location(_ context.Context, actorID string) (string, resourcenode.Position, error) {
	a, err := p.get(actorID)
	if err != nil {
		return "", resourcenode.Position{}, err
	}
	return a.Area, a.Position, nil
}

func (p *Provider) get(actorID string) (Actor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a, ok := p.actors[strings.TrimSpace(actorID)]
	if !ok {
		return Actor{}, ports.ErrNotFound
	}
	return a, nil
}

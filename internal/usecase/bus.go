package usecase

import (
	"context"
	"sync"
)

// SelectionChanged is published once per competition season selection.
type SelectionChanged struct {
	CompetitionID string
	SeasonID      string
}

// MatchChosen is published once per match selection.
type MatchChosen struct {
	MatchID string
}

// Bus delivers page events synchronously, in subscription order. Handlers
// that do I/O hand it to the page Runner and return.
type Bus struct {
	mu        sync.RWMutex
	selection []func(context.Context, SelectionChanged)
	chosen    []func(context.Context, MatchChosen)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) OnSelectionChanged(handler func(context.Context, SelectionChanged)) {
	b.mu.Lock()
	b.selection = append(b.selection, handler)
	b.mu.Unlock()
}

func (b *Bus) OnMatchChosen(handler func(context.Context, MatchChosen)) {
	b.mu.Lock()
	b.chosen = append(b.chosen, handler)
	b.mu.Unlock()
}

func (b *Bus) PublishSelectionChanged(ctx context.Context, event SelectionChanged) {
	b.mu.RLock()
	handlers := append([]func(context.Context, SelectionChanged)(nil), b.selection...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}
}

func (b *Bus) PublishMatchChosen(ctx context.Context, event MatchChosen) {
	b.mu.RLock()
	handlers := append([]func(context.Context, MatchChosen)(nil), b.chosen...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}
}

package binding

import (
	"context"
	"sync"
)

// ChangeBus carries coarse "something in this table changed" events. The
// binding publishes after every successful mutation and watchers re-resolve
// their record list on every event for their table.
type ChangeBus interface {
	Publish(ctx context.Context, table string) error
	// Subscribe registers fn for events on table and returns an unsubscribe
	// func. fn may be called from any goroutine.
	Subscribe(table string, fn func()) (func(), error)
}

// LocalBus is the in-process ChangeBus used when no redis address is
// configured. It keeps single-node deployments fully reactive.
type LocalBus struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]func()
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[string]map[int]func())}
}

func (b *LocalBus) Publish(_ context.Context, table string) error {
	b.mu.RLock()
	fns := make([]func(), 0, len(b.subs[table]))
	for _, fn := range b.subs[table] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
	return nil
}

func (b *LocalBus) Subscribe(table string, fn func()) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[table] == nil {
		b.subs[table] = make(map[int]func())
	}
	id := b.next
	b.next++
	b.subs[table][id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[table], id)
	}, nil
}

package identity

import (
	"sync"

	"courtside/internal/domain"
)

// Broadcaster fans auth-state changes out to subscribers. A new subscriber
// is called synchronously with the current identity, mirroring how the
// original auth observer fires on attach.
type Broadcaster struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]func(*domain.Identity)
	current *domain.Identity
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]func(*domain.Identity))}
}

// Subscribe registers fn and returns its unsubscribe function. Unsubscribe
// stops future deliveries; a Publish that snapshotted the subscriber list
// before unsubscribe ran may still invoke fn once, so subscribers keep their
// own teardown guard (see DashboardShell's mounted flag).
func (b *Broadcaster) Subscribe(fn func(*domain.Identity)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	current := b.current
	b.mu.Unlock()

	fn(current)

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish records identity as the current auth state and notifies every
// subscriber. A nil identity means signed out.
func (b *Broadcaster) Publish(identity *domain.Identity) {
	b.mu.Lock()
	b.current = identity
	fns := make([]func(*domain.Identity), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

// Current returns the last published identity, nil when signed out.
func (b *Broadcaster) Current() *domain.Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

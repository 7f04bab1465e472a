package lifecycle

import (
	"sync"
	"time"
)

// Broadcaster is a concrete Notifier that fans lifecycle events out to every
// subscribed listener. A host HTTP client embeds one and calls Started and
// Finished from its request path; listeners are invoked synchronously, so
// they are expected to hand the event off and return immediately.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{listeners: make(map[int]Listener)}
}

// Subscribe implements Notifier. The returned cancel function removes the
// listener and is idempotent.
func (b *Broadcaster) Subscribe(l Listener) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Started implements Publisher, delivering a start event to all listeners.
func (b *Broadcaster) Started(ev StartEvent) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	for _, l := range b.snapshot() {
		l.RequestStarted(ev)
	}
}

// Finished implements Publisher, delivering a finish event to all listeners.
func (b *Broadcaster) Finished(ev FinishEvent) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	for _, l := range b.snapshot() {
		l.RequestFinished(ev)
	}
}

// ListenerCount returns the number of active subscriptions.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

func (b *Broadcaster) snapshot() []Listener {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		out = append(out, l)
	}
	return out
}

package fetch

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a fetch that a newer fetch of the same key replaced.
var ErrSuperseded = errors.New("superseded by a newer request")

type inflight struct {
	generation uint64
	cancel     context.CancelFunc
}

// Tracker orders fetches per key, e.g. one session's seat map. Beginning a
// fetch cancels the one in flight for the same key, and only the newest
// generation may publish its result.
type Tracker struct {
	mu      sync.Mutex
	counter uint64
	keys    map[string]inflight
}

func NewTracker() *Tracker {
	return &Tracker{keys: make(map[string]inflight)}
}

type Ticket struct {
	tracker    *Tracker
	key        string
	generation uint64
	cancel     context.CancelFunc
}

func (t *Tracker) Begin(parent context.Context, key string) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.keys[key]; ok {
		prev.cancel()
	}
	t.counter++
	t.keys[key] = inflight{generation: t.counter, cancel: cancel}

	return ctx, &Ticket{tracker: t, key: key, generation: t.counter, cancel: cancel}
}

// Current reports whether no newer fetch of the same key has begun.
func (tk *Ticket) Current() bool {
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()

	cur, ok := tk.tracker.keys[tk.key]
	return ok && cur.generation == tk.generation
}

// Commit runs publish only while the ticket is current, holding the tracker
// lock so a newer Begin cannot interleave.
func (tk *Ticket) Commit(publish func()) error {
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()

	cur, ok := tk.tracker.keys[tk.key]
	if !ok || cur.generation != tk.generation {
		return ErrSuperseded
	}
	publish()
	return nil
}

// Done releases the ticket. It must be called once the fetch finished.
func (tk *Ticket) Done() {
	tk.cancel()

	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()

	if cur, ok := tk.tracker.keys[tk.key]; ok && cur.generation == tk.generation {
		delete(tk.tracker.keys, tk.key)
	}
}

func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.keys)
}

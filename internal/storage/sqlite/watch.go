package sqlite

import (
	"strings"
	"sync"

	"github.com/mmynk/gamemate/internal/storage"
)

// watchHub fans committed changes out to in-process subscribers.
type watchHub struct {
	mu   sync.Mutex
	next int
	subs map[int]subscription
}

type subscription struct {
	path     string
	onChange func(storage.Change)
}

func newWatchHub() *watchHub {
	return &watchHub{subs: make(map[int]subscription)}
}

func (h *watchHub) subscribe(path string, onChange func(storage.Change)) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = subscription{path: path, onChange: onChange}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// notify delivers change to every matching subscriber. Callbacks run
// outside the lock so they may subscribe or unsubscribe.
func (h *watchHub) notify(change storage.Change) {
	h.mu.Lock()
	var targets []func(storage.Change)
	for _, sub := range h.subs {
		if covers(sub.path, change.Path) {
			targets = append(targets, sub.onChange)
		}
	}
	h.mu.Unlock()

	for _, fn := range targets {
		fn(change)
	}
}

// covers reports whether a watch on watched sees writes to changed.
func covers(watched, changed string) bool {
	return changed == watched || strings.HasPrefix(changed, watched+"/")
}

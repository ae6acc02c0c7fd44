// internal/session/session.go
//
// Stateful wrapper around one game's immutable state.
// Responsibilities:
//   - Own the current game.State and apply pure transitions to it.
//   - Fan out every successful transition to subscribers, in subscription
//     order.
//   - Track the creation time used for TTL eviction.
//
// Concurrency: a mutex serializes Apply/Subscribe/Close, so each operation
// is atomic with respect to the others. Notification runs over a snapshot of
// the subscriber list taken under the lock; a subscriber added during a
// delivery pass is not notified for that same event, and unsubscribing
// mid-pass is safe. Callbacks run outside the lock and must not block.

package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/guessroom/guessroom/internal/game"
)

// Session wraps one game behind a change-notification API.
type Session struct {
	created time.Time

	mu     sync.Mutex
	state  game.State
	closed bool
	subs   []*subscriber
}

type subscriber struct {
	onChange func(game.State)
	onClose  func()
	removed  atomic.Bool
}

// New wraps an initialized game state. created feeds TTL bookkeeping.
func New(initial game.State, created time.Time) *Session {
	return &Session{created: created, state: initial}
}

// CreatedAt reports when the session was registered.
func (s *Session) CreatedAt() time.Time { return s.created }

// State returns the current state snapshot. Snapshots are immutable values
// and safe to read after later transitions.
func (s *Session) State() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply runs fn against the current state. On success the returned state
// replaces the current one and every subscriber is notified with it; on
// failure nothing changes and no notification fires.
func (s *Session) Apply(fn func(game.State) (game.State, error)) (game.State, error) {
	s.mu.Lock()
	next, err := fn(s.state)
	if err != nil {
		s.mu.Unlock()
		return game.State{}, err
	}
	s.state = next
	snapshot := make([]*subscriber, len(s.subs))
	copy(snapshot, s.subs)
	s.mu.Unlock()

	for _, sub := range snapshot {
		if !sub.removed.Load() {
			sub.onChange(next)
		}
	}
	return next, nil
}

// Subscribe registers a subscriber and immediately delivers the current
// state, so late joiners see the present position rather than only future
// changes. The returned function removes the subscriber and invokes
// onClose; it is idempotent and safe to call from a connection-teardown
// path while a delivery pass is in flight.
func (s *Session) Subscribe(onChange func(game.State), onClose func()) func() {
	sub := &subscriber{onChange: onChange, onClose: onClose}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		onClose()
		return func() {}
	}
	s.subs = append(s.subs, sub)
	current := s.state
	s.mu.Unlock()

	onChange(current)

	return func() {
		if sub.removed.Swap(true) {
			return
		}
		s.mu.Lock()
		for i, candidate := range s.subs {
			if candidate == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		onClose()
	}
}

// Close invokes onClose for every remaining subscriber and clears the set.
// Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		if !sub.removed.Swap(true) {
			sub.onClose()
		}
	}
}

// Subscribers reports the current subscriber count.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

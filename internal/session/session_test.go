package session

import (
	"errors"
	"testing"
	"time"

	"github.com/guessroom/guessroom/internal/game"
)

func dict(w string) bool {
	switch w {
	case "board", "crane":
		return true
	}
	return false
}

func newSession(t *testing.T) *Session {
	t.Helper()
	st, err := game.Initialize(dict, "board")
	if err != nil {
		t.Fatal(err)
	}
	return New(st, time.Now())
}

func TestSubscribeDeliversCurrentState(t *testing.T) {
	s := newSession(t)
	var got []game.State
	s.Subscribe(func(st game.State) { got = append(got, st) }, func() {})
	if len(got) != 1 {
		t.Fatalf("immediate deliveries = %d, want 1", len(got))
	}
	if got[0].Phase != game.PhaseInitialized {
		t.Errorf("delivered phase = %s", got[0].Phase)
	}
}

func TestApplyNotifiesInSubscriptionOrder(t *testing.T) {
	s := newSession(t)
	var order []string
	s.Subscribe(func(st game.State) {
		if st.Phase != game.PhaseInitialized {
			order = append(order, "first")
		}
	}, func() {})
	s.Subscribe(func(st game.State) {
		if st.Phase != game.PhaseInitialized {
			order = append(order, "second")
		}
	}, func() {})

	_, err := s.Apply(func(st game.State) (game.State, error) {
		return game.AddPlayer(st, "p1", "Ann")
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("delivery order = %v", order)
	}
}

func TestApplyFailureDoesNotNotify(t *testing.T) {
	s := newSession(t)
	notified := 0
	s.Subscribe(func(game.State) { notified++ }, func() {})
	notified = 0 // ignore the immediate delivery

	_, err := s.Apply(func(st game.State) (game.State, error) {
		return game.Start(st) // fails: no players
	})
	if err == nil {
		t.Fatal("expected NOT_ENOUGH_PLAYERS")
	}
	if notified != 0 {
		t.Errorf("failed transition notified %d subscribers", notified)
	}
	if s.State().Phase != game.PhaseInitialized {
		t.Error("failed transition changed state")
	}
}

// A subscriber registered from inside a delivery callback sees its own
// immediate delivery but not the event that was already in flight.
func TestNoReentrantDelivery(t *testing.T) {
	s := newSession(t)
	lateDeliveries := 0
	s.Subscribe(func(st game.State) {
		if st.Phase == game.PhaseInitialized {
			return // immediate delivery at subscribe time
		}
		s.Subscribe(func(game.State) { lateDeliveries++ }, func() {})
	}, func() {})

	_, err := s.Apply(func(st game.State) (game.State, error) {
		return game.AddPlayer(st, "p1", "Ann")
	})
	if err != nil {
		t.Fatal(err)
	}
	if lateDeliveries != 1 {
		t.Errorf("late subscriber deliveries = %d, want only the immediate one", lateDeliveries)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	s := newSession(t)
	closes := 0
	unsubscribe := s.Subscribe(func(game.State) {}, func() { closes++ })
	unsubscribe()
	unsubscribe()
	if closes != 1 {
		t.Errorf("onClose ran %d times, want 1", closes)
	}
	if s.Subscribers() != 0 {
		t.Errorf("subscribers = %d after unsubscribe", s.Subscribers())
	}

	// An unsubscribed subscriber receives no further events.
	delivered := 0
	s.Subscribe(func(game.State) { delivered++ }, func() {})
	if _, err := s.Apply(func(st game.State) (game.State, error) {
		return game.AddPlayer(st, "p1", "Ann")
	}); err != nil {
		t.Fatal(err)
	}
	if delivered != 2 { // immediate + one change
		t.Errorf("deliveries = %d, want 2", delivered)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := newSession(t)
	closes := 0
	s.Subscribe(func(game.State) {}, func() { closes++ })
	s.Subscribe(func(game.State) {}, func() { closes++ })
	s.Close()
	s.Close()
	if closes != 2 {
		t.Errorf("onClose calls = %d, want 2", closes)
	}

	// Subscribing to a closed session terminates the subscriber right away.
	lateCloses := 0
	unsubscribe := s.Subscribe(func(game.State) {}, func() { lateCloses++ })
	unsubscribe()
	if lateCloses != 1 {
		t.Errorf("late subscriber onClose calls = %d, want 1", lateCloses)
	}
}

func TestApplyPropagatesTransitionError(t *testing.T) {
	s := newSession(t)
	_, err := s.Apply(func(st game.State) (game.State, error) {
		return game.SubmitGuess(dict, st, "p1", "crane")
	})
	var gerr *game.Error
	if !errors.As(err, &gerr) || gerr.Code != game.CodeNotStarted {
		t.Fatalf("err = %v, want NOT_STARTED", err)
	}
}

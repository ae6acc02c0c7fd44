package game

import (
	"errors"
	"testing"
)

var testWords = map[string]struct{}{
	"board": {}, "crane": {}, "trace": {}, "stare": {}, "ally": {},
	"finch": {}, "mound": {}, "pious": {},
}

func testDict(w string) bool {
	_, ok := testWords[w]
	return ok
}

func wantCode(t *testing.T, err error, code Code) {
	t.Helper()
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected game error %s, got %v", code, err)
	}
	if gerr.Code != code {
		t.Fatalf("error code = %s, want %s", gerr.Code, code)
	}
}

func mustInit(t *testing.T, word string) State {
	t.Helper()
	s, err := Initialize(testDict, word)
	if err != nil {
		t.Fatalf("Initialize(%q): %v", word, err)
	}
	return s
}

func TestInitialize(t *testing.T) {
	s := mustInit(t, "BOARD")
	if s.Phase != PhaseInitialized {
		t.Errorf("phase = %s, want %s", s.Phase, PhaseInitialized)
	}
	if s.Word != "board" {
		t.Errorf("word = %q, want normalized %q", s.Word, "board")
	}
	if len(s.Players) != 0 {
		t.Errorf("new game has %d players", len(s.Players))
	}

	for _, bad := range []string{"", "zzzzz", "bo4rd", "bo rd"} {
		_, err := Initialize(testDict, bad)
		wantCode(t, err, CodeInvalidWord)
	}
}

func TestAddPlayerOnlyBeforeStart(t *testing.T) {
	s := mustInit(t, "board")
	s, err := AddPlayer(s, "p1", "Ann")
	if err != nil {
		t.Fatal(err)
	}
	started, err := Start(s)
	if err != nil {
		t.Fatal(err)
	}
	_, err = AddPlayer(started, "p2", "Ben")
	wantCode(t, err, CodeAlreadyStarted)
}

func TestStartRequiresPlayers(t *testing.T) {
	s := mustInit(t, "board")
	_, err := Start(s)
	wantCode(t, err, CodeNotEnoughPlayers)

	s, _ = AddPlayer(s, "p1", "Ann")
	started, err := Start(s)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Start(started)
	wantCode(t, err, CodeAlreadyStarted)
}

// End-to-end scenario: one player wins on the first guess and the game
// finishes immediately.
func TestSinglePlayerWinFlow(t *testing.T) {
	s := mustInit(t, "board")
	s, _ = AddPlayer(s, "p1", "Ann")
	s, err := Start(s)
	if err != nil {
		t.Fatal(err)
	}
	s, err = SubmitGuess(testDict, s, "p1", "board")
	if err != nil {
		t.Fatal(err)
	}
	p := s.Players["p1"]
	if !p.Complete {
		t.Error("player should be complete after all-hit guess")
	}
	if len(p.Guesses) != 1 || !allHit(p.Guesses[0]) {
		t.Errorf("expected one all-hit guess, got %v", p.Guesses)
	}
	if s.Phase != PhaseFinished {
		t.Errorf("phase = %s, want %s", s.Phase, PhaseFinished)
	}
}

func allHit(g Guess) bool {
	for _, c := range g {
		if c.Result != MarkHit {
			return false
		}
	}
	return true
}

func TestGuessBeforeStart(t *testing.T) {
	s := mustInit(t, "board")
	s, _ = AddPlayer(s, "p1", "Ann")
	_, err := SubmitGuess(testDict, s, "p1", "crane")
	wantCode(t, err, CodeNotStarted)
	// State untouched on failure.
	if len(s.Players["p1"].Guesses) != 0 {
		t.Error("failed transition appended a guess")
	}
}

func TestSubmitGuessValidation(t *testing.T) {
	s := mustInit(t, "board")
	s, _ = AddPlayer(s, "p1", "Ann")
	s, _ = Start(s)

	_, err := SubmitGuess(testDict, s, "ghost", "crane")
	wantCode(t, err, CodePlayerNotRegistered)

	_, err = SubmitGuess(testDict, s, "p1", "zzzzz")
	wantCode(t, err, CodeInvalidWord)

	// Dictionary word of the wrong length is still invalid for this game.
	_, err = SubmitGuess(testDict, s, "p1", "ally")
	wantCode(t, err, CodeInvalidWord)
}

func TestDuplicateGuessRejected(t *testing.T) {
	s := mustInit(t, "board")
	s, _ = AddPlayer(s, "p1", "Ann")
	s, _ = Start(s)

	s, err := SubmitGuess(testDict, s, "p1", "crane")
	if err != nil {
		t.Fatal(err)
	}
	_, err = SubmitGuess(testDict, s, "p1", "crane")
	wantCode(t, err, CodeAlreadyGuessed)

	// Case variants count as the same guess.
	_, err = SubmitGuess(testDict, s, "p1", "CRANE")
	wantCode(t, err, CodeAlreadyGuessed)

	if got := len(s.Players["p1"].Guesses); got != 1 {
		t.Errorf("guess history length = %d, want 1", got)
	}
}

// Two players: the game only finishes once every player is complete, the
// phase never regresses, and finished players cannot keep guessing.
func TestMultiplayerFinishInvariant(t *testing.T) {
	s := mustInit(t, "board")
	s, _ = AddPlayer(s, "p1", "Ann")
	s, _ = AddPlayer(s, "p2", "Ben")
	s, _ = Start(s)

	s, err := SubmitGuess(testDict, s, "p1", "board")
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseStarted {
		t.Fatalf("phase = %s after first completion, want %s", s.Phase, PhaseStarted)
	}

	_, err = SubmitGuess(testDict, s, "p1", "crane")
	wantCode(t, err, CodePlayerAlreadyFinished)

	s, err = SubmitGuess(testDict, s, "p2", "board")
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseFinished {
		t.Fatalf("phase = %s after all complete, want %s", s.Phase, PhaseFinished)
	}
	if !allComplete(s.Players) {
		t.Error("finished game has incomplete players")
	}

	_, err = SubmitGuess(testDict, s, "p2", "crane")
	wantCode(t, err, CodeAlreadyFinished)
}

// Transitions must never mutate their input state.
func TestTransitionsAreImmutable(t *testing.T) {
	base := mustInit(t, "board")
	withPlayer, _ := AddPlayer(base, "p1", "Ann")
	if len(base.Players) != 0 {
		t.Error("AddPlayer mutated input state")
	}

	started, _ := Start(withPlayer)
	if withPlayer.Phase != PhaseInitialized {
		t.Error("Start mutated input state")
	}

	_, err := SubmitGuess(testDict, started, "p1", "crane")
	if err != nil {
		t.Fatal(err)
	}
	if len(started.Players["p1"].Guesses) != 0 {
		t.Error("SubmitGuess mutated input state")
	}
}

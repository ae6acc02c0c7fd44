// internal/game/state.go
//
// Pure state machine for one game.
// Responsibilities:
//   - Hold the immutable per-game state value (phase, secret word, players).
//   - Provide the transitions: Initialize, AddPlayer, Start, SubmitGuess.
//
// Every successful transition returns a freshly built State; no transition
// mutates its input, so a previously emitted snapshot stays safe to read
// concurrently. Expected failures come back as *Error values; nothing here
// panics or blocks.

package game

import "strings"

// Phase is the lifecycle stage of a game. It only ever moves forward:
// INITIALIZED -> STARTED -> FINISHED.
type Phase string

const (
	PhaseInitialized Phase = "INITIALIZED"
	PhaseStarted     Phase = "STARTED"
	PhaseFinished    Phase = "FINISHED"
)

// Player is one participant's progress within a game.
type Player struct {
	Name     string  `json:"name"`
	Guesses  []Guess `json:"guesses"` // submission order
	Complete bool    `json:"complete"`
}

// State is the immutable value describing one game at a point in time.
type State struct {
	Phase   Phase
	Word    string // secret word, lowercase, fixed at creation
	Players map[string]Player
}

// Dictionary answers whether a lowercase alphabetic string is a legal word.
type Dictionary func(word string) bool

// Initialize creates a fresh game around word. The word must be a non-empty
// lowercase-normalizable alphabetic string present in the dictionary.
func Initialize(dict Dictionary, word string) (State, error) {
	word = normalize(word)
	if word == "" || !isAlpha(word) || !dict(word) {
		return State{}, errInvalidWord(word)
	}
	return State{Phase: PhaseInitialized, Word: word, Players: map[string]Player{}}, nil
}

// AddPlayer registers (or re-registers) a player. Players can only join
// before the game starts.
func AddPlayer(s State, playerID, name string) (State, error) {
	if s.Phase != PhaseInitialized {
		return State{}, errAlreadyStarted()
	}
	next := s.clone()
	next.Players[playerID] = Player{Name: name, Guesses: []Guess{}}
	return next, nil
}

// Start moves the game from INITIALIZED to STARTED. At least one player must
// have joined.
func Start(s State) (State, error) {
	if s.Phase != PhaseInitialized {
		return State{}, errAlreadyStarted()
	}
	if len(s.Players) == 0 {
		return State{}, errNotEnoughPlayers()
	}
	next := s.clone()
	next.Phase = PhaseStarted
	return next, nil
}

// SubmitGuess scores word for playerID and appends the result to their
// history. A player whose guess is all hits is complete; once every player
// is complete the game is FINISHED.
//
// Guesses are lowercased before the duplicate check, so case variants of an
// earlier guess are rejected as ALREADY_GUESSED.
func SubmitGuess(dict Dictionary, s State, playerID, word string) (State, error) {
	if s.Phase == PhaseInitialized {
		return State{}, errNotStarted()
	}
	if s.Phase == PhaseFinished {
		return State{}, errAlreadyFinished()
	}
	player, ok := s.Players[playerID]
	if !ok {
		return State{}, errPlayerNotRegistered()
	}
	if player.Complete {
		return State{}, errPlayerAlreadyFinished()
	}
	word = normalize(word)
	if len([]rune(word)) != len([]rune(s.Word)) || !isAlpha(word) || !dict(word) {
		return State{}, errInvalidWord(word)
	}
	for _, g := range player.Guesses {
		if g.Word() == word {
			return State{}, errAlreadyGuessed()
		}
	}

	scored, err := Score(s.Word, word)
	if err != nil {
		// Unreachable after the validation above; surface as-is so it maps
		// to an internal error rather than a game code.
		return State{}, err
	}

	next := s.clone()
	p := next.Players[playerID]
	guesses := make([]Guess, 0, len(p.Guesses)+1)
	guesses = append(guesses, p.Guesses...)
	p.Guesses = append(guesses, scored.Result)
	p.Complete = scored.Match
	next.Players[playerID] = p
	if allComplete(next.Players) {
		next.Phase = PhaseFinished
	}
	return next, nil
}

// clone copies the state one level deep. Player values are copied by value;
// their guess slices are shared with the source, which is safe because a
// scored Guess is never mutated after creation.
func (s State) clone() State {
	players := make(map[string]Player, len(s.Players))
	for id, p := range s.Players {
		players[id] = p
	}
	return State{Phase: s.Phase, Word: s.Word, Players: players}
}

func allComplete(players map[string]Player) bool {
	if len(players) == 0 {
		return false
	}
	for _, p := range players {
		if !p.Complete {
			return false
		}
	}
	return true
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

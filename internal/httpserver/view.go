// internal/httpserver/view.go
//
// Per-viewer projection of a game state for transmission.
// The viewer's own entry is flagged "me" and keeps its letters; everyone
// else's guesses keep their classifications but have the letters blanked,
// so opponents and spectators see color-coded progress without the words.
// The secret word never leaves the server; only its length does.

package httpserver

import "github.com/guessroom/guessroom/internal/game"

// playerView is one player's redacted entry.
type playerView struct {
	Name     string       `json:"name"`
	Me       bool         `json:"me"`
	Complete bool         `json:"complete"`
	Guesses  []game.Guess `json:"guesses"`
}

// stateView is the wire form of a game state, projected for one viewer.
type stateView struct {
	State   game.Phase            `json:"state"`
	Length  int                   `json:"length"`
	Players map[string]playerView `json:"players"`
}

// redact projects st for viewerID.
func redact(st game.State, viewerID string) stateView {
	players := make(map[string]playerView, len(st.Players))
	for id, p := range st.Players {
		view := playerView{Name: p.Name, Complete: p.Complete, Guesses: p.Guesses}
		if id == viewerID {
			view.Me = true
		} else {
			view.Guesses = blankGuesses(p.Guesses)
		}
		players[id] = view
	}
	return stateView{
		State:   st.Phase,
		Length:  len([]rune(st.Word)),
		Players: players,
	}
}

// blankGuesses copies the guess history with letters removed. The source
// slices are shared with live state and must not be written to.
func blankGuesses(guesses []game.Guess) []game.Guess {
	out := make([]game.Guess, len(guesses))
	for i, g := range guesses {
		blanked := make(game.Guess, len(g))
		for j, c := range g {
			blanked[j] = game.CharacterResult{Character: "", Result: c.Result}
		}
		out[i] = blanked
	}
	return out
}

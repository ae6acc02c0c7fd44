// internal/game/score.go
//
// Letter scoring for a single guess against the secret word.
// Responsibilities:
//   - Classify every guess letter as HIT, KNOWN or UNKNOWN.
//   - Respect letter multiplicity: a letter in the secret word is consumed
//     exactly once across the whole guess, hits first.
//
// Notes:
//   - Score is a pure function; identical inputs always yield identical
//     output.
//   - Length/emptiness violations are programming errors (callers validate
//     word length upstream), reported as plain errors rather than *Error.

package game

import "errors"

// Mark is the evaluation result for a single letter in a guess.
type Mark string

const (
	// MarkHit: correct letter in the correct position.
	MarkHit Mark = "HIT"
	// MarkKnown: letter occurs elsewhere in the secret word and its
	// occurrence count is not yet exhausted.
	MarkKnown Mark = "KNOWN"
	// MarkUnknown: letter has no remaining unmatched occurrence.
	MarkUnknown Mark = "UNKNOWN"
)

// CharacterResult pairs one guessed letter with its classification.
type CharacterResult struct {
	Character string `json:"character"`
	Result    Mark   `json:"result"`
}

// Guess is the scored form of one submitted word, in letter order.
type Guess []CharacterResult

// Word reassembles the plain guessed word from its letters.
func (g Guess) Word() string {
	var b []byte
	for _, c := range g {
		b = append(b, c.Character...)
	}
	return string(b)
}

// ScoreResult is the outcome of scoring one guess.
type ScoreResult struct {
	Match  bool  // true iff every letter is a hit
	Result Guess // per-letter classification, same length as the guess
}

// Score classifies guess against word using two passes over a map of
// letter -> remaining source positions.
//
// Pass 1 resolves hits: a guess letter standing on one of its own source
// positions consumes exactly that position.
//
// Pass 2 resolves the rest: a letter with any source position left consumes
// one and becomes KNOWN; otherwise it is UNKNOWN.
//
// All hits must be consumed before any KNOWN is awarded, otherwise a
// duplicated guess letter could steal the position a later hit needs
// (secret "ally", guess "lyla" style cases).
func Score(word, guess string) (ScoreResult, error) {
	wordRunes := []rune(word)
	guessRunes := []rune(guess)
	if len(wordRunes) == 0 {
		return ScoreResult{}, errors.New("score: word must not be empty")
	}
	if len(wordRunes) != len(guessRunes) {
		return ScoreResult{}, errors.New("score: word and guess must have the same length")
	}

	// Letter -> set of positions in the secret word still available.
	remaining := make(map[rune]map[int]struct{}, len(wordRunes))
	for i, r := range wordRunes {
		set := remaining[r]
		if set == nil {
			set = make(map[int]struct{})
			remaining[r] = set
		}
		set[i] = struct{}{}
	}

	result := make(Guess, len(guessRunes))
	for i, r := range guessRunes {
		result[i] = CharacterResult{Character: string(r), Result: MarkUnknown}
	}

	// First pass: exact positions.
	for i, r := range guessRunes {
		if set := remaining[r]; set != nil {
			if _, ok := set[i]; ok {
				result[i].Result = MarkHit
				delete(set, i)
			}
		}
	}

	// Second pass: misplaced letters, one source position each.
	for i, r := range guessRunes {
		if result[i].Result == MarkHit {
			continue
		}
		if set := remaining[r]; len(set) > 0 {
			result[i].Result = MarkKnown
			for pos := range set {
				delete(set, pos)
				break
			}
		}
	}

	match := true
	for _, c := range result {
		if c.Result != MarkHit {
			match = false
			break
		}
	}
	return ScoreResult{Match: match, Result: result}, nil
}

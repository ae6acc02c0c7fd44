// internal/words/words.go
//
// Dictionary capability for the game core.
//
// Responsibilities:
//   - Load a word list from an environment-provided file or fall back to the
//     embedded default list.
//   - Expose a membership test ("is W a legal word?") as an explicit Set
//     value that gets injected into the registry.
//
// Constraints:
//   • Words are normalized to lowercase and must be alphabetic (a–z).
//   • Lists may mix lengths; a game's length is fixed by its secret word.
//   • The set is read-only for the process lifetime once loaded.

package words

import (
	"bufio"
	_ "embed"
	"errors"
	"io"
	"os"
	"strings"
)

//go:embed default_words.txt
var embeddedWords string

// Set is an immutable dictionary of legal words.
type Set struct {
	words map[string]struct{}
}

// Load reads one word per line from path. An empty path selects the
// embedded default list. Lines that are empty, comments (#) or
// non-alphabetic are skipped.
func Load(path string) (*Set, error) {
	if path == "" {
		return parse(strings.NewReader(embeddedWords))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (*Set, error) {
	set := &Set{words: make(map[string]struct{})}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") || !isAlpha(w) {
			continue
		}
		set.words[w] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(set.words) == 0 {
		return nil, errors.New("words: list is empty")
	}
	return set, nil
}

// Contains reports whether w is a legal word. Input is lowercased first.
func (s *Set) Contains(w string) bool {
	_, ok := s.words[strings.ToLower(w)]
	return ok
}

// Len reports how many words are loaded.
func (s *Set) Len() int { return len(s.words) }

// isAlpha reports whether w is all lowercase ASCII letters.
func isAlpha(w string) bool {
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

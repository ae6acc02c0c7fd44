// internal/registry/registry.go
//
// Process-wide directory of active game sessions, keyed by join code.
// Responsibilities:
//   - Create sessions with collision-free codes, look them up, close them.
//   - Delegate transitions (join/start/guess) to the owning session and
//     surface the transition's error or new state unchanged.
//   - Chain rematches: spectators of an old game are redirected to the
//     fresh code before the old session is torn down.
//   - Reclaim abandoned sessions on a periodic TTL sweep.
//
// The registry is an explicit instance with a Start/Stop lifecycle, owned
// by the process entry point; there is no package-level state.

package registry

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guessroom/guessroom/internal/game"
	"github.com/guessroom/guessroom/internal/metrics"
	"github.com/guessroom/guessroom/internal/session"
)

const (
	// DefaultTTL bounds how long an unfinished, un-rematched game may live.
	DefaultTTL = time.Hour
	// DefaultSweepInterval is how often expired sessions are collected.
	DefaultSweepInterval = time.Second
)

// Config carries the registry's collaborators and tuning knobs.
// Zero values fall back to defaults; Dictionary is required.
type Config struct {
	Dictionary    game.Dictionary
	TTL           time.Duration
	SweepInterval time.Duration
	Now           func() time.Time // injectable clock, defaults to time.Now
}

type entry struct {
	session   *session.Session
	listeners []*newGameListener
}

// newGameListener is notified with the fresh code when a rematch supersedes
// the game it is registered against.
type newGameListener struct {
	fn func(code string)
}

// Registry maps join codes to live sessions.
type Registry struct {
	dict          game.Dictionary
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	mu    sync.Mutex
	games map[string]*entry

	started  bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New builds a stopped registry. Call Start to launch the sweep loop.
func New(cfg Config) *Registry {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Registry{
		dict:          cfg.Dictionary,
		ttl:           cfg.TTL,
		sweepInterval: cfg.SweepInterval,
		now:           cfg.Now,
		games:         make(map[string]*entry),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the background TTL sweep. Calling Start twice is a no-op.
func (r *Registry) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

// Stop halts the sweep loop and closes every remaining session.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
		r.mu.Lock()
		started := r.started
		r.mu.Unlock()
		if started {
			<-r.done
		}

		r.mu.Lock()
		games := r.games
		r.games = make(map[string]*entry)
		r.mu.Unlock()

		for code, e := range games {
			e.session.Close()
			metrics.GamesActive.Dec()
			log.Debug().Str("code", code).Msg("closed game on registry stop")
		}
	})
}

// CreateGame registers a fresh game around word and returns its join code.
func (r *Registry) CreateGame(word string) (string, error) {
	st, err := game.Initialize(r.dict, word)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	code := generateCode()
	for {
		if _, taken := r.games[code]; !taken {
			break
		}
		code = generateCode()
	}
	r.games[code] = &entry{session: session.New(st, r.now())}
	r.mu.Unlock()

	metrics.GamesCreated.Inc()
	metrics.GamesActive.Inc()
	log.Info().Str("code", code).Int("length", len(st.Word)).Msg("game created")
	return code, nil
}

// CreateRematch creates a fresh game, redirects every new-game listener of
// the old code to it, then closes the old game. After this returns the old
// code is gone for good: a spectator racing a reconnect sees a plain
// not-found and starts over from the lobby.
func (r *Registry) CreateRematch(oldCode, word string) (string, error) {
	r.mu.Lock()
	old, ok := r.games[oldCode]
	r.mu.Unlock()
	if !ok {
		return "", game.ErrGameNotFound
	}

	code, err := r.CreateGame(word)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	listeners := make([]*newGameListener, len(old.listeners))
	copy(listeners, old.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l.fn(code)
	}
	r.CloseGame(oldCode)
	log.Info().Str("old", oldCode).Str("code", code).Msg("rematch created")
	return code, nil
}

// Exists reports whether code names a live game.
func (r *Registry) Exists(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.games[code]
	return ok
}

// JoinGame adds a player to the game's roster.
func (r *Registry) JoinGame(code, playerID, name string) (game.State, error) {
	e, err := r.lookup(code)
	if err != nil {
		return game.State{}, err
	}
	return e.session.Apply(func(st game.State) (game.State, error) {
		return game.AddPlayer(st, playerID, name)
	})
}

// StartGame moves the game out of its lobby phase.
func (r *Registry) StartGame(code string) (game.State, error) {
	e, err := r.lookup(code)
	if err != nil {
		return game.State{}, err
	}
	return e.session.Apply(game.Start)
}

// Guess submits a guess for playerID. A finished game stays registered so a
// rematch can still chain from it; the TTL sweep reclaims it eventually.
func (r *Registry) Guess(code, playerID, word string) (game.State, error) {
	e, err := r.lookup(code)
	if err != nil {
		return game.State{}, err
	}
	st, err := e.session.Apply(func(st game.State) (game.State, error) {
		return game.SubmitGuess(r.dict, st, playerID, word)
	})
	if err != nil {
		return game.State{}, err
	}
	metrics.GuessesTotal.Inc()
	return st, nil
}

// Subscribe attaches a state observer to the game. onNewGame (optional) is
// invoked with the replacement code if a rematch supersedes this game. The
// returned function detaches everything; it is idempotent.
func (r *Registry) Subscribe(code string, onChange func(game.State), onClose func(), onNewGame func(string)) (func(), error) {
	r.mu.Lock()
	e, ok := r.games[code]
	if !ok {
		r.mu.Unlock()
		return nil, game.ErrGameNotFound
	}
	var listener *newGameListener
	if onNewGame != nil {
		listener = &newGameListener{fn: onNewGame}
		e.listeners = append(e.listeners, listener)
	}
	r.mu.Unlock()

	unsubscribe := e.session.Subscribe(onChange, onClose)
	return func() {
		if listener != nil {
			r.mu.Lock()
			for i, candidate := range e.listeners {
				if candidate == listener {
					e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
					break
				}
			}
			r.mu.Unlock()
		}
		unsubscribe()
	}, nil
}

// CloseGame evicts and closes the session. No-op for unknown codes.
func (r *Registry) CloseGame(code string) {
	r.mu.Lock()
	e, ok := r.games[code]
	if ok {
		delete(r.games, code)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	e.session.Close()
	metrics.GamesActive.Dec()
	log.Debug().Str("code", code).Msg("game closed")
}

// sweep closes and evicts every session older than the TTL.
func (r *Registry) sweep() {
	now := r.now()

	r.mu.Lock()
	var expired []string
	for code, e := range r.games {
		if now.Sub(e.session.CreatedAt()) > r.ttl {
			expired = append(expired, code)
		}
	}
	r.mu.Unlock()

	for _, code := range expired {
		r.CloseGame(code)
		metrics.GamesEvicted.Inc()
		log.Info().Str("code", code).Msg("game evicted after TTL")
	}
}

func (r *Registry) lookup(code string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.games[code]
	if !ok {
		return nil, game.ErrGameNotFound
	}
	return e, nil
}

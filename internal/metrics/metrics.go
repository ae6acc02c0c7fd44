// internal/metrics/metrics.go
//
// Prometheus collectors for the game core. Registered on the default
// registry and exposed through promhttp in the HTTP server.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GamesCreated counts every game ever created, rematches included.
	GamesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guessroom_games_created_total",
		Help: "Number of games created.",
	})

	// GamesActive tracks sessions currently held by the registry.
	GamesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "guessroom_games_active",
		Help: "Number of active game sessions.",
	})

	// GuessesTotal counts accepted guesses across all games.
	GuessesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guessroom_guesses_total",
		Help: "Number of successfully scored guesses.",
	})

	// SubscribersActive tracks open event streams.
	SubscribersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "guessroom_subscribers_active",
		Help: "Number of connected event-stream subscribers.",
	})

	// GamesEvicted counts sessions reclaimed by the TTL sweep.
	GamesEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guessroom_games_evicted_total",
		Help: "Number of game sessions evicted after exceeding their TTL.",
	})
)

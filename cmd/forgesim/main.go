// Command forgesim runs the tick-loop daemon: it loads the content catalog
// and world state, serves command intake, status and metrics over HTTP,
// writes events and periodic snapshots to its store (they are not served
// over HTTP), and advances the simulation on a fixed wall-clock cadence. None of
// this lives inside internal/engine — the daemon is the "external
// collaborator" spec.md §1 calls out as deliberately out of the core's
// scope.
package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/stellarforge/simcore/internal/content"
	"github.com/stellarforge/simcore/internal/domain"
	"github.com/stellarforge/simcore/internal/persistence"
	"github.com/stellarforge/simcore/internal/security"
	"github.com/stellarforge/simcore/internal/telemetry"
)

type server struct {
	cfg     Config
	loggers *telemetry.Loggers
	store   *persistence.Store
	content *domain.GameContent
	limiter *security.PrincipalLimiter

	mu      sync.Mutex // guards state + rng + pending; held for the duration of each Tick
	state   *domain.WorldState
	rng     *rand.Rand
	pending []domain.CommandEnvelope
}

func main() {
	cfg := loadConfig()

	loggers, err := telemetry.Setup("./logs")
	if err != nil {
		panic(err)
	}
	loggers.Info.Println("FORGESIM BOOT SEQUENCE")

	f, err := os.Open(cfg.ContentPath)
	if err != nil {
		panic(err)
	}
	gc, err := content.Load(f)
	f.Close()
	if err != nil {
		// Content authoring errors fail hard at load time (spec.md §7).
		panic(err)
	}
	loggers.Info.Printf("content loaded, version=%s", gc.ContentVersion)

	store, err := persistence.Open(cfg.DBPath)
	if err != nil {
		panic(err)
	}

	state, err := store.LoadSnapshot()
	if err != nil {
		loggers.Info.Println("no prior snapshot, starting fresh world")
		state = domain.NewWorldState(42, 1)
		state.Meta.ContentVersion = gc.ContentVersion
	}

	srv := &server{
		cfg:     cfg,
		loggers: loggers,
		store:   store,
		content: gc,
		limiter: security.NewPrincipalLimiter(5, 10),
		state:   state,
		rng:     rand.New(rand.NewSource(int64(state.Meta.Seed))),
	}

	go srv.runTickLoop()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/command", srv.handleCommand)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/metrics", srv.handleMetrics)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      middlewareCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	loggers.Info.Printf("listening on %s", cfg.ListenAddr)
	log.Fatal(httpServer.ListenAndServe())
}

func (s *server) runTickLoop() {
	ticker := time.NewTicker(time.Duration(s.cfg.TickSeconds * float64(time.Second)))
	defer ticker.Stop()
	for range ticker.C {
		s.runOneTick()
	}
}

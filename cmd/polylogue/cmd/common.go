package cmd

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/polylogue/internal/adapters/ai"
	"github.com/hugo-lorenzo-mato/polylogue/internal/adapters/audit"
	"github.com/hugo-lorenzo-mato/polylogue/internal/adapters/output"
	"github.com/hugo-lorenzo-mato/polylogue/internal/adapters/state"
	"github.com/hugo-lorenzo-mato/polylogue/internal/config"
	"github.com/hugo-lorenzo-mato/polylogue/internal/conflict"
	"github.com/hugo-lorenzo-mato/polylogue/internal/consensus"
	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
	"github.com/hugo-lorenzo-mato/polylogue/internal/events"
	"github.com/hugo-lorenzo-mato/polylogue/internal/facilitator"
	"github.com/hugo-lorenzo-mato/polylogue/internal/logging"
	"github.com/hugo-lorenzo-mato/polylogue/internal/router"
	"github.com/hugo-lorenzo-mato/polylogue/internal/summarizer"
	"github.com/hugo-lorenzo-mato/polylogue/internal/vote"
)

// engine bundles the fully wired dialogue engine and its collaborators.
type engine struct {
	cfg    *config.Config
	logger *logging.Logger
	store  core.SessionStore
	agents []core.Agent
	bus    *events.EventBus
	router *router.Router
}

// close releases backend resources (the SQLite store holds a connection).
func (e *engine) close() {
	if closer, ok := e.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if e.bus != nil {
		e.bus.Close()
	}
}

// buildEngine wires the dialogue engine from configuration.
func buildEngine(cfg *config.Config, logger *logging.Logger) (*engine, error) {
	agents, err := cfg.AgentList()
	if err != nil {
		return nil, fmt.Errorf("loading agent roster: %w", err)
	}

	store, err := state.NewSessionStore(cfg.State)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	executor, err := ai.NewCommandExecutor(cfg.Executor, logger)
	if err != nil {
		return nil, err
	}

	var auditor core.InteractionLogger = audit.NopLogger{}
	if cfg.Audit.Enabled {
		auditor = audit.NewJSONLLogger(cfg.Audit.Path, logger)
	}

	bus := events.New(256)
	tracker := facilitator.NewParticipationTracker()

	eng, err := router.New(cfg.Dialogue, router.Deps{
		Store:      store,
		Executor:   executor,
		Summarizer: summarizer.New(executor, logger),
		Outputs:    output.NewMarkdownStore(cfg.Output.Dir),
		Audit:      auditor,
		Consensus:  consensus.NewEngine(cfg.Consensus),
		Conflicts:  conflict.NewIdentifier(),
		Planner:    facilitator.NewPlanner(cfg.Facilitator, executor, tracker, logger),
		Tally:      vote.NewTally(vote.NewExtractor()),
		Shuffler:   router.NewSeededShuffler(cfg.Dialogue.Seed),
		Bus:        bus,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return &engine{
		cfg:    cfg,
		logger: logger,
		store:  store,
		agents: agents,
		bus:    bus,
		router: eng,
	}, nil
}

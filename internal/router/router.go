// Package router owns the dialogue stage state machine: stage sequencing,
// agent iteration order, round termination, and finalizer election.
package router

import (
	"context"
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/polylogue/internal/config"
	"github.com/hugo-lorenzo-mato/polylogue/internal/conflict"
	"github.com/hugo-lorenzo-mato/polylogue/internal/consensus"
	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
	"github.com/hugo-lorenzo-mato/polylogue/internal/events"
	"github.com/hugo-lorenzo-mato/polylogue/internal/facilitator"
	"github.com/hugo-lorenzo-mato/polylogue/internal/logging"
	"github.com/hugo-lorenzo-mato/polylogue/internal/vote"
)

// Deps are the collaborators the router drives. Store and Executor are
// required; the rest default to no-op or internal implementations.
type Deps struct {
	Store      core.SessionStore
	Executor   core.AIExecutor
	Summarizer core.StageSummarizer
	Outputs    core.OutputStore
	Audit      core.InteractionLogger
	Consensus  *consensus.Engine
	Conflicts  *conflict.Identifier
	Planner    *facilitator.Planner
	Tally      *vote.Tally
	Shuffler   core.Shuffler
	Sleeper    core.Sleeper
	Bus        *events.EventBus
	Logger     *logging.Logger
}

// Router executes dialogue stages against a session. One router drives one
// session at a time; stage execution is strictly sequential so later
// agents see earlier agents' recorded output.
type Router struct {
	cfg  config.DialogueConfig
	deps Deps
}

// New creates a router.
func New(cfg config.DialogueConfig, deps Deps) (*Router, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("router: session store is required")
	}
	if deps.Executor == nil {
		return nil, fmt.Errorf("router: AI executor is required")
	}
	if deps.Consensus == nil {
		deps.Consensus = consensus.NewEngine(config.ConsensusConfig{})
	}
	if deps.Conflicts == nil {
		deps.Conflicts = conflict.NewIdentifier()
	}
	if deps.Planner == nil {
		deps.Planner = facilitator.NewPlanner(config.FacilitatorConfig{}, nil, nil, deps.Logger)
	}
	if deps.Tally == nil {
		deps.Tally = vote.NewTally(nil)
	}
	if deps.Shuffler == nil {
		deps.Shuffler = NewSeededShuffler(cfg.Seed)
	}
	if deps.Sleeper == nil {
		deps.Sleeper = realSleeper{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = 10
	}
	return &Router{cfg: cfg, deps: deps}, nil
}

// Effect is a post-stage side effect, executed after the stage's state
// transition has been persisted. Effects failing is logged, never fatal.
type Effect struct {
	Name string
	Run  func(ctx context.Context) error
}

// ExecuteStage runs one stage of the pipeline against the stored session and
// returns the updated session. An unknown stage is a fatal, non-retryable
// error for the call.
func (r *Router) ExecuteStage(ctx context.Context, sessionID core.SessionID, stage core.Stage, userPrompt string) (*core.Session, error) {
	if !core.ValidStage(stage) {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownStage, stage)
	}

	session, err := r.deps.Store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Complete && stage != core.StageIndividualThought {
		return nil, core.ErrSessionComplete
	}
	if len(session.Agents) == 0 {
		return nil, core.ErrNoAgents
	}

	log := r.deps.Logger.WithSession(string(session.ID)).WithStage(string(stage))

	// Entering individual-thought on a session that already holds dialogue
	// state starts a new sequence rather than erroring.
	if stage == core.StageIndividualThought && session.HasDialogueState() {
		session.StartNewSequence()
		log.Info("starting new sequence", "sequence", session.SequenceNumber)
	}
	if stage == core.StageIndividualThought && userPrompt != "" {
		session.UserPrompt = userPrompt
		session.AppendMessage(core.NewMessage("", userPrompt, core.RoleUser, stage, session.SequenceNumber))
	}

	r.publish(events.NewStageStartedEvent(string(session.ID), string(stage), session.SequenceNumber))

	var effects []Effect
	switch {
	case stage == core.StageFinalize:
		effects, err = r.executeFinalize(ctx, session, log)
	case stage.IsSummaryStage():
		effects, err = r.executeSummaryStage(ctx, session, stage, log)
	default:
		effects, err = r.executeAgentStage(ctx, session, stage, log)
	}
	if err != nil {
		return nil, err
	}

	if err := r.deps.Store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	// Effects run only after the transition commits.
	for _, eff := range effects {
		if err := eff.Run(ctx); err != nil {
			log.Warn("post-stage effect failed", "effect", eff.Name, "error", err)
		}
	}

	return session, nil
}

// RunSequence drives a full pipeline pass: individual thought through
// finalize, looping conflict resolution until the consensus engine stops it.
func (r *Router) RunSequence(ctx context.Context, sessionID core.SessionID, userPrompt string) (*core.Session, error) {
	if _, err := r.ExecuteStage(ctx, sessionID, core.StageIndividualThought, userPrompt); err != nil {
		return nil, err
	}
	// Summary stages run as post-stage effects of the stage they condense.
	if _, err := r.ExecuteStage(ctx, sessionID, core.StageMutualReflection, ""); err != nil {
		return nil, err
	}

	for {
		session, err := r.ExecuteStage(ctx, sessionID, core.StageConflictResolution, "")
		if err != nil {
			return nil, err
		}
		round := stageRuns(session, core.StageConflictResolution)
		indicators := r.roundIndicators(session, core.StageConflictResolution)
		report := r.deps.Consensus.EvaluateRound(round, indicators)
		r.publish(events.NewConsensusEvaluatedEvent(string(session.ID), round, report.Score,
			report.AvgSatisfaction, report.ReadyCount, report.ShouldContinue))
		if !report.ShouldContinue {
			break
		}
		// Planned facilitation lands in the transcript as a system message,
		// so the next round's prompt window carries it. A plan of zero
		// actions just means the next round runs unguided.
		actions := r.deps.Planner.Plan(ctx, r.transcript(session), report, session.Agents)
		if msg, ok := facilitationMessage(actions, report.ActionCount, session); ok {
			session.AppendMessage(msg)
			if err := r.deps.Store.SaveSession(ctx, session); err != nil {
				return nil, fmt.Errorf("saving session: %w", err)
			}
		}
		r.deps.Logger.WithSession(string(sessionID)).Debug("facilitation planned",
			"round", round, "actions", len(actions))
	}
	for _, stage := range []core.Stage{
		core.StageSynthesisAttempt,
		core.StageOutputGeneration,
		core.StageFinalize,
	} {
		if _, err := r.ExecuteStage(ctx, sessionID, stage, ""); err != nil {
			return nil, err
		}
	}
	return r.deps.Store.GetSession(ctx, sessionID)
}

// executeAgentStage runs a regular stage: shuffled order, strictly
// sequential calls, per-agent failure skipped.
func (r *Router) executeAgentStage(ctx context.Context, session *core.Session, stage core.Stage, log *logging.Logger) ([]Effect, error) {
	for i := range session.Agents {
		session.Agents[i].IsSummarizer = false
	}

	idx := session.BeginStage(stage)
	if err := r.deps.Store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	var identified []core.Conflict
	if stage == core.StageConflictResolution {
		var synthetic bool
		identified, synthetic = r.deps.Conflicts.Identify(session)
		r.publish(events.NewConflictsIdentifiedEvent(string(session.ID), len(identified), synthetic))
	}

	order := make([]core.Agent, len(session.Agents))
	copy(order, session.Agents)
	r.deps.Shuffler.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var responses []core.Message
	for i, agent := range order {
		if i > 0 {
			// Pacing between sequential agent calls; an operational device,
			// not a correctness requirement.
			r.deps.Sleeper.Sleep(ctx, r.cfg.ParsedAgentDelay())
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		prompt := r.buildPrompt(session, stage, agent, identified)
		result, err := r.execute(ctx, session, agent, stage, prompt)
		if err != nil {
			log.WithAgent(string(agent.ID)).Warn("agent response failed, skipping", "error", err)
			r.publish(events.NewAgentSkippedEvent(string(session.ID), string(stage), string(agent.ID), err.Error()))
			continue
		}

		msg := core.NewMessage(agent.ID, result.Content, core.RoleAgent, stage, session.SequenceNumber)
		msg.Metadata = parseResponseMetadata(stage, result.Content, session.Agents)
		session.AppendMessage(msg)
		responses = append(responses, msg)
		r.deps.Planner.Tracker().Record(agent.ID)

		if err := r.deps.Store.SaveSession(ctx, session); err != nil {
			return nil, fmt.Errorf("saving session: %w", err)
		}
		r.publish(events.NewAgentRespondedEvent(string(session.ID), string(stage), string(agent.ID), len(result.Content)))
	}

	session.EndStage(idx, responses)
	r.publish(events.NewStageCompletedEvent(string(session.ID), string(stage), session.SequenceNumber, len(responses)))

	var effects []Effect
	if stage == core.StageOutputGeneration {
		r.tallyOutputVotes(session, responses)
	}
	if summary := core.NextStage(stage); summary.IsSummaryStage() && len(responses) > 0 {
		// A stage with zero successful responses advances but produces no
		// summary.
		effects = append(effects, r.summaryEffect(session.ID, stage))
	}
	return effects, nil
}

// tallyOutputVotes populates VotingResults and elects the summarizer for the
// output stage, with the deterministic tie rule as fallback.
func (r *Router) tallyOutputVotes(session *core.Session, responses []core.Message) {
	results, winners := r.deps.Tally.TallyResponses(responses, session.Agents)
	session.VotingResults = results

	winnerIDs := make([]string, len(winners))
	for i, w := range winners {
		winnerIDs[i] = string(w)
	}
	votes := make(map[string]string, len(results))
	for voter, voted := range results {
		votes[string(voter)] = string(voted)
	}
	r.publish(events.NewVotesTalliedEvent(string(session.ID), votes, winnerIDs))

	summarizer, ok := vote.BreakTie(winners, session.Agents)
	if !ok && len(session.Agents) > 0 {
		summarizer = session.Agents[0]
	}
	for i := range session.Agents {
		session.Agents[i].IsSummarizer = session.Agents[i].ID == summarizer.ID
	}
}

// executeSummaryStage condenses the preceding stage into a system message.
func (r *Router) executeSummaryStage(ctx context.Context, session *core.Session, stage core.Stage, log *logging.Logger) ([]Effect, error) {
	idx := session.BeginStage(stage)
	target := stage.SummarizedStage()
	msgs := session.StageMessages(target)
	if len(msgs) == 0 || r.deps.Summarizer == nil {
		session.EndStage(idx, nil)
		return nil, nil
	}

	summary, err := r.deps.Summarizer.SummarizeStage(ctx, target, msgs, session.Agents, session.ID, session.Language)
	if err != nil {
		// Summaries are best-effort; the pipeline advances without one.
		log.Warn("stage summary failed", "target", target, "error", err)
		session.EndStage(idx, nil)
		return nil, nil
	}

	msg := core.NewMessage("", summary.Summary, core.RoleSystem, stage, session.SequenceNumber)
	msg.Metadata = &core.MessageMetadata{SummaryOf: target}
	session.AppendMessage(msg)
	summary.SequenceNumber = session.SequenceNumber
	session.StageSummaries = append(session.StageSummaries, *summary)
	session.EndStage(idx, nil)
	r.publish(events.NewSummaryAppendedEvent(string(session.ID), string(target)))
	return nil, nil
}

// summaryEffect defers stage-summary generation until after the stage
// commits, then appends a system-role message.
func (r *Router) summaryEffect(sessionID core.SessionID, target core.Stage) Effect {
	return Effect{
		Name: "stage-summary:" + string(target),
		Run: func(ctx context.Context) error {
			r.deps.Sleeper.Sleep(ctx, r.cfg.ParsedSummaryDelay())
			_, err := r.ExecuteStage(ctx, sessionID, core.NextStage(target), "")
			return err
		},
	}
}

// execute runs one audited AI call for an agent.
func (r *Router) execute(ctx context.Context, session *core.Session, agent core.Agent, stage core.Stage, prompt string) (*core.ExecuteResult, error) {
	start := time.Now()
	result, err := r.deps.Executor.Execute(ctx, prompt, r.transcript(session))
	entry := core.InteractionLog{
		SessionID: session.ID,
		AgentID:   agent.ID,
		Stage:     stage,
		Prompt:    prompt,
		Duration:  time.Since(start),
		Status:    "ok",
		Timestamp: start,
	}
	if err != nil {
		entry.Status = "error"
		entry.Error = err.Error()
	} else {
		entry.Output = result.Content
	}
	if r.deps.Audit != nil {
		r.deps.Audit.SaveInteractionLog(entry)
	}
	return result, err
}

func (r *Router) publish(e events.Event) {
	if r.deps.Bus != nil {
		r.deps.Bus.Publish(e)
	}
}

func (r *Router) publishPriority(e events.Event) {
	if r.deps.Bus != nil {
		r.deps.Bus.PublishPriority(e)
	}
}

// roundIndicators parses consensus indicators from the latest run of the
// given stage. Agents whose replies carry no discernible signal contribute
// nothing.
func (r *Router) roundIndicators(session *core.Session, stage core.Stage) []core.ConsensusIndicator {
	var latest *core.StageExecution
	for i := range session.StageHistory {
		e := &session.StageHistory[i]
		if e.Stage == stage && e.SequenceNumber == session.SequenceNumber {
			latest = e
		}
	}
	if latest == nil {
		return nil
	}
	var indicators []core.ConsensusIndicator
	for _, m := range latest.AgentResponses {
		if ind, ok := consensus.ParseIndicator(m.AgentID, m.Content); ok {
			indicators = append(indicators, ind)
		}
	}
	return indicators
}

// stageRuns counts executions of a stage within the current sequence.
func stageRuns(session *core.Session, stage core.Stage) int {
	n := 0
	for _, e := range session.StageHistory {
		if e.Stage == stage && e.SequenceNumber == session.SequenceNumber {
			n++
		}
	}
	return n
}

// Package consensus scores per-round agreement signals and decides when the
// dialogue stops.
package consensus

import (
	"math"

	"github.com/hugo-lorenzo-mato/polylogue/internal/config"
	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

// Engine evaluates consensus over discrete dialogue rounds. All methods are
// pure functions over already-collected indicators; malformed input degrades
// to the zero-consensus default.
type Engine struct {
	cfg config.ConsensusConfig
}

// NewEngine creates a consensus engine with the given tuned parameters.
func NewEngine(cfg config.ConsensusConfig) *Engine {
	if cfg.SatisfactionWeight == 0 && cfg.ReadinessWeight == 0 {
		cfg.SatisfactionWeight = 0.8
		cfg.ReadinessWeight = 0.2
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 10
	}
	return &Engine{cfg: cfg}
}

// CalculateOverallConsensus blends average satisfaction with the readiness
// ratio into a 0-10 score, rounded to one decimal. Satisfaction carries most
// of the weight: dialogue quality is trusted over mere declared readiness.
// An empty indicator set scores 0.
func (e *Engine) CalculateOverallConsensus(indicators []core.ConsensusIndicator) float64 {
	if len(indicators) == 0 {
		return 0
	}
	avg := avgSatisfaction(indicators)
	ready := readyCount(indicators)
	readyRatio := float64(ready) / float64(len(indicators))

	score := e.cfg.SatisfactionWeight*avg + e.cfg.ReadinessWeight*(readyRatio*10)
	return math.Round(score*10) / 10
}

// ShouldContinueDialogue decides whether the dialogue runs another round.
//
// Rounds 1-2 always continue (minimum exploration guarantee). Rounds 3-4
// stop only on a unanimous early exit. From round 5, a sequence of
// independent stop conditions is evaluated in order; any one stops the
// dialogue.
func (e *Engine) ShouldContinueDialogue(round int, indicators []core.ConsensusIndicator) bool {
	if round <= 2 {
		return true
	}

	total := len(indicators)
	if total == 0 {
		return true
	}
	avg := avgSatisfaction(indicators)
	ready := readyCount(indicators)
	score := e.CalculateOverallConsensus(indicators)

	if round <= 4 {
		// Unanimous early exit only.
		return !(avg >= e.cfg.EarlyExitSatisfaction && ready == total)
	}

	switch {
	case round >= 5 && avg >= 8.0 && ready >= 4:
		return false
	case round >= 6 && avg >= 7.0 && ready >= ceilHalf(total):
		return false
	case round >= 7 && avg >= e.cfg.ConvergenceThreshold && ready >= 3:
		return false
	case round >= 7 && score >= 8.5 && avg >= 6.5:
		return false
	case round >= e.cfg.MaxRounds && avg >= e.cfg.MinSatisfaction:
		// Hard cap, cost control.
		return false
	case round >= 8 && score >= 9.0 && ready >= 3:
		return false
	}
	return true
}

// DetermineActionCount recommends how many facilitation actions the round
// should take.
func (e *Engine) DetermineActionCount(round int, indicators []core.ConsensusIndicator) int {
	avg := avgSatisfaction(indicators)
	score := e.CalculateOverallConsensus(indicators)
	additional := 0
	for _, ind := range indicators {
		if ind.HasAdditionalPoints {
			additional++
		}
	}

	switch {
	case round <= 2:
		if additional >= 3 {
			return 3
		}
		return 2
	case round <= 7:
		switch {
		case avg < 5.5:
			if additional >= 2 {
				return 3
			}
			return 2
		case avg < 7.5:
			return 2
		default:
			return 1
		}
	default:
		// One more push before forced termination.
		if avg >= 7.5 || score >= 8.0 {
			return 1
		}
		return 2
	}
}

// EvaluateRound bundles the per-round evaluation into a report.
func (e *Engine) EvaluateRound(round int, indicators []core.ConsensusIndicator) core.ConsensusReport {
	return core.ConsensusReport{
		Round:           round,
		Score:           e.CalculateOverallConsensus(indicators),
		AvgSatisfaction: avgSatisfaction(indicators),
		ReadyCount:      readyCount(indicators),
		ShouldContinue:  e.ShouldContinueDialogue(round, indicators),
		ActionCount:     e.DetermineActionCount(round, indicators),
		Indicators:      indicators,
	}
}

func avgSatisfaction(indicators []core.ConsensusIndicator) float64 {
	if len(indicators) == 0 {
		return 0
	}
	sum := 0.0
	for _, ind := range indicators {
		sum += clamp(ind.SatisfactionLevel, 0, 10)
	}
	return sum / float64(len(indicators))
}

func readyCount(indicators []core.ConsensusIndicator) int {
	n := 0
	for _, ind := range indicators {
		if ind.ReadyToMove {
			n++
		}
	}
	return n
}

func ceilHalf(n int) int {
	return (n + 1) / 2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

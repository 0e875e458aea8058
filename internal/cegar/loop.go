// Package cegar implements the CEGAR Loop: it alternates abstract
// search, concrete trace replay, flaw detection and splitting until
// either a concrete plan witness is found, the task is proven abstractly
// unsolvable, or the budget runs out.
package cegar

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cegarheuristic/abstraction/internal/abstraction"
	"github.com/cegarheuristic/abstraction/internal/budget"
	"github.com/cegarheuristic/abstraction/internal/splitter"
	"github.com/cegarheuristic/abstraction/internal/task"
)

// Result is everything a CEGAR run hands back to its caller: the
// abstraction the loop ended with (unconditionally usable as a heuristic
// source regardless of Termination), the statistics accumulated along the
// way, and why the loop stopped.
type Result struct {
	Abstraction *abstraction.Abstraction
	Stats       Stats
	Termination Termination
}

// Run drives the CEGAR state machine to completion against model,
// starting from the bootstrap abstraction opts selects and refining it
// round by round until termination.
func Run(model *task.Model, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	abs, err := bootstrap(model, opts)
	if err != nil {
		return Result{}, err
	}

	split := splitter.New(opts.splitterConfig())
	b := budget.New(opts.MaxTime, opts.MemoryPressure)
	limiter := progressLimiter()
	start := time.Now()

	var stats Stats
	for {
		stats.Rounds++

		goal, outcome := abstractSearch(abs, b)
		switch outcome {
		case outcomeBudgetExpired:
			return finish(abs, stats, TerminationBudgetExpired), nil
		case outcomeUnsolvable:
			return finish(abs, stats, TerminationUnsolvable), nil
		}

		flaw, hasFlaw := concreteReplay(model, goal.Trace())
		if !hasFlaw {
			return finish(abs, stats, TerminationConcretePlan), nil
		}

		stats.FlawsConsidered++
		stats.FactsMissed += len(flaw.MissedFacts)

		if ok := refine(abs, split, flaw, &stats); !ok {
			return finish(abs, stats, TerminationOverflowLimit), nil
		}

		if limiter.Allow() {
			log.WithFields(logrus.Fields{
				"round":        stats.Rounds,
				"states":       abs.NumAbstractStates(),
				"facts_missed": stats.FactsMissed,
				"fingerprint":  fingerprintMapping(abs.CurrentMapping().Groups),
				"elapsed":      time.Since(start),
			}).Debug("cegar: refinement round")
		}

		if b.Expired() {
			return finish(abs, stats, TerminationBudgetExpired), nil
		}
	}
}

// refine applies split to flaw and offers the candidate to abs.Reload,
// retrying once with OneMissedFact scope if an AllMissedFacts candidate
// with more than one missed fact overflows. It reports false only when
// no retry is available and the overflow is therefore terminal.
func refine(abs *abstraction.Abstraction, split *splitter.Splitter, flaw splitter.Flaw, stats *Stats) bool {
	candidate := split.Split(flaw, abs, false)
	err := abs.Reload(candidate)
	if err == nil {
		if split.Scope() == splitter.OneMissedFact {
			stats.FactsSplit++
		} else {
			stats.FactsSplit += len(flaw.MissedFacts)
		}
		return true
	}
	if !abstraction.IsOverflow(err) {
		return false
	}

	if split.Scope() != splitter.AllMissedFacts || len(flaw.MissedFacts) <= 1 {
		return false
	}

	stats.OverflowRetries++
	retryCandidate := split.Split(flaw, abs, true)
	if err := abs.Reload(retryCandidate); err != nil {
		return false
	}
	stats.FactsSplit++
	return true
}

// finish fills in the run-ending fields of stats and returns the Result.
func finish(abs *abstraction.Abstraction, stats Stats, term Termination) Result {
	m := abs.CurrentMapping()
	shape := make([]int, len(m.NumGroups))
	copy(shape, m.NumGroups)
	stats.FinalShape = shape
	stats.FinalStates = abs.NumAbstractStates()
	stats.MappingFingerprint = fingerprintMapping(m.Groups)
	return Result{Abstraction: abs, Stats: stats, Termination: term}
}

// Package core is the heuristic host's entry point: it wires the
// Transition Model, Domain Abstraction, CEGAR loop and Heuristic Oracle
// together behind two calls, New and Value, plus Termination and Stats
// for inspecting how the build ended.
package core

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cegarheuristic/abstraction/internal/budget"
	"github.com/cegarheuristic/abstraction/internal/cegar"
	"github.com/cegarheuristic/abstraction/internal/heuristic"
	"github.com/cegarheuristic/abstraction/internal/task"
)

// DeadEnd is the sentinel Value returns for a state with no path to the
// goal under the settled abstraction.
const DeadEnd = heuristic.DeadEnd

// Core is the built heuristic: a settled Domain Abstraction plus the
// Heuristic Oracle over it. Construction runs the whole CEGAR loop to
// completion (or budget exhaustion); Value answers queries against
// whatever abstraction the loop ended with, regardless of Termination.
type Core struct {
	oracle      *heuristic.Oracle
	termination cegar.Termination
	stats       cegar.Stats
}

// New builds a Core over t: it compiles t into a Transition Model
// (rejecting axioms, conditional effects or negative costs), runs the
// CEGAR loop per opts, and builds the configured Heuristic Oracle over
// the resulting abstraction.
func New(t task.Task, opts Options) (*Core, error) {
	model, err := task.Build(t)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := cegar.Run(model, opts.cegarOptions())
	if err != nil {
		return nil, err
	}
	constructionTime := time.Since(start)

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"termination":       result.Termination.String(),
		"rounds":            result.Stats.Rounds,
		"states":            result.Stats.FinalStates,
		"shape":             result.Stats.FinalShape,
		"construction_time": constructionTime,
	}).Info("core: CEGAR refinement complete")

	b := budget.New(budget.Unlimited, opts.MemoryPressure)
	precomputeStart := time.Now()
	oracle := heuristic.New(result.Abstraction, opts.heuristicMode(), b)
	log.WithField("precomputation_time", time.Since(precomputeStart)).Info("core: heuristic oracle built")

	return &Core{oracle: oracle, termination: result.Termination, stats: result.Stats}, nil
}

// Value maps state to its abstract image and returns the settled
// abstraction's distance estimate, or (DeadEnd, false) if no path to the
// goal exists in that abstraction.
func (c *Core) Value(state []int) (int32, bool) {
	return c.oracle.Value(state)
}

// Termination reports why the CEGAR loop that built this Core stopped.
func (c *Core) Termination() cegar.Termination {
	return c.termination
}

// Stats returns the round-by-round statistics the CEGAR loop accumulated
// while building this Core.
func (c *Core) Stats() cegar.Stats {
	return c.stats
}

package cegar

import (
	"math/rand"

	"github.com/cegarheuristic/abstraction/internal/abstraction"
	"github.com/cegarheuristic/abstraction/internal/splitter"
	"github.com/cegarheuristic/abstraction/internal/task"
)

func domainSizes(model *task.Model) []int {
	out := make([]int, model.NumVariables())
	for v := range out {
		out[v] = model.DomainSize(v)
	}
	return out
}

// bootstrap builds the starting Abstraction for a CEGAR run: either the
// most trivial mapping (every variable one group), or that mapping with
// each goal variable's goal value split into its own group.
func bootstrap(model *task.Model, opts Options) (*abstraction.Abstraction, error) {
	trivial := abstraction.TrivialMapping(domainSizes(model))
	abs, err := abstraction.New(model, trivial, opts.MaxStates)
	if err != nil {
		return nil, err
	}
	if opts.InitialGoalSplit {
		goalSplitBootstrap(abs, model.GoalFacts(), opts.Seed)
	}
	return abs, nil
}

// goalSplitBootstrap iterates the task's goal facts in a reproducible
// shuffled order and, for each, tries to move that fact's value into its
// own group — skipping (not retrying) any fact whose split would
// overflow — until every goal fact has been tried once.
func goalSplitBootstrap(abs *abstraction.Abstraction, goalFacts task.Facts, seed int64) {
	shuffled := append(task.Facts(nil), goalFacts...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for _, f := range shuffled {
		candidate := splitter.SplitSingleValue(abs.CurrentMapping(), f.Var, f.Val)
		_ = abs.Reload(candidate) // overflow: skip this fact, keep trying the rest
	}
}

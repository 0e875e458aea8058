package core

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cegarheuristic/abstraction/internal/abstraction"
	"github.com/cegarheuristic/abstraction/internal/cegar"
	"github.com/cegarheuristic/abstraction/internal/heuristic"
	"github.com/cegarheuristic/abstraction/internal/splitter"
)

// SplitMethod names a splitter.Strategy at the external interface, using
// the vocabulary of the split_method option.
type SplitMethod string

const (
	SingleValueSplit  SplitMethod = "singlevaluesplit"
	RandomUniformSplit SplitMethod = "randomuniformsplit"
)

// SplitSelector names a splitter.Selector at the external interface,
// using the vocabulary of the split_selector option.
type SplitSelector string

const (
	SelectorRandom        SplitSelector = "random"
	SelectorMinStatesGain SplitSelector = "min_states_gain"
	SelectorLeastRefined  SplitSelector = "least_refined"
)

// Options is the closed configuration set exposed to callers, translated
// at construction into the internal cegar.Options, splitter.Config and
// heuristic.Mode each subsystem actually consumes.
type Options struct {
	// MaxStates is the hard cap on ∏ G(v); Unlimited means no cap beyond
	// the 64-bit overflow bound itself.
	MaxStates int64
	// MaxTime is the CEGAR wall-clock budget; UnlimitedTime means no
	// deadline.
	MaxTime time.Duration
	// Precalculation selects Precomputed mode (true) or On-demand mode
	// (false) for the Heuristic Oracle.
	Precalculation bool
	// SingleFactSplit selects OneMissedFact scope (true) or
	// AllMissedFacts scope (false).
	SingleFactSplit bool
	// InitialGoalSplit selects the goal-split bootstrap (true) or the
	// all-zeros trivial bootstrap (false).
	InitialGoalSplit bool
	SplitMethod      SplitMethod
	SplitSelector    SplitSelector
	// Seed drives every random choice the core makes, so that a fixed
	// seed, task and option set reproduce identical abstractions,
	// traces and heuristic values.
	Seed int64
	// MemoryPressure, if set, is polled by the CEGAR loop alongside the
	// time budget.
	MemoryPressure func() bool
	Logger         logrus.FieldLogger
}

// Unlimited is the MaxStates sentinel meaning "no cap".
const Unlimited = abstraction.Unlimited

// UnlimitedTime mirrors budget.Unlimited for callers configuring MaxTime.
const UnlimitedTime time.Duration = -1

// DefaultOptions returns the Options a zero-value caller gets: unlimited
// states and time, on-demand heuristic mode, AllMissedFacts/
// SingleValueSplit, all-zeros bootstrap, seed 0, standard logger.
func DefaultOptions() Options {
	return Options{
		MaxStates:        Unlimited,
		MaxTime:          UnlimitedTime,
		Precalculation:   false,
		SingleFactSplit:  false,
		InitialGoalSplit: false,
		SplitMethod:      SingleValueSplit,
		SplitSelector:    SelectorRandom,
		Seed:             0,
		Logger:           logrus.StandardLogger(),
	}
}

func (o Options) cegarOptions() cegar.Options {
	strategy := splitter.SingleValueSplit
	if o.SplitMethod == RandomUniformSplit {
		strategy = splitter.RandomUniformSplit
	}
	selector := splitter.SelectRandom
	switch o.SplitSelector {
	case SelectorMinStatesGain:
		selector = splitter.SelectMinNewStates
	case SelectorLeastRefined:
		selector = splitter.SelectLeastRefined
	}

	opts := []cegar.Option{
		cegar.WithMaxStates(o.MaxStates),
		cegar.WithMaxTime(o.MaxTime),
		cegar.WithInitialGoalSplit(o.InitialGoalSplit),
		cegar.WithSplitMethod(strategy),
		cegar.WithSplitSelector(selector),
		cegar.WithSingleFactSplit(o.SingleFactSplit),
		cegar.WithSeed(o.Seed),
		cegar.WithMemoryPressure(o.MemoryPressure),
	}
	if o.Logger != nil {
		opts = append(opts, cegar.WithLogger(o.Logger))
	}
	return cegar.NewOptions(opts...)
}

func (o Options) heuristicMode() heuristic.Mode {
	if o.Precalculation {
		return heuristic.Precomputed
	}
	return heuristic.OnDemand
}

package cegar

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/cegarheuristic/abstraction/internal/abstraction"
	"github.com/cegarheuristic/abstraction/internal/splitter"
)

// Options configures a CEGAR run (Run). It is the CEGAR-loop-relevant slice of the
// closed configuration set exposed to callers: max_states, max_time,
// singlefactsplit, initial_goal_split, split_method and split_selector.
// (precalculation selects between the Heuristic Oracle's two modes, a
// concern of package heuristic, not of the loop itself.)
type Options struct {
	MaxStates        int64
	MaxTime          time.Duration
	InitialGoalSplit bool
	SplitMethod      splitter.Strategy
	SplitSelector    splitter.Selector
	SingleFactSplit  bool
	Seed             int64
	// MemoryPressure, if set, is polled alongside the time budget at
	// round boundaries; it should report true once the host's reserved
	// memory padding has been released.
	MemoryPressure func() bool
	Logger         logrus.FieldLogger
}

// Option mutates an Options value under construction.
type Option func(*Options)

// DefaultOptions returns the Options every Run starts from before
// Option values are applied: unlimited states and time, trivial
// bootstrap, SingleValueSplit/AllMissedFacts, a fixed seed, and a
// standard-logger default.
func DefaultOptions() Options {
	return Options{
		MaxStates:        abstraction.Unlimited,
		MaxTime:          -1,
		InitialGoalSplit: false,
		SplitMethod:      splitter.SingleValueSplit,
		SplitSelector:    splitter.SelectRandom,
		SingleFactSplit:  false,
		Seed:             0,
		Logger:           logrus.StandardLogger(),
	}
}

// NewOptions builds an Options from DefaultOptions with opts applied in
// order.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithMaxStates(n int64) Option { return func(o *Options) { o.MaxStates = n } }
func WithMaxTime(d time.Duration) Option {
	return func(o *Options) { o.MaxTime = d }
}
func WithInitialGoalSplit(b bool) Option { return func(o *Options) { o.InitialGoalSplit = b } }
func WithSplitMethod(s splitter.Strategy) Option {
	return func(o *Options) { o.SplitMethod = s }
}
func WithSplitSelector(s splitter.Selector) Option {
	return func(o *Options) { o.SplitSelector = s }
}
func WithSingleFactSplit(b bool) Option { return func(o *Options) { o.SingleFactSplit = b } }
func WithSeed(seed int64) Option        { return func(o *Options) { o.Seed = seed } }
func WithMemoryPressure(f func() bool) Option {
	return func(o *Options) { o.MemoryPressure = f }
}
func WithLogger(l logrus.FieldLogger) Option { return func(o *Options) { o.Logger = l } }

// splitterConfig translates the loop-level options into the Splitter's
// own Config.
func (o Options) splitterConfig() splitter.Config {
	scope := splitter.AllMissedFacts
	if o.SingleFactSplit {
		scope = splitter.OneMissedFact
	}
	return splitter.Config{
		Strategy: o.SplitMethod,
		Scope:    scope,
		Selector: o.SplitSelector,
		Seed:     o.Seed,
	}
}

// progressLimiter throttles round-boundary progress logging so a long
// refinement run doesn't flood the log with one line per round.
func progressLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(200*time.Millisecond), 1)
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cegarheuristic/abstraction/core"
	"github.com/cegarheuristic/abstraction/internal/yamltask"
)

func main() {
	var (
		taskPath string
		stateArg string
		debug    bool
	)

	rootCmd := &cobra.Command{
		Use:   "cegar-demo",
		Short: "cegar-demo",
		Long:  `Builds a CEGAR domain-abstraction heuristic over a YAML toy task and queries it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				log.SetLevel(log.DebugLevel)
			}
			return run(taskPath, stateArg)
		},
	}

	rootCmd.Flags().StringVar(&taskPath, "task", "", "path to a YAML task fixture (required)")
	rootCmd.Flags().StringVar(&stateArg, "state", "", "comma-separated concrete state to query, e.g. 0,1,0 (defaults to the task's initial state)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := rootCmd.MarkFlagRequired("task"); err != nil {
		log.Panic(err.Error())
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(taskPath, stateArg string) error {
	t, overrides, err := yamltask.Load(taskPath)
	if err != nil {
		return err
	}

	opts := core.DefaultOptions()
	applyOverrides(&opts, overrides)

	c, err := core.New(t, opts)
	if err != nil {
		return err
	}

	state := t.InitialState()
	if stateArg != "" {
		state, err = parseState(stateArg)
		if err != nil {
			return err
		}
	}

	value, alive := c.Value(state)
	stats := c.Stats()

	fmt.Printf("termination: %s\n", c.Termination())
	fmt.Printf("rounds: %d, final abstract states: %d, final shape: %v\n", stats.Rounds, stats.FinalStates, stats.FinalShape)
	if !alive {
		fmt.Printf("value(%v) = DEAD_END\n", state)
		return nil
	}
	fmt.Printf("value(%v) = %d\n", state, value)
	return nil
}

func parseState(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid state component %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func applyOverrides(opts *core.Options, o yamltask.OptionOverrides) {
	if o.MaxStates != 0 {
		opts.MaxStates = o.MaxStates
	}
	if o.MaxTimeSeconds != 0 {
		opts.MaxTime = time.Duration(o.MaxTimeSeconds) * time.Second
	}
	opts.Precalculation = o.Precalculation
	opts.SingleFactSplit = o.SingleFactSplit
	opts.InitialGoalSplit = o.InitialGoalSplit
	opts.Seed = o.Seed
	if o.SplitMethod == string(core.RandomUniformSplit) {
		opts.SplitMethod = core.RandomUniformSplit
	}
	switch o.SplitSelector {
	case string(core.SelectorMinStatesGain):
		opts.SplitSelector = core.SelectorMinStatesGain
	case string(core.SelectorLeastRefined):
		opts.SplitSelector = core.SelectorLeastRefined
	}
}

// Package yamltask loads a toy planning task and its core options from a
// YAML fixture, for the cegar-demo CLI. It is not part of the core: the
// core consumes only the task.Task interface, never a file format.
package yamltask

import (
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/cegarheuristic/abstraction/internal/task"
)

// rawFact mirrors task.Fact with YAML-friendly field names.
type rawFact struct {
	Var int `yaml:"var"`
	Val int `yaml:"val"`
}

// rawOperator mirrors task.Operator as read off disk.
type rawOperator struct {
	Name          string    `yaml:"name"`
	Cost          int       `yaml:"cost"`
	Preconditions []rawFact `yaml:"pre"`
	Effects       []rawFact `yaml:"effects"`
}

// rawTask is the top-level YAML document shape.
type rawTask struct {
	Domains []int             `yaml:"domains"`
	Initial []int             `yaml:"initial"`
	Goal    []rawFact         `yaml:"goal"`
	Ops     []rawOperator     `yaml:"operators"`
	Options map[string]interface{} `yaml:"options"`
}

// Task adapts a parsed rawTask to task.Task.
type Task struct {
	domains []int
	ops     []task.Operator
	initial []int
	goal    []task.Fact
}

func (t *Task) NumVariables() int          { return len(t.domains) }
func (t *Task) DomainSize(v int) int       { return t.domains[v] }
func (t *Task) Operators() []task.Operator { return t.ops }
func (t *Task) InitialState() []int        { return t.initial }
func (t *Task) GoalFacts() []task.Fact     { return t.goal }
func (t *Task) HasAxioms() bool            { return false }

// OptionOverrides is the subset of core.Options a YAML fixture may set,
// decoded leniently via mapstructure (weakly typed input, so "16" and 16
// both decode). Keys are the snake_case names in the mapstructure tags,
// matched case-insensitively; Go field names such as MaxStates are not
// recognised.
type OptionOverrides struct {
	MaxStates        int64  `mapstructure:"max_states"`
	MaxTimeSeconds    int64  `mapstructure:"max_time_seconds"`
	Precalculation   bool   `mapstructure:"precalculation"`
	SingleFactSplit  bool   `mapstructure:"singlefactsplit"`
	InitialGoalSplit bool   `mapstructure:"initial_goal_split"`
	SplitMethod      string `mapstructure:"split_method"`
	SplitSelector    string `mapstructure:"split_selector"`
	Seed             int64  `mapstructure:"seed"`
}

// Load reads path as a YAML task fixture and returns the task.Task plus
// whatever option overrides it declared.
func Load(path string) (*Task, OptionOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, OptionOverrides{}, errors.Wrapf(err, "reading task fixture %q", path)
	}

	var raw rawTask
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, OptionOverrides{}, errors.Wrapf(err, "parsing task fixture %q", path)
	}

	if len(raw.Initial) != len(raw.Domains) {
		return nil, OptionOverrides{}, errors.Errorf(
			"fixture %q: initial state has %d values, %d domains declared", path, len(raw.Initial), len(raw.Domains))
	}

	ops := make([]task.Operator, len(raw.Ops))
	for i, o := range raw.Ops {
		ops[i] = task.Operator{
			ID:            i,
			Name:          o.Name,
			Cost:          o.Cost,
			Preconditions: toFacts(o.Preconditions),
			Effects:       toFacts(o.Effects),
		}
	}

	goal := toFacts(raw.Goal)

	t := &Task{
		domains: raw.Domains,
		ops:     ops,
		initial: raw.Initial,
		goal:    goal,
	}

	var overrides OptionOverrides
	if raw.Options != nil {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &overrides,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, OptionOverrides{}, errors.Wrap(err, "building options decoder")
		}
		if err := dec.Decode(raw.Options); err != nil {
			return nil, OptionOverrides{}, errors.Wrapf(err, "decoding options in fixture %q", path)
		}
	}

	return t, overrides, nil
}

func toFacts(raw []rawFact) []task.Fact {
	out := make([]task.Fact, len(raw))
	for i, f := range raw {
		out[i] = task.Fact{Var: f.Var, Val: f.Val}
	}
	return out
}

package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cegarheuristic/abstraction/internal/abstraction"
	"github.com/cegarheuristic/abstraction/internal/budget"
	"github.com/cegarheuristic/abstraction/internal/task"
)

type fixedTask struct {
	domains []int
	ops     []task.Operator
	initial []int
	goal    []task.Fact
}

func (t fixedTask) NumVariables() int          { return len(t.domains) }
func (t fixedTask) DomainSize(v int) int       { return t.domains[v] }
func (t fixedTask) Operators() []task.Operator { return t.ops }
func (t fixedTask) InitialState() []int        { return t.initial }
func (t fixedTask) GoalFacts() []task.Fact     { return t.goal }
func (t fixedTask) HasAxioms() bool            { return false }

func buildModel(t *testing.T, ft fixedTask) *task.Model {
	t.Helper()
	m, err := task.Build(ft)
	require.NoError(t, err)
	return m
}

func domainSizes(model *task.Model) []int {
	out := make([]int, model.NumVariables())
	for v := range out {
		out[v] = model.DomainSize(v)
	}
	return out
}

func fullySplitMapping(model *task.Model) abstraction.Mapping {
	groups := make([][]int, model.NumVariables())
	for v := 0; v < model.NumVariables(); v++ {
		g := make([]int, model.DomainSize(v))
		for val := range g {
			g[val] = val
		}
		groups[v] = g
	}
	mapping, _ := abstraction.NewMapping(groups, domainSizes(model))
	return mapping
}

// twoSwitchesTask is two independent binary switches, goal both on.
func twoSwitchesTask() fixedTask {
	return fixedTask{
		domains: []int{2, 2},
		ops: []task.Operator{
			{ID: 0, Name: "flip-0", Cost: 1, Preconditions: []task.Fact{{Var: 0, Val: 0}}, Effects: []task.Fact{{Var: 0, Val: 1}}},
			{ID: 1, Name: "flip-1", Cost: 1, Preconditions: []task.Fact{{Var: 1, Val: 0}}, Effects: []task.Fact{{Var: 1, Val: 1}}},
		},
		initial: []int{0, 0},
		goal:    []task.Fact{{Var: 0, Val: 1}, {Var: 1, Val: 1}},
	}
}

func TestPrecomputedTwoSwitches(t *testing.T) {
	model := buildModel(t, twoSwitchesTask())
	abs, err := abstraction.New(model, fullySplitMapping(model), abstraction.Unlimited)
	require.NoError(t, err)

	o := New(abs, Precomputed, budget.New(budget.Unlimited, nil))

	cases := []struct {
		state []int
		want  int32
	}{
		{[]int{0, 0}, 2},
		{[]int{1, 0}, 1},
		{[]int{0, 1}, 1},
		{[]int{1, 1}, 0},
	}
	for _, c := range cases {
		got, alive := o.Value(c.state)
		assert.True(t, alive)
		assert.Equal(t, c.want, got, "state %v", c.state)
	}
}

func TestOnDemandMatchesPrecomputed(t *testing.T) {
	model := buildModel(t, twoSwitchesTask())
	abs, err := abstraction.New(model, fullySplitMapping(model), abstraction.Unlimited)
	require.NoError(t, err)

	precomputed := New(abs, Precomputed, budget.New(budget.Unlimited, nil))
	onDemand := New(abs, OnDemand, budget.New(budget.Unlimited, nil))

	for _, s := range [][]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		want, _ := precomputed.Value(s)
		got, alive := onDemand.Value(s)
		assert.True(t, alive)
		assert.Equal(t, want, got, "state %v", s)
	}
}

func TestChainTaskValue(t *testing.T) {
	// Scenario 1: single variable 0→1→2, goal v=2, initial v=0, value 2.
	model := buildModel(t, fixedTask{
		domains: []int{3},
		ops: []task.Operator{
			{ID: 0, Name: "inc-0", Cost: 1, Preconditions: []task.Fact{{Var: 0, Val: 0}}, Effects: []task.Fact{{Var: 0, Val: 1}}},
			{ID: 1, Name: "inc-1", Cost: 1, Preconditions: []task.Fact{{Var: 0, Val: 1}}, Effects: []task.Fact{{Var: 0, Val: 2}}},
		},
		initial: []int{0},
		goal:    []task.Fact{{Var: 0, Val: 2}},
	})
	abs, err := abstraction.New(model, fullySplitMapping(model), abstraction.Unlimited)
	require.NoError(t, err)

	o := New(abs, Precomputed, budget.New(budget.Unlimited, nil))
	got, alive := o.Value([]int{0})
	assert.True(t, alive)
	assert.Equal(t, int32(2), got)
}

func TestDeadEndUnsolvable(t *testing.T) {
	// Scenario 3: no operator ever reaches the goal value; value is
	// DEAD_END everywhere.
	model := buildModel(t, fixedTask{
		domains: []int{2},
		ops: []task.Operator{
			{ID: 0, Name: "noop", Cost: 1, Preconditions: []task.Fact{{Var: 0, Val: 0}}, Effects: []task.Fact{{Var: 0, Val: 0}}},
		},
		initial: []int{0},
		goal:    []task.Fact{{Var: 0, Val: 1}},
	})
	abs, err := abstraction.New(model, fullySplitMapping(model), abstraction.Unlimited)
	require.NoError(t, err)

	precomputed := New(abs, Precomputed, budget.New(budget.Unlimited, nil))
	got, alive := precomputed.Value([]int{0})
	assert.False(t, alive)
	assert.Equal(t, DeadEnd, got)

	onDemand := New(abs, OnDemand, budget.New(budget.Unlimited, nil))
	got2, alive2 := onDemand.Value([]int{0})
	assert.False(t, alive2)
	assert.Equal(t, DeadEnd, got2)
}

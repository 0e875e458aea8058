package abstraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cegarheuristic/abstraction/internal/task"
)

type fixedTask struct {
	domains []int
	ops     []task.Operator
	initial []int
	goal    []task.Fact
}

func (t fixedTask) NumVariables() int     { return len(t.domains) }
func (t fixedTask) DomainSize(v int) int  { return t.domains[v] }
func (t fixedTask) Operators() []task.Operator { return t.ops }
func (t fixedTask) InitialState() []int   { return t.initial }
func (t fixedTask) GoalFacts() []task.Fact { return t.goal }
func (t fixedTask) HasAxioms() bool       { return false }

// twoSwitchesTask: two independent binary switches, goal both on.
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

func buildModel(t *testing.T, ft fixedTask) *task.Model {
	t.Helper()
	m, err := task.Build(ft)
	require.NoError(t, err)
	return m
}

func fullySplitMapping(model *task.Model) Mapping {
	groups := make([][]int, model.NumVariables())
	for v := 0; v < model.NumVariables(); v++ {
		g := make([]int, model.DomainSize(v))
		for val := range g {
			g[val] = val
		}
		groups[v] = g
	}
	mapping, _ := NewMapping(groups, domainSizes(model))
	return mapping
}

func domainSizes(model *task.Model) []int {
	out := make([]int, model.NumVariables())
	for v := range out {
		out[v] = model.DomainSize(v)
	}
	return out
}

func TestHashInjectivity(t *testing.T) {
	model := buildModel(t, twoSwitchesTask())
	abs, err := New(model, fullySplitMapping(model), Unlimited)
	require.NoError(t, err)

	seen := make(map[int64]bool)
	total := int(abs.NumAbstractStates())
	count := 0
	var walk func(state []int, v int)
	walk = func(state []int, v int) {
		if v == model.NumVariables() {
			idx := abs.IndexOf(state)
			assert.False(t, seen[idx], "index %d produced twice", idx)
			seen[idx] = true
			count++
			return
		}
		for g := 0; g < abs.DomainSize(v); g++ {
			state[v] = g
			walk(state, v+1)
		}
	}
	walk(make([]int, model.NumVariables()), 0)

	assert.Equal(t, total, count)
	for idx := int64(0); idx < int64(total); idx++ {
		assert.True(t, seen[idx], "index %d never produced", idx)
	}
}

func TestOverflowRejectionLeavesStateUnchanged(t *testing.T) {
	model := buildModel(t, twoSwitchesTask())
	abs, err := New(model, TrivialMapping(domainSizes(model)), 1)
	require.NoError(t, err)

	before := abs.NumAbstractStates()
	err = abs.Reload(fullySplitMapping(model))
	require.Error(t, err)
	assert.True(t, IsOverflow(err))
	assert.Equal(t, before, abs.NumAbstractStates())
}

func TestGoalAbstractStatesCompleteness(t *testing.T) {
	model := buildModel(t, twoSwitchesTask())
	abs, err := New(model, fullySplitMapping(model), Unlimited)
	require.NoError(t, err)

	goals := abs.GoalAbstractStates()
	require.Len(t, goals, 1)
	assert.Equal(t, []int{1, 1}, goals[0])
	assert.True(t, abs.IsGoal(goals[0]))

	// Every non-enumerated state must fail IsGoal.
	for v0 := 0; v0 < 2; v0++ {
		for v1 := 0; v1 < 2; v1++ {
			s := []int{v0, v1}
			want := v0 == 1 && v1 == 1
			assert.Equal(t, want, abs.IsGoal(s))
		}
	}
}

func TestSuccessorPredecessorSymmetry(t *testing.T) {
	model := buildModel(t, twoSwitchesTask())
	abs, err := New(model, fullySplitMapping(model), Unlimited)
	require.NoError(t, err)

	root := abs.InitialNode()
	succs := abs.Successors(root)
	require.NotEmpty(t, succs)

	for _, s := range succs {
		preds := abs.Predecessors(s)
		found := false
		for _, p := range preds {
			if p.OpID == s.Op && p.Index == root.Index {
				found = true
				break
			}
		}
		assert.True(t, found, "successor via op %d missing matching predecessor", s.Op)
	}
}

func TestSuccessorsMinGTieBreak(t *testing.T) {
	// Two operators from the same abstract source to the same abstract
	// target with different costs: the cheaper one must win even though
	// it has the higher id.
	ft := fixedTask{
		domains: []int{2},
		ops: []task.Operator{
			{ID: 0, Name: "expensive", Cost: 5, Preconditions: []task.Fact{{Var: 0, Val: 0}}, Effects: []task.Fact{{Var: 0, Val: 1}}},
			{ID: 1, Name: "cheap", Cost: 1, Preconditions: []task.Fact{{Var: 0, Val: 0}}, Effects: []task.Fact{{Var: 0, Val: 1}}},
		},
		initial: []int{0},
		goal:    []task.Fact{{Var: 0, Val: 1}},
	}
	model := buildModel(t, ft)
	abs, err := New(model, fullySplitMapping(model), Unlimited)
	require.NoError(t, err)

	succs := abs.Successors(abs.InitialNode())
	require.Len(t, succs, 1)
	assert.Equal(t, 1, succs[0].Op)
	assert.Equal(t, 1, succs[0].G)
}

func TestMappingRefinesMonotonicity(t *testing.T) {
	trivial := TrivialMapping([]int{3})
	split := Mapping{Groups: [][]int{{0, 1, 1}}, NumGroups: []int{2}}
	fullySplit := Mapping{Groups: [][]int{{0, 1, 2}}, NumGroups: []int{3}}

	assert.True(t, split.Refines(trivial))
	assert.True(t, fullySplit.Refines(split))
	assert.False(t, trivial.Refines(split))
}

package task

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedTask is a small in-memory Task implementation used across tests.
type fixedTask struct {
	domains  []int
	ops      []Operator
	initial  []int
	goal     []Fact
	axioms   bool
}

func (t fixedTask) NumVariables() int       { return len(t.domains) }
func (t fixedTask) DomainSize(v int) int    { return t.domains[v] }
func (t fixedTask) Operators() []Operator   { return t.ops }
func (t fixedTask) InitialState() []int     { return t.initial }
func (t fixedTask) GoalFacts() []Fact       { return t.goal }
func (t fixedTask) HasAxioms() bool         { return t.axioms }

// chainTask is a single-variable fixture with domain {0,1,2}: operator 0
// takes v 0->1, operator 1 takes v 1->2, goal v=2.
func chainTask() fixedTask {
	return fixedTask{
		domains: []int{3},
		ops: []Operator{
			{ID: 0, Name: "inc-0", Cost: 1, Preconditions: []Fact{{0, 0}}, Effects: []Fact{{0, 1}}},
			{ID: 1, Name: "inc-1", Cost: 1, Preconditions: []Fact{{0, 1}}, Effects: []Fact{{0, 2}}},
		},
		initial: []int{0},
		goal:    []Fact{{0, 2}},
	}
}

func TestBuildRejectsAxioms(t *testing.T) {
	ft := chainTask()
	ft.axioms = true
	_, err := Build(ft)
	require.Error(t, err)
	assert.True(t, IsTaskRejected(err))
}

func TestBuildRejectsConditionalEffects(t *testing.T) {
	ft := chainTask()
	ft.ops[0].HasConditionalEffects = true
	_, err := Build(ft)
	require.Error(t, err)
	assert.True(t, IsTaskRejected(err))
}

func TestBuildRejectsNegativeCost(t *testing.T) {
	ft := chainTask()
	ft.ops[0].Cost = -1
	_, err := Build(ft)
	require.Error(t, err)
	assert.True(t, IsTaskRejected(err))
}

func TestPostconditionsMergePreservesPreconditionOnlyVariables(t *testing.T) {
	ft := fixedTask{
		domains: []int{2, 2},
		ops: []Operator{
			{ID: 0, Cost: 1, Preconditions: []Fact{{0, 0}, {1, 1}}, Effects: []Fact{{0, 1}}},
		},
		initial: []int{0, 1},
		goal:    []Fact{{0, 1}},
	}
	m, err := Build(ft)
	require.NoError(t, err)

	post := m.Postconditions(0)
	want := Facts{{0, 1}, {1, 1}}
	if diff := cmp.Diff(want, post); diff != "" {
		t.Fatalf("Postconditions mismatch (-want +got):\n%s", diff)
	}
}

func TestApplicableAndApply(t *testing.T) {
	m, err := Build(chainTask())
	require.NoError(t, err)

	state := m.InitialState()
	assert.Empty(t, m.Applicable(state, 0))
	assert.NotEmpty(t, m.Applicable(state, 1))

	state = m.Apply(state, 0)
	assert.Equal(t, []int{1}, state)
	assert.Empty(t, m.Applicable(state, 1))

	state = m.Apply(state, 1)
	assert.True(t, m.IsGoal(state))
	assert.Empty(t, m.GoalMismatch(state))
}

func TestGoalMismatch(t *testing.T) {
	m, err := Build(chainTask())
	require.NoError(t, err)

	mismatch := m.GoalMismatch(m.InitialState())
	require.Len(t, mismatch, 1)
	assert.Equal(t, Fact{0, 2}, mismatch[0])
}

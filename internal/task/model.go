package task

import (
	"fmt"

	"github.com/pkg/errors"
)

// compiledOperator is an Operator with its fact lists sorted and merged
// once, at Build time. Postconditions is the union of Preconditions and
// Effects, effect values winning ties — so every variable touched by the
// operator, whether pinned by a precondition or written by an effect,
// appears exactly once.
type compiledOperator struct {
	Operator
	preconditions  Facts
	postconditions Facts
}

// Model is the immutable Transition Model: a per-operator cache of
// sorted precondition/postcondition fact lists over a concrete task, plus
// concrete-state step and goal-check helpers. It is built once from a Task
// and never mutated afterward.
type Model struct {
	numVariables  int
	domainSizes   []int
	operators     []compiledOperator
	initialState  []int
	goalFacts     Facts
}

// Build validates t against the core's Non-goals and compiles its
// Transition Model. It returns a TaskRejectedError if t contains axioms,
// a conditional effect, or a negative-cost operator.
func Build(t Task) (*Model, error) {
	if t.HasAxioms() {
		return nil, NewTaskRejectedError("task defines axioms, which this core does not support")
	}

	numVars := t.NumVariables()
	domainSizes := make([]int, numVars)
	for v := 0; v < numVars; v++ {
		d := t.DomainSize(v)
		if d <= 0 {
			return nil, errors.Errorf("variable %d has non-positive domain size %d", v, d)
		}
		domainSizes[v] = d
	}

	rawOps := t.Operators()
	ops := make([]compiledOperator, len(rawOps))
	for i, op := range rawOps {
		if op.HasConditionalEffects {
			return nil, NewTaskRejectedError(fmt.Sprintf("operator %q has a conditional effect", op.Name))
		}
		if op.Cost < 0 {
			return nil, NewTaskRejectedError(fmt.Sprintf("operator %q has negative cost %d", op.Name, op.Cost))
		}
		pre := SortFacts(op.Preconditions)
		eff := SortFacts(op.Effects)
		ops[i] = compiledOperator{
			Operator:       op,
			preconditions:  pre,
			postconditions: Merge(pre, eff),
		}
	}

	initial := t.InitialState()
	if len(initial) != numVars {
		return nil, errors.Errorf("initial state has %d entries, want %d", len(initial), numVars)
	}
	state := make([]int, numVars)
	copy(state, initial)

	return &Model{
		numVariables: numVars,
		domainSizes:  domainSizes,
		operators:    ops,
		initialState: state,
		goalFacts:    SortFacts(t.GoalFacts()),
	}, nil
}

// NumVariables returns the number of finite-domain variables.
func (m *Model) NumVariables() int { return m.numVariables }

// DomainSize returns d(v).
func (m *Model) DomainSize(v int) int { return m.domainSizes[v] }

// NumOperators returns the number of ground operators.
func (m *Model) NumOperators() int { return len(m.operators) }

// Operator returns the compiled operator with the given id. Ids are dense
// and match the id assigned by the task collaborator's Operators() order.
func (m *Model) Operator(id int) Operator { return m.operators[id].Operator }

// Cost returns the cost of the operator with the given id.
func (m *Model) Cost(id int) int { return m.operators[id].Cost }

// Preconditions returns the sorted precondition fact list of operator id.
func (m *Model) Preconditions(id int) Facts { return m.operators[id].preconditions }

// Postconditions returns the sorted union of preconditions and effects for
// operator id: every variable the operator constrains or writes, each
// appearing exactly once with its post-operator value.
func (m *Model) Postconditions(id int) Facts { return m.operators[id].postconditions }

// InitialState returns a copy of the task's initial value assignment.
func (m *Model) InitialState() []int {
	out := make([]int, len(m.initialState))
	copy(out, m.initialState)
	return out
}

// GoalFacts returns the sorted goal fact list.
func (m *Model) GoalFacts() Facts { return m.goalFacts }

// Applicable reports whether every precondition fact of operator id holds
// in state, returning the empty list if so. Otherwise it returns the
// precondition facts whose value mismatches state.
func (m *Model) Applicable(state []int, id int) []Fact {
	var missed []Fact
	for _, f := range m.operators[id].preconditions {
		if state[f.Var] != f.Val {
			missed = append(missed, f)
		}
	}
	return missed
}

// Apply returns a new state with every postcondition variable of operator
// id set to its post-value; all other positions are copied unchanged from
// state. Apply does not check applicability — callers must have already
// confirmed Applicable(state, id) is empty.
func (m *Model) Apply(state []int, id int) []int {
	out := make([]int, len(state))
	copy(out, state)
	for _, f := range m.operators[id].postconditions {
		out[f.Var] = f.Val
	}
	return out
}

// GoalMismatch returns the goal facts whose value differs from state, or
// the empty list if state satisfies the goal.
func (m *Model) GoalMismatch(state []int) []Fact {
	var missed []Fact
	for _, f := range m.goalFacts {
		if state[f.Var] != f.Val {
			missed = append(missed, f)
		}
	}
	return missed
}

// IsGoal reports whether state satisfies every goal fact.
func (m *Model) IsGoal(state []int) bool {
	return len(m.GoalMismatch(state)) == 0
}

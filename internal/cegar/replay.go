package cegar

import (
	"github.com/cegarheuristic/abstraction/internal/abstraction"
	"github.com/cegarheuristic/abstraction/internal/splitter"
	"github.com/cegarheuristic/abstraction/internal/task"
)

// concreteReplay simulates trace against the concrete task starting from
// its initial state. If some transition's operator is inapplicable, it
// returns a precondition flaw at the state reached so far. If the trace
// completes but the goal is unmet, it returns a goal flaw. Otherwise it
// reports no flaw: the trace witnesses a concrete plan.
func concreteReplay(model *task.Model, trace []abstraction.Transition) (splitter.Flaw, bool) {
	state := model.InitialState()
	for _, t := range trace {
		missed := model.Applicable(state, t.OpID)
		if len(missed) > 0 {
			return splitter.Flaw{ConcreteState: state, MissedFacts: missed}, true
		}
		state = model.Apply(state, t.OpID)
	}
	if missed := model.GoalMismatch(state); len(missed) > 0 {
		return splitter.Flaw{ConcreteState: state, MissedFacts: missed}, true
	}
	return splitter.Flaw{}, false
}

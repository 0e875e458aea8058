package cegar

import (
	"github.com/cegarheuristic/abstraction/internal/abstraction"
	"github.com/cegarheuristic/abstraction/internal/budget"
	"github.com/cegarheuristic/abstraction/internal/pq"
)

// searchOutcome distinguishes "no path exists" from "we were cut off
// before we could tell" — the two are different CEGAR terminations
// (Unsolvable vs. BudgetExpired).
type searchOutcome int

const (
	outcomeGoal searchOutcome = iota
	outcomeUnsolvable
	outcomeBudgetExpired
)

// abstractSearch runs uniform-cost search over abs from its current
// initial abstract state, polling b at every pop. It performs an early
// goal check on pop, keeps a closed set keyed by abstract index,
// and never overwrites the parent of a node that set has already
// absorbed.
func abstractSearch(abs *abstraction.Abstraction, b budget.Budget) (*abstraction.Node, searchOutcome) {
	q := pq.New()
	q.Push(0, abs.InitialNode())

	closed := make(map[int64]bool)
	for q.Len() > 0 {
		if b.Expired() {
			return nil, outcomeBudgetExpired
		}
		n := q.Pop().(*abstraction.Node)
		if closed[n.Index] {
			continue
		}
		closed[n.Index] = true

		if abs.IsGoal(n.State) {
			return n, outcomeGoal
		}

		for _, succ := range abs.Successors(n) {
			if closed[succ.Index] {
				continue
			}
			q.Push(succ.G, succ)
		}
	}
	return nil, outcomeUnsolvable
}

package splitter

import (
	"github.com/cegarheuristic/abstraction/internal/abstraction"
	"github.com/cegarheuristic/abstraction/internal/task"
)

// selectOne picks a single fact from facts (len(facts) > 1) per the
// Splitter's configured Selector.
func (s *Splitter) selectOne(facts []task.Fact, abs *abstraction.Abstraction) task.Fact {
	switch s.cfg.Selector {
	case SelectMinNewStates:
		return s.selectMinNewStates(facts, abs)
	case SelectLeastRefined:
		return s.selectLeastRefined(facts, abs)
	default:
		return facts[s.rng.Intn(len(facts))]
	}
}

// selectMinNewStates picks the fact whose variable has the largest
// current G(v): splitting it grows the total abstract-state count by the
// smallest factor, (G(v)+1)/G(v). Ties go to the lowest variable id.
func (s *Splitter) selectMinNewStates(facts []task.Fact, abs *abstraction.Abstraction) task.Fact {
	best := facts[0]
	bestG := abs.DomainSize(best.Var)
	for _, f := range facts[1:] {
		g := abs.DomainSize(f.Var)
		if g > bestG || (g == bestG && f.Var < best.Var) {
			best, bestG = f, g
		}
	}
	return best
}

// selectLeastRefined picks the fact belonging to the variable with the
// smallest current G(v), maximising the growth ratio (G(v)+1)/G(v) so
// that refinement effort spreads across variables rather than
// concentrating on the most-refined one. Ties go to the lowest variable
// id.
func (s *Splitter) selectLeastRefined(facts []task.Fact, abs *abstraction.Abstraction) task.Fact {
	best := facts[0]
	bestG := abs.DomainSize(best.Var)
	for _, f := range facts[1:] {
		g := abs.DomainSize(f.Var)
		if g < bestG || (g == bestG && f.Var < best.Var) {
			best, bestG = f, g
		}
	}
	return best
}

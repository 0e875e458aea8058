// Package splitter implements the Splitter: given a flaw, it produces
// a refined group mapping per a configured strategy and scope. Acceptance
// of the candidate mapping is the Domain Abstraction's responsibility
// (Reload); the splitter itself never mutates the abstraction it reads.
package splitter

import "github.com/cegarheuristic/abstraction/internal/task"

// Strategy selects how a single missed fact's value is pulled out of its
// current group.
type Strategy int

const (
	// SingleValueSplit moves only the missed value into a new group.
	SingleValueSplit Strategy = iota
	// RandomUniformSplit additionally moves a random sample of the rest
	// of the old group into the same new group.
	RandomUniformSplit
)

// Scope selects how many of a flaw's missed facts a single refinement
// round acts on.
type Scope int

const (
	// AllMissedFacts applies Strategy to every missed fact.
	AllMissedFacts Scope = iota
	// OneMissedFact applies Strategy to exactly one missed fact, chosen
	// by a Selector.
	OneMissedFact
)

// Selector picks a single missed fact under OneMissedFact scope.
type Selector int

const (
	// SelectRandom picks uniformly at random.
	SelectRandom Selector = iota
	// SelectMinNewStates picks the fact whose split grows the total
	// abstract-state count the least.
	SelectMinNewStates
	// SelectLeastRefined picks the fact belonging to the variable with
	// the smallest current G(v) (maximising (G(v)+1)/G(v)).
	SelectLeastRefined
)

// Flaw is the concrete state and the non-empty set of facts that were
// missed at that state — either a precondition flaw (the trace's next
// operator was inapplicable) or a goal flaw (the trace completed but the
// goal was unmet). Flaw.MissedFacts names at most one fact per variable,
// by construction of a replay flaw.
type Flaw struct {
	ConcreteState []int
	MissedFacts   []task.Fact
}

package cegar

import "github.com/mitchellh/hashstructure"

// Termination names the condition that ended a CEGAR run.
type Termination int

const (
	// TerminationUnknown is the zero value; Run never returns it.
	TerminationUnknown Termination = iota
	// TerminationUnsolvable means abstract search found no path — the
	// task itself is unsolvable.
	TerminationUnsolvable
	// TerminationConcretePlan means a replay produced a concrete plan:
	// the trace is a witness, and the final abstraction is used as-is.
	TerminationConcretePlan
	// TerminationBudgetExpired means the time budget or host memory
	// pressure ended the loop mid-refinement.
	TerminationBudgetExpired
	// TerminationOverflowLimit means a refinement could not be applied
	// without exceeding the hash safety bound or max_states, and no
	// further retry was available.
	TerminationOverflowLimit
)

func (t Termination) String() string {
	switch t {
	case TerminationUnsolvable:
		return "unsolvable"
	case TerminationConcretePlan:
		return "concrete_plan"
	case TerminationBudgetExpired:
		return "budget_expired"
	case TerminationOverflowLimit:
		return "overflow_limit"
	default:
		return "unknown"
	}
}

// Stats carries the round-by-round statistics the CEGAR loop reports to
// its logger collaborator, and returns to its caller so a caller
// inspecting post-hoc behavior doesn't have to scrape log lines.
type Stats struct {
	Rounds             int
	FlawsConsidered    int
	FactsMissed        int
	FactsSplit         int
	OverflowRetries    int
	FinalShape         []int
	FinalStates        int64
	MappingFingerprint uint64
}

// fingerprintMapping returns a hashstructure fingerprint of a mapping's
// group assignment, used purely for round-boundary/determinism logging —
// never for equality decisions the core itself depends on.
func fingerprintMapping(groups [][]int) uint64 {
	h, err := hashstructure.Hash(groups, nil)
	if err != nil {
		return 0
	}
	return h
}

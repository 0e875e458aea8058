package abstraction

import "github.com/pkg/errors"

// Mapping is a group mapping: for each variable v, Groups[v][k] is the
// group id value k belongs to. Group ids within a variable must be
// dense — NumGroups[v] is cached as the count of distinct ids, i.e. G(v).
type Mapping struct {
	Groups    [][]int
	NumGroups []int
}

// NewMapping validates groups against the mapping invariants (dense ids,
// G(v) ≤ d(v)) and returns the corresponding Mapping. domainSizes gives
// d(v) for each variable, used only to check the second invariant.
func NewMapping(groups [][]int, domainSizes []int) (Mapping, error) {
	if len(groups) != len(domainSizes) {
		return Mapping{}, errors.Errorf("mapping has %d variables, task has %d", len(groups), len(domainSizes))
	}
	numGroups := make([]int, len(groups))
	for v, g := range groups {
		if len(g) != domainSizes[v] {
			return Mapping{}, errors.Errorf("variable %d: mapping has %d values, domain has %d", v, len(g), domainSizes[v])
		}
		seen := make([]bool, len(g))
		maxID := -1
		for _, id := range g {
			if id < 0 || id >= len(g) {
				return Mapping{}, errors.Errorf("variable %d: group id %d out of range", v, id)
			}
			seen[id] = true
			if id > maxID {
				maxID = id
			}
		}
		for id := 0; id <= maxID; id++ {
			if !seen[id] {
				return Mapping{}, errors.Errorf("variable %d: group ids are not dense, missing %d", v, id)
			}
		}
		numGroups[v] = maxID + 1
	}
	return Mapping{Groups: groups, NumGroups: numGroups}, nil
}

// TrivialMapping returns the "most trivial" mapping: every variable has
// exactly one group, so there is exactly one abstract state.
func TrivialMapping(domainSizes []int) Mapping {
	groups := make([][]int, len(domainSizes))
	numGroups := make([]int, len(domainSizes))
	for v, d := range domainSizes {
		groups[v] = make([]int, d)
		numGroups[v] = 1
	}
	return Mapping{Groups: groups, NumGroups: numGroups}
}

// GroupOf returns the group id value val of variable v belongs to.
func (m Mapping) GroupOf(v, val int) int {
	return m.Groups[v][val]
}

// Clone returns a deep copy of m, safe for a caller to mutate (e.g. the
// splitter building a candidate refinement).
func (m Mapping) Clone() Mapping {
	groups := make([][]int, len(m.Groups))
	for v, g := range m.Groups {
		groups[v] = append([]int(nil), g...)
	}
	numGroups := append([]int(nil), m.NumGroups...)
	return Mapping{Groups: groups, NumGroups: numGroups}
}

// Refines reports whether m is at least as refined as other: every pair of
// values that other places in different groups remains in different
// groups under m. This is the monotonicity invariant, checked pairwise
// per variable.
func (m Mapping) Refines(other Mapping) bool {
	for v, otherGroups := range other.Groups {
		// Every group in m must sit entirely inside a single group of
		// other — i.e. no new group spans two old groups. That is
		// exactly "two values separated under other stay separated
		// under m".
		seen := make(map[int]int, len(otherGroups))
		for val := range otherGroups {
			myGroup := m.Groups[v][val]
			og := otherGroups[val]
			if prev, ok := seen[myGroup]; ok {
				if prev != og {
					return false
				}
			} else {
				seen[myGroup] = og
			}
		}
	}
	return true
}

// Package task defines the read-only planning-task oracle consumed by the
// CEGAR core, and the Transition Model built once over it.
package task

import "sort"

// Fact is a (variable, value) assertion. Variables are indices in
// [0, Task.NumVariables()); values are indices into that variable's domain.
type Fact struct {
	Var int
	Val int
}

// Less gives Fact a total lexicographic order: by Var, then by Val.
func (f Fact) Less(other Fact) bool {
	if f.Var != other.Var {
		return f.Var < other.Var
	}
	return f.Val < other.Val
}

// Facts is a list of Fact values sorted by Fact.Less. Sorting does not
// remove duplicates.
type Facts []Fact

// SortFacts returns a new Facts slice containing the given facts sorted by
// the Fact.Less order. The input is not mutated.
func SortFacts(facts []Fact) Facts {
	out := make(Facts, len(facts))
	copy(out, facts)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// ValueOf returns the value assigned to var by the sorted fact list, and
// whether var appears in it at all. Facts must already be sorted by Var.
func (fs Facts) ValueOf(v int) (int, bool) {
	i := sort.Search(len(fs), func(i int) bool { return fs[i].Var >= v })
	if i < len(fs) && fs[i].Var == v {
		return fs[i].Val, true
	}
	return 0, false
}

// Merge returns the sorted union of base and overlay, with overlay's value
// winning whenever both specify the same variable. Both inputs must already
// be sorted by Var.
func Merge(base, overlay Facts) Facts {
	merged := make(Facts, 0, len(base)+len(overlay))
	i, j := 0, 0
	for i < len(base) && j < len(overlay) {
		switch {
		case base[i].Var < overlay[j].Var:
			merged = append(merged, base[i])
			i++
		case base[i].Var > overlay[j].Var:
			merged = append(merged, overlay[j])
			j++
		default:
			merged = append(merged, overlay[j])
			i++
			j++
		}
	}
	merged = append(merged, base[i:]...)
	merged = append(merged, overlay[j:]...)
	return merged
}

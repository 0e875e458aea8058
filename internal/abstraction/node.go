package abstraction

// Node is a search node in abstract-state space: an abstract state, its
// perfect-hash index, the accumulated cost to reach it, the operator that
// produced it, and an owning link to its parent for trace extraction.
type Node struct {
	State  []int
	Index  int64
	G      int
	Op     int // incoming operator id; -1 for the root/initial node.
	Parent *Node
}

// Trace walks n's parent chain back to the root and returns the
// (op, index) transitions from root to n, excluding the root itself, in
// root-to-n order.
func (n *Node) Trace() []Transition {
	var rev []Transition
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		rev = append(rev, Transition{OpID: cur.Op, TargetIndex: cur.Index})
	}
	out := make([]Transition, len(rev))
	for i, t := range rev {
		out[len(rev)-1-i] = t
	}
	return out
}

// Transition is a single (operator, target index) step of a Trace.
type Transition struct {
	OpID        int
	TargetIndex int64
}

// Edge is a predecessor relation produced by (*Abstraction).Predecessors:
// reaching State (at Index) via operator OpID costs Cost from the
// predecessor to the node Predecessors was called on.
type Edge struct {
	State []int
	Index int64
	OpID  int
	Cost  int
}

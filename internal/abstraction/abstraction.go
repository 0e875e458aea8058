// Package abstraction implements the Domain Abstraction: the group
// mapping per variable, the perfect hash from abstract state to index,
// abstract successors/predecessors, and the goal test. It is conceptually
// two coupled lookup structures — forward (value→group) and reverse
// (group→values) — plus the hash, all re-derived from the single source
// of truth (the Mapping) on every Reload.
package abstraction

import (
	"math"

	"github.com/cegarheuristic/abstraction/internal/task"
)

// Unlimited is the sentinel max-states value meaning "no cap beyond the
// 64-bit overflow bound itself".
const Unlimited int64 = -1

// snapshot is the immutable state a Reload atomically swaps in. Grouping
// every reload-derived field into one struct makes the swap itself a
// single pointer assignment, so a rejected reload can never leave the
// Abstraction partially updated.
type snapshot struct {
	mapping     Mapping
	multipliers []int64
	total       int64
	groupFacts  [][]task.Facts // groupFacts[v][g] = sorted facts (v,val) with val in group g
	goalGroups  map[int]int    // var -> required group id, for variables the goal constrains
}

// abstractOperator is a task operator's precondition/postcondition lists
// translated into group ids under the current mapping. Built lazily,
// before the first call to Predecessors after a Reload.
type abstractOperator struct {
	preGroups  map[int]int // var -> group, for precondition variables
	postVars   []int       // sorted variables touched by the postcondition
	postGroups map[int]int // var -> group, for postcondition variables
	cost       int
}

// Abstraction is the Domain Abstraction: owns the group mapping, its
// perfect hash, and the caches derived from it. It is mutated only
// through Reload, which atomically replaces mapping, multipliers,
// group→facts lookup tables, and the abstract operator pre/post lists.
type Abstraction struct {
	model     *task.Model
	maxStates int64

	cur *snapshot

	abstractOps      []abstractOperator
	abstractOpsBuilt bool
}

// New builds an Abstraction over model with the given initial mapping.
// maxStates bounds the total abstract-state count accepted by any future
// Reload; pass Unlimited for no cap beyond 64-bit overflow.
func New(model *task.Model, initial Mapping, maxStates int64) (*Abstraction, error) {
	a := &Abstraction{model: model, maxStates: maxStates}
	if err := a.Reload(initial); err != nil {
		return nil, err
	}
	return a, nil
}

// checkedMul returns a*b and true, or (0, false) if the product overflows
// a positive int64.
func checkedMul(a, b int64) (int64, bool) {
	p := a * b
	if a != 0 && (p/a != b || p <= 0) {
		return 0, false
	}
	return p, true
}

// Reload recomputes G(v), the multipliers N_v, and the total abstract
// state count for the candidate mapping. It rejects the candidate — with
// the receiver left entirely unchanged — if the computed total overflows
// 64-bit arithmetic or exceeds maxStates; this is the only legal
// non-monotone outcome.
func (a *Abstraction) Reload(mapping Mapping) error {
	numVars := a.model.NumVariables()
	multipliers := make([]int64, numVars+1)
	multipliers[0] = 1
	for v := 0; v < numVars; v++ {
		next, ok := checkedMul(multipliers[v], int64(mapping.NumGroups[v]))
		if !ok {
			return OverflowError{Computed: -1, MaxStates: a.maxStates}
		}
		multipliers[v+1] = next
	}
	total := multipliers[numVars]
	if total <= 0 {
		return OverflowError{Computed: -1, MaxStates: a.maxStates}
	}
	if a.maxStates != Unlimited && total > a.maxStates {
		return OverflowError{Computed: total, MaxStates: a.maxStates}
	}

	groupFacts := make([][]task.Facts, numVars)
	for v := 0; v < numVars; v++ {
		buckets := make([]task.Facts, mapping.NumGroups[v])
		for val := 0; val < a.model.DomainSize(v); val++ {
			g := mapping.GroupOf(v, val)
			buckets[g] = append(buckets[g], task.Fact{Var: v, Val: val})
		}
		groupFacts[v] = buckets
	}

	goalGroups := make(map[int]int, len(a.model.GoalFacts()))
	for _, f := range a.model.GoalFacts() {
		goalGroups[f.Var] = mapping.GroupOf(f.Var, f.Val)
	}

	a.cur = &snapshot{
		mapping:     mapping,
		multipliers: multipliers[:numVars],
		total:       total,
		groupFacts:  groupFacts,
		goalGroups:  goalGroups,
	}
	a.abstractOps = nil
	a.abstractOpsBuilt = false
	return nil
}

// CurrentMapping returns the mapping currently in effect. Callers that
// want to build a candidate refinement should Clone it first — the
// Abstraction owns the returned value and will discard it on the next
// Reload.
func (a *Abstraction) CurrentMapping() Mapping { return a.cur.mapping }

// NumAbstractStates returns ∏_v G(v) under the current mapping.
func (a *Abstraction) NumAbstractStates() int64 { return a.cur.total }

// DomainSize returns G(v), the number of groups variable v currently has.
func (a *Abstraction) DomainSize(v int) int { return a.cur.mapping.NumGroups[v] }

// GroupFacts returns the concrete facts (v, val) whose value currently
// belongs to group g of variable v.
func (a *Abstraction) GroupFacts(v, g int) task.Facts { return a.cur.groupFacts[v][g] }

// IndexOf computes the perfect hash of an abstract state: Σ_v N_v·s_v.
func (a *Abstraction) IndexOf(state []int) int64 {
	var idx int64
	for v, s := range state {
		idx += a.cur.multipliers[v] * int64(s)
	}
	return idx
}

// AbstractStateOf maps a full concrete value assignment to an abstract
// state under the current mapping.
func (a *Abstraction) AbstractStateOf(values []int) []int {
	out := make([]int, len(values))
	for v, val := range values {
		out[v] = a.cur.mapping.GroupOf(v, val)
	}
	return out
}

// IsGoal reports whether abstract state s satisfies the goal: for every
// goal fact (v,val), val's group equals s[v].
func (a *Abstraction) IsGoal(s []int) bool {
	for v, g := range a.cur.goalGroups {
		if s[v] != g {
			return false
		}
	}
	return true
}

// InitialNode returns the root search node: the task's initial state
// mapped through the current abstraction, g=0, no incoming operator.
func (a *Abstraction) InitialNode() *Node {
	state := a.AbstractStateOf(a.model.InitialState())
	return &Node{State: state, Index: a.IndexOf(state), G: 0, Op: -1}
}

// GoalAbstractStates enumerates every abstract state consistent with the
// goal facts under the current mapping: pinned groups for goal variables,
// every group in [0,G(v)) for the rest.
func (a *Abstraction) GoalAbstractStates() [][]int {
	numVars := a.model.NumVariables()
	freeVars := make([]int, numVars)
	admissible := make([][]int, numVars)
	for v := 0; v < numVars; v++ {
		freeVars[v] = v
		if g, ok := a.cur.goalGroups[v]; ok {
			admissible[v] = []int{g}
			continue
		}
		n := a.cur.mapping.NumGroups[v]
		list := make([]int, n)
		for k := 0; k < n; k++ {
			list[k] = k
		}
		admissible[v] = list
	}
	base := make([]int, numVars)
	var out [][]int
	enumerateCombinations(freeVars, admissible, base, func(s []int) {
		out = append(out, s)
	})
	return out
}

// Successors returns n's abstract successors: one node per distinct
// reachable index, generated by every operator whose precondition's
// group-fulfilment holds against n.State. When several operators reach
// the same index, the one with the minimum g wins; ties are broken by
// lowest operator id (guaranteed by iterating operators in ascending id
// order and only replacing on a strictly smaller g).
func (a *Abstraction) Successors(n *Node) []*Node {
	best := make(map[int64]*Node)
	var order []int64

	for id := 0; id < a.model.NumOperators(); id++ {
		if !a.groupFulfilled(a.model.Preconditions(id), n.State) {
			continue
		}
		succ := append([]int(nil), n.State...)
		for _, f := range a.model.Postconditions(id) {
			succ[f.Var] = a.cur.mapping.GroupOf(f.Var, f.Val)
		}
		idx := a.IndexOf(succ)
		g := n.G + a.model.Cost(id)
		if existing, ok := best[idx]; !ok {
			best[idx] = &Node{State: succ, Index: idx, G: g, Op: id, Parent: n}
			order = append(order, idx)
		} else if g < existing.G {
			best[idx] = &Node{State: succ, Index: idx, G: g, Op: id, Parent: n}
		}
	}

	out := make([]*Node, len(order))
	for i, idx := range order {
		out[i] = best[idx]
	}
	return out
}

// groupFulfilled reports whether every fact (v,val) in facts is fulfilled
// by abstract state s: val's group under the current mapping equals
// s[v].
func (a *Abstraction) groupFulfilled(facts task.Facts, s []int) bool {
	for _, f := range facts {
		if a.cur.mapping.GroupOf(f.Var, f.Val) != s[f.Var] {
			return false
		}
	}
	return true
}

// ensureAbstractOps lazily builds the abstract operator pre/post lists
// required by Predecessors, translating each task operator's concrete
// fact lists into group ids under the current mapping.
func (a *Abstraction) ensureAbstractOps() {
	if a.abstractOpsBuilt {
		return
	}
	n := a.model.NumOperators()
	ops := make([]abstractOperator, n)
	for id := 0; id < n; id++ {
		pre := make(map[int]int)
		for _, f := range a.model.Preconditions(id) {
			pre[f.Var] = a.cur.mapping.GroupOf(f.Var, f.Val)
		}
		post := a.model.Postconditions(id)
		postVars := make([]int, len(post))
		postGroups := make(map[int]int, len(post))
		for i, f := range post {
			postVars[i] = f.Var
			postGroups[f.Var] = a.cur.mapping.GroupOf(f.Var, f.Val)
		}
		ops[id] = abstractOperator{
			preGroups:  pre,
			postVars:   postVars,
			postGroups: postGroups,
			cost:       a.model.Cost(id),
		}
	}
	a.abstractOps = ops
	a.abstractOpsBuilt = true
}

// Predecessors returns every abstract edge reaching n via some operator:
// for each operator whose postcondition groups all match n.State, every
// valid predecessor assignment is enumerated (precondition variables
// pinned to their precondition group, post-only variables ranging over
// every group, everything else fixed at n.State), excluding the self-loop
// predecessor. The Cartesian product enumerated per operator is bounded
// by the current total abstract-state count, which Reload has already
// capped at maxStates — no separate guard is needed here.
func (a *Abstraction) Predecessors(n *Node) []Edge {
	a.ensureAbstractOps()

	var edges []Edge
	for id, op := range a.abstractOps {
		match := true
		for _, v := range op.postVars {
			if n.State[v] != op.postGroups[v] {
				match = false
				break
			}
		}
		if !match {
			continue
		}

		freeVars := op.postVars
		admissible := make([][]int, len(freeVars))
		for i, v := range freeVars {
			if g, pinned := op.preGroups[v]; pinned {
				admissible[i] = []int{g}
			} else {
				ng := a.cur.mapping.NumGroups[v]
				list := make([]int, ng)
				for k := 0; k < ng; k++ {
					list[k] = k
				}
				admissible[i] = list
			}
		}

		enumerateCombinations(freeVars, admissible, n.State, func(pred []int) {
			if equalState(pred, n.State) {
				return
			}
			edges = append(edges, Edge{
				State: pred,
				Index: a.IndexOf(pred),
				OpID:  id,
				Cost:  op.cost,
			})
		})
	}
	return edges
}

func equalState(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MaxInt64 mirrors math.MaxInt64 for callers that want to pass Unlimited
// semantics explicitly as the largest finite cap.
const MaxInt64 = int64(math.MaxInt64)

// Package heuristic implements the Heuristic Oracle: it turns a
// settled Domain Abstraction into a value function over concrete states,
// either by precomputing every abstract distance with a single backward
// Dijkstra fill, or by answering each query with an on-demand forward
// uniform-cost search.
package heuristic

import (
	"math"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/cegarheuristic/abstraction/internal/abstraction"
	"github.com/cegarheuristic/abstraction/internal/budget"
	"github.com/cegarheuristic/abstraction/internal/pq"
)

// DeadEnd is the value Oracle.Value returns for a state with no path to
// the goal in the current abstraction.
const DeadEnd int32 = -1

// infinite stands in for the table's "not yet reached" sentinel during
// Dijkstra; math.MaxInt32 is the node cost, never escapes Value, but
// surfacing a real int32 means the table itself needs no separate
// "unset" bit.
const infinite = int32(math.MaxInt32)

// Mode selects how an Oracle answers queries.
type Mode int

const (
	// Precomputed fills a full table of abstract distances up front via
	// one backward Dijkstra pass (precalculation=true).
	Precomputed Mode = iota
	// OnDemand runs a fresh forward search per distinct abstract state
	// queried, caching the result (precalculation=false).
	OnDemand
)

// Oracle is the Heuristic Oracle: a read-only view over abs (which
// the CEGAR loop must no longer mutate once the Oracle is built, per
// spec §5's sequencing contract) plus whatever table or cache its Mode
// requires.
type Oracle struct {
	abs  *abstraction.Abstraction
	mode Mode

	// table is populated once, by New, under Precomputed.
	table []int32

	// mu, cache and group serve OnDemand: concurrent queries to the same
	// abstract state are deduplicated by group and share one search.
	mu    sync.RWMutex
	cache map[int64]int32
	group singleflight.Group
}

// New constructs an Oracle over abs in the given mode. Under Precomputed
// it immediately runs the backward Dijkstra fill, polling b at every pop;
// a budget expiry mid-fill stops the fill early, and every entry it had
// not yet reached then reports DeadEnd. Under OnDemand it returns
// immediately with an empty cache.
func New(abs *abstraction.Abstraction, mode Mode, b budget.Budget) *Oracle {
	o := &Oracle{abs: abs, mode: mode}
	if mode == Precomputed {
		o.table = dijkstraFill(abs, b)
	} else {
		o.cache = make(map[int64]int32)
	}
	return o
}

// Value maps concreteState to its abstract image via the Domain
// Abstraction and returns the cached or newly computed distance. The
// second return is false exactly when the state is a dead end.
func (o *Oracle) Value(concreteState []int) (int32, bool) {
	abstractState := o.abs.AbstractStateOf(concreteState)
	idx := o.abs.IndexOf(abstractState)

	var g int32
	if o.mode == Precomputed {
		g = o.table[idx]
	} else {
		g = o.onDemand(idx, abstractState)
	}

	if g < 0 || g == infinite {
		return DeadEnd, false
	}
	return g, true
}

// onDemand returns the cached distance for the abstract state at idx,
// computing it with a fresh forward search on a cache miss. Concurrent
// callers querying the same idx share one search via group.
func (o *Oracle) onDemand(idx int64, abstractState []int) int32 {
	o.mu.RLock()
	if g, ok := o.cache[idx]; ok {
		o.mu.RUnlock()
		return g
	}
	o.mu.RUnlock()

	key := strconv.FormatInt(idx, 10)
	v, _, _ := o.group.Do(key, func() (interface{}, error) {
		o.mu.RLock()
		if g, ok := o.cache[idx]; ok {
			o.mu.RUnlock()
			return g, nil
		}
		o.mu.RUnlock()

		g := forwardSearch(o.abs, abstractState, idx, budget.New(budget.Unlimited, nil))

		o.mu.Lock()
		o.cache[idx] = g
		o.mu.Unlock()
		return g, nil
	})
	return v.(int32)
}

// dijkstraFill runs the Precomputed mode's backward Dijkstra: table[i]
// starts at +infinite everywhere, every abstract goal state seeds 0, and
// predecessors relax along the reverse edges built by
// (*abstraction.Abstraction).Predecessors.
func dijkstraFill(abs *abstraction.Abstraction, b budget.Budget) []int32 {
	total := abs.NumAbstractStates()
	table := make([]int32, total)
	for i := range table {
		table[i] = infinite
	}

	q := pq.New()
	for _, s := range abs.GoalAbstractStates() {
		idx := abs.IndexOf(s)
		table[idx] = 0
		q.Push(0, &abstraction.Node{State: s, Index: idx, G: 0, Op: -1})
	}

	for q.Len() > 0 {
		if b.Expired() {
			break
		}
		n := q.Pop().(*abstraction.Node)
		if n.G > int(table[n.Index]) {
			continue
		}
		for _, pred := range abs.Predecessors(n) {
			gPrime := n.G + pred.Cost
			if gPrime < int(table[pred.Index]) {
				table[pred.Index] = int32(gPrime)
				q.Push(gPrime, &abstraction.Node{State: pred.State, Index: pred.Index, G: gPrime, Op: pred.OpID})
			}
		}
	}
	return table
}

// forwardSearch runs the On-demand mode's per-query uniform-cost search:
// forward from abstractState (whose index is idx) until a goal pops,
// returning its g, or infinite if the open list empties first or the
// budget expires.
func forwardSearch(abs *abstraction.Abstraction, abstractState []int, idx int64, b budget.Budget) int32 {
	root := &abstraction.Node{State: abstractState, Index: idx, G: 0, Op: -1}

	q := pq.New()
	q.Push(0, root)
	closed := make(map[int64]bool)

	for q.Len() > 0 {
		if b.Expired() {
			return infinite
		}
		n := q.Pop().(*abstraction.Node)
		if closed[n.Index] {
			continue
		}
		closed[n.Index] = true

		if abs.IsGoal(n.State) {
			return int32(n.G)
		}
		for _, succ := range abs.Successors(n) {
			if closed[succ.Index] {
				continue
			}
			q.Push(succ.G, succ)
		}
	}
	return infinite
}

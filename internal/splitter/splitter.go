package splitter

import (
	"math/rand"

	"github.com/cegarheuristic/abstraction/internal/abstraction"
	"github.com/cegarheuristic/abstraction/internal/task"
)

// Config configures a Splitter's default strategy, scope and selector.
type Config struct {
	Strategy Strategy
	Scope    Scope
	Selector Selector
	// Seed drives the Splitter's random source, used by RandomUniformSplit
	// and SelectRandom. Given the same seed, abstraction and flaw, Split
	// always produces the same candidate mapping.
	Seed int64
}

// Splitter realises the refinement strategies: it turns a Flaw into a
// candidate Mapping one step more refined than the current one.
type Splitter struct {
	cfg Config
	rng *rand.Rand
}

// New returns a Splitter configured by cfg.
func New(cfg Config) *Splitter {
	return &Splitter{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Scope returns the Splitter's configured scope (ignoring any per-call
// forceOneMissedFact override), so a caller can tell whether a fallback
// from AllMissedFacts to OneMissedFact is still available.
func (s *Splitter) Scope() Scope { return s.cfg.Scope }

// Split returns a candidate refinement of abs's current mapping for flaw.
// It does not mutate abs; the caller (the CEGAR loop) is responsible for
// offering the candidate to abs.Reload and handling rejection.
//
// forceOneMissedFact overrides the configured Scope to OneMissedFact; the
// CEGAR loop uses this for its single retry after an AllMissedFacts
// refinement overflows.
func (s *Splitter) Split(flaw Flaw, abs *abstraction.Abstraction, forceOneMissedFact bool) abstraction.Mapping {
	scope := s.cfg.Scope
	if forceOneMissedFact {
		scope = OneMissedFact
	}

	facts := flaw.MissedFacts
	if scope == OneMissedFact && len(facts) > 1 {
		facts = []task.Fact{s.selectOne(flaw.MissedFacts, abs)}
	}

	mapping := abs.CurrentMapping().Clone()
	for _, f := range facts {
		s.applyStrategy(&mapping, abs, f.Var, f.Val)
	}
	return mapping
}

// SplitSingleValue returns a copy of mapping with val moved out of its
// current group in variable v and into a freshly created group of id
// G(v). This is the SingleValueSplit strategy in its bare form; the
// CEGAR loop's goal-split bootstrap uses it directly, without going
// through a Splitter or a Flaw.
func SplitSingleValue(mapping abstraction.Mapping, v, val int) abstraction.Mapping {
	out := mapping.Clone()
	moveToNewGroup(&out, v, []int{val})
	return out
}

func moveToNewGroup(mapping *abstraction.Mapping, v int, movers []int) {
	newGroup := mapping.NumGroups[v]
	for _, mv := range movers {
		mapping.Groups[v][mv] = newGroup
	}
	mapping.NumGroups[v] = newGroup + 1
}

// applyStrategy moves val out of its current group in variable v into a
// freshly created group, mutating mapping in place. Under
// RandomUniformSplit it also moves a random sample of val's former
// groupmates along with it.
func (s *Splitter) applyStrategy(mapping *abstraction.Mapping, abs *abstraction.Abstraction, v, val int) {
	oldGroup := mapping.Groups[v][val]
	movers := []int{val}
	if s.cfg.Strategy == RandomUniformSplit {
		groupmates := abs.GroupFacts(v, oldGroup)
		var others []int
		for _, f := range groupmates {
			if f.Val != val {
				others = append(others, f.Val)
			}
		}
		n := (len(groupmates) - 1) / 2
		movers = append(movers, sampleWithoutReplacement(s.rng, others, n)...)
	}
	moveToNewGroup(mapping, v, movers)
}

// sampleWithoutReplacement returns n elements of population chosen
// uniformly at random without replacement, using rng. It does not mutate
// population.
func sampleWithoutReplacement(rng *rand.Rand, population []int, n int) []int {
	if n >= len(population) {
		out := append([]int(nil), population...)
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
	pool := append([]int(nil), population...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:n]
}

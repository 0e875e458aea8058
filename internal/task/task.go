package task

// Operator is a ground planning operator: a non-negative cost, a
// precondition fact list, and an effect fact list. Both lists are
// supplied in the order the task collaborator produced them; the
// Transition Model is responsible for sorting and merging them.
type Operator struct {
	ID                    int
	Name                  string
	Cost                  int
	Preconditions         []Fact
	Effects               []Fact
	HasConditionalEffects bool
}

// Task is the read-only oracle the core consumes. It is supplied by an
// external collaborator (the planner's task front-end); the core never
// mutates it and never parses planning files itself.
type Task interface {
	// NumVariables returns the number of finite-domain variables.
	NumVariables() int
	// DomainSize returns d(v), the number of values variable v can take.
	DomainSize(v int) int
	// Operators returns every ground operator, in a stable, ID-ordered
	// sequence.
	Operators() []Operator
	// InitialState returns a full value assignment, one entry per
	// variable.
	InitialState() []int
	// GoalFacts returns the conjunctive goal.
	GoalFacts() []Fact
	// HasAxioms reports whether the task defines derived-variable axioms.
	// The core rejects any task for which this returns true.
	HasAxioms() bool
}

package models

// Term represents a semester term
type Term string

// Term constants
const (
	TermSpring Term = "SPRING"
	TermSummer Term = "SUMMER"
	TermFall   Term = "FALL"
)

// termRank orders terms within a calendar year (Spring < Summer < Fall)
var termRank = map[Term]int{
	TermSpring: 0,
	TermSummer: 1,
	TermFall:   2,
}

// Rank returns the within-year ordering of the term. Unknown terms sort last.
func (t Term) Rank() int {
	if r, ok := termRank[t]; ok {
		return r
	}
	return len(termRank)
}

// IsValid reports whether the term is one of the known term constants
func (t Term) IsValid() bool {
	_, ok := termRank[t]
	return ok
}

// OptimizationPriority selects the sequencing strategy used by the optimizer
type OptimizationPriority string

// Optimization priority constants
const (
	PriorityMinimizeTime      OptimizationPriority = "MINIMIZE_TIME"
	PriorityBalanceDifficulty OptimizationPriority = "BALANCE_DIFFICULTY"
	PriorityBalanceWorkload   OptimizationPriority = "BALANCE_WORKLOAD"
	PriorityMinimizeCost      OptimizationPriority = "MINIMIZE_COST"
	PriorityMultiCriteria     OptimizationPriority = "MULTI_CRITERIA"
)

// PrerequisiteLogic combines multiple prerequisite edges for one course
type PrerequisiteLogic string

// Prerequisite logic constants
const (
	LogicAnd PrerequisiteLogic = "AND"
	LogicOr  PrerequisiteLogic = "OR"
)

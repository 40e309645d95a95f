package planning

import (
	"fmt"
	"sort"

	"github.com/campusware/degreeplanner/internal/app/models"
)

// AssignInput bundles everything the assigner needs to place the remaining
// courses into semesters. The assigner never mutates its input.
type AssignInput struct {
	Start     models.SemesterUnit
	Courses   []*models.Course // remaining required courses, not yet completed
	Chain     *models.PrerequisiteChainResult
	Offerings models.OfferedTermSet
	Completed map[int64]bool // externally completed course ids

	TargetCredits        float64
	SummerCreditFraction float64 // target multiplier for Summer semesters
	IncludeSummer        bool

	// GraduationTarget caps the loop at target + safety margin. The zero
	// value derives a bound from the start semester instead.
	GraduationTarget models.SemesterUnit

	// AvoidTerms are skipped entirely during placement
	AvoidTerms []models.Term

	AssumeOfferedWhenUnknown bool

	// MaxDifficultCourses caps hard courses per semester for the
	// difficulty-balancing strategy; zero means the strategy default
	MaxDifficultCourses int
}

// AssignResult is a draft sequence: ordered semester plans plus any courses
// that could not be placed before the safety bound.
type AssignResult struct {
	Semesters []models.SemesterPlan
	Unplaced  []int64
	Warnings  []string
}

// SelectionStrategy picks courses for one semester out of the eligible
// candidates, respecting the credit budget. Candidates arrive pre-filtered:
// offered this term with all strict prerequisites satisfied.
type SelectionStrategy func(candidates []*models.Course, budget float64) []*models.Course

// Extra years of semester advancement allowed past the graduation target.
// This bound is the termination guarantee for malformed prerequisite data.
const safetyMarginYears = 2

// Fallback planning horizon when no graduation target is set
const defaultHorizonYears = 6

// SequenceAssigner places courses into semesters level-by-level, walking
// terms forward from the start until everything is placed or the safety
// bound is reached.
type SequenceAssigner struct{}

// NewSequenceAssigner creates a new sequence assigner instance
func NewSequenceAssigner() *SequenceAssigner {
	return &SequenceAssigner{}
}

// Assign produces a draft sequence using the default priority strategy:
// critical-path courses first, then lower-level courses, then higher credit
// hours.
func (a *SequenceAssigner) Assign(in AssignInput) AssignResult {
	return a.AssignWith(in, DefaultPriorityStrategy(in.Chain))
}

// AssignWith produces a draft sequence using the given selection strategy.
// Semesters where nothing can be placed are skipped without producing an
// empty plan; the safety bound guarantees the loop terminates even when
// courses remain blocked forever.
func (a *SequenceAssigner) AssignWith(in AssignInput, pick SelectionStrategy) AssignResult {
	var result AssignResult

	remaining := make(map[int64]*models.Course, len(in.Courses))
	order := make([]int64, 0, len(in.Courses))
	for _, c := range in.Courses {
		if in.Completed[c.ID] {
			continue
		}
		remaining[c.ID] = c
		order = append(order, c.ID)
	}

	satisfied := make(map[int64]bool, len(in.Completed)+len(remaining))
	for id := range in.Completed {
		satisfied[id] = true
	}

	avoid := make(map[models.Term]bool, len(in.AvoidTerms))
	for _, t := range in.AvoidTerms {
		avoid[t] = true
	}

	bound := a.bound(in)
	semester := in.Start

	for len(remaining) > 0 && !semester.After(bound) {
		if avoid[semester.Term] {
			semester = semester.Next(in.IncludeSummer)
			continue
		}

		target := in.TargetCredits
		if semester.Term == models.TermSummer {
			target *= in.SummerCreditFraction
		}

		eligible := a.eligibleCourses(in, remaining, order, satisfied, semester.Term)
		if len(eligible) == 0 {
			semester = semester.Next(in.IncludeSummer)
			continue
		}

		picked := pick(eligible, target)
		if len(picked) == 0 {
			// Nothing fits the budget. A single required course larger than
			// the cap gets its own semester and a warning; silently leaving
			// it unplaced would deadlock against the cap forever.
			if over := firstOverCap(eligible, target); over != nil {
				picked = []*models.Course{over}
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"course %s (%.1f credits) exceeds the per-semester credit target of %.1f and was placed alone in %s",
					over.Code(), over.CreditHours, target, semester))
			} else {
				semester = semester.Next(in.IncludeSummer)
				continue
			}
		}

		plan := models.SemesterPlan{Semester: semester}
		for _, c := range picked {
			plan.AddCourse(models.PlannedCourse{
				CourseID:         c.ID,
				CourseCode:       c.Code(),
				Semester:         semester,
				CreditHours:      c.CreditHours,
				Cost:             CourseCost(c),
				DifficultyRating: DifficultyRating(c),
				Required:         true,
				Status:           models.StatusPlanned,
				Prerequisites:    c.Prerequisites,
			})
		}
		result.Semesters = append(result.Semesters, plan)

		// Mark planned courses as satisfied only after the whole semester is
		// built, so strict prerequisites can never be met in-semester.
		for _, c := range picked {
			satisfied[c.ID] = true
			delete(remaining, c.ID)
		}

		semester = semester.Next(in.IncludeSummer)
	}

	if len(remaining) > 0 {
		for _, id := range order {
			if _, ok := remaining[id]; ok {
				result.Unplaced = append(result.Unplaced, id)
			}
		}
		sort.Slice(result.Unplaced, func(i, j int) bool { return result.Unplaced[i] < result.Unplaced[j] })
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%d course(s) could not be placed before the planning horizon %s",
			len(result.Unplaced), bound))
	}

	return result
}

// bound computes the last semester the loop may reach
func (a *SequenceAssigner) bound(in AssignInput) models.SemesterUnit {
	if in.GraduationTarget.Term.IsValid() {
		return models.SemesterUnit{
			Term: in.GraduationTarget.Term,
			Year: in.GraduationTarget.Year + safetyMarginYears,
		}
	}
	return models.SemesterUnit{Term: models.TermFall, Year: in.Start.Year + defaultHorizonYears}
}

// eligibleCourses filters the remaining courses down to those offered this
// term with every strict prerequisite already satisfied. Corequisite edges
// never block placement; the validator checks them afterwards.
func (a *SequenceAssigner) eligibleCourses(
	in AssignInput,
	remaining map[int64]*models.Course,
	order []int64,
	satisfied map[int64]bool,
	term models.Term,
) []*models.Course {
	var eligible []*models.Course
	for _, id := range order {
		c, ok := remaining[id]
		if !ok {
			continue
		}
		if !in.Offerings.IsOffered(c.ID, term, in.AssumeOfferedWhenUnknown) {
			continue
		}
		if !strictPrereqsSatisfied(c, remaining, satisfied) {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}

// strictPrereqsSatisfied checks every strict, non-corequisite edge of the
// course. Required courses outside the planning set count as satisfied
// externally. OR groups need any one member satisfied.
func strictPrereqsSatisfied(c *models.Course, remaining map[int64]*models.Course, satisfied map[int64]bool) bool {
	orSeen := false
	orMet := false
	for _, e := range c.Prerequisites {
		if !e.Strict || e.Corequisite {
			continue
		}
		met := satisfied[e.RequiredCourseID] || outsidePlanningSet(e.RequiredCourseID, remaining, satisfied)
		if e.Logic == models.LogicOr {
			orSeen = true
			orMet = orMet || met
			continue
		}
		if !met {
			return false
		}
	}
	if orSeen && !orMet {
		return false
	}
	return true
}

// outsidePlanningSet reports whether the required course is neither pending
// nor already satisfied, i.e. external to the planning request entirely
func outsidePlanningSet(id int64, remaining map[int64]*models.Course, satisfied map[int64]bool) bool {
	_, pending := remaining[id]
	return !pending && !satisfied[id]
}

// firstOverCap finds an eligible course whose credit hours alone exceed the
// budget, preferring the smallest such course
func firstOverCap(eligible []*models.Course, budget float64) *models.Course {
	var best *models.Course
	for _, c := range eligible {
		if c.CreditHours <= budget {
			continue
		}
		if best == nil || c.CreditHours < best.CreditHours {
			best = c
		}
	}
	return best
}

// DefaultPriorityStrategy packs a semester greedily, highest priority first.
// Priority favors critical-path membership, then earlier topological levels,
// then higher credit hours. Course id breaks remaining ties for determinism.
func DefaultPriorityStrategy(chain *models.PrerequisiteChainResult) SelectionStrategy {
	onPath := make(map[int64]bool)
	levelOf := make(map[int64]int)
	if chain != nil {
		for _, id := range chain.CriticalPath {
			onPath[id] = true
		}
		for i, level := range chain.Levels {
			for _, id := range level {
				levelOf[id] = i
			}
		}
	}

	return func(candidates []*models.Course, budget float64) []*models.Course {
		sorted := make([]*models.Course, len(candidates))
		copy(sorted, candidates)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if onPath[a.ID] != onPath[b.ID] {
				return onPath[a.ID]
			}
			if levelOf[a.ID] != levelOf[b.ID] {
				return levelOf[a.ID] < levelOf[b.ID]
			}
			if a.CreditHours != b.CreditHours {
				return a.CreditHours > b.CreditHours
			}
			return a.ID < b.ID
		})
		return packByCredits(sorted, budget)
	}
}

// packByCredits adds courses in order while the running total stays within
// budget; overflow is deferred to a later semester rather than dropped
func packByCredits(sorted []*models.Course, budget float64) []*models.Course {
	var picked []*models.Course
	total := 0.0
	for _, c := range sorted {
		if total+c.CreditHours > budget {
			continue
		}
		picked = append(picked, c)
		total += c.CreditHours
	}
	return picked
}

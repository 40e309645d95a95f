package planning

import (
	"fmt"

	"github.com/campusware/degreeplanner/internal/app/models"
)

// ConstraintType identifies an explicit planning constraint
type ConstraintType string

// Constraint type constants
const (
	ConstraintCreditLimit        ConstraintType = "CREDIT_LIMIT"
	ConstraintPrerequisite       ConstraintType = "PREREQUISITE"
	ConstraintTermAvailability   ConstraintType = "TERM_AVAILABILITY"
	ConstraintCourseConflict     ConstraintType = "COURSE_CONFLICT"
	ConstraintGraduationDeadline ConstraintType = "GRADUATION_DEADLINE"
	ConstraintFinancialLimit     ConstraintType = "FINANCIAL_LIMIT"
)

// Severity grades how serious a constraint violation is
type Severity string

// Severity constants
const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Points returns the numeric weight of the severity for aggregate scoring
func (s Severity) Points() float64 {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 5
	}
	return 0
}

// PlanConstraint is one explicit rule a plan is checked against. Only the
// fields relevant to the constraint type are read.
type PlanConstraint struct {
	Type   ConstraintType `json:"type"`
	Hard   bool           `json:"hard"`
	Weight float64        `json:"weight"` // defaults to 1 when zero

	MaxCredits         float64              `json:"maxCredits,omitempty"`         // CreditLimit
	MinCredits         float64              `json:"minCredits,omitempty"`         // CreditLimit
	AvoidTerms         []models.Term        `json:"avoidTerms,omitempty"`         // TermAvailability
	ConflictPairs      [][2]int64           `json:"conflictPairs,omitempty"`      // CourseConflict
	Deadline           *models.SemesterUnit `json:"deadline,omitempty"`           // GraduationDeadline
	MaxCostPerSemester float64              `json:"maxCostPerSemester,omitempty"` // FinancialLimit
}

// ConstraintViolation is one broken constraint with its severity
type ConstraintViolation struct {
	Type     ConstraintType       `json:"type"`
	Severity Severity             `json:"severity"`
	Semester *models.SemesterUnit `json:"semester,omitempty"`
	Message  string               `json:"message"`
}

// ConstraintValidationResult aggregates constraint violations, a weighted
// severity score and qualitative resolution recommendations.
type ConstraintValidationResult struct {
	Violations      []ConstraintViolation `json:"violations"`
	SeverityScore   float64               `json:"severityScore"`
	Recommendations []string              `json:"recommendations,omitempty"`
}

// ConstraintValidator checks a sequence plan against explicit hard/soft
// planning constraints
type ConstraintValidator struct {
	prereqs *PrerequisiteValidator
}

// NewConstraintValidator creates a new constraint validator instance
func NewConstraintValidator() *ConstraintValidator {
	return &ConstraintValidator{prereqs: NewPrerequisiteValidator()}
}

// Validate evaluates every constraint against the plan. The completed set
// feeds the prerequisite constraint; pass nil when the student has no
// completed courses.
func (v *ConstraintValidator) Validate(plan *models.SequencePlan, constraints []PlanConstraint, completed map[int64]bool) *ConstraintValidationResult {
	result := &ConstraintValidationResult{}

	for _, c := range constraints {
		var violations []ConstraintViolation
		switch c.Type {
		case ConstraintCreditLimit:
			violations = v.checkCreditLimit(plan, c)
		case ConstraintPrerequisite:
			violations = v.checkPrerequisites(plan, c, completed)
		case ConstraintTermAvailability:
			violations = v.checkTermAvailability(plan, c)
		case ConstraintCourseConflict:
			violations = v.checkCourseConflicts(plan, c)
		case ConstraintGraduationDeadline:
			violations = v.checkGraduationDeadline(plan, c)
		case ConstraintFinancialLimit:
			violations = v.checkFinancialLimit(plan, c)
		}

		weight := c.Weight
		if weight == 0 {
			weight = 1
		}
		for _, violation := range violations {
			result.Violations = append(result.Violations, violation)
			result.SeverityScore += violation.Severity.Points() * weight
		}
	}

	if len(result.Violations) > 0 {
		result.Recommendations = recommendations(result.Violations)
	}
	return result
}

// severityFor grades a violation: hard constraints are one band more severe
// than soft ones
func severityFor(c PlanConstraint, soft Severity) Severity {
	if !c.Hard {
		return soft
	}
	switch soft {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

func (v *ConstraintValidator) checkCreditLimit(plan *models.SequencePlan, c PlanConstraint) []ConstraintViolation {
	var out []ConstraintViolation
	for i := range plan.Semesters {
		sem := plan.Semesters[i]
		if c.MaxCredits > 0 && sem.TotalCredits > c.MaxCredits {
			unit := sem.Semester
			out = append(out, ConstraintViolation{
				Type:     ConstraintCreditLimit,
				Severity: severityFor(c, SeverityMedium),
				Semester: &unit,
				Message:  fmt.Sprintf("%s carries %.1f credits, above the limit of %.1f", unit, sem.TotalCredits, c.MaxCredits),
			})
		}
		if c.MinCredits > 0 && sem.TotalCredits < c.MinCredits {
			unit := sem.Semester
			out = append(out, ConstraintViolation{
				Type:     ConstraintCreditLimit,
				Severity: severityFor(c, SeverityLow),
				Semester: &unit,
				Message:  fmt.Sprintf("%s carries %.1f credits, below the minimum of %.1f", unit, sem.TotalCredits, c.MinCredits),
			})
		}
	}
	return out
}

func (v *ConstraintValidator) checkPrerequisites(plan *models.SequencePlan, c PlanConstraint, completed map[int64]bool) []ConstraintViolation {
	res := v.prereqs.Validate(plan.Flatten(), completed)
	var out []ConstraintViolation
	for unit, violations := range res.BySemester {
		for _, pv := range violations {
			u := unit
			out = append(out, ConstraintViolation{
				Type:     ConstraintPrerequisite,
				Severity: severityFor(c, SeverityHigh),
				Semester: &u,
				Message:  fmt.Sprintf("course %s in %s: prerequisite %d %s", pv.CourseCode, unit, pv.RequiredCourseID, violationText(pv.Type)),
			})
		}
	}
	return out
}

func violationText(t PrerequisiteViolationType) string {
	if t == ViolationCorequisiteNotMet {
		return "is not taken concurrently or earlier"
	}
	return "is not completed in an earlier semester"
}

func (v *ConstraintValidator) checkTermAvailability(plan *models.SequencePlan, c PlanConstraint) []ConstraintViolation {
	avoid := make(map[models.Term]bool, len(c.AvoidTerms))
	for _, t := range c.AvoidTerms {
		avoid[t] = true
	}
	var out []ConstraintViolation
	for i := range plan.Semesters {
		sem := plan.Semesters[i]
		if avoid[sem.Semester.Term] && len(sem.Courses) > 0 {
			unit := sem.Semester
			out = append(out, ConstraintViolation{
				Type:     ConstraintTermAvailability,
				Severity: severityFor(c, SeverityLow),
				Semester: &unit,
				Message:  fmt.Sprintf("%d course(s) scheduled in avoided term %s", len(sem.Courses), unit),
			})
		}
	}
	return out
}

func (v *ConstraintValidator) checkCourseConflicts(plan *models.SequencePlan, c PlanConstraint) []ConstraintViolation {
	var out []ConstraintViolation
	for i := range plan.Semesters {
		sem := plan.Semesters[i]
		inSem := make(map[int64]bool, len(sem.Courses))
		for _, pc := range sem.Courses {
			inSem[pc.CourseID] = true
		}
		for _, pair := range c.ConflictPairs {
			if inSem[pair[0]] && inSem[pair[1]] {
				unit := sem.Semester
				out = append(out, ConstraintViolation{
					Type:     ConstraintCourseConflict,
					Severity: severityFor(c, SeverityMedium),
					Semester: &unit,
					Message:  fmt.Sprintf("courses %d and %d conflict in %s", pair[0], pair[1], unit),
				})
			}
		}
	}
	return out
}

func (v *ConstraintValidator) checkGraduationDeadline(plan *models.SequencePlan, c PlanConstraint) []ConstraintViolation {
	if c.Deadline == nil || len(plan.Semesters) == 0 {
		return nil
	}
	last := plan.Semesters[len(plan.Semesters)-1].Semester
	if !last.After(*c.Deadline) {
		return nil
	}
	return []ConstraintViolation{{
		Type:     ConstraintGraduationDeadline,
		Severity: severityFor(c, SeverityHigh),
		Semester: &last,
		Message:  fmt.Sprintf("plan completes in %s, after the graduation deadline %s", last, *c.Deadline),
	}}
}

func (v *ConstraintValidator) checkFinancialLimit(plan *models.SequencePlan, c PlanConstraint) []ConstraintViolation {
	if c.MaxCostPerSemester <= 0 {
		return nil
	}
	var out []ConstraintViolation
	for i := range plan.Semesters {
		sem := plan.Semesters[i]
		cost := 0.0
		for _, pc := range sem.Courses {
			cost += pc.Cost
		}
		if cost > c.MaxCostPerSemester {
			unit := sem.Semester
			out = append(out, ConstraintViolation{
				Type:     ConstraintFinancialLimit,
				Severity: severityFor(c, SeverityMedium),
				Semester: &unit,
				Message:  fmt.Sprintf("estimated cost %.0f in %s exceeds the per-semester budget %.0f", cost, unit, c.MaxCostPerSemester),
			})
		}
	}
	return out
}

// recommendations turns violations into qualitative resolution hints
func recommendations(violations []ConstraintViolation) []string {
	seen := make(map[ConstraintType]bool)
	var out []string
	for _, v := range violations {
		if seen[v.Type] {
			continue
		}
		seen[v.Type] = true
		switch v.Type {
		case ConstraintCreditLimit:
			out = append(out, "rebalance credit loads by moving a course from an overloaded semester to a lighter one")
		case ConstraintPrerequisite:
			out = append(out, "move the violating course to a semester after its prerequisite completes")
		case ConstraintTermAvailability:
			out = append(out, "shift courses out of avoided terms into adjacent semesters")
		case ConstraintCourseConflict:
			out = append(out, "separate conflicting courses into different semesters")
		case ConstraintGraduationDeadline:
			out = append(out, "raise the per-semester credit load or add Summer semesters to finish sooner")
		case ConstraintFinancialLimit:
			out = append(out, "spread high-cost courses across more semesters to stay within budget")
		}
	}
	return out
}

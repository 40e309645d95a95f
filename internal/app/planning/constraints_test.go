package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusware/degreeplanner/internal/app/models"
)

func testPlan(semesters ...models.SemesterPlan) *models.SequencePlan {
	plan := &models.SequencePlan{
		StudentID:      "s-1",
		DegreeCode:     "CS-BS",
		StartSemester:  fall(2026),
		Semesters:      semesters,
		TotalSemesters: len(semesters),
	}
	for _, s := range semesters {
		plan.TotalCredits += s.TotalCredits
	}
	return plan
}

func semesterOf(unit models.SemesterUnit, courses ...models.PlannedCourse) models.SemesterPlan {
	sem := models.SemesterPlan{Semester: unit}
	for _, c := range courses {
		sem.AddCourse(c)
	}
	return sem
}

func TestConstraints_CreditLimitViolations(t *testing.T) {
	f26 := fall(2026)
	plan := testPlan(semesterOf(f26,
		planned(1, f26), planned(2, f26), planned(3, f26),
		planned(4, f26), planned(5, f26), planned(6, f26), // 18 credits
	))

	result := NewConstraintValidator().Validate(plan, []PlanConstraint{
		{Type: ConstraintCreditLimit, MaxCredits: 15, Hard: true},
	}, nil)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, ConstraintCreditLimit, result.Violations[0].Type)
	assert.Equal(t, SeverityHigh, result.Violations[0].Severity)
	assert.Greater(t, result.SeverityScore, 0.0)
	assert.NotEmpty(t, result.Recommendations)
}

func TestConstraints_SoftViolationLowerSeverity(t *testing.T) {
	f26 := fall(2026)
	plan := testPlan(semesterOf(f26, planned(1, f26))) // 3 credits

	result := NewConstraintValidator().Validate(plan, []PlanConstraint{
		{Type: ConstraintCreditLimit, MinCredits: 12, Hard: false},
	}, nil)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, SeverityLow, result.Violations[0].Severity)
}

func TestConstraints_PrerequisiteViolationSurfaces(t *testing.T) {
	f26 := fall(2026)
	plan := testPlan(semesterOf(f26,
		planned(1, f26),
		planned(2, f26, strictEdge(2, 1)),
	))

	result := NewConstraintValidator().Validate(plan, []PlanConstraint{
		{Type: ConstraintPrerequisite, Hard: true},
	}, nil)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, ConstraintPrerequisite, result.Violations[0].Type)
	assert.Equal(t, SeverityCritical, result.Violations[0].Severity)
}

func TestConstraints_GraduationDeadline(t *testing.T) {
	f26 := fall(2026)
	f28 := models.SemesterUnit{Term: models.TermFall, Year: 2028}
	plan := testPlan(
		semesterOf(f26, planned(1, f26)),
		semesterOf(f28, planned(2, f28)),
	)
	deadline := models.SemesterUnit{Term: models.TermSpring, Year: 2028}

	result := NewConstraintValidator().Validate(plan, []PlanConstraint{
		{Type: ConstraintGraduationDeadline, Deadline: &deadline},
	}, nil)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, ConstraintGraduationDeadline, result.Violations[0].Type)
}

func TestConstraints_TermAvailability(t *testing.T) {
	su27 := models.SemesterUnit{Term: models.TermSummer, Year: 2027}
	plan := testPlan(semesterOf(su27, planned(1, su27)))

	result := NewConstraintValidator().Validate(plan, []PlanConstraint{
		{Type: ConstraintTermAvailability, AvoidTerms: []models.Term{models.TermSummer}},
	}, nil)

	require.Len(t, result.Violations, 1)
}

func TestConstraints_CourseConflict(t *testing.T) {
	f26 := fall(2026)
	plan := testPlan(semesterOf(f26, planned(1, f26), planned(2, f26)))

	result := NewConstraintValidator().Validate(plan, []PlanConstraint{
		{Type: ConstraintCourseConflict, ConflictPairs: [][2]int64{{1, 2}}},
	}, nil)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, ConstraintCourseConflict, result.Violations[0].Type)
}

func TestConstraints_FinancialLimit(t *testing.T) {
	f26 := fall(2026)
	expensive := planned(1, f26)
	expensive.Cost = 5000

	plan := testPlan(semesterOf(f26, expensive))

	result := NewConstraintValidator().Validate(plan, []PlanConstraint{
		{Type: ConstraintFinancialLimit, MaxCostPerSemester: 4000},
	}, nil)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, ConstraintFinancialLimit, result.Violations[0].Type)
}

func TestConstraints_CleanPlanNoViolations(t *testing.T) {
	f26 := fall(2026)
	plan := testPlan(semesterOf(f26, planned(1, f26)))

	result := NewConstraintValidator().Validate(plan, []PlanConstraint{
		{Type: ConstraintCreditLimit, MaxCredits: 15},
		{Type: ConstraintPrerequisite},
	}, nil)

	assert.Empty(t, result.Violations)
	assert.Zero(t, result.SeverityScore)
	assert.Empty(t, result.Recommendations)
}

func TestConstraints_WeightScalesSeverityScore(t *testing.T) {
	f26 := fall(2026)
	plan := testPlan(semesterOf(f26,
		planned(1, f26), planned(2, f26), planned(3, f26),
		planned(4, f26), planned(5, f26), planned(6, f26),
	))

	light := NewConstraintValidator().Validate(plan, []PlanConstraint{
		{Type: ConstraintCreditLimit, MaxCredits: 15, Weight: 1},
	}, nil)
	heavy := NewConstraintValidator().Validate(plan, []PlanConstraint{
		{Type: ConstraintCreditLimit, MaxCredits: 15, Weight: 3},
	}, nil)

	assert.Equal(t, light.SeverityScore*3, heavy.SeverityScore)
}

package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusware/degreeplanner/internal/app/models"
)

func leveledCourse(id int64, level int, credits float64, prereqs ...int64) *models.Course {
	c := course(id, credits, prereqs...)
	c.Level = level
	return c
}

// threeLevelCatalog builds a 10-course, 3-level graph with no offering
// restrictions: four base courses, three depending on course 1, and three
// depending on course 5.
func threeLevelCatalog() []*models.Course {
	return []*models.Course{
		course(1, 3), course(2, 3), course(3, 3), course(4, 3),
		course(5, 3, 1), course(6, 3, 1), course(7, 3, 1),
		course(8, 3, 5), course(9, 3, 5), course(10, 3, 5),
	}
}

func optimizeInput(t *testing.T, courses []*models.Course, priority models.OptimizationPriority) OptimizeInput {
	t.Helper()
	in := assignInput(t, courses)
	return OptimizeInput{
		StudentID:  "s-1",
		DegreeCode: "CS-BS",
		Assign:     in,
		Request:    OptimizationRequest{Priority: priority},
	}
}

func TestOptimizer_MinimizeTimeConvergesToLevelCount(t *testing.T) {
	courses := threeLevelCatalog()
	in := optimizeInput(t, courses, models.PriorityMinimizeTime)
	in.Assign.TargetCredits = 30 // non-binding

	result, err := NewPlanOptimizer().Optimize(in)
	require.NoError(t, err)

	best := result.Best
	require.NotNil(t, best)
	assert.Equal(t, models.PriorityMinimizeTime, best.Strategy)
	assert.Equal(t, in.Assign.Chain.TotalLevels(), best.Metrics.Semesters,
		"with unlimited offerings and a non-binding cap, one level per semester")
	assert.Zero(t, best.Metrics.UnplacedCourses)
}

func TestOptimizer_GeneratesOneOptionPerStrategy(t *testing.T) {
	result, err := NewPlanOptimizer().Optimize(optimizeInput(t, threeLevelCatalog(), models.PriorityMinimizeTime))
	require.NoError(t, err)

	require.Len(t, result.Options, len(simpleStrategies))
	seen := make(map[models.OptimizationPriority]bool)
	for _, opt := range result.Options {
		seen[opt.Strategy] = true
		assert.GreaterOrEqual(t, opt.Score, 0.0)
		assert.LessOrEqual(t, opt.Score, 100.0)
		require.NotNil(t, opt.Plan)
	}
	assert.Len(t, seen, len(simpleStrategies))
}

func TestOptimizer_OptionsRankedByScore(t *testing.T) {
	result, err := NewPlanOptimizer().Optimize(optimizeInput(t, threeLevelCatalog(), models.PriorityMultiCriteria))
	require.NoError(t, err)

	for i := 1; i < len(result.Options); i++ {
		assert.GreaterOrEqual(t, result.Options[i-1].Score, result.Options[i].Score)
	}
	assert.Equal(t, result.Options[0].Strategy, result.Best.Strategy)
}

func TestOptimizer_BestMatchesRequestedPriority(t *testing.T) {
	result, err := NewPlanOptimizer().Optimize(optimizeInput(t, threeLevelCatalog(), models.PriorityBalanceWorkload))
	require.NoError(t, err)

	assert.Equal(t, models.PriorityBalanceWorkload, result.Best.Strategy)
}

func TestOptimizer_CreditCapConstraintHonored(t *testing.T) {
	in := optimizeInput(t, threeLevelCatalog(), models.PriorityMinimizeTime)
	in.Request.Constraints.MaxCreditsPerSemester = 9

	result, err := NewPlanOptimizer().Optimize(in)
	require.NoError(t, err)

	for _, opt := range result.Options {
		for _, sem := range opt.Plan.Semesters {
			assert.LessOrEqual(t, sem.TotalCredits, 9.0,
				"%s semester %s exceeds the constrained cap", opt.Strategy, sem.Semester)
		}
	}
}

func TestOptimizer_ExcludedCoursesNotPlanned(t *testing.T) {
	in := optimizeInput(t, threeLevelCatalog(), models.PriorityMinimizeTime)
	in.Request.Constraints.ExcludeCourses = []int64{4}

	result, err := NewPlanOptimizer().Optimize(in)
	require.NoError(t, err)

	for _, opt := range result.Options {
		for _, sem := range opt.Plan.Semesters {
			for _, c := range sem.Courses {
				assert.NotEqual(t, int64(4), c.CourseID)
			}
		}
	}
}

func TestOptimizer_PreferredTermsRestrictPlacement(t *testing.T) {
	in := optimizeInput(t, threeLevelCatalog(), models.PriorityMinimizeTime)
	in.Request.Constraints.PreferredTerms = []models.Term{models.TermFall}

	result, err := NewPlanOptimizer().Optimize(in)
	require.NoError(t, err)

	for _, opt := range result.Options {
		require.NotEmpty(t, opt.Plan.Semesters)
		for _, sem := range opt.Plan.Semesters {
			assert.Equal(t, models.TermFall, sem.Semester.Term,
				"%s placed courses outside the preferred term", opt.Strategy)
		}
	}
}

func TestOptimizer_IncludedCourseSurvivesExclusion(t *testing.T) {
	in := optimizeInput(t, threeLevelCatalog(), models.PriorityMinimizeTime)
	in.Request.Constraints.ExcludeCourses = []int64{3, 4}
	in.Request.Constraints.IncludeCourses = []int64{4}

	result, err := NewPlanOptimizer().Optimize(in)
	require.NoError(t, err)

	for _, opt := range result.Options {
		planned := make(map[int64]bool)
		for _, c := range opt.Plan.Flatten() {
			planned[c.CourseID] = true
		}
		assert.False(t, planned[3], "%s planned an excluded course", opt.Strategy)
		assert.True(t, planned[4], "%s dropped a course on the inclusion list", opt.Strategy)
	}
}

func TestOptimizer_MinCreditFloorWarnsAndPenalizes(t *testing.T) {
	// Levels pack as 12/9/9 credits under a non-binding cap; a floor of 10
	// flags the middle semester, the final one is exempt
	base := optimizeInput(t, threeLevelCatalog(), models.PriorityMinimizeTime)
	base.Assign.TargetCredits = 30

	unconstrained, err := NewPlanOptimizer().Optimize(base)
	require.NoError(t, err)

	floored := base
	floored.Request.Constraints.MinCreditsPerSemester = 10

	result, err := NewPlanOptimizer().Optimize(floored)
	require.NoError(t, err)

	require.Len(t, result.Best.Plan.Warnings, 1)
	assert.Contains(t, result.Best.Plan.Warnings[0], "below the requested minimum")
	assert.Less(t, result.Best.Score, unconstrained.Best.Score,
		"an underloaded semester costs constraint score")
}

func TestOptimizer_BalancedDifficultyLimitsHardCourses(t *testing.T) {
	// Six 400-level courses, no prerequisites, generous credit cap: the
	// difficulty strategy still caps hard courses per semester
	courses := []*models.Course{
		leveledCourse(1, 400, 3), leveledCourse(2, 400, 3), leveledCourse(3, 400, 3),
		leveledCourse(4, 400, 3), leveledCourse(5, 400, 3), leveledCourse(6, 400, 3),
	}
	in := optimizeInput(t, courses, models.PriorityBalanceDifficulty)
	in.Assign.TargetCredits = 18

	result, err := NewPlanOptimizer().Optimize(in)
	require.NoError(t, err)

	for _, sem := range result.Best.Plan.Semesters {
		hard := 0
		for _, c := range sem.Courses {
			if c.DifficultyRating > difficultyModerate {
				hard++
			}
		}
		assert.LessOrEqual(t, hard, defaultMaxHardPerSemester)
	}
}

func TestOptimizer_ProfileHardCourseCapNarrowsBand(t *testing.T) {
	courses := []*models.Course{
		leveledCourse(1, 400, 3), leveledCourse(2, 400, 3), leveledCourse(3, 400, 3),
		leveledCourse(4, 400, 3),
	}
	in := optimizeInput(t, courses, models.PriorityBalanceDifficulty)
	in.Assign.TargetCredits = 18
	in.Assign.MaxDifficultCourses = 1

	result, err := NewPlanOptimizer().Optimize(in)
	require.NoError(t, err)

	require.NotEmpty(t, result.Best.Plan.Semesters)
	for _, sem := range result.Best.Plan.Semesters {
		hard := 0
		for _, c := range sem.Courses {
			if c.DifficultyRating > difficultyModerate {
				hard++
			}
		}
		assert.LessOrEqual(t, hard, 1, "profile cap of one hard course per semester")
	}
}

func TestOptimizer_DeadlockedStrategyStillRanked(t *testing.T) {
	// Course 2 depends on a course that is never offered; every strategy
	// produces a partial plan with warnings, none is excluded from ranking
	courses := []*models.Course{course(1, 3), course(2, 3, 1)}
	in := optimizeInput(t, courses, models.PriorityMinimizeTime)
	in.Assign.AssumeOfferedWhenUnknown = false
	in.Assign.Offerings = models.BuildOfferedTermSet([]models.CourseOffering{
		{CourseID: 2, Term: models.TermFall},
	})

	result, err := NewPlanOptimizer().Optimize(in)
	require.NoError(t, err)

	require.Len(t, result.Options, len(simpleStrategies))
	for _, opt := range result.Options {
		assert.Equal(t, 2, opt.Metrics.UnplacedCourses)
		assert.NotEmpty(t, opt.Plan.Warnings)
	}
}

func TestOptimizer_MinimizeCostPrefersCheaperFirst(t *testing.T) {
	cheap := course(1, 3)
	cheap.CostPerCredit = 100
	pricey := course(2, 3)
	pricey.CostPerCredit = 900

	in := optimizeInput(t, []*models.Course{pricey, cheap}, models.PriorityMinimizeCost)
	in.Assign.TargetCredits = 3 // one course per semester

	result, err := NewPlanOptimizer().Optimize(in)
	require.NoError(t, err)

	best := result.Best
	require.Equal(t, models.PriorityMinimizeCost, best.Strategy)
	require.Len(t, best.Plan.Semesters, 2)
	assert.Equal(t, int64(1), best.Plan.Semesters[0].Courses[0].CourseID)
}

func TestOptimizer_MultiCriteriaUsesWeightVector(t *testing.T) {
	in := optimizeInput(t, threeLevelCatalog(), models.PriorityMultiCriteria)
	in.Request.Weights = CriteriaWeights{Time: 1.0}

	result, err := NewPlanOptimizer().Optimize(in)
	require.NoError(t, err)

	// With a pure time weighting, the fewest-semester candidate wins
	for _, opt := range result.Options {
		assert.GreaterOrEqual(t, opt.Metrics.Semesters, result.Best.Metrics.Semesters)
	}
}

func TestOptimizer_EmptyCourseListFails(t *testing.T) {
	in := OptimizeInput{
		StudentID:  "s-1",
		DegreeCode: "CS-BS",
		Assign:     AssignInput{Start: fall(2026)},
		Request:    OptimizationRequest{Priority: models.PriorityMinimizeTime},
	}

	_, err := NewPlanOptimizer().Optimize(in)
	assert.Error(t, err)
}

package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusware/degreeplanner/internal/app/models"
	"github.com/campusware/degreeplanner/internal/app/planning"
	"github.com/campusware/degreeplanner/internal/app/repositories"
	"github.com/campusware/degreeplanner/internal/config"
	"github.com/campusware/degreeplanner/internal/pkg/apperrors"
)

type stubCatalog struct {
	courses   map[int64]*models.Course
	offerings []models.CourseOffering
	degrees   map[string]*models.DegreeRequirement
	students  map[string]*models.StudentProfile
}

func (s *stubCatalog) GetByIDs(_ context.Context, ids []int64) ([]*models.Course, error) {
	var out []*models.Course
	for _, id := range ids {
		if c, ok := s.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCatalog) GetByCourseIDs(_ context.Context, _ []int64) ([]models.CourseOffering, error) {
	return s.offerings, nil
}

func (s *stubCatalog) GetByCode(_ context.Context, code string) (*models.DegreeRequirement, error) {
	if d, ok := s.degrees[code]; ok {
		return d, nil
	}
	return nil, repositories.ErrDegreeNotFound
}

func (s *stubCatalog) GetProfile(_ context.Context, id string) (*models.StudentProfile, error) {
	if p, ok := s.students[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrStudentNotFound
}

func catalogCourse(id int64, credits float64, prereqs ...int64) *models.Course {
	c := &models.Course{
		ID:          id,
		SubjectCode: "CS",
		Number:      "101",
		Title:       "Test Course",
		CreditHours: credits,
		Level:       200,
	}
	for _, p := range prereqs {
		c.Prerequisites = append(c.Prerequisites, models.PrerequisiteEdge{
			CourseID:         id,
			RequiredCourseID: p,
			Logic:            models.LogicAnd,
			Strict:           true,
		})
	}
	return c
}

func newStubCatalog() *stubCatalog {
	courses := map[int64]*models.Course{
		1: catalogCourse(1, 3),
		2: catalogCourse(2, 3, 1),
		3: catalogCourse(3, 4, 1),
		4: catalogCourse(4, 3, 2, 3),
	}
	return &stubCatalog{
		courses: courses,
		degrees: map[string]*models.DegreeRequirement{
			"CS-BS": {
				DegreeCode:         "CS-BS",
				Name:               "Computer Science BS",
				RequiredCourseIDs:  []int64{1, 2, 3, 4},
				TotalCreditsNeeded: 13,
			},
		},
		students: map[string]*models.StudentProfile{
			"s-1": {
				StudentID:           "s-1",
				PreferredCreditLoad: 15,
				StartSemester:       models.SemesterUnit{Term: models.TermFall, Year: 2026},
				ExpectedGraduation:  models.SemesterUnit{Term: models.TermSpring, Year: 2030},
				SummerAvailable:     false,
			},
		},
	}
}

func newService(catalog *stubCatalog) *PlannerService {
	return NewPlannerService(catalog, catalog, catalog, catalog, config.PlannerConfig{
		DefaultTargetCredits:     15,
		SummerCreditFraction:     0.5,
		AssumeOfferedWhenUnknown: true,
	})
}

func TestPlannerService_GeneratePlan(t *testing.T) {
	svc := newService(newStubCatalog())

	plan, err := svc.GeneratePlan(context.Background(), PlanRequest{
		StudentID:  "s-1",
		DegreeCode: "CS-BS",
	})
	require.NoError(t, err)

	assert.Equal(t, "s-1", plan.StudentID)
	assert.Equal(t, "CS-BS", plan.DegreeCode)
	require.NotEmpty(t, plan.Semesters)
	assert.Equal(t, 13.0, plan.TotalCredits)
	assert.NotNil(t, plan.ExpectedGraduation)

	// Semesters come back in chronological order
	for i := 1; i < len(plan.Semesters); i++ {
		assert.True(t, plan.Semesters[i-1].Semester.Before(plan.Semesters[i].Semester))
	}

	// The generated plan passes prerequisite validation
	prereqResult, _ := svc.ValidatePlan(plan, nil, nil)
	assert.True(t, prereqResult.Valid)
}

func TestPlannerService_GeneratePlanSkipsCompletedCourses(t *testing.T) {
	catalog := newStubCatalog()
	catalog.students["s-1"].CompletedCourseIDs = []int64{1, 2}
	svc := newService(catalog)

	plan, err := svc.GeneratePlan(context.Background(), PlanRequest{
		StudentID:  "s-1",
		DegreeCode: "CS-BS",
	})
	require.NoError(t, err)

	for _, sem := range plan.Semesters {
		for _, c := range sem.Courses {
			assert.NotContains(t, []int64{1, 2}, c.CourseID)
		}
	}
}

func TestPlannerService_DegreeNotFound(t *testing.T) {
	svc := newService(newStubCatalog())

	_, err := svc.GeneratePlan(context.Background(), PlanRequest{
		StudentID:  "s-1",
		DegreeCode: "NOPE",
	})
	assert.ErrorIs(t, err, apperrors.ErrDegreeNotFound)

	// The sentinel arrives wrapped with request context
	var custom *apperrors.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Equal(t, "DEGREE_NOT_FOUND", custom.Code)
	assert.Contains(t, custom.Message, "NOPE")
}

func TestPlannerService_StudentNotFound(t *testing.T) {
	svc := newService(newStubCatalog())

	_, err := svc.GeneratePlan(context.Background(), PlanRequest{
		StudentID:  "missing",
		DegreeCode: "CS-BS",
	})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestPlannerService_EmptyCourseList(t *testing.T) {
	catalog := newStubCatalog()
	catalog.degrees["EMPTY"] = &models.DegreeRequirement{DegreeCode: "EMPTY"}
	svc := newService(catalog)

	_, err := svc.GeneratePlan(context.Background(), PlanRequest{
		StudentID:  "s-1",
		DegreeCode: "EMPTY",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmptyCourseList)
}

func TestPlannerService_InvalidRequest(t *testing.T) {
	svc := newService(newStubCatalog())

	_, err := svc.GeneratePlan(context.Background(), PlanRequest{DegreeCode: "CS-BS"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPlanRequest)
}

func TestPlannerService_CircularDependencyWarnsButPlans(t *testing.T) {
	catalog := newStubCatalog()
	catalog.courses[5] = catalogCourse(5, 3, 6)
	catalog.courses[6] = catalogCourse(6, 3, 5)
	catalog.degrees["CS-BS"].RequiredCourseIDs = []int64{1, 2, 3, 4, 5, 6}
	svc := newService(catalog)

	plan, err := svc.GeneratePlan(context.Background(), PlanRequest{
		StudentID:  "s-1",
		DegreeCode: "CS-BS",
	})
	require.NoError(t, err, "a cycle is surfaced as data, never as an error")

	require.NotEmpty(t, plan.Warnings)
	found := false
	for _, w := range plan.Warnings {
		if strings.Contains(w, "circular prerequisite dependency") {
			found = true
		}
	}
	assert.True(t, found, "expected a circular dependency warning, got %v", plan.Warnings)
}

func TestPlannerService_OptimizePlan(t *testing.T) {
	svc := newService(newStubCatalog())

	result, err := svc.OptimizePlan(context.Background(), OptimizeRequest{
		PlanRequest: PlanRequest{StudentID: "s-1", DegreeCode: "CS-BS"},
		Priority:    models.PriorityMinimizeTime,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Best)
	assert.Equal(t, models.PriorityMinimizeTime, result.Best.Strategy)
	assert.NotEmpty(t, result.Options)
	assert.GreaterOrEqual(t, result.Best.Score, 0.0)
	assert.LessOrEqual(t, result.Best.Score, 100.0)
}

func TestPlannerService_OptimizePlanIncludesExtraCourses(t *testing.T) {
	// Course 9 is in the catalog but not among the degree requirements;
	// listing it in the inclusion constraint pulls it into the plan
	catalog := newStubCatalog()
	catalog.courses[9] = catalogCourse(9, 3)
	svc := newService(catalog)

	result, err := svc.OptimizePlan(context.Background(), OptimizeRequest{
		PlanRequest: PlanRequest{StudentID: "s-1", DegreeCode: "CS-BS"},
		Priority:    models.PriorityMinimizeTime,
		Constraints: planning.OptimizationConstraints{IncludeCourses: []int64{9}},
	})
	require.NoError(t, err)

	planned := make(map[int64]bool)
	for _, c := range result.Best.Plan.Flatten() {
		planned[c.CourseID] = true
	}
	assert.True(t, planned[9], "included course missing from the optimized plan")
}

func TestPlannerService_OptimizePlanMissingPriority(t *testing.T) {
	svc := newService(newStubCatalog())

	_, err := svc.OptimizePlan(context.Background(), OptimizeRequest{
		PlanRequest: PlanRequest{StudentID: "s-1", DegreeCode: "CS-BS"},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPlanRequest)
}

func TestPlannerService_ValidatePlanWithConstraints(t *testing.T) {
	svc := newService(newStubCatalog())

	plan, err := svc.GeneratePlan(context.Background(), PlanRequest{
		StudentID:  "s-1",
		DegreeCode: "CS-BS",
	})
	require.NoError(t, err)

	_, constraintResult := svc.ValidatePlan(plan, nil, []planning.PlanConstraint{
		{Type: planning.ConstraintCreditLimit, MaxCredits: 1, Hard: true},
	})
	assert.NotEmpty(t, constraintResult.Violations)
	assert.NotEmpty(t, constraintResult.Recommendations)
}

func TestPlannerService_AnalyzeOfferings(t *testing.T) {
	catalog := newStubCatalog()
	catalog.offerings = []models.CourseOffering{
		{CourseID: 1, Term: models.TermFall},
	}
	svc := newService(catalog)

	analysis, err := svc.AnalyzeOfferings(context.Background(), "CS-BS")
	require.NoError(t, err)

	assert.Contains(t, analysis.BottleneckCourses, int64(1))
	assert.Contains(t, analysis.UnknownAvailability, int64(2))
}

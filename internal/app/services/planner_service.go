package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/campusware/degreeplanner/internal/app/models"
	"github.com/campusware/degreeplanner/internal/app/planning"
	"github.com/campusware/degreeplanner/internal/app/repositories"
	"github.com/campusware/degreeplanner/internal/config"
	"github.com/campusware/degreeplanner/internal/pkg/apperrors"
	"github.com/campusware/degreeplanner/internal/pkg/logger"
	"github.com/campusware/degreeplanner/internal/pkg/validation"
)

// The service depends on narrow read interfaces so planning can be tested
// without a database; the pgx repositories satisfy them in production.
type courseCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Course, error)
}

type offeringCatalog interface {
	GetByCourseIDs(ctx context.Context, ids []int64) ([]models.CourseOffering, error)
}

type degreeCatalog interface {
	GetByCode(ctx context.Context, degreeCode string) (*models.DegreeRequirement, error)
}

type studentRecords interface {
	GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

// PlanRequest asks for a new sequence plan for one student and degree
type PlanRequest struct {
	StudentID  string `json:"studentId" validate:"required"`
	DegreeCode string `json:"degreeCode" validate:"required,degreecode"`

	// TargetCredits overrides the student's preferred credit load when set
	TargetCredits float64 `json:"targetCredits" validate:"omitempty,gt=0,lte=24"`
}

// OptimizeRequest asks for a ranked set of alternative sequences
type OptimizeRequest struct {
	PlanRequest
	Priority    models.OptimizationPriority      `json:"priority" validate:"required,priority"`
	Constraints planning.OptimizationConstraints `json:"constraints"`
	Weights     planning.CriteriaWeights         `json:"weights"`
}

// PlannerService orchestrates the planning pipeline: fetch catalog data,
// build the prerequisite graph, assign semesters, validate and optimize.
// All database access happens up front; everything after the fetches is
// pure computation on immutable snapshots.
type PlannerService struct {
	courses   courseCatalog
	offerings offeringCatalog
	degrees   degreeCatalog
	students  studentRecords

	builder     *planning.GraphBuilder
	assigner    *planning.SequenceAssigner
	optimizer   *planning.PlanOptimizer
	prereqs     *planning.PrerequisiteValidator
	constraints *planning.ConstraintValidator

	validate *validator.Validate
	cfg      config.PlannerConfig
}

// NewPlannerService creates a new planner service instance
func NewPlannerService(
	courses courseCatalog,
	offerings offeringCatalog,
	degrees degreeCatalog,
	students studentRecords,
	cfg config.PlannerConfig,
) *PlannerService {
	validate := validator.New()
	if err := validation.Register(validate); err != nil {
		logger.Warn().Err(err).Msg("Failed to register custom validation rules")
	}

	return &PlannerService{
		courses:     courses,
		offerings:   offerings,
		degrees:     degrees,
		students:    students,
		builder:     planning.NewGraphBuilder(),
		assigner:    planning.NewSequenceAssigner(),
		optimizer:   planning.NewPlanOptimizer(),
		prereqs:     planning.NewPrerequisiteValidator(),
		constraints: planning.NewConstraintValidator(),
		validate:    validate,
		cfg:         cfg,
	}
}

// planningSnapshot is the immutable input slice one planning request works on
type planningSnapshot struct {
	profile   *models.StudentProfile
	degree    *models.DegreeRequirement
	courses   []*models.Course
	offerings []models.CourseOffering
	completed map[int64]bool
	chain     *models.PrerequisiteChainResult
}

// GeneratePlan produces a new sequence plan using the default assignment
// strategy. Graph and placement problems surface as warnings on the plan;
// only missing input data is returned as an error.
func (s *PlannerService) GeneratePlan(ctx context.Context, req PlanRequest) (*models.SequencePlan, error) {
	snapshot, err := s.loadSnapshot(ctx, req, nil)
	if err != nil {
		return nil, err
	}

	result := s.assigner.Assign(s.assignInput(snapshot, req))
	plan := planning.ComposePlan(req.StudentID, req.DegreeCode, snapshot.profile.StartSemester, result)
	s.attachGraphWarnings(plan, snapshot)

	if validation := s.prereqs.Validate(plan.Flatten(), snapshot.completed); !validation.Valid {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"prerequisite validation found %d violation(s)", validation.TotalViolations))
	}

	logger.Debug().
		Str("studentId", req.StudentID).
		Str("degreeCode", req.DegreeCode).
		Int("semesters", plan.TotalSemesters).
		Int("warnings", len(plan.Warnings)).
		Msg("Sequence plan generated")

	return plan, nil
}

// OptimizePlan generates and ranks alternative sequencing strategies for
// the request's optimization priority
func (s *PlannerService) OptimizePlan(ctx context.Context, req OptimizeRequest) (*planning.OptimizationResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidPlanRequest, err.Error()).
			WithCode("INVALID_PLAN_REQUEST")
	}

	snapshot, err := s.loadSnapshot(ctx, req.PlanRequest, req.Constraints.IncludeCourses)
	if err != nil {
		return nil, err
	}

	result, err := s.optimizer.Optimize(planning.OptimizeInput{
		StudentID:  req.StudentID,
		DegreeCode: req.DegreeCode,
		Assign:     s.assignInput(snapshot, req.PlanRequest),
		Request: planning.OptimizationRequest{
			Priority:    req.Priority,
			Constraints: req.Constraints,
			Weights:     req.Weights,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error optimizing plan: %w", err)
	}

	for i := range result.Options {
		s.attachGraphWarnings(result.Options[i].Plan, snapshot)
	}

	logger.Debug().
		Str("studentId", req.StudentID).
		Str("priority", string(req.Priority)).
		Int("options", len(result.Options)).
		Float64("bestScore", result.Best.Score).
		Msg("Plan optimization completed")

	return result, nil
}

// ValidatePlan checks an existing plan against prerequisite rules and any
// explicit constraints. It is pure: no data is fetched.
func (s *PlannerService) ValidatePlan(
	plan *models.SequencePlan,
	completed map[int64]bool,
	constraints []planning.PlanConstraint,
) (*planning.PrerequisiteValidationResult, *planning.ConstraintValidationResult) {
	prereqResult := s.prereqs.Validate(plan.Flatten(), completed)
	constraintResult := s.constraints.Validate(plan, constraints, completed)
	return prereqResult, constraintResult
}

// AnalyzeOfferings reports offering bottlenecks for a degree's course set
func (s *PlannerService) AnalyzeOfferings(ctx context.Context, degreeCode string) (*planning.CourseOfferingAnalysis, error) {
	degree, err := s.degrees.GetByCode(ctx, degreeCode)
	if err != nil {
		if errors.Is(err, repositories.ErrDegreeNotFound) {
			return nil, degreeNotFound(degreeCode)
		}
		return nil, fmt.Errorf("error checking degree: %w", err)
	}

	courses, err := s.courses.GetByIDs(ctx, degree.RequiredCourseIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	offerings, err := s.offerings.GetByCourseIDs(ctx, degree.RequiredCourseIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving offerings: %w", err)
	}

	return planning.AnalyzeOfferings(courses, offerings), nil
}

// loadSnapshot fetches and validates all the input data a planning request
// needs. Everything downstream operates on this snapshot only. Courses on
// the inclusion list join the degree's required set, so electives named in
// an optimization request are planned alongside the requirements.
func (s *PlannerService) loadSnapshot(ctx context.Context, req PlanRequest, includeCourses []int64) (*planningSnapshot, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidPlanRequest, err.Error()).
			WithCode("INVALID_PLAN_REQUEST")
	}

	degree, err := s.degrees.GetByCode(ctx, req.DegreeCode)
	if err != nil {
		if errors.Is(err, repositories.ErrDegreeNotFound) {
			return nil, degreeNotFound(req.DegreeCode)
		}
		return nil, fmt.Errorf("error checking degree: %w", err)
	}

	profile, err := s.students.GetProfile(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound,
				fmt.Sprintf("student %q has no profile", req.StudentID)).
				WithCode("STUDENT_NOT_FOUND")
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	courseIDs := unionIDs(degree.RequiredCourseIDs, includeCourses)
	courses, err := s.courses.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	if len(courses) == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrEmptyCourseList,
			fmt.Sprintf("degree %q names no known courses", req.DegreeCode)).
			WithCode("EMPTY_COURSE_LIST").
			WithDetails(map[string]interface{}{"requestedCourseIds": courseIDs})
	}

	offerings, err := s.offerings.GetByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving offerings: %w", err)
	}

	chain, err := s.builder.Build(courses)
	if err != nil {
		return nil, fmt.Errorf("error building prerequisite graph: %w", err)
	}
	if chain.HasCircularDependency {
		logger.Warn().
			Str("degreeCode", req.DegreeCode).
			Int("cycles", len(chain.Cycles)).
			Msg("Circular prerequisite dependency detected")
	}

	return &planningSnapshot{
		profile:   profile,
		degree:    degree,
		courses:   courses,
		offerings: offerings,
		completed: profile.CompletedSet(),
		chain:     chain,
	}, nil
}

// assignInput translates a snapshot into the assigner's input
func (s *PlannerService) assignInput(snapshot *planningSnapshot, req PlanRequest) planning.AssignInput {
	target := req.TargetCredits
	if target == 0 {
		target = snapshot.profile.PreferredCreditLoad
	}
	if target == 0 {
		target = s.cfg.DefaultTargetCredits
	}

	return planning.AssignInput{
		Start:                    snapshot.profile.StartSemester,
		Courses:                  snapshot.courses,
		Chain:                    snapshot.chain,
		Offerings:                models.BuildOfferedTermSet(snapshot.offerings),
		Completed:                snapshot.completed,
		TargetCredits:            target,
		SummerCreditFraction:     s.cfg.SummerCreditFraction,
		IncludeSummer:            snapshot.profile.SummerAvailable,
		GraduationTarget:         snapshot.profile.ExpectedGraduation,
		AssumeOfferedWhenUnknown: s.cfg.AssumeOfferedWhenUnknown,
		MaxDifficultCourses:      snapshot.profile.MaxDifficultCourses,
	}
}

func degreeNotFound(degreeCode string) error {
	return apperrors.NewCustomError(apperrors.ErrDegreeNotFound,
		fmt.Sprintf("degree template %q not found", degreeCode)).
		WithCode("DEGREE_NOT_FOUND")
}

// unionIDs merges two id lists preserving order, first list first
func unionIDs(a, b []int64) []int64 {
	seen := make(map[int64]bool, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// attachGraphWarnings surfaces cycle detection and unknown-prerequisite
// findings as plan warnings
func (s *PlannerService) attachGraphWarnings(plan *models.SequencePlan, snapshot *planningSnapshot) {
	for _, cycle := range snapshot.chain.Cycles {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"circular prerequisite dependency involving courses %v; these courses were not scheduled", cycle))
	}

	if !s.cfg.AssumeSatisfiedWhenUnknown {
		if n := countExternalPrereqs(snapshot); n > 0 {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"%d prerequisite reference(s) point outside the degree's course set and were treated as satisfied; verify them", n))
		}
	}
}

// countExternalPrereqs counts edges whose required course is neither in the
// degree's course set nor completed by the student
func countExternalPrereqs(snapshot *planningSnapshot) int {
	inSet := make(map[int64]bool, len(snapshot.courses))
	for _, c := range snapshot.courses {
		inSet[c.ID] = true
	}
	count := 0
	for _, c := range snapshot.courses {
		for _, e := range c.Prerequisites {
			if !inSet[e.RequiredCourseID] && !snapshot.completed[e.RequiredCourseID] {
				count++
			}
		}
	}
	return count
}

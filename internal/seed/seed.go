package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/campusware/degreeplanner/internal/pkg/dberrors"
)

// seedCourse is one row of the bundled sample catalog
type seedCourse struct {
	id      int64
	subject string
	number  string
	title   string
	credits float64
	level   int
	cost    float64
}

// seedPrereq wires course -> required course in the sample catalog
type seedPrereq struct {
	courseID   int64
	requiredID int64
	logic      string
	coreq      bool
}

var sampleCourses = []seedCourse{
	{1, "CS", "101", "Introduction to Programming", 3, 100, 450},
	{2, "CS", "102", "Data Structures", 3, 100, 450},
	{3, "CS", "201", "Computer Organization", 4, 200, 450},
	{4, "CS", "210", "Discrete Mathematics", 3, 200, 450},
	{5, "CS", "301", "Algorithms", 3, 300, 500},
	{6, "CS", "310", "Operating Systems", 4, 300, 500},
	{7, "CS", "320", "Database Systems", 3, 300, 500},
	{8, "CS", "401", "Compilers", 3, 400, 550},
	{9, "CS", "410", "Distributed Systems", 3, 400, 550},
	{10, "CS", "490", "Capstone Project", 4, 400, 550},
	{11, "MATH", "151", "Calculus I", 4, 100, 400},
	{12, "MATH", "152", "Calculus II", 4, 100, 400},
}

var samplePrereqs = []seedPrereq{
	{2, 1, "AND", false},
	{3, 1, "AND", false},
	{4, 11, "AND", false},
	{5, 2, "AND", false},
	{5, 4, "AND", false},
	{6, 3, "AND", false},
	{7, 2, "AND", false},
	{8, 5, "AND", false},
	{9, 6, "AND", false},
	{10, 8, "OR", false},
	{10, 9, "OR", false},
	{12, 11, "AND", false},
}

// Offerings: lower-division courses run year round, upper-division courses
// run in a single term so bottleneck analysis has something to report.
var sampleOfferings = map[int64][]string{
	1:  {"SPRING", "SUMMER", "FALL"},
	2:  {"SPRING", "FALL"},
	3:  {"FALL"},
	4:  {"SPRING", "FALL"},
	5:  {"SPRING"},
	6:  {"FALL"},
	7:  {"SPRING", "FALL"},
	8:  {"SPRING"},
	9:  {"FALL"},
	10: {"SPRING", "FALL"},
	11: {"SPRING", "SUMMER", "FALL"},
	12: {"SPRING", "SUMMER", "FALL"},
}

// CreateSampleCatalog loads a small computer science catalog, a degree built
// on it, and one demo student. Inserts are idempotent, so calling this on
// every startup is safe.
func CreateSampleCatalog(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating sample catalog data...")
	var finalErr error

	for _, c := range sampleCourses {
		_, err := dbPool.Exec(ctx, `
			INSERT INTO courses (id, subject_code, number, title, credit_hours, level, cost_per_credit)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			c.id, c.subject, c.number, c.title, c.credits, c.level, c.cost)
		if err != nil && !dberrors.IsDuplicateKeyError(err) {
			lgr.Error().Err(err).Str("course", c.subject+c.number).Msg("Error seeding course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, p := range samplePrereqs {
		_, err := dbPool.Exec(ctx, `
			INSERT INTO course_prerequisites (course_id, required_course_id, logic, strict, corequisite)
			VALUES ($1, $2, $3, TRUE, $4)
			ON CONFLICT (course_id, required_course_id) DO NOTHING`,
			p.courseID, p.requiredID, p.logic, p.coreq)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				lgr.Error().Err(err).Int64("courseId", p.courseID).Msg("Prerequisite references a missing course")
			}
			finalErr = errors.Join(finalErr, err)
		}
	}

	for courseID, terms := range sampleOfferings {
		for _, term := range terms {
			_, err := dbPool.Exec(ctx, `
				INSERT INTO course_offerings (course_id, term, max_enrollment, regularly_offered)
				VALUES ($1, $2, 120, TRUE)
				ON CONFLICT (course_id, term) DO NOTHING`,
				courseID, term)
			if err != nil {
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if err := seedDegree(ctx, dbPool); err != nil {
		lgr.Error().Err(err).Msg("Error seeding degree requirements")
		finalErr = errors.Join(finalErr, err)
	}

	if err := seedDemoStudent(ctx, dbPool); err != nil {
		lgr.Error().Err(err).Msg("Error seeding demo student")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Msg("Sample catalog data ready")
	}
	return finalErr
}

func seedDegree(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
		INSERT INTO degree_requirements (degree_code, name, total_credits_needed)
		VALUES ('CS-BS', 'Computer Science B.S.', 41)
		ON CONFLICT (degree_code) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to insert degree: %w", err)
	}

	for _, c := range sampleCourses {
		_, err := dbPool.Exec(ctx, `
			INSERT INTO degree_requirement_courses (degree_code, course_id)
			VALUES ('CS-BS', $1)
			ON CONFLICT (degree_code, course_id) DO NOTHING`, c.id)
		if err != nil {
			return fmt.Errorf("failed to attach course %d to degree: %w", c.id, err)
		}
	}
	return nil
}

func seedDemoStudent(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
		INSERT INTO student_profiles
			(student_id, preferred_credit_load, start_term, start_year,
			 graduation_term, graduation_year, summer_available, max_difficult_courses)
		VALUES ('demo-student', 15, 'FALL', 2026, 'SPRING', 2030, FALSE, 2)
		ON CONFLICT (student_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to insert demo student: %w", err)
	}
	return nil
}

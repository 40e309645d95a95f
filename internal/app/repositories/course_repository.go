package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusware/degreeplanner/internal/app/models"
)

// CourseRepository handles database operations for catalog courses and
// their prerequisite edges
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// GetByIDs retrieves courses with their prerequisite edges attached.
// Missing ids are silently omitted; the caller decides whether a shorter
// result is an error.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, subject_code, number, title, credit_hours, level, cost_per_credit
		FROM courses
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	byID := make(map[int64]*models.Course, len(ids))
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.SubjectCode,
			&course.Number,
			&course.Title,
			&course.CreditHours,
			&course.Level,
			&course.CostPerCredit,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
		byID[course.ID] = &course
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachPrerequisites(ctx, ids, byID); err != nil {
		return nil, err
	}

	return courses, nil
}

// attachPrerequisites loads the prerequisite edges of the given courses
func (r *CourseRepository) attachPrerequisites(ctx context.Context, ids []int64, byID map[int64]*models.Course) error {
	query := `
		SELECT course_id, required_course_id, logic, strict, min_grade, corequisite
		FROM course_prerequisites
		WHERE course_id = ANY($1)
		ORDER BY course_id, required_course_id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("error retrieving prerequisites: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var edge models.PrerequisiteEdge
		if err := rows.Scan(
			&edge.CourseID,
			&edge.RequiredCourseID,
			&edge.Logic,
			&edge.Strict,
			&edge.MinGrade,
			&edge.Corequisite,
		); err != nil {
			return err
		}
		if course, ok := byID[edge.CourseID]; ok {
			course.Prerequisites = append(course.Prerequisites, edge)
		}
	}

	return rows.Err()
}

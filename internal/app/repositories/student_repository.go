package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusware/degreeplanner/internal/app/models"
)

// Student error types
var (
	ErrStudentNotFound = errors.New("student not found")
)

// StudentRepository handles database operations for student planning
// profiles
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// GetProfile retrieves a student's planning profile with completed courses
func (r *StudentRepository) GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	query := `
		SELECT student_id, preferred_credit_load, start_term, start_year,
		       graduation_term, graduation_year, summer_available, max_difficult_courses
		FROM student_profiles
		WHERE student_id = $1
	`

	var profile models.StudentProfile
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&profile.StudentID,
		&profile.PreferredCreditLoad,
		&profile.StartSemester.Term,
		&profile.StartSemester.Year,
		&profile.ExpectedGraduation.Term,
		&profile.ExpectedGraduation.Year,
		&profile.SummerAvailable,
		&profile.MaxDifficultCourses,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student profile: %w", err)
	}

	completedQuery := `
		SELECT course_id
		FROM student_completed_courses
		WHERE student_id = $1
		ORDER BY course_id
	`

	rows, err := r.db.Query(ctx, completedQuery, studentID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving completed courses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		profile.CompletedCourseIDs = append(profile.CompletedCourseIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &profile, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusware/degreeplanner/internal/app/models"
)

// Degree error types
var (
	ErrDegreeNotFound = errors.New("degree template not found")
)

// DegreeRepository handles database operations for degree requirement
// templates
type DegreeRepository struct {
	db *pgxpool.Pool
}

// NewDegreeRepository creates a new degree repository
func NewDegreeRepository(db *pgxpool.Pool) *DegreeRepository {
	return &DegreeRepository{
		db: db,
	}
}

// GetByCode retrieves a degree template with its required course ids
func (r *DegreeRepository) GetByCode(ctx context.Context, degreeCode string) (*models.DegreeRequirement, error) {
	query := `
		SELECT degree_code, name, total_credits_needed
		FROM degree_requirements
		WHERE degree_code = $1
	`

	var degree models.DegreeRequirement
	err := r.db.QueryRow(ctx, query, degreeCode).Scan(
		&degree.DegreeCode,
		&degree.Name,
		&degree.TotalCreditsNeeded,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDegreeNotFound
		}
		return nil, fmt.Errorf("error retrieving degree template: %w", err)
	}

	courseQuery := `
		SELECT course_id
		FROM degree_requirement_courses
		WHERE degree_code = $1
		ORDER BY course_id
	`

	rows, err := r.db.Query(ctx, courseQuery, degreeCode)
	if err != nil {
		return nil, fmt.Errorf("error retrieving degree courses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		degree.RequiredCourseIDs = append(degree.RequiredCourseIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &degree, nil
}

package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusware/degreeplanner/internal/app/models"
)

// OfferingRepository handles database operations for course offerings
type OfferingRepository struct {
	db *pgxpool.Pool
}

// NewOfferingRepository creates a new offering repository
func NewOfferingRepository(db *pgxpool.Pool) *OfferingRepository {
	return &OfferingRepository{
		db: db,
	}
}

// GetByCourseIDs retrieves all offerings for the given courses. Courses
// without offering rows simply do not appear in the result.
func (r *OfferingRepository) GetByCourseIDs(ctx context.Context, ids []int64) ([]models.CourseOffering, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT course_id, term, max_enrollment, regularly_offered
		FROM course_offerings
		WHERE course_id = ANY($1)
		ORDER BY course_id, term
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course offerings: %w", err)
	}
	defer rows.Close()

	var offerings []models.CourseOffering
	for rows.Next() {
		var offering models.CourseOffering
		if err := rows.Scan(
			&offering.CourseID,
			&offering.Term,
			&offering.MaxEnrollment,
			&offering.RegularlyOffered,
		); err != nil {
			return nil, err
		}
		offerings = append(offerings, offering)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return offerings, nil
}

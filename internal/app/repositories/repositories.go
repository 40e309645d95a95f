package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository   *CourseRepository
	OfferingRepository *OfferingRepository
	DegreeRepository   *DegreeRepository
	StudentRepository  *StudentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CourseRepository:   NewCourseRepository(db),
		OfferingRepository: NewOfferingRepository(db),
		DegreeRepository:   NewDegreeRepository(db),
		StudentRepository:  NewStudentRepository(db),
	}
}

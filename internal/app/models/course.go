package models

// Course represents a catalog course used as planning input.
// Courses are immutable reference data supplied by the catalog service.
type Course struct {
	ID            int64   `json:"id" db:"id"`
	SubjectCode   string  `json:"subjectCode" db:"subject_code"`
	Number        string  `json:"number" db:"number"`
	Title         string  `json:"title" db:"title"`
	CreditHours   float64 `json:"creditHours" db:"credit_hours"`
	Level         int     `json:"level" db:"level"` // e.g. 100, 200, 300
	CostPerCredit float64 `json:"costPerCredit" db:"cost_per_credit"`

	// Prerequisite edges where this course is the dependent side
	Prerequisites []PrerequisiteEdge `json:"prerequisites,omitempty"`
}

// Code returns the display code of the course, e.g. "CS 201"
func (c *Course) Code() string {
	return c.SubjectCode + " " + c.Number
}

// PrerequisiteEdge is a directed dependency from a course to one of its
// required courses. Corequisite edges permit concurrent enrollment instead
// of strictly earlier completion.
type PrerequisiteEdge struct {
	CourseID         int64             `json:"courseId" db:"course_id"`
	RequiredCourseID int64             `json:"requiredCourseId" db:"required_course_id"`
	Logic            PrerequisiteLogic `json:"logic" db:"logic"`
	Strict           bool              `json:"strict" db:"strict"`
	MinGrade         *string           `json:"minGrade,omitempty" db:"min_grade"` // Nullable
	Corequisite      bool              `json:"corequisite" db:"corequisite"`
}

package models

// StudentProfile carries the planning-relevant slice of a student record,
// supplied by the enrollment service.
type StudentProfile struct {
	StudentID           string       `json:"studentId" db:"student_id"`
	CompletedCourseIDs  []int64      `json:"completedCourseIds"`
	PreferredCreditLoad float64      `json:"preferredCreditLoad" db:"preferred_credit_load"`
	StartSemester       SemesterUnit `json:"startSemester"`
	ExpectedGraduation  SemesterUnit `json:"expectedGraduation"`
	SummerAvailable     bool         `json:"summerAvailable" db:"summer_available"`
	MaxDifficultCourses int          `json:"maxDifficultCourses" db:"max_difficult_courses"`
}

// CompletedSet returns the completed course ids as a set
func (p *StudentProfile) CompletedSet() map[int64]bool {
	set := make(map[int64]bool, len(p.CompletedCourseIDs))
	for _, id := range p.CompletedCourseIDs {
		set[id] = true
	}
	return set
}

// DegreeRequirement resolves a degree template to its required course set
type DegreeRequirement struct {
	DegreeCode         string  `json:"degreeCode" db:"degree_code"`
	Name               string  `json:"name" db:"name"`
	RequiredCourseIDs  []int64 `json:"requiredCourseIds"`
	TotalCreditsNeeded float64 `json:"totalCreditsNeeded" db:"total_credits_needed"`
}

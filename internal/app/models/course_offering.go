package models

// CourseOffering records that a course is offered in a given term.
// A course with no offering rows has unknown availability; whether that
// counts as offered is a planner configuration decision, not an error.
type CourseOffering struct {
	CourseID         int64 `json:"courseId" db:"course_id"`
	Term             Term  `json:"term" db:"term"`
	MaxEnrollment    int   `json:"maxEnrollment" db:"max_enrollment"`
	RegularlyOffered bool  `json:"regularlyOffered" db:"regularly_offered"`
}

// OfferedTermSet maps each course id to the set of terms it is offered in.
// Courses absent from the map have no offering data at all.
type OfferedTermSet map[int64]map[Term]bool

// BuildOfferedTermSet indexes offerings by course and term
func BuildOfferedTermSet(offerings []CourseOffering) OfferedTermSet {
	set := make(OfferedTermSet, len(offerings))
	for _, o := range offerings {
		if set[o.CourseID] == nil {
			set[o.CourseID] = make(map[Term]bool, 3)
		}
		set[o.CourseID][o.Term] = true
	}
	return set
}

// IsOffered reports whether the course is offered in the term.
// assumeWhenUnknown controls the result for courses with no offering data.
func (s OfferedTermSet) IsOffered(courseID int64, term Term, assumeWhenUnknown bool) bool {
	terms, ok := s[courseID]
	if !ok {
		return assumeWhenUnknown
	}
	return terms[term]
}

package models

import (
	"fmt"

	"github.com/google/uuid"
)

// SemesterUnit identifies a single academic semester. It is a value type:
// two units with equal term and year are the same point in time. JSON
// encoding uses the text form, see MarshalText.
type SemesterUnit struct {
	Term Term
	Year int
}

// Compare orders semesters chronologically: negative when u is earlier than
// other, zero when equal, positive when later.
func (u SemesterUnit) Compare(other SemesterUnit) int {
	if u.Year != other.Year {
		return u.Year - other.Year
	}
	return u.Term.Rank() - other.Term.Rank()
}

// Before reports whether u is strictly earlier than other
func (u SemesterUnit) Before(other SemesterUnit) bool {
	return u.Compare(other) < 0
}

// After reports whether u is strictly later than other
func (u SemesterUnit) After(other SemesterUnit) bool {
	return u.Compare(other) > 0
}

// Next returns the semester following u. Summer is skipped unless
// includeSummer is set.
func (u SemesterUnit) Next(includeSummer bool) SemesterUnit {
	switch u.Term {
	case TermSpring:
		if includeSummer {
			return SemesterUnit{Term: TermSummer, Year: u.Year}
		}
		return SemesterUnit{Term: TermFall, Year: u.Year}
	case TermSummer:
		return SemesterUnit{Term: TermFall, Year: u.Year}
	default: // Fall
		return SemesterUnit{Term: TermSpring, Year: u.Year + 1}
	}
}

// String formats the semester for display, e.g. "FALL 2026"
func (u SemesterUnit) String() string {
	return fmt.Sprintf("%s %d", u.Term, u.Year)
}

// MarshalText encodes the semester in its display form. Text encoding lets
// a SemesterUnit serve as a JSON map key, e.g. in validation results keyed
// by semester.
func (u SemesterUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText parses the display form back into a semester
func (u *SemesterUnit) UnmarshalText(text []byte) error {
	var term Term
	var year int
	if _, err := fmt.Sscanf(string(text), "%s %d", &term, &year); err != nil {
		return fmt.Errorf("invalid semester %q: %w", text, err)
	}
	if !term.IsValid() {
		return fmt.Errorf("invalid semester term %q", term)
	}
	u.Term = term
	u.Year = year
	return nil
}

// PlannedCourseStatus tracks the completion state of a planned course
type PlannedCourseStatus string

// Planned course status constants
const (
	StatusPlanned    PlannedCourseStatus = "PLANNED"
	StatusInProgress PlannedCourseStatus = "IN_PROGRESS"
	StatusCompleted  PlannedCourseStatus = "COMPLETED"
)

// PlannedCourse is one course placed into a specific semester of a plan
type PlannedCourse struct {
	CourseID         int64               `json:"courseId"`
	CourseCode       string              `json:"courseCode"`
	Semester         SemesterUnit        `json:"semester"`
	CreditHours      float64             `json:"creditHours"`
	Cost             float64             `json:"cost"`
	DifficultyRating float64             `json:"difficultyRating"`
	Required         bool                `json:"required"`
	Status           PlannedCourseStatus `json:"status"`

	// Prerequisite edges carried over from the catalog course so a plan
	// can be validated without re-fetching the catalog
	Prerequisites []PrerequisiteEdge `json:"prerequisites,omitempty"`
}

// SemesterPlan groups the courses planned for one semester. Course order
// within a semester carries no meaning.
type SemesterPlan struct {
	Semester     SemesterUnit    `json:"semester"`
	Courses      []PlannedCourse `json:"courses"`
	TotalCredits float64         `json:"totalCredits"`
}

// AddCourse appends a course and keeps TotalCredits consistent
func (p *SemesterPlan) AddCourse(c PlannedCourse) {
	p.Courses = append(p.Courses, c)
	p.TotalCredits += c.CreditHours
}

// SequencePlan is the root planning aggregate: a full semester-by-semester
// course sequence for one student and degree. A plan is immutable once
// optimization completes; re-optimization produces a new plan.
type SequencePlan struct {
	ID                 uuid.UUID      `json:"id"`
	StudentID          string         `json:"studentId"`
	DegreeCode         string         `json:"degreeCode"`
	StartSemester      SemesterUnit   `json:"startSemester"`
	ExpectedGraduation *SemesterUnit  `json:"expectedGraduation,omitempty"`
	Semesters          []SemesterPlan `json:"semesters"`
	TotalSemesters     int            `json:"totalSemesters"`
	TotalCredits       float64        `json:"totalCredits"`
	Warnings           []string       `json:"warnings,omitempty"`
}

// Flatten returns every planned course in semester order
func (p *SequencePlan) Flatten() []PlannedCourse {
	var out []PlannedCourse
	for _, sem := range p.Semesters {
		out = append(out, sem.Courses...)
	}
	return out
}

// PrerequisiteChainResult is the derived output of prerequisite graph
// analysis. It is never persisted; callers recompute it per request.
type PrerequisiteChainResult struct {
	// Levels assigns every non-cyclic course to exactly one level. Level
	// membership is a set; order within a level carries no meaning.
	Levels [][]int64 `json:"levels"`

	HasCircularDependency bool      `json:"hasCircularDependency"`
	Cycles                [][]int64 `json:"cycles,omitempty"`

	// SemesterSuggestions maps course id to the minimum semester offset
	// (1-based) from the start implied by its level.
	SemesterSuggestions map[int64]int `json:"semesterSuggestions"`

	// CriticalPath is the longest strict prerequisite chain, ordered from
	// the base course to the terminal course.
	CriticalPath []int64 `json:"criticalPath"`
}

// TotalLevels returns the number of topological levels
func (r *PrerequisiteChainResult) TotalLevels() int {
	return len(r.Levels)
}

// LevelOf returns the level index of a course, or -1 when the course has no
// valid level assignment (cyclic or downstream of a cycle).
func (r *PrerequisiteChainResult) LevelOf(courseID int64) int {
	for i, level := range r.Levels {
		for _, id := range level {
			if id == courseID {
				return i
			}
		}
	}
	return -1
}

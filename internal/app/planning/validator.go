package planning

import (
	"sort"

	"github.com/campusware/degreeplanner/internal/app/models"
)

// PrerequisiteViolationType classifies a prerequisite rule violation
type PrerequisiteViolationType string

// Violation type constants
const (
	ViolationNotSatisfied      PrerequisiteViolationType = "NOT_SATISFIED"
	ViolationCorequisiteNotMet PrerequisiteViolationType = "COREQUISITE_NOT_MET"
)

// PrerequisiteViolation is one broken prerequisite rule in a candidate plan
type PrerequisiteViolation struct {
	Type             PrerequisiteViolationType `json:"type"`
	CourseID         int64                     `json:"courseId"`
	CourseCode       string                    `json:"courseCode"`
	RequiredCourseID int64                     `json:"requiredCourseId"`
	Semester         models.SemesterUnit       `json:"semester"`
}

// PrerequisiteValidationResult reports whether a candidate sequence honors
// all prerequisite and corequisite rules, with violations grouped by the
// semester they occur in.
type PrerequisiteValidationResult struct {
	Valid           bool                                            `json:"valid"`
	TotalViolations int                                             `json:"totalViolations"`
	BySemester      map[models.SemesterUnit][]PrerequisiteViolation `json:"bySemester,omitempty"`
}

// PrerequisiteValidator checks a candidate sequence against prerequisite
// and corequisite rules
type PrerequisiteValidator struct{}

// NewPrerequisiteValidator creates a new prerequisite validator instance
func NewPrerequisiteValidator() *PrerequisiteValidator {
	return &PrerequisiteValidator{}
}

// Validate walks the planned courses in semester order, maintaining a
// running satisfied set seeded with completed courses. A semester's courses
// join the satisfied set only after the whole semester is checked, so two
// mutually dependent courses in one semester only pass as corequisites,
// never as strict prerequisites.
//
// Edges whose required course appears nowhere in the plan or the completed
// set are satisfied externally; for an OR group that satisfies the group.
func (v *PrerequisiteValidator) Validate(planned []models.PlannedCourse, completed map[int64]bool) *PrerequisiteValidationResult {
	result := &PrerequisiteValidationResult{
		Valid:      true,
		BySemester: make(map[models.SemesterUnit][]PrerequisiteViolation),
	}

	semesters := groupBySemester(planned)

	known := make(map[int64]bool, len(planned)+len(completed))
	for id := range completed {
		known[id] = true
	}
	for _, c := range planned {
		known[c.CourseID] = true
	}

	satisfied := make(map[int64]bool, len(completed))
	for id := range completed {
		satisfied[id] = true
	}

	for _, sem := range semesters {
		inSemester := make(map[int64]bool, len(sem.courses))
		for _, c := range sem.courses {
			inSemester[c.CourseID] = true
		}

		for _, c := range sem.courses {
			for _, violation := range checkCourse(c, satisfied, inSemester, known) {
				result.BySemester[sem.unit] = append(result.BySemester[sem.unit], violation)
				result.TotalViolations++
				result.Valid = false
			}
		}

		for _, c := range sem.courses {
			satisfied[c.CourseID] = true
		}
	}

	return result
}

// checkCourse evaluates every prerequisite edge of one planned course.
// AND edges are checked individually; an OR group yields a single violation
// when no member is satisfied. A required course outside the plan and the
// completed set is satisfied externally, which for an OR edge satisfies the
// whole group; the assigner uses the same reading when placing courses.
func checkCourse(c models.PlannedCourse, satisfied, inSemester, known map[int64]bool) []PrerequisiteViolation {
	var violations []PrerequisiteViolation

	var orGroup []models.PrerequisiteEdge
	orMet := false

	for _, e := range c.Prerequisites {
		met := satisfied[e.RequiredCourseID] || !known[e.RequiredCourseID]
		if e.Corequisite {
			met = met || inSemester[e.RequiredCourseID]
		}

		if e.Logic == models.LogicOr {
			if !e.Strict && !e.Corequisite {
				continue // advisory edge, never blocks
			}
			orGroup = append(orGroup, e)
			orMet = orMet || met
			continue
		}

		if e.Corequisite {
			if !met {
				violations = append(violations, newViolation(ViolationCorequisiteNotMet, c, e))
			}
			continue
		}

		if e.Strict && !met {
			violations = append(violations, newViolation(ViolationNotSatisfied, c, e))
		}
	}

	if len(orGroup) > 0 && !orMet {
		violations = append(violations, newViolation(violationTypeFor(orGroup[0]), c, orGroup[0]))
	}

	return violations
}

func violationTypeFor(e models.PrerequisiteEdge) PrerequisiteViolationType {
	if e.Corequisite {
		return ViolationCorequisiteNotMet
	}
	return ViolationNotSatisfied
}

func newViolation(t PrerequisiteViolationType, c models.PlannedCourse, e models.PrerequisiteEdge) PrerequisiteViolation {
	return PrerequisiteViolation{
		Type:             t,
		CourseID:         c.CourseID,
		CourseCode:       c.CourseCode,
		RequiredCourseID: e.RequiredCourseID,
		Semester:         c.Semester,
	}
}

type semesterGroup struct {
	unit    models.SemesterUnit
	courses []models.PlannedCourse
}

// groupBySemester buckets planned courses by semester in chronological order
func groupBySemester(planned []models.PlannedCourse) []semesterGroup {
	byUnit := make(map[models.SemesterUnit][]models.PlannedCourse)
	for _, c := range planned {
		byUnit[c.Semester] = append(byUnit[c.Semester], c)
	}

	groups := make([]semesterGroup, 0, len(byUnit))
	for unit, courses := range byUnit {
		groups = append(groups, semesterGroup{unit: unit, courses: courses})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].unit.Before(groups[j].unit) })
	return groups
}

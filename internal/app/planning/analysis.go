package planning

import (
	"fmt"
	"sort"

	"github.com/campusware/degreeplanner/internal/app/models"
)

// CourseOfferingAnalysis is an auxiliary diagnostic over offering data:
// which courses gate prerequisite chains while being hard to get into or
// rarely offered.
type CourseOfferingAnalysis struct {
	// TermsByCourse lists the terms each course is offered in, sorted by
	// term rank. Courses with no offering data are absent.
	TermsByCourse map[int64][]models.Term `json:"termsByCourse"`

	// BottleneckCourses are offered in a single term and gate at least one
	// dependent course; missing one delays the whole chain by a year.
	BottleneckCourses []int64 `json:"bottleneckCourses,omitempty"`

	// LimitedOfferingCourses are offered in a single term
	LimitedOfferingCourses []int64 `json:"limitedOfferingCourses,omitempty"`

	// UnknownAvailability lists courses with no offering data at all
	UnknownAvailability []int64 `json:"unknownAvailability,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// AnalyzeOfferings inspects the offering data for scheduling risks. It is a
// reporting function: nothing here blocks planning.
func AnalyzeOfferings(courses []*models.Course, offerings []models.CourseOffering) *CourseOfferingAnalysis {
	analysis := &CourseOfferingAnalysis{
		TermsByCourse: make(map[int64][]models.Term),
	}

	set := models.BuildOfferedTermSet(offerings)
	g := buildPrereqGraph(courses)

	for _, c := range courses {
		terms, ok := set[c.ID]
		if !ok {
			analysis.UnknownAvailability = append(analysis.UnknownAvailability, c.ID)
			continue
		}

		sorted := make([]models.Term, 0, len(terms))
		for t := range terms {
			sorted = append(sorted, t)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank() < sorted[j].Rank() })
		analysis.TermsByCourse[c.ID] = sorted

		if len(sorted) != 1 {
			continue
		}
		analysis.LimitedOfferingCourses = append(analysis.LimitedOfferingCourses, c.ID)
		if len(g.dependents[c.ID]) > 0 {
			analysis.BottleneckCourses = append(analysis.BottleneckCourses, c.ID)
			analysis.Warnings = append(analysis.Warnings, fmt.Sprintf(
				"course %s is only offered in %s and gates %d dependent course(s)",
				c.Code(), sorted[0], len(g.dependents[c.ID])))
		}
	}

	sortIDs(analysis.BottleneckCourses)
	sortIDs(analysis.LimitedOfferingCourses)
	sortIDs(analysis.UnknownAvailability)
	return analysis
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

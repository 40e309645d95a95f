package planning

import (
	"github.com/google/uuid"

	"github.com/campusware/degreeplanner/internal/app/models"
)

// ComposePlan assembles the SequencePlan aggregate from a draft assignment.
// Every call produces a fresh plan with its own id; plans are never mutated
// after composition.
func ComposePlan(studentID, degreeCode string, start models.SemesterUnit, res AssignResult) *models.SequencePlan {
	plan := &models.SequencePlan{
		ID:             uuid.New(),
		StudentID:      studentID,
		DegreeCode:     degreeCode,
		StartSemester:  start,
		Semesters:      res.Semesters,
		TotalSemesters: len(res.Semesters),
		Warnings:       res.Warnings,
	}

	for _, sem := range res.Semesters {
		plan.TotalCredits += sem.TotalCredits
	}

	if len(res.Semesters) > 0 {
		last := res.Semesters[len(res.Semesters)-1].Semester
		plan.ExpectedGraduation = &last
	}

	return plan
}

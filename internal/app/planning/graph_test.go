package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusware/degreeplanner/internal/app/models"
	"github.com/campusware/degreeplanner/internal/pkg/apperrors"
)

// course builds a catalog course with strict AND prerequisites
func course(id int64, credits float64, prereqs ...int64) *models.Course {
	c := &models.Course{
		ID:          id,
		SubjectCode: "CS",
		Number:      "101",
		CreditHours: credits,
		Level:       100,
	}
	for _, p := range prereqs {
		c.Prerequisites = append(c.Prerequisites, models.PrerequisiteEdge{
			CourseID:         id,
			RequiredCourseID: p,
			Logic:            models.LogicAnd,
			Strict:           true,
		})
	}
	return c
}

func TestGraphBuilder_DiamondLevels(t *testing.T) {
	// A -> {B, C} -> D
	courses := []*models.Course{
		course(1, 3),       // A
		course(2, 3, 1),    // B requires A
		course(3, 3, 1),    // C requires A
		course(4, 3, 2, 3), // D requires B and C
	}

	result, err := NewGraphBuilder().Build(courses)
	require.NoError(t, err)

	assert.False(t, result.HasCircularDependency)
	require.Len(t, result.Levels, 3)
	assert.ElementsMatch(t, []int64{1}, result.Levels[0])
	assert.ElementsMatch(t, []int64{2, 3}, result.Levels[1])
	assert.ElementsMatch(t, []int64{4}, result.Levels[2])

	assert.Len(t, result.CriticalPath, 3)
	assert.Equal(t, int64(1), result.CriticalPath[0])
	assert.Equal(t, int64(4), result.CriticalPath[2])
}

func TestGraphBuilder_EveryCourseInExactlyOneLevel(t *testing.T) {
	courses := []*models.Course{
		course(1, 3),
		course(2, 4, 1),
		course(3, 3, 1),
		course(4, 3, 2),
		course(5, 3, 2, 3),
		course(6, 3, 4, 5),
	}

	result, err := NewGraphBuilder().Build(courses)
	require.NoError(t, err)

	seen := make(map[int64]int)
	for _, level := range result.Levels {
		for _, id := range level {
			seen[id]++
		}
	}
	require.Len(t, seen, len(courses))
	for id, count := range seen {
		assert.Equal(t, 1, count, "course %d assigned to %d levels", id, count)
	}

	// For every edge c -> p, level(p) < level(c)
	for _, c := range courses {
		for _, e := range c.Prerequisites {
			assert.Less(t, result.LevelOf(e.RequiredCourseID), result.LevelOf(c.ID),
				"prerequisite %d must be leveled before %d", e.RequiredCourseID, c.ID)
		}
	}
}

func TestGraphBuilder_CycleDetection(t *testing.T) {
	// A requires B, B requires C, C requires A
	courses := []*models.Course{
		course(1, 3, 2),
		course(2, 3, 3),
		course(3, 3, 1),
	}

	result, err := NewGraphBuilder().Build(courses)
	require.NoError(t, err)

	assert.True(t, result.HasCircularDependency)
	require.Len(t, result.Cycles, 1)
	assert.ElementsMatch(t, []int64{1, 2, 3}, result.Cycles[0])

	// Cyclic courses get no level assignment
	assert.Empty(t, result.Levels)
	assert.Empty(t, result.CriticalPath)
}

func TestGraphBuilder_CycleDoesNotBlockRestOfGraph(t *testing.T) {
	courses := []*models.Course{
		course(1, 3, 2), // cyclic pair
		course(2, 3, 1),
		course(3, 3),    // independent chain
		course(4, 3, 3),
		course(5, 3, 1), // downstream of the cycle
	}

	result, err := NewGraphBuilder().Build(courses)
	require.NoError(t, err)

	assert.True(t, result.HasCircularDependency)
	require.Len(t, result.Levels, 2)
	assert.ElementsMatch(t, []int64{3}, result.Levels[0])
	assert.ElementsMatch(t, []int64{4}, result.Levels[1])

	// Cyclic courses and their dependents have no level
	assert.Equal(t, -1, result.LevelOf(1))
	assert.Equal(t, -1, result.LevelOf(2))
	assert.Equal(t, -1, result.LevelOf(5))
}

func TestGraphBuilder_Idempotent(t *testing.T) {
	courses := []*models.Course{
		course(1, 3),
		course(2, 3, 1),
		course(3, 3, 1),
		course(4, 3, 2, 3),
	}

	first, err := NewGraphBuilder().Build(courses)
	require.NoError(t, err)
	second, err := NewGraphBuilder().Build(courses)
	require.NoError(t, err)

	require.Equal(t, len(first.Levels), len(second.Levels))
	for i := range first.Levels {
		assert.ElementsMatch(t, first.Levels[i], second.Levels[i])
	}
	assert.Equal(t, first.Cycles, second.Cycles)
	assert.Equal(t, first.CriticalPath, second.CriticalPath)
}

func TestGraphBuilder_ExternalPrerequisitesIgnored(t *testing.T) {
	// Course 2 requires course 99, which is not part of the input set and
	// therefore counts as satisfied externally
	courses := []*models.Course{
		course(1, 3),
		course(2, 3, 99),
	}

	result, err := NewGraphBuilder().Build(courses)
	require.NoError(t, err)

	require.Len(t, result.Levels, 1)
	assert.ElementsMatch(t, []int64{1, 2}, result.Levels[0])
}

func TestGraphBuilder_CorequisiteEdgesDoNotOrder(t *testing.T) {
	lab := course(2, 1)
	lab.Prerequisites = []models.PrerequisiteEdge{{
		CourseID:         2,
		RequiredCourseID: 1,
		Logic:            models.LogicAnd,
		Strict:           true,
		Corequisite:      true,
	}}
	courses := []*models.Course{course(1, 3), lab}

	result, err := NewGraphBuilder().Build(courses)
	require.NoError(t, err)

	require.Len(t, result.Levels, 1)
	assert.ElementsMatch(t, []int64{1, 2}, result.Levels[0])
}

func TestGraphBuilder_SemesterSuggestions(t *testing.T) {
	courses := []*models.Course{
		course(1, 3),
		course(2, 3, 1),
	}

	result, err := NewGraphBuilder().Build(courses)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SemesterSuggestions[1])
	assert.Equal(t, 2, result.SemesterSuggestions[2])
}

func TestGraphBuilder_EmptyCourseList(t *testing.T) {
	_, err := NewGraphBuilder().Build(nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCourseList)
}

package planning

import "github.com/campusware/degreeplanner/internal/app/models"

// Difficulty bands used by the difficulty-balancing strategy
const (
	difficultyEasy     = 2.0
	difficultyModerate = 3.5
	difficultyMax      = 5.0
)

// Estimated out-of-class workload hours per credit hour per week
const workloadHoursPerCredit = 3.0

// DifficultyRating estimates how demanding a course is on a 1..5 scale from
// its numeric level. 100-level maps to 1, 500-level and above to 5.
func DifficultyRating(c *models.Course) float64 {
	rating := float64(c.Level) / 100.0
	if rating < 1 {
		rating = 1
	}
	if rating > difficultyMax {
		rating = difficultyMax
	}
	return rating
}

// WorkloadHours estimates weekly workload hours for a course
func WorkloadHours(c *models.Course) float64 {
	return c.CreditHours * workloadHoursPerCredit
}

// CourseCost estimates the tuition cost of a course
func CourseCost(c *models.Course) float64 {
	return c.CreditHours * c.CostPerCredit
}

// clampScore bounds a score component to [0,100]
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// variance computes the population variance of the values
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

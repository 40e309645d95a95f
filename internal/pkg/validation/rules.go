package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/campusware/degreeplanner/internal/app/models"
)

// DegreeCodePattern matches catalog degree codes like "CS-BS"
var DegreeCodePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Register installs the planner's custom validation tags on v:
//
//	priority   - a recognized optimization priority
//	term       - a recognized academic term
//	degreecode - a well-formed degree code
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("priority", validPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("term", validTerm); err != nil {
		return err
	}
	return v.RegisterValidation("degreecode", validDegreeCode)
}

func validPriority(fl validator.FieldLevel) bool {
	switch models.OptimizationPriority(fl.Field().String()) {
	case models.PriorityMinimizeTime,
		models.PriorityBalanceDifficulty,
		models.PriorityBalanceWorkload,
		models.PriorityMinimizeCost,
		models.PriorityMultiCriteria:
		return true
	}
	return false
}

func validTerm(fl validator.FieldLevel) bool {
	return models.Term(fl.Field().String()).IsValid()
}

func validDegreeCode(fl validator.FieldLevel) bool {
	return DegreeCodePattern.MatchString(fl.Field().String())
}

package planning

import (
	"fmt"
	"math"
	"sort"

	"github.com/campusware/degreeplanner/internal/app/models"
	"github.com/campusware/degreeplanner/internal/pkg/apperrors"
)

// Weighted-sum score components for the single-criterion formula
const (
	scoreWeightTime       = 0.40
	scoreWeightDifficulty = 0.30
	scoreWeightWorkload   = 0.20
	scoreWeightConstraint = 0.10
)

// Penalty per semester exceeding the credit bounds
const constraintPenaltyPerSemester = 25.0

// CriteriaWeights is the caller-supplied weight vector for multi-criteria
// ranking. Zero-valued vectors fall back to DefaultCriteriaWeights.
type CriteriaWeights struct {
	Time        float64 `json:"time"`
	Difficulty  float64 `json:"difficulty"`
	Cost        float64 `json:"cost"`
	Flexibility float64 `json:"flexibility"`
	GPAImpact   float64 `json:"gpaImpact"`
	Workload    float64 `json:"workload"`
}

// DefaultCriteriaWeights favors finishing fast with a smooth difficulty curve
func DefaultCriteriaWeights() CriteriaWeights {
	return CriteriaWeights{
		Time:        0.30,
		Difficulty:  0.20,
		Cost:        0.10,
		Flexibility: 0.10,
		GPAImpact:   0.10,
		Workload:    0.20,
	}
}

func (w CriteriaWeights) total() float64 {
	return w.Time + w.Difficulty + w.Cost + w.Flexibility + w.GPAImpact + w.Workload
}

// OptimizationConstraints bound what the optimizer may generate
type OptimizationConstraints struct {
	MaxCreditsPerSemester float64       `json:"maxCreditsPerSemester"`
	MinCreditsPerSemester float64       `json:"minCreditsPerSemester"`
	PreferredTerms        []models.Term `json:"preferredTerms,omitempty"`
	AvoidTerms            []models.Term `json:"avoidTerms,omitempty"`
	IncludeCourses        []int64       `json:"includeCourses,omitempty"`
	ExcludeCourses        []int64       `json:"excludeCourses,omitempty"`
}

// OptimizationRequest selects the strategy and its constraints
type OptimizationRequest struct {
	Priority    models.OptimizationPriority `json:"priority"`
	Constraints OptimizationConstraints     `json:"constraints"`
	Weights     CriteriaWeights             `json:"weights"`
}

// SequenceMetrics are the measurable qualities of one candidate sequence
type SequenceMetrics struct {
	Semesters          int     `json:"semesters"`
	TotalCredits       float64 `json:"totalCredits"`
	TotalCost          float64 `json:"totalCost"`
	DifficultyVariance float64 `json:"difficultyVariance"`
	WorkloadVariance   float64 `json:"workloadVariance"`
	AvgCredits         float64 `json:"avgCredits"`
	UnplacedCourses    int     `json:"unplacedCourses"`
}

// CourseSequenceOption is one ranked candidate sequence
type CourseSequenceOption struct {
	Strategy models.OptimizationPriority `json:"strategy"`
	Plan     *models.SequencePlan        `json:"plan"`
	Metrics  SequenceMetrics             `json:"metrics"`
	Score    float64                     `json:"score"`
}

// OptimizationResult is the ranked option set plus the chosen optimum
type OptimizationResult struct {
	Options []CourseSequenceOption `json:"options"`
	Best    *CourseSequenceOption  `json:"best"`
}

// OptimizeInput bundles the planning data with the optimization request
type OptimizeInput struct {
	StudentID  string
	DegreeCode string
	Assign     AssignInput
	Request    OptimizationRequest
}

// PlanOptimizer generates candidate sequences under different strategies and
// ranks them. A strategy that cannot place every course still yields a
// ranked option carrying warnings; a partial plan beats no plan.
type PlanOptimizer struct {
	assigner *SequenceAssigner
}

// NewPlanOptimizer creates a new plan optimizer instance
func NewPlanOptimizer() *PlanOptimizer {
	return &PlanOptimizer{assigner: NewSequenceAssigner()}
}

// simpleStrategies is the candidate generation order. Multi-criteria uses
// all of them as an approximate Pareto frontier.
var simpleStrategies = []models.OptimizationPriority{
	models.PriorityMinimizeTime,
	models.PriorityBalanceDifficulty,
	models.PriorityBalanceWorkload,
	models.PriorityMinimizeCost,
}

// Optimize generates one candidate per simple strategy, scores them all and
// picks the optimum. For a simple priority the optimum is that priority's
// own candidate; the rest are returned ranked for comparison. For
// multi-criteria the weight vector picks the winner across the frontier.
func (o *PlanOptimizer) Optimize(in OptimizeInput) (*OptimizationResult, error) {
	if len(in.Assign.Courses) == 0 {
		return nil, apperrors.ErrEmptyCourseList
	}

	assign := o.constrainedInput(in)

	options := make([]CourseSequenceOption, 0, len(simpleStrategies))
	for _, strategy := range simpleStrategies {
		res := o.assigner.AssignWith(assign, o.strategyFor(strategy, assign))
		plan := ComposePlan(in.StudentID, in.DegreeCode, assign.Start, res)
		attachMinCreditWarnings(plan, in.Request.Constraints.MinCreditsPerSemester)
		metrics := measureSequence(plan, len(res.Unplaced))
		options = append(options, CourseSequenceOption{
			Strategy: strategy,
			Plan:     plan,
			Metrics:  metrics,
		})
	}

	if in.Request.Priority == models.PriorityMultiCriteria {
		o.scoreMultiCriteria(options, in)
	} else {
		for i := range options {
			options[i].Score = o.scoreSingle(options[i], assign, in.Request.Constraints)
		}
	}

	sort.SliceStable(options, func(i, j int) bool { return options[i].Score > options[j].Score })

	result := &OptimizationResult{Options: options}
	result.Best = &result.Options[0]
	if in.Request.Priority != models.PriorityMultiCriteria {
		for i := range result.Options {
			if result.Options[i].Strategy == in.Request.Priority {
				result.Best = &result.Options[i]
				break
			}
		}
	}

	return result, nil
}

// constrainedInput applies the request constraints on top of the base
// assignment input without mutating it. Preferred terms invert into avoided
// terms; courses on the inclusion list survive the exclusion filter.
func (o *PlanOptimizer) constrainedInput(in OptimizeInput) AssignInput {
	assign := in.Assign
	req := in.Request.Constraints

	if req.MaxCreditsPerSemester > 0 {
		assign.TargetCredits = req.MaxCreditsPerSemester
	}

	avoid := append(append([]models.Term{}, assign.AvoidTerms...), req.AvoidTerms...)
	if len(req.PreferredTerms) > 0 {
		preferred := make(map[models.Term]bool, len(req.PreferredTerms))
		for _, t := range req.PreferredTerms {
			preferred[t] = true
		}
		for _, t := range []models.Term{models.TermSpring, models.TermSummer, models.TermFall} {
			if !preferred[t] {
				avoid = append(avoid, t)
			}
		}
		if preferred[models.TermSummer] {
			assign.IncludeSummer = true
		}
	}
	assign.AvoidTerms = avoid

	if len(req.ExcludeCourses) > 0 {
		excluded := make(map[int64]bool, len(req.ExcludeCourses))
		for _, id := range req.ExcludeCourses {
			excluded[id] = true
		}
		included := make(map[int64]bool, len(req.IncludeCourses))
		for _, id := range req.IncludeCourses {
			included[id] = true
		}
		var kept []*models.Course
		for _, c := range assign.Courses {
			if !excluded[c.ID] || included[c.ID] {
				kept = append(kept, c)
			}
		}
		assign.Courses = kept
	}

	return assign
}

// strategyFor maps a priority to its selection strategy
func (o *PlanOptimizer) strategyFor(p models.OptimizationPriority, in AssignInput) SelectionStrategy {
	switch p {
	case models.PriorityBalanceDifficulty:
		return BalancedDifficultyStrategy(in.MaxDifficultCourses)
	case models.PriorityBalanceWorkload:
		return BalancedWorkloadStrategy(in.TargetCredits)
	case models.PriorityMinimizeCost:
		return MinimizeCostStrategy()
	default:
		return MinimizeTimeStrategy(in.Chain)
	}
}

// MinimizeTimeStrategy packs level-by-level with highest-credit-first
// tie-breaks, filling each semester as full as the cap allows
func MinimizeTimeStrategy(chain *models.PrerequisiteChainResult) SelectionStrategy {
	levelOf := make(map[int64]int)
	if chain != nil {
		for i, level := range chain.Levels {
			for _, id := range level {
				levelOf[id] = i
			}
		}
	}
	return func(candidates []*models.Course, budget float64) []*models.Course {
		sorted := sortedCopy(candidates, func(a, b *models.Course) bool {
			if levelOf[a.ID] != levelOf[b.ID] {
				return levelOf[a.ID] < levelOf[b.ID]
			}
			if a.CreditHours != b.CreditHours {
				return a.CreditHours > b.CreditHours
			}
			return a.ID < b.ID
		})
		return packByCredits(sorted, budget)
	}
}

// Target band sizes for the difficulty-balancing draw
const (
	defaultMaxHardPerSemester = 2
	maxModeratePerSemester    = 3
	maxEasyPerSemester        = 2
)

// BalancedDifficultyStrategy draws hard, moderate and easy courses per
// semester within the credit cap, capping hard courses at maxHard (zero
// falls back to the default band size, student profiles may narrow it).
// This smooths the difficulty curve deliberately; it is a heuristic, not a
// global optimum.
func BalancedDifficultyStrategy(maxHard int) SelectionStrategy {
	if maxHard <= 0 {
		maxHard = defaultMaxHardPerSemester
	}
	return func(candidates []*models.Course, budget float64) []*models.Course {
		var easy, moderate, hard []*models.Course
		for _, c := range sortedCopy(candidates, byID) {
			switch rating := DifficultyRating(c); {
			case rating <= difficultyEasy:
				easy = append(easy, c)
			case rating <= difficultyModerate:
				moderate = append(moderate, c)
			default:
				hard = append(hard, c)
			}
		}

		// Interleave the bands so one hard course lands between moderate
		// and easy picks instead of hard courses clustering up front
		drawOrder := interleaveBands(hard, moderate, easy)

		var picked []*models.Course
		total := 0.0
		counts := map[string]int{}
		for _, d := range drawOrder {
			if total+d.course.CreditHours > budget {
				continue
			}
			if counts[d.band] >= bandLimit(d.band, maxHard) {
				continue
			}
			picked = append(picked, d.course)
			total += d.course.CreditHours
			counts[d.band]++
		}
		return picked
	}
}

type bandedCourse struct {
	course *models.Course
	band   string
}

func bandLimit(band string, maxHard int) int {
	switch band {
	case "hard":
		return maxHard
	case "easy":
		return maxEasyPerSemester
	default:
		return maxModeratePerSemester
	}
}

func interleaveBands(hard, moderate, easy []*models.Course) []bandedCourse {
	var out []bandedCourse
	for i := 0; i < len(hard) || i < len(moderate) || i < len(easy); i++ {
		if i < len(hard) {
			out = append(out, bandedCourse{hard[i], "hard"})
		}
		if i < len(moderate) {
			out = append(out, bandedCourse{moderate[i], "moderate"})
		}
		if i < len(easy) {
			out = append(out, bandedCourse{easy[i], "easy"})
		}
		if i == 0 && len(moderate) > 1 {
			out = append(out, bandedCourse{moderate[1], "moderate"})
		}
	}
	return dedupeBanded(out)
}

func dedupeBanded(in []bandedCourse) []bandedCourse {
	seen := make(map[int64]bool, len(in))
	var out []bandedCourse
	for _, b := range in {
		if seen[b.course.ID] {
			continue
		}
		seen[b.course.ID] = true
		out = append(out, b)
	}
	return out
}

// BalancedWorkloadStrategy packs by estimated weekly workload hours,
// bounded by both the credit cap and a derived workload cap
func BalancedWorkloadStrategy(targetCredits float64) SelectionStrategy {
	workloadBudget := targetCredits * workloadHoursPerCredit
	return func(candidates []*models.Course, budget float64) []*models.Course {
		sorted := sortedCopy(candidates, func(a, b *models.Course) bool {
			wa, wb := WorkloadHours(a), WorkloadHours(b)
			if wa != wb {
				return wa > wb
			}
			return a.ID < b.ID
		})

		var picked []*models.Course
		credits, hours := 0.0, 0.0
		for _, c := range sorted {
			if credits+c.CreditHours > budget || hours+WorkloadHours(c) > workloadBudget {
				continue
			}
			picked = append(picked, c)
			credits += c.CreditHours
			hours += WorkloadHours(c)
		}
		return picked
	}
}

// MinimizeCostStrategy fills semesters cheapest-first so expensive courses
// are deferred, giving the student more room to adjust before paying
func MinimizeCostStrategy() SelectionStrategy {
	return func(candidates []*models.Course, budget float64) []*models.Course {
		sorted := sortedCopy(candidates, func(a, b *models.Course) bool {
			ca, cb := CourseCost(a), CourseCost(b)
			if ca != cb {
				return ca < cb
			}
			return a.ID < b.ID
		})
		return packByCredits(sorted, budget)
	}
}

func byID(a, b *models.Course) bool { return a.ID < b.ID }

func sortedCopy(in []*models.Course, less func(a, b *models.Course) bool) []*models.Course {
	out := make([]*models.Course, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// attachMinCreditWarnings flags semesters that fall short of the requested
// minimum load. The final semester is exempt: it carries whatever credits
// remain. min == 0 means no minimum was requested.
func attachMinCreditWarnings(plan *models.SequencePlan, min float64) {
	if min <= 0 {
		return
	}
	for i, sem := range plan.Semesters {
		if i == len(plan.Semesters)-1 {
			break
		}
		if sem.TotalCredits < min {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"%s carries %.1f credits, below the requested minimum of %.1f",
				sem.Semester, sem.TotalCredits, min))
		}
	}
}

// measureSequence derives the metrics of a candidate plan
func measureSequence(plan *models.SequencePlan, unplaced int) SequenceMetrics {
	m := SequenceMetrics{
		Semesters:       len(plan.Semesters),
		TotalCredits:    plan.TotalCredits,
		UnplacedCourses: unplaced,
	}

	var difficulties, workloads []float64
	for _, sem := range plan.Semesters {
		semDifficulty := 0.0
		semWorkload := 0.0
		for _, c := range sem.Courses {
			semDifficulty += c.DifficultyRating
			semWorkload += c.CreditHours * workloadHoursPerCredit
			m.TotalCost += c.Cost
		}
		if len(sem.Courses) > 0 {
			semDifficulty /= float64(len(sem.Courses))
		}
		difficulties = append(difficulties, semDifficulty)
		workloads = append(workloads, semWorkload)
	}

	m.DifficultyVariance = variance(difficulties)
	m.WorkloadVariance = variance(workloads)
	if m.Semesters > 0 {
		m.AvgCredits = m.TotalCredits / float64(m.Semesters)
	}
	return m
}

// scoreSingle applies the weighted-sum formula: 40% time, 30% difficulty
// balance, 20% workload balance, 10% constraint satisfaction. Every
// component and the final score clamp to [0,100]. Semesters over the credit
// target or under the requested minimum each cost a constraint penalty; the
// final semester is exempt from the minimum since it carries the leftovers.
func (o *PlanOptimizer) scoreSingle(opt CourseSequenceOption, in AssignInput, req OptimizationConstraints) float64 {
	m := opt.Metrics

	timeScore := 0.0
	if m.Semesters > 0 && in.Chain != nil && in.Chain.TotalLevels() > 0 {
		timeScore = clampScore(100 * float64(in.Chain.TotalLevels()) / float64(m.Semesters))
	}

	difficultyScore := clampScore(100 - m.DifficultyVariance*20)
	workloadScore := clampScore(100 - math.Sqrt(m.WorkloadVariance)*2)

	constraintScore := 100.0
	for i, sem := range opt.Plan.Semesters {
		if sem.TotalCredits > in.TargetCredits {
			constraintScore -= constraintPenaltyPerSemester
		}
		if req.MinCreditsPerSemester > 0 && i < len(opt.Plan.Semesters)-1 &&
			sem.TotalCredits < req.MinCreditsPerSemester {
			constraintScore -= constraintPenaltyPerSemester
		}
	}
	constraintScore = clampScore(constraintScore)

	return clampScore(scoreWeightTime*timeScore +
		scoreWeightDifficulty*difficultyScore +
		scoreWeightWorkload*workloadScore +
		scoreWeightConstraint*constraintScore)
}

// scoreMultiCriteria ranks the frontier by the caller's weight vector over
// {time, difficulty, cost, flexibility, GPA impact, workload}
func (o *PlanOptimizer) scoreMultiCriteria(options []CourseSequenceOption, in OptimizeInput) {
	weights := in.Request.Weights
	if weights.total() == 0 {
		weights = DefaultCriteriaWeights()
	}

	minCost := math.Inf(1)
	for _, opt := range options {
		if opt.Metrics.TotalCost < minCost {
			minCost = opt.Metrics.TotalCost
		}
	}

	for i := range options {
		m := options[i].Metrics

		timeScore := 0.0
		if m.Semesters > 0 && in.Assign.Chain != nil && in.Assign.Chain.TotalLevels() > 0 {
			timeScore = clampScore(100 * float64(in.Assign.Chain.TotalLevels()) / float64(m.Semesters))
		}
		difficultyScore := clampScore(100 - m.DifficultyVariance*20)
		workloadScore := clampScore(100 - math.Sqrt(m.WorkloadVariance)*2)

		costScore := 100.0
		if m.TotalCost > 0 {
			costScore = clampScore(100 * minCost / m.TotalCost)
		}

		flexibilityScore := flexibility(options[i].Plan, in.Assign.TargetCredits)
		gpaScore := gpaImpact(options[i].Plan)

		total := weights.Time*timeScore +
			weights.Difficulty*difficultyScore +
			weights.Cost*costScore +
			weights.Flexibility*flexibilityScore +
			weights.GPAImpact*gpaScore +
			weights.Workload*workloadScore

		options[i].Score = clampScore(total / weights.total())
	}
}

// flexibility rewards plans that leave slack under the credit target, since
// slack absorbs a failed or rescheduled course without replanning
func flexibility(plan *models.SequencePlan, target float64) float64 {
	if len(plan.Semesters) == 0 || target <= 0 {
		return 0
	}
	slack := 0.0
	for _, sem := range plan.Semesters {
		if sem.TotalCredits < target {
			slack += (target - sem.TotalCredits) / target
		}
	}
	return clampScore(100 * slack / float64(len(plan.Semesters)))
}

// gpaImpact penalizes plans whose hardest semester is much harder than the
// 1..5 baseline; stacked hard semesters depress grades
func gpaImpact(plan *models.SequencePlan) float64 {
	peak := 0.0
	for _, sem := range plan.Semesters {
		if len(sem.Courses) == 0 {
			continue
		}
		mean := 0.0
		for _, c := range sem.Courses {
			mean += c.DifficultyRating
		}
		mean /= float64(len(sem.Courses))
		if mean > peak {
			peak = mean
		}
	}
	return clampScore(100 - (peak-1)*25)
}

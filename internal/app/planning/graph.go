package planning

import (
	"sort"

	"github.com/campusware/degreeplanner/internal/app/models"
	"github.com/campusware/degreeplanner/internal/pkg/apperrors"
)

// GraphBuilder analyzes prerequisite relationships between courses and
// produces a PrerequisiteChainResult: topological levels, detected cycles
// and the critical path. Edges pointing at courses outside the input set
// are treated as satisfied externally and ignored.
type GraphBuilder struct{}

// NewGraphBuilder creates a new graph builder instance
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{}
}

// prereqGraph is the adjacency view the builder works on. Corequisite edges
// never participate in ordering; they are validated, not ordered.
type prereqGraph struct {
	order      []int64           // course ids in input order
	prereqs    map[int64][]int64 // course -> required ids within the set
	dependents map[int64][]int64 // required -> courses depending on it
}

func buildPrereqGraph(courses []*models.Course) *prereqGraph {
	g := &prereqGraph{
		prereqs:    make(map[int64][]int64, len(courses)),
		dependents: make(map[int64][]int64, len(courses)),
	}
	inSet := make(map[int64]bool, len(courses))
	for _, c := range courses {
		inSet[c.ID] = true
		g.order = append(g.order, c.ID)
	}
	for _, c := range courses {
		g.prereqs[c.ID] = nil
		for _, e := range c.Prerequisites {
			if e.Corequisite || !inSet[e.RequiredCourseID] {
				continue
			}
			g.prereqs[c.ID] = append(g.prereqs[c.ID], e.RequiredCourseID)
			g.dependents[e.RequiredCourseID] = append(g.dependents[e.RequiredCourseID], c.ID)
		}
	}
	return g
}

// Build runs cycle detection, topological leveling and critical path
// analysis over the given courses. Cycles are reported as data, never as an
// error: courses on or downstream of a cycle are excluded from the levels
// and the caller decides how to resolve them. An empty course list is the
// only error condition.
func (b *GraphBuilder) Build(courses []*models.Course) (*models.PrerequisiteChainResult, error) {
	if len(courses) == 0 {
		return nil, apperrors.ErrEmptyCourseList
	}

	g := buildPrereqGraph(courses)

	result := &models.PrerequisiteChainResult{
		SemesterSuggestions: make(map[int64]int, len(courses)),
	}

	// Cycle detection must run before leveling: Kahn's algorithm silently
	// drops cyclic courses, so the cycles have to be surfaced first.
	result.Cycles = detectCycles(g)
	result.HasCircularDependency = len(result.Cycles) > 0

	result.Levels = topologicalLevels(g)
	for i, level := range result.Levels {
		for _, id := range level {
			result.SemesterSuggestions[id] = i + 1
		}
	}

	result.CriticalPath = criticalPath(g, result)

	return result, nil
}

const (
	colorWhite = 0
	colorGray  = 1
	colorBlack = 2
)

// detectCycles finds directed cycles among prerequisite edges using a DFS
// with an explicit recursion stack. Each back-edge into the active stack
// yields one cycle, recorded as the ordered list of course ids forming it.
func detectCycles(g *prereqGraph) [][]int64 {
	color := make(map[int64]int, len(g.order))
	var stack []int64
	var cycles [][]int64

	var visit func(id int64)
	visit = func(id int64) {
		color[id] = colorGray
		stack = append(stack, id)
		for _, req := range g.prereqs[id] {
			switch color[req] {
			case colorWhite:
				visit(req)
			case colorGray:
				// Back edge: the cycle is the stack suffix starting at req
				for i, s := range stack {
					if s == req {
						cycle := make([]int64, len(stack)-i)
						copy(cycle, stack[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = colorBlack
	}

	for _, id := range g.order {
		if color[id] == colorWhite {
			visit(id)
		}
	}
	return cycles
}

// topologicalLevels layers the graph with Kahn's algorithm: the frontier of
// zero in-degree courses forms one level, dependents are decremented, and
// the process repeats. Courses on or downstream of a cycle never reach zero
// in-degree and are left without a level assignment.
func topologicalLevels(g *prereqGraph) [][]int64 {
	inDeg := make(map[int64]int, len(g.order))
	for _, id := range g.order {
		inDeg[id] = len(g.prereqs[id])
	}

	var frontier []int64
	for _, id := range g.order {
		if inDeg[id] == 0 {
			frontier = append(frontier, id)
		}
	}

	var levels [][]int64
	for len(frontier) > 0 {
		sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })
		level := make([]int64, len(frontier))
		copy(level, frontier)
		levels = append(levels, level)

		var next []int64
		for _, id := range frontier {
			for _, dep := range g.dependents[id] {
				inDeg[dep]--
				if inDeg[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		frontier = next
	}
	return levels
}

// criticalPath finds the longest prerequisite chain via DFS with memoized
// longest-path-from-node, ordered from base course to terminal course.
// Cyclic courses are skipped; the path is a priority hint, not a constraint.
func criticalPath(g *prereqGraph, result *models.PrerequisiteChainResult) []int64 {
	leveled := make(map[int64]bool)
	for _, level := range result.Levels {
		for _, id := range level {
			leveled[id] = true
		}
	}

	type chain struct {
		length int
		path   []int64
	}
	memo := make(map[int64]chain, len(g.order))

	var longestTo func(id int64) chain
	longestTo = func(id int64) chain {
		if c, ok := memo[id]; ok {
			return c
		}
		best := chain{length: 1, path: []int64{id}}
		for _, req := range g.prereqs[id] {
			if !leveled[req] {
				continue
			}
			sub := longestTo(req)
			if sub.length+1 > best.length {
				path := make([]int64, 0, sub.length+1)
				path = append(path, sub.path...)
				path = append(path, id)
				best = chain{length: sub.length + 1, path: path}
			}
		}
		memo[id] = best
		return best
	}

	var best chain
	for _, id := range g.order {
		if !leveled[id] {
			continue
		}
		if c := longestTo(id); c.length > best.length {
			best = c
		}
	}
	return best.path
}

package consensus

import (
	"sort"

	"github.com/vrecon/vrecon/internal/predict"
)

// edgewise takes one representative call per tool (the median of its start
// and end positions) and then, separately for starts and ends, the median of
// the largest group of tools whose boundaries chain together within tol.
// Without such a group the boundary falls back to the min start or max end.
func edgewise(members []predict.Interval, tol int) (start, end int) {
	byTool := make(map[string][]predict.Interval)
	for _, iv := range members {
		byTool[iv.Tool] = append(byTool[iv.Tool], iv)
	}

	tools := make([]string, 0, len(byTool))
	for t := range byTool {
		tools = append(tools, t)
	}
	sort.Strings(tools)

	starts := make([]int, len(tools))
	ends := make([]int, len(tools))
	for i, t := range tools {
		var s, e []int
		for _, iv := range byTool[t] {
			s = append(s, iv.Start)
			e = append(e, iv.End)
		}
		starts[i], ends[i] = median(s), median(e)
	}

	if len(tools) == 1 {
		return starts[0], ends[0]
	}

	if group := bestGroup(starts, tol); group != nil {
		start = median(group)
	} else {
		start = starts[0]
		for _, s := range starts {
			if s < start {
				start = s
			}
		}
	}

	if group := bestGroup(ends, tol); group != nil {
		end = median(group)
	} else {
		end = ends[0]
		for _, e := range ends {
			if e > end {
				end = e
			}
		}
	}

	return start, end
}

// bestGroup finds the connected groups of values, two values being connected
// if they are within tol of one another, and returns the values of the
// largest group of at least two. Ties go to the narrowest group, then the
// group holding the earliest value. nil if no two values are within tol.
func bestGroup(values []int, tol int) []int {
	seen := make([]bool, len(values))
	var best []int
	bestWidth := 0

	for i := range values {
		if seen[i] {
			continue
		}

		var group []int
		stack := []int{i}
		seen[i] = true
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			group = append(group, values[u])

			for v := range values {
				if !seen[v] && abs(values[u]-values[v]) <= tol {
					seen[v] = true
					stack = append(stack, v)
				}
			}
		}

		if len(group) < 2 {
			continue
		}

		width := spread(group)
		if best == nil || len(group) > len(best) || (len(group) == len(best) && width < bestWidth) {
			best, bestWidth = group, width
		}
	}

	return best
}

// median of the values, truncated to an int. Values are not modified.
func median(values []int) int {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// spread is the difference between the largest and smallest value.
func spread(values []int) int {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

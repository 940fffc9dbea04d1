package linprog

import "math"

// BranchRule selects which fractional integer column to branch on.
type BranchRule int

const (
	// BranchNaive takes the first fractional integer column.
	BranchNaive BranchRule = iota
	// BranchMaxObjective prefers the fractional column with the largest
	// absolute objective coefficient.
	BranchMaxObjective
	// BranchMostInfeasible prefers the column whose fractional part is
	// closest to one half.
	BranchMostInfeasible
)

// pick returns the column to branch on. It must only be called on
// candidates that failed the integrality check, so at least one fractional
// integer column exists.
func (r BranchRule) pick(cand candidate) int {
	std := cand.prob.std

	best := -1
	var bestScore float64
	for i, constrained := range std.integer {
		if !constrained {
			continue
		}
		frac := math.Abs(cand.x[i] - math.Round(cand.x[i]))
		if frac <= intTol {
			continue
		}

		switch r {
		case BranchNaive:
			return i
		case BranchMaxObjective:
			if score := math.Abs(std.c[i]); best < 0 || score > bestScore {
				best, bestScore = i, score
			}
		case BranchMostInfeasible:
			_, f := math.Modf(cand.x[i])
			if score := math.Abs(0.5 - math.Abs(f)); best < 0 || score < bestScore {
				best, bestScore = i, score
			}
		default:
			return i
		}
	}

	if best < 0 {
		// unreachable when callers respect the contract above
		panic("no fractional integer column to branch on")
	}
	return best
}

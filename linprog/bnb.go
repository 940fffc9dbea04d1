package linprog

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// degenerateRetryTol is the loosened pivot tolerance used to retry a
// relaxation whose first solve stalled on a degenerate basis.
const degenerateRetryTol = 1e-9

// branchCut is one floor/ceil bound added while descending the search tree,
// stored in <= form: factor * x[col] <= bound.
type branchCut struct {
	col    int
	factor float64
	bound  float64
}

// subproblem is one node of the branch-and-bound tree: the shared standard
// form plus the cuts accumulated on the path from the root. The shared form
// is read-only; only the cut slice is owned per node.
type subproblem struct {
	id     int64
	parent int64

	std  *standardForm
	cuts []branchCut
}

// candidate is the solved state of a subproblem. x lives in the shifted
// standard-form space with slack columns already trimmed.
type candidate struct {
	prob *subproblem
	x    []float64
	z    float64
	err  error
}

// inequalities merges the shared <= rows with this node's cuts into a
// single matrix. Cut rows end up below the shared rows.
func (sp *subproblem) inequalities() (*mat.Dense, []float64) {
	if len(sp.cuts) == 0 {
		return sp.std.Gle, sp.hle()
	}

	n := sp.std.n
	var shared int
	if sp.std.Gle != nil {
		shared, _ = sp.std.Gle.Dims()
	}

	data := make([]float64, 0, (shared+len(sp.cuts))*n)
	h := make([]float64, 0, shared+len(sp.cuts))
	if sp.std.Gle != nil {
		data = append(data, sp.std.Gle.RawMatrix().Data...)
		h = append(h, sp.std.hle...)
	}
	for _, cut := range sp.cuts {
		row := make([]float64, n)
		row[cut.col] = cut.factor
		data = append(data, row...)
		h = append(h, cut.bound)
	}
	return mat.NewDense(shared+len(sp.cuts), n, data), h
}

func (sp *subproblem) hle() []float64 {
	if sp.std.Gle == nil {
		return nil
	}
	return sp.std.hle
}

// solve runs the simplex on this node's relaxation. Inequalities are folded
// into equalities with one slack column each; the slack values are trimmed
// from the reported solution.
func (sp *subproblem) solve() candidate {
	std := sp.std
	G, h := sp.inequalities()

	var (
		z   float64
		x   []float64
		err error
	)
	if G != nil {
		c, A, b := appendSlacks(std.c, std.Aeq, std.beq, G, h)
		z, x, err = runSimplex(c, A, b)
		if err == nil && len(x) > std.n {
			x = x[:std.n]
		}
	} else {
		z, x, err = runSimplex(std.c, std.Aeq, std.beq)
	}

	return candidate{prob: sp, x: x, z: z, err: err}
}

// runSimplex solves with the default tolerance and retries once with a
// loosened one when the pivot rule stalls on a degenerate basis. Nodes the
// retry cannot save are pruned as lost by the search.
func runSimplex(c []float64, A *mat.Dense, b []float64) (float64, []float64, error) {
	z, x, err := lp.Simplex(c, A, b, 0, nil)
	if errors.Is(err, lp.ErrBland) || errors.Is(err, lp.ErrSingular) {
		z, x, err = lp.Simplex(c, A, b, degenerateRetryTol, nil)
	}
	return z, x, err
}

// integral reports whether every integer-constrained column of the
// candidate sits on an integer within tolerance.
func (cand candidate) integral() bool {
	for i, constrained := range cand.prob.std.integer {
		if !constrained {
			continue
		}
		if math.Abs(cand.x[i]-math.Round(cand.x[i])) > intTol {
			return false
		}
	}
	return true
}

// branch splits the candidate on a fractional integer column chosen by the
// rule, yielding the floor child (x <= ⌊v⌋) and the ceil child (x >= ⌊v⌋+1,
// expressed in <= form with a sign flip). Node ids are assigned by the
// caller.
func (cand candidate) branch(rule BranchRule) (floor, ceil subproblem) {
	col := rule.pick(cand)
	down := math.Floor(cand.x[col])

	floor = cand.prob.child(branchCut{col: col, factor: 1, bound: down})
	ceil = cand.prob.child(branchCut{col: col, factor: -1, bound: -(down + 1)})
	return floor, ceil
}

// child copies the node and appends one cut. The cut slice is duplicated so
// siblings never share backing arrays; everything else is shared read-only.
func (sp *subproblem) child(cut branchCut) subproblem {
	cuts := make([]branchCut, len(sp.cuts), len(sp.cuts)+1)
	copy(cuts, sp.cuts)

	return subproblem{
		parent: sp.id,
		std:    sp.std,
		cuts:   append(cuts, cut),
	}
}

// appendSlacks converts minimize c·x s.t. A·x = b, G·x <= h, x >= 0 into
// pure equality form by giving every inequality its own slack column.
func appendSlacks(c []float64, A *mat.Dense, b []float64, G *mat.Dense, h []float64) ([]float64, *mat.Dense, []float64) {
	nVar := len(c)
	nEq := len(b)
	nIneq := len(h)

	cNew := make([]float64, nVar+nIneq)
	copy(cNew, c)

	bNew := make([]float64, nEq+nIneq)
	copy(bNew, b)
	copy(bNew[nEq:], h)

	ANew := mat.NewDense(nEq+nIneq, nVar+nIneq, nil)
	if A != nil {
		ANew.Slice(0, nEq, 0, nVar).(*mat.Dense).Copy(A)
	}
	ANew.Slice(nEq, nEq+nIneq, 0, nVar).(*mat.Dense).Copy(G)
	for i := 0; i < nIneq; i++ {
		ANew.Set(nEq+i, nVar+i, 1)
	}

	return cNew, ANew, bNew
}

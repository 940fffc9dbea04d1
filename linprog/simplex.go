package linprog

import (
	"errors"
	"math"
	"runtime"
	"time"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// integrality and feasibility tolerances. Simplex iterates in floating
// point, so an "integer" value comes back as something like 2.9999999997.
const (
	intTol  = 1e-9
	feasTol = 1e-6
)

// SimplexEngine is a pure-Go Engine built on gonum's simplex solver, with
// branch-and-bound layered on top for integer and binary columns. It keeps
// no per-solve state; every problem handle it creates is independent.
//
// The engine only reports StatusOptimal when the search tree was explored
// exhaustively. If any subtree had to be abandoned because its relaxation
// failed numerically, an integer solution in hand is reported as
// StatusSubOptimal instead.
type SimplexEngine struct {
	timeLimit time.Duration
	workers   int
	abort     func() bool
	rule      BranchRule
	mw        SearchMiddleware
}

// EngineOption configures a SimplexEngine at construction time.
type EngineOption func(*SimplexEngine)

// WithTimeLimit bounds the wall-clock time of the branch-and-bound search.
// When the limit is hit the engine reports StatusSubOptimal if an integer
// incumbent exists and StatusTimeout otherwise.
func WithTimeLimit(d time.Duration) EngineOption {
	return func(e *SimplexEngine) { e.timeLimit = d }
}

// WithWorkers sets the number of concurrent subproblem solvers used by the
// branch-and-bound search. The default is runtime.NumCPU().
func WithWorkers(n int) EngineOption {
	return func(e *SimplexEngine) { e.workers = n }
}

// WithAbortFunc installs a callback polled between search steps; returning
// true halts the solve with StatusUserAbort (or StatusSubOptimal when an
// incumbent was already found).
func WithAbortFunc(f func() bool) EngineOption {
	return func(e *SimplexEngine) { e.abort = f }
}

// WithBranchRule selects the variable-selection heuristic for branching.
func WithBranchRule(r BranchRule) EngineOption {
	return func(e *SimplexEngine) { e.rule = r }
}

// WithInstrumentation replaces the default glog-backed middleware that
// receives every branch-and-bound decision.
func WithInstrumentation(mw SearchMiddleware) EngineOption {
	return func(e *SimplexEngine) { e.mw = mw }
}

func NewSimplexEngine(opts ...EngineOption) *SimplexEngine {
	e := &SimplexEngine{
		workers: runtime.NumCPU(),
		rule:    BranchMostInfeasible,
		mw:      logMiddleware{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = 1
	}
	return e
}

// NewProblem implements Engine.
func (e *SimplexEngine) NewProblem(numVariables int) (Problem, error) {
	if numVariables <= 0 {
		return nil, errors.New("problem needs at least one variable")
	}

	p := &simplexProblem{
		eng:       e,
		n:         numVariables,
		lower:     make([]float64, numVariables),
		upper:     make([]float64, numVariables),
		integer:   make([]bool, numVariables),
		objective: make([]float64, numVariables),
	}
	for i := range p.upper {
		p.upper[i] = math.Inf(1)
	}
	return p, nil
}

// denseRow is one constraint row in dense column form.
type denseRow struct {
	coefs []float64
	sense RowSense
	rhs   float64
}

// simplexProblem is the engine-side problem handle. Default column range is
// [0, +inf), matching the convention of the solvers this adapter grew up
// against.
type simplexProblem struct {
	eng *SimplexEngine

	n         int
	maximize  bool
	lower     []float64
	upper     []float64
	integer   []bool
	objective []float64
	rows      []denseRow

	batching  bool
	destroyed bool

	// solution of the last Solve, when its status carries one
	x []float64
}

func (p *simplexProblem) checkCol(col int) error {
	if p.destroyed {
		return errors.New("problem handle already destroyed")
	}
	if col < 0 || col >= p.n {
		return errors.New("column index out of range")
	}
	return nil
}

func (p *simplexProblem) SetBounds(col int, lower, upper float64) error {
	if err := p.checkCol(col); err != nil {
		return err
	}
	if math.IsInf(lower, -1) || math.IsNaN(lower) || math.IsNaN(upper) {
		return errors.New("lower bound must be finite")
	}
	if upper < lower {
		return errors.New("upper bound below lower bound")
	}
	p.lower[col] = lower
	p.upper[col] = upper
	return nil
}

func (p *simplexProblem) SetInteger(col int) error {
	if err := p.checkCol(col); err != nil {
		return err
	}
	p.integer[col] = true
	return nil
}

func (p *simplexProblem) SetBinary(col int) error {
	if err := p.checkCol(col); err != nil {
		return err
	}
	// binary marking wins over whatever range the column had
	p.integer[col] = true
	p.lower[col] = 0
	p.upper[col] = 1
	return nil
}

func (p *simplexProblem) SetMaximize(maximize bool) {
	p.maximize = maximize
}

func (p *simplexProblem) SetObjectiveRow(coeffs []float64) error {
	if p.destroyed {
		return errors.New("problem handle already destroyed")
	}
	if len(coeffs) != p.n {
		return errors.New("objective row length does not match variable count")
	}
	copy(p.objective, coeffs)
	return nil
}

func (p *simplexProblem) BeginRowBatch(hint int) {
	p.batching = true
	if extra := hint - (cap(p.rows) - len(p.rows)); extra > 0 {
		grown := make([]denseRow, len(p.rows), len(p.rows)+hint)
		copy(grown, p.rows)
		p.rows = grown
	}
}

func (p *simplexProblem) EndRowBatch() {
	p.batching = false
}

func (p *simplexProblem) AddRow(cols []int, coeffs []float64, sense RowSense, rhs float64) error {
	if p.destroyed {
		return errors.New("problem handle already destroyed")
	}
	if len(cols) != len(coeffs) {
		return errors.New("column and coefficient slices differ in length")
	}

	dense := make([]float64, p.n)
	for i, col := range cols {
		if col < 0 || col >= p.n {
			return errors.New("column index out of range")
		}
		dense[col] = coeffs[i]
	}
	p.rows = append(p.rows, denseRow{coefs: dense, sense: sense, rhs: rhs})
	return nil
}

func (p *simplexProblem) Solve() Status {
	if p.destroyed {
		return StatusNumericFailure
	}
	status, x := p.eng.run(p)
	if x != nil {
		p.x = x
	}
	return status
}

func (p *simplexProblem) Solution() ([]float64, error) {
	if p.x == nil {
		return nil, errors.New("no solution available")
	}
	return p.x, nil
}

func (p *simplexProblem) Destroy() {
	p.destroyed = true
	p.lower, p.upper, p.integer = nil, nil, nil
	p.objective, p.rows, p.x = nil, nil, nil
}

// ----------------------------------------------------------------------------
// solving
// ----------------------------------------------------------------------------

// run reduces the populated problem to gonum standard form and dispatches
// to a single simplex call or to the branch-and-bound search.
func (e *SimplexEngine) run(p *simplexProblem) (Status, []float64) {
	std, status, x := buildStandardForm(p)
	if std == nil {
		return status, x
	}

	var deadline time.Time
	if e.timeLimit > 0 {
		deadline = time.Now().Add(e.timeLimit)
	}

	if !anyTrue(std.integer) {
		return e.solveRelaxation(std)
	}

	s := &bnbSearch{
		root:     subproblem{std: std},
		rule:     e.rule,
		mw:       e.mw,
		deadline: deadline,
		abortfn:  e.abort,
	}
	return s.run(e.workers)
}

// solveRelaxation handles the purely continuous case: one simplex call.
func (e *SimplexEngine) solveRelaxation(std *standardForm) (Status, []float64) {
	cand := (&subproblem{std: std}).solve()
	if cand.err != nil {
		return translateSimplexFailure(cand.err), nil
	}
	x := std.restore(cand.x)
	if !std.withinTolerance(x) {
		return StatusAccuracyError, nil
	}
	return StatusOptimal, x
}

// translateSimplexFailure maps a gonum simplex error onto the raw status
// protocol. Unrecognized errors count as numerical failures.
func translateSimplexFailure(err error) Status {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return StatusInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return StatusUnbounded
	case errors.Is(err, lp.ErrSingular), errors.Is(err, lp.ErrBland):
		// Bland's rule stalling on ill-conditioned bases is a degeneracy
		// symptom, not a generic numeric fault
		return StatusDegenerate
	default:
		log.Warningf("linprog: simplex failed: %v", err)
		return StatusNumericFailure
	}
}

// standardForm is the engine's internal problem shape: minimize c·x subject
// to Aeq·x = beq, Gle·x <= hle and x >= 0, over the original columns only.
// Lower bounds have been shifted out and upper bounds folded into Gle.
type standardForm struct {
	n int

	c   []float64
	Aeq *mat.Dense // nil when there are no equality rows
	beq []float64
	Gle *mat.Dense // nil when there are no inequality rows
	hle []float64

	integer []bool

	// shift holds the original lower bound of each column; restore adds it
	// back. maximize only flips the costs, so solution values need no
	// sign correction.
	shift    []float64
	maximize bool

	// original rows kept for the final feasibility check
	rows []denseRow
}

// buildStandardForm normalizes the problem handle. A nil standardForm means
// the problem was decided during the reduction; the returned status (and,
// for StatusPresolved, solution) then stands on its own.
func buildStandardForm(p *simplexProblem) (*standardForm, Status, []float64) {
	n := p.n

	c := make([]float64, n)
	copy(c, p.objective)
	if p.maximize {
		for i := range c {
			c[i] = -c[i]
		}
	}

	// Integer columns shift by the rounded-up lower bound so that the
	// shifted variable stays on the integer grid.
	shift := make([]float64, n)
	for i := range shift {
		shift[i] = p.lower[i]
		if p.integer[i] {
			shift[i] = math.Ceil(p.lower[i])
		}
	}

	// substitute x = x' + lower so that x' >= 0 everywhere
	upper := make([]float64, n)
	for i := range upper {
		upper[i] = p.upper[i] - shift[i]
	}

	var eqRows, leRows []denseRow
	for _, r := range p.rows {
		rhs := r.rhs
		for i, coef := range r.coefs {
			rhs -= coef * shift[i]
		}

		switch r.sense {
		case RowEQ:
			if zeroRow(r.coefs) {
				if math.Abs(rhs) > feasTol {
					return nil, StatusInfeasible, nil
				}
				continue
			}
			eqRows = append(eqRows, denseRow{coefs: r.coefs, rhs: rhs})
		case RowLE:
			if zeroRow(r.coefs) {
				if rhs < -feasTol {
					return nil, StatusInfeasible, nil
				}
				continue
			}
			leRows = append(leRows, denseRow{coefs: r.coefs, rhs: rhs})
		case RowGE:
			// flip into <= form
			if zeroRow(r.coefs) {
				if rhs > feasTol {
					return nil, StatusInfeasible, nil
				}
				continue
			}
			neg := make([]float64, n)
			for i, coef := range r.coefs {
				neg[i] = -coef
			}
			leRows = append(leRows, denseRow{coefs: neg, rhs: -rhs})
		}
	}

	// A model without constraint rows is fully decided by its bounds; this
	// is the classic "solved by presolve" case.
	if len(eqRows) == 0 && len(leRows) == 0 {
		x, ok := solveBoxOnly(c, upper, p.integer)
		if !ok {
			return nil, StatusUnbounded, nil
		}
		for i := range x {
			x[i] += shift[i]
		}
		return nil, StatusPresolved, x
	}

	// fold finite upper bounds into inequality rows
	for i, ub := range upper {
		if math.IsInf(ub, 1) {
			continue
		}
		row := make([]float64, n)
		row[i] = 1
		leRows = append(leRows, denseRow{coefs: row, rhs: ub})
	}

	// Columns that appear in no row would trip the simplex; pin free
	// columns at zero (harmless for minimization with c >= 0) and call a
	// negative-cost free column what it is: an unbounded ray.
	seen := make([]bool, n)
	for _, r := range eqRows {
		markNonzero(seen, r.coefs)
	}
	for _, r := range leRows {
		markNonzero(seen, r.coefs)
	}
	for i := 0; i < n; i++ {
		if seen[i] {
			continue
		}
		if c[i] < 0 {
			return nil, StatusUnbounded, nil
		}
		row := make([]float64, n)
		row[i] = 1
		leRows = append(leRows, denseRow{coefs: row, rhs: 0})
	}

	std := &standardForm{
		n:        n,
		c:        c,
		integer:  append([]bool(nil), p.integer...),
		shift:    shift,
		maximize: p.maximize,
		rows:     p.rows,
	}
	if len(eqRows) > 0 {
		std.Aeq, std.beq = rowsToDense(eqRows, n)
	}
	if len(leRows) > 0 {
		std.Gle, std.hle = rowsToDense(leRows, n)
	}
	return std, StatusOptimal, nil
}

// restore maps a solution from the shifted space back to the caller's
// variable space and snaps integer columns onto their nearest integers.
func (std *standardForm) restore(x []float64) []float64 {
	out := make([]float64, std.n)
	for i := range out {
		out[i] = x[i] + std.shift[i]
		if std.integer[i] {
			out[i] = math.Round(out[i])
		}
	}
	return out
}

// withinTolerance verifies the finished solution against the original rows
// and bounds. A violation beyond the feasibility tolerance is reported as
// an accuracy error rather than silently returned.
func (std *standardForm) withinTolerance(x []float64) bool {
	for _, r := range std.rows {
		var sum float64
		for i, coef := range r.coefs {
			sum += coef * x[i]
		}
		scale := feasTol * (1 + math.Abs(r.rhs))
		switch r.sense {
		case RowEQ:
			if math.Abs(sum-r.rhs) > scale {
				return false
			}
		case RowGE:
			if sum < r.rhs-scale {
				return false
			}
		case RowLE:
			if sum > r.rhs+scale {
				return false
			}
		}
	}
	return true
}

// solveBoxOnly minimizes c·x over 0 <= x <= upper in closed form. Returns
// ok == false when a negative cost meets an infinite upper bound.
func solveBoxOnly(c, upper []float64, integer []bool) ([]float64, bool) {
	x := make([]float64, len(c))
	for i, ci := range c {
		if ci >= 0 {
			continue
		}
		if math.IsInf(upper[i], 1) {
			return nil, false
		}
		x[i] = upper[i]
		if integer[i] {
			x[i] = math.Floor(upper[i])
		}
	}
	return x, true
}

func rowsToDense(rows []denseRow, n int) (*mat.Dense, []float64) {
	data := make([]float64, 0, len(rows)*n)
	rhs := make([]float64, len(rows))
	for i, r := range rows {
		data = append(data, r.coefs...)
		rhs[i] = r.rhs
	}
	return mat.NewDense(len(rows), n, data), rhs
}

func zeroRow(coefs []float64) bool {
	for _, v := range coefs {
		if v != 0 {
			return false
		}
	}
	return true
}

func markNonzero(seen []bool, coefs []float64) {
	for i, v := range coefs {
		if v != 0 {
			seen[i] = true
		}
	}
}

func anyTrue(in []bool) bool {
	for _, v := range in {
		if v {
			return true
		}
	}
	return false
}

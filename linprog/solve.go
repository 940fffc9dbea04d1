package linprog

import (
	"fmt"

	log "github.com/golang/glog"
)

// Result is the successful outcome of a solve: one value per variable, in
// the model's variable order, plus the objective value at that point.
type Result struct {
	// Status is the raw engine status the result was extracted under.
	// StatusOptimal unless sub-optimal acceptance was requested.
	Status Status

	// Solution holds one value per model variable, same order as the model.
	Solution []float64

	// Objective is the model's objective evaluated at Solution.
	Objective float64
}

// Option configures a single solve invocation.
type Option func(*solveConfig)

type solveConfig struct {
	engine           Engine
	acceptSuboptimal bool
}

// WithEngine selects the engine to solve against. The default is a
// SimplexEngine with default settings.
func WithEngine(e Engine) Option {
	return func(c *solveConfig) { c.engine = e }
}

// AcceptSuboptimal makes Solve extract and return the solution vector when
// the engine reports a sub-optimal integer solution or a problem fully
// solved by presolve, instead of treating those statuses as failures.
func AcceptSuboptimal() Option {
	return func(c *solveConfig) { c.acceptSuboptimal = true }
}

// Solve translates the model into an engine problem, runs one solve and
// maps the raw status into an outcome. On success the returned Result owns
// its solution vector; on any failure the error is a *SolveError and no
// partial solution is exposed. Exactly one solve attempt is made per call.
func Solve(m *Model, opts ...Option) (res *Result, err error) {
	cfg := solveConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.engine == nil {
		cfg.engine = NewSimplexEngine()
	}

	if m == nil || m.NumVariables() == 0 {
		return nil, ErrEmptyModel
	}

	// The engine boundary must not leak faults: anything that panics during
	// translation or the native solve call comes back as a typed failure.
	defer func() {
		if r := recover(); r != nil {
			log.Warningf("linprog: recovered from engine fault: %v", r)
			res = nil
			err = &SolveError{Reason: ReasonUnexpected, Msg: fmt.Sprintf("engine fault: %v", r)}
		}
	}()

	prob, err := cfg.engine.NewProblem(m.NumVariables())
	if err != nil {
		return nil, &SolveError{Reason: ReasonEngineCreation, Msg: fmt.Sprintf("creating engine problem: %v", err)}
	}
	defer prob.Destroy()

	if err := populate(prob, m); err != nil {
		return nil, &SolveError{Reason: ReasonUnexpected, Msg: err.Error()}
	}

	status := prob.Solve()
	return mapOutcome(prob, m, status, cfg.acceptSuboptimal)
}

// mapOutcome turns a raw engine status into the adapter's outcome. Only an
// accepted status extracts the solution vector; every other status becomes
// a typed failure carrying the raw code.
func mapOutcome(p Problem, m *Model, status Status, acceptSuboptimal bool) (*Result, error) {
	accepted := status == StatusOptimal
	if acceptSuboptimal && (status == StatusSubOptimal || status == StatusPresolved) {
		accepted = true
	}

	if !accepted {
		failure := failureFromStatus(status)
		log.Warningf("linprog: solve failed with status %v: %s", status, failure.Msg)
		return nil, failure
	}

	x, err := p.Solution()
	if err != nil {
		return nil, &SolveError{
			Reason: ReasonUnexpected,
			Status: status,
			Msg:    fmt.Sprintf("engine reported %v but produced no solution: %v", status, err),
		}
	}
	if len(x) != m.NumVariables() {
		return nil, &SolveError{
			Reason: ReasonUnexpected,
			Status: status,
			Msg:    fmt.Sprintf("engine solution has %d values, model has %d variables", len(x), m.NumVariables()),
		}
	}

	solution := make([]float64, len(x))
	copy(solution, x)

	return &Result{
		Status:    status,
		Solution:  solution,
		Objective: objectiveValue(m, solution),
	}, nil
}

// objectiveValue evaluates the model's sparse objective at x. Accumulation
// order does not affect the mathematical sum.
func objectiveValue(m *Model, x []float64) float64 {
	var z float64
	for i, coef := range m.Objective() {
		z += coef * x[i]
	}
	return z
}

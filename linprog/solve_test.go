package linprog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func twoVariableModel() *Model {
	m := NewModel()
	x := m.AddVariable()
	y := m.AddVariable()
	m.SetObjectiveCoefficient(x, 1)
	m.SetObjectiveCoefficient(y, 2)
	m.AddConstraint(map[int]float64{x: 1, y: 1}, ConstraintUpper, 1)
	return m
}

func TestSolveEmptyModel(t *testing.T) {
	eng := &fakeEngine{}

	_, err := Solve(nil, WithEngine(eng))
	assert.Equal(t, ErrEmptyModel, err)

	_, err = Solve(NewModel(), WithEngine(eng))
	assert.Equal(t, ErrEmptyModel, err)

	// the guard fires before any engine resources exist
	assert.Zero(t, eng.created)
}

func TestSolveOptimalOutcome(t *testing.T) {
	eng := &fakeEngine{status: StatusOptimal, solution: []float64{0, 1}}

	res, err := Solve(twoVariableModel(), WithEngine(eng))
	assert.NoError(t, err)
	assert.Equal(t, StatusOptimal, res.Status)
	assert.Equal(t, []float64{0, 1}, res.Solution)
	assert.Equal(t, 2.0, res.Objective)

	// the handle is torn down after extraction
	assert.Equal(t, 1, eng.problems[0].destroyCalls)
	assert.Equal(t, 1, eng.problems[0].solveCalls)
}

func TestSolveCopiesSolutionVector(t *testing.T) {
	raw := []float64{0.5, 0.5}
	eng := &fakeEngine{status: StatusOptimal, solution: raw}

	res, err := Solve(twoVariableModel(), WithEngine(eng))
	assert.NoError(t, err)

	raw[0] = 99
	assert.Equal(t, 0.5, res.Solution[0])
}

func TestSolveFailureStatuses(t *testing.T) {
	for _, c := range []struct {
		status Status
		reason FailureReason
	}{
		{StatusInfeasible, ReasonInfeasible},
		{StatusUnbounded, ReasonUnbounded},
		{StatusTimeout, ReasonTimeout},
		{Status(17), ReasonUnknown},
	} {
		eng := &fakeEngine{status: c.status, solution: []float64{0, 0}}

		res, err := Solve(twoVariableModel(), WithEngine(eng))
		assert.Nil(t, res, "status %v", c.status)

		var solveErr *SolveError
		assert.ErrorAs(t, err, &solveErr, "status %v", c.status)
		assert.Equal(t, c.reason, solveErr.Reason)
		assert.Equal(t, c.status, solveErr.Status)

		// the handle is destroyed even on failure
		assert.Equal(t, 1, eng.problems[0].destroyCalls)
	}
}

func TestSolveSuboptimalRejectedByDefault(t *testing.T) {
	eng := &fakeEngine{status: StatusSubOptimal, solution: []float64{1, 0}}

	_, err := Solve(twoVariableModel(), WithEngine(eng))
	var solveErr *SolveError
	assert.ErrorAs(t, err, &solveErr)
	assert.Equal(t, ReasonSubOptimal, solveErr.Reason)
}

func TestSolveSuboptimalAccepted(t *testing.T) {
	for _, status := range []Status{StatusSubOptimal, StatusPresolved} {
		eng := &fakeEngine{status: status, solution: []float64{1, 0}}

		res, err := Solve(twoVariableModel(), WithEngine(eng), AcceptSuboptimal())
		assert.NoError(t, err, "status %v", status)
		assert.Equal(t, status, res.Status)
		assert.Equal(t, []float64{1, 0}, res.Solution)
		assert.Equal(t, 1.0, res.Objective)
	}
}

func TestSolveEngineCreationFailure(t *testing.T) {
	eng := &fakeEngine{failCreate: true}

	_, err := Solve(twoVariableModel(), WithEngine(eng))
	var solveErr *SolveError
	assert.ErrorAs(t, err, &solveErr)
	assert.Equal(t, ReasonEngineCreation, solveErr.Reason)
}

func TestSolveRecoversEnginePanic(t *testing.T) {
	eng := &fakeEngine{panicMsg: "segfault in native code"}

	res, err := Solve(twoVariableModel(), WithEngine(eng))
	assert.Nil(t, res)

	var solveErr *SolveError
	assert.ErrorAs(t, err, &solveErr)
	assert.Equal(t, ReasonUnexpected, solveErr.Reason)
	assert.Contains(t, solveErr.Msg, "segfault in native code")
}

func TestSolveLengthMismatch(t *testing.T) {
	eng := &fakeEngine{status: StatusOptimal, solution: []float64{1}}

	_, err := Solve(twoVariableModel(), WithEngine(eng))
	var solveErr *SolveError
	assert.ErrorAs(t, err, &solveErr)
	assert.Equal(t, ReasonUnexpected, solveErr.Reason)
}

func TestSolveMissingSolution(t *testing.T) {
	// engine claims optimal but has nothing to extract
	eng := &fakeEngine{status: StatusOptimal}

	_, err := Solve(twoVariableModel(), WithEngine(eng))
	var solveErr *SolveError
	assert.ErrorAs(t, err, &solveErr)
	assert.Equal(t, ReasonUnexpected, solveErr.Reason)
	assert.Equal(t, StatusOptimal, solveErr.Status)
}

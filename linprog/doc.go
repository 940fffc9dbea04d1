// Package linprog translates a solver-agnostic description of a linear or
// mixed-integer program into the calling conventions of an optimization
// engine, runs the solve, and maps the engine's raw status code into a
// typed outcome.
//
// The package separates three concerns. A Model describes variables, one
// sparse objective and ordered constraints without committing to any
// engine. The Engine and Problem interfaces are the narrow capability
// surface an engine must offer: column marking, a dense objective row,
// sparse constraint rows with a comparison sense, one solve call and one
// solution read-out. Solve wires the two together and owns the outcome
// protocol: a Result with one value per variable on success, a *SolveError
// carrying a typed reason and the raw engine status on every failure.
//
//	m := linprog.NewModel()
//	m.Maximize = true
//	x := m.AddVariable()
//	y := m.AddVariable()
//	m.SetVariableBounds(x, 0, 1)
//	m.SetVariableBounds(y, 0, 1)
//	m.SetObjectiveCoefficient(x, 1)
//	m.SetObjectiveCoefficient(y, 1)
//	m.AddConstraint(map[int]float64{x: 1, y: 1}, linprog.ConstraintUpper, 1)
//
//	res, err := linprog.Solve(m)
//
// The bundled SimplexEngine is a pure-Go engine built on gonum's simplex
// solver with branch-and-bound for integer columns, so the package works
// out of the box without native solver libraries. Any other engine can be
// plugged in through WithEngine.
package linprog

package linprog

// VariableKind classifies a decision variable.
type VariableKind int

const (
	Continuous VariableKind = iota
	Integer
	Binary
)

func (k VariableKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// BoundKind classifies the feasible range of a variable. With BoundDefault
// the engine's own default range applies (commonly [0, +inf)); BoundDouble
// carries an explicit lower and upper bound.
type BoundKind int

const (
	BoundDefault BoundKind = iota
	BoundDouble
)

// Variable describes a single decision variable. Its identity is its
// position in the model's variable list.
type Variable struct {
	Kind  VariableKind
	Bound BoundKind

	// Lower and Upper are only meaningful when Bound is BoundDouble.
	Lower, Upper float64
}

// ConstraintKind classifies how a constraint bounds its coefficient sum.
type ConstraintKind int

const (
	// ConstraintFixed: sum == RHS
	ConstraintFixed ConstraintKind = iota
	// ConstraintLower: sum >= RHS
	ConstraintLower
	// ConstraintUpper: sum <= RHS
	ConstraintUpper
	// ConstraintDouble: Lower <= sum <= Upper
	ConstraintDouble
)

// Constraint is a sparse linear constraint over the model's variables.
// Variable indices absent from Coefficients have coefficient zero.
type Constraint struct {
	Coefficients map[int]float64
	Kind         ConstraintKind

	// RHS is used by Fixed, Lower and Upper constraints.
	RHS float64

	// Lower and Upper are used by Double constraints.
	Lower, Upper float64
}

// Model is a solver-agnostic description of a linear or mixed-integer
// program: an ordered variable list, one sparse objective and an ordered
// constraint list. The solve machinery never mutates a Model.
type Model struct {
	// Maximize flips the optimization direction. The default is minimization.
	Maximize bool

	variables   []Variable
	objective   map[int]float64
	constraints []Constraint
}

func NewModel() *Model {
	return &Model{
		objective: make(map[int]float64),
	}
}

// AddVariable adds a continuous variable with the engine's default bounds
// and returns its index.
func (m *Model) AddVariable() int {
	return m.addVariable(Variable{Kind: Continuous})
}

// AddIntegerVariable adds an unbounded-range integer variable and returns
// its index.
func (m *Model) AddIntegerVariable() int {
	return m.addVariable(Variable{Kind: Integer})
}

// AddBinaryVariable adds a 0/1 variable and returns its index.
func (m *Model) AddBinaryVariable() int {
	return m.addVariable(Variable{Kind: Binary})
}

func (m *Model) addVariable(v Variable) int {
	m.variables = append(m.variables, v)
	return len(m.variables) - 1
}

// SetVariableBounds attaches an explicit [lower, upper] range to variable i,
// replacing the engine default. For Binary variables the 0/1 marking takes
// precedence over any range set here.
func (m *Model) SetVariableBounds(i int, lower, upper float64) {
	m.variables[i].Bound = BoundDouble
	m.variables[i].Lower = lower
	m.variables[i].Upper = upper
}

// SetObjectiveCoefficient sets the objective coefficient of variable i.
// Variables never mentioned keep coefficient zero.
func (m *Model) SetObjectiveCoefficient(i int, coef float64) {
	if m.objective == nil {
		m.objective = make(map[int]float64)
	}
	m.objective[i] = coef
}

// AddConstraint appends a Fixed, Lower or Upper constraint. The coefficient
// map is stored as-is; the caller must not modify it afterwards.
func (m *Model) AddConstraint(coefficients map[int]float64, kind ConstraintKind, rhs float64) {
	m.constraints = append(m.constraints, Constraint{
		Coefficients: coefficients,
		Kind:         kind,
		RHS:          rhs,
	})
}

// AddEquality appends a sum == rhs constraint.
func (m *Model) AddEquality(coefficients map[int]float64, rhs float64) {
	m.AddConstraint(coefficients, ConstraintFixed, rhs)
}

// AddRange appends a double-bounded constraint lower <= sum <= upper.
func (m *Model) AddRange(coefficients map[int]float64, lower, upper float64) {
	m.constraints = append(m.constraints, Constraint{
		Coefficients: coefficients,
		Kind:         ConstraintDouble,
		Lower:        lower,
		Upper:        upper,
	})
}

// NumVariables returns the number of variables declared so far.
func (m *Model) NumVariables() int {
	return len(m.variables)
}

// VariableAt returns the variable at index i.
func (m *Model) VariableAt(i int) Variable {
	return m.variables[i]
}

// Objective returns the sparse objective coefficient map.
func (m *Model) Objective() map[int]float64 {
	return m.objective
}

// Constraints returns the constraints in the order they were added.
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

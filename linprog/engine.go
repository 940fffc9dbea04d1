package linprog

// RowSense is the comparison direction of a single constraint row.
type RowSense int

const (
	RowEQ RowSense = iota
	RowGE
	RowLE
)

func (s RowSense) String() string {
	switch s {
	case RowEQ:
		return "=="
	case RowGE:
		return ">="
	case RowLE:
		return "<="
	default:
		return "?"
	}
}

// Engine is the capability surface an external optimization engine must
// expose to the adapter. An Engine is a problem factory; all per-solve state
// lives in the Problem handle it hands out, so a single Engine value may
// serve concurrent solves as long as each uses its own Problem.
type Engine interface {
	// NewProblem creates a fresh problem handle sized for numVariables
	// columns. Implementations should reject numVariables <= 0.
	NewProblem(numVariables int) (Problem, error)
}

// Problem is a scoped handle on one engine-side problem instance. It is
// created, populated, solved and destroyed within a single solve invocation
// and must not be shared between goroutines.
//
// Column indices are 0-based and must be < the variable count the handle
// was created with.
type Problem interface {
	// SetBounds replaces the default range of a column with [lower, upper].
	SetBounds(col int, lower, upper float64) error

	// SetInteger marks a column as integer-valued over its current range.
	SetInteger(col int) error

	// SetBinary marks a column as a 0/1 integer. This overrides any range
	// previously set on the column.
	SetBinary(col int) error

	// SetMaximize flips the objective direction; the default is minimization.
	SetMaximize(maximize bool)

	// SetObjectiveRow installs the dense objective row. The slice length
	// must equal the variable count.
	SetObjectiveRow(coeffs []float64) error

	// BeginRowBatch announces that roughly hint rows are about to be added,
	// letting the engine pre-size its row storage and defer internal
	// recomputation until EndRowBatch.
	BeginRowBatch(hint int)

	// AddRow appends one sparse constraint row: sum(coeffs[i]*x[cols[i]])
	// compared against rhs according to sense.
	AddRow(cols []int, coeffs []float64, sense RowSense, rhs float64) error

	// EndRowBatch closes the batch opened by BeginRowBatch.
	EndRowBatch()

	// Solve runs the engine on the populated problem and returns its raw
	// status code. Interpretation of the code is the caller's business.
	Solve() Status

	// Solution returns the per-column solution values of the last solve,
	// or an error if none are available for its status.
	Solution() ([]float64, error)

	// Destroy releases the handle. It must be safe to call more than once.
	Destroy()
}

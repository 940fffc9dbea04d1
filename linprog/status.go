package linprog

import "fmt"

// Status is the raw numeric result code reported by an engine's solve call.
// The values follow the lp_solve numbering, which the first engine this
// adapter targeted spoke natively. Engines built on other libraries must
// translate into these codes; anything unrecognized is handled as unknown
// rather than rejected.
type Status int

const (
	StatusNoMemory       Status = -2
	StatusOptimal        Status = 0
	StatusSubOptimal     Status = 1
	StatusInfeasible     Status = 2
	StatusUnbounded      Status = 3
	StatusDegenerate     Status = 4
	StatusNumericFailure Status = 5
	StatusUserAbort      Status = 6
	StatusTimeout        Status = 7
	StatusPresolved      Status = 9
	StatusAccuracyError  Status = 25
)

func (s Status) String() string {
	switch s {
	case StatusNoMemory:
		return "no-memory"
	case StatusOptimal:
		return "optimal"
	case StatusSubOptimal:
		return "sub-optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusDegenerate:
		return "degenerate"
	case StatusNumericFailure:
		return "numeric-failure"
	case StatusUserAbort:
		return "user-abort"
	case StatusTimeout:
		return "timeout"
	case StatusPresolved:
		return "presolved"
	case StatusAccuracyError:
		return "accuracy-error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// FailureReason is the adapter's typed classification of a failed solve.
type FailureReason int

const (
	ReasonEmptyModel FailureReason = iota
	ReasonEngineCreation
	ReasonResourceExhausted
	ReasonSubOptimal
	ReasonInfeasible
	ReasonUnbounded
	ReasonDegenerate
	ReasonNumericFailure
	ReasonAborted
	ReasonTimeout
	ReasonUnhandled
	ReasonAccuracyError
	ReasonUnknown
	ReasonUnexpected
)

func (r FailureReason) String() string {
	switch r {
	case ReasonEmptyModel:
		return "EmptyModel"
	case ReasonEngineCreation:
		return "EngineCreation"
	case ReasonResourceExhausted:
		return "ResourceExhausted"
	case ReasonSubOptimal:
		return "SubOptimal"
	case ReasonInfeasible:
		return "Infeasible"
	case ReasonUnbounded:
		return "Unbounded"
	case ReasonDegenerate:
		return "Degenerate"
	case ReasonNumericFailure:
		return "NumericFailure"
	case ReasonAborted:
		return "Aborted"
	case ReasonTimeout:
		return "Timeout"
	case ReasonUnhandled:
		return "Unhandled"
	case ReasonAccuracyError:
		return "AccuracyError"
	case ReasonUnknown:
		return "Unknown"
	case ReasonUnexpected:
		return "Unexpected"
	default:
		return fmt.Sprintf("FailureReason(%d)", int(r))
	}
}

// reasonForStatus maps a raw engine status to the adapter's failure
// taxonomy. StatusOptimal deliberately maps to ReasonUnexpected: callers
// only reach this function on statuses they did not accept as a solution.
func reasonForStatus(s Status) FailureReason {
	switch s {
	case StatusNoMemory:
		return ReasonResourceExhausted
	case StatusSubOptimal:
		return ReasonSubOptimal
	case StatusInfeasible:
		return ReasonInfeasible
	case StatusUnbounded:
		return ReasonUnbounded
	case StatusDegenerate:
		return ReasonDegenerate
	case StatusNumericFailure:
		return ReasonNumericFailure
	case StatusUserAbort:
		return ReasonAborted
	case StatusTimeout:
		return ReasonTimeout
	case StatusPresolved:
		return ReasonUnhandled
	case StatusAccuracyError:
		return ReasonAccuracyError
	case StatusOptimal:
		return ReasonUnexpected
	default:
		return ReasonUnknown
	}
}

func statusMessage(s Status) string {
	switch s {
	case StatusNoMemory:
		return "out of memory"
	case StatusSubOptimal:
		return "the model is sub-optimal; an integer solution was found but it is not guaranteed to be the most optimal one"
	case StatusInfeasible:
		return "the model is infeasible"
	case StatusUnbounded:
		return "the model is unbounded"
	case StatusDegenerate:
		return "the model is degenerative"
	case StatusNumericFailure:
		return "numerical failure encountered"
	case StatusUserAbort:
		return "the abort routine was called"
	case StatusTimeout:
		return "a timeout occurred"
	case StatusPresolved:
		return "the model could be solved by presolve"
	case StatusAccuracyError:
		return "accuracy error encountered"
	default:
		return fmt.Sprintf("engine returned unrecognized status %d", int(s))
	}
}

// SolveError is the typed failure outcome of a solve attempt. It carries
// the raw engine status for diagnostics whenever an engine was involved.
type SolveError struct {
	Reason FailureReason
	Status Status
	Msg    string
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("linprog: %s: %s", e.Reason, e.Msg)
}

// ErrEmptyModel is returned when solving is attempted on a model without
// variables. No engine problem is created in that case.
var ErrEmptyModel = &SolveError{Reason: ReasonEmptyModel, Msg: "variable set is empty"}

func failureFromStatus(s Status) *SolveError {
	return &SolveError{
		Reason: reasonForStatus(s),
		Status: s,
		Msg:    statusMessage(s),
	}
}

package linprog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonForStatusCoversProtocol(t *testing.T) {
	cases := []struct {
		status Status
		reason FailureReason
	}{
		{StatusNoMemory, ReasonResourceExhausted},
		{StatusSubOptimal, ReasonSubOptimal},
		{StatusInfeasible, ReasonInfeasible},
		{StatusUnbounded, ReasonUnbounded},
		{StatusDegenerate, ReasonDegenerate},
		{StatusNumericFailure, ReasonNumericFailure},
		{StatusUserAbort, ReasonAborted},
		{StatusTimeout, ReasonTimeout},
		{StatusPresolved, ReasonUnhandled},
		{StatusAccuracyError, ReasonAccuracyError},
	}
	for _, c := range cases {
		assert.Equal(t, c.reason, reasonForStatus(c.status), "status %v", c.status)
	}
}

func TestReasonForUnknownStatus(t *testing.T) {
	// codes outside the protocol must classify, never panic
	for _, s := range []Status{-99, 8, 10, 24, 26, 1000} {
		assert.Equal(t, ReasonUnknown, reasonForStatus(s), "status %d", int(s))
	}
}

func TestFailureFromStatusCarriesRawCode(t *testing.T) {
	err := failureFromStatus(StatusInfeasible)
	assert.Equal(t, ReasonInfeasible, err.Reason)
	assert.Equal(t, StatusInfeasible, err.Status)
	assert.Equal(t, "linprog: Infeasible: the model is infeasible", err.Error())

	err = failureFromStatus(Status(42))
	assert.Equal(t, ReasonUnknown, err.Reason)
	assert.Equal(t, Status(42), err.Status)
	assert.Contains(t, err.Msg, "42")
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "optimal", StatusOptimal.String())
	assert.Equal(t, "sub-optimal", StatusSubOptimal.String())
	assert.Equal(t, "timeout", StatusTimeout.String())
	assert.Equal(t, "status(13)", Status(13).String())

	assert.Equal(t, "Aborted", ReasonAborted.String())
	assert.Equal(t, "FailureReason(99)", FailureReason(99).String())
}

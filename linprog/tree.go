package linprog

import (
	"sync"
	"time"

	log "github.com/golang/glog"
)

// bnbSearch explores the branch-and-bound tree with a pool of subproblem
// solvers. A single checker goroutine owns the incumbent and all pruning
// decisions; workers only solve relaxations. Subproblems travel through an
// unbounded in-between buffer so that workers posting candidates and the
// checker enqueueing children can never deadlock on each other.
type bnbSearch struct {
	root subproblem
	rule BranchRule
	mw   SearchMiddleware

	deadline time.Time // zero means no limit
	abortfn  func() bool

	pending    chan subproblem
	active     chan subproblem
	candidates chan candidate

	inFlight sync.WaitGroup

	// all fields below are owned by the checker goroutine
	incumbent  *candidate
	halted     bool
	haltStatus Status

	// lostNodes counts subtrees pruned without a solved relaxation
	// (degenerate or numeric failures). Any lost node may have hidden the
	// true optimum, so the search can no longer claim optimality.
	lostNodes       int
	numericFailures int

	nextID int64
}

// run drives the search to completion (or interruption) and reports the
// outcome in the raw status protocol.
func (s *bnbSearch) run(workers int) (Status, []float64) {
	rootCand := s.root.solve()
	if rootCand.err != nil {
		return translateSimplexFailure(rootCand.err), nil
	}

	// the relaxation may already satisfy every integrality constraint
	if rootCand.integral() {
		return s.finish(StatusOptimal, &rootCand)
	}

	s.pending = make(chan subproblem)
	s.active = make(chan subproblem)
	s.candidates = make(chan candidate)

	go s.pump()
	go s.checker()
	for i := 0; i < workers; i++ {
		go s.worker()
	}

	s.post(rootCand)
	s.inFlight.Wait()
	close(s.pending)

	return s.outcome()
}

// outcome reads the exhausted search state into a raw status. Optimality is
// only claimed when every subtree was either explored or soundly bounded
// away; a halted or lossy search downgrades an incumbent to sub-optimal.
func (s *bnbSearch) outcome() (Status, []float64) {
	switch {
	case s.halted && s.incumbent != nil:
		// cut short with an integer solution in hand: sub-optimal
		return s.finish(StatusSubOptimal, s.incumbent)
	case s.halted:
		return s.haltStatus, nil
	case s.incumbent == nil && s.numericFailures > 0:
		return StatusNumericFailure, nil
	case s.incumbent == nil && s.lostNodes > 0:
		return StatusDegenerate, nil
	case s.incumbent == nil:
		return StatusInfeasible, nil
	case s.lostNodes > 0:
		// a lost subtree may have contained a better integer solution
		return s.finish(StatusSubOptimal, s.incumbent)
	default:
		return s.finish(StatusOptimal, s.incumbent)
	}
}

// finish maps a winning candidate back to the caller's variable space and
// runs the residual check on the way out.
func (s *bnbSearch) finish(status Status, cand *candidate) (Status, []float64) {
	x := s.root.std.restore(cand.x)
	if !s.root.std.withinTolerance(x) {
		return StatusAccuracyError, nil
	}
	return status, x
}

// post hands a solved candidate to the checker, registering the unit of
// work first so the WaitGroup can never hit zero early.
func (s *bnbSearch) post(cand candidate) {
	s.inFlight.Add(1)
	s.candidates <- cand
}

func (s *bnbSearch) enqueue(subs ...subproblem) {
	for _, sub := range subs {
		s.inFlight.Add(1)
		s.pending <- sub
	}
}

// pump buffers subproblems between the checker and the workers. The nil
// channel in the select makes the send case inert while the buffer is
// empty. Closing pending shuts down the whole pipeline: active first, then
// candidates, which releases workers and checker in that order.
func (s *bnbSearch) pump() {
	var buffer []subproblem
	var next subproblem
	var out chan subproblem

	for {
		select {
		case sub, open := <-s.pending:
			if !open {
				close(s.active)
				close(s.candidates)
				return
			}
			buffer = append(buffer, sub)

		case out <- next:
			buffer = buffer[1:]
		}

		if len(buffer) > 0 {
			next = buffer[0]
			out = s.active
		} else {
			out = nil
		}
	}
}

func (s *bnbSearch) worker() {
	for sub := range s.active {
		// each candidate must carry its own subproblem, not a pointer into
		// the reused loop variable
		sub := sub
		s.post(sub.solve())
		s.inFlight.Done()
	}
}

// checker serially decides the fate of every candidate: prune, crown as
// incumbent, or branch. Interruption checks live here so the time limit
// and abort callback are polled once per node rather than per worker.
func (s *bnbSearch) checker() {
	for cand := range s.candidates {
		decision := s.decide(&cand)
		s.mw.ProcessNode(nodeReport(&cand, decision))
		s.inFlight.Done()
	}
}

func (s *bnbSearch) decide(cand *candidate) SearchDecision {
	if s.interrupted() {
		return DecisionUnexplored
	}

	switch {
	case cand.err != nil:
		return s.pruneForFailure(cand.err)

	case s.incumbent != nil && s.incumbent.z <= cand.z:
		// the relaxation bound can only get worse further down
		return DecisionPrunedWorse

	case cand.integral():
		better := *cand
		s.incumbent = &better
		return DecisionNewIncumbent

	default:
		floor, ceil := cand.branch(s.rule)
		s.nextID += 2
		floor.id, ceil.id = s.nextID-1, s.nextID
		s.enqueue(floor, ceil)
		return DecisionBranched
	}
}

func (s *bnbSearch) pruneForFailure(err error) SearchDecision {
	switch translateSimplexFailure(err) {
	case StatusInfeasible:
		// an infeasible relaxation is a sound prune
		return DecisionPrunedInfeasible
	case StatusDegenerate:
		s.lostNodes++
		return DecisionPrunedDegenerate
	default:
		s.lostNodes++
		s.numericFailures++
		return DecisionPrunedNumeric
	}
}

// interrupted reports whether the search should stop exploring. Only ever
// called from the checker goroutine.
func (s *bnbSearch) interrupted() bool {
	if s.halted {
		return true
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.halt(StatusTimeout)
		return true
	}
	if s.abortfn != nil && s.abortfn() {
		s.halt(StatusUserAbort)
		return true
	}
	return false
}

func (s *bnbSearch) halt(status Status) {
	s.halted = true
	s.haltStatus = status
	log.V(1).Infof("linprog: branch-and-bound halted: %v", status)
}

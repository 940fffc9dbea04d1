package linprog

import (
	log "github.com/golang/glog"
)

// SearchDecision is the verdict the branch-and-bound checker reached for
// one node of the tree.
type SearchDecision string

const (
	DecisionPrunedInfeasible SearchDecision = "subproblem has no feasible solution"
	DecisionPrunedDegenerate SearchDecision = "subproblem contains a degenerate (singular) matrix"
	DecisionPrunedNumeric    SearchDecision = "subproblem failed numerically"
	DecisionPrunedWorse      SearchDecision = "bound worse than incumbent"
	DecisionNewIncumbent     SearchDecision = "integer feasible, replacing incumbent"
	DecisionBranched         SearchDecision = "better than incumbent but fractional, branching"
	DecisionUnexplored       SearchDecision = "search halted, node left unexplored"
)

// NodeReport is the per-node summary handed to instrumentation middleware.
// It deliberately carries values only, never references into the search
// tree, so holding on to reports cannot pin subproblem memory.
type NodeReport struct {
	ID     int64
	Parent int64
	Depth  int

	// Objective is the relaxation value at this node, in the caller's
	// optimization direction.
	Objective float64

	Decision SearchDecision
}

// SearchMiddleware receives every branch-and-bound decision as it is made.
// Implementations must be fast: they run on the checker goroutine.
type SearchMiddleware interface {
	ProcessNode(NodeReport)
}

func nodeReport(cand *candidate, decision SearchDecision) NodeReport {
	z := cand.z
	if cand.prob.std.maximize {
		z = -z
	}
	return NodeReport{
		ID:        cand.prob.id,
		Parent:    cand.prob.parent,
		Depth:     len(cand.prob.cuts),
		Objective: z,
		Decision:  decision,
	}
}

// logMiddleware is the default instrumentation: decisions go to glog at
// verbosity 2, which keeps production runs silent.
type logMiddleware struct{}

func (logMiddleware) ProcessNode(r NodeReport) {
	log.V(2).Infof("linprog: node %d (parent %d, depth %d): z=%g: %s",
		r.ID, r.Parent, r.Depth, r.Objective, r.Decision)
}

// TreeLogger collects every node report in order. Useful in tests and for
// dumping a search trace after the fact.
type TreeLogger struct {
	Nodes []NodeReport
}

func (t *TreeLogger) ProcessNode(r NodeReport) {
	t.Nodes = append(t.Nodes, r)
}

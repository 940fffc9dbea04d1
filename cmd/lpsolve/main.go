// Command lpsolve solves linear and mixed-integer programs described in a
// small JSON format, using the pure-Go simplex engine.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bkhanal-11/PolyFit/linprog"
)

var (
	flagTimeLimit        time.Duration
	flagWorkers          int
	flagAcceptSuboptimal bool
	flagTrace            bool
)

func main() {
	root := &cobra.Command{
		Use:          "lpsolve",
		Short:        "Solve linear and mixed-integer programs",
		SilenceUsage: true,
	}

	solveCmd := &cobra.Command{
		Use:   "solve <model.json>",
		Short: "Solve a model described in a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}
			return run(m)
		},
	}
	solveCmd.Flags().DurationVar(&flagTimeLimit, "time-limit", 0, "wall-clock limit for the solve (0 means none)")
	solveCmd.Flags().IntVar(&flagWorkers, "workers", 0, "concurrent subproblem solvers (0 means one per CPU)")
	solveCmd.Flags().BoolVar(&flagAcceptSuboptimal, "accept-suboptimal", false, "report sub-optimal and presolved solutions instead of failing")
	solveCmd.Flags().BoolVar(&flagTrace, "trace", false, "print every branch-and-bound decision")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Solve a built-in example model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(demoModel())
		},
	}

	root.AddCommand(solveCmd, demoCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(m *linprog.Model) error {
	var engineOpts []linprog.EngineOption
	if flagTimeLimit > 0 {
		engineOpts = append(engineOpts, linprog.WithTimeLimit(flagTimeLimit))
	}
	if flagWorkers > 0 {
		engineOpts = append(engineOpts, linprog.WithWorkers(flagWorkers))
	}
	var trace *linprog.TreeLogger
	if flagTrace {
		trace = &linprog.TreeLogger{}
		engineOpts = append(engineOpts, linprog.WithInstrumentation(trace))
	}

	opts := []linprog.Option{
		linprog.WithEngine(linprog.NewSimplexEngine(engineOpts...)),
	}
	if flagAcceptSuboptimal {
		opts = append(opts, linprog.AcceptSuboptimal())
	}

	res, err := linprog.Solve(m, opts...)
	if trace != nil {
		for _, node := range trace.Nodes {
			fmt.Printf("node %d (parent %d, depth %d): z=%g: %s\n",
				node.ID, node.Parent, node.Depth, node.Objective, node.Decision)
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("status: %v\n", res.Status)
	fmt.Printf("objective: %g\n", res.Objective)
	for i, v := range res.Solution {
		fmt.Printf("x[%d] = %g\n", i, v)
	}
	return nil
}

// demoModel is the three-dice puzzle: maximize the total of three dice
// subject to A - 3B + 2C == 0 and B - C >= 1.
func demoModel() *linprog.Model {
	m := linprog.NewModel()
	m.Maximize = true
	a := m.AddIntegerVariable()
	b := m.AddIntegerVariable()
	c := m.AddIntegerVariable()
	for _, v := range []int{a, b, c} {
		m.SetVariableBounds(v, 1, 6)
		m.SetObjectiveCoefficient(v, 1)
	}
	m.AddEquality(map[int]float64{a: 1, b: -3, c: 2}, 0)
	m.AddConstraint(map[int]float64{b: 1, c: -1}, linprog.ConstraintLower, 1)
	return m
}

// fileModel is the on-disk JSON shape of a model.
type fileModel struct {
	Maximize  bool           `json:"maximize"`
	Variables []fileVariable `json:"variables"`
	// Objective holds one coefficient per variable; trailing zeroes may be
	// omitted.
	Objective   []float64        `json:"objective"`
	Constraints []fileConstraint `json:"constraints"`
}

type fileVariable struct {
	// Kind is "continuous" (default), "integer" or "binary".
	Kind string `json:"kind,omitempty"`
	// Lower and Upper, when both present, replace the default [0, +inf) range.
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
}

type fileConstraint struct {
	// Coefficients maps variable index to coefficient.
	Coefficients map[string]float64 `json:"coefficients"`
	// Kind is "==", ">=", "<=" or "range".
	Kind string `json:"kind"`
	// RHS is used by "==", ">=" and "<=".
	RHS float64 `json:"rhs,omitempty"`
	// Lower and Upper are used by "range".
	Lower float64 `json:"lower,omitempty"`
	Upper float64 `json:"upper,omitempty"`
}

func loadModel(path string) (*linprog.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fm fileModel
	if err := json.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return buildModel(&fm)
}

func buildModel(fm *fileModel) (*linprog.Model, error) {
	m := linprog.NewModel()
	m.Maximize = fm.Maximize

	for i, fv := range fm.Variables {
		switch fv.Kind {
		case "", "continuous":
			m.AddVariable()
		case "integer":
			m.AddIntegerVariable()
		case "binary":
			m.AddBinaryVariable()
		default:
			return nil, fmt.Errorf("variable %d: unknown kind %q", i, fv.Kind)
		}
		if fv.Lower != nil || fv.Upper != nil {
			if fv.Lower == nil || fv.Upper == nil {
				return nil, fmt.Errorf("variable %d: lower and upper must be set together", i)
			}
			m.SetVariableBounds(i, *fv.Lower, *fv.Upper)
		}
	}

	if len(fm.Objective) > len(fm.Variables) {
		return nil, fmt.Errorf("objective has %d coefficients, model has %d variables",
			len(fm.Objective), len(fm.Variables))
	}
	for i, coef := range fm.Objective {
		if coef != 0 {
			m.SetObjectiveCoefficient(i, coef)
		}
	}

	for ci, fc := range fm.Constraints {
		coefs := make(map[int]float64, len(fc.Coefficients))
		for key, coef := range fc.Coefficients {
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(fm.Variables) {
				return nil, fmt.Errorf("constraint %d: bad variable index %q", ci, key)
			}
			coefs[i] = coef
		}

		switch fc.Kind {
		case "==":
			m.AddEquality(coefs, fc.RHS)
		case ">=":
			m.AddConstraint(coefs, linprog.ConstraintLower, fc.RHS)
		case "<=":
			m.AddConstraint(coefs, linprog.ConstraintUpper, fc.RHS)
		case "range":
			m.AddRange(coefs, fc.Lower, fc.Upper)
		default:
			return nil, fmt.Errorf("constraint %d: unknown kind %q", ci, fc.Kind)
		}
	}

	return m, nil
}

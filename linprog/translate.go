package linprog

import (
	"fmt"
	"sort"
)

// populate writes a model into a freshly created engine problem. It fails
// before the solve on anything structurally wrong (out-of-range variable
// references, engine refusals) and never mutates the model.
func populate(p Problem, m *Model) error {
	n := m.NumVariables()

	for i := 0; i < n; i++ {
		v := m.VariableAt(i)

		if v.Bound == BoundDouble {
			if err := p.SetBounds(i, v.Lower, v.Upper); err != nil {
				return fmt.Errorf("setting bounds of variable %d: %w", i, err)
			}
		}

		// Binary marking is applied after any explicit bounds so that the
		// 0/1 range wins when both are present.
		switch v.Kind {
		case Integer:
			if err := p.SetInteger(i); err != nil {
				return fmt.Errorf("marking variable %d integer: %w", i, err)
			}
		case Binary:
			if err := p.SetBinary(i); err != nil {
				return fmt.Errorf("marking variable %d binary: %w", i, err)
			}
		case Continuous:
		}
	}

	p.SetMaximize(m.Maximize)

	// The objective goes in as a dense row: start from all zeroes, then
	// overwrite the positions the sparse map mentions.
	row := make([]float64, n)
	for i, coef := range m.Objective() {
		if i < 0 || i >= n {
			return fmt.Errorf("objective refers to undeclared variable %d", i)
		}
		row[i] = coef
	}
	if err := p.SetObjectiveRow(row); err != nil {
		return fmt.Errorf("setting objective row: %w", err)
	}

	constraints := m.Constraints()
	p.BeginRowBatch(len(constraints))
	defer p.EndRowBatch()

	for ci, c := range constraints {
		cols, coefs, err := sparsePairs(c.Coefficients, n)
		if err != nil {
			return fmt.Errorf("constraint %d: %w", ci, err)
		}

		switch c.Kind {
		case ConstraintFixed:
			err = p.AddRow(cols, coefs, RowEQ, c.RHS)
		case ConstraintLower:
			err = p.AddRow(cols, coefs, RowGE, c.RHS)
		case ConstraintUpper:
			err = p.AddRow(cols, coefs, RowLE, c.RHS)
		case ConstraintDouble:
			// A ranged constraint becomes a >= / <= pair sharing the same
			// coefficient pairs. Engines with a native ranged-row encoding
			// could take this in one row; the pair form works everywhere.
			if err = p.AddRow(cols, coefs, RowGE, c.Lower); err == nil {
				err = p.AddRow(cols, coefs, RowLE, c.Upper)
			}
		default:
			err = fmt.Errorf("unknown constraint kind %d", c.Kind)
		}
		if err != nil {
			return fmt.Errorf("adding constraint %d: %w", ci, err)
		}
	}

	return nil
}

// sparsePairs flattens a sparse coefficient map into parallel column and
// coefficient slices. The sum an engine computes from the pairs does not
// depend on their order; they are sorted by column purely to keep engine
// interactions deterministic.
func sparsePairs(coefficients map[int]float64, numVariables int) ([]int, []float64, error) {
	cols := make([]int, 0, len(coefficients))
	for i := range coefficients {
		if i < 0 || i >= numVariables {
			return nil, nil, fmt.Errorf("coefficient refers to undeclared variable %d", i)
		}
		cols = append(cols, i)
	}
	sort.Ints(cols)

	coefs := make([]float64, len(cols))
	for j, i := range cols {
		coefs[j] = coefficients[i]
	}
	return cols, coefs, nil
}

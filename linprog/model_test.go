package linprog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelVariableIndices(t *testing.T) {
	m := NewModel()
	assert.Equal(t, 0, m.AddVariable())
	assert.Equal(t, 1, m.AddIntegerVariable())
	assert.Equal(t, 2, m.AddBinaryVariable())
	assert.Equal(t, 3, m.NumVariables())

	assert.Equal(t, Continuous, m.VariableAt(0).Kind)
	assert.Equal(t, Integer, m.VariableAt(1).Kind)
	assert.Equal(t, Binary, m.VariableAt(2).Kind)
}

func TestModelDefaultBounds(t *testing.T) {
	m := NewModel()
	x := m.AddVariable()
	assert.Equal(t, BoundDefault, m.VariableAt(x).Bound)

	m.SetVariableBounds(x, -2, 7)
	v := m.VariableAt(x)
	assert.Equal(t, BoundDouble, v.Bound)
	assert.Equal(t, -2.0, v.Lower)
	assert.Equal(t, 7.0, v.Upper)
}

func TestModelConstraintOrder(t *testing.T) {
	m := NewModel()
	x := m.AddVariable()
	m.AddEquality(map[int]float64{x: 1}, 1)
	m.AddRange(map[int]float64{x: 1}, 0, 2)
	m.AddConstraint(map[int]float64{x: 1}, ConstraintLower, 0)

	cs := m.Constraints()
	assert.Len(t, cs, 3)
	assert.Equal(t, ConstraintFixed, cs[0].Kind)
	assert.Equal(t, ConstraintDouble, cs[1].Kind)
	assert.Equal(t, 0.0, cs[1].Lower)
	assert.Equal(t, 2.0, cs[1].Upper)
	assert.Equal(t, ConstraintLower, cs[2].Kind)
}

func TestRowSenseString(t *testing.T) {
	assert.Equal(t, "==", RowEQ.String())
	assert.Equal(t, ">=", RowGE.String())
	assert.Equal(t, "<=", RowLE.String())
	assert.Equal(t, "binary", Binary.String())
}

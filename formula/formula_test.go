package formula_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sh "github.com/vogtb/gosheet"
	"github.com/vogtb/gosheet/formula"
)

func alwaysValid(sh.Position) bool { return true }

func TestParseValidExpressions(t *testing.T) {
	valid := []string{
		"1",
		"1+2",
		"1 + 2 * 3",
		"(1+2)*3",
		"-5",
		"-(1+2)",
		"A1",
		"A1+B1",
		"A1+B1*2",
		"3.14",
		".5",
	}
	for _, expr := range valid {
		t.Run(expr, func(t *testing.T) {
			_, err := formula.Parse(expr, alwaysValid)
			require.NoError(t, err)
		})
	}
}

func TestParseInvalidExpressions(t *testing.T) {
	invalid := []string{
		"",
		"1+",
		"(1+2",
		"1 2",
		"*5",
		"A",
		"1..2",
		"1+2)",
	}
	for _, expr := range invalid {
		t.Run(expr, func(t *testing.T) {
			_, err := formula.Parse(expr, alwaysValid)
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsOutOfBoundsReference(t *testing.T) {
	_, err := formula.Parse("A1", func(sh.Position) bool { return false })
	assert.Error(t, err)
}

func lookupConst(values map[sh.Position]float64) sh.Lookup {
	return func(p sh.Position) (float64, error) {
		v, ok := values[p]
		if !ok {
			return 0, nil
		}
		return v, nil
	}
}

func TestEvaluateArithmetic(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"1+2", 3},
		{"2*3+4", 10},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"-5+10", 5},
		{"-(2+3)", -5},
		{"10/4", 2.5},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			h, err := formula.Parse(c.expr, alwaysValid)
			require.NoError(t, err)
			got, err := h.Evaluate(lookupConst(nil))
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestEvaluateCellReference(t *testing.T) {
	h, err := formula.Parse("A1+B1", alwaysValid)
	require.NoError(t, err)

	a1, _ := sh.ParsePosition("A1")
	b1, _ := sh.ParsePosition("B1")
	got, err := h.Evaluate(lookupConst(map[sh.Position]float64{a1: 2, b1: 5}))
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

func TestEvaluateDivisionByZero(t *testing.T) {
	h, err := formula.Parse("1/0", alwaysValid)
	require.NoError(t, err)
	_, err = h.Evaluate(lookupConst(nil))
	require.Error(t, err)
	evalErr, ok := err.(*sh.EvalError)
	require.True(t, ok)
	assert.Equal(t, sh.ErrDiv, evalErr.Category)
}

func TestEvaluatePropagatesLookupError(t *testing.T) {
	h, err := formula.Parse("A1+1", alwaysValid)
	require.NoError(t, err)
	failing := func(sh.Position) (float64, error) { return 0, sh.NewEvalError(sh.ErrValue) }
	_, err = h.Evaluate(failing)
	require.Error(t, err)
	evalErr, ok := err.(*sh.EvalError)
	require.True(t, ok)
	assert.Equal(t, sh.ErrValue, evalErr.Category)
}

func TestReferencedCellsDeduplicatedInFirstSeenOrder(t *testing.T) {
	h, err := formula.Parse("A1+B1+A1", alwaysValid)
	require.NoError(t, err)
	a1, _ := sh.ParsePosition("A1")
	b1, _ := sh.ParsePosition("B1")
	assert.Equal(t, []sh.Position{a1, b1}, h.ReferencedCells())
}

func TestExpressionRoundTrip(t *testing.T) {
	h, err := formula.Parse("A1+B1*2", alwaysValid)
	require.NoError(t, err)
	assert.Equal(t, "A1 + (B1 * 2)", h.Expression())

	h2, err := formula.Parse(h.Expression(), alwaysValid)
	require.NoError(t, err)
	got, err := h2.Evaluate(lookupConst(map[sh.Position]float64{}))
	require.NoError(t, err)
	got2, err := h.Evaluate(lookupConst(map[sh.Position]float64{}))
	require.NoError(t, err)
	assert.Equal(t, got2, got)
}

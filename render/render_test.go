package render_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sh "github.com/vogtb/gosheet"
	"github.com/vogtb/gosheet/formula"
	"github.com/vogtb/gosheet/render"
)

func mustPos(t *testing.T, a1 string) sh.Position {
	t.Helper()
	p, err := sh.ParsePosition(a1)
	require.NoError(t, err)
	return p
}

func TestValuesEmptySheet(t *testing.T) {
	s := sh.New(formula.Parse)
	var buf bytes.Buffer
	require.NoError(t, render.Values(&buf, s))
	assert.Equal(t, "", buf.String())
}

func TestValuesFraming(t *testing.T) {
	s := sh.New(formula.Parse)
	require.NoError(t, s.SetCell(mustPos(t, "A1"), "1"))
	require.NoError(t, s.SetCell(mustPos(t, "B1"), "2"))
	require.NoError(t, s.SetCell(mustPos(t, "A2"), "3"))

	var buf bytes.Buffer
	require.NoError(t, render.Values(&buf, s))
	assert.Equal(t, "1\t2\n3\t\n", buf.String())
}

func TestTextsFraming(t *testing.T) {
	s := sh.New(formula.Parse)
	require.NoError(t, s.SetCell(mustPos(t, "A1"), "1"))
	require.NoError(t, s.SetCell(mustPos(t, "B1"), "=A1+1"))

	var buf bytes.Buffer
	require.NoError(t, render.Texts(&buf, s))
	assert.Equal(t, "1\t=A1 + 1\n", buf.String())
}

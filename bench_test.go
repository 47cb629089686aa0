package sheet_test

import (
	"fmt"
	"testing"

	sh "github.com/vogtb/gosheet"
	"github.com/vogtb/gosheet/formula"
)

// BenchmarkSetCellChain measures repeated SetCell of a plain number at
// the root of a long chain of dependent formulas (A1 <- A2 <- A3 <- ...),
// so every write runs the invalidation BFS over the whole chain. The
// timed writes reference no cells, so the cycle check does no work
// inside the timed loop. Supersedes
// the teacher's performance_bench.go, which benchmarked the dropped
// worksheet/named-range layers.
func BenchmarkSetCellChain(b *testing.B) {
	const chainLen = 200
	s := sh.New(formula.Parse)
	for i := 1; i < chainLen; i++ {
		from := fmt.Sprintf("A%d", i+1)
		to := fmt.Sprintf("A%d", i)
		if err := s.SetCell(mustParse(from), "="+to+"+1"); err != nil {
			b.Fatal(err)
		}
	}
	if err := s.SetCell(mustParse("A1"), "0"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.SetCell(mustParse("A1"), fmt.Sprintf("%d", i)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGetValueCached measures the cost of repeated reads once every
// formula's cache is warm.
func BenchmarkGetValueCached(b *testing.B) {
	const chainLen = 200
	s := sh.New(formula.Parse)
	for i := 1; i < chainLen; i++ {
		from := fmt.Sprintf("A%d", i+1)
		to := fmt.Sprintf("A%d", i)
		if err := s.SetCell(mustParse(from), "="+to+"+1"); err != nil {
			b.Fatal(err)
		}
	}
	if err := s.SetCell(mustParse("A1"), "0"); err != nil {
		b.Fatal(err)
	}
	last := mustParse(fmt.Sprintf("A%d", chainLen))
	warm, _, err := s.GetCell(last)
	if err != nil {
		b.Fatal(err)
	}
	warm.Value() // fills every cache along the chain

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		view, _, err := s.GetCell(last)
		if err != nil {
			b.Fatal(err)
		}
		_ = view.Value()
	}
}

func mustParse(a1 string) sh.Position {
	p, err := sh.ParsePosition(a1)
	if err != nil {
		panic(err)
	}
	return p
}

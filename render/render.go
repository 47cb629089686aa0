// Package render is the thin, external text-serialization collaborator
// spec.md §1 and §6.3 describe: it walks a sheet's printable area and
// calls per-cell value/text accessors, framing rows and columns with
// newlines and tabs. It never touches sheet internals directly, only
// the public GetCell/PrintableSize surface.
//
// Grounded on UNO-SOFT-spreadsheet/csv.go's buffered io.Writer
// composition idiom: write directly to a bufio.Writer rather than
// building an intermediate [][]string, so large grids don't pay for a
// throwaway allocation.
package render

import (
	"bufio"
	"io"

	gosheet "github.com/vogtb/gosheet"
)

// Values writes the sheet's computed values to w in the print format of
// spec.md §6.3: cells in a row separated by '\t', rows terminated by
// '\n'. Empty cells print as the empty string.
func Values(w io.Writer, sh *gosheet.Sheet) error {
	return walk(w, sh, func(v gosheet.CellView) string { return v.Value().String() })
}

// Texts writes the sheet's stored source texts to w in the same format.
func Texts(w io.Writer, sh *gosheet.Sheet) error {
	return walk(w, sh, func(v gosheet.CellView) string { return v.Text() })
}

func walk(w io.Writer, sh *gosheet.Sheet, render func(gosheet.CellView) string) error {
	rows, cols := sh.PrintableSize()
	bw := bufio.NewWriter(w)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if col > 0 {
				if err := bw.WriteByte('\t'); err != nil {
					return err
				}
			}
			view, ok, err := sh.GetCell(gosheet.Position{Row: row, Col: col})
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if _, err := bw.WriteString(render(view)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

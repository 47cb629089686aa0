package formula

import gosheet "github.com/vogtb/gosheet"

// Handle is the concrete gosheet.FormulaHandle this package produces.
// It caches nothing across calls beyond the parsed AST and the
// precomputed reference list; the memoized *value* lives in the sheet
// package's cell content, not here (spec.md draws that line at the
// formula-cell boundary, §4.4).
type Handle struct {
	ast  node
	refs []gosheet.Position
}

var _ gosheet.FormulaHandle = (*Handle)(nil)

// ReferencedCells returns the deduplicated, first-seen-order list of
// positions this formula reads.
func (h *Handle) ReferencedCells() []gosheet.Position {
	out := make([]gosheet.Position, len(h.refs))
	copy(out, h.refs)
	return out
}

// Expression returns the canonical round-trip form: single spaces around
// binary operators, and every nested binary operation wrapped in parens
// whether or not precedence requires them ("A1+B1*2" -> "A1 + (B1 * 2)").
func (h *Handle) Expression() string {
	var buf []byte
	h.ast.write(&buf)
	return trimOuterParens(string(buf))
}

// Evaluate walks the AST, resolving cell references via lookup.
func (h *Handle) Evaluate(lookup gosheet.Lookup) (float64, error) {
	return h.ast.eval(lookup)
}

// trimOuterParens strips one layer of parens the writer always wraps a
// binaryNode in, when the whole expression is exactly that node (a bare
// leaf never gets parens, so this only fires for e.g. "(A1 + B1)" ->
// "A1 + B1").
func trimOuterParens(s string) string {
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && balanced(s) {
		return s[1 : len(s)-1]
	}
	return s
}

func balanced(s string) bool {
	depth := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// Parse implements the gosheet.ParseFormulaFunc factory contract
// (spec.md §6.2): expression is the formula text with the leading '='
// already stripped, and valid reports whether a candidate cell reference
// lies within the sheet's Bounds.
func Parse(expression string, valid func(gosheet.Position) bool) (gosheet.FormulaHandle, error) {
	lexer := NewLexer(expression)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}
	if len(tokens) == 1 && tokens[0].Type == TokenEOF {
		return nil, errEmptyExpression
	}

	parser := newParser(tokens, valid)
	ast, err := parser.parseExpr()
	if err != nil {
		return nil, err
	}

	var refs []gosheet.Position
	ast.collectRefs(&refs, make(map[gosheet.Position]bool))

	return &Handle{ast: ast, refs: refs}, nil
}

var errEmptyExpression = parseError("formula: empty expression")

type parseError string

func (e parseError) Error() string { return string(e) }

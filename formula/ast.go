package formula

import (
	"strconv"

	gosheet "github.com/vogtb/gosheet"
)

// node is the formula AST, grounded on the teacher's ASTNode shape
// (parser.go) but trimmed to number/cell leaves plus binary +-*/ and
// unary minus (spec.md's arithmetic-only grammar).
type node interface {
	eval(lookup gosheet.Lookup) (float64, error)
	// collectRefs appends the position, deduplicated, to *refs the first
	// time it is seen, tracking membership in seen (spec.md §4.5:
	// "deduplicated list from the handle, preserve order of first
	// appearance").
	collectRefs(refs *[]gosheet.Position, seen map[gosheet.Position]bool)
	write(buf *[]byte)
}

type numberNode struct{ value float64 }

func (n numberNode) eval(gosheet.Lookup) (float64, error) { return n.value, nil }

func (n numberNode) collectRefs(*[]gosheet.Position, map[gosheet.Position]bool) {}

func (n numberNode) write(buf *[]byte) {
	*buf = append(*buf, strconv.FormatFloat(n.value, 'g', -1, 64)...)
}

type cellNode struct{ pos gosheet.Position }

func (n cellNode) eval(lookup gosheet.Lookup) (float64, error) { return lookup(n.pos) }

func (n cellNode) collectRefs(refs *[]gosheet.Position, seen map[gosheet.Position]bool) {
	if !seen[n.pos] {
		seen[n.pos] = true
		*refs = append(*refs, n.pos)
	}
}

func (n cellNode) write(buf *[]byte) {
	*buf = append(*buf, n.pos.String()...)
}

type binOp byte

const (
	opAdd binOp = '+'
	opSub binOp = '-'
	opMul binOp = '*'
	opDiv binOp = '/'
)

type binaryNode struct {
	op          binOp
	left, right node
}

func (n binaryNode) eval(lookup gosheet.Lookup) (float64, error) {
	l, err := n.left.eval(lookup)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(lookup)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case opAdd:
		return checkFinite(l + r)
	case opSub:
		return checkFinite(l - r)
	case opMul:
		return checkFinite(l * r)
	case opDiv:
		if r == 0 {
			return 0, gosheet.NewEvalError(gosheet.ErrDiv)
		}
		return checkFinite(l / r)
	default:
		return 0, gosheet.NewEvalError(gosheet.ErrValue)
	}
}

func (n binaryNode) collectRefs(refs *[]gosheet.Position, seen map[gosheet.Position]bool) {
	n.left.collectRefs(refs, seen)
	n.right.collectRefs(refs, seen)
}

func (n binaryNode) write(buf *[]byte) {
	*buf = append(*buf, '(')
	n.left.write(buf)
	*buf = append(*buf, ' ', byte(n.op), ' ')
	n.right.write(buf)
	*buf = append(*buf, ')')
}

type unaryMinusNode struct{ operand node }

func (n unaryMinusNode) eval(lookup gosheet.Lookup) (float64, error) {
	v, err := n.operand.eval(lookup)
	if err != nil {
		return 0, err
	}
	return checkFinite(-v)
}

func (n unaryMinusNode) collectRefs(refs *[]gosheet.Position, seen map[gosheet.Position]bool) {
	n.operand.collectRefs(refs, seen)
}

func (n unaryMinusNode) write(buf *[]byte) {
	*buf = append(*buf, '-')
	n.operand.write(buf)
}

// checkFinite maps a non-finite arithmetic result to #DIV/0! (spec.md
// §4.4: "non-finite numbers (inf/NaN) throw #DIV/0!").
func checkFinite(f float64) (float64, error) {
	if isFinite(f) {
		return f, nil
	}
	return 0, gosheet.NewEvalError(gosheet.ErrDiv)
}

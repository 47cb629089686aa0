// Package sheet implements the dependency-aware evaluation engine for a
// minimal spreadsheet: a two-dimensional grid of cells holding text or
// formulas, with transactional edits, cycle detection, and memoized
// formula values kept consistent via dependency-graph invalidation.
//
// The formula parser/evaluator and any text renderer are deliberately
// external collaborators (see FormulaHandle and the sibling formula/
// render packages) — this package only ever consumes the FormulaHandle
// interface, never a concrete parser.
package sheet

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Sheet is a single spreadsheet instance. It assumes exclusive access for
// the duration of any public call (spec.md §5); concurrent access across
// goroutines is the caller's responsibility.
type Sheet struct {
	bounds Bounds
	parse  ParseFormulaFunc
	cells  map[Position]*content
	graph  *depGraph
	area   *area
	logger *slog.Logger
	id     uuid.UUID
}

// Option configures a Sheet at construction time.
type Option func(*Sheet)

// WithBounds overrides the default grid bounds.
func WithBounds(b Bounds) Option {
	return func(s *Sheet) { s.bounds = b }
}

// WithLogger attaches a structured logger. Every committed mutation is
// logged at Debug, tagged with the sheet's session id so concurrent
// instances (each under its own external lock) can be told apart in
// shared log output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sheet) { s.logger = l }
}

// New creates an empty Sheet. parseFormula is the external formula
// factory spec.md §6.2 describes; see the formula package for the
// concrete implementation this repository ships.
func New(parseFormula ParseFormulaFunc, opts ...Option) *Sheet {
	s := &Sheet{
		bounds: DefaultBounds(),
		parse:  parseFormula,
		cells:  make(map[Position]*content),
		graph:  newDepGraph(),
		area:   newArea(),
		logger: slog.Default(),
		id:     uuid.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CellView is a read-only view onto a stored, non-Empty cell (spec.md
// §6.1). It is only ever returned by GetCell for a present, non-Empty
// position.
type CellView struct {
	sheet *Sheet
	pos   Position
}

// Value returns the cell's computed value, filling the formula cache on
// first read if necessary.
func (v CellView) Value() CellValue { return v.sheet.valueOf(v.pos) }

// Text returns the cell's stored source text.
func (v CellView) Text() string { return v.sheet.cells[v.pos].text() }

// ReferencedCells returns the positions the cell's formula reads, or nil
// for a non-Formula cell.
func (v CellView) ReferencedCells() []Position {
	return v.sheet.cells[v.pos].referencedCells()
}

// SetCell parses text and, if it type-checks and would not introduce a
// cycle, commits it at pos (spec.md §4.1). A failing call leaves the
// sheet byte-identical to before the call (spec.md §7).
func (s *Sheet) SetCell(pos Position, text string) error {
	if !pos.Valid(s.bounds) {
		return newError(InvalidPosition, "position "+pos.String()+" is out of bounds")
	}

	candidate, err := parseContent(text, s.parse, s.validPosition)
	if err != nil {
		return err
	}

	refs := candidate.referencedCells()
	if pos.inSet(refs) || s.wouldCycle(pos, refs) {
		return newError(CircularDependency, "setting "+pos.String()+" would create a circular dependency")
	}

	if prev, ok := s.cells[pos]; ok && !prev.isEmpty() {
		for _, r := range prev.referencedCells() {
			s.graph.removeEdge(r, pos)
		}
		s.area.remove(pos)
	}

	stored := candidate
	s.cells[pos] = &stored
	if !stored.isEmpty() {
		s.area.add(pos)
	}

	for _, r := range refs {
		if _, exists := s.cells[r]; !exists {
			placeholder := emptyContent()
			s.cells[r] = &placeholder
		}
		s.graph.addEdge(r, pos)
	}

	invalidated := s.invalidate(pos)
	s.logger.Debug("set_cell", "pos", pos.String(), "session", s.id, "invalidated", invalidated)
	return nil
}

// GetCell returns a read view of the cell at pos, or (zero, false) if pos
// is absent or a placeholder (spec.md §4.1: "a present Empty placeholder
// is reported as absent to callers").
func (s *Sheet) GetCell(pos Position) (CellView, bool, error) {
	if !pos.Valid(s.bounds) {
		return CellView{}, false, newError(InvalidPosition, "position "+pos.String()+" is out of bounds")
	}
	c, ok := s.cells[pos]
	if !ok || c.isEmpty() {
		return CellView{}, false, nil
	}
	return CellView{sheet: s, pos: pos}, true, nil
}

// ClearCell removes pos's content. It is a no-op if pos is already
// absent or Empty. deps[pos] (edges belonging to pos's dependents, not to
// pos itself) is deliberately preserved: they will be invalidated again
// the next time something is written to pos (spec.md §9 open question).
func (s *Sheet) ClearCell(pos Position) error {
	if !pos.Valid(s.bounds) {
		return newError(InvalidPosition, "position "+pos.String()+" is out of bounds")
	}
	c, ok := s.cells[pos]
	if !ok || c.isEmpty() {
		return nil
	}

	for _, r := range c.referencedCells() {
		s.graph.removeEdge(r, pos)
	}
	s.area.remove(pos)
	invalidated := s.invalidate(pos)
	delete(s.cells, pos)

	s.logger.Debug("clear_cell", "pos", pos.String(), "session", s.id, "invalidated", invalidated)
	return nil
}

// PrintableSize returns the tightest origin-anchored rectangle covering
// all non-Empty cells.
func (s *Sheet) PrintableSize() (rows, cols int) {
	return s.area.size()
}

// Bounds returns the grid bounds this Sheet was constructed with.
func (s *Sheet) Bounds() Bounds { return s.bounds }

func (s *Sheet) validPosition(p Position) bool { return p.Valid(s.bounds) }

func (p Position) inSet(set []Position) bool {
	for _, q := range set {
		if q == p {
			return true
		}
	}
	return false
}

// wouldCycle implements the DFS cycle check of spec.md §4.2: starting
// from refs, expand each visited position via its *current* stored
// content (never through deps, and never through the candidate being
// written at from, since it has not been installed yet).
func (s *Sheet) wouldCycle(from Position, refs []Position) bool {
	visited := make(map[Position]struct{})
	var dfs func(Position) bool
	dfs = func(p Position) bool {
		if p == from {
			return true
		}
		if _, seen := visited[p]; seen {
			return false
		}
		visited[p] = struct{}{}
		c, ok := s.cells[p]
		if !ok {
			return false
		}
		for _, r := range c.referencedCells() {
			if dfs(r) {
				return true
			}
		}
		return false
	}
	for _, r := range refs {
		if dfs(r) {
			return true
		}
	}
	return false
}

// invalidate clears the cache of every transitive dependent of pos
// (spec.md §4.4) and returns how many cells were touched, for logging.
func (s *Sheet) invalidate(pos Position) int {
	touched := 0
	for _, q := range s.graph.transitiveDependents(pos) {
		if c, ok := s.cells[q]; ok && c.kind == kindFormula {
			c.invalidateCache()
			touched++
		}
	}
	return touched
}

// valueOf computes get_value() for any position, including absent ones
// (which read as empty text, spec.md §3). Formula cells fill their cache
// lazily on first read (spec.md §4.4).
func (s *Sheet) valueOf(p Position) CellValue {
	c, ok := s.cells[p]
	if !ok {
		return TextValue("")
	}
	if c.kind != kindFormula {
		return c.value()
	}
	if c.hasCach {
		return *c.cached
	}
	val := s.evaluateFormula(c)
	c.cached = &val
	c.hasCach = true
	return val
}

// evaluateFormula runs a Formula cell's handle. A FormulaHandle is
// contractually required to raise *EvalError (never a bare error); a
// misbehaving implementation is mapped to #VALUE! rather than panicking.
func (s *Sheet) evaluateFormula(c *content) CellValue {
	n, err := c.handle.Evaluate(s.lookupNumber)
	if err != nil {
		if evalErr, ok := err.(*EvalError); ok {
			return ErrorValue(evalErr.Category)
		}
		return ErrorValue(ErrValue)
	}
	return NumberValue(n)
}

// lookupNumber is the Lookup callback of spec.md §4.4, passed to every
// FormulaHandle.Evaluate call.
func (s *Sheet) lookupNumber(r Position) (float64, error) {
	c, ok := s.cells[r]
	if !ok || c.isEmpty() {
		return 0.0, nil
	}
	switch c.kind {
	case kindText:
		text := c.value().Text
		n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return 0, NewEvalError(ErrValue)
		}
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, NewEvalError(ErrDiv)
		}
		return n, nil
	case kindFormula:
		val := s.valueOf(r)
		switch val.Type {
		case ValueNumber:
			return val.Num, nil
		case ValueError:
			return 0, NewEvalError(val.Error)
		default:
			return 0, NewEvalError(ErrValue)
		}
	default:
		return 0.0, nil
	}
}

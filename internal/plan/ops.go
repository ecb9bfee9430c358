// Package plan derives ordered, deduplicated edit operations from a parsed
// analysis record and the live document it will be applied to. Planning is
// read-only over the document; all mutation happens downstream.
package plan

import "fmt"

// OpType tags an edit operation variant.
type OpType string

const (
	OpDeleteParagraph OpType = "delete_paragraph"
	OpReplaceText     OpType = "replace_text"
	OpDeleteRow       OpType = "delete_row"
	OpInsertBullet    OpType = "insert_bullet"
)

// Target is a fully resolved document location. Paragraph indexes into the
// cell's paragraphs; it is -1 for row-level operations.
type Target struct {
	Table     int
	Row       int
	Cell      int
	Paragraph int
}

// RowTarget builds a target addressing a whole row.
func RowTarget(table, row int) Target {
	return Target{Table: table, Row: row, Cell: -1, Paragraph: -1}
}

func (t Target) String() string {
	if t.Cell < 0 {
		return fmt.Sprintf("table %d row %d", t.Table, t.Row)
	}
	return fmt.Sprintf("table %d row %d cell %d paragraph %d", t.Table, t.Row, t.Cell, t.Paragraph)
}

// Operation is one planned edit. Old and New carry text for replacement
// and insertion variants; Reason explains row deletions.
type Operation struct {
	Type   OpType
	Target Target
	Old    string
	New    string
	Reason string
}

// Diagnostic records a planning decision that produced no operation:
// a skipped item, an ambiguous match, or a structural mismatch.
type Diagnostic struct {
	Stage   string
	Message string
	Target  string
	Score   float64
}

// Plan is the ordered operation list for one section, with the diagnostics
// gathered while deriving it. An empty plan is a valid no-op outcome.
type Plan struct {
	Section     string
	Ops         []Operation
	Diagnostics []Diagnostic
}

func (p *Plan) add(op Operation) {
	p.Ops = append(p.Ops, op)
}

func (p *Plan) diagnose(stage, target, format string, args ...any) {
	p.Diagnostics = append(p.Diagnostics, Diagnostic{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Target:  target,
	})
}

func (p *Plan) diagnoseScore(stage, target string, score float64, format string, args ...any) {
	p.Diagnostics = append(p.Diagnostics, Diagnostic{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Target:  target,
		Score:   score,
	})
}

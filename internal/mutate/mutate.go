// Package mutate applies planned edit operations to the live document.
// Every successful operation appends exactly one audit record; failures
// return typed errors and never panic, so one bad edit cannot abort the
// rest of a section.
package mutate

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/calebwren/redline/internal/audit"
	"github.com/calebwren/redline/internal/docx"
	"github.com/calebwren/redline/internal/plan"
)

var (
	ErrTargetOutOfRange = errors.New("operation target out of range")
	ErrAlreadyApplied   = errors.New("operation target already empty")
	ErrUnknownOperation = errors.New("unknown operation type")
)

// Mutator applies operations to one document on behalf of one run.
type Mutator struct {
	logger *slog.Logger
	trail  *audit.Trail
}

// New builds a Mutator writing to the given trail.
func New(logger *slog.Logger, trail *audit.Trail) *Mutator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mutator{logger: logger, trail: trail}
}

// Result counts the outcome of applying a section's plan.
type Result struct {
	Attempted int
	Applied   int
	Skipped   int
}

// ApplyAll applies a section plan. Cell-level operations run in plan order;
// row deletions run last in descending row order so earlier removals never
// invalidate indices of deletions still pending. Individual failures are
// logged and counted, not propagated.
func (m *Mutator) ApplyAll(doc *docx.Document, section string, ops []plan.Operation) Result {
	var cellOps, rowOps []plan.Operation
	for _, op := range ops {
		if op.Type == plan.OpDeleteRow {
			rowOps = append(rowOps, op)
		} else {
			cellOps = append(cellOps, op)
		}
	}
	sort.SliceStable(rowOps, func(i, j int) bool {
		if rowOps[i].Target.Table != rowOps[j].Target.Table {
			return rowOps[i].Target.Table > rowOps[j].Target.Table
		}
		return rowOps[i].Target.Row > rowOps[j].Target.Row
	})

	res := Result{Attempted: len(ops)}
	for _, op := range append(cellOps, rowOps...) {
		if err := m.Apply(doc, section, op); err != nil {
			res.Skipped++
			m.logger.Warn("edit skipped",
				"section", section,
				"operation", string(op.Type),
				"target", op.Target.String(),
				"error", err)
			continue
		}
		res.Applied++
	}
	return res
}

// Apply performs one operation and records it. ErrAlreadyApplied marks a
// clean no-op on an already-cleared target; other errors mark structural
// mismatches between the plan and the document.
func (m *Mutator) Apply(doc *docx.Document, section string, op plan.Operation) error {
	switch op.Type {
	case plan.OpDeleteParagraph:
		return m.deleteParagraph(doc, section, op)
	case plan.OpReplaceText:
		return m.replaceText(doc, section, op)
	case plan.OpDeleteRow:
		return m.deleteRow(doc, section, op)
	case plan.OpInsertBullet:
		return m.insertBullet(doc, section, op)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op.Type)
	}
}

// deleteParagraph clears the target paragraph's text. The node stays in
// place; only whole-row deletion removes structure, so table layout is
// never disturbed by paragraph-level edits.
func (m *Mutator) deleteParagraph(doc *docx.Document, section string, op plan.Operation) error {
	p, err := m.paragraph(doc, op.Target)
	if err != nil {
		return err
	}
	before := p.Text()
	if before == "" {
		return fmt.Errorf("%w: %s", ErrAlreadyApplied, op.Target)
	}
	p.Clear()
	m.trail.Append(section, string(plan.OpDeleteParagraph), op.Target.String(), before, "", "")
	return nil
}

func (m *Mutator) replaceText(doc *docx.Document, section string, op plan.Operation) error {
	p, err := m.paragraph(doc, op.Target)
	if err != nil {
		return err
	}
	before := p.Text()
	p.SetText(op.New)
	m.trail.Append(section, string(plan.OpReplaceText), op.Target.String(), before, op.New, "")
	return nil
}

func (m *Mutator) deleteRow(doc *docx.Document, section string, op plan.Operation) error {
	tables := doc.Tables()
	if op.Target.Table < 0 || op.Target.Table >= len(tables) {
		return fmt.Errorf("%w: table %d of %d", ErrTargetOutOfRange, op.Target.Table, len(tables))
	}
	tbl := tables[op.Target.Table]
	before := ""
	if rows := tbl.Rows(); op.Target.Row >= 0 && op.Target.Row < len(rows) {
		before = rows[op.Target.Row].Text()
	}
	if err := tbl.RemoveRow(op.Target.Row); err != nil {
		return fmt.Errorf("%w: %v", ErrTargetOutOfRange, err)
	}
	m.trail.Append(section, string(plan.OpDeleteRow), op.Target.String(), before, "", op.Reason)
	return nil
}

// insertBullet assigns text into an existing slot. Bullet glyphs are never
// synthesized; the template's own structure supplies them.
func (m *Mutator) insertBullet(doc *docx.Document, section string, op plan.Operation) error {
	p, err := m.paragraph(doc, op.Target)
	if err != nil {
		return err
	}
	before := p.Text()
	p.SetText(op.New)
	m.trail.Append(section, string(plan.OpInsertBullet), op.Target.String(), before, op.New, "")
	return nil
}

// paragraph resolves a cell-level target with bounds checks at every level.
func (m *Mutator) paragraph(doc *docx.Document, t plan.Target) (*docx.Paragraph, error) {
	tables := doc.Tables()
	if t.Table < 0 || t.Table >= len(tables) {
		return nil, fmt.Errorf("%w: table %d of %d", ErrTargetOutOfRange, t.Table, len(tables))
	}
	rows := tables[t.Table].Rows()
	if t.Row < 0 || t.Row >= len(rows) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrTargetOutOfRange, t.Row, len(rows))
	}
	cells := rows[t.Row].Cells()
	if t.Cell < 0 || t.Cell >= len(cells) {
		return nil, fmt.Errorf("%w: cell %d of %d", ErrTargetOutOfRange, t.Cell, len(cells))
	}
	paras := cells[t.Cell].Paragraphs()
	if t.Paragraph < 0 || t.Paragraph >= len(paras) {
		return nil, fmt.Errorf("%w: paragraph %d of %d", ErrTargetOutOfRange, t.Paragraph, len(paras))
	}
	return paras[t.Paragraph], nil
}

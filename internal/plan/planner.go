package plan

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/calebwren/redline/internal/analysis"
	"github.com/calebwren/redline/internal/docx"
	"github.com/calebwren/redline/internal/match"
	"github.com/calebwren/redline/internal/sections"
)

// Planner turns analysis records into edit plans. One Planner serves every
// section; per-section behavior comes from the descriptor.
type Planner struct {
	logger *slog.Logger
}

// NewPlanner builds a Planner.
func NewPlanner(logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{logger: logger}
}

// Plan derives the ordered edit operations for one section. It never
// returns an error: unresolvable content degrades to diagnostics, and an
// empty or nil record yields an empty plan.
func (p *Planner) Plan(doc *docx.Document, desc sections.Descriptor, rec *analysis.Record) Plan {
	out := Plan{Section: desc.Name}
	if rec == nil {
		return out
	}

	engine := match.New(desc.SimilarityThreshold())

	tableIdx, rowIdx, ok := p.resolveRow(doc, desc, engine, &out)
	if !ok {
		return out
	}
	rowTarget := RowTarget(tableIdx, rowIdx)

	// Row deletion supersedes everything: removing the row invalidates
	// every cell reference, so no finer-grained edit may coexist with it.
	if rec.RowDeletion.ShouldDeleteEntireRow {
		out.add(Operation{
			Type:   OpDeleteRow,
			Target: rowTarget,
			Reason: rec.RowDeletion.Explanation,
		})
		return out
	}

	s := &session{
		planner: p,
		doc:     doc,
		desc:    desc,
		engine:  engine,
		plan:    &out,
		table:   tableIdx,
		row:     rowIdx,
		claimed: map[Target]bool{},
	}

	switch desc.Layout {
	case sections.LayoutGoals:
		s.planGoals(rec)
	case sections.LayoutBlank:
		s.planBlank(rec, rowTarget)
	default:
		if box := rec.Boxes[analysis.BoxSingle]; box != nil {
			s.planBox(box, desc.LeftColumn)
		}
		if box := rec.Boxes[analysis.BoxLeft]; box != nil {
			s.planBox(box, desc.LeftColumn)
		}
		if box := rec.Boxes[analysis.BoxRight]; box != nil {
			s.planBox(box, desc.RightColumn)
		}
	}

	p.logger.Debug("section planned",
		"section", desc.Name,
		"operations", len(out.Ops),
		"diagnostics", len(out.Diagnostics))
	return out
}

// resolveRow locates the section's backing table and row.
func (p *Planner) resolveRow(doc *docx.Document, desc sections.Descriptor, engine *match.Engine, out *Plan) (int, int, bool) {
	tables := doc.Tables()
	infos := make([]match.TableInfo, len(tables))
	for i, t := range tables {
		info := match.TableInfo{Index: i, Rows: t.RowCount(), Cols: t.ColumnCount()}
		if rows := t.Rows(); len(rows) > 0 {
			info.Header = rows[0].Text()
		}
		infos[i] = info
	}

	tableIdx, ok := match.DetectTable(desc.Table, infos)
	if !ok {
		out.diagnose("table_detection", desc.Name,
			"no table satisfied criteria %+v among %d tables", desc.Table, len(tables))
		return 0, 0, false
	}

	rows := tables[tableIdx].Rows()
	candidates := make([]match.Candidate, len(rows))
	for i, r := range rows {
		candidates[i] = match.Candidate{Index: i, Text: r.Text()}
	}
	res, ok := engine.Keyword(desc.RowKeywords, candidates)
	if !ok {
		out.diagnose("row_resolution", desc.Name,
			"no row matched keywords %v in table %d", desc.RowKeywords, tableIdx)
		return 0, 0, false
	}
	return tableIdx, res.Index, true
}

// session carries the state of one planning pass.
type session struct {
	planner *Planner
	doc     *docx.Document
	desc    sections.Descriptor
	engine  *match.Engine
	plan    *Plan
	table   int
	row     int
	claimed map[Target]bool
}

// cell returns the paragraphs of the given cell in the section row, or nil
// with a diagnostic when the cell index does not exist in the template.
func (s *session) cell(cellIdx int) []*docx.Paragraph {
	rows := s.doc.Tables()[s.table].Rows()
	cells := rows[s.row].Cells()
	if cellIdx < 0 || cellIdx >= len(cells) {
		s.plan.diagnose("structure", s.desc.Name,
			"cell %d out of range: row %d has %d cells", cellIdx, s.row, len(cells))
		return nil
	}
	return cells[cellIdx].Paragraphs()
}

func (s *session) target(cellIdx, paraIdx int) Target {
	return Target{Table: s.table, Row: s.row, Cell: cellIdx, Paragraph: paraIdx}
}

// claim registers a resolved target, returning false if something in this
// pass already owns it.
func (s *session) claim(t Target) bool {
	if s.claimed[t] {
		return false
	}
	s.claimed[t] = true
	return true
}

// unclaimedCandidates lists the cell's paragraphs not yet claimed this pass.
func (s *session) unclaimedCandidates(cellIdx int, paras []*docx.Paragraph) []match.Candidate {
	var out []match.Candidate
	for i, p := range paras {
		if s.claimed[s.target(cellIdx, i)] {
			continue
		}
		out = append(out, match.Candidate{Index: i, Text: p.Text()})
	}
	return out
}

// planBox applies deletion and replacement rules for one box against one cell.
func (s *session) planBox(box *analysis.Box, cellIdx int) {
	paras := s.cell(cellIdx)
	if paras == nil {
		return
	}
	items := expandContinuous(box)

	for _, item := range items {
		if !item.ShouldDelete {
			continue
		}
		candidates := s.unclaimedCandidates(cellIdx, paras)
		res, ok := s.engine.Similar(item.Text, candidates)
		if !ok {
			best, found := s.engine.Best(item.Text, candidates)
			score := 0.0
			if found {
				score = best.Score
			}
			s.plan.diagnoseScore("item_deletion", item.Text, score,
				"item %d unmatched above threshold %.2f (best %.2f)",
				item.Number, s.engine.Threshold, score)
			continue
		}
		if res.Ambiguous {
			s.plan.diagnoseScore("item_deletion", item.Text, res.Score,
				"ambiguous match for item %d: kept paragraph %d over %v",
				item.Number, res.Index, res.Runners)
		}
		t := s.target(cellIdx, res.Index)
		if !s.claim(t) {
			continue
		}
		s.plan.add(Operation{Type: OpDeleteParagraph, Target: t, Old: paras[res.Index].Text()})
	}

	for _, item := range items {
		if item.ReplacementText == "" || item.ShouldDelete {
			continue
		}
		candidates := s.unclaimedCandidates(cellIdx, paras)
		res, ok := s.engine.Exact(item.Text, candidates)
		if !ok {
			res, ok = s.engine.Similar(item.Text, candidates)
		}
		if !ok {
			best, found := s.engine.Best(item.Text, candidates)
			score := 0.0
			if found {
				score = best.Score
			}
			s.plan.diagnoseScore("replacement", item.Text, score,
				"replacement target for item %d unmatched (best %.2f)", item.Number, score)
			continue
		}
		t := s.target(cellIdx, res.Index)
		if !s.claim(t) {
			continue
		}
		old := paras[res.Index].Text()
		s.plan.add(Operation{
			Type:   OpReplaceText,
			Target: t,
			Old:    old,
			New:    spliceReplacement(old, item.Text, item.ReplacementText),
		})
	}
}

// planGoals handles the handwritten-goals layout: numbered slots in the
// goals column paired one-to-one with the achieved column.
func (s *session) planGoals(rec *analysis.Record) {
	goals := s.cell(s.desc.LeftColumn)
	if goals == nil {
		return
	}
	achieved := s.cell(s.desc.RightColumn)

	for _, item := range rec.Goals {
		idx := item.Number - 1
		if idx < 0 || idx >= len(goals) {
			s.plan.diagnose("goals", item.HandwrittenText,
				"dot point %d outside template slots (1..%d)", item.Number, len(goals))
			continue
		}

		switch {
		case item.ShouldDelete:
			t := s.target(s.desc.LeftColumn, idx)
			if s.claim(t) {
				s.plan.add(Operation{Type: OpDeleteParagraph, Target: t, Old: goals[idx].Text()})
			}
			if idx < len(achieved) {
				at := s.target(s.desc.RightColumn, idx)
				if s.claim(at) {
					s.plan.add(Operation{Type: OpDeleteParagraph, Target: at, Old: achieved[idx].Text()})
				}
			}
		case item.HandwrittenText != "":
			t := s.target(s.desc.LeftColumn, idx)
			if !s.claim(t) {
				continue
			}
			s.plan.add(Operation{
				Type:   OpInsertBullet,
				Target: t,
				Old:    goals[idx].Text(),
				New:    appendToSlot(goals[idx].Text(), item.HandwrittenText),
			})
		}
	}
}

// planBlank handles the blank-box layout: a row untouched in both boxes is
// removed entirely; otherwise handwriting populates existing slots only.
func (s *session) planBlank(rec *analysis.Record, rowTarget Target) {
	left := rec.Boxes[analysis.BoxLeft]
	right := rec.Boxes[analysis.BoxRight]

	if !boxHasContent(left) && !boxHasContent(right) {
		s.plan.add(Operation{
			Type:   OpDeleteRow,
			Target: rowTarget,
			Reason: "no handwriting detected in either box",
		})
		return
	}

	s.populateSlots(left, s.desc.LeftColumn)
	s.populateSlots(right, s.desc.RightColumn)
}

func (s *session) populateSlots(box *analysis.Box, cellIdx int) {
	if box == nil || len(box.Items) == 0 {
		return
	}
	paras := s.cell(cellIdx)
	if paras == nil {
		return
	}
	for _, item := range box.Items {
		if item.HandwrittenText == "" {
			continue
		}
		idx := item.Number - 1
		if idx < 0 || idx >= len(paras) {
			s.plan.diagnose("blank_box", item.HandwrittenText,
				"dot point %d outside template slots (1..%d)", item.Number, len(paras))
			continue
		}
		t := s.target(cellIdx, idx)
		if !s.claim(t) {
			continue
		}
		s.plan.add(Operation{
			Type:   OpInsertBullet,
			Target: t,
			Old:    paras[idx].Text(),
			New:    appendToSlot(paras[idx].Text(), item.HandwrittenText),
		})
	}
}

func boxHasContent(b *analysis.Box) bool {
	if b == nil {
		return false
	}
	if b.HasHandwriting {
		return true
	}
	for _, item := range b.Items {
		if item.HandwrittenText != "" {
			return true
		}
	}
	return false
}

// expandContinuous returns the box's items with a continuous strike-through
// expanded: every item numbered within the min..max range of the flagged
// items is marked for deletion, whatever its own flag said.
func expandContinuous(box *analysis.Box) []analysis.Item {
	items := make([]analysis.Item, len(box.Items))
	copy(items, box.Items)
	if !box.ContinuousLineDetected {
		return items
	}

	lo, hi := 0, 0
	for _, item := range items {
		if !item.ShouldDelete {
			continue
		}
		if lo == 0 || item.Number < lo {
			lo = item.Number
		}
		if item.Number > hi {
			hi = item.Number
		}
	}
	if lo == 0 {
		return items
	}
	for i := range items {
		if items[i].Number >= lo && items[i].Number <= hi {
			items[i].ShouldDelete = true
		}
	}
	return items
}

// spliceReplacement swaps old for replacement inside full, keeping the
// surrounding text. Matching is case-sensitive first, then case-insensitive;
// when the target is not literally present the replacement stands alone.
func spliceReplacement(full, old, replacement string) string {
	if old != "" {
		if i := strings.Index(full, old); i >= 0 {
			return full[:i] + replacement + full[i+len(old):]
		}
		if start, end := foldIndex(full, old); start >= 0 {
			return full[:start] + replacement + full[end:]
		}
	}
	return replacement
}

// foldIndex locates old inside s under case folding and returns the byte
// range of the match in s. Offsets stay valid even when folding changes
// byte lengths, which ToLower-and-Index does not guarantee.
func foldIndex(s, old string) (int, int) {
	if old == "" {
		return -1, -1
	}
	for i := range s {
		j, k := i, 0
		for k < len(old) {
			if j >= len(s) {
				j = -1
				break
			}
			r1, n1 := utf8.DecodeRuneInString(s[j:])
			r2, n2 := utf8.DecodeRuneInString(old[k:])
			if unicode.ToLower(r1) != unicode.ToLower(r2) {
				j = -1
				break
			}
			j += n1
			k += n2
		}
		if j >= 0 {
			return i, j
		}
	}
	return -1, -1
}

// appendToSlot places handwritten text into a template slot, appending
// after any printed text already in it.
func appendToSlot(existing, handwritten string) string {
	existing = strings.TrimRight(existing, " ")
	if existing == "" {
		return handwritten
	}
	return existing + " " + handwritten
}

package plan_test

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/calebwren/redline/internal/analysis"
	"github.com/calebwren/redline/internal/docx"
	"github.com/calebwren/redline/internal/match"
	"github.com/calebwren/redline/internal/plan"
	"github.com/calebwren/redline/internal/sections"
)

func para(text string) string {
	if text == "" {
		return `<w:p/>`
	}
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func cell(paras ...string) string {
	return `<w:tc>` + strings.Join(paras, "") + `</w:tc>`
}

func row(cells ...string) string {
	return `<w:tr>` + strings.Join(cells, "") + `</w:tr>`
}

func buildDoc(t *testing.T, body string) *docx.Document {
	t.Helper()
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(f, document); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	doc, err := docx.OpenBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	return doc
}

// actionPlanDoc is a one-table fixture: a header row plus one section row
// whose middle cell holds three bullet items.
func actionPlanDoc(t *testing.T) *docx.Document {
	t.Helper()
	return buildDoc(t,
		`<w:tbl>`+
			row(cell(para("Section")), cell(para("Action Items")), cell(para("Alternative")))+
			row(
				cell(para("Savings & Investments")),
				cell(para("• Review your investment portfolio"), para("• Increase super contributions"), para("• Pay off debt before retirement")),
				cell(para("• Consider an offset account")),
			)+
			`</w:tbl>`)
}

func dualDesc() sections.Descriptor {
	return sections.Descriptor{
		Name:        "Section_2_4",
		Title:       "Savings & Investments",
		Layout:      sections.LayoutDual,
		RowKeywords: []string{"savings"},
		Table:       match.TableCriteria{Keywords: []string{"action"}, MinRows: 2, MinCols: 2},
		LeftColumn:  1,
		RightColumn: 2,
	}
}

func newPlanner() *plan.Planner {
	return plan.NewPlanner(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func opTypes(ops []plan.Operation) []plan.OpType {
	out := make([]plan.OpType, len(ops))
	for i, op := range ops {
		out[i] = op.Type
	}
	return out
}

func TestRowDeletionOverride(t *testing.T) {
	doc := actionPlanDoc(t)
	rec := &analysis.Record{
		Boxes: map[string]*analysis.Box{
			analysis.BoxLeft: {
				HasDeletionMarks: true,
				Items: []analysis.Item{
					{Number: 1, Text: "Review your investment portfolio", ShouldDelete: true},
				},
			},
		},
		RowDeletion: analysis.RowDeletion{
			ShouldDeleteEntireRow: true,
			Explanation:           "entire row struck through",
		},
	}

	p := newPlanner().Plan(doc, dualDesc(), rec)

	if len(p.Ops) != 1 {
		t.Fatalf("expected exactly one operation, got %v", opTypes(p.Ops))
	}
	op := p.Ops[0]
	if op.Type != plan.OpDeleteRow {
		t.Fatalf("expected DeleteRow, got %s", op.Type)
	}
	if op.Target.Table != 0 || op.Target.Row != 1 {
		t.Errorf("target: %+v", op.Target)
	}
	if op.Reason != "entire row struck through" {
		t.Errorf("reason: %q", op.Reason)
	}
}

func TestContinuousMarkExpansion(t *testing.T) {
	doc := buildDoc(t,
		`<w:tbl>`+
			row(cell(para("Section")), cell(para("Action Items")))+
			row(
				cell(para("Estate Planning")),
				cell(
					para("• Update your will"),
					para("• Appoint an enduring power of attorney"),
					para("• Nominate super beneficiaries"),
					para("• Review testamentary trust options"),
				),
			)+
			`</w:tbl>`)
	desc := dualDesc()
	desc.RowKeywords = []string{"estate"}

	rec := &analysis.Record{
		Boxes: map[string]*analysis.Box{
			analysis.BoxLeft: {
				ContinuousLineDetected: true,
				Items: []analysis.Item{
					{Number: 1, Text: "Update your will", ShouldDelete: false},
					{Number: 2, Text: "Appoint an enduring power of attorney", ShouldDelete: true},
					{Number: 3, Text: "Nominate super beneficiaries", ShouldDelete: false},
					{Number: 4, Text: "Review testamentary trust options", ShouldDelete: true},
				},
			},
		},
	}

	p := newPlanner().Plan(doc, desc, rec)

	if len(p.Ops) != 3 {
		t.Fatalf("expected 3 deletions, got %d: %v", len(p.Ops), opTypes(p.Ops))
	}
	deleted := map[int]bool{}
	for _, op := range p.Ops {
		if op.Type != plan.OpDeleteParagraph {
			t.Fatalf("unexpected op %s", op.Type)
		}
		deleted[op.Target.Paragraph] = true
	}
	// Items 2..4 marked; item 1 outside the stroke survives.
	for _, want := range []int{1, 2, 3} {
		if !deleted[want] {
			t.Errorf("paragraph %d not planned for deletion", want)
		}
	}
	if deleted[0] {
		t.Error("paragraph 0 deleted despite being outside the continuous range")
	}
}

func TestPerItemDeletion(t *testing.T) {
	t.Run("unmatched item is skipped with diagnostic", func(t *testing.T) {
		doc := actionPlanDoc(t)
		rec := &analysis.Record{
			Boxes: map[string]*analysis.Box{
				analysis.BoxLeft: {
					Items: []analysis.Item{
						{Number: 1, Text: "something entirely unrelated to the document", ShouldDelete: true},
					},
				},
			},
		}

		p := newPlanner().Plan(doc, dualDesc(), rec)
		if len(p.Ops) != 0 {
			t.Fatalf("expected no operations, got %v", opTypes(p.Ops))
		}
		if len(p.Diagnostics) != 1 {
			t.Fatalf("diagnostics: %+v", p.Diagnostics)
		}
		d := p.Diagnostics[0]
		if d.Stage != "item_deletion" || d.Target == "" {
			t.Errorf("diagnostic: %+v", d)
		}
		if d.Score >= 0.6 {
			t.Errorf("best score should be below threshold: %v", d.Score)
		}
	})

	t.Run("two items never claim one paragraph", func(t *testing.T) {
		doc := actionPlanDoc(t)
		rec := &analysis.Record{
			Boxes: map[string]*analysis.Box{
				analysis.BoxLeft: {
					Items: []analysis.Item{
						{Number: 1, Text: "Increase super contributions", ShouldDelete: true},
						{Number: 2, Text: "Increase super contributions", ShouldDelete: true},
					},
				},
			},
		}

		p := newPlanner().Plan(doc, dualDesc(), rec)
		if len(p.Ops) != 1 {
			t.Fatalf("expected 1 operation, got %d: %v", len(p.Ops), opTypes(p.Ops))
		}
		if p.Ops[0].Target.Paragraph != 1 {
			t.Errorf("target: %+v", p.Ops[0].Target)
		}
	})
}

func TestReplacement(t *testing.T) {
	doc := actionPlanDoc(t)
	rec := &analysis.Record{
		Boxes: map[string]*analysis.Box{
			analysis.BoxLeft: {
				Items: []analysis.Item{
					{Number: 3, Text: "Pay off debt", ReplacementText: "Pay off the mortgage"},
				},
			},
		},
	}

	p := newPlanner().Plan(doc, dualDesc(), rec)

	if len(p.Ops) != 1 || p.Ops[0].Type != plan.OpReplaceText {
		t.Fatalf("ops: %v", opTypes(p.Ops))
	}
	op := p.Ops[0]
	if op.Old != "• Pay off debt before retirement" {
		t.Errorf("old: %q", op.Old)
	}
	if op.New != "• Pay off the mortgage before retirement" {
		t.Errorf("surrounding text not preserved: %q", op.New)
	}
}

func TestGoalsLayout(t *testing.T) {
	goalsDoc := func(t *testing.T) *docx.Document {
		return buildDoc(t,
			`<w:tbl>`+
				row(cell(para("Goals")), cell(para("Achieved")))+
				row(
					cell(para("1."), para("2. Build an emergency fund"), para("3.")),
					cell(para(""), para("Partially"), para("")),
				)+
				`</w:tbl>`)
	}
	desc := sections.Descriptor{
		Name:        "Section_1_2",
		Layout:      sections.LayoutGoals,
		RowKeywords: []string{"emergency", "1."},
		Table:       match.TableCriteria{Keywords: []string{"goals"}, MinRows: 2, MinCols: 2},
		LeftColumn:  0,
		RightColumn: 1,
	}

	t.Run("handwriting fills the numbered slot", func(t *testing.T) {
		rec := &analysis.Record{
			Goals: []analysis.Item{{Number: 1, HandwrittenText: "Retire at 60"}},
		}
		p := newPlanner().Plan(goalsDoc(t), desc, rec)
		if len(p.Ops) != 1 || p.Ops[0].Type != plan.OpInsertBullet {
			t.Fatalf("ops: %+v", p.Ops)
		}
		op := p.Ops[0]
		if op.Target.Cell != 0 || op.Target.Paragraph != 0 {
			t.Errorf("target: %+v", op.Target)
		}
		if op.New != "1. Retire at 60" {
			t.Errorf("printed slot text not kept: %q", op.New)
		}
	})

	t.Run("struck goal clears both columns", func(t *testing.T) {
		rec := &analysis.Record{
			Goals: []analysis.Item{{Number: 2, ShouldDelete: true}},
		}
		p := newPlanner().Plan(goalsDoc(t), desc, rec)
		if len(p.Ops) != 2 {
			t.Fatalf("ops: %+v", p.Ops)
		}
		if p.Ops[0].Target.Cell != 0 || p.Ops[0].Target.Paragraph != 1 {
			t.Errorf("goals target: %+v", p.Ops[0].Target)
		}
		if p.Ops[1].Target.Cell != 1 || p.Ops[1].Target.Paragraph != 1 {
			t.Errorf("achieved target: %+v", p.Ops[1].Target)
		}
		for _, op := range p.Ops {
			if op.Type != plan.OpDeleteParagraph {
				t.Errorf("op: %+v", op)
			}
		}
	})

	t.Run("slot number beyond template is skipped", func(t *testing.T) {
		rec := &analysis.Record{
			Goals: []analysis.Item{{Number: 7, HandwrittenText: "Buy a boat"}},
		}
		p := newPlanner().Plan(goalsDoc(t), desc, rec)
		if len(p.Ops) != 0 {
			t.Fatalf("ops: %+v", p.Ops)
		}
		if len(p.Diagnostics) != 1 || p.Diagnostics[0].Stage != "goals" {
			t.Errorf("diagnostics: %+v", p.Diagnostics)
		}
	})
}

func TestBlankLayout(t *testing.T) {
	blankDoc := func(t *testing.T) *docx.Document {
		return buildDoc(t,
			`<w:tbl>`+
				row(cell(para("Section")), cell(para("Action Items")), cell(para("Notes")))+
				row(cell(para("Additional Notes")), cell(para(""), para("")), cell(para("")))+
				`</w:tbl>`)
	}
	desc := sections.Descriptor{
		Name:        "Section_4_6",
		Layout:      sections.LayoutBlank,
		RowKeywords: []string{"additional notes"},
		Table:       match.TableCriteria{Keywords: []string{"action"}, MinRows: 2, MinCols: 2},
		LeftColumn:  1,
		RightColumn: 2,
	}

	t.Run("untouched boxes delete the row", func(t *testing.T) {
		rec := &analysis.Record{
			Boxes: map[string]*analysis.Box{
				analysis.BoxLeft:  {HasHandwriting: false},
				analysis.BoxRight: {HasHandwriting: false},
			},
		}
		p := newPlanner().Plan(blankDoc(t), desc, rec)
		if len(p.Ops) != 1 || p.Ops[0].Type != plan.OpDeleteRow {
			t.Fatalf("ops: %+v", p.Ops)
		}
		if p.Ops[0].Reason == "" {
			t.Error("row deletion should carry a reason")
		}
	})

	t.Run("handwriting populates existing slots only", func(t *testing.T) {
		rec := &analysis.Record{
			Boxes: map[string]*analysis.Box{
				analysis.BoxLeft: {
					HasHandwriting: true,
					Items: []analysis.Item{
						{Number: 1, HandwrittenText: "Discuss aged care planning"},
						{Number: 5, HandwrittenText: "Overflow note"},
					},
				},
			},
		}
		p := newPlanner().Plan(blankDoc(t), desc, rec)
		if len(p.Ops) != 1 || p.Ops[0].Type != plan.OpInsertBullet {
			t.Fatalf("ops: %+v", p.Ops)
		}
		if p.Ops[0].New != "Discuss aged care planning" {
			t.Errorf("text: %q", p.Ops[0].New)
		}
		if len(p.Diagnostics) != 1 {
			t.Errorf("expected overflow diagnostic, got %+v", p.Diagnostics)
		}
	})
}

func TestPlanDegenerateInputs(t *testing.T) {
	t.Run("nil record", func(t *testing.T) {
		p := newPlanner().Plan(actionPlanDoc(t), dualDesc(), nil)
		if len(p.Ops) != 0 || len(p.Diagnostics) != 0 {
			t.Errorf("plan: %+v", p)
		}
	})

	t.Run("empty record", func(t *testing.T) {
		p := newPlanner().Plan(actionPlanDoc(t), dualDesc(), &analysis.Record{})
		if len(p.Ops) != 0 {
			t.Errorf("ops: %+v", p.Ops)
		}
	})

	t.Run("no qualifying table", func(t *testing.T) {
		doc := buildDoc(t, para("no tables in this document"))
		rec := &analysis.Record{RowDeletion: analysis.RowDeletion{ShouldDeleteEntireRow: true}}
		p := newPlanner().Plan(doc, dualDesc(), rec)
		if len(p.Ops) != 0 {
			t.Errorf("ops: %+v", p.Ops)
		}
		if len(p.Diagnostics) != 1 || p.Diagnostics[0].Stage != "table_detection" {
			t.Errorf("diagnostics: %+v", p.Diagnostics)
		}
	})

	t.Run("row keywords miss", func(t *testing.T) {
		desc := dualDesc()
		desc.RowKeywords = []string{"nonexistent heading"}
		p := newPlanner().Plan(actionPlanDoc(t), desc, &analysis.Record{
			RowDeletion: analysis.RowDeletion{ShouldDeleteEntireRow: true},
		})
		if len(p.Ops) != 0 {
			t.Errorf("ops: %+v", p.Ops)
		}
		if len(p.Diagnostics) != 1 || p.Diagnostics[0].Stage != "row_resolution" {
			t.Errorf("diagnostics: %+v", p.Diagnostics)
		}
	})
}

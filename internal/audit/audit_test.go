package audit_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calebwren/redline/internal/audit"
)

func TestSnippet(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		if got := audit.Snippet("pay off the mortgage"); got != "pay off the mortgage" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("long text truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("x", 150)
		got := audit.Snippet(long)
		if len([]rune(got)) != 103 {
			t.Errorf("length %d", len([]rune(got)))
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("boundary is rune-based", func(t *testing.T) {
		long := strings.Repeat("é", 120)
		got := audit.Snippet(long)
		if want := strings.Repeat("é", 100) + "..."; got != want {
			t.Errorf("got %q", got)
		}
	})
}

func TestTrail(t *testing.T) {
	trail := audit.NewTrail("run-1")

	first := trail.Append("Section_2_4", "delete_paragraph", "table 0 row 1 cell 1 paragraph 2", "• old text", "", "")
	second := trail.Append("Section_2_4", "replace_text", "table 0 row 1 cell 1 paragraph 0", "before", "after", "")
	trail.AppendDiagnostic("Section_4_6", "item_deletion", "item 3 unmatched")

	t.Run("sequence numbers increase from one", func(t *testing.T) {
		if first.Sequence != 1 || second.Sequence != 2 {
			t.Errorf("sequences: %d, %d", first.Sequence, second.Sequence)
		}
	})

	t.Run("records carry run id", func(t *testing.T) {
		if first.RunID != "run-1" {
			t.Errorf("got %q", first.RunID)
		}
	})

	t.Run("mutation count excludes diagnostics", func(t *testing.T) {
		if got := trail.Mutations(); got != 2 {
			t.Errorf("got %d", got)
		}
		if got := trail.Len(); got != 3 {
			t.Errorf("got %d", got)
		}
	})

	t.Run("records returns a copy", func(t *testing.T) {
		recs := trail.Records()
		recs[0].Section = "tampered"
		if trail.Records()[0].Section != "Section_2_4" {
			t.Error("trail mutated through returned slice")
		}
	})

	t.Run("summaries aggregate per section", func(t *testing.T) {
		sums := trail.Summaries()
		if len(sums) != 2 {
			t.Fatalf("got %+v", sums)
		}
		if sums[0].Section != "Section_2_4" || sums[0].Mutations != 2 || sums[0].Diagnostics != 0 {
			t.Errorf("got %+v", sums[0])
		}
		if sums[1].Section != "Section_4_6" || sums[1].Diagnostics != 1 {
			t.Errorf("got %+v", sums[1])
		}
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit.db")

	store, err := audit.OpenStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	trail := audit.NewTrail("run-42")
	trail.Append("Section_1_2", "insert_bullet", "table 0 row 1 cell 0 paragraph 0", "1.", "1. Retire at 60", "")
	trail.Append("Section_4_6", "delete_row", "table 0 row 3", "", "", "no handwriting detected in either box")

	if err := store.SaveTrail(ctx, trail); err != nil {
		t.Fatalf("save: %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		recs, err := store.RunRecords(ctx, "run-42")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("got %d records", len(recs))
		}
		if recs[0].Operation != "insert_bullet" || recs[0].After != "1. Retire at 60" {
			t.Errorf("got %+v", recs[0])
		}
		if recs[1].Reason != "no handwriting detected in either box" {
			t.Errorf("got %+v", recs[1])
		}
	})

	t.Run("resave replaces earlier records", func(t *testing.T) {
		if err := store.SaveTrail(ctx, trail); err != nil {
			t.Fatalf("resave: %v", err)
		}
		recs, err := store.RunRecords(ctx, "run-42")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(recs) != 2 {
			t.Errorf("got %d records after resave", len(recs))
		}
	})

	t.Run("run listing", func(t *testing.T) {
		ids, err := store.RunIDs(ctx)
		if err != nil {
			t.Fatalf("runs: %v", err)
		}
		if len(ids) != 1 || ids[0] != "run-42" {
			t.Errorf("got %v", ids)
		}
	})

	t.Run("unknown run is empty", func(t *testing.T) {
		recs, err := store.RunRecords(ctx, "missing")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("got %d records", len(recs))
		}
	})
}

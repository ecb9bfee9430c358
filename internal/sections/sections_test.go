package sections_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/calebwren/redline/internal/match"
	"github.com/calebwren/redline/internal/sections"
)

func TestDefault(t *testing.T) {
	reg := sections.Default()

	t.Run("complete template map", func(t *testing.T) {
		if got := reg.Len(); got != 20 {
			t.Errorf("expected 20 sections, got %d", got)
		}
	})

	t.Run("every descriptor is well formed", func(t *testing.T) {
		for _, d := range reg.All() {
			if d.Name == "" || d.Title == "" {
				t.Errorf("incomplete descriptor: %+v", d)
			}
			if d.Layout == "" {
				t.Errorf("%s: missing layout", d.Name)
			}
			if len(d.RowKeywords) == 0 {
				t.Errorf("%s: no row keywords", d.Name)
			}
			if d.Region.Width <= 0 || d.Region.Height <= 0 || d.Region.Page < 1 {
				t.Errorf("%s: bad region %+v", d.Name, d.Region)
			}
			if d.Prompt == "" {
				t.Errorf("%s: no prompt stage", d.Name)
			}
		}
	})

	t.Run("layout-specific columns", func(t *testing.T) {
		goals, ok := reg.Find("Section_1_2")
		if !ok {
			t.Fatal("goals section missing")
		}
		if goals.Layout != sections.LayoutGoals {
			t.Errorf("layout: %s", goals.Layout)
		}
		blank, ok := reg.Find("Section_4_6")
		if !ok || blank.Layout != sections.LayoutBlank {
			t.Errorf("blank-box section: %+v ok=%v", blank, ok)
		}
		if blank.RightColumn <= blank.LeftColumn {
			t.Errorf("blank box columns: left=%d right=%d", blank.LeftColumn, blank.RightColumn)
		}
	})

	t.Run("threshold default", func(t *testing.T) {
		d := sections.Descriptor{Name: "x"}
		if got := d.SimilarityThreshold(); got != match.DefaultThreshold {
			t.Errorf("got %v", got)
		}
		d.Threshold = 0.8
		if got := d.SimilarityThreshold(); got != 0.8 {
			t.Errorf("got %v", got)
		}
	})
}

func TestNewRegistry(t *testing.T) {
	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := sections.NewRegistry([]sections.Descriptor{
			{Name: "Section_A"},
			{Name: "Section_A"},
		})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rejects unnamed descriptor", func(t *testing.T) {
		if _, err := sections.NewRegistry([]sections.Descriptor{{Title: "no name"}}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestLoad(t *testing.T) {
	overlay := `sections:
  - name: Section_2_4
    title: Savings & Investments (custom)
    layout: dual
    row_keywords: [savings]
    threshold: 0.75
    left_column: 1
    right_column: 2
    region: {page: 2, x: 0.1, y: 0.5, width: 0.8, height: 0.2}
    prompt: dual-box
  - name: Section_9_9
    title: Custom Appendix
    layout: single
    row_keywords: [appendix]
    left_column: 1
    region: {page: 6, x: 0.1, y: 0.1, width: 0.8, height: 0.2}
    prompt: single-box
`
	path := filepath.Join(t.TempDir(), "sections.yaml")
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := sections.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	t.Run("overlay replaces built-in in place", func(t *testing.T) {
		d, ok := reg.Find("Section_2_4")
		if !ok {
			t.Fatal("section missing")
		}
		if d.Threshold != 0.75 {
			t.Errorf("threshold not overridden: %v", d.Threshold)
		}
		if reg.Len() != 21 {
			t.Errorf("expected 21 sections, got %d", reg.Len())
		}
	})

	t.Run("new sections append", func(t *testing.T) {
		d, ok := reg.Find("Section_9_9")
		if !ok {
			t.Fatal("appended section missing")
		}
		if d.Layout != sections.LayoutSingle || d.Region.Page != 6 {
			t.Errorf("got %+v", d)
		}
		all := reg.All()
		if all[len(all)-1].Name != "Section_9_9" {
			t.Errorf("appended section not last: %s", all[len(all)-1].Name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := sections.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error")
		}
	})
}

package vision_test

import (
	"context"
	"testing"

	"github.com/calebwren/redline/internal/vision"
)

func TestArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	art := vision.Artifact{
		RawAnalysis: `{"box_analysis": {"has_deletion_marks": true}}`,
		ParsedData: map[string]any{
			"box_analysis": map[string]any{"has_deletion_marks": true},
		},
	}

	if err := vision.WriteArtifact(dir, "Section_2_4", art); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := vision.ReadArtifact(dir, "Section_2_4")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.RawAnalysis != art.RawAnalysis {
		t.Errorf("raw: %q", got.RawAnalysis)
	}
	if got.ParsedData == nil {
		t.Error("parsed data lost")
	}

	t.Run("null parsed data survives", func(t *testing.T) {
		if err := vision.WriteArtifact(dir, "Section_4_6", vision.Artifact{RawAnalysis: "unparsable"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := vision.ReadArtifact(dir, "Section_4_6")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got.ParsedData != nil {
			t.Errorf("got %+v", got.ParsedData)
		}
	})
}

func TestArtifactAnalyzer(t *testing.T) {
	dir := t.TempDir()
	if err := vision.WriteArtifact(dir, "Section_1_2", vision.Artifact{RawAnalysis: `{"handwritten_goals": {"items": []}}`}); err != nil {
		t.Fatal(err)
	}
	a := vision.NewArtifactAnalyzer(dir)

	t.Run("replays saved analysis", func(t *testing.T) {
		out := a.Analyze(context.Background(), "Section_1_2", "ignored prompt", "ignored.png")
		if !out.Success {
			t.Fatalf("output: %+v", out)
		}
		if out.Content != `{"handwritten_goals": {"items": []}}` {
			t.Errorf("content: %q", out.Content)
		}
	})

	t.Run("missing artifact fails the section", func(t *testing.T) {
		out := a.Analyze(context.Background(), "Section_9_9", "", "")
		if out.Success {
			t.Fatal("expected failure")
		}
		if out.Error == "" {
			t.Error("raw error should be preserved")
		}
	})
}

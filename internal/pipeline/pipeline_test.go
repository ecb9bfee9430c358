package pipeline_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calebwren/redline/internal/audit"
	"github.com/calebwren/redline/internal/config"
	"github.com/calebwren/redline/internal/docx"
	"github.com/calebwren/redline/internal/match"
	"github.com/calebwren/redline/internal/pipeline"
	"github.com/calebwren/redline/internal/sections"
	"github.com/calebwren/redline/internal/vision"
)

type stubAnalyzer struct {
	responses map[string]vision.Output
}

func (a *stubAnalyzer) Analyze(ctx context.Context, section, prompt, imagePath string) vision.Output {
	out, ok := a.responses[section]
	if !ok {
		return vision.Output{Error: "no canned response for " + section}
	}
	return out
}

func para(text string) string {
	if text == "" {
		return `<w:p/>`
	}
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func writeFixtureDoc(t *testing.T, path string) {
	t.Helper()
	body := `<w:tbl><w:tr><w:tc>` + para("Section") + `</w:tc><w:tc>` + para("Action Items") + `</w:tc></w:tr>` +
		`<w:tr><w:tc>` + para("Savings & Investments") + `</w:tc><w:tc>` +
		para("• Review your investment portfolio") + para("• Increase super contributions") +
		`</w:tc></w:tr></w:tbl>`
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
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

const deleteFirstItemJSON = `{
  "box_analysis": {
    "has_deletion_marks": true,
    "has_handwriting": false,
    "total_dot_points": 2,
    "dot_points": [
      {"dot_point_number": 1, "text": "Review your investment portfolio", "should_delete": true}
    ]
  }
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	work := t.TempDir()
	cfg := &config.Config{}
	cfg.Pipeline.ImagesDir = filepath.Join(work, "images")
	cfg.Pipeline.ArtifactDir = filepath.Join(work, "artifacts")
	cfg.Pipeline.AuditDB = filepath.Join(work, "audit.db")
	if err := os.MkdirAll(cfg.Pipeline.ImagesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.Pipeline.ArtifactDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func testRegistry(t *testing.T) *sections.Registry {
	t.Helper()
	reg, err := sections.NewRegistry([]sections.Descriptor{{
		Name:        "Section_2_4",
		Title:       "Savings & Investments",
		Layout:      sections.LayoutSingle,
		RowKeywords: []string{"savings"},
		Table:       match.TableCriteria{Keywords: []string{"action"}, MinRows: 2, MinCols: 2},
		LeftColumn:  1,
		Prompt:      "single-box",
	}})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestRunMutatesAndPersists(t *testing.T) {
	cfg := testConfig(t)
	reg := testRegistry(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	docPath := filepath.Join(t.TempDir(), "plan.docx")
	outPath := filepath.Join(t.TempDir(), "plan-updated.docx")
	writeFixtureDoc(t, docPath)
	if err := os.WriteFile(filepath.Join(cfg.Pipeline.ImagesDir, "Section_2_4.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := audit.OpenStore(cfg.Pipeline.AuditDB)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	analyzer := &stubAnalyzer{responses: map[string]vision.Output{
		"Section_2_4": {Content: deleteFirstItemJSON, Success: true},
	}}

	p := pipeline.New(cfg, reg, analyzer, store, logger)
	result, err := p.Run(context.Background(), pipeline.Options{
		DocumentPath: docPath,
		OutputPath:   outPath,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Succeeded() != 1 {
		t.Errorf("succeeded = %d, want 1", result.Succeeded())
	}
	if result.OutputPath != outPath {
		t.Errorf("output path = %q", result.OutputPath)
	}

	doc, err := docx.Open(outPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	got := doc.Tables()[0].Rows()[1].Cells()[1].Paragraphs()[0].Text()
	if got != "" {
		t.Errorf("first item = %q, want cleared", got)
	}

	runIDs, err := store.RunIDs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(runIDs) != 1 || runIDs[0] != result.RunID {
		t.Errorf("stored runs = %v, want [%s]", runIDs, result.RunID)
	}
	records, err := store.RunRecords(context.Background(), result.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) == 0 {
		t.Error("no audit records persisted")
	}
}

func TestRunAnalyzeOnlyWritesNoDocument(t *testing.T) {
	cfg := testConfig(t)
	reg := testRegistry(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	docPath := filepath.Join(t.TempDir(), "plan.docx")
	outPath := filepath.Join(t.TempDir(), "plan-updated.docx")
	writeFixtureDoc(t, docPath)
	if err := os.WriteFile(filepath.Join(cfg.Pipeline.ImagesDir, "Section_2_4.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	analyzer := &stubAnalyzer{responses: map[string]vision.Output{
		"Section_2_4": {Content: deleteFirstItemJSON, Success: true},
	}}

	p := pipeline.New(cfg, reg, analyzer, nil, logger)
	result, err := p.Run(context.Background(), pipeline.Options{
		DocumentPath: docPath,
		OutputPath:   outPath,
		AnalyzeOnly:  true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.OutputPath != "" {
		t.Errorf("output path = %q, want empty in analyze-only mode", result.OutputPath)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Errorf("output document written in analyze-only mode")
	}

	art, err := vision.ReadArtifact(cfg.Pipeline.ArtifactDir, "Section_2_4")
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}
	if !strings.Contains(art.RawAnalysis, "has_deletion_marks") {
		t.Errorf("artifact raw analysis = %q", art.RawAnalysis)
	}
}

func TestRunMissingDocument(t *testing.T) {
	cfg := testConfig(t)
	p := pipeline.New(cfg, testRegistry(t), &stubAnalyzer{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := p.Run(context.Background(), pipeline.Options{DocumentPath: "missing.docx"}); err == nil {
		t.Fatal("expected error for missing document")
	}
}

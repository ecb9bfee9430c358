package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is the persisted per-section analysis result. It is the sole
// contract between the analysis stage and a later mutation re-run: apply
// mode re-drives planning from these files without calling the model.
type Artifact struct {
	RawAnalysis string         `json:"raw_analysis"`
	ParsedData  map[string]any `json:"parsed_data"`
}

func artifactPath(dir, section string) string {
	return filepath.Join(dir, section+"_analysis.json")
}

// WriteArtifact persists one section's artifact atomically.
func WriteArtifact(dir, section string, a Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact for %s: %w", section, err)
	}

	path := artifactPath(dir, section)
	tmp, err := os.CreateTemp(dir, "."+section+"-*.json")
	if err != nil {
		return fmt.Errorf("write artifact for %s: %w", section, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact for %s: %w", section, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write artifact for %s: %w", section, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write artifact for %s: %w", section, err)
	}
	return nil
}

// ReadArtifact loads one section's artifact.
func ReadArtifact(dir, section string) (Artifact, error) {
	data, err := os.ReadFile(artifactPath(dir, section))
	if err != nil {
		return Artifact{}, fmt.Errorf("read artifact for %s: %w", section, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Artifact{}, fmt.Errorf("decode artifact for %s: %w", section, err)
	}
	return a, nil
}

// ArtifactAnalyzer replays saved artifacts instead of calling the model.
// A section without an artifact fails, mirroring a failed live call.
type ArtifactAnalyzer struct {
	dir string
}

// NewArtifactAnalyzer replays artifacts from dir.
func NewArtifactAnalyzer(dir string) *ArtifactAnalyzer {
	return &ArtifactAnalyzer{dir: dir}
}

// Analyze returns the saved raw analysis for the section. The prompt and
// image path are ignored; they exist to satisfy the Analyzer contract.
func (a *ArtifactAnalyzer) Analyze(_ context.Context, section, _, _ string) Output {
	art, err := ReadArtifact(a.dir, section)
	if err != nil {
		return failure(err)
	}
	return Output{Content: art.RawAnalysis, Success: true}
}

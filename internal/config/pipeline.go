package config

import (
	"fmt"
	"os"
)

const (
	EnvPipelineImagesDir    = "REDLINE_PIPELINE_IMAGES_DIR"
	EnvPipelineArtifactDir  = "REDLINE_PIPELINE_ARTIFACT_DIR"
	EnvPipelineAuditDB      = "REDLINE_PIPELINE_AUDIT_DB"
	EnvPipelineSectionsFile = "REDLINE_PIPELINE_SECTIONS_FILE"
)

// PipelineConfig holds processing-run paths: where section images land,
// where analysis artifacts are written, and where the audit database
// lives. SectionsFile optionally overlays the built-in section registry.
type PipelineConfig struct {
	ImagesDir    string `toml:"images_dir"`
	ArtifactDir  string `toml:"artifact_dir"`
	AuditDB      string `toml:"audit_db"`
	SectionsFile string `toml:"sections_file"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.ImagesDir != "" {
		c.ImagesDir = overlay.ImagesDir
	}
	if overlay.ArtifactDir != "" {
		c.ArtifactDir = overlay.ArtifactDir
	}
	if overlay.AuditDB != "" {
		c.AuditDB = overlay.AuditDB
	}
	if overlay.SectionsFile != "" {
		c.SectionsFile = overlay.SectionsFile
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.ImagesDir == "" {
		c.ImagesDir = "work/images"
	}
	if c.ArtifactDir == "" {
		c.ArtifactDir = "work/artifacts"
	}
	if c.AuditDB == "" {
		c.AuditDB = "work/audit.db"
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineImagesDir); v != "" {
		c.ImagesDir = v
	}
	if v := os.Getenv(EnvPipelineArtifactDir); v != "" {
		c.ArtifactDir = v
	}
	if v := os.Getenv(EnvPipelineAuditDB); v != "" {
		c.AuditDB = v
	}
	if v := os.Getenv(EnvPipelineSectionsFile); v != "" {
		c.SectionsFile = v
	}
}

func (c *PipelineConfig) validate() error {
	if c.ImagesDir == "" || c.ArtifactDir == "" || c.AuditDB == "" {
		return fmt.Errorf("pipeline paths must not be empty")
	}
	return nil
}

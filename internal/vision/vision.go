// Package vision is the model-analysis boundary: one image and one prompt
// in, one opaque text blob out. Failures are carried in the output value,
// never panics, so the orchestrator can fail a section and move on.
package vision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/JaimeStill/go-agents/pkg/format"
)

// DefaultTimeout bounds one analysis call. A call that exceeds it is a
// failed section, not a hung pipeline.
const DefaultTimeout = 90 * time.Second

// Output is the result of one analysis call. Content is free text expected
// to contain a JSON object; Error preserves the raw failure for
// diagnostics when Success is false.
type Output struct {
	Content string `json:"content"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Analyzer produces raw model output for one section image.
type Analyzer interface {
	Analyze(ctx context.Context, section, prompt, imagePath string) Output
}

// AgentAnalyzer calls a vision-capable model through a configured agent.
// A fresh agent is created per call; the config is the only shared state.
type AgentAnalyzer struct {
	config  gaconfig.AgentConfig
	timeout time.Duration
	logger  *slog.Logger
}

// NewAgentAnalyzer builds an analyzer from an agent config. A zero timeout
// falls back to DefaultTimeout.
func NewAgentAnalyzer(cfg gaconfig.AgentConfig, timeout time.Duration, logger *slog.Logger) *AgentAnalyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AgentAnalyzer{config: cfg, timeout: timeout, logger: logger}
}

// Analyze sends the section image and prompt to the model. The call is
// bounded by the analyzer timeout; any failure is folded into the output.
func (a *AgentAnalyzer) Analyze(ctx context.Context, section, prompt, imagePath string) Output {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	ag, err := agent.New(&a.config)
	if err != nil {
		return failure(fmt.Errorf("create agent: %w", err))
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return failure(fmt.Errorf("read section image: %w", err))
	}
	dataURI, err := encoding.EncodeImageDataURI(data, document.PNG)
	if err != nil {
		return failure(fmt.Errorf("encode section image: %w", err))
	}

	started := time.Now()
	resp, err := ag.Vision(ctx, prompt, []format.Image{{URL: dataURI}})
	if err != nil {
		return failure(fmt.Errorf("vision call: %w", err))
	}

	a.logger.InfoContext(ctx, "analysis call complete",
		"section", section,
		"elapsed", time.Since(started).Round(time.Millisecond),
		"response_bytes", len(resp.Text()))
	return Output{Content: resp.Text(), Success: true}
}

func failure(err error) Output {
	return Output{Success: false, Error: err.Error()}
}

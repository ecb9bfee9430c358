package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/calebwren/redline/internal/analysis"
	"github.com/calebwren/redline/internal/prompts"
	"github.com/calebwren/redline/internal/vision"
)

// LoadNode verifies the section image exists and records its path.
func LoadNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ss, err := extractSection(s)
		if err != nil {
			return s, err
		}

		path := filepath.Join(rt.ImagesDir, ss.Desc.Name+".png")
		if _, err := os.Stat(path); err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrImageLoadFailed, ss.Desc.Name, err)
		}

		ss.ImagePath = path
		ss.Stage = StageImageLoaded
		return s.Set(KeySection, *ss), nil
	})
}

// AnalyzeNode sends the section image to the model. A failed or timed-out
// call fails the section; the raw error is preserved for diagnostics.
// No automatic retry.
func AnalyzeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ss, err := extractSection(s)
		if err != nil {
			return s, err
		}

		stage, err := prompts.ParseStage(ss.Desc.Prompt)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %w", ErrAnalysisFailed, ss.Desc.Name, err)
		}
		prompt, err := prompts.Compose(stage, ss.Desc.Title, "")
		if err != nil {
			return s, fmt.Errorf("%w: %s: %w", ErrAnalysisFailed, ss.Desc.Name, err)
		}

		out := rt.Analyzer.Analyze(ctx, ss.Desc.Name, prompt, ss.ImagePath)
		if !out.Success {
			return s, fmt.Errorf("%w: %s: %s", ErrAnalysisFailed, ss.Desc.Name, out.Error)
		}

		rt.Logger.InfoContext(ctx, "analyze node complete",
			"section", ss.Desc.Name,
			"response_bytes", len(out.Content))

		ss.Raw = out
		ss.Stage = StageAnalyzed
		return s.Set(KeySection, *ss), nil
	})
}

// ParseNode decodes raw model output into a record and runs the spelling
// corrector over transcribed handwriting. Parsing never fails a section:
// unparsable output degrades to the default empty record.
func ParseNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ss, err := extractSection(s)
		if err != nil {
			return s, err
		}

		rec := rt.Parser.Parse(ss.Raw.Content)
		corrected := correctRecord(rt, rec)

		rt.Logger.InfoContext(ctx, "parse node complete",
			"section", ss.Desc.Name,
			"empty", rec.Empty(),
			"spelling_corrections", corrected)

		ss.Record = rec
		ss.Stage = StageParsed
		return s.Set(KeySection, *ss), nil
	})
}

// PlanNode derives the section's edit operations and records planning
// diagnostics in the audit trail.
func PlanNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ss, err := extractSection(s)
		if err != nil {
			return s, err
		}

		ss.Plan = rt.Planner.Plan(rt.Document, ss.Desc, ss.Record)
		for _, d := range ss.Plan.Diagnostics {
			rt.Trail.AppendDiagnostic(ss.Desc.Name, d.Stage, d.Message)
		}

		rt.Logger.InfoContext(ctx, "plan node complete",
			"section", ss.Desc.Name,
			"operations", len(ss.Plan.Ops),
			"diagnostics", len(ss.Plan.Diagnostics))

		ss.Stage = StagePlanned
		return s.Set(KeySection, *ss), nil
	})
}

// MutateNode applies the planned operations to the shared document.
// Individual edit failures are skipped and counted, never fatal.
func MutateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ss, err := extractSection(s)
		if err != nil {
			return s, err
		}

		ss.Result = rt.Mutator.ApplyAll(rt.Document, ss.Desc.Name, ss.Plan.Ops)

		rt.Logger.InfoContext(ctx, "mutate node complete",
			"section", ss.Desc.Name,
			"attempted", ss.Result.Attempted,
			"applied", ss.Result.Applied,
			"skipped", ss.Result.Skipped)

		ss.Stage = StageMutated
		return s.Set(KeySection, *ss), nil
	})
}

// PersistNode writes the section's analysis artifact. This is the one
// per-section stage whose failure is hard: losing the artifact silently
// would break later re-runs.
func PersistNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ss, err := extractSection(s)
		if err != nil {
			return s, err
		}

		art := vision.Artifact{RawAnalysis: ss.Raw.Content}
		if ss.Record != nil {
			art.ParsedData = ss.Record.Source
		}
		if err := vision.WriteArtifact(rt.ArtifactDir, ss.Desc.Name, art); err != nil {
			return s, fmt.Errorf("%w: %s: %w", ErrPersistFailed, ss.Desc.Name, err)
		}

		ss.Stage = StagePersisted
		return s.Set(KeySection, *ss), nil
	})
}

func extractSection(s state.State) (*sectionState, error) {
	val, ok := s.Get(KeySection)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeySection)
	}
	ss, ok := val.(sectionState)
	if !ok {
		return nil, fmt.Errorf("%s is not sectionState", KeySection)
	}
	return &ss, nil
}

// correctRecord runs the spelling corrector over every transcribed text in
// the record, returning the number of corrections applied. Printed item
// text is left alone; only handwriting transcriptions are OCR-noisy.
func correctRecord(rt *Runtime, rec *analysis.Record) int {
	if rt.Corrector == nil || rec == nil {
		return 0
	}
	n := 0
	fix := func(s *string) {
		if *s == "" {
			return
		}
		rep := rt.Corrector.Correct(*s)
		if rep.Changed() {
			n += len(rep.Corrections)
			*s = rep.Output
		}
	}
	for i := range rec.Goals {
		fix(&rec.Goals[i].HandwrittenText)
	}
	for _, box := range rec.Boxes {
		if box == nil {
			continue
		}
		for i := range box.Items {
			fix(&box.Items[i].HandwrittenText)
			fix(&box.Items[i].ReplacementText)
		}
	}
	return n
}

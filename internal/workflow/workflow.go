// Package workflow orchestrates per-section processing: load image →
// analyze → parse → plan → mutate → persist, built as a state graph and
// executed once per section in document order. A failed section is
// reported and skipped; the run continues.
package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute processes every registered section against the shared document,
// strictly sequentially, and aggregates per-section reports. The mutated
// document is NOT saved here; persistence of the document itself is the
// caller's final step so a crashed run never leaves a half-written file.
func Execute(ctx context.Context, rt *Runtime) (*RunResult, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	result := &RunResult{RunID: rt.Trail.RunID()}
	for _, desc := range rt.Registry.All() {
		started := time.Now()

		initial := state.New(nil)
		initial = initial.Set(KeySection, sectionState{Desc: desc, Stage: StagePending})

		final, err := graph.Execute(ctx, initial)
		elapsed := time.Since(started)

		if err != nil {
			rt.Logger.WarnContext(ctx, "section failed",
				"section", desc.Name,
				"error", err)
			result.Reports = append(result.Reports, failedReport(desc.Name, elapsed, err))
			continue
		}

		ss, err := extractSection(final)
		if err != nil {
			result.Reports = append(result.Reports, failedReport(desc.Name, elapsed, err))
			continue
		}
		result.Reports = append(result.Reports, ss.report(elapsed, ""))
	}

	result.CompletedAt = time.Now()
	return result, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("redline-section")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("load", LoadNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("analyze", AnalyzeNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("parse", ParseNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("plan", PlanNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("mutate", MutateNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("persist", PersistNode(rt)); err != nil {
		return nil, err
	}

	// load → analyze → parse → plan (unconditional)
	if err := graph.AddEdge("load", "analyze", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("analyze", "parse", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("parse", "plan", nil); err != nil {
		return nil, err
	}

	// plan → mutate (full run) or straight to persist (analysis-only)
	if err := graph.AddEdge("plan", "mutate", mutationEnabled(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("plan", "persist", state.Not(mutationEnabled(rt))); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("mutate", "persist", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("load"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("persist"); err != nil {
		return nil, err
	}

	return graph, nil
}

func mutationEnabled(rt *Runtime) func(state.State) bool {
	return func(s state.State) bool {
		return !rt.AnalyzeOnly
	}
}

func failedReport(section string, elapsed time.Duration, err error) SectionReport {
	return SectionReport{
		Section: section,
		Stage:   StageFailed,
		Status:  StatusFailed,
		Error:   err.Error(),
		Elapsed: elapsed,
	}
}

package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/VoxDroid/relgate/internal/executor"
)

// StepResult pairs a step with its failure, if any.
type StepResult struct {
	Step Step
	Err  error
}

// Passed reports whether the step succeeded.
func (r StepResult) Passed() bool { return r.Err == nil }

// Runner executes pipeline steps in order via the executor.
type Runner struct {
	Config Config
	Exec   executor.Runner
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// RunStep executes a single named step.
func (r *Runner) RunStep(ctx context.Context, name string) error {
	step, ok := r.Config.Find(name)
	if !ok {
		return fmt.Errorf("unknown pipeline step: %s", name)
	}
	return r.runOne(ctx, step)
}

// RunAll executes every gating step in order, continuing past failures so the
// operator sees all findings in one pass. The bool is the aggregate result.
func (r *Runner) RunAll(ctx context.Context) ([]StepResult, bool) {
	results := make([]StepResult, 0, len(r.Config.Steps))
	passed := true
	for _, step := range r.Config.Steps {
		err := r.runOne(ctx, step)
		if err != nil {
			passed = false
		}
		results = append(results, StepResult{Step: step, Err: err})
	}
	return results, passed
}

// Run satisfies gate.Pipeline: the aggregate bool, with step details reported
// to the runner's writers along the way.
func (r *Runner) Run(ctx context.Context) (bool, error) {
	results, passed := r.RunAll(ctx)
	for _, res := range results {
		if res.Passed() {
			fmt.Fprintf(r.Stdout, "  ok   %s\n", res.Step.Name)
		} else {
			fmt.Fprintf(r.Stdout, "  FAIL %s: %v\n", res.Step.Name, res.Err)
		}
	}
	return passed, nil
}

func (r *Runner) runOne(ctx context.Context, step Step) error {
	if err := r.Exec.Execute(ctx, step.Command, r.Dir, r.Stdout, r.Stderr); err != nil {
		return fmt.Errorf("%s: %w", step.Name, err)
	}
	return nil
}

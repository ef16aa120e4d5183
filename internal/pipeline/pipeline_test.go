package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, job *Job) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, job *Job) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, job)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		if p := New(WithContinueOnError(true)); !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	expected := []string{"first", "second", "third"}
	names := p.StepNames()
	if len(names) != len(expected) {
		t.Fatalf("expected %d steps, got %d", len(expected), len(names))
	}
	for i, name := range names {
		if name != expected[i] {
			t.Errorf("step %d: got %q, expected %q", i, name, expected[i])
		}
	}
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order and records them", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New(WithLogger(quietLogger()))
		for _, name := range []string{"a", "b"} {
			p.AddStep(&mockStep{
				name: name,
				doFunc: func(_ context.Context, _ *Job) error {
					order = append(order, name)
					return nil
				},
			})
		}

		job := NewJob("page.html")
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 2 || order[0] != "a" || order[1] != "b" {
			t.Errorf("unexpected execution order: %v", order)
		}
		if len(job.Analysis.PerformedSteps) != 2 {
			t.Errorf("expected 2 performed steps, got %v", job.Analysis.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		errStep := errors.New("step failed")
		second := &mockStep{name: "second"}

		p := New(WithLogger(quietLogger()))
		p.AddStep(&mockStep{
			name:   "first",
			doFunc: func(_ context.Context, _ *Job) error { return errStep },
		})
		p.AddStep(second)

		job := NewJob("x")
		err := p.Execute(context.Background(), job)
		if !errors.Is(err, errStep) {
			t.Errorf("expected errStep, got %v", err)
		}
		if second.callCount != 0 {
			t.Error("second step should not run")
		}
		if !errors.Is(job.Analysis.Error, errStep) || job.Analysis.ErrorMessage != "step failed" {
			t.Errorf("error not recorded: %v", job.Analysis.Error)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		errFirst := errors.New("first")
		errSecond := errors.New("second")
		third := &mockStep{name: "third"}

		p := New(WithLogger(quietLogger()), WithContinueOnError(true))
		p.AddStep(&mockStep{name: "one", doFunc: func(_ context.Context, _ *Job) error { return errFirst }})
		p.AddStep(&mockStep{name: "two", doFunc: func(_ context.Context, _ *Job) error { return errSecond }})
		p.AddStep(third)

		job := NewJob("x")
		if err := p.Execute(context.Background(), job); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if third.callCount != 1 {
			t.Error("third step should run")
		}
		if !errors.Is(job.Analysis.Error, errFirst) {
			t.Errorf("expected first error to be kept, got %v", job.Analysis.Error)
		}
		if len(job.Analysis.PerformedSteps) != 1 || job.Analysis.PerformedSteps[0] != "third" {
			t.Errorf("unexpected performed steps: %v", job.Analysis.PerformedSteps)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New(WithLogger(quietLogger()))
		p.AddStep(step)

		job := NewJob("x")
		if err := p.Execute(ctx, job); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not run after cancellation")
		}
		if job.Analysis.ErrorMessage == "" {
			t.Error("cancellation should be recorded")
		}
	})

	t.Run("creates the analysis when missing", func(t *testing.T) {
		t.Parallel()

		job := &Job{Target: "x"}
		if err := New().Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Analysis == nil || job.Analysis.Target != "x" {
			t.Errorf("unexpected analysis: %+v", job.Analysis)
		}
	})
}

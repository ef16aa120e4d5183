package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/csprecommend/internal/dom"
	"github.com/nao1215/csprecommend/internal/model"
)

// Job is the state of one target while it moves through the pipeline.
type Job struct {
	// Target is the argument being analysed.
	Target string

	// Document is set by the load step.
	Document dom.Document

	// Analysis accumulates the results.
	Analysis *model.Analysis
}

// NewJob creates a Job with an empty Analysis for target.
func NewJob(target string) *Job {
	return &Job{
		Target:   target,
		Analysis: model.NewAnalysis(target),
	}
}

// Step is one stage of the pipeline.
//
// Design decision: We use an interface rather than a plain function type
// because:
// 1. Steps carry their own dependencies (a Loader, a Collector, a Detector)
//    and are built once per pipeline
// 2. Name gives logs and Analysis.PerformedSteps a stable identifier
// 3. Tests can substitute a step without touching the others
type Step interface {
	// Do executes the step. It receives the context for cancellation and
	// the job to read and modify. A returned error stops the pipeline
	// (unless WithContinueOnError is set) and is recorded in the Analysis;
	// findings that do not prevent the next step belong in the Analysis
	// instead.
	Do(ctx context.Context, job *Job) error

	// Name identifies the step in logs and in Analysis.PerformedSteps.
	Name() string
}

// Pipeline executes steps in order.
//
// A Pipeline is built for one target and is not safe for concurrent use;
// BatchProcessor creates one per target through its factory. Steps run
// strictly in the order they were added because each relies on what the
// previous one put into the Job: the collect step needs the document the
// load step produced.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger receives step start, completion and failure records.
	logger *slog.Logger

	// continueOnError keeps executing after a failed step.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError makes the pipeline run the remaining steps after a
// failure. The first error is still recorded in the Analysis.
//
// Design decision: The default is to stop, because every step after a failed
// load would run on a nil document. The option exists for custom pipelines
// whose steps are independent of each other.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step against job. Cancellation is checked before each
// step. It returns the first step error unless continueOnError is set.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	if job.Analysis == nil {
		job.Analysis = model.NewAnalysis(job.Target)
	}
	a := job.Analysis
	start := time.Now()
	defer func() {
		a.Duration = time.Since(start)
	}()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"target", job.Target,
				"reason", err,
			)
			a.SetError(err)
			return err
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"target", job.Target,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"target", job.Target,
				"error", err,
			)
			if a.Error == nil {
				a.SetError(err)
			}
			if !p.continueOnError {
				return err
			}
			continue
		}

		a.PerformedSteps = append(a.PerformedSteps, step.Name())
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

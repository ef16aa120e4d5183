package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/csprecommend/internal/model"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency is the number of targets analysed at once.
const defaultConcurrency = 4

// BatchProcessor analyses several targets concurrently.
type BatchProcessor struct {
	// pipelineFactory builds a fresh pipeline for each target.
	pipelineFactory func(target string) *Pipeline

	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the number of concurrent analyses. Non-positive values
// keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor.
func NewBatchProcessor(pipelineFactory func(target string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     defaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch analyses targets and returns the analyses in target order.
// A failing target does not stop the others; its error is recorded in its
// Analysis. The returned error is only set on cancellation, in which case
// targets that never started have a nil entry.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.Analysis, error) {
	results := make([]*model.Analysis, len(targets))
	err := bp.ProcessBatchWithCallback(ctx, targets, func(a *model.Analysis, index int) {
		results[index] = a
	})
	return results, err
}

// ProcessBatchWithCallback analyses targets and calls callback as each one
// completes. callback runs on the worker goroutine and must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(a *model.Analysis, index int),
) error {
	bp.logger.Debug("starting batch",
		"targets", len(targets),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			job := NewJob(target)
			if err := bp.pipelineFactory(target).Execute(ctx, job); err != nil {
				bp.logger.Warn("analysis failed",
					"target", target,
					"error", err,
				)
			}
			callback(job.Analysis, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Debug("batch complete",
		"targets", len(targets),
		"elapsed", time.Since(start),
	)
	return err
}

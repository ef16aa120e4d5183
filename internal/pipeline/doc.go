// Package pipeline runs the analysis of a target as a sequence of steps.
//
// A Job carries the target, the loaded dom.Document and the model.Analysis
// through the steps: LoadStep obtains the document, CollectStep records
// resource origins and InlineStep records inline violations. Each step sees
// what the previous ones produced; the Analysis is the only output.
//
// Design decision: We keep the analysis as a pipeline of steps instead of one
// function that loads and inspects a page because:
// 1. The same collect and inline steps run on documents from files, stdin,
//    plain HTTP and headless Chrome; only the load step differs
// 2. Every step is logged and recorded in Analysis.PerformedSteps the same way
// 3. Cancellation is checked between steps, so Ctrl+C stops a slow batch
//    between pages rather than mid-write
//
// BatchProcessor analyses several targets concurrently with errgroup, one
// fresh Pipeline and Job per target.
//
// # Usage
//
//	p := pipeline.DefaultPipeline(loader,
//	    []pipeline.Option{pipeline.WithLogger(logger)},
//	    pipeline.WithPipelineURIMode(uri.ModeLoose),
//	)
//	job := pipeline.NewJob("https://example.com/")
//	if err := p.Execute(ctx, job); err != nil {
//	    // job.Analysis.Error holds the same error
//	}
//
// Batches take a factory so that no state is shared between targets:
//
//	bp := pipeline.NewBatchProcessor(func(target string) *pipeline.Pipeline {
//	    return pipeline.DefaultPipeline(loader, nil)
//	}, pipeline.WithConcurrency(4))
//	analyses, err := bp.ProcessBatch(ctx, targets)
package pipeline

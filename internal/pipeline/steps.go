package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/csprecommend/internal/collector"
	"github.com/nao1215/csprecommend/internal/dom"
	"github.com/nao1215/csprecommend/internal/inline"
	"github.com/nao1215/csprecommend/internal/uri"
)

// ErrNoDocument is returned by analysis steps that run before a document was
// loaded.
var ErrNoDocument = errors.New("no document loaded")

// Loader obtains the document for a target.
type Loader interface {
	Load(ctx context.Context, target string) (dom.Document, error)
}

// LoadStep loads the target document.
type LoadStep struct {
	loader Loader
	logger *slog.Logger
}

// NewLoadStep creates a LoadStep.
func NewLoadStep(loader Loader, logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{loader: loader, logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do loads job.Target into job.Document.
func (s *LoadStep) Do(ctx context.Context, job *Job) error {
	doc, err := s.loader.Load(ctx, job.Target)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", job.Target, err)
	}
	job.Document = doc
	if u := doc.URL(); u != nil {
		job.Analysis.DocumentURL = u.String()
	}
	s.logger.Debug("document loaded",
		"target", job.Target,
		"url", job.Analysis.DocumentURL,
	)
	return nil
}

// CollectStep records the resource origins of the document.
type CollectStep struct {
	collector *collector.Collector
}

// NewCollectStep creates a CollectStep.
func NewCollectStep(c *collector.Collector) *CollectStep {
	return &CollectStep{collector: c}
}

// Name returns the step name.
func (s *CollectStep) Name() string {
	return "collect"
}

// Do runs the collector.
func (s *CollectStep) Do(ctx context.Context, job *Job) error {
	if job.Document == nil {
		return ErrNoDocument
	}
	return s.collector.Collect(ctx, job.Document, job.Analysis)
}

// InlineStep records inline violations.
type InlineStep struct {
	detector *inline.Detector
}

// NewInlineStep creates an InlineStep.
func NewInlineStep(d *inline.Detector) *InlineStep {
	return &InlineStep{detector: d}
}

// Name returns the step name.
func (s *InlineStep) Name() string {
	return "inline"
}

// Do runs the detector.
func (s *InlineStep) Do(ctx context.Context, job *Job) error {
	if job.Document == nil {
		return ErrNoDocument
	}
	return s.detector.Detect(ctx, job.Document, job.Analysis)
}

// DefaultPipelineConfig holds the settings of DefaultPipeline.
type DefaultPipelineConfig struct {
	// URIMode selects the preferred URI grammar.
	URIMode uri.Mode

	// SelfHost is an extra host reported as 'self'.
	SelfHost string

	// SkipStyleSheets disables @font-face collection.
	SkipStyleSheets bool

	// SkipInline disables inline violation detection.
	SkipInline bool
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineURIMode sets the URI grammar.
func WithPipelineURIMode(mode uri.Mode) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.URIMode = mode
	}
}

// WithPipelineSelfHost sets an extra self host.
func WithPipelineSelfHost(host string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SelfHost = host
	}
}

// WithPipelineSkipStyleSheets disables stylesheet inspection.
func WithPipelineSkipStyleSheets(skip bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SkipStyleSheets = skip
	}
}

// WithPipelineSkipInline disables inline violation detection.
func WithPipelineSkipInline(skip bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SkipInline = skip
	}
}

// DefaultPipeline creates the load, collect and inline pipeline.
func DefaultPipeline(loader Loader, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{URIMode: uri.ModeStrict}
	for _, opt := range configOpts {
		opt(cfg)
	}

	collectorOpts := []collector.Option{
		collector.WithLogger(p.logger),
		collector.WithURIParser(uri.NewParser(cfg.URIMode, uri.WithLogger(p.logger))),
	}
	if cfg.SelfHost != "" {
		collectorOpts = append(collectorOpts, collector.WithSelfHost(cfg.SelfHost))
	}
	if cfg.SkipStyleSheets {
		collectorOpts = append(collectorOpts, collector.WithoutStyleSheets())
	}

	p.AddSteps(
		NewLoadStep(loader, p.logger),
		NewCollectStep(collector.New(collectorOpts...)),
	)
	if !cfg.SkipInline {
		p.AddStep(NewInlineStep(inline.New(inline.WithLogger(p.logger))))
	}
	return p
}

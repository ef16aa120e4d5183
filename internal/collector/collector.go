package collector

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nao1215/csprecommend/internal/dom"
	"github.com/nao1215/csprecommend/internal/model"
	"github.com/nao1215/csprecommend/internal/uri"
)

// Collector records the origins a document loads resources from.
//
// A Collector holds no per-document state and may be shared by concurrent
// pipelines. Everything it learns goes into the model.Analysis passed to
// Collect.
//
// Design decision: Collect does not fail on malformed markup or unreadable
// stylesheets. A recommendation built from the readable part of a page is
// more useful than none, so such problems are logged and counted
// (Analysis.SkippedStylesheets) and only cancellation is returned.
type Collector struct {
	// parser splits references into components. Its mode decides whether
	// scheme-less values like "cdn.example.com/a.js" name a host.
	parser *uri.Parser

	// logger receives skipped references and unreadable stylesheets at
	// debug level, unexpected stylesheet failures at warn level.
	logger *slog.Logger

	// selfHost is reported as 'self' in addition to the document's host,
	// for pages analysed from a file or a staging host.
	selfHost string

	// skipStyleSheets disables @font-face collection, which is the only
	// part of Collect that may read linked stylesheets over the network.
	skipStyleSheets bool
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// WithURIParser sets the parser used for references.
func WithURIParser(p *uri.Parser) Option {
	return func(c *Collector) {
		c.parser = p
	}
}

// WithSelfHost adds a host that resolves to 'self' in addition to the
// document's own host.
func WithSelfHost(host string) Option {
	return func(c *Collector) {
		c.selfHost = host
	}
}

// WithoutStyleSheets disables @font-face collection.
func WithoutStyleSheets() Option {
	return func(c *Collector) {
		c.skipStyleSheets = true
	}
}

// New creates a Collector.
func New(opts ...Option) *Collector {
	c := &Collector{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.parser == nil {
		c.parser = uri.NewParser(uri.ModeStrict, uri.WithLogger(c.logger))
	}
	return c
}

// Collect fills the origin sets of a from doc. Unreadable stylesheets are
// skipped; the only error returned is a cancelled context.
func (c *Collector) Collect(ctx context.Context, doc dom.Document, a *model.Analysis) error {
	resolver := c.resolver(doc, a)

	for _, category := range model.Categories {
		if category == model.CategoryFont {
			if c.skipStyleSheets {
				continue
			}
			if err := c.collectFonts(ctx, doc, resolver, a); err != nil {
				return err
			}
			continue
		}
		for _, r := range elementRules {
			if r.category == category {
				c.collectRule(doc, r, resolver, a)
			}
		}
	}
	return nil
}

func (c *Collector) resolver(doc dom.Document, a *model.Analysis) *Resolver {
	var docHost string
	if u := doc.URL(); u != nil {
		if a.DocumentURL == "" {
			a.DocumentURL = u.String()
		}
		docHost = strings.ToLower(u.Hostname())
	}

	switch {
	case c.selfHost != "":
		a.SelfHost = strings.ToLower(c.selfHost)
	case a.SelfHost == "":
		a.SelfHost = docHost
	}
	return NewResolver(c.parser, docHost, a.SelfHost)
}

func (c *Collector) collectRule(doc dom.Document, r rule, resolver *Resolver, a *model.Analysis) {
	for _, e := range doc.ElementsByTagName(r.tags...) {
		for _, ref := range r.references(e) {
			parts := resolver.Parse(ref)
			if !r.allows(parts.Protocol) {
				c.logger.Debug("reference protocol not collected",
					"element", e.TagName(),
					"attribute", r.attr,
					"protocol", parts.Protocol,
				)
				continue
			}
			if hasMalformedHost(parts) {
				c.logger.Debug("reference host is malformed, skipping",
					"element", e.TagName(),
					"attribute", r.attr,
					"host", parts.Host,
				)
				continue
			}
			a.AddSource(r.category, resolver.OriginOf(parts))
		}
	}
}

func (c *Collector) collectFonts(ctx context.Context, doc dom.Document, resolver *Resolver, a *model.Analysis) error {
	for _, sheet := range doc.StyleSheets() {
		if err := ctx.Err(); err != nil {
			return err
		}

		rules, err := sheet.Rules(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			a.SkippedStylesheets++
			level := slog.LevelDebug
			if !errors.Is(err, dom.ErrCrossOrigin) && !errors.Is(err, dom.ErrRulesUnavailable) {
				level = slog.LevelWarn
			}
			c.logger.Log(ctx, level, "stylesheet rules not readable, skipping",
				"href", sheet.Href(),
				"error", err,
			)
			continue
		}

		for _, ref := range fontFaceSources(rules) {
			parts := resolver.Parse(ref)
			if hasMalformedHost(parts) {
				c.logger.Debug("font source host is malformed, skipping",
					"href", sheet.Href(),
					"host", parts.Host,
				)
				continue
			}
			a.AddSource(model.CategoryFont, resolver.OriginOf(parts))
		}
	}
	return nil
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/csprecommend/internal/model"
	"github.com/nao1215/csprecommend/internal/policy"
)

// SimpleWriter writes the plain-text recommendation.
type SimpleWriter struct {
	baseWriter

	// showTarget prefixes each analysis with its target, for batch runs.
	showTarget bool

	// verbose appends the header value, meta tag and skipped stylesheet count.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowTarget prefixes every recommendation with a "== target ==" line.
func WithShowTarget(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showTarget = show
	}
}

// WithVerbose appends deployment snippets after the recommendation.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer. A failed analysis is written as one error line.
func (w *SimpleWriter) Write(a *model.Analysis) (int, error) {
	var b strings.Builder

	if w.showTarget {
		fmt.Fprintf(&b, "== %s ==\n", a.Target)
	}

	if a.ErrorMessage != "" {
		fmt.Fprintf(&b, "Analysis failed: %s\n", a.ErrorMessage)
		if w.showTarget {
			b.WriteString("\n")
		}
		return io.WriteString(w.output, b.String())
	}

	b.WriteString(policy.FormatAnalysis(a))
	b.WriteString("\n")

	if w.verbose {
		header := policy.Header(a.Sources)
		b.WriteString("\nContent-Security-Policy: ")
		b.WriteString(header)
		b.WriteString("\n")
		b.WriteString(policy.MetaTag(header))
		b.WriteString("\n")
		if a.SkippedStylesheets > 0 {
			fmt.Fprintf(&b, "Unreadable stylesheets skipped: %d\n", a.SkippedStylesheets)
		}
	}

	if w.showTarget {
		b.WriteString("\n")
	}
	return io.WriteString(w.output, b.String())
}

package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/csprecommend/internal/model"
	"github.com/nao1215/csprecommend/internal/policy"
)

// JSONReport is the JSON document written for one analysis.
type JSONReport struct {
	Version            string             `json:"version,omitempty"`
	Target             string             `json:"target"`
	DocumentURL        string             `json:"document_url,omitempty"`
	SelfHost           string             `json:"self_host,omitempty"`
	DateAnalyzed       time.Time          `json:"date_analyzed"`
	Recommendation     string             `json:"recommendation,omitempty"`
	Directives         []policy.Directive `json:"directives,omitempty"`
	Header             string             `json:"header,omitempty"`
	MetaTag            string             `json:"meta_tag,omitempty"`
	Violations         []model.Violation  `json:"violations"`
	SkippedStylesheets int                `json:"skipped_stylesheets"`
	PerformedSteps     []string           `json:"performed_steps,omitempty"`
	DurationMS         int64              `json:"duration_ms"`
	Error              string             `json:"error,omitempty"`
}

// NewJSONReport builds the report of a. Policy fields are left empty when
// the analysis failed.
func NewJSONReport(a *model.Analysis, version string) *JSONReport {
	r := &JSONReport{
		Version:            version,
		Target:             a.Target,
		DocumentURL:        a.DocumentURL,
		SelfHost:           a.SelfHost,
		DateAnalyzed:       a.DateAnalyzed,
		Violations:         a.Violations,
		SkippedStylesheets: a.SkippedStylesheets,
		PerformedSteps:     a.PerformedSteps,
		DurationMS:         a.Duration.Milliseconds(),
		Error:              a.ErrorMessage,
	}
	if r.Violations == nil {
		r.Violations = []model.Violation{}
	}
	if a.ErrorMessage != "" {
		return r
	}

	r.Recommendation = policy.FormatAnalysis(a)
	r.Directives = policy.All(a.Sources)
	r.Header = policy.Header(a.Sources)
	r.MetaTag = policy.MetaTag(r.Header)
	return r
}

// JSONWriter writes a JSONReport per analysis.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string

	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the program version in every report.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *JSONWriter) Write(a *model.Analysis) (int, error) {
	return w.writeJSON(NewJSONReport(a, w.version))
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

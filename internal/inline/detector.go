package inline

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/nao1215/csprecommend/internal/dom"
	"github.com/nao1215/csprecommend/internal/model"
)

// scriptPreviewLimit is the number of characters of a script body quoted in
// a violation.
const scriptPreviewLimit = 100

var whitespacePattern = regexp.MustCompile(`[\s\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]+`)

// Detector records inline violations.
type Detector struct {
	logger *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Detect appends the violations of doc to a in document order.
func (d *Detector) Detect(ctx context.Context, doc dom.Document, a *model.Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	found := Violations(doc)
	for _, v := range found {
		a.AddViolation(v)
	}
	d.logger.Debug("inline violations detected", "count", len(found))
	return nil
}

// Violations returns the inline violations of doc in document order. For
// each element, handler attributes come first in attribute order, then the
// script body.
func Violations(doc dom.Document) []model.Violation {
	var out []model.Violation
	for _, e := range doc.Elements() {
		attrs := e.Attributes()
		for _, attr := range attrs {
			if !IsEventHandler(attr.Name) {
				continue
			}
			out = append(out, model.Violation{
				Kind:        model.ViolationEventHandler,
				Element:     e.TagName(),
				Attribute:   attr.Name,
				Description: "event handling attribute: " + attr.Name + " on element " + describeElement(e.TagName(), attrs),
			})
		}

		if e.TagName() != "SCRIPT" {
			continue
		}
		if text := e.Text(); text != "" {
			out = append(out, model.Violation{
				Kind:        model.ViolationInlineScript,
				Element:     e.TagName(),
				Description: "internal script node: " + preview(text),
			})
		}
	}
	return out
}

// IsEventHandler reports whether an attribute name is an on* handler.
func IsEventHandler(name string) bool {
	return len(name) > 2 && strings.EqualFold(name[:2], "on")
}

// describeElement renders <TAG a="v" ...> with whitespace runs in values
// collapsed to one space.
func describeElement(tag string, attrs []dom.Attribute) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(whitespacePattern.ReplaceAllString(a.Value, " "))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	return b.String()
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= scriptPreviewLimit {
		return text
	}
	return string(runes[:scriptPreviewLimit]) + " ... "
}

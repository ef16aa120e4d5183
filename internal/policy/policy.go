package policy

import (
	"fmt"
	"html"
	"strings"

	"github.com/nao1215/csprecommend/internal/model"
)

const (
	// Preamble is the first line of a recommendation.
	Preamble = "Recommended Policy:"

	// BaseDirective is always present and allows the document's own origin.
	BaseDirective = "default-src 'self'"
)

// Directive is one policy clause.
type Directive struct {
	Name    string   `json:"name"`
	Sources []string `json:"sources"`
}

// String renders the clause without the trailing semicolon.
func (d Directive) String() string {
	return d.Name + " " + strings.Join(d.Sources, " ")
}

// Directives returns one Directive per non-empty category, in model.Categories
// order.
func Directives(sources map[model.Category]*model.OriginSet) []Directive {
	var out []Directive
	for _, c := range model.Categories {
		set := sources[c]
		if set.Len() == 0 {
			continue
		}
		out = append(out, Directive{Name: c.Directive(), Sources: set.Values()})
	}
	return out
}

// All returns the default-src directive followed by Directives(sources).
func All(sources map[model.Category]*model.OriginSet) []Directive {
	base := Directive{Name: "default-src", Sources: []string{model.OriginSelf}}
	return append([]Directive{base}, Directives(sources)...)
}

// Format renders the recommendation text.
func Format(sources map[model.Category]*model.OriginSet, violations []model.Violation) string {
	var b strings.Builder
	b.WriteString(Preamble)
	b.WriteString("\n")
	b.WriteString(BaseDirective)
	b.WriteString(";")
	for _, d := range Directives(sources) {
		b.WriteString("\n")
		b.WriteString(d.String())
		b.WriteString(";")
	}

	if len(violations) > 0 {
		b.WriteString("\n\n")
		b.WriteString(ViolationHeading(len(violations)))
		for i, v := range violations {
			fmt.Fprintf(&b, "\n%d: %s", i+1, v.Description)
		}
	}
	return b.String()
}

// FormatAnalysis renders the recommendation for a.
func FormatAnalysis(a *model.Analysis) string {
	return Format(a.Sources, a.Violations)
}

// ViolationHeading returns the heading of the violation section.
func ViolationHeading(n int) string {
	if n == 1 {
		return "Inline Script Violation:"
	}
	return "Inline Script Violations:"
}

// Header renders the policy as a single Content-Security-Policy header value.
func Header(sources map[model.Category]*model.OriginSet) string {
	parts := []string{BaseDirective}
	for _, d := range Directives(sources) {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, "; ")
}

// MetaTag wraps a header value in a <meta http-equiv> element.
func MetaTag(header string) string {
	return fmt.Sprintf(`<meta http-equiv="Content-Security-Policy" content="%s">`, html.EscapeString(header))
}

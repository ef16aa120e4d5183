package model

import (
	"time"
)

// Analysis holds the result of analysing one document.
type Analysis struct {
	// Target is the argument the analysis was started for: a URL, a file
	// path or "-" for stdin.
	Target string `json:"target"`

	// DocumentURL is the location of the loaded document after redirects.
	DocumentURL string `json:"document_url,omitempty"`

	// SelfHost is the host treated as 'self'. Empty means only relative
	// references resolve to 'self'.
	SelfHost string `json:"self_host,omitempty"`

	DateAnalyzed time.Time `json:"date_analyzed"`

	// Sources maps every category to its origin set. All categories are
	// present after NewAnalysis.
	Sources map[Category]*OriginSet `json:"sources"`

	// Violations in document order.
	Violations []Violation `json:"violations"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// SkippedStylesheets counts stylesheets whose rules could not be read.
	SkippedStylesheets int `json:"skipped_stylesheets,omitempty"`

	Duration time.Duration `json:"duration_ns"`

	// Error is the first fatal error of the run.
	Error error `json:"-"`

	// ErrorMessage is Error as a string for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewAnalysis creates an Analysis with an empty set for every category.
func NewAnalysis(target string) *Analysis {
	a := &Analysis{
		Target:       target,
		DateAnalyzed: time.Now(),
		Sources:      make(map[Category]*OriginSet, len(Categories)),
		Violations:   make([]Violation, 0),
	}
	for _, c := range Categories {
		a.Sources[c] = NewOriginSet()
	}
	return a
}

// AddSource records token under category. Unknown categories are ignored.
func (a *Analysis) AddSource(c Category, token string) {
	if !c.Valid() {
		return
	}
	set, ok := a.Sources[c]
	if !ok {
		set = NewOriginSet()
		a.Sources[c] = set
	}
	set.Add(token)
}

// Source returns the origin set of category. It never returns nil.
func (a *Analysis) Source(c Category) *OriginSet {
	if set, ok := a.Sources[c]; ok && set != nil {
		return set
	}
	return NewOriginSet()
}

// AddViolation appends v.
func (a *Analysis) AddViolation(v Violation) {
	a.Violations = append(a.Violations, v)
}

// SetError records err as the analysis error.
func (a *Analysis) SetError(err error) {
	if err == nil {
		return
	}
	a.Error = err
	a.ErrorMessage = err.Error()
}

// HasSources reports whether any category collected a token.
func (a *Analysis) HasSources() bool {
	for _, set := range a.Sources {
		if set.Len() > 0 {
			return true
		}
	}
	return false
}

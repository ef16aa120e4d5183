package model

import (
	"errors"
	"testing"
)

// TestNewAnalysis tests that every category starts empty.
func TestNewAnalysis(t *testing.T) {
	t.Parallel()

	a := NewAnalysis("https://example.com/")
	if a.Target != "https://example.com/" {
		t.Errorf("Target = %q", a.Target)
	}
	if a.DateAnalyzed.IsZero() {
		t.Error("DateAnalyzed should be set")
	}
	for _, c := range Categories {
		set, ok := a.Sources[c]
		if !ok || set == nil {
			t.Errorf("category %q missing", c)
			continue
		}
		if set.Len() != 0 {
			t.Errorf("category %q should start empty", c)
		}
	}
	if a.HasSources() {
		t.Error("new analysis should have no sources")
	}
	if a.Violations == nil {
		t.Error("Violations should be non-nil")
	}
}

// TestAnalysisAddSource tests recording tokens per category.
func TestAnalysisAddSource(t *testing.T) {
	t.Parallel()

	a := NewAnalysis("page.html")
	a.AddSource(CategoryImages, OriginSelf)
	a.AddSource(CategoryImages, OriginSelf)
	a.AddSource(CategoryScript, "cdn.example.com")
	a.AddSource(Category("bogus"), "ignored.example")

	if got := a.Source(CategoryImages).Len(); got != 1 {
		t.Errorf("images Len() = %d, expected 1", got)
	}
	if !a.Source(CategoryScript).Contains("cdn.example.com") {
		t.Error("script source missing")
	}
	if _, ok := a.Sources[Category("bogus")]; ok {
		t.Error("unknown category should not be recorded")
	}
	if !a.HasSources() {
		t.Error("HasSources() should be true")
	}
	if a.Source(Category("bogus")) == nil {
		t.Error("Source should never return nil")
	}
}

// TestAnalysisViolationsAndError tests violation order and error recording.
func TestAnalysisViolationsAndError(t *testing.T) {
	t.Parallel()

	a := NewAnalysis("-")
	a.AddViolation(Violation{Kind: ViolationEventHandler, Element: "BODY", Attribute: "onload"})
	a.AddViolation(Violation{Kind: ViolationInlineScript, Element: "SCRIPT"})

	if len(a.Violations) != 2 || a.Violations[0].Attribute != "onload" {
		t.Errorf("unexpected violations: %+v", a.Violations)
	}

	a.SetError(nil)
	if a.Error != nil {
		t.Error("SetError(nil) should not set an error")
	}

	errBoom := errors.New("boom")
	a.SetError(errBoom)
	if !errors.Is(a.Error, errBoom) || a.ErrorMessage != "boom" {
		t.Errorf("unexpected error state: %v %q", a.Error, a.ErrorMessage)
	}
}

package dom

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

type inlineSheet struct {
	owner Element
	text  string
}

func (s *inlineSheet) Href() string { return "" }
func (s *inlineSheet) Owner() Element { return s.owner }

func (s *inlineSheet) Rules(_ context.Context) ([]*css.Rule, error) {
	return ParseRules(s.text)
}

// linkedSheet is a <link rel="stylesheet">. Its rules are loaded on first
// access and cached, including a failure.
//
// Design decision: Sheets from another origin are refused without a request,
// even when a loader is available. A page script cannot read the cssRules of
// such a sheet either, and the loader would send the document's cookie and
// headers along to a third party.
type linkedSheet struct {
	// doc supplies the document location and the loader.
	doc *HTMLDocument

	// owner is the <link> element.
	owner Element

	// href is the sheet URL as resolved by the href property.
	href string

	loaded bool
	rules  []*css.Rule
	err    error
}

func newLinkedSheet(doc *HTMLDocument, owner Element, href string) *linkedSheet {
	return &linkedSheet{doc: doc, owner: owner, href: href}
}

func (s *linkedSheet) Href() string { return s.href }
func (s *linkedSheet) Owner() Element { return s.owner }

func (s *linkedSheet) Rules(ctx context.Context) ([]*css.Rule, error) {
	if !s.loaded {
		s.rules, s.err = s.load(ctx)
		s.loaded = true
	}
	return s.rules, s.err
}

func (s *linkedSheet) load(ctx context.Context) ([]*css.Rule, error) {
	u, err := url.Parse(s.href)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: unresolvable href %q", ErrRulesUnavailable, s.href)
	}
	if !SameOrigin(s.doc.location, u) {
		return nil, fmt.Errorf("%w: %s", ErrCrossOrigin, s.href)
	}
	if s.doc.loader == nil {
		return nil, fmt.Errorf("%w: no loader for %s", ErrRulesUnavailable, s.href)
	}
	text, err := s.doc.loader.LoadStyleSheet(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRulesUnavailable, err)
	}
	return ParseRules(text)
}

// ParseRules parses CSS text into its top-level rules.
//
// Design decision: We use douceur rather than a tokenizer of our own because:
// 1. It returns nested rules, so @font-face inside @media or @supports is
//    reachable without a second pass
// 2. Declarations come back already split into property and value, and the
//    value keeps its quotes and url() wrapper for the collector to unwrap
// 3. It is built on gorilla/css, which tolerates the malformed CSS found on
//    real pages
//
// A sheet douceur cannot parse is reported with ErrRulesUnavailable and the
// collector skips it, as it would skip an unreadable cross-origin sheet.
func ParseRules(text string) ([]*css.Rule, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRulesUnavailable, err)
	}
	return sheet.Rules, nil
}

// SameOrigin reports whether a and b share scheme, host and port. Two file
// URLs are treated as the same origin.
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	if !strings.EqualFold(a.Scheme, b.Scheme) {
		return false
	}
	if strings.EqualFold(a.Scheme, "file") {
		return true
	}
	return strings.EqualFold(a.Hostname(), b.Hostname()) && effectivePort(a) == effectivePort(b)
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "ws":
		return "80"
	case "https", "wss":
		return "443"
	case "ftp":
		return "21"
	}
	return ""
}

package dom

import (
	"context"
	"net/url"

	"github.com/aymerick/douceur/css"
)

// Attribute is one attribute of an element in source order.
type Attribute struct {
	Name  string
	Value string
}

// Element is a read-only view of one element node.
type Element interface {
	// TagName returns the name as nodeName reports it: upper-case for HTML
	// elements, unchanged for foreign (SVG, MathML) elements.
	TagName() string

	// LocalName returns the lower-case tag name used for matching.
	LocalName() string

	// Attr returns the raw attribute value like getAttribute.
	Attr(name string) (string, bool)

	// Attributes returns every attribute in source order.
	Attributes() []Attribute

	// Property returns a URL attribute the way the DOM property reads it:
	// resolved against the document base URL. Empty when the attribute is
	// absent or empty.
	Property(name string) string

	// Text returns the concatenated text content.
	Text() string

	// Parent returns the parent element, or nil at the root.
	Parent() Element
}

// StyleSheet is one stylesheet attached to the document.
type StyleSheet interface {
	// Href is the resolved location of a linked sheet, empty for <style>.
	Href() string

	// Owner is the <style> or <link> element that attached the sheet.
	Owner() Element

	// Rules returns the top-level rules. It fails with ErrCrossOrigin or
	// ErrRulesUnavailable when the rules cannot be read.
	Rules(ctx context.Context) ([]*css.Rule, error)
}

// Document is a read-only view of a loaded document.
type Document interface {
	// URL is the document location. It may be nil for anonymous input.
	URL() *url.URL

	// Elements returns every element in document order.
	Elements() []Element

	// ElementsByTagName returns the elements whose local name is one of
	// names, in document order.
	ElementsByTagName(names ...string) []Element

	// StyleSheets returns the <style> and <link rel=stylesheet> sheets in
	// document order.
	StyleSheets() []StyleSheet
}

// StyleSheetLoader fetches the text of a linked stylesheet.
type StyleSheetLoader interface {
	LoadStyleSheet(ctx context.Context, u *url.URL) (string, error)
}

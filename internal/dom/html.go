package dom

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HTMLDocument is a Document backed by a parsed HTML tree.
type HTMLDocument struct {
	doc      *goquery.Document
	location *url.URL
	base     *url.URL
	loader   StyleSheetLoader
	elements []Element
}

// Option configures an HTMLDocument.
type Option func(*HTMLDocument)

// WithStyleSheetLoader sets the loader used to read same-origin linked
// stylesheets. Without a loader linked sheets report ErrRulesUnavailable.
func WithStyleSheetLoader(loader StyleSheetLoader) Option {
	return func(d *HTMLDocument) {
		d.loader = loader
	}
}

// Parse reads HTML from r. location is the document URL used to resolve
// relative references; it may be empty.
func Parse(r io.Reader, location string, opts ...Option) (*HTMLDocument, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return NewHTMLDocument(doc, location, opts...)
}

// NewHTMLDocument wraps an already parsed goquery document.
func NewHTMLDocument(doc *goquery.Document, location string, opts ...Option) (*HTMLDocument, error) {
	d := &HTMLDocument{doc: doc}
	for _, opt := range opts {
		opt(d)
	}

	if location != "" {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid document location %q: %w", location, err)
		}
		d.location = u
	}
	d.base = d.location

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		d.elements = append(d.elements, &element{node: s.Get(0), doc: d})
	})

	// Only the first <base href> counts.
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			switch {
			case d.location != nil:
				d.base = d.location.ResolveReference(ref)
			case ref.IsAbs():
				d.base = ref
			}
		}
	}
	return d, nil
}

// URL implements Document.
func (d *HTMLDocument) URL() *url.URL {
	return d.location
}

// BaseURL returns the URL relative references resolve against.
func (d *HTMLDocument) BaseURL() *url.URL {
	return d.base
}

// Elements implements Document.
func (d *HTMLDocument) Elements() []Element {
	out := make([]Element, len(d.elements))
	copy(out, d.elements)
	return out
}

// ElementsByTagName implements Document.
func (d *HTMLDocument) ElementsByTagName(names ...string) []Element {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[strings.ToLower(n)] = struct{}{}
	}
	var out []Element
	for _, e := range d.elements {
		if _, ok := want[e.LocalName()]; ok {
			out = append(out, e)
		}
	}
	return out
}

// StyleSheets implements Document.
func (d *HTMLDocument) StyleSheets() []StyleSheet {
	var sheets []StyleSheet
	for _, e := range d.elements {
		switch e.LocalName() {
		case "style":
			sheets = append(sheets, &inlineSheet{owner: e, text: e.Text()})
		case "link":
			rel, _ := e.Attr("rel")
			if !HasToken(rel, "stylesheet") {
				continue
			}
			href := e.Property("href")
			if href == "" {
				continue
			}
			sheets = append(sheets, newLinkedSheet(d, e, href))
		}
	}
	return sheets
}

// resolve reads raw the way a URL-valued DOM property does: surrounding
// whitespace is trimmed, tabs and newlines are dropped, backslashes count as
// slashes for special schemes, and the result is resolved against the base
// URL.
//
// Design decision: net/url implements RFC 3986, while browsers follow the
// WHATWG URL standard. The two disagree on "https:\\cdn.example.com\a.png",
// which a browser loads from cdn.example.com and net/url reads as an opaque
// path. Only the differences that change the host are reproduced here; the
// rest of the WHATWG parser is not needed to compute an origin.
func (d *HTMLDocument) resolve(raw string) string {
	raw = normalizeURL(raw, d.base)
	if raw == "" || d.base == nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return d.base.ResolveReference(ref).String()
}

// specialSchemes are the schemes whose URLs read a backslash as a slash.
var specialSchemes = map[string]bool{
	"http": true, "https": true, "ftp": true, "ws": true, "wss": true, "file": true,
}

// normalizeURL applies the WHATWG preprocessing that affects the host of raw.
// base supplies the scheme of scheme-relative and relative input.
func normalizeURL(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	raw = strings.NewReplacer("\t", "", "\n", "", "\r", "").Replace(raw)
	if !strings.Contains(raw, `\`) {
		return raw
	}

	scheme := schemeOf(raw)
	if scheme == "" && base != nil {
		scheme = strings.ToLower(base.Scheme)
	}
	if !specialSchemes[scheme] {
		return raw
	}

	// Query and fragment keep their backslashes.
	end := strings.IndexAny(raw, "?#")
	if end < 0 {
		end = len(raw)
	}
	return strings.ReplaceAll(raw[:end], `\`, "/") + raw[end:]
}

// schemeOf returns the lower-cased scheme of raw, or "" when raw has none.
func schemeOf(raw string) string {
	for i, c := range raw {
		switch {
		case c == ':':
			if i == 0 {
				return ""
			}
			return strings.ToLower(raw[:i])
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return ""
		}
	}
	return ""
}

type element struct {
	node *html.Node
	doc  *HTMLDocument
}

func (e *element) TagName() string {
	if e.node.Namespace == "" {
		return strings.ToUpper(e.node.Data)
	}
	return e.node.Data
}

func (e *element) LocalName() string {
	return strings.ToLower(e.node.Data)
}

func (e *element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (e *element) Attributes() []Attribute {
	attrs := make([]Attribute, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		attrs = append(attrs, Attribute{Name: name, Value: a.Val})
	}
	return attrs
}

func (e *element) Property(name string) string {
	v, ok := e.Attr(name)
	if !ok {
		return ""
	}
	return e.doc.resolve(v)
}

func (e *element) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

func (e *element) Parent() Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return &element{node: p, doc: e.doc}
}

package collector

import (
	"strings"

	"github.com/nao1215/csprecommend/internal/dom"
	"github.com/nao1215/csprecommend/internal/model"
)

type readMode int

const (
	// readProperty resolves the value against the document base URL.
	readProperty readMode = iota
	// readRaw uses the attribute text as written.
	readRaw
)

// rule maps an attribute of some elements to a category.
type rule struct {
	category model.Category
	tags     []string
	attr     string
	mode     readMode

	// accept filters elements. Nil accepts all.
	accept func(dom.Element) bool

	// list splits the value into several references.
	list bool

	// protocols restricts the accepted protocols. "" stands for none.
	protocols []string
}

// elementRules lists the element sources. Within a category rules run in
// table order. Fonts come from stylesheets and have no entry.
var elementRules = []rule{
	{category: model.CategoryImages, tags: []string{"img"}, attr: "src", mode: readProperty},
	{category: model.CategoryImages, tags: []string{"link"}, attr: "href", mode: readProperty, accept: relIs("icon")},

	{category: model.CategoryMedia, tags: []string{"video", "audio"}, attr: "src", mode: readProperty},
	{category: model.CategoryMedia, tags: []string{"source"}, attr: "src", mode: readProperty, accept: parentIs("video", "audio")},

	{category: model.CategoryScript, tags: []string{"script"}, attr: "src", mode: readProperty},

	{category: model.CategoryObject, tags: []string{"object", "applet"}, attr: "codebase", mode: readRaw},
	{category: model.CategoryObject, tags: []string{"object", "applet"}, attr: "classid", mode: readRaw, protocols: []string{"http", "https", "ftp", ""}},
	{category: model.CategoryObject, tags: []string{"object", "applet"}, attr: "data", mode: readRaw},
	{category: model.CategoryObject, tags: []string{"object", "applet"}, attr: "archive", mode: readRaw, list: true},
	{category: model.CategoryObject, tags: []string{"embed"}, attr: "src", mode: readProperty},

	{category: model.CategoryFrame, tags: []string{"frame", "iframe"}, attr: "src", mode: readProperty},

	{category: model.CategoryStyle, tags: []string{"link"}, attr: "href", mode: readProperty, accept: relIs("stylesheet")},
}

// references returns the non-empty references rule reads from e.
func (r rule) references(e dom.Element) []string {
	if r.accept != nil && !r.accept(e) {
		return nil
	}

	var value string
	switch r.mode {
	case readRaw:
		value, _ = e.Attr(r.attr)
		value = strings.TrimSpace(value)
	default:
		value = e.Property(r.attr)
	}
	if value == "" {
		return nil
	}
	if r.list {
		return strings.FieldsFunc(value, func(c rune) bool {
			return c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
		})
	}
	return []string{value}
}

func (r rule) allows(protocol string) bool {
	if r.protocols == nil {
		return true
	}
	for _, p := range r.protocols {
		if p == protocol {
			return true
		}
	}
	return false
}

func relIs(token string) func(dom.Element) bool {
	return func(e dom.Element) bool {
		rel, _ := e.Attr("rel")
		return dom.HasToken(rel, token)
	}
}

func parentIs(names ...string) func(dom.Element) bool {
	return func(e dom.Element) bool {
		p := e.Parent()
		if p == nil {
			return false
		}
		for _, n := range names {
			if p.LocalName() == n {
				return true
			}
		}
		return false
	}
}

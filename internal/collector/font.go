package collector

import (
	"regexp"
	"strings"

	"github.com/aymerick/douceur/css"
)

var fontURLPattern = regexp.MustCompile(`(?i)url\(\s*(?:"([^"]*)"|'([^']*)'|([^)'"\s]*))\s*\)`)

// fontFaceSources returns the url() references of every @font-face src
// declaration in rules, descending into grouping rules such as @media.
func fontFaceSources(rules []*css.Rule) []string {
	var refs []string
	var walk func([]*css.Rule)
	walk = func(rules []*css.Rule) {
		for _, r := range rules {
			if r == nil {
				continue
			}
			if r.Kind == css.AtRule && strings.EqualFold(r.Name, "@font-face") {
				for _, d := range r.Declarations {
					if strings.EqualFold(strings.TrimSpace(d.Property), "src") {
						refs = append(refs, fontURLs(d.Value)...)
					}
				}
				continue
			}
			walk(r.Rules)
		}
	}
	walk(rules)
	return refs
}

// fontURLs unwraps each url(...) of a src value. local() entries carry no
// URL and are skipped.
func fontURLs(value string) []string {
	var out []string
	for _, m := range fontURLPattern.FindAllStringSubmatch(value, -1) {
		for _, g := range m[1:] {
			if g = strings.TrimSpace(g); g != "" {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

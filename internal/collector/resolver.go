package collector

import (
	"strings"

	"github.com/nao1215/csprecommend/internal/model"
	"github.com/nao1215/csprecommend/internal/uri"
)

// Resolver turns a resource reference into an origin token.
//
// Design decision: We compare hosts only, not scheme and port. A CSP host
// source without a scheme matches the document's scheme and its secure
// upgrade, and without a port it matches the default port, so
// "https://cdn.example.com" and "http://cdn.example.com:80" collapse into
// one recommendation entry. Keeping scheme and port would produce longer
// policies that are no stricter for the common case.
type Resolver struct {
	// parser splits references; shared with the Collector.
	parser *uri.Parser

	// selfHosts holds the lower-cased hosts reported as 'self'.
	selfHosts map[string]struct{}
}

// NewResolver returns a Resolver that reports selfHosts as 'self'.
// Empty hosts are ignored.
func NewResolver(parser *uri.Parser, selfHosts ...string) *Resolver {
	if parser == nil {
		parser = uri.NewParser(uri.ModeStrict)
	}
	r := &Resolver{parser: parser, selfHosts: make(map[string]struct{})}
	for _, h := range selfHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			r.selfHosts[h] = struct{}{}
		}
	}
	return r
}

// Origin parses ref and returns its origin token.
func (r *Resolver) Origin(ref string) string {
	return r.OriginOf(r.parser.Parse(ref))
}

// OriginOf returns the origin token of an already parsed reference:
// "data:" for data URIs, 'self' for relative references and the document's
// own host, the lower-cased host otherwise.
func (r *Resolver) OriginOf(p uri.ParsedURI) string {
	if p.Protocol == uri.ProtocolData {
		return model.OriginData
	}
	host := strings.ToLower(p.Host)
	if host == "" {
		return model.OriginSelf
	}
	if _, ok := r.selfHosts[host]; ok {
		return model.OriginSelf
	}
	return host
}

// hasMalformedHost reports whether the host of p holds whitespace. No browser
// would load such a reference, and the host is not a valid source expression.
func hasMalformedHost(p uri.ParsedURI) bool {
	return strings.ContainsAny(p.Host, " \t\n\r\f\v")
}

// Parse exposes the parser the resolver uses.
func (r *Resolver) Parse(ref string) uri.ParsedURI {
	return r.parser.Parse(ref)
}

package uri

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Mode selects the grammar used by a Parser.
type Mode string

const (
	// ModeStrict parses with the RFC 3986 reference grammar.
	ModeStrict Mode = "strict"

	// ModeLoose parses scheme-less "host/path" input as host plus path.
	ModeLoose Mode = "loose"
)

// ProtocolData is the protocol reported for data: URIs.
const ProtocolData = "data"

// looseMatchTimeout bounds a single loose-grammar match. The look-ahead in
// the loose grammar can backtrack heavily on long hostile input.
const looseMatchTimeout = 250 * time.Millisecond

// Capture group indexes shared by both grammars.
const (
	groupSource = iota
	groupProtocol
	groupAuthority
	groupUserInfo
	groupUser
	groupPassword
	groupHost
	groupPort
	groupRelative
	groupPath
	groupDirectory
	groupFile
	groupQuery
	groupAnchor
	groupCount
)

var strictPattern = regexp.MustCompile(
	`^(?:([^:/?#]+):)?(?://((?:(([^:@]*)(?::([^:@]*))?)?@)?([^:/?#]*)(?::(\d*))?))?((((?:[^?#/]*/)*)([^?#]*))(?:\?([^#]*))?(?:#(.*))?)`,
)

var loosePattern = newLoosePattern()

func newLoosePattern() *regexp2.Regexp {
	re := regexp2.MustCompile(
		`^(?:(?![^:@]+:[^:@\/]*@)([^:\/?#.]+):)?(?:\/\/)?((?:(([^:@]*)(?::([^:@]*))?)?@)?([^:\/?#]*)(?::(\d*))?)(((\/(?:[^?#](?![^?#\/]*\.[^?#\/.]+(?:[?#]|$)))*\/?)?([^?#\/]*))(?:\?([^#]*))?(?:#(.*))?)`,
		regexp2.ECMAScript,
	)
	re.MatchTimeout = looseMatchTimeout
	return re
}

// ParsedURI is the breakdown of one URL-like string.
// Fields that could not be determined are empty.
type ParsedURI struct {
	Source    string
	Protocol  string
	Authority string
	UserInfo  string
	User      string
	Password  string
	Host      string
	Port      string
	Relative  string
	Path      string
	Directory string
	File      string
	Query     string
	Anchor    string

	// QueryKey holds the key/value pairs of Query. Keys without a name are dropped.
	QueryKey map[string]string
}

// IsRelative reports whether the reference names no host.
func (p ParsedURI) IsRelative() bool {
	return p.Host == ""
}

// Parser parses strings with a preferred grammar and falls back to the other
// grammar when the preferred one produces no match.
//
// Design decision: A failed match falls back instead of returning an error
// because:
// 1. The loose grammar runs on regexp2 with a match timeout, and a timeout
//    on hostile input must not lose a reference the strict grammar can read
// 2. The strict grammar matches every string, so the fallback always ends
//    with a usable ParsedURI and callers need no error path
// 3. A reference the analysis cannot parse is still loaded by the browser;
//    treating it as relative ('self') is the closest safe reading
//
// Fallbacks are logged at debug level with the input, so surprising
// recommendations can be traced back to the reference that caused them.
// A Parser is safe for concurrent use.
type Parser struct {
	// mode is the grammar tried first.
	mode Mode

	// logger receives grammar fallbacks.
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used to report grammar fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a Parser for the given mode. Unknown modes use ModeStrict.
func NewParser(mode Mode, opts ...Option) *Parser {
	if mode != ModeLoose {
		mode = ModeStrict
	}
	p := &Parser{mode: mode}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Mode returns the preferred grammar of the parser.
func (p *Parser) Mode() Mode {
	return p.mode
}

// Parse breaks s into its components.
func (p *Parser) Parse(s string) ParsedURI {
	first, second := matchStrict, matchLoose
	if p.mode == ModeLoose {
		first, second = matchLoose, matchStrict
	}

	groups, ok := first(s)
	if !ok {
		p.logger.Debug("uri grammar produced no match, falling back",
			"mode", p.mode,
			"input", s,
		)
		groups, ok = second(s)
	}
	if !ok {
		return ParsedURI{Source: s, QueryKey: map[string]string{}}
	}
	return build(groups)
}

// ValidMode reports whether m names a known grammar.
func ValidMode(m Mode) bool {
	return m == ModeStrict || m == ModeLoose
}

var defaultParser = NewParser(ModeStrict)

// Parse breaks s into its components with the strict grammar.
func Parse(s string) ParsedURI {
	return defaultParser.Parse(s)
}

func matchStrict(s string) ([]string, bool) {
	m := strictPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	return m, true
}

func matchLoose(s string) ([]string, bool) {
	m, err := loosePattern.FindStringMatch(s)
	if err != nil || m == nil {
		return nil, false
	}
	groups := make([]string, groupCount)
	for i := range groups {
		if g := m.GroupByNumber(i); g != nil {
			groups[i] = g.String()
		}
	}
	return groups, true
}

func build(g []string) ParsedURI {
	u := ParsedURI{
		Source:    g[groupSource],
		Protocol:  strings.ToLower(g[groupProtocol]),
		Authority: g[groupAuthority],
		UserInfo:  g[groupUserInfo],
		User:      g[groupUser],
		Password:  g[groupPassword],
		Host:      strings.ToLower(g[groupHost]),
		Port:      g[groupPort],
		Relative:  g[groupRelative],
		Path:      g[groupPath],
		Directory: g[groupDirectory],
		File:      g[groupFile],
		Query:     g[groupQuery],
		Anchor:    g[groupAnchor],
	}

	// The loose grammar reads the media type of "data:image/png;..." as a host.
	if u.Protocol == ProtocolData {
		u.Authority, u.UserInfo, u.User, u.Password, u.Host, u.Port = "", "", "", "", "", ""
	}

	u.QueryKey = splitQuery(u.Query)
	return u
}

// splitQuery splits "a=1&b=2" into a map. A key without "=" maps to "".
func splitQuery(query string) map[string]string {
	keys := make(map[string]string)
	if query == "" {
		return keys
	}
	for _, pair := range strings.Split(query, "&") {
		name, value, _ := strings.Cut(pair, "=")
		if name != "" {
			keys[name] = value
		}
	}
	return keys
}

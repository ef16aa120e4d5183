package model

import "encoding/json"

// Origin tokens with a fixed spelling.
const (
	// OriginSelf is the token for the document's own origin.
	OriginSelf = "'self'"
	// OriginData is the token for data: URIs.
	OriginData = "data:"
)

// OriginSet is a set of origin tokens that remembers insertion order.
// The zero value is ready to use. It is not safe for concurrent use.
type OriginSet struct {
	seen   map[string]struct{}
	tokens []string
}

// NewOriginSet returns a set holding tokens in the given order.
func NewOriginSet(tokens ...string) *OriginSet {
	s := &OriginSet{}
	for _, t := range tokens {
		s.Add(t)
	}
	return s
}

// Add inserts token and reports whether it was new.
func (s *OriginSet) Add(token string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[token]; ok {
		return false
	}
	s.seen[token] = struct{}{}
	s.tokens = append(s.tokens, token)
	return true
}

// Contains reports whether token is in the set.
func (s *OriginSet) Contains(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[token]
	return ok
}

// Len returns the number of tokens.
func (s *OriginSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tokens)
}

// Values returns a copy of the tokens in insertion order.
func (s *OriginSet) Values() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// MarshalJSON encodes the set as an array of tokens.
func (s *OriginSet) MarshalJSON() ([]byte, error) {
	values := s.Values()
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

// UnmarshalJSON decodes an array of tokens, dropping duplicates.
func (s *OriginSet) UnmarshalJSON(data []byte) error {
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return err
	}
	*s = OriginSet{}
	for _, t := range tokens {
		s.Add(t)
	}
	return nil
}

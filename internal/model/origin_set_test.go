package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

// TestOriginSetAdd tests set semantics and insertion order.
func TestOriginSetAdd(t *testing.T) {
	t.Parallel()

	t.Run("duplicates collapse", func(t *testing.T) {
		t.Parallel()

		var s OriginSet
		if !s.Add("cdn.example.com") {
			t.Error("first Add should report a new token")
		}
		if s.Add("cdn.example.com") {
			t.Error("second Add should report a duplicate")
		}
		if s.Len() != 1 {
			t.Errorf("Len() = %d, expected 1", s.Len())
		}
	})

	t.Run("values keep first insertion order", func(t *testing.T) {
		t.Parallel()

		s := NewOriginSet("b.example", OriginSelf, "a.example", OriginSelf, OriginData)
		expected := []string{"b.example", OriginSelf, "a.example", OriginData}
		if got := s.Values(); !reflect.DeepEqual(got, expected) {
			t.Errorf("Values() = %v, expected %v", got, expected)
		}
	})

	t.Run("Values returns a copy", func(t *testing.T) {
		t.Parallel()

		s := NewOriginSet("x.example")
		v := s.Values()
		v[0] = "mutated"
		if !s.Contains("x.example") || s.Values()[0] != "x.example" {
			t.Error("modifying Values() result changed the set")
		}
	})

	t.Run("nil set is empty", func(t *testing.T) {
		t.Parallel()

		var s *OriginSet
		if s.Len() != 0 || s.Contains(OriginSelf) || s.Values() != nil {
			t.Error("nil set should behave as empty")
		}
	})
}

// TestOriginSetJSON tests that the set encodes as a plain array.
func TestOriginSetJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewOriginSet(OriginSelf, "fonts.example.net"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `["'self'","fonts.example.net"]` {
		t.Errorf("unexpected JSON: %s", data)
	}

	empty, err := json.Marshal(NewOriginSet())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(empty) != `[]` {
		t.Errorf("empty set should encode as [], got %s", empty)
	}

	var decoded OriginSet
	if err := json.Unmarshal([]byte(`["a","b","a"]`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Len() != 2 {
		t.Errorf("decoded Len() = %d, expected 2", decoded.Len())
	}
}

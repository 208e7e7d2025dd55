package util

import (
	"strings"
	"testing"
)

func TestNewPublicIDLength(t *testing.T) {
	for _, length := range []int{1, 10, 21} {
		if got := len(NewPublicID(length)); got != length {
			t.Errorf("len(NewPublicID(%d)) = %d", length, got)
		}
	}
}

func TestNewPublicIDAlphabet(t *testing.T) {
	id := NewPublicID(256)
	for _, r := range id {
		if !strings.ContainsRune(publicIDAlphabet, r) {
			t.Fatalf("id contains %q, outside the allowed alphabet", r)
		}
	}
}

func TestNewPublicIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewPublicID(10)
		if seen[id] {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = true
	}
}

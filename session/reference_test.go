package session

import (
	"strconv"
	"testing"
)

func TestReferenceAllocatorStartsAtZero(t *testing.T) {
	refs := NewReferenceAllocator()
	if ref := refs.Next(); ref != "0" {
		t.Errorf("first reference = %q, want \"0\"", ref)
	}
}

func TestReferenceAllocatorStrictlyIncreasing(t *testing.T) {
	refs := NewReferenceAllocator()
	previous := -1
	for i := 0; i < 100; i++ {
		value, err := strconv.Atoi(refs.Next())
		if err != nil {
			t.Fatalf("reference is not an integer: %v", err)
		}
		if value <= previous {
			t.Fatalf("reference %d not strictly greater than %d", value, previous)
		}
		previous = value
	}
}

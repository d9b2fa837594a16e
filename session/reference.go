package session

import (
	"strconv"
	"sync"
)

// ReferenceAllocator issues client-local file identifiers used to match
// selected files against the server response. References are unique and
// strictly increasing within a session, never reused even after removal.
type ReferenceAllocator struct {
	mu      sync.Mutex
	counter int
}

// NewReferenceAllocator starts below zero so the first reference is "0".
func NewReferenceAllocator() *ReferenceAllocator {
	return &ReferenceAllocator{counter: -1}
}

// Next returns the next reference.
func (a *ReferenceAllocator) Next() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counter++
	return strconv.Itoa(a.counter)
}

package task

import "sync"

// Extensions is the ordered list of extra command-line fragments appended
// verbatim after the fixed argument block. Each fragment is an opaque
// "<flag> <value>" string: entries are never parsed, escaped, validated or
// de-duplicated here. Duplicate or conflicting flags across entries are
// permitted; the external program re-parses the line and later flags win, so
// stored order is preserved exactly.
type Extensions struct {
	mu        sync.RWMutex
	fragments []string
}

// NewExtensions returns an extension list seeded with the given fragments in
// order.
func NewExtensions(fragments ...string) *Extensions {
	e := &Extensions{}
	e.fragments = append(e.fragments, fragments...)
	return e
}

// Append adds a fragment to the end of the list. Arbitrary text is accepted.
func (e *Extensions) Append(fragment string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fragments = append(e.fragments, fragment)
}

// InOrder returns a copy of the fragments in stored order.
func (e *Extensions) InOrder() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.fragments))
	copy(out, e.fragments)
	return out
}

// Len returns the number of stored fragments.
func (e *Extensions) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.fragments)
}

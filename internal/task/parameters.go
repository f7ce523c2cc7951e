package task

import (
	"fmt"
	"sort"
	"sync"
)

// Canonical parameter keys of the fixed argument block. The spellings are
// part of the command contract and must not be normalized.
const (
	KeyHKLIN     = "HKLIN"
	KeyF         = "F"
	KeySIGF      = "SIGF"
	KeyFreeRFlag = "FreeR_flag"
	KeyHKLOUT    = "HKLOUT"
	KeyXYZOUT    = "XYZOUT"
	KeyNProc     = "NProc"
	KeyRunDir    = "RUN_DIR"
	KeyJobID     = "JOB_ID"
)

// KeyUseIntensities is the toggle pre-set from the column-type detector. It
// is carried in the store for the operator to see but never synthesized into
// the command line.
const KeyUseIntensities = "USE_INTENSITIES"

// FixedKeys returns the declared parameter keys in declaration order. The
// store accepts arbitrary keys beyond these.
func FixedKeys() []string {
	return []string{
		KeyHKLIN,
		KeyF,
		KeySIGF,
		KeyFreeRFlag,
		KeyHKLOUT,
		KeyXYZOUT,
		KeyNProc,
		KeyRunDir,
		KeyJobID,
		KeyUseIntensities,
	}
}

// Parameters is the keyed store of task parameter values. Values are scalars
// (string, number, bool, path) and are rendered to strings only at synthesis
// time. Mutation is serialized so concurrent configuration events cannot
// interleave; the synthesis phase only reads.
type Parameters struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewParameters returns an empty parameter store.
func NewParameters() *Parameters {
	return &Parameters{values: make(map[string]any)}
}

// Set inserts or overwrites the value for key. Values are stored as given;
// no type or content constraints apply beyond being renderable as a string.
func (p *Parameters) Set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}

// Unset removes key from the store. Removing an absent key is a no-op.
func (p *Parameters) Unset(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
}

// Get returns the value for key, or nil when absent.
func (p *Parameters) Get(key string) any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values[key]
}

// Lookup returns the value for key and whether it is present.
func (p *Parameters) Lookup(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.values[key]
	return value, ok
}

// Has reports whether key is present.
func (p *Parameters) Has(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.values[key]
	return ok
}

// StringValue renders the value for key as the string that would appear on
// the synthesized command line. Strings pass through verbatim; other scalars
// render in their canonical form (4 -> "4", true -> "true"). The second
// return reports presence.
func (p *Parameters) StringValue(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.values[key]
	if !ok {
		return "", false
	}
	if s, isString := value.(string); isString {
		return s, true
	}
	return fmt.Sprintf("%v", value), true
}

// Keys returns all present keys in sorted order.
func (p *Parameters) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]string, 0, len(p.values))
	for key := range p.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored parameters.
func (p *Parameters) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.values)
}

// Snapshot returns a copy of the store contents. The copy is detached:
// later writes to the store do not affect it.
func (p *Parameters) Snapshot() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snapshot := make(map[string]any, len(p.values))
	for key, value := range p.values {
		snapshot[key] = value
	}
	return snapshot
}

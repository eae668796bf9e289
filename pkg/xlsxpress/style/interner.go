package style

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var internerSeq atomic.Uint64

// Handle refers to a Style held by one Interner. The zero Handle means
// "no style" and is valid for every interner.
type Handle struct {
	owner uint64
	index uint32
}

// IsZero reports whether h is the "no style" handle.
func (h Handle) IsZero() bool { return h == Handle{} }

func (h Handle) String() string {
	if h.IsZero() {
		return "style(none)"
	}
	return fmt.Sprintf("style(%d#%d)", h.owner, h.index)
}

// ForeignHandleError is returned when a handle from another interner is
// presented.
type ForeignHandleError struct {
	Handle Handle
}

func (e *ForeignHandleError) Error() string {
	return fmt.Sprintf("%s does not belong to this workbook", e.Handle)
}

// Interner deduplicates styles. Equal styles always map to the same handle.
// It is safe for concurrent use.
type Interner struct {
	id     uint64
	mu     sync.RWMutex
	index  map[Style]Handle
	styles []Style
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{
		id:    internerSeq.Add(1),
		index: make(map[Style]Handle),
	}
}

// Intern returns the handle for s, allocating one on first sight.
func (in *Interner) Intern(s Style) Handle {
	if s.IsZero() {
		return Handle{}
	}
	in.mu.RLock()
	h, ok := in.index[s]
	in.mu.RUnlock()
	if ok {
		return h
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if h, ok := in.index[s]; ok {
		return h
	}
	in.styles = append(in.styles, s)
	h = Handle{owner: in.id, index: uint32(len(in.styles))}
	in.index[s] = h
	return h
}

// Resolve returns the style behind h.
func (in *Interner) Resolve(h Handle) (Style, error) {
	if h.IsZero() {
		return Style{}, nil
	}
	if h.owner != in.id {
		return Style{}, &ForeignHandleError{Handle: h}
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	if h.index == 0 || int(h.index) > len(in.styles) {
		return Style{}, &ForeignHandleError{Handle: h}
	}
	return in.styles[h.index-1], nil
}

// Owns reports whether h can be resolved by in.
func (in *Interner) Owns(h Handle) bool {
	_, err := in.Resolve(h)
	return err == nil
}

// Len returns the number of distinct non-empty styles.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.styles)
}

package model

import "fmt"

// Handle identifies a world entity. Index selects a slot in the entity table,
// Gen is bumped every time the slot is freed, so a handle to a destroyed entity
// stops resolving instead of pointing at whatever reuses the slot.
//
// The zero Handle is invalid and means "none".
type Handle struct {
	Index uint32
	Gen   uint32
}

// IsZero reports whether h is the "none" handle.
func (h Handle) IsZero() bool {
	return h.Gen == 0
}

func (h Handle) String() string {
	if h.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%d:%d", h.Index, h.Gen)
}

// ParseHandle parses the "index:gen" form produced by String.
func ParseHandle(s string) (Handle, error) {
	var h Handle
	if _, err := fmt.Sscanf(s, "%d:%d", &h.Index, &h.Gen); err != nil {
		return Handle{}, fmt.Errorf("parsing handle %q: %w", s, err)
	}
	if h.IsZero() {
		return Handle{}, fmt.Errorf("parsing handle %q: zero generation", s)
	}
	return h, nil
}

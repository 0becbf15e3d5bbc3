package router

// History is the back/forward stack of committed locations.
type History struct {
	entries []Location
	index   int
}

func NewHistory(initial Location) *History {
	return &History{entries: []Location{initial}}
}

// Push appends l after the current entry, dropping any forward entries.
func (h *History) Push(l Location) {
	h.entries = append(h.entries[:h.index+1], l)
	h.index = len(h.entries) - 1
}

// Replace overwrites the current entry.
func (h *History) Replace(l Location) {
	h.entries[h.index] = l
}

func (h *History) Current() Location {
	return h.entries[h.index]
}

// Peek returns the entry delta steps from the current one.
func (h *History) Peek(delta int) (Location, bool) {
	i := h.index + delta
	if delta == 0 || i < 0 || i >= len(h.entries) {
		return Location{}, false
	}
	return h.entries[i], true
}

// Go moves the current entry by delta. It reports false, and does nothing, when out of range.
func (h *History) Go(delta int) bool {
	i := h.index + delta
	if i < 0 || i >= len(h.entries) {
		return false
	}
	h.index = i
	return true
}

func (h *History) Len() int   { return len(h.entries) }
func (h *History) Index() int { return h.index }

func (h *History) CanGoBack() bool    { return h.index > 0 }
func (h *History) CanGoForward() bool { return h.index < len(h.entries)-1 }

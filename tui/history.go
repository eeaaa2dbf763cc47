package tui

// inputHistory keeps recently entered commands for up/down recall.
type inputHistory struct {
	entries []string
	max     int
	cursor  int
}

func newInputHistory(max int) *inputHistory {
	return &inputHistory{max: max, cursor: -1}
}

// Push records a command and resets recall. Consecutive duplicates are
// collapsed so holding enter does not flood the buffer.
func (h *inputHistory) Push(cmd string) {
	if cmd == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		h.cursor = -1
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	h.cursor = -1
}

// Prev steps backwards through history, returning false once exhausted.
func (h *inputHistory) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = len(h.entries) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps forwards again. Walking past the newest entry clears the
// cursor and returns an empty string so the input line resets.
func (h *inputHistory) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	if h.cursor < len(h.entries)-1 {
		h.cursor++
		return h.entries[h.cursor], true
	}
	h.cursor = -1
	return "", true
}

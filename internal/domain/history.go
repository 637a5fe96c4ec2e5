package domain

// HistoryLimit caps the number of turns a conversation retains.
const HistoryLimit = 5

// Turn is one completed question/answer exchange.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// History is a bounded FIFO window over the most recent turns of one session.
// The zero value is an empty history ready for use.
type History struct {
	turns []Turn
}

// NewHistory builds a history from existing turns, keeping only the
// most recent HistoryLimit of them.
func NewHistory(turns []Turn) History {
	h := History{}
	for _, t := range turns {
		h.Append(t)
	}
	return h
}

// Append adds a turn, evicting the oldest once the limit is reached.
func (h *History) Append(t Turn) {
	h.turns = append(h.turns, t)
	if len(h.turns) > HistoryLimit {
		h.turns = h.turns[len(h.turns)-HistoryLimit:]
	}
}

// Turns returns a copy of the retained turns, oldest first.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Last returns up to n most recent turns, oldest first.
func (h *History) Last(n int) []Turn {
	if n <= 0 || len(h.turns) == 0 {
		return nil
	}
	if n > len(h.turns) {
		n = len(h.turns)
	}
	out := make([]Turn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// Len reports the number of retained turns.
func (h *History) Len() int { return len(h.turns) }

// Empty reports whether no turns are retained.
func (h *History) Empty() bool { return len(h.turns) == 0 }

package app

// StatusLine holds the current status message and a bounded history.
// Confined to the loop goroutine.
type StatusLine struct {
	limit   int
	current string
	history []string
}

// NewStatusLine creates a status line keeping at most limit messages.
func NewStatusLine(limit int) *StatusLine {
	if limit <= 0 {
		limit = 1
	}
	return &StatusLine{limit: limit}
}

// Set replaces the current message and records it.
func (s *StatusLine) Set(text string) {
	s.current = text
	s.history = append(s.history, text)
	if len(s.history) > s.limit {
		s.history = s.history[len(s.history)-s.limit:]
	}
}

// Current returns the current message.
func (s *StatusLine) Current() string {
	return s.current
}

// History returns the retained messages, oldest first.
func (s *StatusLine) History() []string {
	return append([]string(nil), s.history...)
}

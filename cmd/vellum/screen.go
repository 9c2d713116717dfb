package main

import (
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/woodruff/vellum/internal/buffer"
	"github.com/woodruff/vellum/internal/token"
	"github.com/woodruff/vellum/internal/view"
)

// screen paints committed token streams. Splits stack as horizontal
// bands with the status line on the bottom row. Commits arrive on the
// editor loop goroutine; tcell serializes drawing internally.
type screen struct {
	tc tcell.Screen

	mu      sync.Mutex
	commits map[buffer.SplitID]view.Commit
	status  string
}

func newScreen() (*screen, error) {
	tc, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := tc.Init(); err != nil {
		return nil, err
	}
	return &screen{
		tc:      tc,
		commits: make(map[buffer.SplitID]view.Commit),
	}, nil
}

func (s *screen) Fini() {
	s.tc.Fini()
}

// Commit stores the latest stream for the split and repaints.
func (s *screen) Commit(c view.Commit) {
	s.mu.Lock()
	s.commits[c.Split] = c
	s.mu.Unlock()
	s.paint()
}

// DropSplit forgets a split's last commit.
func (s *screen) DropSplit(id buffer.SplitID) {
	s.mu.Lock()
	delete(s.commits, id)
	s.mu.Unlock()
	s.paint()
}

// SetStatus updates the bottom-row message.
func (s *screen) SetStatus(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()
	s.paint()
}

func (s *screen) paint() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tc.Clear()
	width, height := s.tc.Size()
	if height < 2 {
		s.tc.Show()
		return
	}

	ids := make([]buffer.SplitID, 0, len(s.commits))
	for id := range s.commits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	bodyRows := height - 1
	top := 0
	for i, id := range ids {
		rows := bodyRows / len(ids)
		if i == len(ids)-1 {
			rows = bodyRows - top
		}
		s.paintBand(s.commits[id], top, rows, width)
		top += rows
	}

	drawText(s.tc, 0, height-1, width, s.status, tcell.StyleDefault.Reverse(true))
	s.tc.Show()
}

// paintBand draws one commit's token stream into its rows.
func (s *screen) paintBand(c view.Commit, top, rows, width int) {
	x, y := 0, top
	for _, t := range c.Tokens {
		if y >= top+rows {
			return
		}
		if t.Kind == token.KindNewline {
			x, y = 0, y+1
			continue
		}
		style := cellStyle(t.Style)
		for _, r := range t.Text {
			if x >= width {
				break
			}
			s.tc.SetContent(x, y, r, nil, style)
			x++
		}
	}
}

func cellStyle(ts *token.Style) tcell.Style {
	style := tcell.StyleDefault
	if ts == nil {
		return style
	}
	if ts.Fg != nil {
		style = style.Foreground(tcell.NewRGBColor(int32(ts.Fg.R), int32(ts.Fg.G), int32(ts.Fg.B)))
	}
	if ts.Bg != nil {
		style = style.Background(tcell.NewRGBColor(int32(ts.Bg.R), int32(ts.Bg.G), int32(ts.Bg.B)))
	}
	return style.Bold(ts.Bold).Italic(ts.Italic)
}

func drawText(tc tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+width {
			break
		}
		tc.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < x+width; col++ {
		tc.SetContent(col, y, ' ', nil, style)
	}
}

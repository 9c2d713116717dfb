package view

import (
	"strings"

	"github.com/woodruff/vellum/internal/buffer"
	"github.com/woodruff/vellum/internal/textstore"
	"github.com/woodruff/vellum/internal/token"
)

// Tokenize produces the base token stream for a buffer's viewport.
//
// Real buffers read [Start, End) bytes from the text store; every token
// carries the byte offset it starts at. Virtual buffers treat the
// viewport as an entry index range and emit one text token per entry
// with the entry's declared offset, followed by a synthetic newline.
func Tokenize(buf *buffer.Buffer, vp buffer.Viewport) ([]token.Token, error) {
	if buf.Origin() == buffer.OriginVirtual {
		return tokenizeVirtual(buf.Entries(), vp), nil
	}
	return tokenizeReal(buf.Store(), vp)
}

func tokenizeReal(store textstore.Store, vp buffer.Viewport) ([]token.Token, error) {
	start, end := vp.Start, vp.End
	if start < 0 {
		start = 0
	}
	if n := store.Len(); end > n {
		end = n
	}
	if start >= end {
		return nil, nil
	}

	text, err := store.ReadRange(start, end)
	if err != nil {
		return nil, err
	}

	var out []token.Token
	off := start
	for len(text) > 0 {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 {
			out = append(out, token.NewText(off, text))
			break
		}
		if nl > 0 {
			out = append(out, token.NewText(off, text[:nl]))
		}
		out = append(out, token.NewNewline(off+nl))
		text = text[nl+1:]
		off += nl + 1
	}
	return out, nil
}

func tokenizeVirtual(entries []buffer.Entry, vp buffer.Viewport) []token.Token {
	start, end := vp.Start, vp.End
	if start < 0 {
		start = 0
	}
	if end > len(entries) {
		end = len(entries)
	}
	if start >= end {
		return nil
	}

	out := make([]token.Token, 0, 2*(end-start))
	for _, e := range entries[start:end] {
		if e.SourceOffset == buffer.NoOffset {
			out = append(out, token.Synthetic(e.Text))
		} else {
			out = append(out, token.NewText(e.SourceOffset, e.Text))
		}
		out = append(out, token.Token{Kind: token.KindNewline, SourceOffset: token.NoOffset})
	}
	return out
}

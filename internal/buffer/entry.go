package buffer

import "fmt"

// NoOffset marks an entry with no position in real content.
const NoOffset = -1

// Entry is one line of virtual buffer content: display text plus an
// opaque property map the core never interprets (no reserved keys).
type Entry struct {
	// Text is the display text of the entry.
	Text string

	// SourceOffset optionally anchors the entry to a byte offset in
	// some underlying real content (e.g. a diff view pointing back at
	// the file). NoOffset when the entry is purely synthetic.
	SourceOffset int

	// Properties carries script-defined metadata.
	Properties map[string]Value
}

// NewEntry creates an entry with no source offset and no properties.
func NewEntry(text string) Entry {
	return Entry{Text: text, SourceOffset: NoOffset}
}

// WithOffset returns a copy of the entry anchored at the given offset.
func (e Entry) WithOffset(offset int) Entry {
	e.SourceOffset = offset
	return e
}

// WithProperty returns a copy of the entry with a property added.
func (e Entry) WithProperty(key string, v Value) Entry {
	props := make(map[string]Value, len(e.Properties)+1)
	for k, val := range e.Properties {
		props[k] = val
	}
	props[key] = v
	e.Properties = props
	return e
}

// DecodeEntries converts the wire shape a script passes, a sequence of
// {text, source_offset?, properties?} mappings, into entries. Property
// values become tagged Values.
func DecodeEntries(v any) ([]Entry, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("entries are %T, not a sequence: %w", v, ErrInvalidArgument)
	}

	entries := make([]Entry, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d is %T, not a mapping: %w", i, item, ErrInvalidArgument)
		}

		text, ok := m["text"].(string)
		if !ok {
			return nil, fmt.Errorf("entry %d: missing text: %w", i, ErrInvalidArgument)
		}
		entry := NewEntry(text)

		if raw, ok := m["source_offset"]; ok && raw != nil {
			offset, ok := entryOffset(raw)
			if !ok {
				return nil, fmt.Errorf("entry %d: source_offset %v: %w", i, raw, ErrInvalidArgument)
			}
			entry.SourceOffset = offset
		}

		if raw, ok := m["properties"]; ok && raw != nil {
			props, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: properties are %T: %w", i, raw, ErrInvalidArgument)
			}
			entry.Properties = make(map[string]Value, len(props))
			for k, pv := range props {
				conv, err := ValueFromAny(pv)
				if err != nil {
					return nil, fmt.Errorf("entry %d: property %q: %w", i, k, err)
				}
				entry.Properties[k] = conv
			}
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

// EncodeEntries converts entries back to the wire shape.
func EncodeEntries(entries []Entry) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		m := map[string]any{"text": e.Text}
		if e.SourceOffset >= 0 {
			m["source_offset"] = int64(e.SourceOffset)
		}
		if len(e.Properties) > 0 {
			props := make(map[string]any, len(e.Properties))
			for k, v := range e.Properties {
				props[k] = v.Any()
			}
			m["properties"] = props
		}
		out[i] = m
	}
	return out
}

func entryOffset(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0, false
		}
		return n, true
	case int64:
		if n < 0 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n < 0 || n != float64(int64(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

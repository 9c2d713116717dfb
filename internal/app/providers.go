package app

import (
	"errors"
	"fmt"

	"github.com/woodruff/vellum/internal/buffer"
	"github.com/woodruff/vellum/internal/hook"
	"github.com/woodruff/vellum/internal/key"
	"github.com/woodruff/vellum/internal/mode"
	"github.com/woodruff/vellum/internal/script/api"
	"github.com/woodruff/vellum/internal/token"
)

// scriptBridge implements the api provider interfaces. Scripts run on
// the script goroutine, so every call marshals onto the editor loop
// with PostWait before touching the registries.
type scriptBridge struct {
	ed *Editor
}

var _ api.EditorProvider = (*scriptBridge)(nil)
var _ api.ViewProvider = (*scriptBridge)(nil)
var _ api.UIProvider = (*scriptBridge)(nil)

// scriptErr maps registry failures to the error class the api layer
// raises back into Lua. Internal faults pass through untouched.
func scriptErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, buffer.ErrInvalidArgument),
		errors.Is(err, buffer.ErrNotFound),
		errors.Is(err, buffer.ErrSplitNotFound),
		errors.Is(err, buffer.ErrNotVirtual),
		errors.Is(err, mode.ErrInvalidMode),
		errors.Is(err, mode.ErrUnknownMode),
		errors.Is(err, mode.ErrInvalidCommand),
		errors.Is(err, hook.ErrUnknownPoint),
		errors.Is(err, hook.ErrInvalidPoint),
		errors.Is(err, key.ErrInvalidChord):
		return fmt.Errorf("%v: %w", err, api.ErrInvalidArgument)
	}
	return err
}

func (sb *scriptBridge) DefineMode(name, parent string, bindings []api.Binding, readOnly bool) error {
	parsed := make([]mode.Binding, 0, len(bindings))
	for _, b := range bindings {
		c, err := key.Parse(b.Key)
		if err != nil {
			return scriptErr(err)
		}
		parsed = append(parsed, mode.Binding{Chord: c, Action: b.Action})
	}

	var err error
	if werr := sb.ed.loop.PostWait(func() {
		err = sb.ed.modes.DefineMode(name, parent, parsed, readOnly)
	}); werr != nil {
		return werr
	}
	return scriptErr(err)
}

func (sb *scriptBridge) RegisterCommand(displayName, description, action, requiredMode string) error {
	var err error
	if werr := sb.ed.loop.PostWait(func() {
		err = sb.ed.modes.RegisterCommand(mode.Command{
			DisplayName:  displayName,
			Description:  description,
			Action:       action,
			RequiredMode: requiredMode,
		})
	}); werr != nil {
		return werr
	}
	return scriptErr(err)
}

func (sb *scriptBridge) Subscribe(point, handlerAction string) error {
	var err error
	if werr := sb.ed.loop.PostWait(func() {
		err = sb.ed.bridge.Subscribe(point, handlerAction, hook.GlobalScope)
	}); werr != nil {
		return werr
	}
	return scriptErr(err)
}

func (sb *scriptBridge) CreateVirtualBuffer(opts api.VirtualBufferOptions) (int, error) {
	entries, err := buffer.DecodeEntries(opts.Entries)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, api.ErrInvalidArgument)
	}

	var id buffer.ID
	if werr := sb.ed.loop.PostWait(func() {
		id, err = sb.createVirtual(opts, entries)
	}); werr != nil {
		return 0, werr
	}
	if err != nil {
		return 0, scriptErr(err)
	}
	return int(id), nil
}

// createVirtual runs on the loop.
func (sb *scriptBridge) createVirtual(opts api.VirtualBufferOptions, entries []buffer.Entry) (buffer.ID, error) {
	ed := sb.ed
	if opts.Mode != "" {
		if _, ok := ed.modes.Mode(opts.Mode); !ok {
			return 0, fmt.Errorf("mode %q: %w", opts.Mode, mode.ErrUnknownMode)
		}
	}

	flags := buffer.Flags{
		ReadOnly:        opts.ReadOnly,
		EditingDisabled: opts.EditingDisabled,
		ShowLineNumbers: opts.ShowLineNumbers,
	}
	id, err := ed.buffers.CreateVirtual(opts.Name, opts.Mode, entries, flags)
	if err != nil {
		return 0, err
	}

	var sid buffer.SplitID
	switch opts.Attach {
	case api.AttachNone:
		return id, nil
	case api.AttachNewSplit:
		sid, err = ed.buffers.AttachToNewSplit(id, opts.Ratio)
	case api.AttachExistingSplit:
		sid = buffer.SplitID(opts.SplitID)
		err = ed.buffers.AttachToExistingSplit(id, sid)
	default:
		err = fmt.Errorf("attach %d: %w", opts.Attach, buffer.ErrInvalidArgument)
	}
	if err != nil {
		// Attachment failed; do not leave the orphan behind.
		_, _ = ed.buffers.Close(id)
		return 0, err
	}

	_ = ed.buffers.SetViewport(sid, 0, len(entries))
	if err := ed.pipeline.Redraw(id, sid); err != nil {
		ed.log.Warn("redraw failed", "buffer", int(id), "split", int(sid), "error", err)
	}
	return id, nil
}

func (sb *scriptBridge) SetVirtualBufferContent(id int, rawEntries []any) error {
	entries, err := buffer.DecodeEntries(rawEntries)
	if err != nil {
		return fmt.Errorf("%v: %w", err, api.ErrInvalidArgument)
	}

	if werr := sb.ed.loop.PostWait(func() {
		var showing []buffer.SplitID
		showing, err = sb.ed.buffers.UpdateVirtualContent(buffer.ID(id), entries)
		if err != nil {
			return
		}
		for _, sid := range showing {
			if rerr := sb.ed.pipeline.Redraw(buffer.ID(id), sid); rerr != nil {
				sb.ed.log.Warn("redraw failed", "buffer", id, "split", int(sid), "error", rerr)
			}
		}
	}); werr != nil {
		return werr
	}
	return scriptErr(err)
}

func (sb *scriptBridge) CloseBuffer(id int) error {
	var err error
	if werr := sb.ed.loop.PostWait(func() {
		bufID := buffer.ID(id)
		if _, err = sb.ed.buffers.Buffer(bufID); err != nil {
			return
		}
		sb.ed.pipeline.CancelBuffer(bufID)
		sb.ed.bridge.CancelBuffer(bufID)
		_, err = sb.ed.buffers.Close(bufID)
	}); werr != nil {
		return werr
	}
	return scriptErr(err)
}

func (sb *scriptBridge) SubmitViewTransform(bufID, splitID, start, end int, rawTokens []any, cursorHint any) bool {
	tokens, err := token.Decode(rawTokens)
	if err != nil {
		sb.ed.log.Warn("transform submission rejected", "buffer", bufID, "error", err)
		return false
	}

	var current bool
	if werr := sb.ed.loop.PostWait(func() {
		current = sb.ed.pipeline.SubmitTransform(
			buffer.ID(bufID), buffer.SplitID(splitID), start, end, tokens, cursorHint)
	}); werr != nil {
		return false
	}
	return current
}

func (sb *scriptBridge) ActiveSplitID() int {
	var sid buffer.SplitID
	_ = sb.ed.loop.PostWait(func() { sid = sb.ed.buffers.ActiveSplit() })
	return int(sid)
}

func (sb *scriptBridge) ActiveBufferID() int {
	var id buffer.ID
	_ = sb.ed.loop.PostWait(func() { id = sb.ed.buffers.ActiveBuffer() })
	return int(id)
}

func (sb *scriptBridge) SetStatus(text string) {
	sb.ed.loop.Post(func() { sb.ed.status.Set(text) })
}

func (sb *scriptBridge) Debug(text string) {
	sb.ed.log.Debug(text, "source", "script")
}

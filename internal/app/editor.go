// Package app wires the editor core together: one event loop owning the
// registries, the hook bridge into the scripting runtime, and the view
// pipeline feeding the external paint layer.
package app

import (
	"fmt"
	"log/slog"

	"github.com/woodruff/vellum/internal/buffer"
	"github.com/woodruff/vellum/internal/config"
	"github.com/woodruff/vellum/internal/hook"
	"github.com/woodruff/vellum/internal/key"
	"github.com/woodruff/vellum/internal/mode"
	"github.com/woodruff/vellum/internal/script"
	"github.com/woodruff/vellum/internal/script/api"
	"github.com/woodruff/vellum/internal/session"
	"github.com/woodruff/vellum/internal/textstore"
	"github.com/woodruff/vellum/internal/view"
)

// Fire-and-continue hook points the editor declares at startup.
var firePoints = []string{
	"manual_page",
	"keyboard_shortcuts",
}

// InsertFunc receives default text insertion. The storage engine is an
// external collaborator; the core only decides that insertion happens.
type InsertFunc func(buf buffer.ID, r rune)

// Editor owns the core state. All mutation happens on its loop.
type Editor struct {
	cfg  config.Config
	log  *slog.Logger
	loop *Loop

	buffers  *buffer.Registry
	modes    *mode.Registry
	bridge   *hook.Bridge
	pipeline *view.Pipeline
	host     *script.Host
	status   *StatusLine

	insert InsertFunc
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the editor logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithInsertFunc sets the default-insertion sink.
func WithInsertFunc(fn InsertFunc) Option {
	return func(e *Editor) { e.insert = fn }
}

// New builds a fully wired editor. commit receives committed token
// streams for the paint layer; it runs on the loop goroutine.
func New(cfg config.Config, commit view.CommitFunc, opts ...Option) (*Editor, error) {
	e := &Editor{
		cfg:     cfg,
		log:     slog.Default(),
		loop:    NewLoop(),
		buffers: buffer.NewRegistry(),
		modes:   mode.NewRegistry(),
		status:  NewStatusLine(cfg.StatusHistory),
	}
	for _, opt := range opts {
		opt(e)
	}
	if commit == nil {
		commit = func(view.Commit) {}
	}

	sb := &scriptBridge{ed: e}
	registry, err := api.DefaultRegistry(&api.Context{Editor: sb, View: sb, UI: sb})
	if err != nil {
		e.loop.Close()
		return nil, err
	}
	e.host, err = script.NewHost(registry, script.WithHostLogger(e.log))
	if err != nil {
		e.loop.Close()
		return nil, err
	}

	e.bridge = hook.NewBridge(e.host, e.loop.Post,
		hook.WithTimeout(cfg.TransformTimeout),
		hook.WithLogger(e.log))
	for _, point := range firePoints {
		if err := e.bridge.DeclarePoint(point, hook.PolicyFireAndContinue); err != nil {
			e.shutdown()
			return nil, err
		}
	}

	e.pipeline, err = view.NewPipeline(e.bridge, e.buffers, commit, e.log)
	if err != nil {
		e.shutdown()
		return nil, err
	}

	if err := e.modes.DefineMode(cfg.DefaultMode, "", nil, false); err != nil {
		e.shutdown()
		return nil, err
	}
	return e, nil
}

// LoadExtensions loads every extension from the configured script
// directory. Must not be called from a loop task: extensions call back
// into the editor while loading.
func (e *Editor) LoadExtensions() []string {
	if e.cfg.ScriptDir == "" {
		return nil
	}
	loaded, err := e.host.LoadDir(e.cfg.ScriptDir)
	if err != nil {
		e.log.Debug("no extensions loaded", "dir", e.cfg.ScriptDir, "error", err)
		return nil
	}
	return loaded
}

// HandleKey routes a key chord through mode resolution. Safe from any
// goroutine.
func (e *Editor) HandleKey(c key.Chord) {
	e.loop.Post(func() { e.handleKey(c) })
}

func (e *Editor) handleKey(c key.Chord) {
	bufID := e.buffers.ActiveBuffer()
	if bufID == 0 {
		return
	}
	buf, err := e.buffers.Buffer(bufID)
	if err != nil {
		return
	}

	modeName := buf.Mode()
	if modeName == "" {
		modeName = e.cfg.DefaultMode
	}
	res, err := e.modes.Resolve(modeName, c)
	if err != nil {
		e.log.Warn("key resolution failed", "mode", modeName, "error", err)
		return
	}

	switch res.Decision {
	case mode.DecisionAction:
		e.invokeAction(res.Action)
	case mode.DecisionInsert:
		if buf.Flags().ReadOnly || buf.Flags().EditingDisabled {
			return
		}
		if e.insert != nil {
			e.insert(bufID, c.Rune)
		}
	case mode.DecisionSwallow, mode.DecisionNoOp:
	}
}

// invokeAction runs a script action asynchronously. Faults surface on
// the status line, never as a crash.
func (e *Editor) invokeAction(action string) {
	payload := map[string]any{
		"buffer_id": int(e.buffers.ActiveBuffer()),
		"split_id":  int(e.buffers.ActiveSplit()),
	}
	e.host.Invoke(action, payload, func(_ any, err error) {
		if err == nil {
			return
		}
		e.loop.Post(func() {
			e.log.Warn("action failed", "action", action, "error", err)
			e.status.Set(fmt.Sprintf("error in %s: %v", action, err))
		})
	})
}

// RunCommand executes a palette command by display name in the active
// buffer's mode. The list is undeduplicated; the first match runs.
func (e *Editor) RunCommand(displayName string) {
	e.loop.Post(func() {
		modeName := e.cfg.DefaultMode
		if buf, err := e.buffers.Buffer(e.buffers.ActiveBuffer()); err == nil && buf.Mode() != "" {
			modeName = buf.Mode()
		}
		for _, cmd := range e.modes.CommandsFor(modeName) {
			if cmd.DisplayName == displayName {
				e.invokeAction(cmd.Action)
				return
			}
		}
		e.status.Set(fmt.Sprintf("no such command: %s", displayName))
	})
}

// DispatchHook fires a fire-and-continue hook point for the active
// buffer. Unhandled events surface on the status line.
func (e *Editor) DispatchHook(point string, payload map[string]any) {
	e.loop.Post(func() {
		err := e.bridge.DispatchFire(point, e.buffers.ActiveBuffer(), payload, func(handled bool) {
			if !handled {
				e.status.Set(fmt.Sprintf("%s: not handled", point))
			}
		})
		if err != nil {
			e.log.Warn("hook dispatch failed", "point", point, "error", err)
		}
	})
}

// OpenFile creates a real buffer over the given store and shows it in a
// new split.
func (e *Editor) OpenFile(path string, store textstore.Store) (buffer.ID, error) {
	var id buffer.ID
	var err error
	werr := e.loop.PostWait(func() {
		id, err = e.buffers.CreateReal(path, store)
		if err != nil {
			return
		}
		var sid buffer.SplitID
		sid, err = e.buffers.AttachToNewSplit(id, 0.5)
		if err != nil {
			return
		}
		_ = e.buffers.SetViewport(sid, 0, store.Len())
		err = e.pipeline.Redraw(id, sid)
	})
	if werr != nil {
		return 0, werr
	}
	return id, err
}

// RequestRedraw reruns the pipeline for a split.
func (e *Editor) RequestRedraw(sid buffer.SplitID) {
	e.loop.Post(func() {
		s, err := e.buffers.Split(sid)
		if err != nil {
			return
		}
		if err := e.pipeline.Redraw(s.Buffer(), sid); err != nil {
			e.log.Warn("redraw failed", "split", int(sid), "error", err)
		}
	})
}

// Scroll moves a split's viewport and redraws it.
func (e *Editor) Scroll(sid buffer.SplitID, start, end int) {
	e.loop.Post(func() {
		if err := e.buffers.SetViewport(sid, start, end); err != nil {
			return
		}
		s, err := e.buffers.Split(sid)
		if err != nil {
			return
		}
		if err := e.pipeline.Redraw(s.Buffer(), sid); err != nil {
			e.log.Warn("redraw failed", "split", int(sid), "error", err)
		}
	})
}

// Status returns the current status message.
func (e *Editor) Status() string {
	var cur string
	_ = e.loop.PostWait(func() { cur = e.status.Current() })
	return cur
}

// SaveSession captures the split layout as JSON.
func (e *Editor) SaveSession() (string, error) {
	var st session.State
	if err := e.loop.PostWait(func() { st = session.Capture(e.buffers) }); err != nil {
		return "", err
	}
	return session.Encode(st)
}

// RestoreSession rebuilds real-buffer splits from persisted JSON. open
// supplies the backing store for each file path.
func (e *Editor) RestoreSession(data string, open func(path string) (textstore.Store, error)) error {
	st, err := session.Decode(data)
	if err != nil {
		return err
	}
	var rerr error
	if err := e.loop.PostWait(func() { rerr = session.Restore(e.buffers, st, open) }); err != nil {
		return err
	}
	return rerr
}

// Close shuts the editor down: the loop drains, then the scripting
// runtime stops.
func (e *Editor) Close() {
	e.shutdown()
}

func (e *Editor) shutdown() {
	e.loop.Close()
	if e.host != nil {
		e.host.Close()
	}
}

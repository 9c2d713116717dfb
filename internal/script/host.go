package script

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Injector installs API modules into a Lua state. Implemented by
// api.Registry; defined here so the host does not depend on the module
// set.
type Injector interface {
	InjectAll(L *lua.LState) error
}

// Host owns the scripting runtime: one sandboxed state, one executor
// goroutine, and the invoke surface the hook bridge dispatches through.
type Host struct {
	state  *State
	exec   *Executor
	bridge *Bridge
	log    *slog.Logger
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostLogger sets the host logger.
func WithHostLogger(l *slog.Logger) HostOption {
	return func(h *Host) { h.log = l }
}

// NewHost creates a host and installs the given API modules.
func NewHost(inj Injector, opts ...HostOption) (*Host, error) {
	h := &Host{
		state: NewState(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.bridge = NewBridge(h.state.L)
	h.exec = NewExecutor(h.state, 0)

	if inj != nil {
		if err := h.exec.Execute(func(L *lua.LState) error {
			return inj.InjectAll(L)
		}); err != nil {
			h.exec.Close()
			h.state.Close()
			return nil, fmt.Errorf("install api modules: %w", err)
		}
	}
	return h, nil
}

// LoadDir loads every *.lua file in dir in lexical order. A file that
// fails to load is logged and skipped; one broken extension must not
// take down the rest. Returns the paths that loaded cleanly.
func (h *Host) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read extension dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".lua") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	var loaded []string
	for _, path := range files {
		err := h.exec.Execute(func(L *lua.LState) error {
			return h.state.DoFile(path)
		})
		if err != nil {
			h.log.Warn("extension failed to load", "path", path, "error", err)
			continue
		}
		h.log.Info("extension loaded", "path", path)
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// DoString executes Lua source on the executor goroutine. Intended for
// tests and the debug console.
func (h *Host) DoString(code string) error {
	return h.exec.Execute(func(L *lua.LState) error {
		return h.state.DoString(code)
	})
}

// Invoke implements the hook bridge's runtime surface: resolve the
// action, call it with the payload as a table, and hand the converted
// result (or the fault) to reply. Never blocks the caller; reply runs on
// the executor goroutine.
func (h *Host) Invoke(action string, payload map[string]any, reply func(result any, err error)) {
	err := h.exec.Submit(func(L *lua.LState) error {
		fn, err := h.state.ResolveAction(action)
		if err != nil {
			reply(nil, err)
			return nil
		}

		var args []lua.LValue
		if payload != nil {
			args = append(args, h.bridge.ToLua(payload))
		}
		ret, err := h.state.CallFunction(fn, args...)
		if err != nil {
			reply(nil, &Fault{Action: action, Err: err})
			return nil
		}
		reply(h.bridge.ToGo(ret), nil)
		return nil
	})
	if err != nil {
		reply(nil, err)
	}
}

// Close shuts down the executor and the interpreter.
func (h *Host) Close() {
	h.exec.Close()
	h.state.Close()
}

// Package script embeds the Lua extension runtime. A State wraps a
// sandboxed gopher-lua interpreter; an Executor serializes all access to
// it on one goroutine; the Host ties both to the editor's hook bridge so
// handler actions can be invoked asynchronously by name.
package script

import (
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// State wraps gopher-lua for extension execution.
//
// LState is not goroutine-safe. All operations on a State must come from
// a single goroutine; the Host's executor provides that. The mutex here
// guards against accidental concurrent use from Go code.
type State struct {
	L *lua.LState

	mu     sync.Mutex
	closed bool
}

// NewState creates a Lua state with only the safe standard libraries
// opened. io, os and debug stay closed: extensions talk to the editor
// through the vellum module, not the system. require is restricted to
// preloaded and built-in safe modules.
func NewState() *State {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	installSafeRequire(L)
	return &State{L: L}
}

// installSafeRequire clears the disk search paths and replaces require
// with a whitelist: safe built-ins and modules preloaded through
// L.PreloadModule. Nothing loads from the filesystem.
func installSafeRequire(L *lua.LState) {
	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	safe := map[string]bool{
		"string": true,
		"table":  true,
		"math":   true,
		"vellum": true,
	}

	originalRequire := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safe[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

// DoFile executes a Lua file with panic recovery.
func (s *State) DoFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}
	return withRecovery(func() error { return s.L.DoFile(path) })
}

// DoString executes Lua source with panic recovery.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}
	return withRecovery(func() error { return s.L.DoString(code) })
}

// ResolveAction resolves a dotted action name ("git.show_log") to a Lua
// function through the global table.
func (s *State) ResolveAction(name string) (*lua.LFunction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStateClosed
	}

	var val lua.LValue = s.L.Get(lua.GlobalsIndex)
	for _, part := range strings.Split(name, ".") {
		tbl, ok := val.(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("action %q: %w", name, ErrUnknownAction)
		}
		val = tbl.RawGetString(part)
	}
	fn, ok := val.(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("action %q: %w", name, ErrUnknownAction)
	}
	return fn, nil
}

// CallFunction calls a Lua function with panic recovery and returns its
// first result.
func (s *State) CallFunction(fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	top := s.L.GetTop()
	s.L.Push(fn)
	for _, arg := range args {
		s.L.Push(arg)
	}

	err := withRecovery(func() error {
		return s.L.PCall(len(args), lua.MultRet, nil)
	})
	if err != nil {
		return lua.LNil, err
	}

	nRet := s.L.GetTop() - top
	if nRet <= 0 {
		return lua.LNil, nil
	}
	ret := s.L.Get(top + 1)
	s.L.Pop(nRet)
	return ret, nil
}

// LuaState exposes the underlying interpreter for module registration.
// Callers must stay on the executor goroutine.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the interpreter. Further calls return ErrStateClosed.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

func withRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

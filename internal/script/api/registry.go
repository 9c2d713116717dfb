// Package api defines the script-facing surface. Each Module installs a
// table under a _vellum_<name> global; the registry aggregates them into
// the module extensions load with require("vellum").
package api

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Module is one script-facing API module.
type Module interface {
	// Name returns the module name ("editor", "view", "ui").
	Name() string

	// Register installs the module functions into the Lua state under
	// the _vellum_<name> global.
	Register(L *lua.LState) error
}

// Registry manages API modules and their installation.
type Registry struct {
	modules []Module
	byName  map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Module)}
}

// Register adds a module.
func (r *Registry) Register(mod Module) error {
	if _, exists := r.byName[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules = append(r.modules, mod)
	r.byName[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	mod, ok := r.byName[name]
	return mod, ok
}

// InjectAll installs every module into the Lua state and preloads the
// vellum aggregate so require("vellum") works.
func (r *Registry) InjectAll(L *lua.LState) error {
	for _, mod := range r.modules {
		if err := mod.Register(L); err != nil {
			return fmt.Errorf("register module %q: %w", mod.Name(), err)
		}
	}
	return installVellumLoader(L, r.modules)
}

// installVellumLoader collects the _vellum_* globals into one table and
// preloads it as the "vellum" module.
func installVellumLoader(L *lua.LState, modules []Module) error {
	root := L.NewTable()
	for _, mod := range modules {
		globalName := "_vellum_" + mod.Name()
		val := L.GetGlobal(globalName)
		if val == lua.LNil {
			continue
		}
		L.SetField(root, mod.Name(), val)
		L.SetGlobal(globalName, lua.LNil)
	}

	L.SetField(root, "version", lua.LString("0.1.0"))

	L.PreloadModule("vellum", func(L *lua.LState) int {
		L.Push(root)
		return 1
	})
	return nil
}

// DefaultRegistry creates a registry with the standard modules.
func DefaultRegistry(ctx *Context) (*Registry, error) {
	r := NewRegistry()
	for _, mod := range []Module{
		NewEditorModule(ctx),
		NewViewModule(ctx),
		NewUIModule(ctx),
	} {
		if err := r.Register(mod); err != nil {
			return nil, err
		}
	}
	return r, nil
}

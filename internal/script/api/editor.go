package api

import (
	lua "github.com/yuin/gopher-lua"
)

// EditorModule implements the vellum.editor API module: mode
// definitions, command palette entries and hook subscriptions.
type EditorModule struct {
	ctx *Context
}

// NewEditorModule creates the editor module.
func NewEditorModule(ctx *Context) *EditorModule {
	return &EditorModule{ctx: ctx}
}

// Name returns the module name.
func (m *EditorModule) Name() string {
	return "editor"
}

// Register installs the module into the Lua state.
func (m *EditorModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "defineMode", L.NewFunction(m.defineMode))
	L.SetField(mod, "registerCommand", L.NewFunction(m.registerCommand))
	L.SetField(mod, "on", L.NewFunction(m.on))
	L.SetGlobal("_vellum_editor", mod)
	return nil
}

// defineMode(name, parent, bindings, read_only) -> nil
// Redefining a mode replaces its bindings.
func (m *EditorModule) defineMode(L *lua.LState) int {
	name := L.CheckString(1)
	parent := L.OptString(2, "")
	bindingsTable := L.OptTable(3, nil)
	readOnly := L.OptBool(4, false)

	if m.ctx.Editor == nil {
		L.RaiseError("defineMode: no editor available")
		return 0
	}

	var bindings []Binding
	if bindingsTable != nil {
		n := bindingsTable.Len()
		for i := 1; i <= n; i++ {
			entry, ok := bindingsTable.RawGetInt(i).(*lua.LTable)
			if !ok {
				L.ArgError(3, "bindings must be a list of tables")
				return 0
			}
			b, ok := parseBinding(entry)
			if !ok {
				L.ArgError(3, "each binding needs a key and an action")
				return 0
			}
			bindings = append(bindings, b)
		}
	}

	if err := m.ctx.Editor.DefineMode(name, parent, bindings, readOnly); err != nil {
		L.RaiseError("defineMode: %v", err)
		return 0
	}
	return 0
}

// parseBinding accepts {key = "g", action = "x"} and {"g", "x"} forms.
func parseBinding(t *lua.LTable) (Binding, bool) {
	key, kok := t.RawGetString("key").(lua.LString)
	action, aok := t.RawGetString("action").(lua.LString)
	if !kok {
		key, kok = t.RawGetInt(1).(lua.LString)
	}
	if !aok {
		action, aok = t.RawGetInt(2).(lua.LString)
	}
	if !kok || !aok || key == "" || action == "" {
		return Binding{}, false
	}
	return Binding{Key: string(key), Action: string(action)}, true
}

// registerCommand(display_name, description, action, required_mode) -> nil
func (m *EditorModule) registerCommand(L *lua.LState) int {
	display := L.CheckString(1)
	description := L.OptString(2, "")
	action := L.CheckString(3)
	requiredMode := L.OptString(4, "")

	if m.ctx.Editor == nil {
		L.RaiseError("registerCommand: no editor available")
		return 0
	}
	if err := m.ctx.Editor.RegisterCommand(display, description, action, requiredMode); err != nil {
		L.RaiseError("registerCommand: %v", err)
		return 0
	}
	return 0
}

// on(hook_point, handler_action) -> nil
// handler_action names a function in the script's globals; dotted paths
// work ("git.on_transform").
func (m *EditorModule) on(L *lua.LState) int {
	point := L.CheckString(1)
	action := L.CheckString(2)

	if m.ctx.Editor == nil {
		L.RaiseError("on: no editor available")
		return 0
	}
	if err := m.ctx.Editor.Subscribe(point, action); err != nil {
		L.RaiseError("on: %v", err)
		return 0
	}
	return 0
}

package api

import (
	lua "github.com/yuin/gopher-lua"
)

// UIModule implements the vellum.ui API module.
type UIModule struct {
	ctx *Context
}

// NewUIModule creates the ui module.
func NewUIModule(ctx *Context) *UIModule {
	return &UIModule{ctx: ctx}
}

// Name returns the module name.
func (m *UIModule) Name() string {
	return "ui"
}

// Register installs the module into the Lua state.
func (m *UIModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "getActiveSplitId", L.NewFunction(m.activeSplit))
	L.SetField(mod, "getActiveBufferId", L.NewFunction(m.activeBuffer))
	L.SetField(mod, "setStatus", L.NewFunction(m.setStatus))
	L.SetField(mod, "debug", L.NewFunction(m.debug))
	L.SetGlobal("_vellum_ui", mod)
	return nil
}

// getActiveSplitId() -> number
func (m *UIModule) activeSplit(L *lua.LState) int {
	if m.ctx.UI == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.ctx.UI.ActiveSplitID()))
	return 1
}

// getActiveBufferId() -> number
func (m *UIModule) activeBuffer(L *lua.LState) int {
	if m.ctx.UI == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.ctx.UI.ActiveBufferID()))
	return 1
}

// setStatus(text) -> nil
func (m *UIModule) setStatus(L *lua.LState) int {
	text := L.CheckString(1)
	if m.ctx.UI != nil {
		m.ctx.UI.SetStatus(text)
	}
	return 0
}

// debug(text) -> nil
func (m *UIModule) debug(L *lua.LState) int {
	text := L.CheckString(1)
	if m.ctx.UI != nil {
		m.ctx.UI.Debug(text)
	}
	return 0
}

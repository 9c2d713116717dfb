package api

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/woodruff/vellum/internal/script"
)

// ViewModule implements the vellum.view API module: virtual buffer
// lifecycle and the view transform completion entry point.
type ViewModule struct {
	ctx *Context
}

// NewViewModule creates the view module.
func NewViewModule(ctx *Context) *ViewModule {
	return &ViewModule{ctx: ctx}
}

// Name returns the module name.
func (m *ViewModule) Name() string {
	return "view"
}

// Register installs the module into the Lua state.
func (m *ViewModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "createVirtualBuffer", L.NewFunction(m.create(AttachNone)))
	L.SetField(mod, "createVirtualBufferInSplit", L.NewFunction(m.create(AttachNewSplit)))
	L.SetField(mod, "createVirtualBufferInExistingSplit", L.NewFunction(m.create(AttachExistingSplit)))
	L.SetField(mod, "setVirtualBufferContent", L.NewFunction(m.setContent))
	L.SetField(mod, "closeBuffer", L.NewFunction(m.closeBuffer))
	L.SetField(mod, "submitViewTransform", L.NewFunction(m.submitTransform))
	L.SetGlobal("_vellum_view", mod)
	return nil
}

// create builds the three createVirtualBuffer variants. Each takes an
// options table and returns the new buffer id, or nil on internal
// failure; an unknown mode or malformed options raise instead.
func (m *ViewModule) create(attach Attach) lua.LGFunction {
	return func(L *lua.LState) int {
		optsTable := L.CheckTable(1)
		if m.ctx.View == nil {
			L.RaiseError("createVirtualBuffer: no view available")
			return 0
		}

		bridge := script.NewBridge(L)
		opts := VirtualBufferOptions{Attach: attach, Ratio: 0.5}
		if s, ok := optsTable.RawGetString("name").(lua.LString); ok {
			opts.Name = string(s)
		}
		if s, ok := optsTable.RawGetString("mode").(lua.LString); ok {
			opts.Mode = string(s)
		}
		if b, ok := optsTable.RawGetString("read_only").(lua.LBool); ok {
			opts.ReadOnly = bool(b)
		}
		if b, ok := optsTable.RawGetString("show_line_numbers").(lua.LBool); ok {
			opts.ShowLineNumbers = bool(b)
		}
		if b, ok := optsTable.RawGetString("editing_disabled").(lua.LBool); ok {
			opts.EditingDisabled = bool(b)
		}
		if n, ok := optsTable.RawGetString("split_id").(lua.LNumber); ok {
			opts.SplitID = int(n)
		}
		if n, ok := optsTable.RawGetString("ratio").(lua.LNumber); ok {
			opts.Ratio = float64(n)
		}
		if s, ok := optsTable.RawGetString("panel_id").(lua.LString); ok {
			opts.PanelID = string(s)
		}
		if t, ok := optsTable.RawGetString("entries").(*lua.LTable); ok {
			if arr, ok := bridge.ToGo(t).([]any); ok {
				opts.Entries = arr
			}
		}

		id, err := m.ctx.View.CreateVirtualBuffer(opts)
		if err != nil {
			if errors.Is(err, ErrInvalidArgument) {
				L.RaiseError("createVirtualBuffer: %v", err)
				return 0
			}
			// Internal failure is a nil return, not a fault; callers
			// must check.
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(id))
		return 1
	}
}

// setVirtualBufferContent(buffer_id, entries) -> nil
func (m *ViewModule) setContent(L *lua.LState) int {
	id := L.CheckInt(1)
	entriesTable := L.CheckTable(2)

	if m.ctx.View == nil {
		L.RaiseError("setVirtualBufferContent: no view available")
		return 0
	}

	entries, _ := script.NewBridge(L).ToGo(entriesTable).([]any)
	if err := m.ctx.View.SetVirtualBufferContent(id, entries); err != nil {
		L.RaiseError("setVirtualBufferContent: %v", err)
		return 0
	}
	return 0
}

// closeBuffer(buffer_id) -> nil
func (m *ViewModule) closeBuffer(L *lua.LState) int {
	id := L.CheckInt(1)

	if m.ctx.View == nil {
		L.RaiseError("closeBuffer: no view available")
		return 0
	}
	if err := m.ctx.View.CloseBuffer(id); err != nil {
		L.RaiseError("closeBuffer: %v", err)
		return 0
	}
	return 0
}

// submitViewTransform(buffer_id, split_id, viewport_start, viewport_end,
// tokens, cursor_hint) -> bool
// Returns false when the targeted request is no longer current; the
// submission is then a no-op.
func (m *ViewModule) submitTransform(L *lua.LState) int {
	bufID := L.CheckInt(1)
	splitID := L.CheckInt(2)
	start := L.CheckInt(3)
	end := L.CheckInt(4)
	tokensTable := L.CheckTable(5)
	hintVal := L.Get(6)

	if m.ctx.View == nil {
		L.RaiseError("submitViewTransform: no view available")
		return 0
	}

	bridge := script.NewBridge(L)
	tokens, _ := bridge.ToGo(tokensTable).([]any)
	var hint any
	if hintVal != lua.LNil {
		hint = bridge.ToGo(hintVal)
	}

	current := m.ctx.View.SubmitViewTransform(bufID, splitID, start, end, tokens, hint)
	L.Push(lua.LBool(current))
	return 1
}

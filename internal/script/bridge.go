package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Bridge converts values across the Go/Lua boundary. Tables with
// contiguous integer keys from 1 become slices; everything else becomes
// a string-keyed map. Cycles are broken by returning nil for a table
// already being converted.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a bridge for the given interpreter.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToGo converts a Lua value to a Go value.
func (b *Bridge) ToGo(lv lua.LValue) any {
	return b.toGo(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return b.tableToGo(v, visited)
	default:
		return nil
	}
}

func (b *Bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	isArray := true
	maxN, count := 0, 0
	t.ForEach(func(k, _ lua.LValue) {
		count++
		if kn, ok := k.(lua.LNumber); ok {
			n := int(kn)
			if float64(n) == float64(kn) && n > 0 {
				if n > maxN {
					maxN = n
				}
				return
			}
		}
		isArray = false
	})

	if isArray && maxN > 0 && count == maxN {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = b.toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = b.toGo(v, visited)
	})
	return m
}

// ToLua converts a Go value to a Lua value.
func (b *Bridge) ToLua(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := b.L.NewTable()
		for i, e := range val {
			t.RawSetInt(i+1, b.ToLua(e))
		}
		return t
	case []string:
		t := b.L.NewTable()
		for i, e := range val {
			t.RawSetInt(i+1, lua.LString(e))
		}
		return t
	case map[string]any:
		t := b.L.NewTable()
		for k, e := range val {
			t.RawSetString(k, b.ToLua(e))
		}
		return t
	case lua.LValue:
		return val
	default:
		return lua.LNil
	}
}

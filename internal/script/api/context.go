package api

// Binding is one (key spec, action name) pair in a mode definition.
type Binding struct {
	Key    string
	Action string
}

// Attach selects how a new virtual buffer is shown.
type Attach int

const (
	// AttachNone creates the buffer without showing it.
	AttachNone Attach = iota
	// AttachNewSplit opens a new split for the buffer.
	AttachNewSplit
	// AttachExistingSplit replaces the buffer shown in an existing
	// split.
	AttachExistingSplit
)

// VirtualBufferOptions carries the createVirtualBuffer options across
// the boundary in wire form; entries stay raw for the buffer codec.
type VirtualBufferOptions struct {
	Name            string
	Mode            string
	ReadOnly        bool
	ShowLineNumbers bool
	EditingDisabled bool
	Entries         []any
	Attach          Attach
	SplitID         int
	Ratio           float64
	PanelID         string
}

// EditorProvider backs the editor module: modes, commands and hook
// subscriptions.
type EditorProvider interface {
	DefineMode(name, parent string, bindings []Binding, readOnly bool) error
	RegisterCommand(displayName, description, action, requiredMode string) error
	Subscribe(point, handlerAction string) error
}

// ViewProvider backs the view module: virtual buffers and the transform
// completion entry point.
type ViewProvider interface {
	CreateVirtualBuffer(opts VirtualBufferOptions) (int, error)
	SetVirtualBufferContent(id int, entries []any) error
	CloseBuffer(id int) error

	// SubmitViewTransform reports whether the targeted request was
	// still current.
	SubmitViewTransform(bufID, splitID, start, end int, tokens []any, cursorHint any) bool
}

// UIProvider backs the ui module.
type UIProvider interface {
	ActiveSplitID() int
	ActiveBufferID() int
	SetStatus(text string)
	Debug(text string)
}

// Context gives modules access to the editor. Provider calls happen on
// the script goroutine; implementations marshal onto the editor loop.
type Context struct {
	Editor EditorProvider
	View   ViewProvider
	UI     UIProvider
}

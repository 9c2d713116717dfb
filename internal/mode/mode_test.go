package mode

import (
	"errors"
	"testing"

	"github.com/woodruff/vellum/internal/key"
)

func mustChord(t *testing.T, spec string) key.Chord {
	t.Helper()
	c, err := key.Parse(spec)
	if err != nil {
		t.Fatalf("Parse(%q): %v", spec, err)
	}
	return c
}

func TestDefineModeReplaces(t *testing.T) {
	r := NewRegistry()
	g := mustChord(t, "g")

	if err := r.DefineMode("log", "", []Binding{{Chord: g, Action: "log.old"}}, true); err != nil {
		t.Fatal(err)
	}
	if err := r.DefineMode("log", "", []Binding{{Chord: g, Action: "log.new"}}, true); err != nil {
		t.Fatal(err)
	}

	res, err := r.Resolve("log", g)
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != "log.new" {
		t.Errorf("action = %q, want log.new", res.Action)
	}
}

func TestDefineModeValidation(t *testing.T) {
	r := NewRegistry()
	if err := r.DefineMode("", "", nil, false); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("empty name: err = %v", err)
	}
	if err := r.DefineMode("x", "x", nil, false); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("self parent: err = %v", err)
	}
}

func TestResolveFallbackChain(t *testing.T) {
	r := NewRegistry()
	_ = r.DefineMode("base", "", []Binding{{Chord: mustChord(t, "q"), Action: "quit"}}, false)
	_ = r.DefineMode("child", "base", []Binding{{Chord: mustChord(t, "g"), Action: "goto"}}, false)

	res, err := r.Resolve("child", mustChord(t, "q"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionAction || res.Action != "quit" {
		t.Errorf("res = %+v, want parent binding", res)
	}
}

func TestResolveChildShadowsParent(t *testing.T) {
	r := NewRegistry()
	q := mustChord(t, "q")
	_ = r.DefineMode("base", "", []Binding{{Chord: q, Action: "base.quit"}}, false)
	_ = r.DefineMode("child", "base", []Binding{{Chord: q, Action: "child.quit"}}, false)

	res, _ := r.Resolve("child", q)
	if res.Action != "child.quit" {
		t.Errorf("action = %q, child binding should shadow parent", res.Action)
	}
}

func TestResolveReadOnlySwallows(t *testing.T) {
	r := NewRegistry()
	_ = r.DefineMode("viewer", "", nil, true)

	res, _ := r.Resolve("viewer", mustChord(t, "x"))
	if res.Decision != DecisionSwallow {
		t.Errorf("decision = %v, want DecisionSwallow", res.Decision)
	}
}

func TestResolveEditableDefaults(t *testing.T) {
	r := NewRegistry()
	_ = r.DefineMode("insert", "", nil, false)

	res, _ := r.Resolve("insert", mustChord(t, "x"))
	if res.Decision != DecisionInsert {
		t.Errorf("printable: decision = %v, want DecisionInsert", res.Decision)
	}

	res, _ = r.Resolve("insert", mustChord(t, "f5"))
	if res.Decision != DecisionNoOp {
		t.Errorf("non-printable: decision = %v, want DecisionNoOp", res.Decision)
	}

	res, _ = r.Resolve("insert", mustChord(t, "ctrl+x"))
	if res.Decision != DecisionNoOp {
		t.Errorf("modified rune: decision = %v, want DecisionNoOp", res.Decision)
	}
}

func TestResolveUnknownMode(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Resolve("nope", mustChord(t, "x")); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("err = %v, want ErrUnknownMode", err)
	}
}

func TestResolveParentCycleTerminates(t *testing.T) {
	r := NewRegistry()
	_ = r.DefineMode("a", "b", nil, false)
	_ = r.DefineMode("b", "a", nil, true)

	// Must terminate; the last mode visited before the cycle closes is
	// treated as the root.
	res, err := r.Resolve("a", mustChord(t, "x"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionSwallow {
		t.Errorf("decision = %v, want DecisionSwallow from read-only end of chain", res.Decision)
	}
}

func TestResolveDanglingParent(t *testing.T) {
	r := NewRegistry()
	_ = r.DefineMode("child", "missing", nil, false)

	res, err := r.Resolve("child", mustChord(t, "x"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionInsert {
		t.Errorf("decision = %v, chain should end at the defined mode", res.Decision)
	}
}

func TestRegisterCommandKeepsDuplicates(t *testing.T) {
	r := NewRegistry()
	cmd := Command{DisplayName: "Git Log", Action: "git.log"}
	_ = r.RegisterCommand(cmd)
	_ = r.RegisterCommand(cmd)

	if got := len(r.Commands()); got != 2 {
		t.Errorf("commands = %d, duplicates should both be kept", got)
	}
}

func TestRegisterCommandValidation(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterCommand(Command{Action: "x"}); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("missing name: err = %v", err)
	}
	if err := r.RegisterCommand(Command{DisplayName: "x"}); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("missing action: err = %v", err)
	}
}

func TestCommandsFor(t *testing.T) {
	r := NewRegistry()
	_ = r.RegisterCommand(Command{DisplayName: "Any", Action: "any"})
	_ = r.RegisterCommand(Command{DisplayName: "Log only", Action: "log.x", RequiredMode: "log"})
	_ = r.RegisterCommand(Command{DisplayName: "Diff only", Action: "diff.x", RequiredMode: "diff"})

	got := r.CommandsFor("log")
	if len(got) != 2 {
		t.Fatalf("commands = %d, want wildcard + log", len(got))
	}
	if got[0].Action != "any" || got[1].Action != "log.x" {
		t.Errorf("commands = %+v", got)
	}
}

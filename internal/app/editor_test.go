package app

import (
	"strings"
	"testing"
	"time"

	"github.com/woodruff/vellum/internal/buffer"
	"github.com/woodruff/vellum/internal/config"
	"github.com/woodruff/vellum/internal/key"
	"github.com/woodruff/vellum/internal/textstore"
	"github.com/woodruff/vellum/internal/token"
	"github.com/woodruff/vellum/internal/view"
)

func testConfig() config.Config {
	return config.Config{
		TransformTimeout: 2 * time.Second,
		DefaultMode:      "normal",
		StatusHistory:    10,
	}
}

func newTestEditor(t *testing.T, cfg config.Config, opts ...Option) (*Editor, chan view.Commit) {
	t.Helper()
	commits := make(chan view.Commit, 16)
	ed, err := New(cfg, func(c view.Commit) { commits <- c }, opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ed.Close)
	return ed, commits
}

func waitCommit(t *testing.T, commits chan view.Commit) view.Commit {
	t.Helper()
	select {
	case c := <-commits:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no commit arrived")
		return view.Commit{}
	}
}

func waitStatus(t *testing.T, ed *Editor, substr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(ed.Status(), substr) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("status = %q, want substring %q", ed.Status(), substr)
}

func flattenText(tokens []token.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Kind == token.KindNewline {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

func TestOpenFileCommitsBaseTokens(t *testing.T) {
	ed, commits := newTestEditor(t, testConfig())

	store := textstore.NewMemStore("hello\nworld")
	id, err := ed.OpenFile("/tmp/hello.txt", store)
	if err != nil {
		t.Fatal(err)
	}

	c := waitCommit(t, commits)
	if c.Buffer != id {
		t.Errorf("commit buffer = %d, want %d", c.Buffer, id)
	}
	if got := flattenText(c.Tokens); got != "hello\nworld" {
		t.Errorf("committed text = %q", got)
	}
}

func TestKeyBindingInvokesScriptAction(t *testing.T) {
	ed, _ := newTestEditor(t, testConfig())

	err := ed.host.DoString(`
		local vellum = require("vellum")
		vellum.editor.defineMode("normal", "", {
			{ key = "ctrl+l", action = "remember" },
		})
		function remember(env)
			vellum.ui.setStatus("remembered buffer " .. env.buffer_id)
		end
	`)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ed.OpenFile("/tmp/a.txt", textstore.NewMemStore("x")); err != nil {
		t.Fatal(err)
	}

	chord, err := key.Parse("ctrl+l")
	if err != nil {
		t.Fatal(err)
	}
	ed.HandleKey(chord)
	waitStatus(t, ed, "remembered buffer 1")
}

func TestUnboundPrintableInsertsInDefaultMode(t *testing.T) {
	type insertion struct {
		buf buffer.ID
		r   rune
	}
	inserted := make(chan insertion, 1)

	ed, _ := newTestEditor(t, testConfig(), WithInsertFunc(func(buf buffer.ID, r rune) {
		inserted <- insertion{buf, r}
	}))

	id, err := ed.OpenFile("/tmp/a.txt", textstore.NewMemStore("x"))
	if err != nil {
		t.Fatal(err)
	}

	ed.HandleKey(key.RuneChord('q'))
	select {
	case ins := <-inserted:
		if ins.buf != id || ins.r != 'q' {
			t.Errorf("inserted %q into buffer %d", ins.r, ins.buf)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("printable rune never reached the insert sink")
	}
}

func TestReadOnlyModeSwallowsPrintable(t *testing.T) {
	ed, commits := newTestEditor(t, testConfig(), WithInsertFunc(func(buffer.ID, rune) {
		t.Error("insert sink called for a read-only mode")
	}))

	err := ed.host.DoString(`
		local vellum = require("vellum")
		vellum.editor.defineMode("pager", "", {}, true)
		vellum.view.createVirtualBufferInSplit({
			name = "pager://help",
			mode = "pager",
			read_only = true,
			entries = { { text = "line one" } },
		})
	`)
	if err != nil {
		t.Fatal(err)
	}
	waitCommit(t, commits)

	ed.HandleKey(key.RuneChord('q'))
	// Settle the loop so a stray insert would have fired by now.
	if err := ed.loop.PostWait(func() {}); err != nil {
		t.Fatal(err)
	}
}

func TestScriptTransformRewritesCommit(t *testing.T) {
	ed, commits := newTestEditor(t, testConfig())

	err := ed.host.DoString(`
		local vellum = require("vellum")
		function on_transform(req)
			local out = { { kind = { Text = "HEADER" } }, { kind = "Newline" } }
			for i, tok in ipairs(req.tokens) do
				out[#out + 1] = tok
			end
			vellum.view.submitViewTransform(
				req.buffer_id, req.split_id,
				req.viewport_start, req.viewport_end,
				out, nil)
		end
		vellum.editor.on("view_transform_request", "on_transform")
	`)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ed.OpenFile("/tmp/a.txt", textstore.NewMemStore("body")); err != nil {
		t.Fatal(err)
	}

	c := waitCommit(t, commits)
	if got := flattenText(c.Tokens); got != "HEADER\nbody" {
		t.Errorf("committed text = %q, want %q", got, "HEADER\nbody")
	}
	if !c.Tokens[0].IsSynthetic() {
		t.Error("prepended header should be synthetic")
	}
}

func TestTransformTimeoutCommitsBase(t *testing.T) {
	cfg := testConfig()
	cfg.TransformTimeout = 50 * time.Millisecond
	ed, commits := newTestEditor(t, cfg)

	err := ed.host.DoString(`
		local vellum = require("vellum")
		function stall(req) end
		vellum.editor.on("view_transform_request", "stall")
	`)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ed.OpenFile("/tmp/a.txt", textstore.NewMemStore("base text")); err != nil {
		t.Fatal(err)
	}

	c := waitCommit(t, commits)
	if got := flattenText(c.Tokens); got != "base text" {
		t.Errorf("committed text = %q, want base stream", got)
	}
}

func TestScriptFaultSurfacesOnStatusLine(t *testing.T) {
	ed, _ := newTestEditor(t, testConfig())

	err := ed.host.DoString(`
		local vellum = require("vellum")
		vellum.editor.defineMode("normal", "", {
			{ key = "ctrl+b", action = "blow_up" },
		})
		function blow_up(env)
			error("boom")
		end
	`)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ed.OpenFile("/tmp/a.txt", textstore.NewMemStore("x")); err != nil {
		t.Fatal(err)
	}

	chord, err := key.Parse("ctrl+b")
	if err != nil {
		t.Fatal(err)
	}
	ed.HandleKey(chord)
	waitStatus(t, ed, "error in blow_up")
}

func TestRunCommand(t *testing.T) {
	ed, _ := newTestEditor(t, testConfig())

	err := ed.host.DoString(`
		local vellum = require("vellum")
		vellum.editor.registerCommand("Say Hello", "greets", "greet")
		function greet(env)
			vellum.ui.setStatus("hello from command")
		end
	`)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ed.OpenFile("/tmp/a.txt", textstore.NewMemStore("x")); err != nil {
		t.Fatal(err)
	}

	ed.RunCommand("Say Hello")
	waitStatus(t, ed, "hello from command")

	ed.RunCommand("No Such Thing")
	waitStatus(t, ed, "no such command")
}

func TestDispatchHookUnhandled(t *testing.T) {
	ed, _ := newTestEditor(t, testConfig())

	if _, err := ed.OpenFile("/tmp/a.txt", textstore.NewMemStore("x")); err != nil {
		t.Fatal(err)
	}

	ed.DispatchHook("manual_page", map[string]any{"word": "printf"})
	waitStatus(t, ed, "manual_page: not handled")
}

func TestDispatchHookHandled(t *testing.T) {
	ed, _ := newTestEditor(t, testConfig())

	err := ed.host.DoString(`
		local vellum = require("vellum")
		function show_man(env)
			vellum.ui.setStatus("man " .. env.word)
			return true
		end
		vellum.editor.on("manual_page", "show_man")
	`)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ed.OpenFile("/tmp/a.txt", textstore.NewMemStore("x")); err != nil {
		t.Fatal(err)
	}

	ed.DispatchHook("manual_page", map[string]any{"word": "printf"})
	waitStatus(t, ed, "man printf")
}

func TestSessionRoundTrip(t *testing.T) {
	ed, _ := newTestEditor(t, testConfig())

	if _, err := ed.OpenFile("/a.txt", textstore.NewMemStore("aaa")); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.OpenFile("/b.txt", textstore.NewMemStore("bbb")); err != nil {
		t.Fatal(err)
	}

	data, err := ed.SaveSession()
	if err != nil {
		t.Fatal(err)
	}

	ed2, _ := newTestEditor(t, testConfig())
	opened := map[string]bool{}
	err = ed2.RestoreSession(data, func(path string) (textstore.Store, error) {
		opened[path] = true
		return textstore.NewMemStore("restored"), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !opened["/a.txt"] || !opened["/b.txt"] {
		t.Errorf("opened = %v", opened)
	}
}

func TestScriptCreatesVirtualBufferEndToEnd(t *testing.T) {
	ed, commits := newTestEditor(t, testConfig())

	err := ed.host.DoString(`
		local vellum = require("vellum")
		local id = vellum.view.createVirtualBufferInSplit({
			name = "git://log",
			entries = {
				{ text = "commit one", source_offset = 0 },
				{ text = "commit two", source_offset = 11 },
			},
		})
		vellum.ui.setStatus("created " .. id)
	`)
	if err != nil {
		t.Fatal(err)
	}
	waitStatus(t, ed, "created 1")

	c := waitCommit(t, commits)
	if got := flattenText(c.Tokens); got != "commit one\ncommit two" {
		t.Errorf("committed text = %q", got)
	}
}

// Package view drives the redraw pipeline: tokenize the viewport, offer
// the base stream to a script transform through the hook bridge, and
// commit a validated stream to the paint layer. Each (buffer, split)
// pair runs its own small state machine; a newer redraw always
// supersedes the run in flight.
package view

import (
	"log/slog"

	"github.com/woodruff/vellum/internal/buffer"
	"github.com/woodruff/vellum/internal/hook"
	"github.com/woodruff/vellum/internal/token"
)

// PointViewTransform is the exactly-once hook point the pipeline
// dispatches base tokens on.
const PointViewTransform = "view_transform_request"

// State of one (buffer, split) pipeline run.
type State int

const (
	// StateIdle means no run is in flight.
	StateIdle State = iota
	// StateTokenizing covers viewport tokenization. It is transient
	// within a Redraw call and mostly visible to tests.
	StateTokenizing
	// StateAwaitingTransform means base tokens were dispatched and the
	// pipeline is waiting for the completion, the timeout, or a
	// superseding redraw.
	StateAwaitingTransform
	// StateCommitted means the last run handed a stream to the paint
	// layer.
	StateCommitted
	// StateCancelled means the last run was superseded before it
	// committed.
	StateCancelled
)

// Commit is one committed token stream, ready for the paint layer.
type Commit struct {
	Buffer     buffer.ID
	Split      buffer.SplitID
	Viewport   buffer.Viewport
	Tokens     []token.Token
	CursorHint any // opaque script-supplied mapping hint
}

// CommitFunc consumes committed streams. Called on the editor loop
// goroutine.
type CommitFunc func(Commit)

type run struct {
	state       State
	correlation string
	viewport    buffer.Viewport
	base        []token.Token
}

// submission is the payload an explicit completion carries through the
// bridge.
type submission struct {
	tokens []token.Token
	hint   any
}

// Pipeline owns the per-target state machines. Confined to the editor
// loop goroutine.
type Pipeline struct {
	bridge  *hook.Bridge
	buffers *buffer.Registry
	commit  CommitFunc
	log     *slog.Logger
	runs    map[hook.Target]*run
}

// NewPipeline creates a pipeline and declares its hook point on the
// bridge.
func NewPipeline(bridge *hook.Bridge, buffers *buffer.Registry, commit CommitFunc, log *slog.Logger) (*Pipeline, error) {
	if err := bridge.DeclarePoint(PointViewTransform, hook.PolicyExactlyOnce); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		bridge:  bridge,
		buffers: buffers,
		commit:  commit,
		log:     log,
		runs:    make(map[hook.Target]*run),
	}, nil
}

// State returns the state of the target's last or current run.
func (p *Pipeline) State(target hook.Target) State {
	if r, ok := p.runs[target]; ok {
		return r.state
	}
	return StateIdle
}

// Redraw runs the pipeline for a split's current viewport. A run already
// in flight for the same pair is cancelled; its late completion will be
// dropped by correlation-id mismatch.
func (p *Pipeline) Redraw(bufID buffer.ID, splitID buffer.SplitID) error {
	buf, err := p.buffers.Buffer(bufID)
	if err != nil {
		return err
	}
	split, err := p.buffers.Split(splitID)
	if err != nil {
		return err
	}
	target := hook.Target{Buffer: bufID, Split: splitID}

	if old, ok := p.runs[target]; ok && old.state == StateAwaitingTransform {
		p.bridge.Cancel(PointViewTransform, target)
		old.state = StateCancelled
	}

	r := &run{state: StateTokenizing, viewport: split.Viewport()}
	p.runs[target] = r

	r.base, err = Tokenize(buf, r.viewport)
	if err != nil {
		r.state = StateCancelled
		return err
	}

	if !p.bridge.HasSubscriber(PointViewTransform, bufID) {
		p.commitRun(target, r, r.base, nil)
		return nil
	}

	payload := map[string]any{
		"buffer_id":      int(bufID),
		"split_id":       int(splitID),
		"viewport_start": r.viewport.Start,
		"viewport_end":   r.viewport.End,
		"tokens":         token.Encode(r.base),
	}
	r.state = StateAwaitingTransform
	r.correlation, err = p.bridge.DispatchOnce(PointViewTransform, target, payload,
		func(result any, ok bool) { p.finish(target, r, result, ok) })
	if err != nil {
		// Racy subscriber removal between the check and the dispatch
		// cannot happen on one goroutine, but fail safe to base tokens.
		p.commitRun(target, r, r.base, nil)
	}
	return nil
}

// SubmitTransform is the explicit completion entry point. It is a no-op
// returning false when the targeted request is no longer current: wrong
// viewport, superseded run, or no run awaiting at all.
func (p *Pipeline) SubmitTransform(bufID buffer.ID, splitID buffer.SplitID, start, end int, tokens []token.Token, hint any) bool {
	target := hook.Target{Buffer: bufID, Split: splitID}
	r, ok := p.runs[target]
	if !ok || r.state != StateAwaitingTransform {
		return false
	}
	if r.viewport.Start != start || r.viewport.End != end {
		p.log.Debug("transform submission for stale viewport dropped",
			"buffer", bufID, "split", splitID,
			"got_start", start, "got_end", end)
		return false
	}
	return p.bridge.Complete(PointViewTransform, target, r.correlation, &submission{tokens: tokens, hint: hint})
}

// CancelBuffer drops every run for the buffer and tells the bridge to
// cancel its dispatches and subscriptions. Called when a buffer closes.
func (p *Pipeline) CancelBuffer(bufID buffer.ID) {
	for target, r := range p.runs {
		if target.Buffer == bufID {
			if r.state == StateAwaitingTransform {
				r.state = StateCancelled
			}
			delete(p.runs, target)
		}
	}
	p.bridge.CancelBuffer(bufID)
}

// finish handles the completion of an awaiting run: a validated
// transform commits, an invalid one falls back to base, and a timeout or
// fault commits base unchanged.
func (p *Pipeline) finish(target hook.Target, r *run, result any, ok bool) {
	if p.runs[target] != r || r.state != StateAwaitingTransform {
		// Superseded between dispatch and completion.
		return
	}
	if !ok {
		p.commitRun(target, r, r.base, nil)
		return
	}

	sub, good := result.(*submission)
	if !good {
		p.log.Error("transform completion carried an unexpected payload",
			"buffer", target.Buffer, "split", target.Split)
		p.commitRun(target, r, r.base, nil)
		return
	}
	if err := token.Validate(sub.tokens); err != nil {
		p.log.Warn("transformed stream rejected, committing base tokens",
			"buffer", target.Buffer, "split", target.Split, "error", err)
		p.commitRun(target, r, r.base, nil)
		return
	}
	p.commitRun(target, r, sub.tokens, sub.hint)
}

func (p *Pipeline) commitRun(target hook.Target, r *run, tokens []token.Token, hint any) {
	r.state = StateCommitted
	p.commit(Commit{
		Buffer:     target.Buffer,
		Split:      target.Split,
		Viewport:   r.viewport,
		Tokens:     tokens,
		CursorHint: hint,
	})
}

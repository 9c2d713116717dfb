// Package hook routes editor events across the native/script boundary.
// A hook point is declared with a dispatch policy before use; scripts
// subscribe handler actions to points. Dispatch never blocks the native
// side: every dispatch is tagged with a correlation id and the bridge
// returns immediately, resuming when the runtime replies, an explicit
// completion arrives, or the timeout fires.
package hook

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/woodruff/vellum/internal/buffer"
)

// Policy selects how a point dispatches to its subscribers.
type Policy int

const (
	// PolicyFireAndContinue invokes subscribers in registration order
	// until one reports handled.
	PolicyFireAndContinue Policy = iota

	// PolicyExactlyOnce allows at most one outstanding dispatch per
	// target; a newer dispatch supersedes the old.
	PolicyExactlyOnce
)

// GlobalScope subscribes a handler for every buffer.
const GlobalScope buffer.ID = 0

// Target identifies the buffer and split an exactly-once dispatch is for.
type Target struct {
	Buffer buffer.ID
	Split  buffer.SplitID
}

// Subscription is one handler registration on a point.
type Subscription struct {
	Action string
	Scope  buffer.ID // GlobalScope or a specific buffer
}

// Runtime invokes a handler action in the scripting runtime. Invoke must
// not block; reply is called exactly once, possibly from another
// goroutine, with the handler's return value or its fault.
type Runtime interface {
	Invoke(action string, payload map[string]any, reply func(result any, err error))
}

// CompleteFunc receives the outcome of an exactly-once dispatch. ok is
// false when the request ended with no response (timeout or fault).
type CompleteFunc func(result any, ok bool)

type pending struct {
	id       string
	complete CompleteFunc
	timer    *time.Timer
}

type point struct {
	policy      Policy
	subs        []Subscription
	outstanding map[Target]*pending
}

type fireChain struct {
	scope     buffer.ID
	cancelled bool
}

// Bridge owns the hook points. It is confined to the editor loop
// goroutine; runtime replies and timer callbacks re-enter through post.
type Bridge struct {
	rt      Runtime
	post    func(func())
	log     *slog.Logger
	timeout time.Duration
	points  map[string]*point
	fires   map[*fireChain]struct{}
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTimeout sets the bound on exactly-once dispatches.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.timeout = d }
}

// WithLogger sets the bridge logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) { b.log = l }
}

// NewBridge creates a bridge. post must schedule a function onto the
// editor loop goroutine.
func NewBridge(rt Runtime, post func(func()), opts ...Option) *Bridge {
	b := &Bridge{
		rt:      rt,
		post:    post,
		log:     slog.Default(),
		timeout: 100 * time.Millisecond,
		points:  make(map[string]*point),
		fires:   make(map[*fireChain]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DeclarePoint registers a hook point with its policy. Redeclaring with
// the same policy is a no-op; changing the policy of a live point is an
// error.
func (b *Bridge) DeclarePoint(name string, policy Policy) error {
	if name == "" {
		return fmt.Errorf("empty point name: %w", ErrInvalidPoint)
	}
	if p, ok := b.points[name]; ok {
		if p.policy != policy {
			return fmt.Errorf("point %q already declared with a different policy: %w", name, ErrPolicyMismatch)
		}
		return nil
	}
	b.points[name] = &point{
		policy:      policy,
		outstanding: make(map[Target]*pending),
	}
	return nil
}

// Subscribe appends a handler action to a point's subscription list.
// scope restricts the subscription to one buffer; GlobalScope matches
// all buffers.
func (b *Bridge) Subscribe(pointName, action string, scope buffer.ID) error {
	p, ok := b.points[pointName]
	if !ok {
		return fmt.Errorf("point %q: %w", pointName, ErrUnknownPoint)
	}
	if action == "" {
		return fmt.Errorf("empty handler action: %w", ErrInvalidPoint)
	}
	p.subs = append(p.subs, Subscription{Action: action, Scope: scope})
	return nil
}

// HasSubscriber reports whether any subscription on the point applies to
// the buffer.
func (b *Bridge) HasSubscriber(pointName string, buf buffer.ID) bool {
	p, ok := b.points[pointName]
	if !ok {
		return false
	}
	for _, s := range p.subs {
		if s.Scope == GlobalScope || s.Scope == buf {
			return true
		}
	}
	return false
}

// DispatchFire runs a fire-and-continue dispatch: subscribers applying
// to buf are invoked in registration order; a truthy handled result
// short-circuits the rest. A faulting handler is logged and treated as
// not handled. done, if non-nil, receives whether any subscriber
// handled the event.
func (b *Bridge) DispatchFire(pointName string, buf buffer.ID, payload map[string]any, done func(handled bool)) error {
	p, ok := b.points[pointName]
	if !ok {
		return fmt.Errorf("point %q: %w", pointName, ErrUnknownPoint)
	}
	if p.policy != PolicyFireAndContinue {
		return fmt.Errorf("point %q is not fire-and-continue: %w", pointName, ErrPolicyMismatch)
	}

	var subs []Subscription
	for _, s := range p.subs {
		if s.Scope == GlobalScope || s.Scope == buf {
			subs = append(subs, s)
		}
	}

	chain := &fireChain{scope: buf}
	b.fires[chain] = struct{}{}

	var next func(i int)
	next = func(i int) {
		if chain.cancelled {
			delete(b.fires, chain)
			return
		}
		if i >= len(subs) {
			delete(b.fires, chain)
			if done != nil {
				done(false)
			}
			return
		}
		sub := subs[i]
		id := uuid.NewString()
		b.rt.Invoke(sub.Action, payload, func(result any, err error) {
			b.post(func() {
				if chain.cancelled {
					delete(b.fires, chain)
					return
				}
				if err != nil {
					b.log.Warn("hook handler fault",
						"point", pointName, "action", sub.Action,
						"correlation", id, "error", err)
					next(i + 1)
					return
				}
				if truthy(result) {
					delete(b.fires, chain)
					if done != nil {
						done(true)
					}
					return
				}
				next(i + 1)
			})
		})
	}
	next(0)
	return nil
}

// DispatchOnce starts an exactly-once dispatch for a target and returns
// its correlation id. Any outstanding dispatch for the same target is
// superseded and silently dropped. complete fires exactly once: with the
// result of an explicit Complete call, or with ok=false on timeout or
// handler fault. A handler's normal return does not complete the
// request; the completion entry point does.
func (b *Bridge) DispatchOnce(pointName string, target Target, payload map[string]any, complete CompleteFunc) (string, error) {
	p, ok := b.points[pointName]
	if !ok {
		return "", fmt.Errorf("point %q: %w", pointName, ErrUnknownPoint)
	}
	if p.policy != PolicyExactlyOnce {
		return "", fmt.Errorf("point %q is not exactly-once: %w", pointName, ErrPolicyMismatch)
	}

	var sub *Subscription
	for i := range p.subs {
		if p.subs[i].Scope == GlobalScope || p.subs[i].Scope == target.Buffer {
			sub = &p.subs[i]
			break
		}
	}
	if sub == nil {
		return "", fmt.Errorf("point %q has no subscriber for buffer %d: %w", pointName, target.Buffer, ErrNoSubscriber)
	}

	if old, ok := p.outstanding[target]; ok {
		old.timer.Stop()
		delete(p.outstanding, target)
		b.log.Debug("hook dispatch superseded",
			"point", pointName, "correlation", old.id)
	}

	id := uuid.NewString()
	pend := &pending{id: id, complete: complete}
	pend.timer = time.AfterFunc(b.timeout, func() {
		b.post(func() {
			cur, ok := p.outstanding[target]
			if !ok || cur.id != id {
				return
			}
			delete(p.outstanding, target)
			b.log.Warn("hook dispatch timed out",
				"point", pointName, "action", sub.Action, "correlation", id)
			cur.complete(nil, false)
		})
	})
	p.outstanding[target] = pend

	b.rt.Invoke(sub.Action, payload, func(_ any, err error) {
		if err == nil {
			// Normal return; completion still pending.
			return
		}
		b.post(func() {
			cur, ok := p.outstanding[target]
			if !ok || cur.id != id {
				return
			}
			cur.timer.Stop()
			delete(p.outstanding, target)
			b.log.Warn("hook handler fault",
				"point", pointName, "action", sub.Action,
				"correlation", id, "error", err)
			cur.complete(nil, false)
		})
	})
	return id, nil
}

// Complete delivers the explicit completion for an exactly-once
// dispatch. It returns false when the request is no longer current (the
// correlation id does not match the outstanding dispatch), in which case
// the late completion is dropped.
func (b *Bridge) Complete(pointName string, target Target, correlation string, result any) bool {
	p, ok := b.points[pointName]
	if !ok {
		return false
	}
	cur, ok := p.outstanding[target]
	if !ok || cur.id != correlation {
		b.log.Debug("late hook completion dropped",
			"point", pointName, "correlation", correlation)
		return false
	}
	cur.timer.Stop()
	delete(p.outstanding, target)
	cur.complete(result, true)
	return true
}

// Cancel drops the outstanding dispatch for a target without invoking
// its completion.
func (b *Bridge) Cancel(pointName string, target Target) {
	p, ok := b.points[pointName]
	if !ok {
		return
	}
	if cur, ok := p.outstanding[target]; ok {
		cur.timer.Stop()
		delete(p.outstanding, target)
	}
}

// CancelBuffer cancels every outstanding dispatch for the buffer and
// removes its buffer-scoped subscriptions, across all points. Called
// when a buffer closes.
func (b *Bridge) CancelBuffer(buf buffer.ID) {
	for _, p := range b.points {
		kept := p.subs[:0]
		for _, s := range p.subs {
			if s.Scope != buf {
				kept = append(kept, s)
			}
		}
		p.subs = kept

		for target, pend := range p.outstanding {
			if target.Buffer == buf {
				pend.timer.Stop()
				delete(p.outstanding, target)
			}
		}
	}
	for chain := range b.fires {
		if chain.scope == buf {
			chain.cancelled = true
		}
	}
}

// truthy follows scripting semantics: only nil and false are falsy.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

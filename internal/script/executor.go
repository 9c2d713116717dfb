package script

import (
	"sync"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// call is one queued Lua operation.
type call struct {
	fn     func(L *lua.LState) error
	result chan error // nil for fire-and-forget submissions
}

// Executor serializes all Lua operations through a single goroutine.
// LState is not goroutine-safe, so every touch of the interpreter is
// marshalled here.
type Executor struct {
	state *State
	queue chan *call

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewExecutor creates an executor for the state and starts its worker.
func NewExecutor(state *State, queueSize int) *Executor {
	if queueSize <= 0 {
		queueSize = 128
	}
	e := &Executor{
		state: state,
		queue: make(chan *call, queueSize),
		done:  make(chan struct{}),
	}
	e.wg.Add(1)
	go e.run()
	return e
}

func (e *Executor) run() {
	defer e.wg.Done()
	for {
		select {
		case <-e.done:
			e.drain()
			return
		case c := <-e.queue:
			err := withRecovery(func() error { return c.fn(e.state.L) })
			if c.result != nil {
				c.result <- err
				close(c.result)
			}
		}
	}
}

func (e *Executor) drain() {
	for {
		select {
		case c := <-e.queue:
			if c.result != nil {
				c.result <- ErrStateClosed
				close(c.result)
			}
		default:
			return
		}
	}
}

// Execute runs fn on the Lua goroutine and waits for it.
func (e *Executor) Execute(fn func(L *lua.LState) error) error {
	if e.closed.Load() {
		return ErrStateClosed
	}
	c := &call{fn: fn, result: make(chan error, 1)}
	select {
	case e.queue <- c:
	case <-e.done:
		return ErrStateClosed
	}
	return <-c.result
}

// Submit queues fn without waiting. fn is responsible for reporting its
// own outcome (the host threads a reply callback through).
func (e *Executor) Submit(fn func(L *lua.LState) error) error {
	if e.closed.Load() {
		return ErrStateClosed
	}
	c := &call{fn: fn}
	select {
	case e.queue <- c:
		return nil
	case <-e.done:
		return ErrStateClosed
	}
}

// Close stops the worker. Queued calls are drained with ErrStateClosed.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.done)
	})
	e.wg.Wait()
}

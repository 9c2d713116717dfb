package app

import (
	"errors"
	"sync"
)

// ErrLoopClosed is returned for work posted after shutdown.
var ErrLoopClosed = errors.New("editor loop is closed")

// Loop is the single goroutine that owns all editor state. Registries,
// the hook bridge and the pipeline are only touched from tasks running
// here; other goroutines hand work over with Post or PostWait.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// NewLoop starts the loop goroutine.
func NewLoop() *Loop {
	l := &Loop{
		tasks: make(chan func(), 256),
		done:  make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			// Drain what was queued before shutdown.
			for {
				select {
				case fn := <-l.tasks:
					fn()
				default:
					return
				}
			}
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post schedules fn onto the loop. Work posted after Close is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// PostWait runs fn on the loop and waits for it to finish. Must not be
// called from a loop task; that would deadlock.
func (l *Loop) PostWait(fn func()) error {
	doneCh := make(chan struct{})
	select {
	case l.tasks <- func() {
		fn()
		close(doneCh)
	}:
	case <-l.done:
		return ErrLoopClosed
	}
	select {
	case <-doneCh:
		return nil
	case <-l.done:
		// The loop drains queued tasks on shutdown, so the task may
		// still run; wait for the drain to finish.
		l.wg.Wait()
		select {
		case <-doneCh:
			return nil
		default:
			return ErrLoopClosed
		}
	}
}

// Close stops the loop after draining queued tasks.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
	l.wg.Wait()
}

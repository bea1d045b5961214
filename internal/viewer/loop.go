package viewer

import (
	"errors"
	"sync"
)

// ErrClosed is returned when work is submitted to a stopped Loop.
var ErrClosed = errors.New("viewer event loop is closed")

// Loop runs submitted functions one at a time on a dedicated goroutine.
// Functions running on the loop must not call Do or Post on the same loop.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewLoop() *Loop {
	l := &Loop{
		tasks:   make(chan func()),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post hands fn to the loop without waiting for it to run. It reports false
// when the loop is closed; a true result guarantees fn runs.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrClosed
	}
	<-finished
	return nil
}

// Close stops the loop after the running function, if any, returns.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
	<-l.stopped
}

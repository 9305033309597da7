package typewriter

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Options configure an Engine. Zero values pick the wall clock, no clicks and a time seed.
type Options struct {
	Clock   Clock
	Clicker Clicker
	Rand    *rand.Rand
}

// task is anything the engine runs against a target.
type task interface {
	Cancel()
	Done() <-chan struct{}
}

// Engine runs typing sessions. Each target (a text field, a panel) has at most one active
// session; starting another cancels the first and waits for it to stop.
type Engine struct {
	clock   Clock
	clicker Clicker

	rmu sync.Mutex
	rnd *rand.Rand

	mu      sync.Mutex
	targets map[string]task
}

// New returns an engine.
func New(o Options) *Engine {
	e := &Engine{
		clock:   o.Clock,
		clicker: o.Clicker,
		rnd:     o.Rand,
		targets: map[string]task{},
	}
	if e.clock == nil {
		e.clock = RealClock
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

func (e *Engine) delay(r rune, base time.Duration) time.Duration {
	e.rmu.Lock()
	defer e.rmu.Unlock()
	return Delay(r, base, e.rnd)
}

func (e *Engine) click() {
	if e.clicker != nil {
		e.clicker.Click()
	}
}

// claim makes t the target's task, cancelling and waiting out whatever was there.
func (e *Engine) claim(target string, t task) {
	e.mu.Lock()
	prev := e.targets[target]
	e.targets[target] = t
	e.mu.Unlock()

	if prev != nil {
		klog.V(1).Infof("target %q: cancelling previous task", target)
		prev.Cancel()
		<-prev.Done()
	}
}

// release forgets t if it is still the target's task.
func (e *Engine) release(target string, t task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.targets[target] == t {
		delete(e.targets, target)
	}
}

// Start prepares a session typing text into sink on target. The caller runs it.
func (e *Engine) Start(target, text string, sink Sink, base time.Duration) *Session {
	s := newSession(e, text, sink, base)
	e.claim(target, s)
	go func() {
		<-s.Done()
		e.release(target, s)
	}()
	return s
}

// Type types text into sink on target and blocks until it completes or is cancelled.
func (e *Engine) Type(ctx context.Context, target, text string, sink Sink, base time.Duration) error {
	return e.Start(target, text, sink, base).Run(ctx)
}

// Cancel stops whatever is running on target.
func (e *Engine) Cancel(target string) {
	e.mu.Lock()
	t := e.targets[target]
	e.mu.Unlock()
	if t != nil {
		t.Cancel()
	}
}

// CancelAll stops every target.
func (e *Engine) CancelAll() {
	e.mu.Lock()
	ts := make([]task, 0, len(e.targets))
	for _, t := range e.targets {
		ts = append(ts, t)
	}
	e.mu.Unlock()
	for _, t := range ts {
		t.Cancel()
	}
}

package typewriter

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Session types one text into one sink. A session runs at most once.
type Session struct {
	ID string

	text  string
	runes []rune
	sink  Sink
	base  time.Duration
	e     *Engine

	state atomic.Int32
	pos   atomic.Int64

	cancelOnce sync.Once
	cancel     chan struct{}
	doneOnce   sync.Once
	done       chan struct{}
}

func newSession(e *Engine, text string, sink Sink, base time.Duration) *Session {
	return &Session{
		ID:     uuid.NewString(),
		text:   text,
		runes:  []rune(text),
		sink:   sink,
		base:   base,
		e:      e,
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Text returns the full text being typed.
func (s *Session) Text() string {
	return s.text
}

// State returns the session's current state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Active reports whether the session may still append text.
func (s *Session) Active() bool {
	return s.State() == Running
}

// Position returns how many runes have been appended.
func (s *Session) Position() int {
	return int(s.pos.Load())
}

// Done is closed once the session reaches a terminal state and has stopped touching its sink.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Cancel stops the session. Text already appended stays. Cancelling a finished session does
// nothing.
func (s *Session) Cancel() {
	if s.state.CompareAndSwap(int32(Idle), int32(Cancelled)) {
		klog.V(1).Infof("session %s cancelled before start", s.ID)
		s.finish()
		return
	}
	if s.state.CompareAndSwap(int32(Running), int32(Cancelled)) {
		klog.V(1).Infof("session %s cancelled at %d/%d", s.ID, s.Position(), len(s.runes))
		s.cancelOnce.Do(func() { close(s.cancel) })
	}
}

func (s *Session) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Run types the text, blocking until it completes or is cancelled. On completion the sink is
// set to the full text verbatim. Cancellation, from Cancel or ctx, returns ErrCancelled and
// leaves the partial text in place.
func (s *Session) Run(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(Idle), int32(Running)) {
		if s.State() == Cancelled {
			return ErrCancelled
		}
		return fmt.Errorf("session %s already %s", s.ID, s.State())
	}
	defer s.finish()

	klog.V(1).Infof("session %s: typing %d runes at %v", s.ID, len(s.runes), s.base)

	for _, r := range s.runes {
		if !s.Active() {
			return ErrCancelled
		}
		s.sink.Append(string(r))
		s.pos.Add(1)
		s.e.click()

		if err := s.wait(ctx, s.e.delay(r, s.base)); err != nil {
			return err
		}
	}

	if !s.state.CompareAndSwap(int32(Running), int32(Completed)) {
		return ErrCancelled
	}
	s.sink.Set(s.text)
	klog.V(1).Infof("session %s completed", s.ID)
	return nil
}

// wait sleeps for d unless the session is cancelled first.
func (s *Session) wait(ctx context.Context, d time.Duration) error {
	klog.V(2).Infof("session %s: wait %v", s.ID, d)
	select {
	case <-s.e.clock.After(d):
		return nil
	case <-s.cancel:
		return ErrCancelled
	case <-ctx.Done():
		s.Cancel()
		return ErrCancelled
	}
}

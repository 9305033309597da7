package typewriter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Letter pacing.
const (
	OpenWait       = 500 * time.Millisecond
	GreetingSpeed  = 50 * time.Millisecond
	BodyPause      = 400 * time.Millisecond
	BodySpeed      = 40 * time.Millisecond
	SignaturePause = 300 * time.Millisecond
	SignatureSpeed = 50 * time.Millisecond
	RevealPause    = 300 * time.Millisecond
)

// Step types one field after a pause.
type Step struct {
	Name  string
	Pause time.Duration
	Text  string
	Sink  Sink
	Speed time.Duration
}

// Script is a multi-field reveal: steps in order, then a final pause and the reveal callback.
type Script struct {
	Steps       []Step
	RevealPause time.Duration
	Reveal      func()
}

// LetterText is what a letter reveal types.
type LetterText struct {
	Greeting  string
	Body      string
	Signature string
}

// LetterSinks receive each part of a letter reveal.
type LetterSinks struct {
	Greeting  Sink
	Body      Sink
	Signature Sink
}

// LetterScript is the standard letter reveal: greeting, body, then the signature when there
// is one, and finally reveal (the seal and day count).
func LetterScript(t LetterText, s LetterSinks, reveal func()) Script {
	steps := []Step{
		{Name: "greeting", Pause: OpenWait, Text: t.Greeting, Sink: s.Greeting, Speed: GreetingSpeed},
		{Name: "body", Pause: BodyPause, Text: t.Body, Sink: s.Body, Speed: BodySpeed},
	}
	if t.Signature != "" {
		steps = append(steps, Step{Name: "signature", Pause: SignaturePause, Text: t.Signature, Sink: s.Signature, Speed: SignatureSpeed})
	}
	return Script{Steps: steps, RevealPause: RevealPause, Reveal: reveal}
}

// Playback runs a Script. The active flag is checked between every stage.
type Playback struct {
	ID     string
	e      *Engine
	target string
	script Script

	active atomic.Bool
	mu     sync.Mutex
	cur    *Session

	cancelOnce sync.Once
	cancel     chan struct{}
	doneOnce   sync.Once
	done       chan struct{}
	state      atomic.Int32
}

// Play runs script on target, blocking until it completes or is cancelled. Any earlier task on
// target is cancelled first.
func (e *Engine) Play(ctx context.Context, target string, script Script) error {
	p := e.NewPlayback(target, script)
	return p.Run(ctx)
}

// NewPlayback registers a playback on target without starting it.
func (e *Engine) NewPlayback(target string, script Script) *Playback {
	p := &Playback{
		ID:     uuid.NewString(),
		e:      e,
		target: target,
		script: script,
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	p.active.Store(true)
	e.claim(target, p)
	return p
}

// State returns the playback's state.
func (p *Playback) State() State {
	return State(p.state.Load())
}

// Active reports whether the playback may continue.
func (p *Playback) Active() bool {
	return p.active.Load()
}

// Done is closed when the playback has stopped.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Cancel stops the playback and the stage it is in.
func (p *Playback) Cancel() {
	if !p.active.CompareAndSwap(true, false) {
		return
	}
	p.cancelOnce.Do(func() { close(p.cancel) })

	p.mu.Lock()
	cur := p.cur
	p.mu.Unlock()
	if cur != nil {
		cur.Cancel()
	}

	// A playback that never started has nothing to wait for.
	if p.state.CompareAndSwap(int32(Idle), int32(Cancelled)) {
		p.finish()
	}
}

func (p *Playback) finish() {
	p.doneOnce.Do(func() {
		close(p.done)
		p.e.release(p.target, p)
	})
}

// Run plays the script.
func (p *Playback) Run(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return ErrCancelled
	}
	defer p.finish()

	err := p.run(ctx)
	if err != nil {
		p.state.Store(int32(Cancelled))
		klog.V(1).Infof("playback %s stopped: %v", p.ID, err)
		return err
	}
	p.state.Store(int32(Completed))
	return nil
}

func (p *Playback) run(ctx context.Context) error {
	for _, st := range p.script.Steps {
		if err := p.wait(ctx, st.Pause); err != nil {
			return err
		}
		if !p.Active() {
			return ErrCancelled
		}

		s := newSession(p.e, st.Text, st.Sink, st.Speed)
		p.mu.Lock()
		p.cur = s
		p.mu.Unlock()

		// Cancel may have run between the check above and publishing s.
		if !p.Active() {
			return ErrCancelled
		}
		klog.V(1).Infof("playback %s: %s", p.ID, st.Name)
		if err := s.Run(ctx); err != nil {
			return err
		}
	}

	if err := p.wait(ctx, p.script.RevealPause); err != nil {
		return err
	}
	if !p.Active() {
		return ErrCancelled
	}
	if p.script.Reveal != nil {
		p.script.Reveal()
	}
	return nil
}

func (p *Playback) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-p.e.clock.After(d):
		return nil
	case <-p.cancel:
		return ErrCancelled
	case <-ctx.Done():
		p.Cancel()
		return ErrCancelled
	}
}

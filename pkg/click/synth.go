package click

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// queueDepth bounds clicks waiting for the backend. Extra clicks are dropped.
const queueDepth = 16

// Backend plays sample buffers.
type Backend interface {
	Play(samples []float64) error
}

// readier is a backend that is not usable until something happens, like a user gesture.
type readier interface {
	Ready() bool
}

// Synth turns Click calls into sounds on a backend without ever blocking the caller.
type Synth struct {
	backend Backend
	rate    int
	rnd     *rand.Rand

	mu     sync.RWMutex
	closed bool
	queue  chan struct{}
	wg     sync.WaitGroup
}

// New starts a synthesizer producing clicks at rate. A nil backend makes every click a no-op.
func New(b Backend, rate int) *Synth {
	if rate <= 0 {
		rate = FallbackRate
	}
	s := &Synth{
		backend: b,
		rate:    rate,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		queue:   make(chan struct{}, queueDepth),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// Click queues one click. It never blocks and never panics; clicks are dropped when the
// backend is not ready or is falling behind.
func (s *Synth) Click() {
	if s == nil || s.backend == nil {
		return
	}
	if r, ok := s.backend.(readier); ok && !r.Ready() {
		klog.V(2).Infof("click dropped: backend not ready")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- struct{}{}:
	default:
		klog.V(2).Infof("click dropped: queue full")
	}
}

func (s *Synth) loop() {
	defer s.wg.Done()
	for range s.queue {
		if err := s.play(); err != nil {
			klog.V(2).Infof("click failed: %v", err)
		}
	}
}

func (s *Synth) play() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return s.backend.Play(Transient(s.rate, s.rnd))
}

// Close stops the synthesizer after queued clicks have played.
func (s *Synth) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()
	s.wg.Wait()
}

package click

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"
)

// Gate holds a backend shut until Unlock, the way browsers keep audio muted until the first
// user gesture.
type Gate struct {
	Backend
	open atomic.Bool
}

// NewGate wraps b.
func NewGate(b Backend) *Gate {
	return &Gate{Backend: b}
}

// Unlock opens the gate. Later calls do nothing.
func (g *Gate) Unlock() {
	if g.open.CompareAndSwap(false, true) {
		klog.V(1).Infof("audio unlocked")
	}
}

// Ready reports whether the gate is open.
func (g *Gate) Ready() bool {
	return g.open.Load()
}

// Bell rings the terminal bell for each click.
type Bell struct {
	W io.Writer
}

// Play implements Backend.
func (b Bell) Play([]float64) error {
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Recorder lays clicks onto a soundtrack at the time they were played.
type Recorder struct {
	Rate int
	// Now is the clock. Tests replace it.
	Now func() time.Time

	mu    sync.Mutex
	start time.Time
	track []float64
	count int
}

// NewRecorder returns a recorder whose soundtrack starts now.
func NewRecorder(rate int) *Recorder {
	r := &Recorder{Rate: rate, Now: time.Now}
	r.start = r.Now()
	return r
}

// Play implements Backend.
func (r *Recorder) Play(samples []float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := int(r.Now().Sub(r.start).Seconds() * float64(r.Rate))
	if at < 0 {
		at = 0
	}
	if need := at + len(samples); need > len(r.track) {
		r.track = append(r.track, make([]float64, need-len(r.track))...)
	}
	for i, v := range samples {
		r.track[at+i] += v
	}
	r.count++
	return nil
}

// Clicks returns how many clicks were recorded.
func (r *Recorder) Clicks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Soundtrack returns a copy of the mixed samples.
func (r *Recorder) Soundtrack() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64{}, r.track...)
}

// WriteFile saves the soundtrack as a WAV file.
func (r *Recorder) WriteFile(path string) error {
	if err := WriteWAV(path, r.Rate, r.Soundtrack()); err != nil {
		return fmt.Errorf("soundtrack: %w", err)
	}
	klog.Infof("wrote %d clicks to %s", r.Clicks(), path)
	return nil
}

// Tee plays every click on each backend. All backends are tried; their errors are joined.
type Tee []Backend

// Play implements Backend.
func (t Tee) Play(samples []float64) error {
	var errs []error
	for _, b := range t {
		if err := b.Play(samples); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

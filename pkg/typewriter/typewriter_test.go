package typewriter

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instantClock fires every wait immediately and remembers what was asked for.
type instantClock struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (c *instantClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func (c *instantClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration{}, c.waits...)
}

// stuckClock never fires.
type stuckClock struct{}

func (stuckClock) After(time.Duration) <-chan time.Time {
	return make(chan time.Time)
}

type recorder struct {
	mu       sync.Mutex
	text     string
	appends  []string
	sets     int
	onAppend func(n int)
}

func (r *recorder) Set(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text = s
	r.sets++
}

func (r *recorder) Append(s string) {
	r.mu.Lock()
	r.text += s
	r.appends = append(r.appends, s)
	n := len(r.appends)
	cb := r.onAppend
	r.mu.Unlock()
	if cb != nil {
		cb(n)
	}
}

func (r *recorder) Text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text
}

func (r *recorder) Appends() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.appends...)
}

func (r *recorder) Sets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sets
}

type counter struct {
	n atomic.Int64
}

func (c *counter) Click() {
	c.n.Add(1)
}

func newTestEngine(clock Clock, clk Clicker) *Engine {
	return New(Options{Clock: clock, Clicker: clk, Rand: rand.New(rand.NewSource(7))})
}

func TestDelay(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	base := 40 * time.Millisecond

	tests := []struct {
		r        rune
		min, max time.Duration
	}{
		{'a', 30 * time.Millisecond, 50 * time.Millisecond},
		{'.', 210 * time.Millisecond, 230 * time.Millisecond},
		{'!', 210 * time.Millisecond, 230 * time.Millisecond},
		{'?', 210 * time.Millisecond, 230 * time.Millisecond},
		{',', 110 * time.Millisecond, 130 * time.Millisecond},
		{'\n', 150 * time.Millisecond, 170 * time.Millisecond},
	}
	for _, tc := range tests {
		for i := 0; i < 200; i++ {
			d := Delay(tc.r, base, rnd)
			require.GreaterOrEqual(t, d, tc.min, "rune %q", tc.r)
			require.LessOrEqual(t, d, tc.max, "rune %q", tc.r)
		}
	}

	assert.Equal(t, time.Duration(0), Delay('a', -time.Second, rnd))
}

func TestTypeAppendsEveryRuneInOrder(t *testing.T) {
	clock := &instantClock{}
	clicks := &counter{}
	e := newTestEngine(clock, clicks)
	sink := &recorder{}

	text := "Hi, you.\nSee ❤ soon"
	s := e.Start("body", text, sink, BodySpeed)
	require.NoError(t, s.Run(context.Background()))

	var want []string
	for _, r := range text {
		want = append(want, string(r))
	}
	assert.Equal(t, want, sink.Appends())
	assert.Equal(t, text, sink.Text())
	assert.Equal(t, 1, sink.Sets())
	assert.Equal(t, int64(len(want)), clicks.n.Load())
	assert.Equal(t, Completed, s.State())
	assert.Equal(t, len(want), s.Position())
	assert.Len(t, clock.Waits(), len(want))
}

func TestTypeEmptyText(t *testing.T) {
	clicks := &counter{}
	e := newTestEngine(&instantClock{}, clicks)
	sink := &recorder{}

	require.NoError(t, e.Type(context.Background(), "body", "", sink, BodySpeed))
	assert.Empty(t, sink.Appends())
	assert.Equal(t, "", sink.Text())
	assert.Zero(t, clicks.n.Load())
}

func TestCancelAfterK(t *testing.T) {
	for _, k := range []int{1, 3, 10} {
		clicks := &counter{}
		e := newTestEngine(&instantClock{}, clicks)
		sink := &recorder{}

		text := "The quick brown fox jumps over the lazy dog."
		s := e.Start("body", text, sink, BodySpeed)
		sink.onAppend = func(n int) {
			if n == k {
				s.Cancel()
			}
		}

		err := s.Run(context.Background())
		require.ErrorIs(t, err, ErrCancelled)
		assert.Equal(t, text[:k], sink.Text(), "k=%d", k)
		assert.Len(t, sink.Appends(), k)
		assert.Zero(t, sink.Sets(), "a cancelled session must not force completion")
		assert.Equal(t, Cancelled, s.State())
		<-s.Done()
	}
}

func TestRunTwice(t *testing.T) {
	e := newTestEngine(&instantClock{}, nil)
	s := e.Start("t", "ab", &recorder{}, GreetingSpeed)
	require.NoError(t, s.Run(context.Background()))
	assert.Error(t, s.Run(context.Background()))
	assert.Equal(t, Completed, s.State())

	s.Cancel()
	assert.Equal(t, Completed, s.State(), "terminal states never change")
}

func TestCancelBeforeRun(t *testing.T) {
	e := newTestEngine(&instantClock{}, nil)
	sink := &recorder{}
	s := e.Start("t", "abc", sink, GreetingSpeed)
	s.Cancel()

	assert.ErrorIs(t, s.Run(context.Background()), ErrCancelled)
	assert.Empty(t, sink.Appends())
	<-s.Done()
}

func TestContextCancel(t *testing.T) {
	e := newTestEngine(stuckClock{}, nil)
	sink := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())

	s := e.Start("t", "hello", sink, GreetingSpeed)
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Position() == 1 }, time.Second, time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-errc, ErrCancelled)
	assert.Equal(t, "h", sink.Text())
	assert.Equal(t, Cancelled, s.State())
}

func TestStartCancelsPreviousOnTarget(t *testing.T) {
	e := newTestEngine(stuckClock{}, nil)
	first := &recorder{}

	s1 := e.Start("letter", "first text", first, BodySpeed)
	errc := make(chan error, 1)
	go func() { errc <- s1.Run(context.Background()) }()
	require.Eventually(t, func() bool { return s1.Position() == 1 }, time.Second, time.Millisecond)

	s2 := e.Start("letter", "second", &recorder{}, BodySpeed)

	// Start returns only once the first session has stopped.
	select {
	case <-s1.Done():
	default:
		t.Fatal("previous session still running")
	}
	assert.ErrorIs(t, <-errc, ErrCancelled)
	assert.Equal(t, Cancelled, s1.State())
	assert.Equal(t, "f", first.Text())
	assert.Equal(t, Idle, s2.State())

	// Other targets are independent.
	s3 := e.Start("strip", "x", &recorder{}, BodySpeed)
	assert.Equal(t, Idle, s2.State())
	assert.Equal(t, Idle, s3.State())
	e.CancelAll()
	assert.Equal(t, Cancelled, s2.State())
	assert.Equal(t, Cancelled, s3.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.True(t, Cancelled.Terminal())
	assert.False(t, Idle.Terminal())
	assert.True(t, strings.Contains(State(42).String(), "unknown"))
}

package typewriter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func letterSinks() (LetterSinks, *recorder, *recorder, *recorder) {
	g, b, s := &recorder{}, &recorder{}, &recorder{}
	return LetterSinks{Greeting: g, Body: b, Signature: s}, g, b, s
}

func TestLetterPlayback(t *testing.T) {
	clock := &instantClock{}
	clicks := &counter{}
	e := newTestEngine(clock, clicks)
	sinks, g, b, s := letterSinks()

	revealed := false
	script := LetterScript(LetterText{Greeting: "Dear Sam,", Body: "Hi.\nBye", Signature: "Yours, Alex"}, sinks, func() { revealed = true })
	require.Len(t, script.Steps, 3)

	require.NoError(t, e.Play(context.Background(), "letter", script))
	assert.Equal(t, "Dear Sam,", g.Text())
	assert.Equal(t, "Hi.\nBye", b.Text())
	assert.Equal(t, "Yours, Alex", s.Text())
	assert.True(t, revealed)
	assert.Equal(t, int64(len("Dear Sam,")+len("Hi.\nBye")+len("Yours, Alex")), clicks.n.Load())

	// Stage pauses are waited for in order around the per-character delays.
	var pauses []time.Duration
	for _, w := range clock.Waits() {
		switch w {
		case OpenWait, BodyPause, SignaturePause:
			pauses = append(pauses, w)
		}
	}
	assert.Equal(t, []time.Duration{OpenWait, BodyPause, SignaturePause, RevealPause}, pauses)
}

func TestLetterPlaybackWithoutSignature(t *testing.T) {
	e := newTestEngine(&instantClock{}, nil)
	sinks, _, b, s := letterSinks()

	revealed := false
	script := LetterScript(LetterText{Greeting: "Dear you,", Body: "Hello"}, sinks, func() { revealed = true })
	require.Len(t, script.Steps, 2)

	require.NoError(t, e.Play(context.Background(), "letter", script))
	assert.Equal(t, "Hello", b.Text())
	assert.Empty(t, s.Appends())
	assert.True(t, revealed)
}

func TestPlaybackCancelMidBody(t *testing.T) {
	e := newTestEngine(&instantClock{}, nil)
	sinks, g, b, s := letterSinks()

	revealed := false
	script := LetterScript(LetterText{Greeting: "Dear Sam,", Body: "A long body", Signature: "Yours, Alex"}, sinks, func() { revealed = true })
	p := e.NewPlayback("letter", script)
	b.onAppend = func(n int) {
		if n == 4 {
			p.Cancel()
		}
	}

	assert.ErrorIs(t, p.Run(context.Background()), ErrCancelled)
	assert.Equal(t, "Dear Sam,", g.Text())
	assert.Equal(t, "A lo", b.Text())
	assert.Empty(t, s.Appends(), "no stage starts after cancellation")
	assert.False(t, revealed)
	assert.Equal(t, Cancelled, p.State())
	<-p.Done()
}

func TestPlaybackCancelledByNewPlayback(t *testing.T) {
	e := newTestEngine(stuckClock{}, nil)
	sinks, g, _, _ := letterSinks()

	p1 := e.NewPlayback("letter", LetterScript(LetterText{Greeting: "Dear Sam,", Body: "x"}, sinks, nil))
	errc := make(chan error, 1)
	go func() { errc <- p1.Run(context.Background()) }()

	// p1 is parked in its opening wait.
	require.Eventually(t, func() bool { return p1.State() == Running }, time.Second, time.Millisecond)

	p2 := e.NewPlayback("letter", Script{})
	assert.ErrorIs(t, <-errc, ErrCancelled)
	assert.Empty(t, g.Appends())
	assert.False(t, p1.Active())
	assert.True(t, p2.Active())

	// Engine.Cancel on the target reaches p2.
	e.Cancel("letter")
	assert.False(t, p2.Active())
	<-p2.Done()
}

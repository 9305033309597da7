// Package typewriter reveals text one character at a time with human-ish pacing.
package typewriter

import (
	"errors"
	"math/rand"
	"time"
)

// ErrCancelled is returned by Run when a session is cancelled before it completes.
var ErrCancelled = errors.New("typing cancelled")

// Pauses added after punctuation, on top of the base delay.
const (
	sentencePause = 180 * time.Millisecond
	commaPause    = 80 * time.Millisecond
	newlinePause  = 120 * time.Millisecond
	jitter        = 10 * time.Millisecond
)

// Sink receives revealed text.
type Sink interface {
	// Set replaces the whole text.
	Set(s string)
	// Append adds s to the end.
	Append(s string)
}

// Clicker makes the key sound. Click must not block.
type Clicker interface {
	Click()
}

// Clock schedules waits. Tests swap in a clock that fires immediately.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Delay returns how long to wait after typing r: base, give or take 10ms, plus a pause
// after sentence ends, commas and newlines. The result is never negative.
func Delay(r rune, base time.Duration, rnd *rand.Rand) time.Duration {
	d := base + time.Duration((rnd.Float64()*2-1)*float64(jitter))
	switch r {
	case '.', '!', '?':
		d += sentencePause
	case ',':
		d += commaPause
	case '\n':
		d += newlinePause
	}
	if d < 0 {
		return 0
	}
	return d
}

// State is where a session is in its life.
type State int32

const (
	// Idle sessions have not started.
	Idle State = iota
	// Running sessions are revealing text.
	Running
	// Completed sessions revealed everything. Terminal.
	Completed
	// Cancelled sessions stopped early. Terminal.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s can never change again.
func (s State) Terminal() bool {
	return s == Completed || s == Cancelled
}

// Package app holds the keepsake screen state and the actions that change it.
package app

import (
	"github.com/tstromberg/keepsake/pkg/keepsake"
	"k8s.io/klog/v2"
)

// Screen is which screen is showing.
type Screen int

const (
	// ScreenSetup is the input form.
	ScreenSetup Screen = iota
	// ScreenResult is the flat-lay of letter and strip.
	ScreenResult
)

func (s Screen) String() string {
	if s == ScreenResult {
		return "result"
	}
	return "setup"
}

// Panel is an expandable view on the result screen.
type Panel int

const (
	// PanelNone means nothing is expanded.
	PanelNone Panel = iota
	// PanelLetter is the letter, typed out on first open.
	PanelLetter
	// PanelStrip is the photobooth strip.
	PanelStrip
)

func (p Panel) String() string {
	switch p {
	case PanelLetter:
		return "letter"
	case PanelStrip:
		return "strip"
	default:
		return "none"
	}
}

// State is a snapshot of everything the screens show.
type State struct {
	Screen   Screen
	Letter   keepsake.Letter
	Photos   *keepsake.PhotoSet
	Expanded Panel
	// Typing is true while the letter is being typed out.
	Typing bool
	// LetterTyped is set once the letter has been typed out in full; later opens show it
	// immediately.
	LetterTyped bool
}

// HasPhotos reports whether the strip has any photos.
func (s State) HasPhotos() bool {
	return s.Photos.HasPhotos()
}

// Notifier shows short-lived messages, like a toast.
type Notifier interface {
	Notify(msg string)
}

// LogNotifier reports notices to the log.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(msg string) {
	klog.Infof("notice: %s", msg)
}

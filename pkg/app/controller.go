package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tstromberg/keepsake/pkg/keepsake"
	"github.com/tstromberg/keepsake/pkg/typewriter"
	"k8s.io/klog/v2"
)

// letterTarget is the typewriter target for the expanded letter.
const letterTarget = "letter"

// Notices.
const (
	SentNotice       = "Image saved — send it to them!"
	SaveFailedNotice = "Couldn't save %s"
	SendFailedNotice = "Couldn't send the letter"
)

// Options wire a Controller to its collaborators.
type Options struct {
	Compositor *keepsake.Compositor
	Engine     *typewriter.Engine
	// Sinks receive the typed letter.
	Sinks typewriter.LetterSinks
	// OnReveal shows the seal and day count once the letter is typed.
	OnReveal func(seal string, days int)

	// Share is tried before Download. Either may be nil.
	Share    keepsake.Sink
	Download keepsake.Sink
	Notifier Notifier

	// Audio is unlocked by the first user gesture. May be nil.
	Audio Unlocker

	Now func() time.Time
}

// Unlocker is audio that stays muted until the user interacts, like click.Gate.
type Unlocker interface {
	Unlock()
}

// Controller owns the State and applies user actions to it. It is safe for concurrent use.
type Controller struct {
	o Options

	mu     sync.Mutex
	st     State
	typing chan struct{}
}

// New returns a controller on the setup screen.
func New(o Options) *Controller {
	if o.Notifier == nil {
		o.Notifier = LogNotifier{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Engine == nil {
		o.Engine = typewriter.New(typewriter.Options{})
	}
	return &Controller{o: o, st: State{Photos: keepsake.NewPhotoSet()}}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st
}

// Submit takes the setup form and moves to the result screen.
func (c *Controller) Submit(s keepsake.Submission) error {
	l, err := s.Letter()
	if err != nil {
		return err
	}
	photos := keepsake.NewPhotoSet()
	n := s.LoadPhotos(photos)
	klog.Infof("submitted letter for %q with %d photos", l.Partner, n)

	c.Open(l, photos)
	return nil
}

// AddPhotos adds uploaded photos to the first empty slots of the current photo set and
// returns how many were added.
func (c *Controller) AddPhotos(uris []string) int {
	c.mu.Lock()
	if c.st.Photos == nil {
		c.st.Photos = keepsake.NewPhotoSet()
	}
	photos := c.st.Photos
	c.mu.Unlock()

	n := keepsake.AddUploads(photos, uris)
	klog.Infof("added %d of %d uploaded photos", n, len(uris))
	return n
}

// LoadShare opens a share link. Links never carry photos. It reports whether the link was
// usable; unusable links leave the state alone.
func (c *Controller) LoadShare(fragment string) bool {
	l, ok := keepsake.DecodeShare(fragment)
	if !ok {
		return false
	}
	c.Open(l, keepsake.NewPhotoSet())
	return true
}

// Open shows the result screen for l and photos, as if they had just been submitted.
func (c *Controller) Open(l keepsake.Letter, photos *keepsake.PhotoSet) {
	c.o.Engine.Cancel(letterTarget)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st = State{Screen: ScreenResult, Letter: l, Photos: photos}
}

// Expand opens p. It is ignored, returning false, while any panel is already expanded or
// outside the result screen. Opening the letter the first time types it out in the
// background.
func (c *Controller) Expand(ctx context.Context, p Panel) bool {
	c.mu.Lock()
	if c.st.Screen != ScreenResult || c.st.Expanded != PanelNone || p == PanelNone {
		cur := c.st.Expanded
		c.mu.Unlock()
		klog.V(1).Infof("expand %s ignored (expanded: %s)", p, cur)
		return false
	}
	c.st.Expanded = p
	st := c.st
	c.mu.Unlock()

	// Opening a panel is a user gesture.
	if c.o.Audio != nil {
		c.o.Audio.Unlock()
	}

	if p != PanelLetter {
		return true
	}

	now := c.o.Now()
	text := typewriter.LetterText{
		Greeting:  st.Letter.Greeting(),
		Body:      st.Letter.Text(),
		Signature: st.Letter.Signature(),
	}
	reveal := func() {
		if c.o.OnReveal != nil {
			c.o.OnReveal(keepsake.SealTime(now), keepsake.DaysTogether(st.Letter.Since, now))
		}
	}

	if st.LetterTyped {
		c.setAll(text)
		reveal()
		return true
	}

	c.setAll(typewriter.LetterText{})
	pb := c.o.Engine.NewPlayback(letterTarget, typewriter.LetterScript(text, c.o.Sinks, reveal))

	done := make(chan struct{})

	c.mu.Lock()
	c.typing = done
	c.st.Typing = true
	c.mu.Unlock()

	go func() {
		defer close(done)
		err := pb.Run(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.typing != done {
			return
		}
		c.st.Typing = false
		if err == nil {
			c.st.LetterTyped = true
		}
	}()
	return true
}

func (c *Controller) setAll(t typewriter.LetterText) {
	for _, f := range []struct {
		sink typewriter.Sink
		text string
	}{
		{c.o.Sinks.Greeting, t.Greeting},
		{c.o.Sinks.Body, t.Body},
		{c.o.Sinks.Signature, t.Signature},
	} {
		if f.sink != nil {
			f.sink.Set(f.text)
		}
	}
}

// WaitTyping blocks until the current letter playback, if any, has stopped and its outcome
// is reflected in State.
func (c *Controller) WaitTyping() {
	c.mu.Lock()
	done := c.typing
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Collapse closes the expanded panel and stops any typing.
func (c *Controller) Collapse() {
	c.stopTyping()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Expanded = PanelNone
}

// Back returns to the setup screen, keeping the form values. Everything still typing stops.
func (c *Controller) Back() {
	c.o.Engine.CancelAll()
	c.stopTyping()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Expanded = PanelNone
	c.st.Screen = ScreenSetup
}

func (c *Controller) stopTyping() {
	c.o.Engine.Cancel(letterTarget)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Typing = false
}

// Render draws the current letter and strip.
func (c *Controller) Render() (*keepsake.Keepsake, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.o.Compositor == nil {
		return nil, errors.New("no compositor")
	}
	return keepsake.Build(c.o.Compositor, c.st.Letter, c.st.Photos, c.o.Now())
}

func (c *Controller) sinks() []keepsake.Sink {
	var ss []keepsake.Sink
	for _, s := range []keepsake.Sink{c.o.Share, c.o.Download} {
		if s != nil {
			ss = append(ss, s)
		}
	}
	return ss
}

// Save exports the letter, and the strip when there are photos, as separate images.
// Failures are shown as notices; the returned error is for logging.
func (c *Controller) Save(ctx context.Context) error {
	k, err := c.Render()
	if err != nil {
		c.o.Notifier.Notify(fmt.Sprintf(SaveFailedNotice, keepsake.LetterFile))
		return fmt.Errorf("render: %w", err)
	}

	var errs []error
	for _, a := range k.Artifacts() {
		if _, err := keepsake.Deliver(ctx, a, c.sinks()...); err != nil {
			klog.Errorf("save %s: %v", a.Name, err)
			c.o.Notifier.Notify(fmt.Sprintf(SaveFailedNotice, a.Name))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Send exports the single composite image for the recipient. A share that falls back to a
// download is followed by a notice telling the user to pass it on.
func (c *Controller) Send(ctx context.Context) error {
	k, err := c.Render()
	if err != nil {
		c.o.Notifier.Notify(SendFailedNotice)
		return fmt.Errorf("render: %w", err)
	}

	used, err := keepsake.Deliver(ctx, k.CompositeArtifact(), c.sinks()...)
	if err != nil {
		klog.Errorf("send: %v", err)
		c.o.Notifier.Notify(SendFailedNotice)
		return err
	}
	if c.o.Share == nil || used.Name() != c.o.Share.Name() {
		c.o.Notifier.Notify(SentNotice)
	}
	return nil
}

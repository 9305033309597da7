package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"k8s.io/klog/v2"

	"github.com/fsnotify/fsnotify"
	"github.com/tstromberg/keepsake/pkg/app"
	"github.com/tstromberg/keepsake/pkg/click"
	"github.com/tstromberg/keepsake/pkg/keepsake"
	"github.com/tstromberg/keepsake/pkg/manage"
	"github.com/tstromberg/keepsake/pkg/typewriter"
)

var (
	letterPath = flag.String("letter", "", "Text file holding the letter body")
	photoDir   = flag.String("photos", "", "Directory to take up to four photos from")
	partner    = flag.String("partner", "", "Who the letter is for")
	sender     = flag.String("sender", "", "Who the letter is from")
	since      = flag.String("since", "", "Relationship start date as YYYY-MM-DD")
	exifSince  = flag.Bool("since-from-photos", false, "use the earliest photo capture date when --since is empty")
	outDir     = flag.String("out", "", "Location of output directory")
	themePath  = flag.String("theme", "", "YAML theme file")
	scale      = flag.Float64("scale", keepsake.DefaultScale, "letter supersampling factor")
	seed       = flag.Int64("seed", 0, "seed for paper and ink noise (0 = random)")
	shareCmd   = flag.String("share-cmd", "", "program to hand the composite to, like a share sheet")
	play       = flag.Bool("play", false, "type the letter out on the terminal and record typewriter.wav")
	listen     = flag.Bool("listen", false, "serve content via HTTP")
	addr       = flag.String("addr", "localhost:12800", "host:port to bind to in listen mode")
	watchFlag  = flag.Bool("watch", false, "watch the letter, photos and theme for changes and rebuild")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *outDir == "" {
		klog.Exitf("--out is a required flag")
	}

	c := &keepsake.Config{
		LetterPath:      *letterPath,
		PhotoDir:        *photoDir,
		Photos:          flag.Args(),
		Partner:         *partner,
		Sender:          *sender,
		Since:           *since,
		SinceFromPhotos: *exifSince,
		OutDir:          *outDir,
		ThemePath:       *themePath,
		Scale:           *scale,
		Seed:            *seed,
	}

	a, err := keepsake.Collect(c)
	if err != nil {
		klog.Exitf("collect failed: %v", err)
	}

	k, err := keepsake.Render(c, a)
	if err != nil {
		klog.Exitf("render failed: %v", err)
	}

	if *shareCmd != "" {
		parts := strings.Fields(*shareCmd)
		sink := keepsake.CommandSink{Command: parts[0], Args: parts[1:]}
		if _, err := keepsake.Deliver(context.Background(), k.CompositeArtifact(), sink); err != nil {
			klog.Errorf("share failed: %v", err)
		}
	}

	ctl, err := newController(c, a)
	if err != nil {
		klog.Exitf("controller: %v", err)
	}

	if *play {
		if err := playLetter(c, a, k); err != nil {
			klog.Errorf("playback failed: %v", err)
		}
	}

	var wg sync.WaitGroup
	if *watchFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(c, ctl); err != nil {
				klog.Errorf("watch failed: %v", err)
			}
		}()
	}

	if *listen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serve(*outDir, *addr, ctl)
		}()
	}

	wg.Wait()
}

func newController(c *keepsake.Config, a *keepsake.Assembly) (*app.Controller, error) {
	cp, err := c.NewCompositor()
	if err != nil {
		return nil, err
	}
	ctl := app.New(app.Options{
		Compositor: cp,
		Download:   keepsake.DirSink(c.OutDir),
	})
	ctl.Open(a.Letter, a.Photos)
	return ctl, nil
}

// serve serves the rendered site, with live previews under /live/.
func serve(path string, addr string, ctl *app.Controller) {
	fs := http.FileServer(http.Dir(path))
	http.Handle("/", fs)
	http.Handle("/live/", http.StripPrefix("/live", manage.New(ctl).Routes()))

	klog.Infof("Listening on %s...", addr)
	err := http.ListenAndServe(addr, nil)
	if err != nil {
		klog.Exitf("listen failed: %v", err)
	}
}

// termSink prints typed text, writing prefix before the first character.
type termSink struct {
	w       io.Writer
	prefix  string
	started bool
}

func (t *termSink) Set(string) {}

func (t *termSink) Append(s string) {
	if !t.started {
		fmt.Fprint(t.w, t.prefix)
		t.started = true
	}
	fmt.Fprint(t.w, s)
}

// playLetter types the letter on stdout with a bell for every key, recording the clicks into
// a soundtrack that the site then links to.
func playLetter(c *keepsake.Config, a *keepsake.Assembly, k *keepsake.Keepsake) error {
	rec := click.NewRecorder(click.FallbackRate)
	gate := click.NewGate(click.Tee{click.Bell{W: os.Stdout}, rec})
	synth := click.New(gate, click.FallbackRate)

	ctl := app.New(app.Options{
		Engine: typewriter.New(typewriter.Options{Clicker: synth}),
		Audio:  gate,
		Sinks: typewriter.LetterSinks{
			Greeting:  &termSink{w: os.Stdout},
			Body:      &termSink{w: os.Stdout, prefix: "\n\n"},
			Signature: &termSink{w: os.Stdout, prefix: "\n\n"},
		},
		OnReveal: func(seal string, days int) {
			fmt.Fprintf(os.Stdout, "\n\n%s · %d days\n", seal, days)
		},
	})
	ctl.Open(a.Letter, a.Photos)

	if !ctl.Expand(context.Background(), app.PanelLetter) {
		return fmt.Errorf("letter would not open")
	}
	ctl.WaitTyping()
	synth.Close()

	if !ctl.State().LetterTyped {
		return fmt.Errorf("letter typing stopped early")
	}

	if err := rec.WriteFile(filepath.Join(c.OutDir, keepsake.SoundtrackFile)); err != nil {
		return err
	}
	return keepsake.WriteSite(c.OutDir, k, a)
}

// watch watches the inputs for changes and rebuilds
func watch(c *keepsake.Config, ctl *app.Controller) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	dirs := []string{}
	for _, p := range []string{c.LetterPath, c.ThemePath} {
		if p != "" {
			dirs = append(dirs, filepath.Dir(p))
		}
	}
	if c.PhotoDir != "" {
		dirs = append(dirs, c.PhotoDir)
	}
	for _, p := range c.Photos {
		dirs = append(dirs, filepath.Dir(p))
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	if len(dirs) == 0 {
		return fmt.Errorf("nothing to watch")
	}

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %v", event)
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			// Our own output must not trigger another build.
			if rel, err := filepath.Rel(c.OutDir, event.Name); err == nil && !strings.HasPrefix(rel, "..") {
				continue
			}

			a, err := keepsake.Collect(c)
			if err != nil {
				klog.Errorf("collect failed: %v", err)
				continue
			}
			if _, err := keepsake.Render(c, a); err != nil {
				klog.Errorf("render failed: %v", err)
				continue
			}
			ctl.Open(a.Letter, a.Photos)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}

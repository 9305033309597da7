package keepsake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"k8s.io/klog/v2"
)

// Artifact file names.
const (
	LetterFile    = "love-letter.png"
	StripFile     = "photobooth.png"
	CompositeFile = "lover-letter.png"
)

// ErrUnsupported is returned by sinks that cannot deliver on this platform.
var ErrUnsupported = errors.New("sink unsupported")

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imgio.PNGEncoder()(w, img); err != nil {
		return fmt.Errorf("png: %w", err)
	}
	return nil
}

// Artifact is a named image ready for export.
type Artifact struct {
	Name  string
	Image image.Image
}

// PNG returns the encoded artifact.
func (a Artifact) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, a.Image); err != nil {
		return nil, fmt.Errorf("encode %s: %w", a.Name, err)
	}
	return buf.Bytes(), nil
}

// Sink delivers artifacts somewhere: a directory, a share command, a browser.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, a Artifact) error
}

// Deliver tries sinks in order and returns the one that accepted a. When every sink fails,
// the returned error joins all of their failures.
func Deliver(ctx context.Context, a Artifact, sinks ...Sink) (Sink, error) {
	var errs []error
	for _, s := range sinks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := s.Deliver(ctx, a)
		if err == nil {
			klog.V(1).Infof("delivered %s via %s", a.Name, s.Name())
			return s, nil
		}
		if !errors.Is(err, ErrUnsupported) {
			klog.Warningf("%s could not deliver %s: %v", s.Name(), a.Name, err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("deliver %s: no sinks", a.Name)
	}
	return nil, fmt.Errorf("deliver %s: %w", a.Name, errors.Join(errs...))
}

// DirSink saves artifacts into a directory, like a browser download.
type DirSink string

// Name implements Sink.
func (d DirSink) Name() string {
	return "download"
}

// Deliver implements Sink.
func (d DirSink) Deliver(_ context.Context, a Artifact) error {
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	p := filepath.Join(string(d), a.Name)
	klog.Infof("writing %s", p)
	if err := imgio.Save(p, a.Image, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save %s: %w", p, err)
	}
	return nil
}

// CommandSink hands the artifact to an external program as a temporary PNG path, the
// command-line stand-in for a platform share sheet. The file is removed once the program exits.
type CommandSink struct {
	Command string
	Args    []string
}

// Name implements Sink.
func (c CommandSink) Name() string {
	return "share"
}

// Deliver implements Sink.
func (c CommandSink) Deliver(ctx context.Context, a Artifact) error {
	if c.Command == "" {
		return ErrUnsupported
	}
	if _, err := exec.LookPath(c.Command); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	dir, err := os.MkdirTemp("", "keepsake")
	if err != nil {
		return fmt.Errorf("tempdir: %w", err)
	}
	defer os.RemoveAll(dir)
	if err := (DirSink(dir)).Deliver(ctx, a); err != nil {
		return err
	}

	args := append(append([]string{}, c.Args...), filepath.Join(dir, a.Name))
	out, err := exec.CommandContext(ctx, c.Command, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", c.Command, err, out)
	}
	return nil
}

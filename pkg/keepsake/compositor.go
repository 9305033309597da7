package keepsake

import (
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// DefaultScale is the supersampling factor for exported letters.
const DefaultScale = 3.0

// Compositor draws letters, strips and composites for one theme.
// It is not safe for concurrent use.
type Compositor struct {
	theme   *Theme
	pal     palette
	fonts   *fontSet
	scale   float64
	texture image.Image
	rnd     *rand.Rand
}

// NewCompositor prepares fonts and textures for t. A nil rnd is seeded from the clock.
func NewCompositor(t *Theme, scale float64, rnd *rand.Rand) (*Compositor, error) {
	if t == nil {
		t = DefaultTheme()
	}
	if scale <= 0 {
		scale = DefaultScale
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	pal, err := t.palette()
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	fs, err := loadFonts(t.Fonts)
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}

	c := &Compositor{theme: t, pal: pal, fonts: fs, scale: scale, rnd: rnd}

	if t.PaperTexture != "" {
		tex, err := imgio.Open(t.PaperTexture)
		if err != nil {
			// The flat paper color is an acceptable stand-in.
			klog.Warningf("unable to load paper texture %s: %v", t.PaperTexture, err)
		} else {
			b := tex.Bounds()
			c.texture = transform.Resize(tex, int(float64(b.Dx())*scale), int(float64(b.Dy())*scale), transform.Linear)
		}
	}

	return c, nil
}

// Scale returns the device pixels per logical unit.
func (c *Compositor) Scale() float64 {
	return c.scale
}

// Theme returns the compositor's theme.
func (c *Compositor) Theme() *Theme {
	return c.theme
}

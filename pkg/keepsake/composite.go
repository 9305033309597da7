package keepsake

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"k8s.io/klog/v2"
)

// Flat-lay composite parameters, in logical units.
const (
	compositeMargin = 40.0
	letterTilt      = -0.01
	stripTilt       = 0.03

	// The strip may take at most this share of the letter's height and width.
	stripMaxHeight = 0.7
	stripMaxWidth  = 0.5

	// Shadows are blurred at reduced resolution and scaled back up.
	shadowDownsample = 4
)

// shadow describes a soft drop shadow.
type shadow struct {
	alpha  float64
	blur   float64
	offset float64
}

var (
	letterShadow = shadow{alpha: 0.2, blur: 15, offset: 4}
	stripShadow  = shadow{alpha: 0.3, blur: 20, offset: 5}
)

// CompositeLayout is the geometry of a composite, in device pixels.
type CompositeLayout struct {
	Width, Height int
	Margin        float64
	// Letter is the unrotated letter rectangle.
	Letter image.Rectangle
	// Strip is the unrotated, scaled strip rectangle. It is empty when there is no strip.
	Strip      image.Rectangle
	StripScale float64
}

// LayoutComposite computes where the letter and strip go. A zero strip size means letter only.
func (c *Compositor) LayoutComposite(letter, strip image.Point) CompositeLayout {
	m := compositeMargin * c.scale
	lw, lh := float64(letter.X), float64(letter.Y)

	if strip.X == 0 || strip.Y == 0 {
		return CompositeLayout{
			Width:  int(math.Round(lw + 2*m)),
			Height: int(math.Round(lh + 2*m)),
			Margin: m,
			Letter: image.Rect(int(m), int(m), int(m)+letter.X, int(m)+letter.Y),
		}
	}

	sw, sh := float64(strip.X), float64(strip.Y)
	s := math.Min(stripMaxHeight*lh/sh, stripMaxWidth*lw/sw)
	if s > 1 {
		s = 1
	}
	sbw := math.Round(sw * s)
	sbh := math.Round(sh * s)

	w := lw + sbw + 3*m
	h := math.Max(lh, sbh) + 2*m

	// The strip is centered vertically in its column.
	sx := 2*m + lw
	sy := (h - sbh) / 2

	return CompositeLayout{
		Width:      int(math.Round(w)),
		Height:     int(math.Round(h)),
		Margin:     m,
		Letter:     image.Rect(int(m), int(m), int(m)+letter.X, int(m)+letter.Y),
		Strip:      image.Rect(int(sx), int(sy), int(sx+sbw), int(sy+sbh)),
		StripScale: s,
	}
}

// Assemble lays the letter and optional strip out on one background for sharing.
// Pass a nil strip for a letter-only composite.
func (c *Compositor) Assemble(letter, strip image.Image) *image.RGBA {
	var sz image.Point
	if strip != nil {
		sz = strip.Bounds().Size()
	}
	lay := c.LayoutComposite(letter.Bounds().Size(), sz)
	klog.V(1).Infof("composite %dx%d, strip scale %.3f", lay.Width, lay.Height, lay.StripScale)

	dc := gg.NewContext(lay.Width, lay.Height)

	if lay.Strip.Empty() {
		dc.SetColor(c.pal.accent)
		dc.Clear()
		dc.DrawImage(letter, lay.Letter.Min.X, lay.Letter.Min.Y)
		return dc.Image().(*image.RGBA)
	}

	dc.SetColor(c.pal.accentDeep)
	dc.Clear()

	c.place(dc, letter, lay.Letter, letterTilt, letterShadow)
	c.place(dc, resample(strip, lay.Strip.Dx(), lay.Strip.Dy()), lay.Strip, stripTilt, stripShadow)

	return dc.Image().(*image.RGBA)
}

// place draws img over its shadow, rotated by angle about the center of r.
func (c *Compositor) place(dc *gg.Context, img image.Image, r image.Rectangle, angle float64, sh shadow) {
	cx := float64(r.Min.X) + float64(r.Dx())/2
	cy := float64(r.Min.Y) + float64(r.Dy())/2

	off := sh.offset * c.scale
	dc.Push()
	dc.Translate(cx+off, cy+off)
	dc.Rotate(angle)
	dc.DrawImageAnchored(softShadow(r.Dx(), r.Dy(), sh.alpha, sh.blur*c.scale), 0, 0, 0.5, 0.5)
	dc.Pop()

	dc.Push()
	dc.Translate(cx, cy)
	dc.Rotate(angle)
	dc.DrawImageAnchored(img, 0, 0, 0.5, 0.5)
	dc.Pop()
}

// softShadow returns a blurred black rectangle of w x h, padded on every side so the blur
// can spread. The result stays centered on the rectangle.
func softShadow(w, h int, alpha, radius float64) *image.RGBA {
	k := shadowDownsample
	pad := int(math.Ceil(radius/float64(k))) * 2
	sw, sh := w/k+2*pad, h/k+2*pad

	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	a := uint8(math.Round(alpha * 255))
	fill := color.RGBA{A: a}
	for y := pad; y < sh-pad; y++ {
		for x := pad; x < sw-pad; x++ {
			small.SetRGBA(x, y, fill)
		}
	}

	blurred := blur.Gaussian(small, radius/float64(k)/2)
	out := image.NewRGBA(image.Rect(0, 0, w+2*pad*k, h+2*pad*k))
	xdraw.CatmullRom.Scale(out, out.Bounds(), blurred, blurred.Bounds(), xdraw.Src, nil)
	return out
}

// resample returns img scaled to w x h. Images already that size are returned as is.
func resample(img image.Image, w, h int) image.Image {
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out
}

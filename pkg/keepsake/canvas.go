package keepsake

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// canvas is a gg context addressed in logical units and rasterized at scale device pixels per
// unit. Text is rasterized at device resolution rather than upscaled.
type canvas struct {
	*gg.Context
	scale float64
}

func newCanvas(w, h, scale float64) *canvas {
	dc := gg.NewContext(int(math.Round(w*scale)), int(math.Round(h*scale)))
	dc.Scale(scale, scale)
	return &canvas{Context: dc, scale: scale}
}

// rgba returns the backing image.
func (c *canvas) rgba() *image.RGBA {
	return c.Image().(*image.RGBA)
}

// lineWidth sets a stroke width in logical units; gg widths are not transformed.
func (c *canvas) lineWidth(w float64) {
	c.SetLineWidth(w * c.scale)
}

func (c *canvas) face(tf *typeface, size float64) font.Face {
	return tf.face(size * c.scale)
}

// measurer measures text set in tf at size, in logical units.
func (c *canvas) measurer(tf *typeface, size float64) Measurer {
	return faceMeasurer{face: c.face(tf, size), scale: c.scale}
}

// text draws s anchored at (x, y). ay=0 puts the baseline on y; ay=0.5 centers the text on y.
func (c *canvas) text(tf *typeface, size float64, s string, x, y, ax, ay float64) {
	c.Push()
	defer c.Pop()
	c.Scale(1/c.scale, 1/c.scale)
	c.SetFontFace(c.face(tf, size))
	c.DrawStringAnchored(s, x*c.scale, y*c.scale, ax, ay)
}

// tracked draws s centered on cx with extra spacing after every rune, like CSS letter-spacing.
func (c *canvas) tracked(tf *typeface, size float64, s string, cx, y, spacing, ay float64) {
	m := c.measurer(tf, size)
	runes := []rune(s)
	w := 0.0
	for _, r := range runes {
		w += m.Measure(string(r)) + spacing
	}

	x := cx - w/2
	for _, r := range runes {
		c.text(tf, size, string(r), x, y, 0, ay)
		x += m.Measure(string(r)) + spacing
	}
}

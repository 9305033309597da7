package keepsake

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

const foxingSpots = 15

// paper fills the page and ages it: a warm vignette plus a scatter of faint foxing spots.
func (c *Compositor) paper(cv *canvas, w, h float64) {
	if c.texture != nil {
		cv.SetFillStyle(gg.NewSurfacePattern(c.texture, gg.RepeatBoth))
	} else {
		cv.SetColor(c.pal.paper)
	}
	cv.DrawRectangle(0, 0, w, h)
	cv.Fill()

	// Gradients are sampled in device pixels.
	s := cv.scale
	vg := gg.NewRadialGradient(w/2*s, h/2*s, w*0.3*s, w/2*s, h/2*s, w*0.7*s)
	vg.AddColorStop(0, color.NRGBA{})
	vg.AddColorStop(1, color.NRGBA{R: 140, G: 110, B: 60, A: 20})
	cv.SetFillStyle(vg)
	cv.DrawRectangle(0, 0, w, h)
	cv.Fill()

	for i := 0; i < foxingSpots; i++ {
		x := c.rnd.Float64() * w
		y := c.rnd.Float64() * h
		r := 2 + c.rnd.Float64()*8
		a := 0.02 + c.rnd.Float64()*0.04
		cv.SetColor(color.NRGBA{R: 160, G: 130, B: 70, A: uint8(math.Round(a * 255))})
		cv.DrawCircle(x, y, r)
		cv.Fill()
	}
}

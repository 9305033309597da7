package keepsake

import (
	"image"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"k8s.io/klog/v2"
)

// Photobooth strip geometry: a 2x6 inch print at 300 DPI.
const (
	StripDPI    = 300
	StripWidth  = 2 * StripDPI
	stripPad    = 30
	CellWidth   = StripWidth - 2*stripPad
	CellHeight  = CellWidth * 3 / 4
	cellGap     = 12
	captionBand = 36
	StripHeight = stripPad + captionBand + Slots*CellHeight + (Slots-1)*cellGap + captionBand + stripPad
)

// CellKind says what a strip cell shows.
type CellKind int

const (
	// CellPlaceholder is the empty-slot gradient.
	CellPlaceholder CellKind = iota
	// CellPhoto is a grayscale photo.
	CellPhoto
)

func (k CellKind) String() string {
	if k == CellPhoto {
		return "photo"
	}
	return "placeholder"
}

// Cell is one frame of the strip.
type Cell struct {
	Slot int
	Rect image.Rectangle
	Kind CellKind
}

// StripLayout is the structure of a rendered strip.
type StripLayout struct {
	Header string
	Cells  [Slots]Cell
	// Footer is the caption as drawn (uppercased).
	Footer string
}

// StripImage is a rendered photobooth strip.
type StripImage struct {
	Image  *image.RGBA
	Layout StripLayout
}

// RenderStrip draws the photobooth strip. Every slot gets a cell, in slot order; empty slots
// and photos that fail to decode become placeholders.
func (c *Compositor) RenderStrip(p *PhotoSet, n Names, now time.Time) *StripImage {
	dc := gg.NewContext(StripWidth, StripHeight)
	dc.SetColor(c.pal.accentDeep)
	dc.Clear()

	lay := StripLayout{Header: StripDate(now), Footer: strings.ToUpper(n.Caption())}

	dc.SetColor(c.pal.stripText)
	dc.SetFontFace(c.fonts.sans.face(11))
	dc.DrawStringAnchored(lay.Header, StripWidth/2, stripPad+captionBand/2, 0.5, 0.5)

	y := stripPad + captionBand
	for i := 0; i < Slots; i++ {
		r := image.Rect(stripPad, y, stripPad+CellWidth, y+CellHeight)
		cell := Cell{Slot: i, Rect: r, Kind: CellPlaceholder}

		if src := p.Slot(i); src != nil {
			img, err := printPhoto(src, CellWidth, CellHeight, c.theme.Contrast)
			if err != nil {
				klog.Warningf("photo %d unusable, using placeholder: %v", i, err)
			} else {
				dc.DrawImage(img, r.Min.X, r.Min.Y)
				cell.Kind = CellPhoto
			}
		}

		if cell.Kind == CellPlaceholder {
			c.placeholder(dc, r)
		}

		klog.V(1).Infof("strip cell %d: %s at %v", i, cell.Kind, r)
		lay.Cells[i] = cell
		y += CellHeight + cellGap
	}

	dc.SetColor(c.pal.stripText)
	dc.SetFontFace(c.fonts.sans.face(12))
	dc.DrawStringAnchored(lay.Footer, StripWidth/2, float64(y-cellGap+captionBand/2), 0.5, 0.5)

	return &StripImage{Image: dc.Image().(*image.RGBA), Layout: lay}
}

// placeholder fills r with a 135 degree gradient.
func (c *Compositor) placeholder(dc *gg.Context, r image.Rectangle) {
	g := gg.NewLinearGradient(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
	g.AddColorStop(0, c.pal.placeholder[0])
	g.AddColorStop(1, c.pal.placeholder[1])
	dc.SetFillStyle(g)
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.Fill()
}

package keepsake

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// Luma weights for the black-and-white film look.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// cover scales img to fill w x h while keeping its aspect ratio, then crops the overflow
// evenly from both sides.
func cover(img image.Image, w, h int) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image: %v", b)
	}

	ratio := math.Max(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	nw := int(math.Ceil(float64(b.Dx()) * ratio))
	nh := int(math.Ceil(float64(b.Dy()) * ratio))
	if nw < w {
		nw = w
	}
	if nh < h {
		nh = h
	}
	klog.V(2).Infof("cover %v -> %dx%d, crop %dx%d", b, nw, nh, w, h)

	resized := transform.Resize(img, nw, nh, transform.Lanczos)
	x0 := (nw - w) / 2
	y0 := (nh - h) / 2
	cropped := transform.Crop(resized, image.Rect(x0, y0, x0+w, y0+h))

	// Crop keeps the source offset; normalize to a zero origin.
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(out.Pix, cropped.Pix)
	return out, nil
}

// filmGray converts img to grayscale and stretches its contrast around mid-gray:
// v = (gray-128)*contrast + 128, clamped to [0, 255].
func filmGray(img image.Image, contrast float64) *image.RGBA {
	g := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)
	return adjust.Apply(g, func(c color.RGBA) color.RGBA {
		v := uint8(clamp((float64(c.R)-128)*contrast + 128))
		return color.RGBA{R: v, G: v, B: v, A: c.A}
	})
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(255, math.Round(v)))
}

// printPhoto prepares one strip cell from a photo source.
func printPhoto(src Source, w, h int, contrast float64) (*image.RGBA, error) {
	img, err := src.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	c, err := cover(img, w, h)
	if err != nil {
		return nil, fmt.Errorf("cover: %w", err)
	}
	return filmGray(c, contrast), nil
}

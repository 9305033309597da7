package keepsake

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
	"k8s.io/klog/v2"
)

// typeface caches faces of one font by pixel size.
type typeface struct {
	font  *truetype.Font
	faces map[float64]font.Face
}

func loadTypeface(path string, embedded []byte) (*typeface, error) {
	ttf := embedded
	if path != "" {
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		ttf = bs
		klog.V(1).Infof("using font %s", path)
	}

	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}
	return &typeface{font: f, faces: map[float64]font.Face{}}, nil
}

func (t *typeface) face(size float64) font.Face {
	if f, ok := t.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(t.font, &truetype.Options{Size: size, Hinting: font.HintingFull})
	t.faces[size] = f
	return f
}

// fontSet holds the three voices used on a keepsake.
type fontSet struct {
	typewriter *typeface
	sans       *typeface
	serif      *typeface
}

func loadFonts(f Fonts) (*fontSet, error) {
	tw, err := loadTypeface(f.Typewriter, gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("typewriter: %w", err)
	}
	sans, err := loadTypeface(f.Sans, gomedium.TTF)
	if err != nil {
		return nil, fmt.Errorf("sans: %w", err)
	}
	serif, err := loadTypeface(f.Serif, gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("serif: %w", err)
	}
	return &fontSet{typewriter: tw, sans: sans, serif: serif}, nil
}

// Measurer measures the advance width of a single line of text in logical units.
type Measurer interface {
	Measure(s string) float64
}

// faceMeasurer measures with a face rendered at scale times the logical size.
type faceMeasurer struct {
	face  font.Face
	scale float64
}

func (m faceMeasurer) Measure(s string) float64 {
	return fixedToFloat(font.MeasureString(m.face, s)) / m.scale
}

func fixedToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

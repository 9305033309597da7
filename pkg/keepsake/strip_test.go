package keepsake

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isGray(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == g && g == b
}

func cellCenter(c Cell) (int, int) {
	return c.Rect.Min.X + c.Rect.Dx()/2, c.Rect.Min.Y + c.Rect.Dy()/2
}

func TestStripSizeIsFixed(t *testing.T) {
	cp := newTestCompositor(t, 1)
	for n := 0; n <= Slots; n++ {
		var srcs []Source
		for i := 0; i < n; i++ {
			srcs = append(srcs, Decoded{Image: testPhoto(64, 48)})
		}
		s := cp.RenderStrip(NewPhotoSet(srcs...), Names{}, testNow)
		assert.Equal(t, image.Pt(600, 1788), s.Image.Bounds().Size(), "%d photos", n)
	}
}

func TestStripTwoPhotos(t *testing.T) {
	cp := newTestCompositor(t, 1)
	p := NewPhotoSet(nil, Decoded{Image: testPhoto(80, 60)}, nil, Decoded{Image: testPhoto(60, 80)})
	s := cp.RenderStrip(p, Names{Partner: "Alex", Sender: "Sam"}, testNow)

	assert.Equal(t, "OCT 19, 2026", s.Layout.Header)
	assert.Equal(t, "SAM & ALEX", s.Layout.Footer)

	want := []CellKind{CellPlaceholder, CellPhoto, CellPlaceholder, CellPhoto}
	prevY := 0
	for i, c := range s.Layout.Cells {
		assert.Equal(t, i, c.Slot)
		assert.Equal(t, want[i], c.Kind, "cell %d", i)
		assert.Equal(t, image.Pt(CellWidth, CellHeight), c.Rect.Size())
		assert.Greater(t, c.Rect.Min.Y, prevY)
		prevY = c.Rect.Max.Y

		x, y := cellCenter(c)
		if c.Kind == CellPhoto {
			assert.True(t, isGray(s.Image.At(x, y)), "cell %d should be grayscale", i)
		} else {
			assert.False(t, isGray(s.Image.At(x, y)), "cell %d should be the placeholder", i)
		}
	}
}

func TestStripBadPhotoIsPlaceholder(t *testing.T) {
	cp := newTestCompositor(t, 1)
	p := NewPhotoSet(Encoded("not a photo"), Decoded{Image: testPhoto(40, 30)})
	s := cp.RenderStrip(p, Names{}, testNow)

	assert.Equal(t, CellPlaceholder, s.Layout.Cells[0].Kind)
	assert.Equal(t, CellPhoto, s.Layout.Cells[1].Kind)
	assert.Equal(t, "YOU & ME", s.Layout.Footer)
}

func TestFilmGray(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 250, G: 250, B: 250, A: 255})

	out := filmGray(img, 2)
	dark := out.RGBAAt(0, 0)
	light := out.RGBAAt(1, 0)
	assert.InDelta(t, 72, int(dark.R), 2)
	assert.Equal(t, uint8(255), light.R)
	assert.True(t, isGray(dark))

	same := filmGray(img, 1).RGBAAt(0, 0)
	assert.InDelta(t, 100, int(same.R), 1)
}

func TestCover(t *testing.T) {
	for _, sz := range []image.Point{{10, 10}, {4000, 1000}, {300, 900}, {540, 405}} {
		out, err := cover(testPhoto(sz.X, sz.Y), CellWidth, CellHeight)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, CellWidth, CellHeight), out.Bounds(), "source %v", sz)
	}

	_, err := cover(image.NewRGBA(image.Rect(0, 0, 0, 0)), 10, 10)
	assert.Error(t, err)
}

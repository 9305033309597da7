package keepsake

import (
	"image"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 14, 5, 0, 0, time.Local)

func newTestCompositor(t *testing.T, scale float64) *Compositor {
	t.Helper()
	cp, err := NewCompositor(nil, scale, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return cp
}

func TestLetterScenarioNamed(t *testing.T) {
	cp := newTestCompositor(t, 1)
	l := Letter{
		Partner: "Alex",
		Sender:  "Sam",
		Since:   testNow.Add(-100 * 24 * time.Hour),
		Body:    "Hi\nThere",
	}

	lay := cp.LayoutLetter(l, testNow)
	assert.Equal(t, "Dear Alex,", lay.Greeting.Text)
	assert.Equal(t, []string{"Hi", "There"}, lay.BodyText())
	require.NotNil(t, lay.Signature)
	assert.Equal(t, "Yours, Sam", lay.Signature.Text)
	assert.Equal(t, 100, lay.Days)
	assert.Equal(t, [3]string{"100 DAYS", "LOVE", "OF US"}, lay.Stamp)
	assert.Equal(t, "SEALED AT 14:05", lay.Seal.Text)
	assert.Equal(t, [3]string{"LOVE LETTER", "OCT 19, '26", "NEW YORK, NY"}, lay.Postmark)

	// Lines run top to bottom with the signature right-aligned below the body.
	assert.Less(t, lay.Greeting.Y, lay.Body[0].Y)
	assert.Less(t, lay.Body[0].Y, lay.Body[1].Y)
	assert.Less(t, lay.Body[1].Y, lay.Signature.Y)
	assert.InDelta(t, LetterWidth-letterPad, lay.Signature.X+lay.Signature.Width, 0.001)
	assert.Less(t, lay.Signature.Y, lay.Seal.Y)
}

func TestLetterScenarioEmpty(t *testing.T) {
	cp := newTestCompositor(t, 1)
	lay := cp.LayoutLetter(Letter{}, testNow)

	assert.Equal(t, "Dear you,", lay.Greeting.Text)
	assert.Nil(t, lay.Signature)
	assert.Equal(t, 0, lay.Days)
	assert.Equal(t, "0 DAYS", lay.Stamp[0])

	var body string
	for i, s := range lay.BodyText() {
		if i > 0 {
			body += " "
		}
		body += s
	}
	assert.Equal(t, DefaultBody, body)
	for _, line := range lay.Body {
		assert.LessOrEqual(t, line.Width, ContentWidth)
	}
}

func TestLetterLayoutIgnoresNoise(t *testing.T) {
	l := Letter{Partner: "Alex", Body: "A long letter that wraps across more than one line of the page, " +
		"because it keeps going and going with no end in sight.\n\nAnd a second paragraph."}

	var first LetterLayout
	for seed := int64(0); seed < 4; seed++ {
		cp, err := NewCompositor(nil, 1, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		lay := cp.RenderLetter(l, testNow).Layout
		if seed == 0 {
			first = lay
			continue
		}
		assert.Equal(t, first, lay, "seed %d", seed)
	}
	assert.Greater(t, len(first.Body), 3)
}

func TestRenderLetterSize(t *testing.T) {
	for _, scale := range []float64{1, 2} {
		cp := newTestCompositor(t, scale)
		img := cp.RenderLetter(Letter{Partner: "Alex"}, testNow).Image
		want := image.Pt(int(LetterWidth*scale), int(LetterHeight*scale))
		assert.Equal(t, want, img.Bounds().Size(), "scale %v", scale)

		// The page is opaque paper, not a transparent canvas.
		_, _, _, a := img.At(img.Bounds().Dx()/2, img.Bounds().Dy()-5).RGBA()
		assert.Equal(t, uint32(0xffff), a)
	}
}

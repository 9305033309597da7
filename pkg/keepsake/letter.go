package keepsake

import (
	"image"
	"strings"
	"time"

	"k8s.io/klog/v2"
)

// Letter page geometry, in logical units.
const (
	LetterWidth  = 850.0
	LetterHeight = 1100.0

	letterPad      = 80.0
	greetingY      = 170.0
	greetingSize   = 28.0
	greetingGap    = 50.0
	bodySize       = 22.0
	bodyLeading    = 44.0
	paragraphGap   = 8.0
	signatureGap   = 20.0
	signatureAfter = 36.0
	sealSize       = 14.0
)

// ContentWidth is the widest a body line may be.
const ContentWidth = LetterWidth - 2*letterPad

// TextLine is one line of drawn text with its baseline position in logical units.
type TextLine struct {
	Text  string
	X, Y  float64
	Width float64
}

// LetterLayout is everything structural about a rendered letter. It is fully determined by
// the letter, the render time and the theme; the cosmetic noise is not part of it.
type LetterLayout struct {
	Greeting  TextLine
	Body      []TextLine
	Signature *TextLine
	Seal      TextLine
	Days      int
	Stamp     [3]string
	Postmark  [3]string
}

// BodyText returns the body lines as plain strings.
func (l LetterLayout) BodyText() []string {
	out := make([]string, 0, len(l.Body))
	for _, t := range l.Body {
		out = append(out, t.Text)
	}
	return out
}

// LetterImage is a rendered letter.
type LetterImage struct {
	Image  *image.RGBA
	Layout LetterLayout
}

// LayoutLetter positions every line of the letter without drawing anything.
func (c *Compositor) LayoutLetter(l Letter, now time.Time) LetterLayout {
	m := c.letterMeasures()
	lay := LetterLayout{
		Days:     DaysTogether(l.Since, now),
		Postmark: c.PostmarkText(now),
	}
	lay.Stamp = StampText(lay.Days)

	y := greetingY
	g := l.Greeting()
	lay.Greeting = TextLine{Text: g, X: letterPad, Y: y, Width: m.greeting.Measure(g)}
	y += greetingGap

	for _, para := range Wrap(m.body, l.Text(), ContentWidth) {
		for _, line := range para {
			lay.Body = append(lay.Body, TextLine{Text: line, X: letterPad, Y: y, Width: m.body.Measure(line)})
			y += bodyLeading
		}
		y += paragraphGap
	}

	if sig := l.Signature(); sig != "" {
		y += signatureGap
		w := m.body.Measure(sig)
		lay.Signature = &TextLine{Text: sig, X: LetterWidth - letterPad - w, Y: y, Width: w}
		y += signatureAfter
	}

	seal := strings.ToUpper(SealTime(now))
	w := m.seal.Measure(seal)
	lay.Seal = TextLine{Text: seal, X: LetterWidth - letterPad - w, Y: y, Width: w}

	return lay
}

type letterMetrics struct {
	greeting, body, seal Measurer
}

func (c *Compositor) letterMeasures() letterMetrics {
	tw := c.fonts.typewriter
	return letterMetrics{
		greeting: faceMeasurer{face: tw.face(greetingSize * c.scale), scale: c.scale},
		body:     faceMeasurer{face: tw.face(bodySize * c.scale), scale: c.scale},
		seal:     faceMeasurer{face: tw.face(sealSize * c.scale), scale: c.scale},
	}
}

// RenderLetter draws the letter page at the compositor's scale.
func (c *Compositor) RenderLetter(l Letter, now time.Time) *LetterImage {
	lay := c.LayoutLetter(l, now)
	klog.V(1).Infof("rendering letter: %d body lines, %d days, scale %.1f", len(lay.Body), lay.Days, c.scale)

	cv := newCanvas(LetterWidth, LetterHeight, c.scale)
	c.paper(cv, LetterWidth, LetterHeight)

	tw := c.fonts.typewriter
	cv.SetColor(c.pal.ink)
	cv.text(tw, greetingSize, lay.Greeting.Text, lay.Greeting.X, lay.Greeting.Y, 0, 0)
	for _, line := range lay.Body {
		cv.text(tw, bodySize, line.Text, line.X, line.Y, 0, 0)
	}
	if lay.Signature != nil {
		cv.text(tw, bodySize, lay.Signature.Text, lay.Signature.X, lay.Signature.Y, 0, 0)
	}
	cv.text(tw, sealSize, lay.Seal.Text, lay.Seal.X, lay.Seal.Y, 0, 0)

	c.inkStamp(cv, LetterWidth-letterPad-stampW-5, LetterHeight-letterPad-stampH-5, lay.Stamp)
	c.postmark(cv, LetterWidth-letterPad-postmarkR, letterPad+postmarkInset, lay.Postmark)

	return &LetterImage{Image: cv.rgba(), Layout: lay}
}

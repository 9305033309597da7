package keepsake

import (
	"fmt"
	"time"
)

const (
	stampW        = 170.0
	stampH        = 90.0
	stampTilt     = -0.06
	stampPasses   = 3
	stampJitter   = 1.2
	postmarkR     = 55.0
	postmarkTilt  = 0.2
	postmarkInset = 15.0
)

// StampText returns the three lines of the days-together stamp, top to bottom.
func StampText(days int) [3]string {
	return [3]string{fmt.Sprintf("%d DAYS", days), "LOVE", "OF US"}
}

// PostmarkText returns the three lines of the postmark, top to bottom.
func (c *Compositor) PostmarkText(now time.Time) [3]string {
	return [3]string{c.theme.Postmark.Caption, PostmarkDate(now), c.theme.Postmark.Location}
}

// inkStamp draws the rectangular days counter with its top-left corner at (x, y).
// The frame is struck several times with slight offsets, like a rubber stamp that bled.
func (c *Compositor) inkStamp(cv *canvas, x, y float64, lines [3]string) {
	cx, cy := x+stampW/2, y+stampH/2

	cv.Push()
	defer cv.Pop()
	cv.RotateAbout(stampTilt, cx, cy)

	for pass := 0; pass < stampPasses; pass++ {
		ox := (c.rnd.Float64() - 0.5) * stampJitter
		oy := (c.rnd.Float64() - 0.5) * stampJitter
		alpha := 0.12
		if pass == 0 {
			alpha = 0.65
		}

		cv.Push()
		cv.Translate(ox, oy)
		cv.SetColor(withAlpha(c.pal.stamp, alpha))
		cv.lineWidth(2.5)
		cv.DrawRectangle(x, y, stampW, stampH)
		cv.Stroke()
		cv.lineWidth(1)
		cv.DrawRectangle(x+6, y+6, stampW-12, stampH-12)
		cv.Stroke()
		cv.Pop()
	}

	cv.SetColor(withAlpha(c.pal.stamp, 0.7))
	cv.tracked(c.fonts.sans, 12, lines[0], cx, y+20, 2, 0.5)

	cv.SetColor(withAlpha(c.pal.stamp, 0.5))
	cv.lineWidth(1)
	cv.DrawLine(x+12, cy, cx-26, cy)
	cv.Stroke()
	cv.DrawLine(cx+26, cy, x+stampW-12, cy)
	cv.Stroke()

	cv.SetColor(withAlpha(c.pal.stamp, 0.7))
	cv.text(c.fonts.serif, 17, lines[1], cx, cy, 0.5, 0.5)
	cv.tracked(c.fonts.sans, 12, lines[2], cx, y+stampH-20, 3, 0.5)
}

// postmark draws the round cancellation mark centered on (x, y).
func (c *Compositor) postmark(cv *canvas, x, y float64, lines [3]string) {
	cv.Push()
	defer cv.Pop()
	cv.Translate(x, y)
	cv.Rotate(postmarkTilt)

	cv.SetColor(c.pal.ink)
	cv.lineWidth(2)
	cv.DrawCircle(0, 0, postmarkR)
	cv.Stroke()
	cv.lineWidth(1)
	cv.DrawCircle(0, 0, postmarkR-7)
	cv.Stroke()

	cv.lineWidth(1.5)
	cv.DrawLine(-postmarkR-6, 0, -postmarkR, 0)
	cv.Stroke()
	cv.DrawLine(postmarkR, 0, postmarkR+6, 0)
	cv.Stroke()

	cv.text(c.fonts.sans, 8, lines[0], 0, -16, 0.5, 0.5)
	cv.text(c.fonts.sans, 12, lines[1], 0, 2, 0.5, 0.5)
	cv.text(c.fonts.sans, 7, lines[2], 0, 18, 0.5, 0.5)
}

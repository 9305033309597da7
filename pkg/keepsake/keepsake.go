// Package keepsake renders love-letter keepsakes: a stylized letter page, a photobooth strip,
// and a flat-lay composite of the two.
package keepsake

import "time"

// Config holds configuration for keepsake.
type Config struct {
	// LetterPath is a text file holding the letter body.
	LetterPath string
	// PhotoDir is searched for up to four photos when Photos is empty.
	PhotoDir string
	Photos   []string

	Partner string
	Sender  string
	// Since is the relationship start date as YYYY-MM-DD.
	Since string
	// SinceFromPhotos derives Since from the earliest EXIF capture time when Since is empty.
	SinceFromPhotos bool

	OutDir    string
	ThemePath string
	Scale     float64
	// Seed feeds the cosmetic noise. Zero picks a time-based seed.
	Seed int64

	// Now overrides the render clock. Used by tests.
	Now func() time.Time
}

func (c *Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

package keepsake

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// Theme is the look of a keepsake. Every variant of the letter shares the same compositor;
// only the theme changes.
type Theme struct {
	Paper       string    `yaml:"paper"`
	Ink         string    `yaml:"ink"`
	Stamp       string    `yaml:"stamp"`
	Accent      string    `yaml:"accent"`
	AccentDeep  string    `yaml:"accent_deep"`
	StripText   string    `yaml:"strip_text"`
	Placeholder [2]string `yaml:"placeholder"`

	// PaperTexture is an optional image tiled behind the letter.
	PaperTexture string `yaml:"paper_texture"`

	// Contrast is applied to grayscale strip photos.
	Contrast float64 `yaml:"contrast"`

	Fonts    Fonts    `yaml:"fonts"`
	Postmark Postmark `yaml:"postmark"`
}

// Fonts are optional TrueType files. Empty entries use the embedded Go fonts.
type Fonts struct {
	Typewriter string `yaml:"typewriter"`
	Sans       string `yaml:"sans"`
	Serif      string `yaml:"serif"`
}

// Postmark holds the fixed postmark texts.
type Postmark struct {
	Caption  string `yaml:"caption"`
	Location string `yaml:"location"`
}

// DefaultTheme is the red-ink flat-lay look.
func DefaultTheme() *Theme {
	return &Theme{
		Paper:       "#E2D9CC",
		Ink:         "#C0392B",
		Stamp:       "#165DAD",
		Accent:      "#C0392B",
		AccentDeep:  "#961C14",
		StripText:   "#FDF6F2",
		Placeholder: [2]string{"#E8E0D8", "#D4C8BC"},
		Contrast:    1.15,
		Postmark: Postmark{
			Caption:  "LOVE LETTER",
			Location: "NEW YORK, NY",
		},
	}
}

// LoadTheme reads a YAML theme. Keys missing from the file keep their default values.
func LoadTheme(path string) (*Theme, error) {
	t := DefaultTheme()
	if path == "" {
		return t, nil
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	if err := yaml.Unmarshal(bs, t); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	klog.V(1).Infof("loaded theme from %s: %+v", path, *t)
	return t, nil
}

// Validate checks that every color parses.
func (t *Theme) Validate() error {
	for name, v := range map[string]string{
		"paper":         t.Paper,
		"ink":           t.Ink,
		"stamp":         t.Stamp,
		"accent":        t.Accent,
		"accent_deep":   t.AccentDeep,
		"strip_text":    t.StripText,
		"placeholder.0": t.Placeholder[0],
		"placeholder.1": t.Placeholder[1],
	} {
		if _, err := parseHex(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if t.Contrast <= 0 {
		return fmt.Errorf("contrast must be positive, got %v", t.Contrast)
	}
	return nil
}

// palette is a Theme with colors resolved.
type palette struct {
	paper, ink, stamp, accent, accentDeep, stripText color.NRGBA
	placeholder                                      [2]color.NRGBA
}

func (t *Theme) palette() (palette, error) {
	var p palette
	var err error
	for _, f := range []struct {
		dst *color.NRGBA
		src string
	}{
		{&p.paper, t.Paper},
		{&p.ink, t.Ink},
		{&p.stamp, t.Stamp},
		{&p.accent, t.Accent},
		{&p.accentDeep, t.AccentDeep},
		{&p.stripText, t.StripText},
		{&p.placeholder[0], t.Placeholder[0]},
		{&p.placeholder[1], t.Placeholder[1]},
	} {
		if *f.dst, err = parseHex(f.src); err != nil {
			return p, err
		}
	}
	return p, nil
}

// parseHex parses #RGB or #RRGGBB.
func parseHex(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 255}
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var err error
	switch len(h) {
	case 6:
		_, err = fmt.Sscanf(h, "%2x%2x%2x", &c.R, &c.G, &c.B)
	case 3:
		_, err = fmt.Sscanf(h, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("want #RRGGBB")
	}
	if err != nil {
		return c, fmt.Errorf("bad color %q: %w", s, err)
	}
	return c, nil
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(a*255 + 0.5)
	return c
}

package keepsake

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTheme(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadThemeMerges(t *testing.T) {
	p := writeTheme(t, "ink: \"#123\"\npostmark:\n  location: PARIS\n")
	th, err := LoadTheme(p)
	require.NoError(t, err)

	def := DefaultTheme()
	assert.Equal(t, "#123", th.Ink)
	assert.Equal(t, "PARIS", th.Postmark.Location)
	assert.Equal(t, def.Postmark.Caption, th.Postmark.Caption)
	assert.Equal(t, def.Paper, th.Paper)
	assert.Equal(t, def.Contrast, th.Contrast)

	th, err = LoadTheme("")
	require.NoError(t, err)
	assert.Equal(t, def, th)
}

func TestLoadThemeErrors(t *testing.T) {
	_, err := LoadTheme(writeTheme(t, "paper: beige\n"))
	assert.ErrorContains(t, err, "paper")

	_, err = LoadTheme(writeTheme(t, "contrast: 0\n"))
	assert.ErrorContains(t, err, "contrast")

	_, err = LoadTheme(writeTheme(t, "paper: [\n"))
	assert.Error(t, err)

	_, err = LoadTheme(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#C0392B", color.NRGBA{R: 0xC0, G: 0x39, B: 0x2B, A: 255}},
		{"c0392b", color.NRGBA{R: 0xC0, G: 0x39, B: 0x2B, A: 255}},
		{" #fff ", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#1a2", color.NRGBA{R: 0x11, G: 0xAA, B: 0x22, A: 255}},
	}
	for _, tc := range tests {
		got, err := parseHex(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "#12", "#12345", "#GGGGGG"} {
		_, err := parseHex(bad)
		assert.Error(t, err, bad)
	}
}

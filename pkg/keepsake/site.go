package keepsake

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

//go:embed assets/site/index.tmpl
var indexTmpl string

//go:embed assets/site/style.css
var styleText string

// SoundtrackFile is the recorded typewriter audio, linked from the site when present.
const SoundtrackFile = "typewriter.wav"

// WriteSite writes index.html for a rendered keepsake and copies the original photos into
// outDir/_/. The images themselves must already be in outDir.
func WriteSite(outDir string, k *Keepsake, a *Assembly) error {
	var originals []string
	for _, p := range a.PhotoPaths {
		base := filepath.Base(p)
		dst := filepath.Join(outDir, "_", base)
		klog.V(1).Infof("copying %s -> %s", p, dst)
		if err := copy.Copy(p, dst); err != nil {
			return fmt.Errorf("copy %s: %w", p, err)
		}
		originals = append(originals, base)
	}

	bs, err := renderIndex(k, a.Letter, originals, soundtrack(outDir))
	if err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	p := filepath.Join(outDir, "index.html")
	klog.Infof("writing %s", p)
	return os.WriteFile(p, bs, 0o644)
}

func soundtrack(outDir string) string {
	if _, err := os.Stat(filepath.Join(outDir, SoundtrackFile)); err != nil {
		return ""
	}
	return SoundtrackFile
}

func renderIndex(k *Keepsake, l Letter, originals []string, sound string) ([]byte, error) {
	tmpl, err := template.New("index").Parse(indexTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	lay := k.Letter.Layout
	data := struct {
		Title         string
		Greeting      string
		Body          []string
		Signature     string
		Seal          string
		Days          int
		Caption       string
		LetterFile    string
		StripFile     string
		CompositeFile string
		Soundtrack    string
		Share         string
		Originals     []string
		Style         template.CSS
	}{
		Title:         lay.Greeting.Text,
		Greeting:      lay.Greeting.Text,
		Body:          paragraphs(l.Text()),
		Signature:     l.Signature(),
		Seal:          SealTime(k.Now),
		Days:          lay.Days,
		Caption:       l.Names().Caption(),
		LetterFile:    LetterFile,
		CompositeFile: CompositeFile,
		Soundtrack:    sound,
		Share:         k.Share,
		Originals:     originals,
		Style:         template.CSS(styleText),
	}
	if k.Strip != nil {
		data.StripFile = StripFile
	}

	var tpl bytes.Buffer
	if err = tmpl.Execute(&tpl, data); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	return tpl.Bytes(), nil
}

// paragraphs splits body text into non-blank paragraphs.
func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

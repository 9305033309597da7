package keepsake

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"

	"k8s.io/klog/v2"
)

// Keepsake is a fully rendered set of images for one letter.
type Keepsake struct {
	Letter *LetterImage
	// Strip is nil when there are no photos.
	Strip     *StripImage
	Composite *image.RGBA
	// Share is the share-link fragment for the letter.
	Share string
	Now   time.Time
}

// Artifacts returns the files a save writes: the letter, then the strip when there are photos.
func (k *Keepsake) Artifacts() []Artifact {
	as := []Artifact{{Name: LetterFile, Image: k.Letter.Image}}
	if k.Strip != nil {
		as = append(as, Artifact{Name: StripFile, Image: k.Strip.Image})
	}
	return as
}

// CompositeArtifact returns the single image a send delivers.
func (k *Keepsake) CompositeArtifact() Artifact {
	return Artifact{Name: CompositeFile, Image: k.Composite}
}

// NewCompositor builds a compositor from the theme, scale and seed in c.
func (c *Config) NewCompositor() (*Compositor, error) {
	t, err := LoadTheme(c.ThemePath)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	var rnd *rand.Rand
	if c.Seed != 0 {
		rnd = rand.New(rand.NewSource(c.Seed))
	}
	return NewCompositor(t, c.Scale, rnd)
}

// Build renders every image for a without writing anything.
func Build(cp *Compositor, l Letter, p *PhotoSet, now time.Time) (*Keepsake, error) {
	k := &Keepsake{Now: now}
	k.Letter = cp.RenderLetter(l, now)

	var strip image.Image
	if p.HasPhotos() {
		k.Strip = cp.RenderStrip(p, l.Names(), now)
		strip = k.Strip.Image
	}
	k.Composite = cp.Assemble(k.Letter.Image, strip)

	share, err := EncodeShare(l)
	if err != nil {
		return nil, fmt.Errorf("share: %w", err)
	}
	k.Share = share
	return k, nil
}

// Render renders the assembly and writes its images and site into c.OutDir.
func Render(c *Config, a *Assembly) (*Keepsake, error) {
	cp, err := c.NewCompositor()
	if err != nil {
		return nil, fmt.Errorf("compositor: %w", err)
	}

	klog.Infof("rendering keepsake into %s ...", c.OutDir)
	k, err := Build(cp, a.Letter, a.Photos, c.now())
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	ctx := context.Background()
	out := DirSink(c.OutDir)
	for _, art := range append(k.Artifacts(), k.CompositeArtifact()) {
		if err := out.Deliver(ctx, art); err != nil {
			return nil, fmt.Errorf("write %s: %w", art.Name, err)
		}
	}

	if err := WriteSite(c.OutDir, k, a); err != nil {
		return nil, fmt.Errorf("write site: %w", err)
	}
	return k, nil
}

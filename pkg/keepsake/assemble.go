package keepsake

import (
	"fmt"
	"os"
	"time"

	"k8s.io/klog/v2"
)

// an Assembly is everything a keepsake is made from.
type Assembly struct {
	Letter     Letter
	Photos     *PhotoSet
	PhotoPaths []string
}

// Collect gathers the letter and photos described by c.
func Collect(c *Config) (*Assembly, error) {
	l := Letter{Partner: c.Partner, Sender: c.Sender}

	if c.LetterPath != "" {
		bs, err := os.ReadFile(c.LetterPath)
		if err != nil {
			return nil, fmt.Errorf("read letter: %w", err)
		}
		l.Body = string(bs)
	}

	since, err := ParseDate(c.Since)
	if err != nil {
		return nil, fmt.Errorf("since: %w", err)
	}
	l.Since = since

	paths := c.Photos
	if len(paths) == 0 && c.PhotoDir != "" {
		paths, err = FindPhotos(c.PhotoDir)
		if err != nil {
			return nil, fmt.Errorf("find: %w", err)
		}
	}
	if len(paths) > Slots {
		klog.Warningf("%d photos given, only the first %d fit on a strip", len(paths), Slots)
		paths = paths[:Slots]
	}

	if l.Since.IsZero() && c.SinceFromPhotos {
		t, err := EarliestTaken(paths)
		if err != nil {
			klog.Warningf("unable to date photos: %v", err)
		} else if !t.IsZero() {
			y, m, d := t.Date()
			l.Since = time.Date(y, m, d, 0, 0, 0, 0, time.Local)
			klog.Infof("together since %s, from photo metadata", l.Since.Format(DateFormat))
		}
	}

	srcs := make([]Source, 0, len(paths))
	for _, p := range paths {
		srcs = append(srcs, File(p))
	}

	klog.Infof("collected letter for %q with %d photos", l.Partner, len(srcs))
	return &Assembly{Letter: l, Photos: NewPhotoSet(srcs...), PhotoPaths: paths}, nil
}

package keepsake

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

var exifDate = "2006:01:02 15:04:05"

var photoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// FindPhotos returns up to Slots photos under root, in path order. Hidden files and
// directories are skipped.
func FindPhotos(root string) ([]string, error) {
	found := []string{}

	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: false,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != root && strings.HasPrefix(filepath.Base(path), ".") {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}
			if de.IsDir() {
				return nil
			}
			if photoExts[strings.ToLower(filepath.Ext(path))] {
				klog.V(1).Infof("found %s", path)
				found = append(found, path)
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(found)
	if len(found) > Slots {
		klog.Infof("found %d photos in %s, using the first %d", len(found), root, Slots)
		found = found[:Slots]
	}
	return found, nil
}

// EarliestTaken returns the earliest EXIF capture time among paths, or the zero time when
// none of them carry one.
func EarliestTaken(paths []string) (time.Time, error) {
	if len(paths) == 0 {
		return time.Time{}, nil
	}

	et, err := exiftool.NewExiftool()
	if err != nil {
		return time.Time{}, fmt.Errorf("exiftool: %w", err)
	}
	defer et.Close()

	var earliest time.Time
	for _, fi := range et.ExtractMetadata(paths...) {
		if fi.Err != nil {
			klog.Warningf("extract fail for %q: %v", fi.File, fi.Err)
			continue
		}
		ds, err := fi.GetString("DateTimeOriginal")
		if err != nil {
			klog.V(1).Infof("unable to get date time for %s: %v", fi.File, err)
			continue
		}
		t, err := time.ParseInLocation(exifDate, ds, time.Local)
		if err != nil {
			klog.Warningf("parse time %q: %v", ds, err)
			continue
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	return earliest, nil
}

package keepsake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionLetter(t *testing.T) {
	s := Submission{Partner: "  Alex ", Sender: "Sam\n", Since: "2026-07-11", Body: "Hi"}
	l, err := s.Letter()
	require.NoError(t, err)
	assert.Equal(t, "Alex", l.Partner)
	assert.Equal(t, "Sam", l.Sender)
	assert.Equal(t, "Hi", l.Body)
	assert.Equal(t, 100, DaysTogether(l.Since, testNow))

	l, err = Submission{}.Letter()
	require.NoError(t, err)
	assert.Equal(t, "Dear you,", l.Greeting())
}

func TestSubmissionValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Submission
		want string
	}{
		{"long name", Submission{Partner: strings.Repeat("x", 81)}, "partner must be at most 80 characters"},
		{"bad date", Submission{Since: "14/02/2024"}, "since must be a date like 2006-01-02"},
		{"not an image", Submission{Photos: [Slots]string{"", "hello"}}, "must be an image data uri"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.s.Letter()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadPhotosKeepsSlots(t *testing.T) {
	good := dataURI(t, testPhoto(8, 6))
	s := Submission{Photos: [Slots]string{"", good, "data:image/png;base64,bm9wZQ==", good}}

	p := NewPhotoSet()
	assert.Equal(t, 2, s.LoadPhotos(p))
	assert.Equal(t, 2, p.Count())

	// Each photo lands in its own slot; the broken upload leaves slot 2 empty.
	assert.Nil(t, p.Slot(0))
	assert.NotNil(t, p.Slot(1))
	assert.Nil(t, p.Slot(2))
	assert.NotNil(t, p.Slot(3))
	assert.Equal(t, []int{0, 2}, p.Claim(Slots))
}

func TestLoadPhotosSkipsTakenSlots(t *testing.T) {
	img := Decoded{Image: testPhoto(2, 2)}
	p := NewPhotoSet(img)
	good := dataURI(t, testPhoto(4, 4))
	assert.Equal(t, 1, Submission{Photos: [Slots]string{good, good}}.LoadPhotos(p))
	assert.Equal(t, img, p.Slot(0))
	assert.NotNil(t, p.Slot(1))
}

func TestSubmittedPhotosRenderInSlotOrder(t *testing.T) {
	a := dataURI(t, testPhoto(80, 60))
	b := dataURI(t, testPhoto(60, 80))
	p := NewPhotoSet()
	require.Equal(t, 2, Submission{Photos: [Slots]string{"", a, "", b}}.LoadPhotos(p))

	s := newTestCompositor(t, 1).RenderStrip(p, Names{}, testNow)
	var got []CellKind
	for _, c := range s.Layout.Cells {
		got = append(got, c.Kind)
	}
	assert.Equal(t, []CellKind{CellPlaceholder, CellPhoto, CellPlaceholder, CellPhoto}, got)
}

func TestAddUploadsFillsEmptySlots(t *testing.T) {
	img := Decoded{Image: testPhoto(2, 2)}
	p := NewPhotoSet(nil, img)
	good := dataURI(t, testPhoto(4, 4))

	assert.Equal(t, 2, AddUploads(p, []string{good, "", "data:image/png;base64,bm9wZQ==", good}))
	assert.NotNil(t, p.Slot(0))
	assert.Equal(t, img, p.Slot(1))
	// The broken upload claimed slot 2 and gave it back.
	assert.Nil(t, p.Slot(2))
	assert.NotNil(t, p.Slot(3))

	full := NewPhotoSet(img, img, img)
	assert.Equal(t, 1, AddUploads(full, []string{good, good}))
	assert.Equal(t, Slots, full.Count())
}

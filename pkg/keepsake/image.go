package keepsake

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Slots is the number of photos a strip holds.
const Slots = 4

// DefaultBody is used when the letter body is empty.
const DefaultBody = "You are the most beautiful chapter in my story."

// Letter is an immutable snapshot of what the letter says.
type Letter struct {
	Partner string
	Sender  string
	// Since is the start of the relationship. The zero value means "now".
	Since time.Time
	Body  string
}

// Names returns the pair of names used for the strip footer.
func (l Letter) Names() Names {
	return Names{Partner: l.Partner, Sender: l.Sender}
}

// Greeting returns the salutation line.
func (l Letter) Greeting() string {
	if l.Partner == "" {
		return "Dear you,"
	}
	return fmt.Sprintf("Dear %s,", l.Partner)
}

// Text returns the body, falling back to DefaultBody.
func (l Letter) Text() string {
	if strings.TrimSpace(l.Body) == "" {
		return DefaultBody
	}
	return l.Body
}

// Signature returns the closing line, or "" when there is no sender.
func (l Letter) Signature() string {
	if l.Sender == "" {
		return ""
	}
	return fmt.Sprintf("Yours, %s", l.Sender)
}

// Names are the people a strip is captioned with.
type Names struct {
	Partner string
	Sender  string
}

// Caption returns the strip footer text.
func (n Names) Caption() string {
	switch {
	case n.Partner != "" && n.Sender != "":
		return fmt.Sprintf("%s & %s", n.Sender, n.Partner)
	case n.Partner != "":
		return fmt.Sprintf("me & %s", n.Partner)
	default:
		return "you & me"
	}
}

// Source supplies a decoded photo. Decoding is deferred so a bad photo only affects its own cell.
type Source interface {
	Decode() (image.Image, error)
}

// Decoded wraps an already decoded image.
type Decoded struct {
	Image image.Image
}

// Decode returns the wrapped image.
func (d Decoded) Decode() (image.Image, error) {
	if d.Image == nil {
		return nil, fmt.Errorf("no image")
	}
	return d.Image, nil
}

// Encoded holds raw image bytes (JPEG, PNG, GIF, BMP, WebP).
type Encoded []byte

// Decode decodes the bytes.
func (e Encoded) Decode() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(e))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// File is a photo on disk.
type File string

// Decode reads and decodes the file.
func (f File) Decode() (image.Image, error) {
	bs, err := os.ReadFile(string(f))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Encoded(bs).Decode()
}

// FromDataURI parses a "data:image/...;base64," URI. Plain base64 is accepted too.
func FromDataURI(uri string) (Encoded, error) {
	payload := uri
	if strings.HasPrefix(uri, "data:") {
		i := strings.Index(uri, ",")
		if i < 0 {
			return nil, fmt.Errorf("malformed data uri")
		}
		if !strings.Contains(uri[:i], ";base64") {
			return nil, fmt.Errorf("data uri is not base64")
		}
		payload = uri[i+1:]
	}
	bs, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	return Encoded(bs), nil
}

// PhotoSet is the fixed, ordered set of strip photos. Empty slots are nil.
type PhotoSet struct {
	mu    sync.Mutex
	slots [Slots]Source
}

// NewPhotoSet returns a set filled from srcs in order. Extra sources are ignored.
func NewPhotoSet(srcs ...Source) *PhotoSet {
	p := &PhotoSet{}
	for i, s := range srcs {
		if i >= Slots {
			break
		}
		p.slots[i] = s
	}
	return p
}

// Claim reserves up to n empty slots, in order, and returns their indices.
// Claimed slots hold a pending marker until filled, so concurrent decodes never share a slot.
func (p *PhotoSet) Claim(n int) []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var idx []int
	for i := 0; i < Slots && len(idx) < n; i++ {
		if p.slots[i] == nil {
			p.slots[i] = pending{}
			idx = append(idx, i)
		}
	}
	return idx
}

// Reserve marks slot i as loading, like Claim does for one specific slot. It reports false
// when the slot is out of range or already taken.
func (p *PhotoSet) Reserve(i int) bool {
	if i < 0 || i >= Slots {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.slots[i] != nil {
		return false
	}
	p.slots[i] = pending{}
	return true
}

// Fill stores src in slot i.
func (p *PhotoSet) Fill(i int, src Source) error {
	if i < 0 || i >= Slots {
		return fmt.Errorf("slot %d out of range", i)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots[i] = src
	return nil
}

// Clear empties slot i.
func (p *PhotoSet) Clear(i int) {
	if i < 0 || i >= Slots {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots[i] = nil
}

// Slot returns the source in slot i, or nil when empty or still pending.
func (p *PhotoSet) Slot(i int) Source {
	if p == nil || i < 0 || i >= Slots {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.slots[i].(pending); ok {
		return nil
	}
	return p.slots[i]
}

// HasPhotos reports whether any slot is filled.
func (p *PhotoSet) HasPhotos() bool {
	if p == nil {
		return false
	}
	for i := 0; i < Slots; i++ {
		if p.Slot(i) != nil {
			return true
		}
	}
	return false
}

// Count returns the number of filled slots.
func (p *PhotoSet) Count() int {
	n := 0
	for i := 0; i < Slots; i++ {
		if p.Slot(i) != nil {
			n++
		}
	}
	return n
}

type pending struct{}

func (pending) Decode() (image.Image, error) {
	return nil, fmt.Errorf("photo still loading")
}

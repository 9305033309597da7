package keepsake

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"k8s.io/klog/v2"
)

var validate = validator.New()

// Submission is the setup form as submitted. Every field is optional.
type Submission struct {
	Partner string `json:"partner" validate:"max=80"`
	Sender  string `json:"sender" validate:"max=80"`
	// Since is YYYY-MM-DD.
	Since string `json:"since" validate:"omitempty,datetime=2006-01-02"`
	Body  string `json:"body" validate:"max=10000"`
	// Photos are base64 data URIs; empty entries are empty slots.
	Photos [Slots]string `json:"photos" validate:"dive,omitempty,startswith=data:image/"`
}

// Validate checks the submission against its field rules.
func (s Submission) Validate() error {
	if err := validate.Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			var msgs []string
			for _, e := range verrs {
				msgs = append(msgs, formatFieldError(e))
			}
			return fmt.Errorf("invalid submission: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date like %s", field, e.Param())
	case "startswith":
		return fmt.Sprintf("%s must be an image data uri", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Letter returns the letter the submission describes. Names are trimmed.
func (s Submission) Letter() (Letter, error) {
	if err := s.Validate(); err != nil {
		return Letter{}, err
	}
	since, err := ParseDate(s.Since)
	if err != nil {
		return Letter{}, err
	}
	return Letter{
		Partner: strings.TrimSpace(s.Partner),
		Sender:  strings.TrimSpace(s.Sender),
		Since:   since,
		Body:    s.Body,
	}, nil
}

// LoadPhotos puts each submitted photo into its own slot: Photos[i] goes to slot i and empty
// entries stay empty. Uploads are decoded concurrently; one that fails to decode leaves its
// slot empty. It returns the number of photos added.
func (s Submission) LoadPhotos(p *PhotoSet) int {
	var slots []int
	var uris []string
	for i, u := range s.Photos {
		if u == "" {
			continue
		}
		if !p.Reserve(i) {
			klog.Warningf("slot %d is taken, skipping submitted photo", i)
			continue
		}
		slots = append(slots, i)
		uris = append(uris, u)
	}
	return fillSlots(p, slots, uris)
}

// AddUploads adds photos to the first empty slots, in order, the way picking several files at
// once does. Slots are claimed before any decode starts. Photos beyond the free slots are
// dropped. It returns the number of photos added.
func AddUploads(p *PhotoSet, uris []string) int {
	var nonEmpty []string
	for _, u := range uris {
		if u != "" {
			nonEmpty = append(nonEmpty, u)
		}
	}
	slots := p.Claim(len(nonEmpty))
	if len(slots) < len(nonEmpty) {
		klog.Warningf("only %d free slots for %d photos", len(slots), len(nonEmpty))
	}
	return fillSlots(p, slots, nonEmpty[:len(slots)])
}

// fillSlots decodes uris[n] into the reserved slot slots[n]. Failed decodes release their slot.
func fillSlots(p *PhotoSet, slots []int, uris []string) int {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for n, slot := range slots {
		wg.Add(1)
		go func(slot int, uri string) {
			defer wg.Done()
			src, err := decodeUpload(uri)
			if err != nil {
				klog.Warningf("photo %d: %v", slot, err)
				p.Clear(slot)
				return
			}
			if err := p.Fill(slot, src); err != nil {
				klog.Errorf("fill %d: %v", slot, err)
				return
			}
			mu.Lock()
			added++
			mu.Unlock()
		}(slot, uris[n])
	}
	wg.Wait()
	return added
}

// decodeUpload checks that uri holds a decodable image and returns it as a source.
func decodeUpload(uri string) (Source, error) {
	bs, err := FromDataURI(uri)
	if err != nil {
		return nil, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	klog.V(1).Infof("accepted %s upload %dx%d", format, cfg.Width, cfg.Height)
	return bs, nil
}

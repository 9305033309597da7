// Package manage provides HTTP handlers for previewing and exporting keepsakes.
package manage

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"

	"github.com/tstromberg/keepsake/pkg/app"
	"github.com/tstromberg/keepsake/pkg/keepsake"
	"k8s.io/klog/v2"
)

// maxSubmission bounds a posted form: four photos as data URIs plus text.
const maxSubmission = 64 << 20

// Server serves live previews of the controller's current keepsake.
type Server struct {
	ctl *app.Controller
}

// New creates a new server.
func New(ctl *app.Controller) *Server {
	return &Server{ctl: ctl}
}

// Routes returns a mux with every handler registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/submit", s.SubmitHandler())
	mux.HandleFunc("/photos", s.PhotosHandler())
	mux.HandleFunc("/"+keepsake.LetterFile, s.ImageHandler(func(k *keepsake.Keepsake) image.Image { return k.Letter.Image }))
	mux.HandleFunc("/"+keepsake.StripFile, s.ImageHandler(func(k *keepsake.Keepsake) image.Image {
		if k.Strip == nil {
			return nil
		}
		return k.Strip.Image
	}))
	mux.HandleFunc("/"+keepsake.CompositeFile, s.ImageHandler(func(k *keepsake.Keepsake) image.Image { return k.Composite }))
	mux.HandleFunc("/share", s.ShareHandler())
	mux.HandleFunc("/save", s.ExportHandler(s.ctl.Save))
	mux.HandleFunc("/send", s.ExportHandler(s.ctl.Send))
	return mux
}

// SubmitHandler accepts a JSON keepsake.Submission.
func (s *Server) SubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var sub keepsake.Submission
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmission)).Decode(&sub); err != nil {
			http.Error(w, fmt.Sprintf("decode: %v", err), http.StatusBadRequest)
			return
		}
		if err := s.ctl.Submit(sub); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		klog.Infof("submit from %s", r.RemoteAddr)
		w.WriteHeader(http.StatusNoContent)
	}
}

// PhotosHandler adds a JSON array of photo data URIs to the empty slots.
func (s *Server) PhotosHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var uris []string
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmission)).Decode(&uris); err != nil {
			http.Error(w, fmt.Sprintf("decode: %v", err), http.StatusBadRequest)
			return
		}
		n := s.ctl.AddPhotos(uris)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]int{"added": n}); err != nil {
			klog.Errorf("encode: %v", err)
		}
	}
}

// ImageHandler renders the current keepsake and serves the image pick returns as PNG.
// A nil image is a 404.
func (s *Server) ImageHandler(pick func(*keepsake.Keepsake) image.Image) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k, err := s.ctl.Render()
		if err != nil {
			klog.Errorf("render: %v", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		img := pick(k)
		if img == nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		if err := keepsake.EncodePNG(w, img); err != nil {
			klog.Errorf("encode %s: %v", r.URL.Path, err)
		}
	}
}

// ShareHandler returns the share-link fragment for the current letter. With ?d=<fragment>
// it loads that link instead.
func (s *Server) ShareHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d := r.URL.Query().Get("d"); d != "" {
			if !s.ctl.LoadShare(d) {
				http.Error(w, "unreadable share link", http.StatusBadRequest)
				return
			}
			klog.Infof("loaded share link for %q", s.ctl.State().Letter.Partner)
		}

		frag, err := keepsake.EncodeShare(s.ctl.State().Letter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "#%s\n", frag)
	}
}

// ExportHandler runs a save or send action.
func (s *Server) ExportHandler(action func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		if err := action(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

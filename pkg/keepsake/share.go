package keepsake

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"k8s.io/klog/v2"
)

// sharePayload is the compact form carried in a share link. Photos are never included.
type sharePayload struct {
	Partner string `json:"n,omitempty"`
	Sender  string `json:"s,omitempty"`
	Date    string `json:"d,omitempty"`
	Body    string `json:"l,omitempty"`
}

// EncodeShare returns the share-link fragment for l.
func EncodeShare(l Letter) (string, error) {
	p := sharePayload{Partner: l.Partner, Sender: l.Sender, Body: l.Body}
	if !l.Since.IsZero() {
		p.Date = l.Since.Format(DateFormat)
	}
	bs, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	return base64.StdEncoding.EncodeToString(bs), nil
}

// DecodeShare parses a share-link fragment. A leading "#" is ignored, and spaces are read as
// "+" since query decoding turns an unescaped "+" into a space. Malformed input is not an
// error: ok is false and the caller carries on as if there were no link.
func DecodeShare(s string) (l Letter, ok bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	s = strings.ReplaceAll(s, " ", "+")
	if s == "" {
		return Letter{}, false
	}

	bs, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		klog.V(1).Infof("share link is not base64: %v", err)
		return Letter{}, false
	}

	var p sharePayload
	if err := json.Unmarshal(bs, &p); err != nil {
		klog.V(1).Infof("share link is not json: %v", err)
		return Letter{}, false
	}

	l = Letter{Partner: p.Partner, Sender: p.Sender, Body: p.Body}
	if p.Date != "" {
		since, err := ParseDate(p.Date)
		if err != nil {
			klog.Warningf("ignoring share link date: %v", err)
		} else {
			l.Since = since
		}
	}
	return l, true
}

package capture

import (
	"net/url"
	"strings"
)

// DefaultScheme is the custom URL scheme the app registers.
const DefaultScheme = "bibliotube"

// allowedDomains are the hosts whose links are accepted as shared videos
// as-is.
var allowedDomains = []string{
	"youtube.com",
	"youtu.be",
	"instagram.com",
	"tiktok.com",
	"vm.tiktok.com",
	"vt.tiktok.com",
	"facebook.com",
}

// Candidate is a video URL detected outside the app.
type Candidate struct {
	URL string
	// External is set when the raw string was a platform link shared
	// directly, rather than a <scheme>://video?url=... intent.
	External bool
}

func matchesAllowList(s string) bool {
	for _, d := range allowedDomains {
		if strings.Contains(s, d) {
			return true
		}
	}
	return false
}

// ParseLink extracts a candidate from an OS-delivered link. It accepts
// "<scheme>://video?url=<percent-encoded URL>" and raw links from the
// allow-listed domains.
func ParseLink(raw, scheme string) (Candidate, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Candidate{}, false
	}
	if scheme == "" {
		scheme = DefaultScheme
	}

	if u, err := url.Parse(raw); err == nil && strings.EqualFold(u.Scheme, scheme) {
		if isVideoIntent(u) {
			if target := u.Query().Get("url"); target != "" {
				return Candidate{URL: target}, true
			}
		}
		return Candidate{}, false
	}

	if matchesAllowList(raw) {
		return Candidate{URL: raw, External: true}, true
	}
	return Candidate{}, false
}

// isVideoIntent accepts both scheme://video?... and scheme:///video?...
func isVideoIntent(u *url.URL) bool {
	return u.Host == "video" || strings.Trim(u.Path, "/") == "video"
}

// IsClipboardVideoURL reports whether clipboard text looks like a shareable
// video link.
func IsClipboardVideoURL(text string) bool {
	text = strings.TrimSpace(text)
	return strings.HasPrefix(text, "http") && matchesAllowList(text)
}

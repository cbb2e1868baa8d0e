// Package videometa derives display metadata (platform, thumbnail, a
// placeholder title) from a video URL alone. Nothing here touches the
// network.
package videometa

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/bibliotube/internal/models"
)

// platformRules is checked in order; the first rule with a matching needle
// wins, so youtube beats instagram beats tiktok and so on.
var platformRules = []struct {
	platform models.Platform
	needles  []string
}{
	{models.PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{models.PlatformInstagram, []string{"instagram.com", "reel"}},
	{models.PlatformTikTok, []string{"tiktok.com"}},
	{models.PlatformFacebook, []string{"facebook.com"}},
	{models.PlatformTwitter, []string{"twitter.com", "x.com"}},
	{models.PlatformVimeo, []string{"vimeo.com"}},
	{models.PlatformTwitch, []string{"twitch.tv"}},
}

// ExtractPlatform classifies rawURL by case-insensitive substring match.
// An empty URL is PlatformUnknown; anything unmatched is PlatformOther.
func ExtractPlatform(rawURL string) models.Platform {
	if rawURL == "" {
		return models.PlatformUnknown
	}
	lower := strings.ToLower(rawURL)
	for _, rule := range platformRules {
		for _, n := range rule.needles {
			if strings.Contains(lower, n) {
				return rule.platform
			}
		}
	}
	return models.PlatformOther
}

// parseAbsolute accepts only URLs with a scheme and a host.
func parseAbsolute(rawURL string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}

// YouTubeVideoID returns the "v" query parameter of a youtube.com URL or
// the path of a youtu.be URL.
func YouTubeVideoID(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	switch {
	case strings.Contains(rawURL, "youtube.com"):
		u, ok := parseAbsolute(rawURL)
		if !ok {
			return "", false
		}
		id := u.Query().Get("v")
		return id, id != ""
	case strings.Contains(rawURL, "youtu.be"):
		u, ok := parseAbsolute(rawURL)
		if !ok {
			return "", false
		}
		id := strings.TrimPrefix(u.Path, "/")
		return id, id != ""
	}
	return "", false
}

// YouTubeThumbnail builds the maxresdefault thumbnail URL for a YouTube link.
func YouTubeThumbnail(rawURL string) (string, bool) {
	id, ok := YouTubeVideoID(rawURL)
	if !ok {
		return "", false
	}
	return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg", true
}

// ThumbnailURL returns a thumbnail for rawURL when one can be derived
// offline. Only YouTube links qualify.
func ThumbnailURL(rawURL string) (string, bool) {
	if ExtractPlatform(rawURL) != models.PlatformYouTube {
		return "", false
	}
	return YouTubeThumbnail(rawURL)
}

var (
	instagramPost = regexp.MustCompile(`/p/([^/?]+)`)
	tiktokVideo   = regexp.MustCompile(`video/(\d+)`)
	vimeoVideo    = regexp.MustCompile(`vimeo\.com/(\d+)`)
	twitchVideo   = regexp.MustCompile(`/videos/(\d+)`)
)

// UntitledTitle is used when no placeholder title can be derived.
const UntitledTitle = "Untitled"

// TitleFromURL returns an editable placeholder title for rawURL on the given
// platform, or false when the URL does not look like a video of that
// platform.
func TitleFromURL(rawURL string, platform models.Platform) (string, bool) {
	u, ok := parseAbsolute(rawURL)
	if !ok {
		return "", false
	}

	switch platform {
	case models.PlatformYouTube:
		if id, ok := YouTubeVideoID(rawURL); ok {
			short := id
			if len(short) > 8 {
				short = short[:8]
			}
			return "YouTube video (" + short + "...)", true
		}
	case models.PlatformInstagram:
		if instagramPost.MatchString(rawURL) {
			return "Instagram post", true
		}
	case models.PlatformTikTok:
		if tiktokVideo.MatchString(rawURL) {
			return "TikTok video", true
		}
	case models.PlatformTwitter:
		return "Post on X (Twitter)", true
	case models.PlatformFacebook:
		return "Facebook video", true
	case models.PlatformVimeo:
		if vimeoVideo.MatchString(rawURL) {
			return "Vimeo video", true
		}
	case models.PlatformTwitch:
		if twitchVideo.MatchString(u.Path) {
			return "Twitch video", true
		}
	}
	return "", false
}

var platformColors = map[models.Platform]string{
	models.PlatformYouTube:   "#FF0000",
	models.PlatformInstagram: "#E4405F",
	models.PlatformTikTok:    "#000000",
	models.PlatformFacebook:  "#1877F2",
	models.PlatformTwitter:   "#1DA1F2",
	models.PlatformVimeo:     "#1AB7EA",
	models.PlatformTwitch:    "#9146FF",
	models.PlatformOther:     "#6366f1",
}

var platformIcons = map[models.Platform]string{
	models.PlatformYouTube:   "▶️",
	models.PlatformInstagram: "📷",
	models.PlatformTikTok:    "🎵",
	models.PlatformFacebook:  "f",
	models.PlatformTwitter:   "𝕏",
	models.PlatformVimeo:     "▶️",
	models.PlatformTwitch:    "🎮",
	models.PlatformOther:     "🎬",
}

// PlatformColor returns the brand color of p, falling back to the "otro"
// color.
func PlatformColor(p models.Platform) string {
	if c, ok := platformColors[p]; ok {
		return c
	}
	return platformColors[models.PlatformOther]
}

// PlatformIcon returns a one-glyph icon for p.
func PlatformIcon(p models.Platform) string {
	if i, ok := platformIcons[p]; ok {
		return i
	}
	return platformIcons[models.PlatformOther]
}

var platformNames = map[models.Platform]string{
	models.PlatformYouTube:   "YouTube",
	models.PlatformInstagram: "Instagram",
	models.PlatformTikTok:    "TikTok",
	models.PlatformFacebook:  "Facebook",
	models.PlatformTwitter:   "X (Twitter)",
	models.PlatformVimeo:     "Vimeo",
	models.PlatformTwitch:    "Twitch",
	models.PlatformOther:     "Other",
	models.PlatformUnknown:   "Unknown",
}

// PlatformName is the display name of p. Stored platform values are never
// shown as they are.
func PlatformName(p models.Platform) string {
	if n, ok := platformNames[p]; ok {
		return n
	}
	return platformNames[models.PlatformOther]
}

var importanceLabels = [...]string{"Very low", "Low", "Medium", "High", "Very high"}

// ImportanceLabel names an importance level 1..5; other values get "".
func ImportanceLabel(level int) string {
	if level < models.MinImportance || level > models.MaxImportance {
		return ""
	}
	return importanceLabels[level-1]
}

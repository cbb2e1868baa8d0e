package models

// Platform is the hosting site a video URL belongs to.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformVimeo     Platform = "vimeo"
	PlatformTwitch    Platform = "twitch"
	PlatformOther     Platform = "otro"

	// PlatformUnknown is reported for an empty URL.
	PlatformUnknown Platform = "desconocida"
)

// Platforms lists the selectable platforms in display order.
var Platforms = []Platform{
	PlatformYouTube,
	PlatformInstagram,
	PlatformTikTok,
	PlatformFacebook,
	PlatformTwitter,
	PlatformVimeo,
	PlatformTwitch,
	PlatformOther,
}

// Frequency is how often a reminder fires.
type Frequency string

const (
	FrequencyOnce   Frequency = "once"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOnce, FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// SortOrder orders filtered video listings.
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
	SortImportance SortOrder = "importance"
)

// VideoFilter narrows a folder listing. Zero values mean "no constraint";
// an empty SortBy means newest first.
type VideoFilter struct {
	Platforms     []Platform
	MinImportance int
	MaxImportance int
	SortBy        SortOrder
}

// Active reports whether the filter constrains anything beyond the default
// ordering.
func (f VideoFilter) Active() bool {
	return len(f.Platforms) > 0 ||
		f.MinImportance > MinImportance ||
		(f.MaxImportance > 0 && f.MaxImportance < MaxImportance) ||
		(f.SortBy != "" && f.SortBy != SortNewest)
}

// Match reports whether v passes the platform and importance constraints.
func (f VideoFilter) Match(v Video) bool {
	if len(f.Platforms) > 0 {
		ok := false
		for _, p := range f.Platforms {
			if v.Platform == p {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.MinImportance > 0 && v.Importance < f.MinImportance {
		return false
	}
	if f.MaxImportance > 0 && v.Importance > f.MaxImportance {
		return false
	}
	return true
}

package links

import (
	"net/url"
	"strings"
)

const (
	// DefaultPosterBase is TMDB's 500px-wide image base.
	DefaultPosterBase = "https://image.tmdb.org/t/p/w500"
	// DefaultOTTSearchTemplate searches JustWatch India for a title.
	DefaultOTTSearchTemplate = "https://www.justwatch.com/in/search?q={query}"

	youTubeWatchBase = "https://www.youtube.com/watch?v="
	queryPlaceholder = "{query}"
)

// PosterURL joins the image base and a TMDB poster path. Empty path yields "".
func PosterURL(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultPosterBase
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// YouTubeURL returns the watch URL for a YouTube video key. Empty key yields "".
func YouTubeURL(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	return youTubeWatchBase + url.QueryEscape(key)
}

// OTTSearchURL fills the template's {query} placeholder with the
// percent-encoded title. Spaces encode as %20.
func OTTSearchURL(template, title string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultOTTSearchTemplate
	}
	encoded := strings.ReplaceAll(url.QueryEscape(title), "+", "%20")
	return strings.ReplaceAll(template, queryPlaceholder, encoded)
}

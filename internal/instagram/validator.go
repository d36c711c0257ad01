package instagram

import "regexp"

// Permalink shapes accepted for curated posts: /p/, /reel/ and /tv/
// with an optional trailing slash and query string. The token is the
// post shortcode.
var postURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/p/[A-Za-z0-9_-]+/?(?:\?.*)?$`),
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/reel/[A-Za-z0-9_-]+/?(?:\?.*)?$`),
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/tv/[A-Za-z0-9_-]+/?(?:\?.*)?$`),
}

// IsValidPostURL reports whether url is a syntactically valid Instagram
// post, reel or IGTV permalink. It is pure and side-effect-free so it
// can run both in form validation and at fetch time.
func IsValidPostURL(url string) bool {
	if url == "" {
		return false
	}
	for _, p := range postURLPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}

// Media URL shapes accepted for manually supplied media: direct file
// links or Instagram/Facebook CDN hosts.
var mediaURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^https?://.*\.(jpg|jpeg|png|gif|webp|mp4|mov)(\?.*)?$`),
	regexp.MustCompile(`(?i)^https?://.*instagram\.com.*`),
	regexp.MustCompile(`(?i)^https?://.*fbcdn\.net.*`),
	regexp.MustCompile(`(?i)^https?://.*cdninstagram\.com.*`),
}

// IsValidMediaURL reports whether url looks like a direct media link.
func IsValidMediaURL(url string) bool {
	if url == "" {
		return false
	}
	for _, p := range mediaURLPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}

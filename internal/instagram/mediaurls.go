package instagram

import (
	"log"
	"regexp"
	"strings"

	"tumas_backend/internal/model"
)

const cdnHost = "cdninstagram.com"

// sidTerminated matches an Instagram CDN URL ending at its _nc_sid
// query parameter, the most reliable boundary when several CDN URLs are
// pasted concatenated with no separators.
var sidTerminated = regexp.MustCompile(`https://scontent-[^.]+\.cdninstagram\.com/[^?]+\?[^&]*&_nc_sid=[a-f0-9]+`)

// sidSuffix captures everything up to and including the last _nc_sid
// parameter, used to strip trailing garbage glued onto a CDN URL.
var sidSuffix = regexp.MustCompile(`(.*&_nc_sid=[a-f0-9]+)`)

// ParseMediaURLText parses free-text admin input into a deduplicated,
// ordered list of media URLs. Input is normally one URL per line, but
// URLs copied from a browser's network inspector often arrive as a
// single concatenated line; an ordered chain of extraction strategies
// handles that case. Returns model.ErrNoValidMediaURLs when the input
// is nonblank but nothing parseable was found.
func ParseMediaURLText(rawText string) (urls []string, err error) {
	// Parsing failures must never escape into the admin form.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[MediaURLCurator] parse panic recovered: %v", r)
			urls, err = nil, nil
		}
	}()

	raw := strings.TrimSpace(rawText)
	if raw == "" {
		return nil, nil
	}

	lines := strings.Split(raw, "\n")
	if len(lines) == 1 {
		if extracted := extractConcatenatedURLs(raw); len(extracted) > 0 {
			lines = extracted
		}
	}

	seen := make(map[string]struct{})
	for _, line := range lines {
		url := strings.TrimSpace(line)
		if url == "" {
			continue
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			continue
		}
		if strings.Contains(url, cdnHost) {
			url = cleanCDNURL(url)
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}

	if len(urls) == 0 {
		return nil, model.ErrNoValidMediaURLs
	}
	return urls, nil
}

// extractConcatenatedURLs tries the extraction strategies in order and
// returns the first nonempty result. Each strategy is a pure function
// over the raw text.
func extractConcatenatedURLs(raw string) []string {
	strategies := []func(string) []string{
		extractBySIDMarker,
		extractCDNBounded,
		extractGenericBounded,
		extractManualSplit,
	}
	for _, strategy := range strategies {
		if found := strategy(raw); len(found) > 0 {
			return found
		}
	}
	return nil
}

// extractBySIDMarker finds CDN URLs terminated by their _nc_sid
// parameter.
func extractBySIDMarker(raw string) []string {
	return sidTerminated.FindAllString(raw, -1)
}

// extractCDNBounded splits at each https:// occurrence and keeps the
// pieces that point at the Instagram CDN. The next URL's scheme acts as
// the terminator.
func extractCDNBounded(raw string) []string {
	var found []string
	for _, seg := range splitAtScheme(raw) {
		if strings.Contains(seg, cdnHost) {
			found = append(found, seg)
		}
	}
	return found
}

// extractGenericBounded is the loose variant: every https:// piece is a
// candidate.
func extractGenericBounded(raw string) []string {
	return splitAtScheme(raw)
}

// extractManualSplit is the last resort: split on the literal scheme,
// re-prefix each piece, and strip anything after an embedded second
// https://.
func extractManualSplit(raw string) []string {
	parts := strings.Split(raw, "https://")
	var found []string
	for i, part := range parts {
		if i == 0 && part == "" {
			continue
		}
		if part == "" {
			continue
		}
		url := "https://" + part
		if idx := strings.Index(url[len("https://"):], "https://"); idx >= 0 {
			url = url[:idx+len("https://")]
		}
		found = append(found, url)
	}
	return found
}

// splitAtScheme slices raw into segments each starting at an https://
// occurrence.
func splitAtScheme(raw string) []string {
	var segments []string
	rest := raw
	for {
		start := strings.Index(rest, "https://")
		if start < 0 {
			break
		}
		rest = rest[start:]
		end := strings.Index(rest[len("https://"):], "https://")
		if end < 0 {
			segments = append(segments, rest)
			break
		}
		segments = append(segments, rest[:end+len("https://")])
		rest = rest[end+len("https://"):]
	}
	return segments
}

// cleanCDNURL truncates a CDN URL at the end of its _nc_sid parameter,
// discarding trailing garbage concatenated after it, and strips any
// embedded second URL.
func cleanCDNURL(url string) string {
	if strings.Contains(url, "&_nc_sid=") {
		if m := sidSuffix.FindStringSubmatch(url); m != nil {
			url = m[1]
		}
	}
	if idx := strings.Index(url[len("https://"):], "https://"); idx >= 0 {
		url = url[:idx+len("https://")]
	}
	return url
}

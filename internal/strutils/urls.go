package strutils

import (
	"net/url"
	"regexp"
	"strings"
)

var schemeRx = regexp.MustCompile(`^https?://`)

// Removes a leading http:// or https:// to make the URL search-friendly
func StripScheme(rawURL string) string {
	return schemeRx.ReplaceAllString(rawURL, "")
}

// Returns the host portion of a URL. Accepts scheme-less URLs.
func URLHost(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	withScheme := rawURL
	if !strings.Contains(rawURL, "://") {
		withScheme = "https://" + rawURL
	}

	parsed, err := url.Parse(withScheme)
	if err != nil {
		return ""
	}
	return parsed.Host
}

package website

import (
	"regexp"
	"strings"
)

var urlRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b[-a-zA-Z0-9()@:%_+.~#?&/=]*`)

// IsURL reports whether text looks like a single URL: either an explicit
// http(s) link or a bare domain (contains a dot, no spaces).
func IsURL(text string) bool {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		return true
	}
	return strings.Contains(text, ".") && !strings.Contains(text, " ") && len(text) > 5
}

// ExtractURLs returns the URLs found in text, each normalized to carry an
// https scheme.
func ExtractURLs(text string) []string {
	matches := urlRe.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		url := m
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			url = "https://" + url
		}
		urls = append(urls, url)
	}
	return urls
}

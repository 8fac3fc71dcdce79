// Package events finds and ranks networking events for a user profile:
// local events from a CSV catalog, trade shows generated by the LLM,
// validated, scored against keywords, and partitioned by event type.
package events

import (
	"net/url"
	"regexp"
	"strings"
)

var urlRe = regexp.MustCompile(`https?://[\w.-]+\.[a-zA-Z]{2,}(?:/\S*)?`)

// Source identifies where an event came from.
type Source string

const (
	SourceCatalog   Source = "catalog"
	SourceGenerated Source = "generated"
)

// Speaker is one person presenting at an event.
type Speaker struct {
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	Company    string `json:"company,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Background string `json:"background,omitempty"`
}

// Event is a single networking event, catalog-loaded or LLM-generated.
// RelevanceScore is kept on a 0-1 scale internally; the API layer formats
// it as 0-100.
type Event struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	URL              string    `json:"url"`
	Date             string    `json:"date"`
	Location         string    `json:"location"`
	IsTradeShow      bool      `json:"is_tradeshow"`
	RelevanceScore   float64   `json:"-"`
	MatchingKeywords []string  `json:"matching_keywords,omitempty"`
	ConversionPath   string    `json:"conversion_path,omitempty"`
	Speakers         []Speaker `json:"speakers,omitempty"`
	Source           Source    `json:"source"`
}

// NormalizeURL reduces a URL to a comparison key: lowercased, scheme and
// www prefix stripped, trailing slash removed.
func NormalizeURL(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

// IsPlaceholderURL reports whether a URL is a hallucinated or unusable
// placeholder that must never be surfaced.
func IsPlaceholderURL(raw string) bool {
	if raw == "" {
		return true
	}
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "example.com") || !strings.HasPrefix(lower, "http")
}

// SearchFallbackURL builds a search-engine link for an event title, used
// when no usable official URL exists.
func SearchFallbackURL(title string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(title)
}

// FixPlaceholderURL replaces a placeholder URL: first a URL found in the
// description, otherwise the search fallback built from the title.
func FixPlaceholderURL(e *Event) {
	if !IsPlaceholderURL(e.URL) {
		return
	}
	if m := urlRe.FindString(e.Description); m != "" {
		e.URL = m
		return
	}
	e.URL = SearchFallbackURL(e.Name)
}

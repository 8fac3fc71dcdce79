package events

import "strings"

// tradeShowKeywords mark large-scale industry events.
var tradeShowKeywords = []string{
	"expo", "exhibition", "fair", "tradeshow", "trade show", "conference", "convention",
	"summit", "symposium", "industry event", "showcase", "forum", "global", "international",
}

// exhibitionIndicators are phrases only trade shows use in descriptions.
var exhibitionIndicators = []string{
	"exhibitor", "booth", "sponsor", "pavilion", "exhibition hall",
}

// IsTradeShow classifies an event as a trade show. A strong keyword in the
// title is enough on its own; the description needs at least two keywords
// or an exhibition indicator.
func IsTradeShow(e Event) bool {
	if e.IsTradeShow {
		return true
	}

	title := strings.ToLower(e.Name)
	description := strings.ToLower(e.Description)

	for _, kw := range tradeShowKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}

	count := 0
	for _, kw := range tradeShowKeywords {
		if strings.Contains(description, kw) {
			count++
		}
	}
	if count >= 2 {
		return true
	}

	for _, indicator := range exhibitionIndicators {
		if strings.Contains(description, indicator) {
			return true
		}
	}
	return false
}

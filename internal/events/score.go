package events

import (
	"fmt"
	"strings"
)

// Scorer computes keyword-match relevance for events. Floor lifts every
// score to at least its value so thin keyword overlap does not hide
// otherwise valid events; a floor of 0 disables the clamp.
type Scorer struct {
	Floor float64
}

// Score sets the event's relevance score and matching keywords from the
// fraction of keywords found in its title and description.
func (sc Scorer) Score(e *Event, keywords []string) {
	text := strings.ToLower(e.Name + " " + e.Description)

	var matching []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			matching = append(matching, kw)
		}
	}

	score := 0.0
	if len(keywords) > 0 {
		score = float64(len(matching)) / float64(len(keywords))
		if score > 1 {
			score = 1
		}
	}
	if score < sc.Floor {
		score = sc.Floor
	}

	e.MatchingKeywords = matching
	e.RelevanceScore = score
}

// ConversionPath writes a conversion path tailored to the user summary
// when the event does not already carry one.
func ConversionPath(e *Event, summary string, keywords []string) string {
	if e.ConversionPath != "" {
		return e.ConversionPath
	}

	name := e.Name
	if name == "" {
		name = "this event"
	}
	if summary == "" || e.Description == "" {
		return fmt.Sprintf("Attend %s to network with professionals in your industry.", name)
	}

	lower := strings.ToLower(summary)
	switch {
	case strings.Contains(lower, "startup") || strings.Contains(lower, "founder"):
		return fmt.Sprintf("Attend %s to connect with potential investors and partners. This event is relevant to your business because it focuses on %s.", name, joinFirst(keywords, 3))
	case strings.Contains(lower, "investor") || strings.Contains(lower, "vc"):
		return fmt.Sprintf("Attend %s to discover promising startups and investment opportunities in the %s space.", name, joinFirst(keywords, 2))
	case strings.Contains(lower, "sales") || strings.Contains(lower, "marketing"):
		return fmt.Sprintf("Attend %s to generate leads and build relationships with potential customers interested in %s.", name, joinFirst(keywords, 3))
	default:
		return fmt.Sprintf("Attend %s to expand your network and gain insights about %s from industry leaders.", name, joinFirst(keywords, 3))
	}
}

func joinFirst(keywords []string, n int) string {
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return strings.Join(keywords, ", ")
}

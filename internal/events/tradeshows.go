package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/carolzy/networkai/internal/llm"
)

// promptVariants steer the three parallel trade-show searches toward
// different slices of the event landscape.
var promptVariants = []string{
	"Focus on TECHNOLOGY and AI events.",
	"Focus on INDUSTRY-SPECIFIC events relevant to their business.",
	"Focus on NETWORKING and BUSINESS DEVELOPMENT events.",
}

// TradeShowSearcher generates future trade shows for a user profile via
// the LLM, one prompt variant per parallel call.
type TradeShowSearcher struct {
	client *llm.Client
}

// NewTradeShowSearcher creates a searcher backed by the LLM client.
func NewTradeShowSearcher(client *llm.Client) *TradeShowSearcher {
	return &TradeShowSearcher{client: client}
}

// Search runs all prompt variants concurrently and merges their results,
// deduplicating by URL (title fallback) and repairing placeholder URLs.
// A failed variant contributes nothing; all failing yields an empty list.
func (t *TradeShowSearcher) Search(ctx context.Context, q Query) []Event {
	if t.client == nil || !t.client.Available() {
		log.Warn().Msg("LLM unavailable, skipping trade show search")
		return nil
	}

	results := make([][]Event, len(promptVariants))
	g, gctx := errgroup.WithContext(ctx)
	for i, variant := range promptVariants {
		i, variant := i, variant
		g.Go(func() error {
			evs, err := t.searchVariant(gctx, q, variant)
			if err != nil {
				log.Warn().Err(err).Int("variant", i+1).Msg("Trade show search variant failed")
				return nil
			}
			results[i] = evs
			return nil
		})
	}
	_ = g.Wait()

	var merged []Event
	seen := make(map[string]bool)
	for _, evs := range results {
		for _, ev := range evs {
			key := NormalizeURL(ev.URL)
			if key == "" {
				key = strings.ToLower(strings.TrimSpace(ev.Name))
			}
			if ev.Name == "" || seen[key] {
				continue
			}
			seen[key] = true
			FixPlaceholderURL(&ev)
			merged = append(merged, ev)
		}
	}
	log.Info().Int("count", len(merged)).Msg("Trade shows merged from parallel searches")
	return merged
}

func (t *TradeShowSearcher) searchVariant(ctx context.Context, q Query, variant string) ([]Event, error) {
	completion, err := t.client.Generate(ctx, tradeShowPrompt(q, variant), llm.Options{Temperature: 0.2, MaxTokens: 4096})
	if err != nil {
		return nil, err
	}
	return parseTradeShows(completion), nil
}

func tradeShowPrompt(q Query, variant string) string {
	var sb strings.Builder
	sb.WriteString("Search for most relevant **5** tradeshows leveraging websites such as 10times.com for this ")
	sb.WriteString(q.UserType)
	sb.WriteString(" at their company. The tradeshows MUST happen in the future. DO NOT include any events that have already taken place. ")
	sb.WriteString(variant)
	sb.WriteString("\n\nUser profile: ")
	sb.WriteString(q.Summary)
	sb.WriteString("\n\nKeywords: ")
	sb.WriteString(strings.Join(q.Keywords, ", "))
	sb.WriteString("\n\nLocation preference: ")
	sb.WriteString(q.Location)
	sb.WriteString(`

For each tradeshow, provide the following information in a structured format:
- Event Title
- Event Date (must be in the future)
- Event Location
- Event Description: Provide at least 3 detailed sentences - 1-2 sentences about the event itself (history, scope, importance) and 1-2 sentences about why it's specifically relevant to the user's product/business
- Event Keywords
- Conversion Path: Provide a detailed, actionable 3-4 sentence strategy for how this user can best leverage this event to achieve their goals (e.g. find future buyers/business partners etc.)
- Event Official Website: MUST provide a valid website URL for each event. If you can't find the official website, provide the most relevant website related to the event or organization.
- Conversion Score (0-100): How well this event aligns with the user's goals

Ensure the Event Title is clear and properly formatted as it will be highlighted in the UI.
Make sure the Event Description is insightful and specific to the user's business needs.
EVERY event MUST have a website URL - this is critical for the application.

Return the results as a JSON array of objects, each with the above attributes.`)
	return sb.String()
}

// rawTradeShow tolerates the field-name drift the model exhibits between
// snake_case, spaced, and lowercase keys.
type rawTradeShow map[string]any

func (r rawTradeShow) str(names ...string) string {
	for _, n := range names {
		if v, ok := r[n]; ok {
			if s, ok := v.(string); ok && s != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func (r rawTradeShow) score(names ...string) float64 {
	for _, n := range names {
		switch v := r[n].(type) {
		case float64:
			return v
		case string:
			var f float64
			if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
				return f
			}
		}
	}
	return 0
}

// parseTradeShows decodes the completion into events, stripping code
// fences and extracting the first JSON array when direct decoding fails.
func parseTradeShows(completion string) []Event {
	text := llm.StripFences(completion)

	var raws []rawTradeShow
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		arr, ok := llm.ExtractJSONArray(text)
		if !ok {
			log.Warn().Msg("No JSON array found in trade show completion")
			return nil
		}
		if err := json.Unmarshal([]byte(arr), &raws); err != nil {
			log.Warn().Err(err).Msg("Trade show completion did not decode")
			return nil
		}
	}

	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		ev := Event{
			Name:           raw.str("Event_Title", "Event Title", "title", "name"),
			Date:           raw.str("Event_Date", "Event Date", "date"),
			Location:       raw.str("Event_Location", "Event Location", "location"),
			Description:    raw.str("Event_Description", "Event Description", "description"),
			ConversionPath: raw.str("Conversion_Path", "Conversion Path", "conversion_path"),
			URL:            raw.str("Event_Official_Website", "Event Official Website", "website", "url"),
			IsTradeShow:    true,
			Source:         SourceGenerated,
		}
		if kw := raw.str("Event_Keywords", "Event Keywords", "keywords"); kw != "" {
			for _, k := range strings.Split(kw, ",") {
				if k = strings.TrimSpace(k); k != "" {
					ev.MatchingKeywords = append(ev.MatchingKeywords, k)
				}
			}
		}
		if s := raw.score("Conversion_Score", "Conversion Score", "conversion_score", "score"); s > 0 {
			ev.RelevanceScore = s / 100
		}
		if ev.Name == "" {
			continue
		}
		events = append(events, ev)
	}
	return events
}

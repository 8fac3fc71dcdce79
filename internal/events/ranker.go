package events

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Query describes one event search.
type Query struct {
	Keywords   []string `json:"keywords"`
	Summary    string   `json:"user_summary"`
	UserType   string   `json:"user_type"`
	Location   string   `json:"location"`
	MaxResults int      `json:"max_results"`
}

// Result is the ranked outcome of a search, trade shows and local events
// kept as separate buckets.
type Result struct {
	TradeShows  []Event `json:"trade_shows"`
	LocalEvents []Event `json:"local_events"`
}

// Ranker runs the full pipeline: acquisition from catalog and LLM,
// validation, scoring, dedup, partition, and truncation.
type Ranker struct {
	catalog    *Catalog
	searcher   *TradeShowSearcher
	validator  *URLValidator
	scorer     Scorer
	maxResults int
}

// NewRanker wires the pipeline. maxResults caps each result bucket.
func NewRanker(catalog *Catalog, searcher *TradeShowSearcher, validator *URLValidator, scorer Scorer, maxResults int) *Ranker {
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Ranker{
		catalog:    catalog,
		searcher:   searcher,
		validator:  validator,
		scorer:     scorer,
		maxResults: maxResults,
	}
}

// Find runs a search. It never returns an error: each failed stage
// contributes an empty slice and the rest of the pipeline continues.
func (r *Ranker) Find(ctx context.Context, q Query) Result {
	keywords := cleanQueryKeywords(q.Keywords)
	if len(keywords) == 0 {
		keywords = []string{"technology", "AI", "networking"}
		log.Warn().Msg("No keywords in query, using defaults")
	}
	q.Keywords = keywords

	max := q.MaxResults
	if max <= 0 {
		max = r.maxResults
	}

	local := r.localEvents(q)
	generated := r.searcher.Search(ctx, q)

	all := append(local, generated...)
	all = r.filterValid(ctx, all)
	all = dedupe(all)

	var tradeShows, localEvents []Event
	for i := range all {
		ev := &all[i]
		prior := ev.RelevanceScore
		r.scorer.Score(ev, keywords)
		if prior > ev.RelevanceScore {
			// Generated events may arrive with a model-assigned score.
			ev.RelevanceScore = prior
		}
		ev.ConversionPath = ConversionPath(ev, q.Summary, keywords)
		FixPlaceholderURL(ev)
		if ev.IsTradeShow || IsTradeShow(*ev) {
			ev.IsTradeShow = true
			tradeShows = append(tradeShows, *ev)
		} else {
			localEvents = append(localEvents, *ev)
		}
	}

	sortByRelevance(tradeShows)
	sortByRelevance(localEvents)

	if len(tradeShows) > max {
		tradeShows = tradeShows[:max]
	}
	if len(localEvents) > max {
		localEvents = localEvents[:max]
	}

	log.Info().
		Int("trade_shows", len(tradeShows)).
		Int("local_events", len(localEvents)).
		Strs("keywords", keywords).
		Msg("Event search complete")

	return Result{TradeShows: tradeShows, LocalEvents: localEvents}
}

// localEvents loads the catalog snapshot and applies the location filter.
// A filter that empties the set falls back to the unfiltered events.
func (r *Ranker) localEvents(q Query) []Event {
	evs := r.catalog.Events()
	if q.Location == "" {
		return evs
	}

	needle := strings.ToLower(q.Location)
	filtered := make([]Event, 0, len(evs))
	for _, ev := range evs {
		if ev.Location == "" {
			continue
		}
		if strings.Contains(strings.ToLower(ev.Location), needle) {
			filtered = append(filtered, ev)
		}
	}
	if len(filtered) == 0 {
		log.Warn().Str("location", q.Location).Msg("No events matched location, using full catalog")
		return evs
	}
	return filtered
}

// dedupe drops events sharing a normalized URL, falling back to the
// normalized title for URL-less events. First occurrence wins.
func dedupe(evs []Event) []Event {
	seen := make(map[string]bool, len(evs))
	out := make([]Event, 0, len(evs))
	for _, ev := range evs {
		key := NormalizeURL(ev.URL)
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(ev.Name))
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ev)
	}
	return out
}

// sortByRelevance orders by score descending, match count breaking ties.
func sortByRelevance(evs []Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].RelevanceScore != evs[j].RelevanceScore {
			return evs[i].RelevanceScore > evs[j].RelevanceScore
		}
		return len(evs[i].MatchingKeywords) > len(evs[j].MatchingKeywords)
	})
}

func cleanQueryKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/carolzy/networkai/internal/llm"
)

// TargetGroup is one audience segment worth pursuing at events.
type TargetGroup struct {
	Title  string `json:"group_title"`
	Detail string `json:"group_detail"`
}

// GoalStrategy is the event strategy for one selected goal.
type GoalStrategy struct {
	Goal     string `json:"goal_title"`
	Strategy string `json:"strategy"`
}

// Recommendation is the structured target-events recommendation: who to
// target, per-goal strategies, event types, and the keywords to search on.
type Recommendation struct {
	Summary      string         `json:"summary"`
	WhoToTarget  []TargetGroup  `json:"who_to_target"`
	Strategies   []GoalStrategy `json:"event_strategies"`
	EventTypes   []string       `json:"event_types"`
	Keywords     []string       `json:"keywords"`
	QualityScore float64        `json:"quality_score"`
}

// Text renders the recommendation as plain text, the shape downstream
// prompts consume.
func (r Recommendation) Text() string {
	var sb strings.Builder
	if len(r.WhoToTarget) > 0 {
		sb.WriteString("WHO TO TARGET:\n")
		for _, t := range r.WhoToTarget {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", t.Title, t.Detail))
		}
		sb.WriteString("\n")
	}
	for _, s := range r.Strategies {
		sb.WriteString(fmt.Sprintf("%s:\n- %s\n\n", s.Goal, s.Strategy))
	}
	if len(r.EventTypes) > 0 {
		sb.WriteString("EVENT TYPES: " + strings.Join(r.EventTypes, ", ") + "\n")
	}
	return strings.TrimSpace(sb.String())
}

// RecommendationStore persists recommendations keyed by the user's website.
type RecommendationStore interface {
	Save(websiteURL, summary string, rec Recommendation) error
}

// RecommendProfile is the user context a recommendation is built from.
type RecommendProfile struct {
	Summary    string   `json:"user_summary"`
	Keywords   []string `json:"keywords"`
	Goals      []string `json:"goals"`
	UserType   string   `json:"user_type"`
	WebsiteURL string   `json:"website_url"`
}

// Recommender generates structured target-events recommendations.
type Recommender struct {
	client *llm.Client
	store  RecommendationStore
}

// NewRecommender creates a recommender. store may be nil, in which case
// recommendations are not persisted.
func NewRecommender(client *llm.Client, store RecommendationStore) *Recommender {
	return &Recommender{client: client, store: store}
}

// Recommend builds a recommendation for the profile and persists it. It
// never fails: LLM errors degrade to a profile-derived recommendation.
func (r *Recommender) Recommend(ctx context.Context, p RecommendProfile) Recommendation {
	rec, ok := r.generate(ctx, p)
	if !ok {
		rec = fallbackRecommendation(p)
	}
	if len(rec.Keywords) == 0 {
		rec.Keywords = p.Keywords
	}
	if rec.QualityScore == 0 {
		rec.QualityScore = 0.5
	}

	if r.store != nil && p.WebsiteURL != "" {
		if err := r.store.Save(p.WebsiteURL, p.Summary, rec); err != nil {
			log.Warn().Err(err).Str("url", p.WebsiteURL).Msg("Failed to persist recommendation")
		}
	}
	return rec
}

func (r *Recommender) generate(ctx context.Context, p RecommendProfile) (Recommendation, bool) {
	if r.client == nil || !r.client.Available() {
		return Recommendation{}, false
	}

	var sb strings.Builder
	sb.WriteString("You are an expert B2B event strategist. Based on the profile below, recommend which events this user should target.\n\n")
	sb.WriteString("Profile: " + p.Summary + "\n")
	sb.WriteString("Keywords: " + strings.Join(p.Keywords, ", ") + "\n")
	if len(p.Goals) > 0 {
		sb.WriteString("Goals: " + strings.Join(p.Goals, ", ") + "\n")
	}
	sb.WriteString(`
Respond with a single JSON object with these fields:
- "summary": one paragraph summarizing the recommendation
- "who_to_target": array of {"group_title", "group_detail"} describing the people to meet
- "event_strategies": array of {"goal_title", "strategy"} with one actionable strategy per goal
- "event_types": array of event type names (e.g. "industry expo", "founder meetup")
- "keywords": array of 15 keywords or short phrases for event search

Return ONLY valid JSON without any additional text or markdown formatting.`)

	completion, err := r.client.Generate(ctx, sb.String(), llm.Options{MaxTokens: 2048})
	if err != nil {
		log.Warn().Err(err).Msg("Recommendation generation failed")
		return Recommendation{}, false
	}

	obj, ok := llm.ExtractJSONObject(completion)
	if !ok {
		return Recommendation{}, false
	}
	var rec Recommendation
	if err := json.Unmarshal([]byte(obj), &rec); err != nil {
		log.Warn().Err(err).Msg("Recommendation completion did not decode")
		return Recommendation{}, false
	}
	if rec.Summary == "" && len(rec.WhoToTarget) == 0 && len(rec.Strategies) == 0 {
		return Recommendation{}, false
	}
	return rec, true
}

// fallbackRecommendation derives a minimal recommendation from the profile
// alone.
func fallbackRecommendation(p RecommendProfile) Recommendation {
	rec := Recommendation{
		Summary:    p.Summary,
		EventTypes: []string{"conference", "trade show", "meetup", "summit"},
		Keywords:   p.Keywords,
	}
	for _, goal := range p.Goals {
		switch goal {
		case "find_buyers":
			rec.Strategies = append(rec.Strategies, GoalStrategy{
				Goal:     "Find buyers",
				Strategy: "Prioritize industry expos and conferences where your target customers evaluate vendors, and book meetings before the event.",
			})
		case "recruit_talent":
			rec.Strategies = append(rec.Strategies, GoalStrategy{
				Goal:     "Recruit talent",
				Strategy: "Attend hackathons, university career fairs, and engineering meetups where candidates demonstrate their work.",
			})
		case "investors":
			rec.Strategies = append(rec.Strategies, GoalStrategy{
				Goal:     "Connect with investors",
				Strategy: "Target demo days and pitch events in your sector, and research which investors attend before going.",
			})
		default:
			rec.Strategies = append(rec.Strategies, GoalStrategy{
				Goal:     "Grow your network",
				Strategy: "Attend recurring local meetups in your industry to build relationships over repeated contact.",
			})
		}
	}
	return rec
}

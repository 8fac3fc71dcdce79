package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carolzy/networkai/internal/config"
	"github.com/carolzy/networkai/internal/llm"
)

type savedRec struct {
	url     string
	summary string
	rec     Recommendation
}

type memStore struct {
	saved []savedRec
}

func (m *memStore) Save(websiteURL, summary string, rec Recommendation) error {
	m.saved = append(m.saved, savedRec{url: websiteURL, summary: summary, rec: rec})
	return nil
}

func TestFallbackRecommendationPerGoal(t *testing.T) {
	rec := fallbackRecommendation(RecommendProfile{
		Summary:  "a devtools startup",
		Keywords: []string{"devtools", "ci"},
		Goals:    []string{"find_buyers", "recruit_talent", "investors", "networking"},
	})

	require.Len(t, rec.Strategies, 4)
	assert.Equal(t, "Find buyers", rec.Strategies[0].Goal)
	assert.Equal(t, "Recruit talent", rec.Strategies[1].Goal)
	assert.Equal(t, "Connect with investors", rec.Strategies[2].Goal)
	assert.Equal(t, "Grow your network", rec.Strategies[3].Goal)
	assert.Equal(t, "a devtools startup", rec.Summary)
	assert.Contains(t, rec.EventTypes, "trade show")
}

func TestRecommendationText(t *testing.T) {
	rec := Recommendation{
		WhoToTarget: []TargetGroup{{Title: "Heads of Platform", Detail: "Own the CI budget"}},
		Strategies:  []GoalStrategy{{Goal: "Find buyers", Strategy: "Book meetings ahead of the expo."}},
		EventTypes:  []string{"industry expo", "meetup"},
	}

	text := rec.Text()
	assert.True(t, strings.HasPrefix(text, "WHO TO TARGET:"))
	assert.Contains(t, text, "- Heads of Platform: Own the CI budget")
	assert.Contains(t, text, "Find buyers:\n- Book meetings ahead of the expo.")
	assert.Contains(t, text, "EVENT TYPES: industry expo, meetup")
}

func TestRecommendDegradesWithoutClient(t *testing.T) {
	r := NewRecommender(nil, nil)
	rec := r.Recommend(context.Background(), RecommendProfile{
		Summary:  "a fintech startup",
		Keywords: []string{"payments"},
		Goals:    []string{"find_buyers"},
	})

	assert.Equal(t, "a fintech startup", rec.Summary)
	assert.Equal(t, []string{"payments"}, rec.Keywords)
	assert.Equal(t, 0.5, rec.QualityScore)
	require.Len(t, rec.Strategies, 1)
	assert.Equal(t, "Find buyers", rec.Strategies[0].Goal)
}

func TestRecommendParsesCompletionAndPersists(t *testing.T) {
	completion := `{"summary":"Target platform teams at expos.",` +
		`"who_to_target":[{"group_title":"Heads of Platform","group_detail":"Own the CI budget"}],` +
		`"event_strategies":[{"goal_title":"Find buyers","strategy":"Book meetings before the expo."}],` +
		`"event_types":["industry expo"],"keywords":["devtools","ci"],"quality_score":0.8}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":` + quoteJSONString(completion) + `}]}}]}`))
	}))
	defer srv.Close()

	client := llm.New(config.LLM{Endpoint: srv.URL, APIKey: "k", Model: "m", TimeoutSecs: 2})
	store := &memStore{}
	r := NewRecommender(client, store)

	rec := r.Recommend(context.Background(), RecommendProfile{
		Summary:    "a devtools startup",
		Keywords:   []string{"devtools"},
		Goals:      []string{"find_buyers"},
		WebsiteURL: "https://acme.dev",
	})

	assert.Equal(t, "Target platform teams at expos.", rec.Summary)
	assert.Equal(t, 0.8, rec.QualityScore)
	require.Len(t, rec.WhoToTarget, 1)
	assert.Equal(t, "Heads of Platform", rec.WhoToTarget[0].Title)

	require.Len(t, store.saved, 1)
	assert.Equal(t, "https://acme.dev", store.saved[0].url)
	assert.Equal(t, rec.Summary, store.saved[0].rec.Summary)
}

func TestRecommendSkipsPersistWithoutURL(t *testing.T) {
	store := &memStore{}
	r := NewRecommender(nil, store)
	r.Recommend(context.Background(), RecommendProfile{Summary: "x", Goals: []string{"networking"}})
	assert.Empty(t, store.saved)
}

func quoteJSONString(text string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range text {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carolzy/networkai/internal/config"
	"github.com/carolzy/networkai/internal/events"
	"github.com/carolzy/networkai/internal/flow"
	"github.com/carolzy/networkai/internal/llm"
	"github.com/carolzy/networkai/internal/question"
)

// testService builds a Service with no API key configured, so every LLM
// path degrades to its canned fallback.
func testService(t *testing.T) *Service {
	t.Helper()

	client := llm.New(config.LLM{Endpoint: "http://127.0.0.1:1", Model: "m", TimeoutSecs: 1})
	registry := flow.NewRegistry()
	controller := flow.NewController(client, nil, question.NewEngine(client), 25)

	csv := "title,summary,location,url\n" +
		"AI Builders Meetup,Monthly gathering of AI engineers,San Francisco,https://lu.ma/ai-builders\n" +
		"SaaS Growth Expo,Annual exhibition with exhibitor booths,Austin,https://saasgrowthexpo.com\n"
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	catalog := events.NewCatalog(path)
	require.NoError(t, catalog.Load())

	ranker := events.NewRanker(
		catalog,
		events.NewTradeShowSearcher(client),
		events.NewURLValidator(time.Second, true),
		events.Scorer{Floor: 0.75},
		10,
	)
	recommender := events.NewRecommender(client, nil)

	return New(registry, controller, ranker, recommender, nil)
}

func doJSON(t *testing.T, svc *Service, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	svc := testService(t)
	rec := doJSON(t, svc, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeMap(t, rec)["status"])
}

func TestCreateSessionReturnsFirstQuestion(t *testing.T) {
	svc := testService(t)
	rec := doJSON(t, svc, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeMap(t, rec)
	assert.NotEmpty(t, body["session_id"])
	assert.Equal(t, flow.StepProduct, body["current_step"])
	assert.Equal(t, "What product or service does your company offer?", body["question"])
}

func TestAdvanceFlow(t *testing.T) {
	svc := testService(t)
	created := decodeMap(t, doJSON(t, svc, http.MethodPost, "/api/v1/sessions", nil))
	id := created["session_id"].(string)

	rec := doJSON(t, svc, http.MethodPost, "/api/v1/sessions/"+id+"/advance", advanceRequest{
		Step:   flow.StepProduct,
		Answer: "inventory software for restaurants",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, flow.StepProduct, body["current_step"])
	assert.Equal(t, flow.StepEventInterests, body["next_step"])
	assert.Contains(t, body["next_question"], "main goal for networking")
}

func TestAdvanceUnknownSession(t *testing.T) {
	svc := testService(t)
	rec := doJSON(t, svc, http.MethodPost, "/api/v1/sessions/nope/advance", advanceRequest{Step: flow.StepProduct, Answer: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decodeMap(t, rec)["success"])
}

func TestAdvanceMissingStep(t *testing.T) {
	svc := testService(t)
	created := decodeMap(t, doJSON(t, svc, http.MethodPost, "/api/v1/sessions", nil))
	id := created["session_id"].(string)

	rec := doJSON(t, svc, http.MethodPost, "/api/v1/sessions/"+id+"/advance", advanceRequest{Answer: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusAndReset(t *testing.T) {
	svc := testService(t)
	created := decodeMap(t, doJSON(t, svc, http.MethodPost, "/api/v1/sessions", nil))
	id := created["session_id"].(string)

	doJSON(t, svc, http.MethodPost, "/api/v1/sessions/"+id+"/advance", advanceRequest{
		Step: flow.StepProduct, Answer: "inventory software",
	})

	rec := doJSON(t, svc, http.MethodGet, "/api/v1/sessions/"+id+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeMap(t, rec)
	assert.Equal(t, id, status["session_id"])
	assert.Equal(t, string(flow.UserFounder), status["user_type"])

	rec = doJSON(t, svc, http.MethodPost, "/api/v1/sessions/"+id+"/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	status = decodeMap(t, doJSON(t, svc, http.MethodGet, "/api/v1/sessions/"+id+"/status", nil))
	assert.Zero(t, status["completeness"])
}

func TestUserInfo(t *testing.T) {
	svc := testService(t)
	created := decodeMap(t, doJSON(t, svc, http.MethodPost, "/api/v1/sessions", nil))
	id := created["session_id"].(string)

	rec := doJSON(t, svc, http.MethodPut, "/api/v1/sessions/"+id+"/user-info", flow.UserInfo{
		Name: "Carol", Email: "carol@acme.com", Company: "Acme",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	sess, ok := svc.registry.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Carol", sess.Info.Name)
	assert.True(t, sess.Info.Provided)
}

func TestSearchReturnsPartitionedEvents(t *testing.T) {
	svc := testService(t)
	rec := doJSON(t, svc, http.MethodPost, "/api/v1/events/search", searchRequest{
		Keywords: []string{"AI", "engineers"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, true, body["success"])

	local := body["local_events"].([]any)
	shows := body["trade_shows"].([]any)
	require.Len(t, local, 1)
	require.Len(t, shows, 1)

	meetup := local[0].(map[string]any)
	assert.Equal(t, "AI Builders Meetup", meetup["name"])
	// Scores surface on a 0-100 scale.
	assert.GreaterOrEqual(t, meetup["business_value_score"].(float64), 75.0)
}

func TestSearchInvalidBody(t *testing.T) {
	svc := testService(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/search", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeMap(t, rec)["success"])
}

func TestRecommendationFallback(t *testing.T) {
	svc := testService(t)
	rec := doJSON(t, svc, http.MethodPost, "/api/v1/events/recommendation", recommendationRequest{
		Summary:  "a devtools startup",
		Keywords: []string{"devtools"},
		Goals:    []string{"find_buyers"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["cached"])

	recommendation := body["recommendation"].(map[string]any)
	strategies := recommendation["event_strategies"].([]any)
	require.NotEmpty(t, strategies)
	assert.Equal(t, "Find buyers", strategies[0].(map[string]any)["goal_title"])
}

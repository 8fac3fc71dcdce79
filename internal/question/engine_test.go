package question

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carolzy/networkai/internal/website"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "prefix stripped",
			response: "AI: What market are you in?",
			want:     "What market are you in?",
		},
		{
			name:     "asides removed",
			response: "What makes your product (the CRM one) unique [probe gently]?",
			want:     "What makes your product  unique ?",
		},
		{
			name:     "picks question line",
			response: "Sure, a suggestion follows below.\nWhat size of companies do you sell to?",
			want:     "What size of companies do you sell to?",
		},
		{
			name:     "no question returns trimmed text",
			response: "  Tell me about your team.  ",
			want:     "Tell me about your team.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanResponse(tt.response))
		})
	}
}

func TestQuestionFixedSteps(t *testing.T) {
	e := NewEngine(nil)

	got := e.Question(context.Background(), "event_interests", nil, nil, "")
	assert.Contains(t, got, "1. Find more buyers/users")
	assert.Contains(t, got, "4. Connect with strategic investors")

	assert.Equal(t, basicQuestions["product"], e.Question(context.Background(), "product", nil, nil, ""))
	assert.Equal(t, basicQuestions["complete"], e.Question(context.Background(), "complete", nil, nil, ""))
}

func TestQuestionCannedFallbackWithoutClient(t *testing.T) {
	e := NewEngine(nil)
	got := e.Question(context.Background(), "market", nil, nil, "")
	assert.Equal(t, basicQuestions["market"], got)
}

func TestBasicQuestionProfilePersonalization(t *testing.T) {
	e := NewEngine(nil)
	profile := map[string]string{"product": "inventory software", "market": "restaurants"}

	got := e.basicQuestion("unique_value", profile, nil)
	assert.Contains(t, got, "inventory software")
	assert.Contains(t, got, "restaurants")

	got = e.basicQuestion("company_size", profile, nil)
	assert.Contains(t, got, "inventory software")
}

func TestBasicQuestionWebsitePersonalization(t *testing.T) {
	e := NewEngine(nil)
	analysis := &website.Analysis{
		Industries:  []string{"hospitality", "food service", "retail", "logistics"},
		UniqueValue: "real-time stock tracking",
	}

	got := e.basicQuestion("market", nil, analysis)
	assert.Contains(t, got, "hospitality")
	assert.Contains(t, got, "retail")
	// Only the first three industries are mentioned.
	assert.NotContains(t, got, "logistics")

	got = e.basicQuestion("unique_value", nil, analysis)
	assert.Contains(t, got, "real-time stock tracking")
}

func TestBasicQuestionUnknownStep(t *testing.T) {
	e := NewEngine(nil)
	got := e.basicQuestion("no_such_step", nil, nil)
	assert.Equal(t, "Tell me more about your needs.", got)
}

func TestFollowUpImpatience(t *testing.T) {
	e := NewEngine(nil)
	for _, answer := range []string{"skip", "let's move on please", "NEXT", "that's enough"} {
		got := e.FollowUp(context.Background(), "market", nil, answer, 0)
		assert.Equal(t, "Let's move on to the next step.", got, "answer %q", answer)
	}
}

func TestFollowUpFallbackWithoutClient(t *testing.T) {
	e := NewEngine(nil)
	got := e.FollowUp(context.Background(), "market", nil, "we sell to restaurants", 1)
	assert.Equal(t, "Can you tell me more about that?", got)
}

func TestEventInterestsOptionsUnchanged(t *testing.T) {
	// The numbered options are parsed by callers and must stay stable.
	lines := strings.Split(basicQuestions["event_interests"], "\n")
	assert.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "1. "))
	assert.True(t, strings.HasPrefix(lines[4], "4. "))
}

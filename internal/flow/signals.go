package flow

import (
	"regexp"
	"strings"
)

var sentenceRe = regexp.MustCompile(`[.!?]+`)

var (
	painIndicators      = []string{"challenge", "problem", "difficult", "struggle", "pain", "issue", "worry", "concerned"}
	objectionIndicators = []string{"but ", "however", "not sure", "expensive", "costly", "not convinced", "doubt"}
	positiveIndicators  = []string{"great", "excellent", "amazing", "love", "excited", "interested", "perfect", "awesome"}
	skipIndicators      = []string{"skip", "next", "move on", "don't know", "not sure", "later"}
)

// trackSignals updates engagement metrics and rule-based sentiment signals
// from a stored answer.
func trackSignals(s *Session, answer string) {
	trimmed := strings.TrimSpace(answer)
	lower := strings.ToLower(answer)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case len(trimmed) < 10:
		s.Signals.ShortResponses++
	case len(trimmed) > 100:
		s.Signals.DetailedResponses++
	}
	if strings.Contains(answer, "?") {
		s.Signals.QuestionsAsked++
	}
	for _, indicator := range skipIndicators {
		if strings.Contains(lower, indicator) {
			s.Signals.SkippedQuestions++
			break
		}
	}

	s.Signals.PainPoints = appendMatches(s.Signals.PainPoints, answer, painIndicators)
	s.Signals.Objections = appendMatches(s.Signals.Objections, answer, objectionIndicators)
	s.Signals.PositiveReactions = appendMatches(s.Signals.PositiveReactions, answer, positiveIndicators)

	// Interest on a 0-10 scale from engagement counters.
	score := float64(s.Signals.DetailedResponses)*2 +
		float64(s.Signals.QuestionsAsked)*1.5 -
		float64(s.Signals.ShortResponses)*0.5 -
		float64(s.Signals.SkippedQuestions)
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	s.Signals.InterestLevel = score
}

// appendMatches collects the sentences of answer containing any of the
// indicator words, skipping sentences already recorded.
func appendMatches(existing []string, answer string, indicators []string) []string {
	lower := strings.ToLower(answer)
	matched := false
	for _, indicator := range indicators {
		if strings.Contains(lower, indicator) {
			matched = true
			break
		}
	}
	if !matched {
		return existing
	}

	for _, sentence := range sentenceRe.Split(answer, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		sentenceLower := strings.ToLower(sentence)
		for _, indicator := range indicators {
			if strings.Contains(sentenceLower, indicator) && !contains(existing, sentence) {
				existing = append(existing, sentence)
				break
			}
		}
	}
	return existing
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

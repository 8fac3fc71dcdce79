package flow

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/carolzy/networkai/internal/llm"
)

// rawKeywordLimit caps what a single generation pass may produce; the
// overall keyword list is capped separately by CleanKeywords.
const rawKeywordLimit = 15

// Extractor attempts to pull keywords out of a model completion. A nil or
// empty result means the extractor failed and the next one is tried.
type Extractor func(text string) []string

// extractorChain is the degradation ladder for keyword parsing: JSON array,
// quoted substrings, then heuristic line splitting. Callers append their
// own default generator as the final rung.
func extractorChain() []Extractor {
	return []Extractor{
		func(text string) []string {
			out, ok := llm.DecodeStringArray(text)
			if !ok {
				return nil
			}
			return out
		},
		llm.QuotedStrings,
		splitLines,
	}
}

// ExtractKeywords runs the ladder over a completion, falling back to
// defaults() when every extractor comes up empty.
func ExtractKeywords(completion string, defaults func() []string) []string {
	for _, extract := range extractorChain() {
		if out := extract(completion); len(out) > 0 {
			return capList(out, rawKeywordLimit)
		}
	}
	return defaults()
}

var (
	listMarkerRe = regexp.MustCompile(`^[\s\d\-*•.)]+`)
	trailPunctRe = regexp.MustCompile(`[,.;:!?]+$`)
	wordRe       = regexp.MustCompile(`\b[A-Za-z][A-Za-z-]{2,}\b`)
)

// splitLines treats each line of the completion as a candidate keyword,
// stripping list markers and trailing punctuation.
func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = listMarkerRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if len(line) <= 3 || strings.HasPrefix(line, "```") || strings.HasPrefix(line, "#") {
			continue
		}
		line = trailPunctRe.ReplaceAllString(line, "")
		if idx := strings.Index(line, ":"); idx > 0 && !strings.HasPrefix(line, "http") {
			line = strings.TrimSpace(line[:idx])
		}
		if line != "" && len(line) <= 50 {
			out = append(out, line)
		}
	}
	return out
}

// defaultKeywords synthesizes keywords from profile words plus a generic
// list per user type. Non-empty whenever any profile field is non-empty.
func defaultKeywords(s *Session) []string {
	var contextText string
	var generic []string
	if s.UserType == UserVC {
		contextText = s.SectorFocus + " " + s.InvestmentStage
		generic = []string{"investment", "venture capital", "startup", "funding", "technology"}
	} else {
		contextText = s.Product + " " + s.Market
		generic = []string{"startup", "innovation", "technology", "software", "business"}
	}

	seen := make(map[string]bool)
	var out []string
	for _, w := range wordRe.FindAllString(contextText, -1) {
		lower := strings.ToLower(w)
		if len(lower) > 3 && !seen[lower] {
			seen[lower] = true
			out = append(out, lower)
		}
		if len(out) >= 10 {
			break
		}
	}
	return append(out, generic...)
}

// CleanKeywords deduplicates (case-insensitive), drops empties, and caps
// the list at max entries. Order of first occurrence is preserved.
func CleanKeywords(keywords []string, max int) []string {
	if max <= 0 {
		max = 25
	}
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lower := strings.ToLower(kw)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, kw)
		if len(out) == max {
			break
		}
	}
	return out
}

// shuffleKeywords randomizes order for presentation variety. Not a ranking
// signal.
func shuffleKeywords(keywords []string) {
	rand.Shuffle(len(keywords), func(i, j int) {
		keywords[i], keywords[j] = keywords[j], keywords[i]
	})
}

func capList(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}

package llm

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

var (
	fenceRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	quotedRe = regexp.MustCompile(`"([^"]+)"`)
)

// StripFences removes markdown code fences from a completion. If the text
// contains a fenced block, the content of the first block is returned;
// otherwise the trimmed input is returned unchanged.
func StripFences(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// ExtractJSONArray locates the outermost JSON array in text, delimited by
// the first '[' and the last ']'. Returns false when no array is present.
func ExtractJSONArray(text string) (string, bool) {
	text = StripFences(text)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ExtractJSONObject locates the outermost JSON object in text, delimited by
// the first '{' and the last '}'. Returns false when no object is present.
func ExtractJSONObject(text string) (string, bool) {
	text = StripFences(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// DecodeStringArray parses a completion expected to contain a JSON array of
// strings. Non-string elements are skipped rather than failing the decode.
func DecodeStringArray(text string) ([]string, bool) {
	raw, ok := ExtractJSONArray(text)
	if !ok {
		return nil, false
	}
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// QuotedStrings returns all double-quoted substrings in text, in order.
func QuotedStrings(text string) []string {
	matches := quotedRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(m[1]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

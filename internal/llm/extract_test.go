package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "Here you go:\n```json\n[\"a\", \"b\"]\n```",
			expected: `["a", "b"]`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"k\": 1}\n```",
			expected: `{"k": 1}`,
		},
		{
			name:     "no fence",
			input:    "  plain text  ",
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripFences(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	raw, ok := ExtractJSONArray("The keywords are: [\"crm\", \"sales automation\"] — enjoy!")
	assert.True(t, ok)
	assert.Equal(t, `["crm", "sales automation"]`, raw)

	_, ok = ExtractJSONArray("no array here")
	assert.False(t, ok)
}

func TestDecodeStringArray(t *testing.T) {
	out, ok := DecodeStringArray("```json\n[\"alpha\", \"beta\", 42, \"\"]\n```")
	assert.True(t, ok)
	assert.Equal(t, []string{"alpha", "beta"}, out)

	// Truncated output never decodes.
	_, ok = DecodeStringArray(`["alpha", "bet`)
	assert.False(t, ok)
}

func TestQuotedStrings(t *testing.T) {
	out := QuotedStrings(`Some "first" and "second" values`)
	assert.Equal(t, []string{"first", "second"}, out)
	assert.Empty(t, QuotedStrings("nothing quoted"))
}

func TestExtractJSONObject(t *testing.T) {
	raw, ok := ExtractJSONObject("prefix {\"title\": \"x\"} suffix")
	assert.True(t, ok)
	assert.Equal(t, `{"title": "x"}`, raw)

	_, ok = ExtractJSONObject("}{")
	assert.False(t, ok)
}

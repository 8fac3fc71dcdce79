// Package website analyzes a user-supplied URL into a structured business
// profile used to enrich onboarding answers.
package website

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/carolzy/networkai/internal/llm"
)

// Analysis is the structured record produced for a website.
type Analysis struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Industries     []string `json:"industries"`
	TargetAudience string   `json:"target_audience"`
	UniqueValue    string   `json:"unique_value"`
	CompanySize    string   `json:"company_size"`
}

// Analyzer produces an Analysis for a URL. Implementations treat every
// failure as "no enrichment available" by returning an error.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*Analysis, error)
}

const maxPageChars = 6000

// LLMAnalyzer fetches a page and asks the model to extract a business
// profile from its visible text.
type LLMAnalyzer struct {
	client *llm.Client
	httpc  *http.Client
}

// NewLLMAnalyzer creates an analyzer backed by the given LLM client.
func NewLLMAnalyzer(client *llm.Client) *LLMAnalyzer {
	return &LLMAnalyzer{
		client: client,
		httpc:  &http.Client{Timeout: 15 * time.Second},
	}
}

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
	titleRe  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaRe   = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]+content=["']([^"']+)["']`)
)

// Analyze fetches the page at url and extracts a structured profile.
func (a *LLMAnalyzer) Analyze(ctx context.Context, url string) (*Analysis, error) {
	html, err := a.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("website: fetch %s: %w", url, err)
	}

	fallback := scrapeBasics(html)

	text := pageText(html)
	if text == "" {
		if fallback.Title == "" {
			return nil, fmt.Errorf("website: no extractable text at %s", url)
		}
		return fallback, nil
	}

	analysis, err := a.extract(ctx, url, text)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("LLM extraction failed, using scraped basics")
		if fallback.Title == "" && fallback.Description == "" {
			return nil, err
		}
		return fallback, nil
	}

	// Prefer the scraped title when the model returned none.
	if analysis.Title == "" {
		analysis.Title = fallback.Title
	}
	if analysis.Description == "" {
		analysis.Description = fallback.Description
	}
	return analysis, nil
}

func (a *LLMAnalyzer) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "networkai/1.0")

	resp, err := a.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (a *LLMAnalyzer) extract(ctx context.Context, url, text string) (*Analysis, error) {
	var sb strings.Builder
	sb.WriteString("You are analyzing a company website to build a B2B business profile.\n\n")
	sb.WriteString(fmt.Sprintf("Website URL: %s\n\nPage text:\n%s\n\n", url, text))
	sb.WriteString(`Extract the following fields and return ONLY a JSON object:
{
  "title": "the company or product name",
  "description": "one-sentence description of what the company does",
  "industries": ["industries the company serves"],
  "target_audience": "who the product is for",
  "unique_value": "the company's unique value proposition",
  "company_size": "size of companies targeted, if evident"
}
Use empty strings or empty arrays for fields that cannot be determined.`)

	completion, err := a.client.Generate(ctx, sb.String(), llm.Options{MaxTokens: 1024})
	if err != nil {
		return nil, err
	}

	raw, ok := llm.ExtractJSONObject(completion)
	if !ok {
		return nil, fmt.Errorf("website: no JSON object in completion")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("website: decode analysis: %w", err)
	}
	return &analysis, nil
}

// pageText strips markup and collapses whitespace, capped at maxPageChars.
func pageText(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) > maxPageChars {
		text = text[:maxPageChars]
	}
	return text
}

// scrapeBasics pulls the title and meta description straight from markup.
func scrapeBasics(html string) *Analysis {
	a := &Analysis{}
	if m := titleRe.FindStringSubmatch(html); m != nil {
		a.Title = strings.TrimSpace(m[1])
	}
	if m := metaRe.FindStringSubmatch(html); m != nil {
		a.Description = strings.TrimSpace(m[1])
	}
	return a
}

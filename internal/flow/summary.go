package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/carolzy/networkai/internal/llm"
	"github.com/carolzy/networkai/internal/website"
)

// refreshSummary regenerates the running free-text summary of the user and
// their business. On failure the previous summary is kept; if there is
// none, a basic summary is fabricated from the profile.
func (c *Controller) refreshSummary(ctx context.Context, s *Session) {
	s.mu.Lock()
	profile := s.Context()
	previous := s.Summary
	history := s.contextSummary()
	analysis := s.Analysis()
	s.mu.Unlock()

	summary := ""
	if c.client != nil && c.client.Available() {
		var sb strings.Builder
		sb.WriteString("Write a concise third-person summary of this user and their business, suitable for matching them to networking events.\n\n")
		sb.WriteString("Profile:\n")
		for k, v := range profile {
			if v != "" {
				sb.WriteString(fmt.Sprintf("- %s: %s\n", k, v))
			}
		}
		if analysis != nil {
			sb.WriteString(fmt.Sprintf("- website title: %s\n- website description: %s\n", analysis.Title, analysis.Description))
			if len(analysis.Industries) > 0 {
				sb.WriteString(fmt.Sprintf("- industries: %s\n", strings.Join(analysis.Industries, ", ")))
			}
		}
		if history != "" {
			sb.WriteString("\nConversation so far:\n")
			sb.WriteString(history)
		}
		if previous != "" {
			sb.WriteString("\nPrevious summary (refine, do not repeat verbatim):\n")
			sb.WriteString(previous)
		}
		sb.WriteString("\nRespond with the summary paragraph only.")

		completion, err := c.client.Generate(ctx, sb.String(), llm.Options{MaxTokens: 512})
		if err != nil {
			log.Warn().Err(err).Msg("Summary generation failed")
		} else {
			summary = strings.TrimSpace(completion)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if summary != "" {
		s.Summary = summary
		return
	}
	if s.Summary == "" && s.Product != "" && s.Market != "" {
		s.Summary = fmt.Sprintf("A company building %s for the %s market.", s.Product, s.Market)
	}
}

// regenerateKeywords rebuilds the keyword list from the current profile via
// the LLM, walking the extraction ladder on malformed output. The previous
// list survives a failed generation only through the default rung, which is
// non-empty whenever the profile is.
func (c *Controller) regenerateKeywords(ctx context.Context, s *Session) {
	s.mu.Lock()
	profile := s.Context()
	userType := s.UserType
	analysis := s.Analysis()
	s.mu.Unlock()

	defaults := func() []string { return defaultKeywords(s) }

	completion := ""
	if c.client != nil && c.client.Available() {
		var err error
		completion, err = c.client.Generate(ctx, keywordPrompt(userType, profile, analysis), llm.Options{MaxTokens: 1024})
		if err != nil {
			log.Warn().Err(err).Msg("Keyword generation failed, falling back to defaults")
		}
	}

	var keywords []string
	if completion != "" {
		keywords = ExtractKeywords(completion, defaults)
	} else {
		keywords = defaults()
	}

	keywords = CleanKeywords(keywords, c.maxKeywords)
	shuffleKeywords(keywords)

	s.mu.Lock()
	s.Keywords = keywords
	s.mu.Unlock()
	log.Debug().Int("count", len(keywords)).Msg("Keywords updated")
}

// keywordPrompt builds the generation prompt for the active user type,
// folding in website enrichment when present.
func keywordPrompt(userType UserType, profile map[string]string, analysis *website.Analysis) string {
	var sb strings.Builder
	sb.WriteString("You are a B2B sales assistant helping to generate relevant keywords for targeting.\n\nCurrent context:\n")

	if userType == UserVC {
		sb.WriteString(fmt.Sprintf("- Sector Focus: %s\n", profile["sector_focus"]))
		sb.WriteString(fmt.Sprintf("- Investment Stage: %s\n", profile["investment_stage"]))
		sb.WriteString(fmt.Sprintf("- Team Preferences: %s\n", profile["team_preferences"]))
		sb.WriteString(fmt.Sprintf("- Traction Requirements: %s\n", profile["traction_requirements"]))
		sb.WriteString("\nBased on this information, generate a list of 15 keywords that would be most relevant for this VC's investment interests. These should be specific phrases that startups or entrepreneurs might search for.\n")
	} else {
		sb.WriteString(fmt.Sprintf("- Product/Service: %s\n", profile["product"]))
		sb.WriteString(fmt.Sprintf("- Target Market: %s\n", profile["market"]))
		sb.WriteString(fmt.Sprintf("- Company Size: %s\n", profile["company_size"]))
		sb.WriteString(fmt.Sprintf("- Differentiation: %s\n", profile["differentiation"]))
		if analysis != nil {
			sb.WriteString(fmt.Sprintf("- Website Title: %s\n", analysis.Title))
			sb.WriteString(fmt.Sprintf("- Website Description: %s\n", analysis.Description))
			if len(analysis.Industries) > 0 {
				sb.WriteString(fmt.Sprintf("- Industries: %s\n", strings.Join(analysis.Industries, ", ")))
			}
		}
		sb.WriteString("\nBased on this information, generate a list of 15 keywords that would be most relevant for this company's B2B sales targeting. These should be specific phrases that potential customers might search for.\n")
	}

	sb.WriteString("\nFormat your response as a JSON array of strings.")
	return sb.String()
}

// Package question generates onboarding questions: LLM-personalized when
// possible, canned per-step text otherwise.
package question

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/carolzy/networkai/internal/llm"
	"github.com/carolzy/networkai/internal/website"
)

// eventInterestsQuestion keeps its numbered options verbatim; the caller's
// UI relies on them.
const eventInterestsQuestion = `What's your main goal for networking? Please select one of the following options:
1. Find more buyers/users of your product/service
2. Recruit talent for your team
3. Meet meaningful business partners
4. Connect with strategic investors`

// basicQuestions are the canned fallbacks per step.
var basicQuestions = map[string]string{
	"product":                  "What product or service does your company offer?",
	"event_interests":          eventInterestsQuestion,
	"market":                   "What market or industry are you targeting?",
	"unique_value":             "What makes your solution truly unique in the market?",
	"team_differentiation":     "How is your team uniquely positioned to deliver on your value proposition?",
	"use_case":                 "Can you share a specific example or use case that demonstrates your value?",
	"company_size":             "What size of companies are you targeting?",
	"website":                  "Do you have a company or product website URL you'd like to share? If you don't have one yet, just let us know!",
	"linkedin":                 "Would you like to connect your LinkedIn account to enhance recommendations?",
	"location":                 "What's your zip code for finding local events? (You can skip this)",
	"complete":                 "Thanks for providing all the information! We'll find great events for you.",
	"recruitment_roles":        "What roles are you currently trying to recruit for?",
	"recruitment_details":      "Can you tell me more about those roles? For example, what kind of engineers or specialists?",
	"company_culture":          "What makes your company attractive to candidates?",
	"recruitment_challenges":   "What challenges have you faced in recruiting so far?",
	"vc_sector_focus":          "What sector does your VC firm focus on?",
	"vc_investment_stage":      "What investment stage does your VC firm typically invest in?",
	"vc_team_preferences":      "What kind of team does your VC firm prefer to invest in?",
	"vc_traction_requirements": "What traction requirements does your VC firm have for investments?",
}

// Steps whose canned text is always used verbatim, never LLM-generated.
var fixedSteps = map[string]bool{
	"product":         true,
	"event_interests": true,
	"complete":        true,
}

// Engine builds questions for onboarding steps.
type Engine struct {
	client *llm.Client
}

// NewEngine creates a question engine backed by the given LLM client.
func NewEngine(client *llm.Client) *Engine {
	return &Engine{client: client}
}

// Question returns the question text for step. It never fails: LLM errors
// degrade to personalized canned text, then to generic canned text.
func (e *Engine) Question(ctx context.Context, step string, profile map[string]string, analysis *website.Analysis, previousMessage string) string {
	if fixedSteps[step] {
		return basicQuestions[step]
	}

	if e.client != nil && e.client.Available() {
		generated, err := e.generate(ctx, step, profile, previousMessage)
		if err != nil {
			log.Warn().Err(err).Str("step", step).Msg("Question generation failed, using canned question")
		} else if generated != "" {
			return generated
		}
	}

	return e.basicQuestion(step, profile, analysis)
}

func (e *Engine) generate(ctx context.Context, step string, profile map[string]string, previousMessage string) (string, error) {
	var sb strings.Builder
	sb.WriteString("You are NetworkAI, a friendly assistant helping a founder find networking events.\n\n")
	sb.WriteString("What we know so far:\n")
	for _, key := range []string{"product", "market", "differentiation", "company_size", "website", "sector_focus", "investment_stage"} {
		if v := profile[key]; v != "" {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", key, v))
		}
	}
	if previousMessage != "" {
		sb.WriteString(fmt.Sprintf("\nThe user's previous message: %q\n", previousMessage))
		sb.WriteString("If their message contains a question, briefly answer it first.\n")
	}
	sb.WriteString(fmt.Sprintf("\nGenerate one short, friendly, conversational question asking about their %s.\n", strings.ReplaceAll(step, "_", " ")))
	sb.WriteString("Reference their product or service if known. Respond with the question only.")

	completion, err := e.client.Generate(ctx, sb.String(), llm.Options{MaxTokens: 256})
	if err != nil {
		return "", err
	}
	return cleanResponse(completion), nil
}

var (
	prefixRe  = regexp.MustCompile(`^(AI:|Assistant:)\s*`)
	asidesRe  = regexp.MustCompile(`\[.*?\]|\(.*?\)`)
	leadersRe = regexp.MustCompile(`(?i)\b(what|how|why|when|where|which|can|could|would|will|do|does|is|are)\b`)
)

// cleanResponse reduces a completion to a single question line.
func cleanResponse(response string) string {
	response = prefixRe.ReplaceAllString(response, "")
	response = asidesRe.ReplaceAllString(response, "")

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, "?") || leadersRe.MatchString(line) {
			return line
		}
	}
	return strings.TrimSpace(response)
}

// basicQuestion personalizes the canned question from profile context and
// website enrichment when available.
func (e *Engine) basicQuestion(step string, profile map[string]string, analysis *website.Analysis) string {
	product := profile["product"]
	market := profile["market"]

	if analysis != nil {
		switch {
		case step == "market" && len(analysis.Industries) > 0:
			industries := strings.Join(analysis.Industries[:min(3, len(analysis.Industries))], ", ")
			return fmt.Sprintf("I see your website mentions %s. Are these the main industries you're targeting, or are there others?", industries)
		case step == "unique_value" && analysis.UniqueValue != "":
			return fmt.Sprintf("Your website suggests your unique value is related to %s. Could you elaborate on what makes this truly unique compared to competitors?", analysis.UniqueValue)
		case step == "company_size" && analysis.TargetAudience != "":
			return fmt.Sprintf("Based on your website, it seems you might be targeting %s. What specific company sizes are you focusing on?", analysis.TargetAudience)
		}
	}

	switch {
	case step == "market" && product != "":
		return fmt.Sprintf("What market or industry are you targeting with your %s?", product)
	case step == "company_size" && product != "":
		return fmt.Sprintf("What size of companies are you targeting with your %s?", product)
	case step == "unique_value" && product != "" && market != "":
		return fmt.Sprintf("What makes your %s truly unique in the %s market?", product, market)
	case step == "team_differentiation" && product != "":
		return fmt.Sprintf("How is your team uniquely positioned to deliver %s successfully?", product)
	case step == "use_case" && product != "" && market != "":
		return fmt.Sprintf("Can you share a specific example of how %s delivers value in the %s market?", product, market)
	}

	if q, ok := basicQuestions[step]; ok {
		return q
	}
	return "Tell me more about your needs."
}

// impatienceIndicators signal the user wants to move on rather than expand.
var impatienceIndicators = []string{
	"next", "continue", "move on", "skip", "enough", "done", "finish", "complete", "proceed",
}

// FollowUp returns a follow-up question for the current step. Impatient
// answers short-circuit to a transition phrase.
func (e *Engine) FollowUp(ctx context.Context, step string, profile map[string]string, previousAnswer string, followUpCount int) string {
	lower := strings.ToLower(previousAnswer)
	for _, indicator := range impatienceIndicators {
		if strings.Contains(lower, indicator) {
			return "Let's move on to the next step."
		}
	}

	if e.client != nil && e.client.Available() {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("The user was asked about their %s and answered: %q\n", strings.ReplaceAll(step, "_", " "), previousAnswer))
		if followUpCount > 0 {
			sb.WriteString(fmt.Sprintf("This is follow-up number %d on the same topic, so go deeper rather than repeating.\n", followUpCount+1))
		}
		sb.WriteString("Generate one short follow-up question that draws out a useful detail. Respond with the question only.")

		completion, err := e.client.Generate(ctx, sb.String(), llm.Options{MaxTokens: 256})
		if err == nil {
			if q := cleanResponse(completion); q != "" {
				return q
			}
		} else {
			log.Warn().Err(err).Str("step", step).Msg("Follow-up generation failed")
		}
	}

	return "Can you tell me more about that?"
}

package flow

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/carolzy/networkai/internal/llm"
	"github.com/carolzy/networkai/internal/question"
	"github.com/carolzy/networkai/internal/website"
)

// Controller drives the onboarding flow for a session: it stores answers,
// decides the next step, and keeps the summary and keyword list fresh.
// The caller supplies the session; the controller holds no per-user state.
type Controller struct {
	client      *llm.Client
	analyzer    website.Analyzer
	questions   *question.Engine
	maxKeywords int
}

// NewController wires a Controller from its collaborators. analyzer may be
// nil, in which case website enrichment is skipped.
func NewController(client *llm.Client, analyzer website.Analyzer, questions *question.Engine, maxKeywords int) *Controller {
	if maxKeywords <= 0 {
		maxKeywords = 25
	}
	return &Controller{
		client:      client,
		analyzer:    analyzer,
		questions:   questions,
		maxKeywords: maxKeywords,
	}
}

// AdvanceResult is the response of one question-answer cycle.
type AdvanceResult struct {
	CurrentStep  string   `json:"current_step"`
	NextStep     string   `json:"next_step"`
	NextQuestion string   `json:"next_question"`
	Keywords     []string `json:"keywords"`
}

// Advance stores the answer for step, determines the next step, and
// produces the next question. It never returns an error: every internal
// failure degrades to a usable default.
func (c *Controller) Advance(ctx context.Context, s *Session, step, answer string) AdvanceResult {
	c.StoreAnswer(ctx, s, step, answer)

	s.mu.Lock()
	next := Next(s.Mode, step)
	profile := s.Context()
	analysis := s.Analysis()
	historyLen := len(s.History)
	s.mu.Unlock()

	nextQuestion := c.questions.Question(ctx, next, profile, analysis, answer)

	var keywords []string
	if historyLen >= 2 {
		keywords = c.Keywords(ctx, s, c.maxKeywords)
	}

	return AdvanceResult{
		CurrentStep:  step,
		NextStep:     next,
		NextQuestion: nextQuestion,
		Keywords:     keywords,
	}
}

// StoreAnswer records the answer into the session history and profile,
// analyzing any URL it contains, then refreshes the summary and keywords
// concurrently.
func (c *Controller) StoreAnswer(ctx context.Context, s *Session, step, answer string) {
	s.mu.Lock()
	s.History = append(s.History, StepAnswer{Step: step, Answer: answer, At: time.Now()})
	s.mu.Unlock()

	trackSignals(s, answer)

	analysis := c.analyzeURLs(ctx, s, step, answer)

	if skip := c.applyAnswer(s, step, answer, analysis); skip {
		return
	}

	// Summary and keyword refresh are independent of each other.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.refreshSummary(ctx, s)
	}()
	go func() {
		defer wg.Done()
		c.regenerateKeywords(ctx, s)
	}()
	wg.Wait()
}

// analyzeURLs runs website analysis for the first URL in the answer and
// caches the result on the session. Failures mean no enrichment.
func (c *Controller) analyzeURLs(ctx context.Context, s *Session, step, answer string) *website.Analysis {
	if c.analyzer == nil {
		return nil
	}
	urls := website.ExtractURLs(answer)
	if len(urls) == 0 {
		return nil
	}

	analysis, err := c.analyzer.Analyze(ctx, urls[0])
	if err != nil {
		log.Warn().Err(err).Str("step", step).Str("url", urls[0]).Msg("Website analysis failed")
		return nil
	}

	log.Info().Str("step", step).Str("url", urls[0]).Msg("Website analysis succeeded")
	s.mu.Lock()
	s.Analyses[step] = analysis
	s.mu.Unlock()
	return analysis
}

var zipRe = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)

// affirmatives map a small set of consent words to true.
var affirmatives = map[string]bool{
	"yes": true, "sure": true, "ok": true, "okay": true, "y": true,
	"yep": true, "yeah": true, "definitely": true, "absolutely": true,
}

// applyAnswer writes the answer into the profile field owned by step,
// preferring structured website signals over the raw text. Returns true
// when downstream refresh should be skipped.
func (c *Controller) applyAnswer(s *Session, step, answer string, analysis *website.Analysis) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch step {
	case StepProduct:
		if analysis != nil && analysis.Title != "" {
			s.Product = analysis.Title
		} else {
			s.Product = answer
		}
		s.UserType = UserFounder

	case StepEventInterests:
		if answer == "skipped" {
			s.Signals.SkippedQuestions++
			return true
		}
		c.applyGoals(s, answer)

	case StepMarket:
		switch {
		case analysis != nil && len(analysis.Industries) > 0:
			s.Market = analysis.Industries[0]
		case analysis != nil && analysis.Title != "":
			s.Market = analysis.Title
		default:
			s.Market = answer
		}

	case StepCompanySize:
		if analysis != nil && analysis.CompanySize != "" {
			s.CompanySize = analysis.CompanySize
		} else {
			s.CompanySize = answer
		}

	case StepUniqueValue:
		if analysis != nil && analysis.UniqueValue != "" {
			s.Differentiation = analysis.UniqueValue
		} else {
			s.Differentiation = answer
		}

	case StepTeamDiff, StepUseCase:
		s.Differentiation = strings.TrimSpace(s.Differentiation + " " + answer)

	case StepLinkedIn:
		s.LinkedInConsent = affirmatives[strings.ToLower(strings.TrimSpace(answer))]

	case StepLocation:
		if m := zipRe.FindString(answer); m != "" {
			s.ZipCode = m
		} else {
			s.ZipCode = answer
		}

	case StepWebsite:
		s.Website = answer

	case StepRecruitmentRoles, StepRecruitmentDetails, StepCompanyCulture, StepRecruitmentChallenges:
		s.Differentiation = strings.TrimSpace(s.Differentiation + " " + answer)

	case StepVCSectorFocus:
		s.SectorFocus = answer
		s.UserType = UserVC
		s.Mode = ModeVC
	case StepVCInvestmentStage:
		s.InvestmentStage = answer
	case StepVCTeamPreferences:
		s.TeamPreferences = answer
	case StepVCTraction:
		s.Traction = answer
	}

	return false
}

// applyGoals parses the event_interests answer: a JSON array of goal tags,
// falling back to the legacy "a, b;primary=x" format. Caller holds s.mu.
func (c *Controller) applyGoals(s *Session, answer string) {
	var goals []string
	if err := json.Unmarshal([]byte(answer), &goals); err != nil {
		// Legacy format: comma-separated goals, optional ;primary=tag.
		parts := strings.Split(answer, ";")
		if len(parts) > 0 && parts[0] != "" {
			for _, g := range strings.Split(parts[0], ",") {
				if g = strings.TrimSpace(g); g != "" {
					goals = append(goals, g)
				}
			}
		}
		if len(parts) > 1 && strings.HasPrefix(parts[1], "primary=") {
			s.PrimaryGoal = strings.TrimSpace(strings.TrimPrefix(parts[1], "primary="))
		}
	}

	s.SelectedGoals = goals
	s.BuyerFocus = false
	s.RecruitmentFocus = false
	for _, g := range goals {
		switch g {
		case GoalFindBuyers:
			s.BuyerFocus = true
		case GoalRecruitTalent:
			s.RecruitmentFocus = true
		}
	}

	switch {
	case s.BuyerFocus && s.RecruitmentFocus:
		s.Mode = ModeFounderCombined
	case s.RecruitmentFocus:
		s.Mode = ModeFounderRecruiter
	default:
		s.Mode = ModeFounderBuyer
	}
	log.Info().Strs("goals", goals).Str("mode", string(s.Mode)).Msg("Selected goals applied")
}

// Keywords returns the cleaned keyword list, regenerating it first if the
// session has none yet.
func (c *Controller) Keywords(ctx context.Context, s *Session, max int) []string {
	s.mu.Lock()
	empty := len(s.Keywords) == 0
	s.mu.Unlock()

	if empty {
		c.regenerateKeywords(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return CleanKeywords(s.Keywords, max)
}

// NextQuestion returns the question text for a step without storing an
// answer first.
func (c *Controller) NextQuestion(ctx context.Context, s *Session, step, previousMessage string) string {
	s.mu.Lock()
	profile := s.Context()
	analysis := s.Analysis()
	s.mu.Unlock()
	return c.questions.Question(ctx, step, profile, analysis, previousMessage)
}

// FollowUp returns a follow-up question for the current step.
func (c *Controller) FollowUp(ctx context.Context, s *Session, step, previousAnswer string, count int) string {
	s.mu.Lock()
	profile := s.Context()
	s.mu.Unlock()
	return c.questions.FollowUp(ctx, step, profile, previousAnswer, count)
}

// Status summarizes the session for the caller.
type Status struct {
	SessionID    string   `json:"session_id"`
	UserType     UserType `json:"user_type"`
	Mode         Mode     `json:"mode"`
	Completeness float64  `json:"completeness"`
	Keywords     []string `json:"keywords"`
	Summary      string   `json:"user_summary"`
}

// Status reports the flow's current state.
func (c *Controller) Status(ctx context.Context, s *Session) Status {
	keywords := c.Keywords(ctx, s, c.maxKeywords)
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		SessionID:    s.ID,
		UserType:     s.UserType,
		Mode:         s.Mode,
		Completeness: s.CompletenessScore(),
		Keywords:     keywords,
		Summary:      s.Summary,
	}
}

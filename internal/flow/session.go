package flow

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carolzy/networkai/internal/website"
)

// UserType distinguishes founder and VC onboarding flows.
type UserType string

const (
	UserFounder UserType = "founder"
	UserVC      UserType = "vc"
)

// Goal tags selectable at the event_interests step.
const (
	GoalFindBuyers       = "find_buyers"
	GoalRecruitTalent    = "recruit_talent"
	GoalBusinessPartners = "business_partners"
	GoalInvestors        = "investors"
	GoalNetworking       = "networking"
)

// StepAnswer is one entry in the append-only conversation history.
type StepAnswer struct {
	Step   string    `json:"step"`
	Answer string    `json:"answer"`
	At     time.Time `json:"timestamp"`
}

// Signals tracks engagement metrics derived from answers.
type Signals struct {
	InterestLevel     float64  `json:"interest_level"`
	PainPoints        []string `json:"pain_points"`
	Objections        []string `json:"objections"`
	PositiveReactions []string `json:"positive_reactions"`
	QuestionsAsked    int      `json:"questions_asked"`
	DetailedResponses int      `json:"detailed_responses"`
	ShortResponses    int      `json:"short_responses"`
	SkippedQuestions  int      `json:"skipped_questions"`
}

// UserInfo holds contact details supplied outside the step flow.
type UserInfo struct {
	Name     string `json:"user_name"`
	Email    string `json:"email"`
	Company  string `json:"company_name"`
	Provided bool   `json:"has_provided_user_info"`
}

// Session is the accumulated state of one onboarding conversation. It is
// ephemeral: created on demand, reset in place, never persisted. All access
// goes through the session's mutex.
type Session struct {
	mu sync.Mutex

	ID       string
	UserType UserType
	Mode     Mode

	History []StepAnswer

	// Founder profile.
	Product         string
	Market          string
	CompanySize     string
	Differentiation string
	Website         string
	ZipCode         string
	LinkedInConsent bool

	// VC profile.
	SectorFocus     string
	InvestmentStage string
	TeamPreferences string
	Traction        string

	SelectedGoals    []string
	PrimaryGoal      string
	BuyerFocus       bool
	RecruitmentFocus bool

	Keywords []string
	Summary  string

	// Analyses caches website enrichment per step.
	Analyses map[string]*website.Analysis

	Signals Signals
	Info    UserInfo
}

// NewSession creates an empty founder session with a fresh ID.
func NewSession() *Session {
	return &Session{
		ID:       uuid.NewString(),
		UserType: UserFounder,
		Mode:     ModeFounderBuyer,
		Analyses: make(map[string]*website.Analysis),
	}
}

// Reset reinitializes all state, keeping the session ID.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.ID
	*s = Session{
		ID:       id,
		UserType: UserFounder,
		Mode:     ModeFounderBuyer,
		Analyses: make(map[string]*website.Analysis),
	}
	// The assignment above replaced s.mu with an unlocked mutex; re-lock it
	// so the deferred Unlock stays balanced.
	s.mu.Lock()
}

// HasGoal reports whether tag is among the selected goals.
func (s *Session) HasGoal(tag string) bool {
	for _, g := range s.SelectedGoals {
		if g == tag {
			return true
		}
	}
	return false
}

// Context returns the profile fields relevant to prompt construction,
// keyed the way the prompt templates expect.
func (s *Session) Context() map[string]string {
	ctx := make(map[string]string)
	if s.UserType == UserVC {
		ctx["sector_focus"] = s.SectorFocus
		ctx["investment_stage"] = s.InvestmentStage
		ctx["team_preferences"] = s.TeamPreferences
		ctx["traction_requirements"] = s.Traction
	} else {
		ctx["product"] = s.Product
		ctx["market"] = s.Market
		ctx["company_size"] = s.CompanySize
		ctx["differentiation"] = s.Differentiation
		ctx["website"] = s.Website
	}
	if s.LinkedInConsent {
		ctx["linkedin"] = "Yes"
	} else {
		ctx["linkedin"] = "No"
	}
	ctx["location"] = s.ZipCode
	return ctx
}

// Analysis returns the first cached website analysis, if any. The flow
// prefers structured enrichment from any step over none.
func (s *Session) Analysis() *website.Analysis {
	for _, a := range s.Analyses {
		if a != nil {
			return a
		}
	}
	return nil
}

// CompletenessScore scores profile completeness in [0,1]. Critical fields
// weigh 0.7, optional fields 0.3.
func (s *Session) CompletenessScore() float64 {
	var critical, optional []string
	if s.UserType == UserVC {
		critical = []string{s.SectorFocus, s.InvestmentStage}
		optional = []string{s.TeamPreferences, s.Traction}
	} else {
		critical = []string{s.Product, s.Market}
		optional = []string{s.Differentiation, s.CompanySize}
	}

	var criticalFilled, optionalFilled float64
	for _, v := range critical {
		if strings.TrimSpace(v) != "" {
			criticalFilled++
		}
	}
	for _, v := range optional {
		if strings.TrimSpace(v) != "" {
			optionalFilled += 0.5
		}
	}

	score := (criticalFilled/float64(len(critical)))*0.7 + (optionalFilled/float64(len(optional)))*0.3
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// SetInfo stores the user's contact details.
func (s *Session) SetInfo(info UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info.Provided = true
	s.Info = info
}

// SearchContext is the profile slice the event search needs.
type SearchContext struct {
	Keywords []string
	Summary  string
	UserType UserType
	Location string
	Website  string
	Goals    []string
}

// SearchContext snapshots the session fields used to build event queries.
func (s *Session) SearchContext() SearchContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	keywords := make([]string, len(s.Keywords))
	copy(keywords, s.Keywords)
	goals := make([]string, len(s.SelectedGoals))
	copy(goals, s.SelectedGoals)
	return SearchContext{
		Keywords: keywords,
		Summary:  s.Summary,
		UserType: s.UserType,
		Location: s.ZipCode,
		Website:  s.Website,
		Goals:    goals,
	}
}

// contextSummary flattens the conversation history into step: answer lines.
func (s *Session) contextSummary() string {
	var sb strings.Builder
	for _, entry := range s.History {
		sb.WriteString(entry.Step)
		sb.WriteString(": ")
		sb.WriteString(entry.Answer)
		sb.WriteString("\n")
	}
	return sb.String()
}

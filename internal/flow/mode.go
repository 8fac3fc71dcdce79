// Package flow implements the onboarding flow state machine: step
// sequencing, answer ingestion, profile accumulation, and keyword synthesis.
package flow

// Mode selects which ordered step sequence drives the onboarding flow.
type Mode string

const (
	ModeFounderBuyer     Mode = "founder-buyer"
	ModeFounderRecruiter Mode = "founder-recruiter"
	ModeFounderCombined  Mode = "founder-combined"
	ModeVC               Mode = "vc"
)

// StepComplete is the absorbing terminal step of every sequence.
const StepComplete = "complete"

// Step names shared across sequences.
const (
	StepProduct        = "product"
	StepEventInterests = "event_interests"
	StepMarket         = "market"
	StepUniqueValue    = "unique_value"
	StepTeamDiff       = "team_differentiation"
	StepUseCase        = "use_case"
	StepCompanySize    = "company_size"
	StepLinkedIn       = "linkedin"
	StepLocation       = "location"
	StepWebsite        = "website"

	StepRecruitmentRoles      = "recruitment_roles"
	StepRecruitmentDetails    = "recruitment_details"
	StepCompanyCulture        = "company_culture"
	StepRecruitmentChallenges = "recruitment_challenges"

	StepVCSectorFocus     = "vc_sector_focus"
	StepVCInvestmentStage = "vc_investment_stage"
	StepVCTeamPreferences = "vc_team_preferences"
	StepVCTraction        = "vc_traction_requirements"
)

var founderBuyerSteps = []string{
	StepProduct,
	StepEventInterests,
	StepMarket,
	StepUniqueValue,
	StepTeamDiff,
	StepUseCase,
	StepCompanySize,
	StepLinkedIn,
	StepLocation,
	StepComplete,
}

var founderRecruiterSteps = []string{
	StepProduct,
	StepEventInterests,
	StepRecruitmentRoles,
	StepRecruitmentDetails,
	StepCompanyCulture,
	StepRecruitmentChallenges,
	StepLinkedIn,
	StepLocation,
	StepComplete,
}

var founderCombinedSteps = []string{
	StepProduct,
	StepEventInterests,
	StepMarket,
	StepUniqueValue,
	StepTeamDiff,
	StepRecruitmentRoles,
	StepRecruitmentDetails,
	StepCompanyCulture,
	StepCompanySize,
	StepLinkedIn,
	StepLocation,
	StepComplete,
}

var vcSteps = []string{
	StepVCSectorFocus,
	StepVCInvestmentStage,
	StepVCTeamPreferences,
	StepVCTraction,
	StepLinkedIn,
	StepLocation,
	StepComplete,
}

// Steps returns the ordered step sequence for mode. The returned slice must
// not be modified.
func Steps(mode Mode) []string {
	switch mode {
	case ModeFounderRecruiter:
		return founderRecruiterSteps
	case ModeFounderCombined:
		return founderCombinedSteps
	case ModeVC:
		return vcSteps
	default:
		return founderBuyerSteps
	}
}

// Next returns the step that follows step in mode's sequence. An unknown
// step restarts the sequence at its first element. The last element and
// "complete" both map to "complete".
func Next(mode Mode, step string) string {
	if step == StepComplete {
		return StepComplete
	}
	steps := Steps(mode)
	for i, s := range steps {
		if s == step {
			if i == len(steps)-1 {
				return StepComplete
			}
			return steps[i+1]
		}
	}
	return steps[0]
}

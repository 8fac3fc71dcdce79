package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextFollowsSequence(t *testing.T) {
	for _, mode := range []Mode{ModeFounderBuyer, ModeFounderRecruiter, ModeFounderCombined, ModeVC} {
		steps := Steps(mode)
		for i, step := range steps[:len(steps)-1] {
			assert.Equal(t, steps[i+1], Next(mode, step), "mode %s step %s", mode, step)
		}
	}
}

func TestNextTerminal(t *testing.T) {
	for _, mode := range []Mode{ModeFounderBuyer, ModeFounderRecruiter, ModeFounderCombined, ModeVC} {
		steps := Steps(mode)
		last := steps[len(steps)-1]
		assert.Equal(t, StepComplete, Next(mode, last))
		// Terminal state is absorbing.
		assert.Equal(t, StepComplete, Next(mode, StepComplete))
	}
}

func TestNextUnknownStepRestarts(t *testing.T) {
	assert.Equal(t, StepProduct, Next(ModeFounderBuyer, "no_such_step"))
	assert.Equal(t, StepVCSectorFocus, Next(ModeVC, "no_such_step"))
}

func TestCombinedSequenceContainsBothBranches(t *testing.T) {
	steps := Steps(ModeFounderCombined)
	for _, want := range []string{StepMarket, StepUniqueValue, StepTeamDiff, StepRecruitmentRoles, StepRecruitmentDetails, StepCompanyCulture} {
		assert.Contains(t, steps, want)
	}
}

func TestRecruiterSequenceReplacesBuyerSteps(t *testing.T) {
	steps := Steps(ModeFounderRecruiter)
	assert.Contains(t, steps, StepRecruitmentRoles)
	assert.NotContains(t, steps, StepMarket)
	assert.NotContains(t, steps, StepUniqueValue)
	assert.NotContains(t, steps, StepTeamDiff)
}

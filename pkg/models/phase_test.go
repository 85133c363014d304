package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhase(t *testing.T) {
	t.Run("canonical names pass through", func(t *testing.T) {
		for _, phase := range ValidPhases {
			assert.Equal(t, phase, NormalizePhase(string(phase)))
		}
	})

	t.Run("empty falls back to first contact", func(t *testing.T) {
		assert.Equal(t, PhaseFirstContact, NormalizePhase(""))
		assert.Equal(t, PhaseFirstContact, NormalizePhase("   "))
	})

	t.Run("keyword inference", func(t *testing.T) {
		cases := map[string]Phase{
			"Abbruch im Mai":            PhaseAbandoned,
			"cancelled by student":      PhaseAbandoned,
			"alles fertig":              PhaseCompleted,
			"done":                      PhaseCompleted,
			"waiting to be graded":      PhaseReviewed,
			"Kolloquium am 12.3.":       PhaseDefended,
			"Abgabe next week":          PhaseSubmitted,
			"is writing":                PhaseWorking,
			"Anmeldung erfolgt":         PhaseRegistered,
			"Literaturrecherche":        PhaseLiteratureResearch,
			"Thema noch offen":          PhaseTopicDiscussion,
			"something unrecognizable":  PhaseFirstContact,
		}
		for input, want := range cases {
			assert.Equal(t, want, NormalizePhase(input), "input %q", input)
		}
	})

	t.Run("terminal states outrank earlier phases", func(t *testing.T) {
		// contains both "work" and "abandon"
		assert.Equal(t, PhaseAbandoned, NormalizePhase("stopped working, abandoned"))
		// contains both "arbeit" and "abgegeben"
		assert.Equal(t, PhaseSubmitted, NormalizePhase("Arbeit abgegeben"))
	})

	t.Run("display names", func(t *testing.T) {
		assert.Equal(t, "First Contact", PhaseFirstContact.DisplayName())
		assert.Equal(t, "Literature Research", PhaseLiteratureResearch.DisplayName())
	})
}

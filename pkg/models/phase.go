package models

import (
	"slices"
	"strings"
)

// Phase tracks where a thesis is in its lifecycle
type Phase string

const (
	PhaseFirstContact       Phase = "first_contact"
	PhaseTopicDiscussion    Phase = "topic_discussion"
	PhaseLiteratureResearch Phase = "literature_research"
	PhaseRegistered         Phase = "registered"
	PhaseWorking            Phase = "working"
	PhaseSubmitted          Phase = "submitted"
	PhaseDefended           Phase = "defended"
	PhaseReviewed           Phase = "reviewed"
	PhaseCompleted          Phase = "completed"
	PhaseAbandoned          Phase = "abandoned"
)

// ValidPhases lists all phases in lifecycle order
var ValidPhases = []Phase{
	PhaseFirstContact,
	PhaseTopicDiscussion,
	PhaseLiteratureResearch,
	PhaseRegistered,
	PhaseWorking,
	PhaseSubmitted,
	PhaseDefended,
	PhaseReviewed,
	PhaseCompleted,
	PhaseAbandoned,
}

func (p Phase) IsValid() bool {
	return slices.Contains(ValidPhases, p)
}

func (p Phase) String() string {
	return string(p)
}

// DisplayName returns the human readable label for the phase
func (p Phase) DisplayName() string {
	words := strings.Split(string(p), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

type phaseRule struct {
	keywords []string
	result   Phase
}

// phaseRules infer a phase from free-form status text. Rules are evaluated in
// order, terminal states first, so "working on review" resolves to reviewed
// rather than working.
var phaseRules = []phaseRule{
	{keywords: []string{"abandon", "abbruch", "cancelled"}, result: PhaseAbandoned},
	{keywords: []string{"complete", "done", "fertig", "finished"}, result: PhaseCompleted},
	{keywords: []string{"review", "begutacht", "graded"}, result: PhaseReviewed},
	{keywords: []string{"defend", "vortrag", "present", "kolloquium"}, result: PhaseDefended},
	{keywords: []string{"submit", "abgegeben", "abgabe"}, result: PhaseSubmitted},
	{keywords: []string{"work", "writing", "arbeit"}, result: PhaseWorking},
	{keywords: []string{"register", "anmeld"}, result: PhaseRegistered},
	{keywords: []string{"research", "recherch", "literature"}, result: PhaseLiteratureResearch},
	{keywords: []string{"topic", "thema"}, result: PhaseTopicDiscussion},
}

// NormalizePhase maps a free-form status string to a canonical Phase. Exact
// phase names pass through unchanged, anything else goes through keyword
// inference, and unrecognized text falls back to first_contact.
func NormalizePhase(raw string) Phase {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return PhaseFirstContact
	}

	if p := Phase(text); p.IsValid() {
		return p
	}

	for _, rule := range phaseRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.result
			}
		}
	}
	return PhaseFirstContact
}
